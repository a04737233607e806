package changeset

import (
	"io"

	eng "github.com/reoring/changeset/internal/engine"
)

// DetectJSONDuplicateKeysBytes reports duplicate object keys in data without
// building a document. Decoding keeps the last value of a duplicated key, so
// callers that care can run this first. maxIssues < 0 means unlimited.
func DetectJSONDuplicateKeysBytes(data []byte, strict Strictness, maxIssues int) (Issues, error) {
	si, err := eng.DetectJSONDuplicateKeysBytes(data, toEngineDup(strict.OnDuplicateKey), maxIssues)
	if err != nil {
		return nil, err
	}
	return fromEngineIssues(si), nil
}

// DetectJSONDuplicateKeysReader is DetectJSONDuplicateKeysBytes over a reader.
func DetectJSONDuplicateKeysReader(r io.Reader, strict Strictness, maxIssues int) (Issues, error) {
	si, err := eng.DetectJSONDuplicateKeysReader(r, toEngineDup(strict.OnDuplicateKey), maxIssues)
	if err != nil {
		return nil, err
	}
	return fromEngineIssues(si), nil
}

func fromEngineIssues(si []eng.SimpleIssue) Issues {
	var iss Issues
	for _, s := range si {
		iss = AppendIssues(iss, Issue{Code: s.Code, Path: s.Path, Message: s.Message, Offset: -1})
	}
	return iss
}
