package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
}

// DetectJSONDuplicateKeysBytes scans data for duplicate object keys without
// building a value tree. maxIssues < 0 means unlimited; 0 disables reporting.
func DetectJSONDuplicateKeysBytes(data []byte, onDup DuplicateStrictness, maxIssues int) ([]SimpleIssue, error) {
	return DetectJSONDuplicateKeysReader(bytes.NewReader(data), onDup, maxIssues)
}

// DetectJSONDuplicateKeysReader is DetectJSONDuplicateKeysBytes over a reader.
// The reader is consumed fully.
func DetectJSONDuplicateKeysReader(r io.Reader, onDup DuplicateStrictness, maxIssues int) ([]SimpleIssue, error) {
	if onDup == DupIgnore {
		return nil, nil
	}
	var issues []SimpleIssue
	add := func(si SimpleIssue) {
		if maxIssues == 0 {
			return
		}
		issues = append(issues, si)
		if maxIssues > 0 && len(issues) == maxIssues {
			issues = append(issues, SimpleIssue{Code: CodeTruncated, Path: "/", Message: "max issues reached"})
		}
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	src := WrapWithEnforcement(&stdTokens{dec: dec}, EnforceOptions{OnDuplicate: onDup, IssueSink: add})

	for {
		_, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return issues, nil
		}
		var ie IssueError
		if errors.As(err, &ie) {
			// already delivered through the sink
			return issues, nil
		}
		if err != nil {
			add(SimpleIssue{Code: CodeParseError, Path: "/", Message: err.Error()})
			return issues, nil
		}
		if maxIssues > 0 && len(issues) > maxIssues {
			return issues, nil
		}
	}
}

// stdTokens is a bare encoding/json token stream used by the detector.
type stdTokens struct {
	dec  *json.Decoder
	keys KeyTracker
}

func (s *stdTokens) NextToken() (Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return Token{}, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			s.keys.Open(true)
			return Token{Kind: KindBeginObject}, nil
		case '[':
			s.keys.Open(false)
			return Token{Kind: KindBeginArray}, nil
		case '}':
			s.keys.Close()
			return Token{Kind: KindEndObject}, nil
		default:
			s.keys.Close()
			return Token{Kind: KindEndArray}, nil
		}
	case string:
		if s.keys.Key() {
			return Token{Kind: KindKey, String: v}, nil
		}
		s.keys.ValueDone()
		return Token{Kind: KindString, String: v}, nil
	case bool:
		s.keys.ValueDone()
		return Token{Kind: KindBool, Bool: v}, nil
	case json.Number:
		s.keys.ValueDone()
		return Token{Kind: KindNumber, Number: string(v)}, nil
	default:
		s.keys.ValueDone()
		return Token{Kind: KindNull}, nil
	}
}

func (s *stdTokens) Location() int64 { return s.dec.InputOffset() }
