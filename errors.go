package changeset

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeInvalidType       = "invalid_type"
	CodeDuplicateKey      = "duplicate_key"
	CodeParseError        = "parse_error"
	CodeTruncated         = "truncated"
	CodeInvalidFormat     = "invalid_format"
	CodeMalformedDocument = "malformed_document"
)

// ErrMalformedDocument is the cause carried by every issue produced while
// decoding a document. Use errors.Is on the returned error to test for it.
var ErrMalformedDocument = errors.New("changeset: malformed document")

// Issue represents a single decoding problem.
type Issue struct {
	Path    string // JSON Pointer (for example: /parent/id).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	Offset  int64 // Byte offset in the input source (-1 when unknown).
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
		if iss[i].Message != "" {
			fmt.Fprintf(b, ": %s", iss[i].Message)
		}
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// Unwrap exposes the causes of all issues.
func (iss Issues) Unwrap() []error {
	var errs []error
	for _, it := range iss {
		if it.Cause != nil {
			errs = append(errs, it.Cause)
		}
	}
	return errs
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
