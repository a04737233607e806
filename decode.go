package changeset

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/reoring/changeset/i18n"
	eng "github.com/reoring/changeset/internal/engine"
)

// DecodeDocument consumes tokens from src and builds an ordered document.
// The input must hold exactly one JSON object. Every failure is reported as
// Issues wrapping ErrMalformedDocument.
func DecodeDocument(src Source, opts ...DecodeOpt) (*Document, error) {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	conv := eng.JSONNumber
	if src.NumberMode() == NumberFloat64 {
		conv = eng.Float64
	}
	ts := enforce(src, opt)
	v, err := eng.DecodeValue(ts, conv)
	if err != nil {
		return nil, malformed(err)
	}
	if err := eng.ExpectEOF(ts); err != nil {
		return nil, malformed(err)
	}
	obj, ok := v.(*eng.Object)
	if !ok {
		return nil, malformedIssue(CodeInvalidType, "/", "expected a JSON object", nil)
	}
	return fromEngineObject(obj), nil
}

// DecodeJSON decodes a JSON object held in data with the current driver.
func DecodeJSON(data []byte, opts ...DecodeOpt) (*Document, error) {
	if len(opts) > 0 && opts[len(opts)-1].MaxBytes > 0 && int64(len(data)) > opts[len(opts)-1].MaxBytes {
		return nil, malformedIssue(CodeTruncated, "/", "max bytes exceeded", nil)
	}
	return DecodeDocument(JSONBytes(data), opts...)
}

// DecodeJSONReader decodes a JSON object read from r with the current driver.
// When MaxBytes is set the input is capped before decoding starts.
func DecodeJSONReader(r io.Reader, opts ...DecodeOpt) (*Document, error) {
	if len(opts) > 0 && opts[len(opts)-1].MaxBytes > 0 {
		limit := opts[len(opts)-1].MaxBytes
		data, err := io.ReadAll(io.LimitReader(r, limit+1))
		if err != nil {
			return nil, malformed(err)
		}
		return DecodeJSON(data, opts...)
	}
	return DecodeDocument(JSONReader(r), opts...)
}

// DecodeYAML decodes the first YAML document in data, which must be a
// mapping. Aliases are expanded; an alias that refers to its own anchor is
// malformed. DecodeOpt applies as it does to JSON input.
func DecodeYAML(data []byte, opts ...DecodeOpt) (*Document, error) {
	var opt DecodeOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, malformedIssue(CodeTruncated, "/", "max bytes exceeded", nil)
	}
	var n yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&n); err != nil {
		return nil, malformed(err)
	}
	v, err := (&yamlDecoder{opt: opt}).value(&n, "", 0)
	if err != nil {
		return nil, malformed(err)
	}
	doc, ok := v.(*Document)
	if !ok {
		return nil, malformedIssue(CodeInvalidType, "/", "expected a YAML mapping", nil)
	}
	return doc, nil
}

func fromEngineObject(obj *eng.Object) *Document {
	doc := &Document{values: make(map[string]any, len(obj.Members))}
	for _, m := range obj.Members {
		doc.Set(m.Key, fromEngineValue(m.Value))
	}
	return doc
}

func fromEngineValue(v any) any {
	switch t := v.(type) {
	case *eng.Object:
		return fromEngineObject(t)
	case []any:
		for i := range t {
			t[i] = fromEngineValue(t[i])
		}
		return t
	default:
		return v
	}
}

func malformed(err error) Issues {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return malformedIssue(ie.Code, ie.Path, ie.Message, nil)
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return malformedIssue(CodeParseError, "/", err.Error(), err)
}

func malformedIssue(code, path, detail string, cause error) Issues {
	msg := i18n.T(code, nil)
	if detail != "" {
		msg += ": " + detail
	}
	wrapped := ErrMalformedDocument
	if cause != nil {
		wrapped = fmt.Errorf("%w: %w", ErrMalformedDocument, cause)
	}
	return AppendIssues(nil, Issue{Path: path, Code: code, Message: msg, Cause: wrapped, Offset: -1})
}
