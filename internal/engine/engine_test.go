package engine

import (
	"encoding/json"
	"errors"
	"io"
	"testing"
)

type tokens struct{ toks []Token }

func (s *tokens) NextToken() (Token, error) {
	if len(s.toks) == 0 {
		return Token{}, io.EOF
	}
	t := s.toks[0]
	s.toks = s.toks[1:]
	return t, nil
}
func (s *tokens) Location() int64 { return -1 }

func TestDecodeValue_KeepsOrderAndDuplicates(t *testing.T) {
	src := &tokens{toks: []Token{
		{Kind: KindBeginObject},
		{Kind: KindKey, String: "b"},
		{Kind: KindNumber, Number: "1"},
		{Kind: KindKey, String: "a"},
		{Kind: KindNull},
		{Kind: KindKey, String: "b"},
		{Kind: KindBeginArray},
		{Kind: KindBool, Bool: true},
		{Kind: KindEndArray},
		{Kind: KindEndObject},
	}}
	v, err := DecodeValue(src, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	obj := v.(*Object)
	if len(obj.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(obj.Members))
	}
	if obj.Members[0].Key != "b" || obj.Members[0].Value != json.Number("1") {
		t.Fatalf("unexpected first member %+v", obj.Members[0])
	}
	if obj.Members[1].Value != nil {
		t.Fatalf("null must decode as nil")
	}
	if arr, ok := obj.Members[2].Value.([]any); !ok || len(arr) != 1 || arr[0] != true {
		t.Fatalf("unexpected array %#v", obj.Members[2].Value)
	}
	if err := ExpectEOF(src); err != nil {
		t.Fatalf("expected clean end: %v", err)
	}
}

func TestDecodeValue_Truncated(t *testing.T) {
	src := &tokens{toks: []Token{{Kind: KindBeginObject}, {Kind: KindKey, String: "a"}}}
	if _, err := DecodeValue(src, nil); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}
}

func TestExpectEOF_Trailing(t *testing.T) {
	src := &tokens{toks: []Token{{Kind: KindNull}}}
	if err := ExpectEOF(src); !errors.Is(err, ErrTrailingData) {
		t.Fatalf("expected ErrTrailingData, got %v", err)
	}
}

func TestFloat64(t *testing.T) {
	v, err := Float64("2.5e1")
	if err != nil || v != 25.0 {
		t.Fatalf("got %v %v", v, err)
	}
	if _, err := Float64("x"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestEnforce_ArrayIndexPath(t *testing.T) {
	src := WrapWithEnforcement(&tokens{toks: []Token{
		{Kind: KindBeginObject},
		{Kind: KindKey, String: "entries"},
		{Kind: KindBeginArray},
		{Kind: KindBeginObject},
		{Kind: KindEndObject},
		{Kind: KindBeginObject},
		{Kind: KindKey, String: "a/b"},
		{Kind: KindNull},
		{Kind: KindKey, String: "a/b"},
	}}, EnforceOptions{OnDuplicate: DupError})
	var err error
	for err == nil {
		_, err = src.NextToken()
	}
	var ie IssueError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IssueError, got %v", err)
	}
	if ie.Code != CodeDuplicateKey || ie.Path != "/entries/1/a~1b" {
		t.Fatalf("unexpected issue %+v", ie.SimpleIssue)
	}
}

func TestEnforce_Disabled(t *testing.T) {
	if !(EnforceOptions{}).Disabled() {
		t.Fatalf("zero options must be disabled")
	}
	if (EnforceOptions{MaxDepth: 1}).Disabled() {
		t.Fatalf("depth limit enables enforcement")
	}
}

func TestKeyTracker(t *testing.T) {
	var k KeyTracker
	if k.Key() {
		t.Fatalf("top level strings are values")
	}
	k.Open(true)
	if !k.Key() {
		t.Fatalf("first string in an object is a key")
	}
	if k.Key() {
		t.Fatalf("second string is the value")
	}
	k.ValueDone()
	k.Open(false)
	if k.Key() {
		t.Fatalf("strings in arrays are values")
	}
	k.Close()
	if !k.Key() {
		t.Fatalf("after a nested container the object expects a key again")
	}
}
