package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	if msg := T("malformed_document", nil); msg != "malformed document" {
		t.Fatalf("expected english message, got %q", msg)
	}

	SetLanguage("ja")
	defer SetLanguage("en")
	if msg := T("malformed_document", nil); msg == "malformed document" || msg == "" {
		t.Fatalf("expected japanese message, got %q", msg)
	}
}

func TestTranslator_UnknownCodeAndKey(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("unknown codes should echo, got %q", msg)
	}
	if msg := T("duplicate_key", map[string]string{"key": "name"}); msg != "duplicate key (name)" {
		t.Fatalf("unexpected message %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if msg := T("parse_error", nil); msg != "X:parse_error" {
		t.Fatalf("custom translator not used, got %q", msg)
	}
}
