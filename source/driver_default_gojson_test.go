package source

import (
	"testing"

	"github.com/reoring/changeset"
)

func TestDefaultDriverIsGoJSON(t *testing.T) {
	if got := changeset.CurrentJSONDriver().Name(); got != "go-json" {
		t.Fatalf("driver = %q, want go-json", got)
	}
	doc, err := changeset.DecodeJSON([]byte(`{"b":1,"a":[true,null]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.String() != `{"b":1,"a":[true,null]}` {
		t.Fatalf("got %s", doc)
	}
}
