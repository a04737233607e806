// Package patch bridges pending-change documents and JSON merge patches
// (RFC 7386).
//
// A pending document is a merge patch. Nested children with nothing pending
// compose to an empty object, so they never delete a member on the server;
// only explicitly recorded nulls do. Apply previews what the server state
// would look like after the update request; Between derives the pending
// document that turns one full document into another.
package patch

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/reoring/changeset"
)

// Apply merges pending onto baseline. A nil pending document returns baseline
// unchanged.
func Apply(baseline []byte, pending *changeset.Document) ([]byte, error) {
	if pending == nil {
		return baseline, nil
	}
	p, err := pending.MarshalJSON()
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(baseline, p)
	if err != nil {
		return nil, wrap(err)
	}
	return out, nil
}

// ApplyNode merges the pending changes of t onto baseline.
func ApplyNode(baseline []byte, t changeset.Tracked) ([]byte, error) {
	return Apply(baseline, t.PendingDocument())
}

// Between returns the merge patch that turns original into modified as an
// ordered document, or nil when both are equal. Removed members appear with
// a null value.
func Between(original, modified []byte) (*changeset.Document, error) {
	p, err := jsonpatch.CreateMergePatch(original, modified)
	if err != nil {
		return nil, wrap(err)
	}
	doc, err := changeset.DecodeJSON(p)
	if err != nil {
		return nil, err
	}
	if doc.Len() == 0 {
		return nil, nil
	}
	return doc, nil
}

// Record copies every member of a patch document onto n as leaf changes.
// Nested objects are recorded whole.
func Record(n *changeset.Node, doc *changeset.Document) {
	for k, v := range doc.All() {
		switch t := v.(type) {
		case bool:
			n.RecordBool(k, t)
		case string:
			n.RecordString(k, t)
		default:
			n.RecordValue(k, v)
		}
	}
}

func wrap(err error) error { return fmt.Errorf("patch: %w", err) }
