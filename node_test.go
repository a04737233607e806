package changeset_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/changeset"
)

func pendingString(t *testing.T, n *changeset.Node) string {
	t.Helper()
	b, err := n.PendingJSON()
	if err != nil {
		t.Fatalf("pending json: %v", err)
	}
	return string(b)
}

func TestNode_CleanByDefault(t *testing.T) {
	n := changeset.New()
	if doc := n.PendingDocument(); doc != nil {
		t.Fatalf("expected nil document, got %s", doc)
	}
	b, err := n.PendingJSON()
	if err != nil || b != nil {
		t.Fatalf("expected no body, got %q %v", b, err)
	}
	if n.HasPendingChanges() {
		t.Fatalf("fresh node reports pending changes")
	}

	var zero changeset.Node
	if zero.PendingDocument() != nil {
		t.Fatalf("zero node must be clean")
	}
}

func TestNode_ScalarChange(t *testing.T) {
	n := changeset.New()
	n.RecordString("name", "Report.pdf")
	if got := pendingString(t, n); got != `{"name":"Report.pdf"}` {
		t.Fatalf("got %s", got)
	}
}

func TestNode_OverwriteWins(t *testing.T) {
	n := changeset.New()
	n.RecordString("name", "a")
	n.RecordBool("locked", true)
	n.RecordString("name", "b")
	if got := pendingString(t, n); got != `{"name":"b","locked":true}` {
		t.Fatalf("got %s", got)
	}
}

func TestNode_NestedPropagatesLaterChanges(t *testing.T) {
	parent := changeset.New()
	child := changeset.New()

	parent.RecordNested("parent", child)
	child.RecordString("id", "123")

	if got := pendingString(t, parent); got != `{"parent":{"id":"123"}}` {
		t.Fatalf("got %s", got)
	}

	child.RecordString("name", "Projects")
	if got := pendingString(t, parent); got != `{"parent":{"id":"123","name":"Projects"}}` {
		t.Fatalf("later child change not reflected, got %s", got)
	}
}

func TestNode_NestedCleanChildComposesEmptyObject(t *testing.T) {
	parent := changeset.New()
	parent.RecordNested("parent", changeset.New())

	if !parent.HasPendingChanges() {
		t.Fatalf("node with a nested entry must report pending changes")
	}
	if got := pendingString(t, parent); got != `{"parent":{}}` {
		t.Fatalf("got %s", got)
	}
}

func TestNode_NestedSeveralLevels(t *testing.T) {
	file := changeset.New()
	link := changeset.New()
	perms := changeset.New()

	file.RecordString("name", "a.txt")
	file.RecordNested("shared_link", link)
	link.RecordString("access", "company")
	link.RecordNested("permissions", perms)
	perms.RecordBool("can_download", false)

	want := `{"name":"a.txt","shared_link":{"access":"company","permissions":{"can_download":false}}}`
	if got := pendingString(t, file); got != want {
		t.Fatalf("got %s", got)
	}
}

func TestNode_LastWriteWinsAcrossKinds(t *testing.T) {
	n := changeset.New()
	child := changeset.New()
	child.RecordString("id", "1")

	n.RecordNested("parent", child)
	n.RecordValue("parent", nil)
	if got := pendingString(t, n); got != `{"parent":null}` {
		t.Fatalf("leaf written after nested must win, got %s", got)
	}

	n.RecordNested("parent", child)
	if got := pendingString(t, n); got != `{"parent":{"id":"1"}}` {
		t.Fatalf("nested written after leaf must win, got %s", got)
	}

	other := changeset.New()
	other.RecordString("id", "2")
	n.RecordNested("parent", other)
	if got := pendingString(t, n); got != `{"parent":{"id":"2"}}` {
		t.Fatalf("second nested child must replace the first, got %s", got)
	}
}

func TestNode_NilChildRecordsNull(t *testing.T) {
	n := changeset.New()
	n.RecordNested("parent", nil)
	if got := pendingString(t, n); got != `{"parent":null}` {
		t.Fatalf("got %s", got)
	}
}

func TestNode_ClearResets(t *testing.T) {
	n := changeset.New()
	child := changeset.New()
	n.RecordString("name", "x")
	n.RecordNested("parent", child)
	child.RecordString("id", "9")

	n.ClearPendingChanges()
	if doc := n.PendingDocument(); doc != nil {
		t.Fatalf("expected nil after clear, got %s", doc)
	}
	n.ClearPendingChanges()
	if n.HasPendingChanges() {
		t.Fatalf("clear must be idempotent")
	}
	if got := pendingString(t, child); got != `{"id":"9"}` {
		t.Fatalf("clearing the parent must not touch the child, got %s", got)
	}
}

func TestNode_IdempotentRead(t *testing.T) {
	n := changeset.New()
	child := changeset.New()
	n.RecordString("name", "x")
	n.RecordNested("parent", child)
	child.RecordBool("hidden", true)

	first := n.PendingDocument()
	second := n.PendingDocument()
	if diff := cmp.Diff(first.Map(), second.Map()); diff != "" {
		t.Fatalf("consecutive reads differ:\n%s", diff)
	}
	if pendingString(t, n) != pendingString(t, n) {
		t.Fatalf("serialization not stable")
	}
}

func TestNode_ReturnedDocumentIsDetached(t *testing.T) {
	n := changeset.New()
	n.RecordString("name", "x")
	doc := n.PendingDocument()
	doc.Set("name", "changed")
	doc.Set("extra", true)
	if got := pendingString(t, n); got != `{"name":"x"}` {
		t.Fatalf("mutating the composed document leaked into the node: %s", got)
	}
}

func TestNode_RecordValueCopies(t *testing.T) {
	n := changeset.New()
	tags := []any{"a", "b"}
	meta := changeset.NewDocument()
	meta.Set("k", "v")

	n.RecordValue("tags", tags)
	n.RecordValue("metadata", meta)
	n.RecordValue("size", json.Number("1024"))
	n.RecordValue("ratio", 0.5)
	tags[0] = "z"
	meta.Set("k", "changed")

	want := `{"tags":["a","b"],"metadata":{"k":"v"},"size":1024,"ratio":0.5}`
	if got := pendingString(t, n); got != want {
		t.Fatalf("got %s", got)
	}
}

func TestNode_KeyOrderIsFirstInsertion(t *testing.T) {
	n := changeset.New()
	n.RecordString("c", "1")
	n.RecordString("a", "2")
	n.RecordNested("b", changeset.New())
	n.RecordString("c", "3")
	if got := pendingString(t, n); got != `{"c":"3","a":"2","b":{}}` {
		t.Fatalf("got %s", got)
	}
}

func TestNode_SharedChildAcrossParents(t *testing.T) {
	shared := changeset.New()
	a := changeset.New()
	b := changeset.New()
	a.RecordNested("owned_by", shared)
	b.RecordNested("owned_by", shared)
	shared.RecordString("login", "ann@example.com")

	want := `{"owned_by":{"login":"ann@example.com"}}`
	if pendingString(t, a) != want || pendingString(t, b) != want {
		t.Fatalf("shared child not reflected in both parents")
	}
}

func TestNode_UnencodableValue(t *testing.T) {
	n := changeset.New()
	n.RecordValue("bad", make(chan int))
	if _, err := n.PendingJSON(); err == nil {
		t.Fatalf("expected encoding error")
	}
}

type recorder struct {
	names  []string
	values map[string]any
}

func (r *recorder) ParseMember(name string, v any) {
	r.names = append(r.names, name)
	if r.values == nil {
		r.values = map[string]any{}
	}
	r.values[name] = v
}

func TestNode_UpdateSkipsNull(t *testing.T) {
	doc, err := changeset.DecodeJSON([]byte(`{"name":null,"size":10}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r := &recorder{}
	n := changeset.New()
	n.Update(doc, r)

	if diff := cmp.Diff([]string{"size"}, r.names); diff != "" {
		t.Fatalf("parser calls mismatch:\n%s", diff)
	}
	if r.values["size"] != json.Number("10") {
		t.Fatalf("unexpected size value %#v", r.values["size"])
	}
	if n.PendingDocument() != nil {
		t.Fatalf("node must be clean after update")
	}
}

func TestNode_UpdateClearsPriorChanges(t *testing.T) {
	n := changeset.New()
	n.RecordString("description", "draft")
	n.RecordNested("parent", changeset.New())

	doc := changeset.NewDocument()
	doc.Set("id", "5")
	n.Update(doc, nil)
	if n.HasPendingChanges() {
		t.Fatalf("update must clear unrelated pending changes")
	}

	n.RecordString("description", "draft")
	n.Update(changeset.NewDocument(), nil)
	if n.HasPendingChanges() {
		t.Fatalf("update with an empty document must still clear")
	}
}

func TestNode_UpdateMemberOrder(t *testing.T) {
	doc, err := changeset.DecodeJSON([]byte(`{"z":1,"a":{"b":true},"m":[1,null]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r := &recorder{}
	changeset.New().Update(doc, r)
	if diff := cmp.Diff([]string{"z", "a", "m"}, r.names); diff != "" {
		t.Fatalf("member order mismatch:\n%s", diff)
	}
	if _, ok := r.values["a"].(*changeset.Document); !ok {
		t.Fatalf("nested objects must reach the parser as *Document, got %T", r.values["a"])
	}
}

func TestNode_UpdateWithMeta(t *testing.T) {
	doc, err := changeset.DecodeJSON([]byte(`{"name":null,"size":10,"parent":{"id":"1","etag":null}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var seen []string
	pm := changeset.New().UpdateWithMeta(doc, changeset.MemberParserFunc(func(name string, _ any) {
		seen = append(seen, name)
	}))

	if !pm.Seen("name") || !pm.WasNull("name") {
		t.Fatalf("name must be seen and null: %v", pm)
	}
	if !pm.Seen("size") || pm.WasNull("size") {
		t.Fatalf("size must be seen and not null: %v", pm)
	}
	if pm.Seen("owned_by") {
		t.Fatalf("absent member reported as seen")
	}
	if pm[changeset.Pointer("parent", "etag")] != changeset.PresenceSeen|changeset.PresenceWasNull {
		t.Fatalf("nested null not recorded: %v", pm)
	}
	if diff := cmp.Diff([]string{"size", "parent"}, seen); diff != "" {
		t.Fatalf("parser calls mismatch:\n%s", diff)
	}
}

func TestFromDocument(t *testing.T) {
	doc := changeset.NewDocument()
	doc.Set("name", "a")
	doc.Set("trashed_at", nil)
	r := &recorder{}
	n := changeset.FromDocument(doc, r)
	if n.HasPendingChanges() {
		t.Fatalf("constructed node must be clean")
	}
	if diff := cmp.Diff([]string{"name"}, r.names); diff != "" {
		t.Fatalf("parser calls mismatch:\n%s", diff)
	}
}

func TestFromJSON(t *testing.T) {
	r := &recorder{}
	n, err := changeset.FromJSON([]byte(`{"type":"file","id":"7"}`), r)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if n.HasPendingChanges() || len(r.names) != 2 {
		t.Fatalf("unexpected state: pending=%v calls=%v", n.HasPendingChanges(), r.names)
	}

	r = &recorder{}
	if _, err := changeset.FromJSON([]byte(`{"type":`), r); err == nil {
		t.Fatalf("expected malformed document error")
	}
	if len(r.names) != 0 {
		t.Fatalf("parser must not run on malformed input")
	}
}

func TestNode_RecordValueCopiesTypedCollections(t *testing.T) {
	n := changeset.New()
	ids := []string{"a", "b"}
	labels := map[string]string{"env": "prod"}
	counts := map[int]int{2: 20, 1: 10}
	raw := json.RawMessage(`{"k":1}`)

	n.RecordValue("ids", ids)
	n.RecordValue("labels", labels)
	n.RecordValue("counts", counts)
	n.RecordValue("matrix", [][]int{{1, 2}, {3}})
	n.RecordValue("raw", raw)
	ids[0] = "z"
	labels["env"] = "dev"
	counts[1] = 0
	raw[5] = '2'

	want := `{"ids":["a","b"],"labels":{"env":"prod"},"counts":{"1":10,"2":20},"matrix":[[1,2],[3]],"raw":{"k":1}}`
	if got := pendingString(t, n); got != want {
		t.Fatalf("got %s", got)
	}
}

func TestNode_PendingDocumentIsSnapshot(t *testing.T) {
	n := changeset.New()
	child := changeset.New()
	n.RecordNested("parent", child)
	child.RecordString("id", "1")

	before := n.PendingDocument()
	child.RecordString("id", "2")
	n.RecordBool("hidden", true)

	if got := before.String(); got != `{"parent":{"id":"1"}}` {
		t.Fatalf("earlier document changed: %s", got)
	}
	if got := n.PendingDocument().String(); got != `{"parent":{"id":"2"},"hidden":true}` {
		t.Fatalf("next document missed later changes: %s", got)
	}
}
