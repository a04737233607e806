package changeset

// Tracked is anything that can compose a document of its pending changes.
// *Node implements it, and so does every struct that embeds Node.
type Tracked interface {
	PendingDocument() *Document
}

// fieldChange is one slot of the change registry: either a leaf value that
// was serialized when it was recorded, or a live reference to a child whose
// changes are composed on read.
type fieldChange struct {
	value  any
	nested Tracked
}

// Node records pending field changes of one entity and composes them into a
// partial-update document on demand.
//
// Each key holds at most one change; the last write for a key wins whether it
// was a leaf value or a nested child. Nested children are kept by reference,
// so changes made to a child after it was recorded still show up the next
// time the parent is composed.
//
// Node is not safe for concurrent use. A node and every child reachable from
// it must be confined to one goroutine or guarded by the caller.
//
// The zero value is a clean node ready to use, which lets entities embed it.
type Node struct {
	keys    []string
	changes map[string]fieldChange
}

// New returns a node with no pending changes.
func New() *Node { return &Node{} }

// FromDocument returns a node updated from a full server document. The
// result has no pending changes.
func FromDocument(doc *Document, p MemberParser) *Node {
	n := New()
	n.Update(doc, p)
	return n
}

// FromJSON decodes data and returns a node updated from it. Decoding errors
// are returned before p sees any member.
func FromJSON(data []byte, p MemberParser, opts ...DecodeOpt) (*Node, error) {
	doc, err := DecodeJSON(data, opts...)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, p), nil
}

// RecordBool records a boolean field change.
func (n *Node) RecordBool(key string, v bool) { n.record(key, fieldChange{value: v}) }

// RecordString records a string field change.
func (n *Node) RecordString(key string, v string) { n.record(key, fieldChange{value: v}) }

// RecordValue records a structured leaf value: a number, a slice, an array,
// a map or a *Document. Containers are copied deeply, typed ones included,
// so later changes to them are not reflected. Pointers and structs are
// stored as given. Use RecordNested for children whose later changes must be
// reflected.
func (n *Node) RecordValue(key string, v any) { n.record(key, fieldChange{value: cloneValue(v)}) }

// RecordNested records child as the pending value of key. The child is not
// serialized now; its own pending changes are composed every time the
// node's document is requested. A nil child records an explicit null.
func (n *Node) RecordNested(key string, child Tracked) {
	if child == nil {
		n.record(key, fieldChange{})
		return
	}
	n.record(key, fieldChange{nested: child})
}

func (n *Node) record(key string, c fieldChange) {
	if n.changes == nil {
		n.changes = make(map[string]fieldChange)
	}
	if _, ok := n.changes[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.changes[key] = c
}

// ClearPendingChanges drops every pending change.
func (n *Node) ClearPendingChanges() {
	n.keys = nil
	n.changes = nil
}

// HasPendingChanges reports whether any change was recorded since the node
// was created, updated or cleared. A node holding only nested children
// reports true even if those children are clean.
func (n *Node) HasPendingChanges() bool { return len(n.keys) > 0 }

// PendingDocument composes the pending changes into a new document, or
// returns nil when nothing is pending. Nested children are composed
// recursively; a child with nothing pending contributes an empty object.
//
// Children are held by reference until this call, but the result is a
// snapshot owned by the caller: changes made to the node or its children
// afterwards show up only in the next PendingDocument.
func (n *Node) PendingDocument() *Document {
	if n == nil || len(n.keys) == 0 {
		return nil
	}
	doc := &Document{keys: make([]string, 0, len(n.keys)), values: make(map[string]any, len(n.keys))}
	for _, k := range n.keys {
		c := n.changes[k]
		if c.nested == nil {
			doc.Set(k, cloneValue(c.value))
			continue
		}
		child := c.nested.PendingDocument()
		if child == nil {
			child = NewDocument()
		}
		doc.Set(k, child)
	}
	return doc
}

// PendingJSON serializes the pending document. It returns nil, nil when
// nothing is pending, which callers treat as "no request body".
func (n *Node) PendingJSON() ([]byte, error) {
	doc := n.PendingDocument()
	if doc == nil {
		return nil, nil
	}
	return doc.MarshalJSON()
}

// Update feeds every non-null member of doc to p in order and then clears
// all pending changes, since doc establishes a new baseline. Members whose
// value is null are skipped: a server-side null means "not present", not
// "clear the field". A nil p ignores every member.
func (n *Node) Update(doc *Document, p MemberParser) {
	for k, v := range doc.All() {
		if v == nil || p == nil {
			continue
		}
		p.ParseMember(k, v)
	}
	n.ClearPendingChanges()
}

// UpdateWithMeta is Update that also reports which members were present in
// doc and which of them were null.
func (n *Node) UpdateWithMeta(doc *Document, p MemberParser) PresenceMap {
	pm := CollectPresence(doc)
	n.Update(doc, p)
	return pm
}
