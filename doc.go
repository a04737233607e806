// Package changeset tracks pending field changes of API entities and builds
// minimal partial-update payloads from them.
//
// Every entity owns a Node. Setters record leaf values with RecordBool,
// RecordString or RecordValue, and sub-entities with RecordNested. Nested
// children are kept by reference and composed only when the payload is
// requested, so a child may keep changing after it was recorded:
//
//	folder := &Folder{}
//	file.RecordNested("parent", folder)
//	folder.RecordString("id", "123")
//	body, _ := file.PendingJSON() // {"parent":{"id":"123"}}
//
// Responses come back through the decoding boundary (DecodeJSON, DecodeYAML,
// DecodeDocument) as ordered Documents and are applied with Update, which
// hands each non-null member to the entity's MemberParser and then clears all
// pending changes.
//
// Layout:
//   - internal/engine holds the token model, ordered decoding and enforcement.
//   - source/json and source/gojson are token drivers (SetJSONDriver);
//     importing source for its side effect makes go-json the default.
//   - patch bridges pending documents and JSON merge patches.
//   - codec holds wire codecs for typed leaf values.
//   - examples/files is a small entity catalog built on Node.
package changeset
