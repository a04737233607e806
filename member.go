package changeset

// MemberParser interprets one named member of a server document and updates
// the typed fields of the entity that owns the node. Values are the decoded
// JSON values found in a Document: bool, string, json.Number (or float64),
// []any or *Document. Unknown members should be ignored.
type MemberParser interface {
	ParseMember(name string, value any)
}

// MemberParserFunc adapts a function to MemberParser.
type MemberParserFunc func(name string, value any)

// ParseMember calls f(name, value).
func (f MemberParserFunc) ParseMember(name string, value any) { f(name, value) }
