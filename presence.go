package changeset

import (
	"strconv"

	eng "github.com/reoring/changeset/internal/engine"
)

// Presence is the bit flag collected by UpdateWithMeta and CollectPresence.
type Presence uint8

const (
	PresenceSeen    Presence = 1 << iota // Member appeared in the document.
	PresenceWasNull                      // Member value was null.
)

// PresenceMap maps JSON Pointers to Presence flags. The root "/" is always
// marked seen.
type PresenceMap map[string]Presence

// Seen reports whether the top-level member name appeared in the document.
func (pm PresenceMap) Seen(name string) bool {
	return pm[Pointer(name)]&PresenceSeen != 0
}

// WasNull reports whether the top-level member name appeared with a null
// value.
func (pm PresenceMap) WasNull(name string) bool {
	return pm[Pointer(name)]&PresenceWasNull != 0
}

// Pointer builds a JSON Pointer from reference tokens, escaping each one.
func Pointer(tokens ...string) string {
	p := ""
	for _, t := range tokens {
		p += "/" + eng.EscapePointerToken(t)
	}
	if p == "" {
		return "/"
	}
	return p
}

// CollectPresence walks doc and records every member and array element it
// contains.
func CollectPresence(doc *Document) PresenceMap {
	pm := PresenceMap{"/": PresenceSeen}
	collectPresence(doc, "", pm)
	return pm
}

func collectPresence(v any, cur string, pm PresenceMap) {
	switch t := v.(type) {
	case *Document:
		for k, val := range t.All() {
			p := cur + "/" + eng.EscapePointerToken(k)
			mark(pm, p, val)
			collectPresence(val, p, pm)
		}
	case []any:
		for i, val := range t {
			p := cur + "/" + strconv.Itoa(i)
			mark(pm, p, val)
			collectPresence(val, p, pm)
		}
	}
}

func mark(pm PresenceMap, p string, v any) {
	pm[p] |= PresenceSeen
	if v == nil {
		pm[p] |= PresenceWasNull
	}
}
