package symtab

import "fmt"

// Kind distinguishes the three identifier shapes this compiler mints:
// an unresolved textual Name used only in parser fragments, a
// user-visible Val, and a compiler-generated Temp.
type Kind uint8

const (
	KindName Kind = iota
	KindVal
	KindTemp
)

// ID is a tagged identifier. Num (together with Kind) determines
// identity and the prefix is purely descriptive: Key() drops Prefix
// and is the map key to use wherever prefixes may differ. Go's struct
// equality on ID compares Prefix too; it agrees with Key() for ids
// minted by NewID, which never reuses a Num under another prefix.
type ID struct {
	Kind   Kind
	Prefix string
	Num    int
}

// NONE is the distinguished empty id.
var NONE = ID{}

func (id ID) IsNone() bool { return id == NONE }

// Key returns the part of ID that participates in equality/hashing,
// for callers that want an explicit map key distinct from the
// display-only Prefix.
type Key struct {
	Kind Kind
	Num  int
}

func (id ID) Key() Key { return Key{Kind: id.Kind, Num: id.Num} }

func (id ID) String() string {
	if id.IsNone() {
		return "<none>"
	}
	switch id.Kind {
	case KindName:
		return id.Prefix
	case KindTemp:
		return fmt.Sprintf("%s@@%d", id.Prefix, id.Num)
	default:
		return fmt.Sprintf("%s@%d", id.Prefix, id.Num)
	}
}
