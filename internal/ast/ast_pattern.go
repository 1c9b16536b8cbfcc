package ast

import (
	"github.com/ficuslang/ficusc/internal/kform"
)

// PatAny is `_`: matches anything, binds nothing.
type PatAny struct{ base }

func (p *PatAny) patternNode() {}

// PatIdent binds the scrutinee to Name (`x`).
type PatIdent struct {
	base
	Name ID
	T    kform.KTyp
}

func (p *PatIdent) patternNode() {}

// PatLit matches a literal exactly.
type PatLit struct {
	base
	Kind kform.LitKind
	I    int64
	F    float64
	B    bool
	C    rune
	S    string
}

func (p *PatLit) patternNode() {}

// PatAs is `pattern as name`: binds Name via copy, then continues
// matching Pattern.
type PatAs struct {
	base
	Pattern Pattern
	Name    ID
}

func (p *PatAs) patternNode() {}

type PatTuple struct {
	base
	Elems []Pattern
}

func (p *PatTuple) patternNode() {}

// PatRecord matches a record, or — when CaseName identifies a case of
// a multi-case variant — behaves like PatVariant.
type PatRecord struct {
	base
	TypeName string
	CaseName string // empty unless this pattern also selects a variant case
	Fields   map[string]Pattern
	// FieldOrder lists the record's declared field names in order,
	// resolved by the type checker, so the pattern compiler can emit
	// positional KExprMem accesses without re-deriving field order.
	FieldOrder []string
}

func (p *PatRecord) patternNode() {}

// PatVariant matches a variant case by name and destructures its
// payload.
type PatVariant struct {
	base
	TypeName string
	CaseName string
	Args     []Pattern
}

func (p *PatVariant) patternNode() {}

// PatCons is `head :: tail` against a list.
type PatCons struct {
	base
	Head, Tail Pattern
}

func (p *PatCons) patternNode() {}

// PatRef matches through a `ref` cell.
type PatRef struct {
	base
	Pattern Pattern
}

func (p *PatRef) patternNode() {}

// PatTyped restricts Pattern to values of type T.
type PatTyped struct {
	base
	Pattern Pattern
	T       kform.KTyp
}

func (p *PatTyped) patternNode() {}

// PatWhen attaches a boolean guard to Pattern, checked after every
// other sub-pattern of the enclosing case has matched.
type PatWhen struct {
	base
	Pattern Pattern
	Guard   Expr
}

func (p *PatWhen) patternNode() {}
