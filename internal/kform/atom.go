package kform

import "github.com/ficuslang/ficusc/internal/symtab"

// Atom is an operand of a K-form primitive. Every operand of a
// binary/unary/intrinsic/call must be an Atom after K-normalization.
type Atom interface {
	atom()
}

// AtomId is a reference to a bound identifier.
type AtomId struct {
	ID  symtab.ID
	Ctx Ctx
}

// LitKind distinguishes the shape of a literal's Go-side payload.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitChar
	LitString
	LitUnit // the sole value of type void, used as e.g. a branch with no else
)

// AtomLit is a literal operand.
type AtomLit struct {
	Kind LitKind
	I    int64
	F    float64
	B    bool
	C    rune
	S    string
	Ctx  Ctx
}

func (AtomId) atom()  {}
func (AtomLit) atom() {}

// AtomCtx extracts the (ktyp, loc) context from any Atom.
func AtomCtx(a Atom) Ctx {
	switch v := a.(type) {
	case AtomId:
		return v.Ctx
	case AtomLit:
		return v.Ctx
	default:
		return Ctx{}
	}
}
