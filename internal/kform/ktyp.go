// Package kform is the let-normalized intermediate representation
// ("K-form"): atomic operands, explicit sequencing, and a closed set
// of structural types that the name mangler (internal/mangle) later
// collapses into nominal KTypName references.
package kform

import (
	"github.com/ficuslang/ficusc/internal/symtab"
	"github.com/ficuslang/ficusc/internal/token"
)

// KTyp is a K-form type. Every concrete type below corresponds to a
// one-letter (or composite) signature code in the name mangler's
// structural-to-string encoding table.
type KTyp interface {
	ktyp()
}

type KTypVoid struct{}
type KTypBool struct{}
type KTypChar struct{}
type KTypString struct{}
type KTypCPtr struct{}
type KTypExn struct{}

// KTypErr marks a type slot that should never survive past the type
// checker. Its presence anywhere in K-form after K-normalization is
// an Internal error.
type KTypErr struct{}

// KTypInt is the native machine int ('i' in the signature encoding),
// distinct from the explicitly-sized KTypFixed family.
type KTypInt struct{}

// KTypFixed is a fixed-width integer: int8/16/32/64 ('c','s','n','l')
// or uint8/16/32/64 ('b','w','u','q').
type KTypFixed struct {
	Bits   int // 8, 16, 32, 64
	Signed bool
}

// KTypFloat is float16/32/64 ('h','f','d').
type KTypFloat struct {
	Bits int // 16, 32, 64
}

// KTypTuple is an anonymous tuple type; the mangler rewrites every
// occurrence to a materialized KTypName.
type KTypTuple struct {
	Elems []KTyp
}

// KTypRecordField is one field of a record type.
type KTypRecordField struct {
	Name    string
	Typ     KTyp
	Default *Atom // nil if the field has no declared default
}

// KTypRecord is retained as a record after mangling, unlike the other
// structural shapes. Name is the nominal id assigned by the mangler;
// it is symtab.NONE until then.
type KTypRecord struct {
	Name   symtab.ID
	Fields []KTypRecordField
}

// KTypList is a reference-counted cons-list; the mangler rewrites
// every occurrence to KTypName.
type KTypList struct {
	Elem KTyp
}

// KTypRef is a reference-counted mutable cell; rewritten to KTypName
// by the mangler.
type KTypRef struct {
	Elem KTyp
}

// KTypFun is a function (closure) type; rewritten to KTypName by the
// mangler.
type KTypFun struct {
	Args []KTyp
	Ret  KTyp
}

// KTypArray is an N-dimensional array header (fx_arr_t). Arrays stay
// unnamed after mangling.
type KTypArray struct {
	Dims int
	Elem KTyp
}

// KTypName is a nominal reference to a KDefTyp or KDefVariant,
// resolved via the symbol table's K-form info slot.
type KTypName struct {
	ID symtab.ID
}

func (KTypVoid) ktyp()   {}
func (KTypBool) ktyp()   {}
func (KTypChar) ktyp()   {}
func (KTypString) ktyp() {}
func (KTypCPtr) ktyp()   {}
func (KTypExn) ktyp()    {}
func (KTypErr) ktyp()    {}
func (KTypInt) ktyp()    {}
func (KTypFixed) ktyp()  {}
func (KTypFloat) ktyp()  {}
func (KTypTuple) ktyp()  {}
func (KTypRecord) ktyp() {}
func (KTypList) ktyp()   {}
func (KTypRef) ktyp()    {}
func (KTypFun) ktyp()    {}
func (KTypArray) ktyp()  {}
func (KTypName) ktyp()   {}

// IsStructural reports whether t is one of the four structural shapes
// the mangler must rewrite to a KTypName after materialization:
// every occurrence of these left in K-form once mangling has finished
// is an internal error.
func IsStructural(t KTyp) bool {
	switch t.(type) {
	case KTypTuple, KTypList, KTypRef, KTypFun:
		return true
	default:
		return false
	}
}

// Ctx is the (ktyp, loc) pair every non-void K-expression carries.
type Ctx struct {
	Typ KTyp
	Loc token.Loc
}
