// Package cform is the statement-oriented C-form IR: expressions,
// statements, and named C types with the reference-counting/
// destructor/constructor properties internal/typegen attaches to each
// one.
package cform

import "github.com/ficuslang/ficusc/internal/symtab"

// CTyp is a C-form type. Every named (complex or scalar) type also
// gets a CDefTyp entry recording its TypeProps; CTypRawPtr/CTypRawArray
// and the primitive scalars below never do.
type CTyp interface{ ctyp() }

type CTypScalar struct{ Name string } // "int", "double", "fx_bool", ...
type CTypStruct struct {
	Name   symtab.ID
	Fields []CField
}
type CTypUnion struct {
	Name   symtab.ID
	Fields []CField
}
type CTypRawPtr struct{ Elem CTyp }
type CTypRawArray struct {
	Elem CTyp
	Len  int
}
type CTypArray struct{ Elem CTyp } // fx_arr_t-backed N-d array header
type CTypFunRawPtr struct {
	Args []CTyp
	Ret  CTyp
}

// CTypName is an opaque reference to a CDefTyp elsewhere in the
// module (or the runtime), resolved via the C-form info table.
type CTypName struct{ ID symtab.ID }

func (CTypScalar) ctyp()    {}
func (CTypStruct) ctyp()    {}
func (CTypUnion) ctyp()     {}
func (CTypRawPtr) ctyp()    {}
func (CTypRawArray) ctyp()  {}
func (CTypArray) ctyp()     {}
func (CTypFunRawPtr) ctyp() {}
func (CTypName) ctyp()      {}

// CField is one struct/union member.
type CField struct {
	Name string
	Typ  CTyp
}

// FnRef names a free function by its mangled C identifier and its
// owning CDefTyp id (NONE for a standalone helper).
type FnRef struct {
	Macro string // preferred for ptr-typed/primitive elements, e.g. "FX_FREE_INT"
	Fn    symtab.ID
}

// TypeProps are the per-named-type facts the generator tracks: how
// the type is passed, whether it owns heap memory, and which
// lifecycle functions it needs.
type TypeProps struct {
	Scalar     bool
	Complex    bool // needs a destructor
	Ptr        bool // pointer-sized, heap-allocated
	PassByRef  bool
	CustomCopy bool // needs a generated copy function, not a bitwise copy

	FreeMacro, FreeFn string
	CopyMacro, CopyFn string
	Ctors             []symtab.ID // constructor function ids, if any
}

// CDefTyp is one named C type: its layout plus its TypeProps.
type CDefTyp struct {
	Name  symtab.ID
	Layout CTyp
	Props TypeProps

	// Recursive marks a heap-allocated self-referential struct (a
	// recursive variant): its forward declaration and forward
	// destructor declaration must be emitted before any dependent type
	// is visited.
	Recursive bool

	// NilCaseIdx is >= 0 for a two-case recursive variant whose
	// payload-free case is represented as the null pointer rather than
	// an allocation.
	NilCaseIdx int

	// EnumName/EnumMembers is the companion `<name>_tag_t` enum for a
	// variant type; empty for non-variant types.
	EnumName    symtab.ID
	EnumMembers []EnumMember
}

type EnumMember struct {
	CaseName string
	Value    int
}

// Info is the C-form stage's slot in the parallel symbol tables.
type Info struct {
	Def *CDefTyp
}

func (i Info) IsPopulated() bool { return i.Def != nil }
