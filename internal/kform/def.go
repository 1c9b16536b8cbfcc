package kform

import "github.com/ficuslang/ficusc/internal/symtab"

// KDefVal is a single captured-variable binding, the unit KDefFun
// bodies and pat_simple_unpack both emit.
type KDefVal struct {
	CtxV    Ctx
	Name    symtab.ID
	Typ     KTyp
	Value   Expr
	Mutable bool // set by assignment lowering
	TempRef bool // lifetime-bound to one enclosing expression
}

func (d *KDefVal) ExprCtx() Ctx { return d.CtxV }

// KParam is one formal parameter of a KDefFun.
type KParam struct {
	Name symtab.ID
	Typ  KTyp
}

// FunFlags mirrors the declaration-site facts every KDefFun carries.
type FunFlags struct {
	CCode       bool // body is inline C, not a K-expression
	Pure        bool
	Ctor        bool // auto-generated variant-case constructor
	NoThrow     bool
	Private     bool
	HasKeywords bool
}

// ClosureInfo records the extra nominal types a nested function needs
// once it captures free variables: the free-variable
// struct, the function-pointer type, the "make fp" constructor, and
// the thin wrapper used when the closure is passed where a plain
// function pointer is expected.
type ClosureInfo struct {
	FreeVarStructID symtab.ID
	FpTypeID        symtab.ID
	MakeFpID        symtab.ID
	WrapID          symtab.ID
}

type KDefFun struct {
	CtxV    Ctx
	Name    symtab.ID
	Args    []KParam
	RetType KTyp
	Body    Expr
	Flags   FunFlags
	Closure ClosureInfo
}

func (d *KDefFun) ExprCtx() Ctx { return d.CtxV }

// IsNestedWithCaptures reports whether this function still needs
// closure conversion, i.e. it was not (or could not be) lambda-lifted.
func (d *KDefFun) IsNestedWithCaptures() bool {
	return d.Closure.FreeVarStructID != symtab.NONE
}

// KDefTyp names a structural type (tuple/record/list/ref/function)
// materialized by the mangler, or a user type alias / single-case
// record-variant lowered directly by the K-normalizer to a KDefTyp
// with a record body.
type KDefTyp struct {
	CtxV Ctx
	Name symtab.ID
	Body KTyp
}

func (d *KDefTyp) ExprCtx() Ctx { return d.CtxV }

// KVariantCase is one case of a KDefVariant.
type KVariantCase struct {
	Name    string
	Tag     int
	Payload KTyp // nil/KTypVoid for a payload-free case
	Ctor    symtab.ID
}

// VariantFlags records the shape facts the C-form type generator
// needs.
type VariantFlags struct {
	Recursive bool
	Option    bool // tags start at 0 to reserve 0 for the nil case
	NilCase   int  // index of the nullable case, -1 if none
}

type KDefVariant struct {
	CtxV  Ctx
	Name  symtab.ID
	Cases []KVariantCase
	Flags VariantFlags
}

func (d *KDefVariant) ExprCtx() Ctx { return d.CtxV }

type KDefExn struct {
	CtxV Ctx
	Name symtab.ID
	Arg  KTyp // nil/KTypVoid if the exception carries no payload
	Tag  int  // allocated at a negative base, decrementing
}

func (d *KDefExn) ExprCtx() Ctx { return d.CtxV }

// Module is a single K-form compilation unit: the module's top-level
// statements in source order, plus its declared import names (used by
// pipeline.TopoSort).
type Module struct {
	Name       string
	Imports    []string
	TopLevel   []Expr
	Main       bool
}
