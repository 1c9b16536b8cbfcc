package kform

import "github.com/ficuslang/ficusc/internal/symtab"

// Expr is any K-form expression or statement. Definitions (KDefVal,
// KDefFun, KDefTyp, KDefVariant, KDefExn) also implement Expr so they
// can appear directly in a KExprSeq or a module's top-level list.
type Expr interface {
	ExprCtx() Ctx
}

// KExprAtom lifts a bare Atom to statement position (e.g. the final
// expression of a sequence, or `val _ = e` retaining e for effects).
type KExprAtom struct {
	CtxV Ctx
	A    Atom
}

// KExprBinary is a primitive binary operation over two atoms. `+` on
// non-string/char operands stays KExprBinary; string/char
// concatenation is lowered to KIntrin{STR_CONCAT} instead.
type KExprBinary struct {
	CtxV Ctx
	Op   string
	A, B Atom
}

type KExprUnary struct {
	CtxV Ctx
	Op   string
	A    Atom
}

// KExprIntrin invokes one of the closed set of K-form intrinsics.
type KExprIntrin struct {
	CtxV Ctx
	Op   Intrinsic
	Args []Atom
}

// KExprCall is a direct call to a known function id. first-class
// function values flow through KTypFun/closures; a call through a
// closure value lowers to KExprCallClosure instead.
type KExprCall struct {
	CtxV Ctx
	Fn   symtab.ID
	Args []Atom
}

// KExprCallClosure calls a closure value (fp + free-var struct),
// produced when the callee is not statically a known global function.
type KExprCallClosure struct {
	CtxV    Ctx
	Closure Atom
	Args    []Atom
}

// KExprIf is the universal conditional; logical && / || are lowered
// to this shape.
type KExprIf struct {
	CtxV       Ctx
	Cond       Atom
	Then, Else Expr
}

// KExprSeq is a `let`-normalized sequence: zero or more
// definitions/statements followed by a trailing expression whose
// value (if any) is the sequence's value.
type KExprSeq struct {
	CtxV  Ctx
	Stmts []Expr
}

type KExprMkTuple struct {
	CtxV  Ctx
	Elems []Atom
}

// KExprMkRecord constructs a plain (non-variant-case) record.
// Missing fields are already filled in by the K-normalizer from
// declared defaults before this node is built.
type KExprMkRecord struct {
	CtxV   Ctx
	Name   symtab.ID // the KDefTyp/KDefVariant this record belongs to
	Fields []Atom    // positional, in declaration order
}

// KExprMkVariant constructs a variant case, optionally via its
// generated constructor function; used directly when the case has a
// single scalar/tuple payload and no user-visible constructor call is
// needed.
type KExprMkVariant struct {
	CtxV    Ctx
	Variant symtab.ID
	CaseIdx int
	Payload []Atom // empty for a void-payload case
}

// KExprMkClosure allocates a closure value: a function pointer plus a
// captured free-variable struct, struct {fp, fcv} inline.
type KExprMkClosure struct {
	CtxV    Ctx
	Fn      symtab.ID
	Capture []Atom
}

// KExprMem accesses a tuple/record field by positional index.
type KExprMem struct {
	CtxV  Ctx
	Base  Atom
	Index int
}

// KExprAt accesses an array/list/string element.
type KExprAt struct {
	CtxV    Ctx
	Base    Atom
	Indices []Atom
}

// KExprAssign assigns to a previously-declared mutable value or, when
// Index is non-nil, to one element of an array — an array-typed LHS
// marks the target as a subarray assignment.
type KExprAssign struct {
	CtxV   Ctx
	Target symtab.ID
	Index  []Atom // nil unless this is a subarray assignment
	Value  Expr
}

type KExprThrow struct {
	CtxV Ctx
	Exn  Atom
}

// KExprTry wraps Body; on an exception, ExnVar is bound (via
// POP_EXN) and Handler runs, already lowered by the pattern compiler
// in catch-mode.
type KExprTry struct {
	CtxV    Ctx
	Body    Expr
	ExnVar  symtab.ID
	Handler Expr
}

type KExprCCode struct {
	CtxV Ctx
	Code string
}

// Iterable is one of the four domains a comprehension/for clause can
// range over.
type Iterable interface{ iterable() }

type IterRange struct{ Lo, Hi, Step Atom }
type IterArray struct{ Arr Atom }
type IterList struct{ Lst Atom }
type IterString struct{ Str Atom }

func (IterRange) iterable()  {}
func (IterArray) iterable()  {}
func (IterList) iterable()   {}
func (IterString) iterable() {}

// AtIndex captures the '@'-index binding for one clause stage:
// PatAny binds nothing, a typed int ident binds one index, a typed
// tuple of int idents binds one fresh index per axis.
type AtIndex struct {
	None   bool
	Single symtab.ID   // valid when len(Axes) == 1 and not a tuple binding
	Axes   []symtab.ID // one id per axis; len==1 mirrors Single for uniformity
}

// MapClauseStage is one `pattern <- iter` level of a comprehension or
// for-loop; the list of stages preserves the original source nesting
// order.
type MapClauseStage struct {
	Proxy  symtab.ID // fresh proxy bound over the domain
	Iter   Iterable
	Unpack []Expr // `val pat = proxy` lowering, run once per iteration
	AtIdx  AtIndex
	Guards []Atom // `when` conditions; false skips to the next iteration
}

// KExprFor is a side-effecting loop (void result).
type KExprFor struct {
	CtxV   Ctx
	Stages []MapClauseStage
	Body   Expr
}

// KExprWhile is `while`/`do-while`.
type KExprWhile struct {
	CtxV    Ctx
	Cond    Expr
	Body    Expr
	DoWhile bool
}

// KExprMap is a list/array comprehension (the `map` node).
type KExprMap struct {
	CtxV   Ctx
	Stages []MapClauseStage
	Body   Expr
	Array  bool // true for an array comprehension, false for a list
}

// KExprMkArray/KExprMkList materialize a literal array/list from
// already-atomized elements. Unlike KExprMkTuple, lists are
// reference-counted cons cells built back-to-front at runtime; the
// node only records the flat element list, leaving cons-cell order to
// the code generator that consumes it.
type KExprMkArray struct {
	CtxV  Ctx
	Elems []Atom
}

type KExprMkList struct {
	CtxV  Ctx
	Elems []Atom
}

// KExprMkRange materializes a `lo:hi[:step]` range value (distinct
// from IterRange, which only appears inside a MapClauseStage and is
// never itself a first-class value).
type KExprMkRange struct {
	CtxV         Ctx
	Lo, Hi, Step Atom // Step may be the literal 1 when the source omitted it
}

func (e *KExprAtom) ExprCtx() Ctx        { return e.CtxV }
func (e *KExprBinary) ExprCtx() Ctx      { return e.CtxV }
func (e *KExprUnary) ExprCtx() Ctx       { return e.CtxV }
func (e *KExprIntrin) ExprCtx() Ctx      { return e.CtxV }
func (e *KExprCall) ExprCtx() Ctx        { return e.CtxV }
func (e *KExprCallClosure) ExprCtx() Ctx { return e.CtxV }
func (e *KExprIf) ExprCtx() Ctx          { return e.CtxV }
func (e *KExprSeq) ExprCtx() Ctx         { return e.CtxV }
func (e *KExprMkTuple) ExprCtx() Ctx     { return e.CtxV }
func (e *KExprMkRecord) ExprCtx() Ctx    { return e.CtxV }
func (e *KExprMkVariant) ExprCtx() Ctx   { return e.CtxV }
func (e *KExprMkClosure) ExprCtx() Ctx   { return e.CtxV }
func (e *KExprMem) ExprCtx() Ctx         { return e.CtxV }
func (e *KExprAt) ExprCtx() Ctx          { return e.CtxV }
func (e *KExprAssign) ExprCtx() Ctx      { return e.CtxV }
func (e *KExprThrow) ExprCtx() Ctx       { return e.CtxV }
func (e *KExprTry) ExprCtx() Ctx         { return e.CtxV }
func (e *KExprCCode) ExprCtx() Ctx       { return e.CtxV }
func (e *KExprFor) ExprCtx() Ctx         { return e.CtxV }
func (e *KExprWhile) ExprCtx() Ctx       { return e.CtxV }
func (e *KExprMap) ExprCtx() Ctx         { return e.CtxV }
func (e *KExprMkArray) ExprCtx() Ctx     { return e.CtxV }
func (e *KExprMkList) ExprCtx() Ctx      { return e.CtxV }
func (e *KExprMkRange) ExprCtx() Ctx     { return e.CtxV }

// ExprTyp extracts the result type carried in e's Ctx.
func ExprTyp(e Expr) KTyp { return e.ExprCtx().Typ }
