package ast

import (
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
)

// Lit is a literal expression (int/float/bool/char/string/unit).
type Lit struct {
	base
	T    kform.KTyp
	Kind kform.LitKind
	I    int64
	F    float64
	B    bool
	C    rune
	S    string
}

func (e *Lit) Typ() kform.KTyp { return e.T }
func (e *Lit) exprNode()       {}

// Ident references a resolved symbol.
type Ident struct {
	base
	ID ID
	T  kform.KTyp
}

// ID aliases symtab.ID so ast callers don't need a second import.
type ID = symtab.ID

func (e *Ident) Typ() kform.KTyp { return e.T }
func (e *Ident) exprNode()       {}

// BinOp is a binary operator application; logical &&/|| and string
// concatenation are lowered specially by the K-normalizer but are
// represented uniformly here.
type BinOp struct {
	base
	T    kform.KTyp
	Op   string
	L, R Expr
}

func (e *BinOp) Typ() kform.KTyp { return e.T }
func (e *BinOp) exprNode()       {}

type UnOp struct {
	base
	T  kform.KTyp
	Op string
	E  Expr
}

func (e *UnOp) Typ() kform.KTyp { return e.T }
func (e *UnOp) exprNode()       {}

// Seq is `e1; e2; ...; en` (a block/sequence expression).
type Seq struct {
	base
	T     kform.KTyp
	Exprs []Expr
}

func (e *Seq) Typ() kform.KTyp { return e.T }
func (e *Seq) exprNode()       {}

type If struct {
	base
	T          kform.KTyp
	Cond, Then Expr
	Else       Expr // nil means `()`
}

func (e *If) Typ() kform.KTyp { return e.T }
func (e *If) exprNode()       {}

// Call is a function application. HasKeywords mirrors the callee's
// declared flag: when true and the last positional
// argument is a record literal, the K-normalizer treats the record's
// fields as trailing keyword arguments.
type Call struct {
	base
	T           kform.KTyp
	Fn          Expr
	Args        []Expr
	HasKeywords bool
}

func (e *Call) Typ() kform.KTyp { return e.T }
func (e *Call) exprNode()       {}

type TupleCons struct {
	base
	T     kform.KTyp
	Elems []Expr
}

func (e *TupleCons) Typ() kform.KTyp { return e.T }
func (e *TupleCons) exprNode()       {}

// RecordFieldInit is one `name: value` entry of a record literal or
// record-update expression.
type RecordFieldInit struct {
	Name  string
	Value Expr
}

// RecordCons constructs a record or, when CaseName is non-empty, a
// single variant case — constructing a variant case needs its
// generated constructor id.
type RecordCons struct {
	base
	T        kform.KTyp
	TypeName string
	CaseName string
	Fields   []RecordFieldInit
}

func (e *RecordCons) Typ() kform.KTyp { return e.T }
func (e *RecordCons) exprNode()       {}

// RecordUpdate rebuilds Src with the listed fields replaced: each
// field is read either from the update list or via KExprMem on the
// source record.
type RecordUpdate struct {
	base
	T      kform.KTyp
	Src    Expr
	Fields []RecordFieldInit
}

func (e *RecordUpdate) Typ() kform.KTyp { return e.T }
func (e *RecordUpdate) exprNode()       {}

type ArrayCons struct {
	base
	T     kform.KTyp
	Elems []Expr
}

func (e *ArrayCons) Typ() kform.KTyp { return e.T }
func (e *ArrayCons) exprNode()       {}

type ListCons struct {
	base
	T     kform.KTyp
	Elems []Expr
}

func (e *ListCons) Typ() kform.KTyp { return e.T }
func (e *ListCons) exprNode()       {}

// RangeCons is `lo:hi` or `lo:hi:step`.
type RangeCons struct {
	base
	T            kform.KTyp
	Lo, Hi, Step Expr // Step may be nil (defaults to 1)
}

func (e *RangeCons) Typ() kform.KTyp { return e.T }
func (e *RangeCons) exprNode()       {}

// ForClause is one `pattern <- iter` of a `for` statement.
type ForClause struct {
	Pattern Pattern
	Iter    Expr
	At      AtSpec
}

// AtSpec describes an optional `@`-index binder on a for/comprehension
// clause.
type AtSpec struct {
	None  bool
	Name  ID      // valid when this is a single typed int ident
	Names []ID    // valid when this is a typed tuple of int idents
}

type For struct {
	base
	T       kform.KTyp // always KTypVoid
	Clauses []ForClause
	Body    Expr
}

func (e *For) Typ() kform.KTyp { return e.T }
func (e *For) exprNode()       {}

type While struct {
	base
	T          kform.KTyp
	Cond, Body Expr
	DoWhile    bool
}

func (e *While) Typ() kform.KTyp { return e.T }
func (e *While) exprNode()       {}

// CompClause is a comprehension generator or filter.
type CompClause interface {
	compClauseNode()
}

type CompGenerator struct {
	Pattern Pattern
	Iter    Expr
	At      AtSpec
}

type CompFilter struct {
	Cond Expr
}

func (CompGenerator) compClauseNode() {}
func (CompFilter) compClauseNode()    {}

// MapCompr is a list/array comprehension: `[for ... { body }]` or
// `[| for ... { body } |]` when Array is true.
type MapCompr struct {
	base
	T       kform.KTyp
	Clauses []CompClause
	Body    Expr
	Array   bool
}

func (e *MapCompr) Typ() kform.KTyp { return e.T }
func (e *MapCompr) exprNode()       {}

// MatchArm is one case of a match/try expression.
type MatchArm struct {
	Pattern Pattern
	Body    Expr
}

type Match struct {
	base
	T    kform.KTyp
	E    Expr
	Arms []MatchArm
}

func (e *Match) Typ() kform.KTyp { return e.T }
func (e *Match) exprNode()       {}

// Try wraps Body; on an exception, pattern matching runs against the
// thrown value in catch-mode.
type Try struct {
	base
	T    kform.KTyp
	Body Expr
	Arms []MatchArm
}

func (e *Try) Typ() kform.KTyp { return e.T }
func (e *Try) exprNode()       {}

type Throw struct {
	base
	T kform.KTyp // always KTypVoid
	E Expr
}

func (e *Throw) Typ() kform.KTyp { return e.T }
func (e *Throw) exprNode()       {}

// Field is `e.name`, already resolved to a positional Index by the
// type checker.
type Field struct {
	base
	T     kform.KTyp
	E     Expr
	Name  string
	Index int
}

func (e *Field) Typ() kform.KTyp { return e.T }
func (e *Field) exprNode()       {}

// Index is `e[i, j, ...]`.
type Index struct {
	base
	T      kform.KTyp
	E      Expr
	Idx    []Expr
	Reverse []bool // per-axis `.-` reverse-index marker
}

func (e *Index) Typ() kform.KTyp { return e.T }
func (e *Index) exprNode()       {}

type Assign struct {
	base
	T        kform.KTyp // always KTypVoid
	LHS, RHS Expr
}

func (e *Assign) Typ() kform.KTyp { return e.T }
func (e *Assign) exprNode()       {}

type Cast struct {
	base
	T kform.KTyp
	E Expr
}

func (e *Cast) Typ() kform.KTyp { return e.T }
func (e *Cast) exprNode()       {}

// Annotated is `e : T`, a typed annotation that does not itself
// change runtime representation.
type Annotated struct {
	base
	T kform.KTyp
	E Expr
}

func (e *Annotated) Typ() kform.KTyp { return e.T }
func (e *Annotated) exprNode()       {}

// CCode is an inline-C literal expression.
type CCode struct {
	base
	T    kform.KTyp
	Code string
}

func (e *CCode) Typ() kform.KTyp { return e.T }
func (e *CCode) exprNode()       {}

// ValDecl is `val pattern = value` (or `val _ = value` for effects
// only). It is an Expr so it can appear inline in a Seq, matching the
// source language's expression-oriented blocks.
type ValDecl struct {
	base
	Pattern Pattern
	Value   Expr
}

func (e *ValDecl) Typ() kform.KTyp { return kform.KTypVoid{} }
func (e *ValDecl) exprNode()       {}

// LocalFunDef is a `fun` declared partway through a block rather than
// at module scope — a helper visible only to the rest of its enclosing
// body. Like ValDecl it is an Expr, not a Stmt, purely so it can
// appear inline in a Seq; Fn carries the same shape a module-level
// DefFun does, since the K-normalizer lowers both through the same
// path. internal/lift later hoists it to module scope when it turns
// out to close over nothing but its own parameters and module
// globals, and otherwise leaves it nested; no later pass here turns
// it into a closure.
type LocalFunDef struct {
	base
	Fn *DefFun
}

func (e *LocalFunDef) Typ() kform.KTyp { return kform.KTypVoid{} }
func (e *LocalFunDef) exprNode()       {}
