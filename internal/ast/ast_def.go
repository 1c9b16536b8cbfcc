package ast

import "github.com/ficuslang/ficusc/internal/kform"

// DefVal is a top-level or block-level `val pattern = value`.
type DefVal struct {
	base
	Pattern Pattern
	Value   Expr
}

func (d *DefVal) stmtNode() {}

// Param is one formal parameter of a DefFun.
type Param struct {
	Name ID
	Typ  kform.KTyp
}

// DefFunFlags mirrors the declaration-site facts the K-normalizer and
// lambda-lifter need.
type DefFunFlags struct {
	CCode       bool
	Pure        bool
	NoThrow     bool
	Private     bool
	HasKeywords bool
}

// DefFun is a function definition, optionally generic: TemplateArgs
// carries its type parameter names, and Instances the list of
// already-monomorphized instantiations the type checker produced —
// template instantiation itself happens upstream of this compiler.
type DefFun struct {
	base
	Name         ID
	TemplateArgs []string
	Instances    []*DefFun
	Params       []Param
	RetType      kform.KTyp
	Body         Expr // nil for a template that was never instantiated
	Flags        DefFunFlags
}

func (d *DefFun) stmtNode() {}

// DefTypeAlias is `type name = T`.
type DefTypeAlias struct {
	base
	Name ID
	Typ  kform.KTyp
}

func (d *DefTypeAlias) stmtNode() {}

// VariantCaseDecl is one case of a DefVariant.
type VariantCaseDecl struct {
	Name    string
	Payload kform.KTyp // nil for a payload-free case
}

// DefVariant is `type name = Case1 : T1 | Case2 | ...`, possibly
// recursive, possibly a single-case "record variant".
type DefVariant struct {
	base
	Name          ID
	Cases         []VariantCaseDecl
	Recursive     bool
	RecordVariant bool // true for a single-case variant declared as a record
}

func (d *DefVariant) stmtNode() {}

// DefExn is `exception Name : T` or `exception Name` (no payload).
type DefExn struct {
	base
	Name ID
	Arg  kform.KTyp // nil if the exception carries no payload
}

func (d *DefExn) stmtNode() {}

// DirectiveImport is `import Module` (or `import Module as Alias`).
type DirectiveImport struct {
	base
	Module string
	Alias  string
}

func (d *DirectiveImport) stmtNode() {}

// DirectivePragma is `pragma "name", arg1, arg2, ...`.
type DirectivePragma struct {
	base
	Name string
	Args []string
}

func (d *DirectivePragma) stmtNode() {}

// ExprStmt lifts an Expr to statement position (side-effecting
// top-level expression, rare but legal at module scope).
type ExprStmt struct {
	base
	E Expr
}

func (d *ExprStmt) stmtNode() {}
