package cform

import "github.com/ficuslang/ficusc/internal/symtab"

// CStmt is a C-form statement or top-level declaration: forward
// declarations, type declarations, type utility functions, and
// value/function definitions all satisfy it.
type CStmt interface{ cstmt() }

type CBlock struct{ Stmts []CStmt }

type CIf struct {
	Cond       CExpr
	Then, Else *CBlock // Else nil means no else-branch
}

type CFor struct {
	Init, Step CStmt
	Cond       CExpr
	Body       *CBlock
}

type CWhile struct {
	Cond    CExpr
	Body    *CBlock
	DoWhile bool
}

type CSwitchCase struct {
	Value string // enum member / int literal text, "" for default
	Body  *CBlock
}
type CSwitch struct {
	On    CExpr
	Cases []CSwitchCase
}

type CReturn struct{ Value CExpr } // Value nil for `return;`

type CGoto struct{ Label string }
type CLabel struct{ Name string }

// CValDecl declares a local/global C variable, optionally initialized.
type CValDecl struct {
	Name symtab.ID
	Typ  CTyp
	Init CExpr // nil for an uninitialized declaration
}

// CExprStmt lifts a CExpr (typically a call) to statement position.
type CExprStmt struct{ E CExpr }

// CFunDef is a function definition or (when Body is nil) a forward
// declaration.
type CFunDef struct {
	Name   symtab.ID
	Params []CField
	Ret    CTyp
	Body   *CBlock // nil => forward declaration only
	Static bool
}

// CTypDef emits a named type's struct/union declaration.
type CTypDef struct{ Typ *CDefTyp }

// CEnumDef emits a variant's companion tag enum.
type CEnumDef struct {
	Name    symtab.ID
	Members []EnumMember
}

// CMacroDef emits a `#define NAME(...) body`-style macro (used for the
// ptr-typed free/copy macros the runtime ABI expects, e.g. FX_FREE_INT).
type CMacroDef struct {
	Name   string
	Params []string
	Body   string
}

type CForwardDecl struct{ Typ *CDefTyp }

type CInclude struct {
	Path   string
	System bool
}

type CPragma struct{ Text string }

func (*CBlock) cstmt()       {}
func (*CIf) cstmt()          {}
func (*CFor) cstmt()         {}
func (*CWhile) cstmt()       {}
func (*CSwitch) cstmt()      {}
func (*CReturn) cstmt()      {}
func (*CGoto) cstmt()        {}
func (*CLabel) cstmt()       {}
func (*CValDecl) cstmt()     {}
func (*CExprStmt) cstmt()    {}
func (*CFunDef) cstmt()      {}
func (*CTypDef) cstmt()      {}
func (*CEnumDef) cstmt()     {}
func (*CMacroDef) cstmt()    {}
func (*CForwardDecl) cstmt() {}
func (*CInclude) cstmt()     {}
func (*CPragma) cstmt()      {}

// Module is one C-form compilation unit: forward declarations, type
// declarations and their utility functions, then value/function
// definitions, plus the pragmas record and whether this module is the
// entrypoint.
type Module struct {
	Name    string
	Stmts   []CStmt // already ordered: forwards, types+utils, defs
	Pragmas Pragmas
	Main    bool
}

// Pragmas mirrors config.Pragmas so cform has no import-cycle back to
// internal/config; internal/config.Pragmas is the ambient default,
// this is the per-module realization. The driver (cmd/ficusc) folds
// the configured runtime libraries into Clibs.
type Pragmas struct {
	Cpp   bool
	Clibs []string
}
