package cform

import "github.com/ficuslang/ficusc/internal/symtab"

// CExpr is a C-form expression.
type CExpr interface{ cexpr() }

type CExprIdent struct{ Name symtab.ID }
type CExprLit struct{ Text string } // already rendered (e.g. "42", "3.5", `"hi"`)
type CExprBinary struct {
	Op   string
	L, R CExpr
}
type CExprUnary struct {
	Op string
	E  CExpr
}
type CExprMem struct { // e.g.  e.field
	E     CExpr
	Field string
}
type CExprArrow struct { // e.g.  e->field
	E     CExpr
	Field string
}
type CExprCast struct {
	Typ CTyp
	E   CExpr
}
type CExprTernary struct {
	Cond, Then, Else CExpr
}
type CExprCall struct {
	Fn   string
	Args []CExpr
}

// CExprInit is a brace-init expression, `(T){ .f1 = a, .f2 = b }`.
type CExprInit struct {
	Typ    CTyp
	Fields []CField2
}
type CField2 struct {
	Name string
	Val  CExpr
}

// CExprCCode is an inline-C literal carried through from the source
// AST's CCode expression.
type CExprCCode struct{ Code string }

func (CExprIdent) cexpr()  {}
func (CExprLit) cexpr()    {}
func (CExprBinary) cexpr() {}
func (CExprUnary) cexpr()  {}
func (CExprMem) cexpr()    {}
func (CExprArrow) cexpr()  {}
func (CExprCast) cexpr()   {}
func (CExprTernary) cexpr(){}
func (CExprCall) cexpr()   {}
func (CExprInit) cexpr()   {}
func (CExprCCode) cexpr()  {}
