package knf

import (
	"github.com/ficuslang/ficusc/internal/ast"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/patmatch"
	"github.com/ficuslang/ficusc/internal/symtab"
	"github.com/ficuslang/ficusc/internal/token"
)

// matchCompiler builds a patmatch.Compiler whose Bind callback appends
// its emitted temporaries to pre, so every binding/check patmatch
// produces ends up in the same statement prefix the caller eventually
// wraps around the compiled match/try expression.
func (n *normalizer) matchCompiler(pre *[]kform.Expr) *patmatch.Compiler {
	return &patmatch.Compiler{
		Gen:   n.env.Gen,
		Diags: n.env.Diags,
		Lower: n.lower,
		Bind: func(ev kform.Expr, typ kform.KTyp, loc token.Loc) kform.Atom {
			return n.bind(pre, ev, typ, loc)
		},
		NoMatch:      n.noMatchID,
		VariantCases: n.variantCasesForTyp,
		RecordFields: n.recordFieldsOf,
	}
}

func (n *normalizer) variantCasesForTyp(t kform.KTyp) []kform.KVariantCase {
	if nm, ok := t.(kform.KTypName); ok {
		if kv, ok := n.variants[nm.ID]; ok {
			return kv.Cases
		}
	}
	return nil
}

// lowerMatch always copies the scrutinee into a fresh temporary before
// compiling: this is only strictly required when the source is a
// mutable binding, but this AST carries no lightweight "is this
// identifier mutable" query independent of the Mutable flag Assign
// lowering sets lazily (possibly later in the same body), so copying
// unconditionally is the only way to be correct regardless of
// processing order. The cost is at most one extra local per match.
func (n *normalizer) lowerMatch(ex *ast.Match) kform.Expr {
	loc := ex.Loc()
	scrutTyp := ex.E.Typ()
	var pre []kform.Expr
	scrut := n.bindAlways(&pre, n.lower(ex.E), scrutTyp, loc)
	compiler := n.matchCompiler(&pre)
	result := compiler.Compile(scrut, scrutTyp, ex.Arms, loc, false)
	return seqOf(pre, result, loc)
}

// lowerTry lowers Body normally, then compiles Arms in catch mode
// against the value POP_EXN yields, binding it to a fresh exnVar so
// the handler has a name for the caught value.
func (n *normalizer) lowerTry(ex *ast.Try) kform.Expr {
	loc := ex.Loc()
	body := n.lower(ex.Body)

	exnVar := n.env.Gen.NewID(symtab.KindTemp, "exn")
	popDef := &kform.KDefVal{
		CtxV: ctx(kform.KTypExn{}, loc), Name: exnVar, Typ: kform.KTypExn{},
		Value: &kform.KExprIntrin{CtxV: ctx(kform.KTypExn{}, loc), Op: kform.IntrinPopExn},
	}
	scrut := kform.AtomId{ID: exnVar, Ctx: ctx(kform.KTypExn{}, loc)}

	var pre []kform.Expr
	compiler := n.matchCompiler(&pre)
	matched := compiler.Compile(scrut, kform.KTypExn{}, ex.Arms, loc, true)
	handler := seqOf(append([]kform.Expr{popDef}, pre...), matched, loc)

	return &kform.KExprTry{CtxV: ctx(ex.T, loc), Body: body, ExnVar: exnVar, Handler: handler}
}
