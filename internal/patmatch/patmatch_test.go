package patmatch

import (
	"testing"

	"github.com/ficuslang/ficusc/internal/ast"
	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
	"github.com/ficuslang/ficusc/internal/token"
)

// TestCompileLiteralCaseBuildsEqualityCheck exercises literal-pattern
// lowering: `match n { | 0 => a | _ => b }` must
// become a single equality-guarded if, falling through to the second
// (irrefutable, checkFree) body rather than NoMatchError.
func TestCompileLiteralCaseBuildsEqualityCheck(t *testing.T) {
	gen := symtab.NewGen()
	diags := &diagnostics.List{}
	noMatch := gen.NewID(symtab.KindVal, "NoMatchError")
	n := gen.NewID(symtab.KindVal, "n")

	c := &Compiler{
		Gen:   gen,
		Diags: diags,
		Lower: func(e ast.Expr) kform.Expr {
			lit := e.(*ast.Lit)
			return &kform.KExprAtom{A: kform.AtomLit{Kind: lit.Kind, I: lit.I}}
		},
		Bind: func(ev kform.Expr, typ kform.KTyp, loc token.Loc) kform.Atom {
			return kform.AtomId{ID: gen.NewID(symtab.KindTemp, "t"), Ctx: kform.Ctx{Typ: typ, Loc: loc}}
		},
		NoMatch: noMatch,
	}

	scrutinee := kform.AtomId{ID: n}
	arms := []ast.MatchArm{
		{Pattern: &ast.PatLit{Kind: kform.LitInt, I: 0}, Body: &ast.Lit{Kind: kform.LitInt, I: 1}},
		{Pattern: &ast.PatAny{}, Body: &ast.Lit{Kind: kform.LitInt, I: 2}},
	}

	out := c.Compile(scrutinee, kform.KTypInt{}, arms, token.None, false)
	if !diags.OK() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}

	ifExpr, ok := out.(*kform.KExprIf)
	if !ok {
		t.Fatalf("expected the literal case to lower to an if, got %T", out)
	}
	if _, ok := ifExpr.Then.(*kform.KExprAtom); !ok {
		t.Fatalf("expected the then-branch to be the first arm's body, got %T", ifExpr.Then)
	}
	if _, ok := ifExpr.Else.(*kform.KExprAtom); !ok {
		t.Fatalf("expected the else-branch to fall through directly to the wildcard body, got %T", ifExpr.Else)
	}
}

// TestCompileUnreachableCaseIsReported checks the tie-break rule: a
// case following a check-free (wildcard) case is an unreachable-case
// compile error.
func TestCompileUnreachableCaseIsReported(t *testing.T) {
	gen := symtab.NewGen()
	diags := &diagnostics.List{}
	noMatch := gen.NewID(symtab.KindVal, "NoMatchError")
	n := gen.NewID(symtab.KindVal, "n")

	c := &Compiler{
		Gen:   gen,
		Diags: diags,
		Lower: func(e ast.Expr) kform.Expr {
			lit := e.(*ast.Lit)
			return &kform.KExprAtom{A: kform.AtomLit{Kind: lit.Kind, I: lit.I}}
		},
		Bind: func(ev kform.Expr, typ kform.KTyp, loc token.Loc) kform.Atom {
			return kform.AtomId{ID: gen.NewID(symtab.KindTemp, "t"), Ctx: kform.Ctx{Typ: typ, Loc: loc}}
		},
		NoMatch: noMatch,
	}

	scrutinee := kform.AtomId{ID: n}
	arms := []ast.MatchArm{
		{Pattern: &ast.PatAny{}, Body: &ast.Lit{Kind: kform.LitInt, I: 1}},
		{Pattern: &ast.PatLit{Kind: kform.LitInt, I: 0}, Body: &ast.Lit{Kind: kform.LitInt, I: 2}},
	}

	c.Compile(scrutinee, kform.KTypInt{}, arms, token.None, false)
	if diags.OK() {
		t.Fatalf("expected an unreachable-case diagnostic")
	}
}
