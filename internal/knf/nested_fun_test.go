package knf

import (
	"testing"

	"github.com/ficuslang/ficusc/internal/ast"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/lift"
	"github.com/ficuslang/ficusc/internal/symtab"
)

// TestNormalizeThenHoistLiftsCaptureFreeLocalFunDef drives a nested
// fun all the way from source AST through Normalize and into
// internal/lift.Hoist, rather than hand-building the KDefFun/KExprSeq
// Hoist expects. `helper` only references its own parameter, so it
// must end up hoisted to module scope exactly as a top-level-only
// nested fun would.
func TestNormalizeThenHoistLiftsCaptureFreeLocalFunDef(t *testing.T) {
	env, g, ki := newEnv()
	outerID := g.NewID(symtab.KindVal, "outer")
	helperID := g.NewID(symtab.KindVal, "helper")
	xID := g.NewID(symtab.KindVal, "x")

	funTyp := kform.KTypFun{Args: []kform.KTyp{kform.KTypInt{}}, Ret: kform.KTypInt{}}

	mod := &ast.Module{
		Name: "M",
		TopLevel: []ast.Stmt{
			&ast.DefFun{
				Name:    outerID,
				RetType: kform.KTypInt{},
				Body: &ast.Seq{
					T: kform.KTypInt{},
					Exprs: []ast.Expr{
						&ast.LocalFunDef{Fn: &ast.DefFun{
							Name:    helperID,
							Params:  []ast.Param{{Name: xID, Typ: kform.KTypInt{}}},
							RetType: kform.KTypInt{},
							Body:    &ast.Ident{ID: xID, T: kform.KTypInt{}},
						}},
						&ast.Call{
							Fn:   &ast.Ident{ID: helperID, T: funTyp},
							Args: []ast.Expr{&ast.Lit{Kind: kform.LitInt, I: 1, T: kform.KTypInt{}}},
							T:    kform.KTypInt{},
						},
					},
				},
			},
		},
	}

	km := Normalize(mod, env)
	if !env.Diags.OK() {
		t.Fatalf("unexpected diagnostics: %v", env.Diags.Errors())
	}
	if len(km.TopLevel) != 1 {
		t.Fatalf("expected helper still nested after Normalize, got %d top-level defs", len(km.TopLevel))
	}

	lift.Hoist(km, ki)

	if len(km.TopLevel) != 2 {
		t.Fatalf("expected helper hoisted to module scope, got %d top-level defs", len(km.TopLevel))
	}
	hoisted, ok := km.TopLevel[1].(*kform.KDefFun)
	if !ok || hoisted.Name != helperID {
		t.Fatalf("expected the hoisted helper as the second top-level def, got %#v", km.TopLevel[1])
	}

	outer := km.TopLevel[0].(*kform.KDefFun)
	seq, ok := outer.Body.(*kform.KExprSeq)
	if !ok {
		t.Fatalf("expected outer's body to stay a sequence, got %T", outer.Body)
	}
	for _, stmt := range seq.Stmts {
		if _, isDefFun := stmt.(*kform.KDefFun); isDefFun {
			t.Fatalf("expected no KDefFun left nested in outer's body after hoisting")
		}
		if nested, ok := stmt.(*kform.KExprSeq); ok {
			for _, inner := range nested.Stmts {
				if _, isDefFun := inner.(*kform.KDefFun); isDefFun {
					t.Fatalf("expected no KDefFun left nested inside outer's body after hoisting")
				}
			}
		}
	}
}

// TestNormalizeThenHoistKeepsCapturingLocalFunDefInPlace is the
// negative twin: a nested fun closing over a local value from its
// enclosing scope must stay nested through Hoist.
func TestNormalizeThenHoistKeepsCapturingLocalFunDefInPlace(t *testing.T) {
	env, g, ki := newEnv()
	outerID := g.NewID(symtab.KindVal, "outer")
	helperID := g.NewID(symtab.KindVal, "helper")
	localID := g.NewID(symtab.KindVal, "local")

	mod := &ast.Module{
		Name: "M",
		TopLevel: []ast.Stmt{
			&ast.DefFun{
				Name:    outerID,
				RetType: kform.KTypInt{},
				Body: &ast.Seq{
					T: kform.KTypInt{},
					Exprs: []ast.Expr{
						&ast.ValDecl{
							Pattern: &ast.PatIdent{Name: localID, T: kform.KTypInt{}},
							Value:   &ast.Lit{Kind: kform.LitInt, I: 1, T: kform.KTypInt{}},
						},
						&ast.LocalFunDef{Fn: &ast.DefFun{
							Name:    helperID,
							RetType: kform.KTypInt{},
							Body:    &ast.Ident{ID: localID, T: kform.KTypInt{}},
						}},
						&ast.Ident{ID: localID, T: kform.KTypInt{}},
					},
				},
			},
		},
	}

	km := Normalize(mod, env)
	if !env.Diags.OK() {
		t.Fatalf("unexpected diagnostics: %v", env.Diags.Errors())
	}

	lift.Hoist(km, ki)

	if len(km.TopLevel) != 1 {
		t.Fatalf("expected the capturing fun to stay nested, got %d top-level defs", len(km.TopLevel))
	}

	var sawNestedHelper bool
	var scan func(e kform.Expr)
	scan = func(e kform.Expr) {
		switch n := e.(type) {
		case *kform.KExprSeq:
			for _, stmt := range n.Stmts {
				if fn, ok := stmt.(*kform.KDefFun); ok && fn.Name == helperID {
					sawNestedHelper = true
				}
				scan(stmt)
			}
		case *kform.KDefFun:
			if n.Body != nil {
				scan(n.Body)
			}
		}
	}
	scan(km.TopLevel[0])

	if !sawNestedHelper {
		t.Fatalf("expected the capturing helper to remain nested as a KDefFun")
	}
}
