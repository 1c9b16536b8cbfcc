package knf

import (
	"testing"

	"github.com/ficuslang/ficusc/internal/ast"
	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
)

func newEnv() (Env, *symtab.Gen, *symtab.Table[kform.Info]) {
	g := symtab.NewGen()
	ki := symtab.NewTable[kform.Info]()
	symtab.Register(g, ki)
	return Env{Gen: g, KInfo: ki, Diags: &diagnostics.List{}}, g, ki
}

// TestNormalizeValDeclAtomizesNonAtomicOperands exercises the core
// K-normalization invariant: every operand of a binary op
// is an atom after lowering, so `val x = 1 + 2` must introduce no
// nested binary expression.
func TestNormalizeValDeclAtomizesNonAtomicOperands(t *testing.T) {
	env, g, _ := newEnv()
	xID := g.NewID(symtab.KindVal, "x")

	mod := &ast.Module{
		Name: "M",
		TopLevel: []ast.Stmt{
			&ast.DefVal{
				Pattern: &ast.PatIdent{Name: xID, T: kform.KTypInt{}},
				Value: &ast.BinOp{
					Op: "+",
					L:  &ast.Lit{Kind: kform.LitInt, I: 1, T: kform.KTypInt{}},
					R:  &ast.Lit{Kind: kform.LitInt, I: 2, T: kform.KTypInt{}},
					T:  kform.KTypInt{},
				},
			},
		},
	}

	km := Normalize(mod, env)
	if !env.Diags.OK() {
		t.Fatalf("unexpected diagnostics: %v", env.Diags.Errors())
	}

	def, ok := km.TopLevel[0].(*kform.KDefVal)
	if !ok {
		t.Fatalf("expected a KDefVal, got %T", km.TopLevel[0])
	}
	if _, ok := def.Value.(*kform.KExprBinary); !ok {
		t.Fatalf("expected the binop itself atomized into the val, got %T", def.Value)
	}
}

// TestNormalizeNestedCallAtomizesArgument checks that a non-atomic
// call argument is bound to a fresh temporary before the call, so
// every operand of a call ends up an atom.
func TestNormalizeNestedCallAtomizesArgument(t *testing.T) {
	env, g, _ := newEnv()
	fID := g.NewID(symtab.KindVal, "f")
	xID := g.NewID(symtab.KindVal, "x")

	mod := &ast.Module{
		Name: "M",
		TopLevel: []ast.Stmt{
			&ast.DefVal{
				Pattern: &ast.PatIdent{Name: xID, T: kform.KTypInt{}},
				Value: &ast.Call{
					Fn: &ast.Ident{ID: fID, T: kform.KTypFun{Args: []kform.KTyp{kform.KTypInt{}}, Ret: kform.KTypInt{}}},
					Args: []ast.Expr{
						&ast.BinOp{
							Op: "+",
							L:  &ast.Lit{Kind: kform.LitInt, I: 1, T: kform.KTypInt{}},
							R:  &ast.Lit{Kind: kform.LitInt, I: 2, T: kform.KTypInt{}},
							T:  kform.KTypInt{},
						},
					},
					T: kform.KTypInt{},
				},
			},
		},
	}

	km := Normalize(mod, env)
	if !env.Diags.OK() {
		t.Fatalf("unexpected diagnostics: %v", env.Diags.Errors())
	}

	def := km.TopLevel[0].(*kform.KDefVal)
	seq, ok := def.Value.(*kform.KExprSeq)
	if !ok || len(seq.Stmts) < 2 {
		t.Fatalf("expected a sequence binding a temporary before the call, got %#v", def.Value)
	}
	if _, ok := seq.Stmts[0].(*kform.KDefVal); !ok {
		t.Fatalf("expected the atomized argument to be a KDefVal prefix, got %T", seq.Stmts[0])
	}
	call, ok := seq.Stmts[len(seq.Stmts)-1].(*kform.KExprCall)
	if !ok {
		t.Fatalf("expected the call as the sequence's trailing expression, got %T", seq.Stmts[len(seq.Stmts)-1])
	}
	if len(call.Args) != 1 {
		t.Fatalf("expected one call arg, got %d", len(call.Args))
	}
	if _, isAtomID := call.Args[0].(kform.AtomId); !isAtomID {
		t.Fatalf("expected the call argument to be an atomized AtomId, got %#v", call.Args[0])
	}
}
