package lift

import (
	"testing"

	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
)

func newGenInfo() (*symtab.Gen, *symtab.Table[kform.Info]) {
	g := symtab.NewGen()
	ki := symtab.NewTable[kform.Info]()
	symtab.Register(g, ki)
	return g, ki
}

// TestHoistLiftsCaptureFreeNestedFun exercises lambda-lifting: a nested
// fun that only references its own parameter and module-scope globals
// is hoisted straight to TopLevel.
func TestHoistLiftsCaptureFreeNestedFun(t *testing.T) {
	gen, _ := newGenInfo()
	outer := gen.NewID(symtab.KindVal, "outer")
	helper := gen.NewID(symtab.KindVal, "helper")
	p := gen.NewID(symtab.KindVal, "p")

	helperDef := &kform.KDefFun{
		Name: helper,
		Args: []kform.KParam{{Name: p}},
		Body: &kform.KExprAtom{A: kform.AtomId{ID: p}},
	}
	outerDef := &kform.KDefFun{
		Name: outer,
		Body: &kform.KExprSeq{Stmts: []kform.Expr{
			helperDef,
			&kform.KExprAtom{A: kform.AtomId{ID: helper}},
		}},
	}

	mod := &kform.Module{Name: "M", TopLevel: []kform.Expr{outerDef}}
	Hoist(mod, nil)

	if len(mod.TopLevel) != 2 {
		t.Fatalf("expected helper to be hoisted to TopLevel, got %d top-level defs", len(mod.TopLevel))
	}
	seq := outerDef.Body.(*kform.KExprSeq)
	if len(seq.Stmts) != 1 {
		t.Fatalf("expected the nested fun removed from outer's body, got %d stmts", len(seq.Stmts))
	}
}

// TestHoistKeepsCapturingNestedFunInPlace exercises the negative case:
// a nested fun that closes over a local value declared in its
// enclosing scope (not a module global) must stay nested.
func TestHoistKeepsCapturingNestedFunInPlace(t *testing.T) {
	gen, _ := newGenInfo()
	outer := gen.NewID(symtab.KindVal, "outer")
	local := gen.NewID(symtab.KindVal, "local")
	helper := gen.NewID(symtab.KindVal, "helper")

	helperDef := &kform.KDefFun{
		Name: helper,
		Body: &kform.KExprAtom{A: kform.AtomId{ID: local}},
	}
	outerDef := &kform.KDefFun{
		Name: outer,
		Body: &kform.KExprSeq{Stmts: []kform.Expr{
			&kform.KDefVal{Name: local, Value: &kform.KExprAtom{A: kform.AtomLit{Kind: kform.LitInt, I: 1}}},
			helperDef,
		}},
	}

	mod := &kform.Module{Name: "M", TopLevel: []kform.Expr{outerDef}}
	Hoist(mod, nil)

	if len(mod.TopLevel) != 1 {
		t.Fatalf("expected the capturing fun to stay nested, got %d top-level defs", len(mod.TopLevel))
	}
	seq := outerDef.Body.(*kform.KExprSeq)
	if len(seq.Stmts) != 2 {
		t.Fatalf("expected both the local val and the nested fun to remain, got %d stmts", len(seq.Stmts))
	}
	if _, ok := seq.Stmts[1].(*kform.KDefFun); !ok {
		t.Fatalf("expected the nested fun to remain a KDefFun in place, got %T", seq.Stmts[1])
	}
}
