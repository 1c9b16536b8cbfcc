package kform

import (
	"testing"

	"github.com/ficuslang/ficusc/internal/symtab"
)

func idOf(g *symtab.Gen, name string) symtab.ID {
	return g.NewID(symtab.KindVal, name)
}

func TestFreeVarsExcludesLocalBinding(t *testing.T) {
	g := symtab.NewGen()
	x := idOf(g, "x")
	y := idOf(g, "y")

	// let x = y in x  =>  free vars: {y}
	body := &KExprSeq{
		Stmts: []Expr{
			&KDefVal{Name: x, Value: &KExprAtom{A: AtomId{ID: y}}},
			&KExprAtom{A: AtomId{ID: x}},
		},
	}

	free := FreeVars(body)
	if len(free) != 1 || free[0].Key() != y.Key() {
		t.Fatalf("expected free vars {y}, got %v", free)
	}
}

func TestFreeVarsFunctionParamsAreBound(t *testing.T) {
	g := symtab.NewGen()
	p := idOf(g, "p")
	glob := idOf(g, "glob")
	fn := idOf(g, "f")

	def := &KDefFun{
		Name: fn,
		Args: []KParam{{Name: p}},
		Body: &KExprBinary{
			Op: "+",
			A:  AtomId{ID: p},
			B:  AtomId{ID: glob},
		},
	}

	free := FreeVars(def)
	if len(free) != 1 || free[0].Key() != glob.Key() {
		t.Fatalf("expected free vars {glob}, got %v", free)
	}
}

func TestWalkRewritesAtoms(t *testing.T) {
	g := symtab.NewGen()
	x := idOf(g, "x")
	replacement := idOf(g, "x2")

	e := &KExprAtom{A: AtomId{ID: x}}
	out := Walk(e, &Hooks{
		Atom: func(a Atom) (Atom, bool) {
			if id, ok := a.(AtomId); ok && id.ID.Key() == x.Key() {
				return AtomId{ID: replacement}, true
			}
			return a, false
		},
	})

	got := out.(*KExprAtom).A.(AtomId).ID
	if got.Key() != replacement.Key() {
		t.Fatalf("expected rewritten atom %v, got %v", replacement, got)
	}
}
