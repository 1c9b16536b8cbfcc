package mangle

import (
	"testing"

	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
)

func newTables() (*symtab.Gen, *symtab.Table[kform.Info]) {
	g := symtab.NewGen()
	ki := symtab.NewTable[kform.Info]()
	symtab.Register(g, ki)
	return g, ki
}

// TestMangleModuleAssignsUniqueNamesOnCollision exercises the global
// mangle-map uniqueness invariant and its collision resolution: two
// top-level values both named "x" (possible once nested scopes are
// flattened) must not collide once mangled.
func TestMangleModuleAssignsUniqueNamesOnCollision(t *testing.T) {
	gen, kinfo := newTables()
	x1 := gen.NewID(symtab.KindVal, "x")
	x2 := gen.NewID(symtab.KindVal, "x")

	km := &kform.Module{
		Name: "M",
		TopLevel: []kform.Expr{
			&kform.KDefVal{Name: x1, Typ: kform.KTypInt{}, Value: &kform.KExprAtom{A: kform.AtomLit{Kind: kform.LitInt, I: 1}}},
			&kform.KDefVal{Name: x2, Typ: kform.KTypInt{}, Value: &kform.KExprAtom{A: kform.AtomLit{Kind: kform.LitInt, I: 2}}},
		},
	}

	m := New()
	diags := &diagnostics.List{}
	m.MangleModule(km, gen, kinfo, diags)
	if !diags.OK() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}

	info1, ok1 := kinfo.Get(x1)
	info2, ok2 := kinfo.Get(x2)
	if !ok1 || !ok2 {
		t.Fatalf("expected both symbols to be named")
	}
	if info1.Mangled == info2.Mangled {
		t.Fatalf("expected distinct mangled names, got %q twice", info1.Mangled)
	}
	if info1.Mangled[:4] != "_fx_" || info2.Mangled[:4] != "_fx_" {
		t.Fatalf("expected both names prefixed with _fx_, got %q and %q", info1.Mangled, info2.Mangled)
	}
}

// TestMangleModuleRewritesTupleToKTypName exercises the invariant that
// every non-record structural type has been rewritten to KTypName: a
// value of anonymous tuple type must come out
// of MangleModule with a KTypName type, and a matching KDefTyp must
// have been materialized.
func TestMangleModuleRewritesTupleToKTypName(t *testing.T) {
	gen, kinfo := newTables()
	x := gen.NewID(symtab.KindVal, "x")
	tupTyp := kform.KTypTuple{Elems: []kform.KTyp{kform.KTypInt{}, kform.KTypFloat{Bits: 64}}}

	km := &kform.Module{
		Name: "M",
		TopLevel: []kform.Expr{
			&kform.KDefVal{Name: x, Typ: tupTyp, Value: &kform.KExprMkTuple{
				Elems: []kform.Atom{
					kform.AtomLit{Kind: kform.LitInt, I: 1},
					kform.AtomLit{Kind: kform.LitFloat, F: 2.0},
				},
			}},
		},
	}

	m := New()
	diags := &diagnostics.List{}
	m.MangleModule(km, gen, kinfo, diags)
	if !diags.OK() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}

	def := km.TopLevel[0].(*kform.KDefVal)
	name, ok := def.Typ.(kform.KTypName)
	if !ok {
		t.Fatalf("expected the tuple type to be rewritten to KTypName, got %#v", def.Typ)
	}

	found := false
	for _, stmt := range km.TopLevel {
		if td, ok := stmt.(*kform.KDefTyp); ok && td.Name.Key() == name.ID.Key() {
			found = true
			if _, isTup := td.Body.(kform.KTypTuple); !isTup {
				t.Fatalf("expected the materialized KDefTyp to keep the tuple body, got %#v", td.Body)
			}
		}
	}
	if !found {
		t.Fatalf("expected a materialized KDefTyp for the tuple signature to be appended to TopLevel")
	}
}

// TestSigOfTupleIsPureFunctionOfStructure exercises the round-trip
// property: mangling the signature of a type instance twice yields the
// same string.
func TestSigOfTupleIsPureFunctionOfStructure(t *testing.T) {
	reg := newRegistry()
	t1 := kform.KTypTuple{Elems: []kform.KTyp{kform.KTypInt{}, kform.KTypString{}}}
	t2 := kform.KTypTuple{Elems: []kform.KTyp{kform.KTypInt{}, kform.KTypString{}}}
	if sigOf(t1, reg) != sigOf(t2, reg) {
		t.Fatalf("expected identical structural signatures, got %q and %q", sigOf(t1, reg), sigOf(t2, reg))
	}
}
