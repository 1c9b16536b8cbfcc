package typegen

import (
	"testing"

	"github.com/ficuslang/ficusc/internal/cform"
	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
)

func newGenTables() (*symtab.Gen, *symtab.Table[kform.Info], *symtab.Table[cform.Info]) {
	g := symtab.NewGen()
	ki := symtab.NewTable[kform.Info]()
	ci := symtab.NewTable[cform.Info]()
	symtab.Register(g, ki)
	symtab.Register(g, ci)
	return g, ki, ci
}

// TestGenerateRecordAliasEmitsStructWithCustomCopy exercises the
// record conversion rule: a record type with one complex field (a
// string) must come out Complex and CustomCopy, with a destructor
// emitted.
func TestGenerateRecordAliasEmitsStructWithCustomCopy(t *testing.T) {
	gen, kinfo, cinfo := newGenTables()
	diags := &diagnostics.List{}
	recID := gen.NewID(symtab.KindName, "Point")
	kinfo.Set(recID, kform.Info{Mangled: "_fx_Point", Def: &kform.KDefTyp{
		Name: recID,
		Body: kform.KTypRecord{Name: recID, Fields: []kform.KTypRecordField{
			{Name: "label", Typ: kform.KTypString{}},
			{Name: "x", Typ: kform.KTypInt{}},
		}},
	}})

	valID := gen.NewID(symtab.KindVal, "origin")
	km := &kform.Module{Name: "M", TopLevel: []kform.Expr{
		&kform.KDefVal{Name: valID, Typ: kform.KTypName{ID: recID}},
	}}

	cm := NewGenerator().Generate(km, gen, kinfo, cinfo, diags)
	if !diags.OK() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}

	info, ok := cinfo.Get(recID)
	if !ok || info.Def == nil {
		t.Fatalf("expected a CDefTyp recorded for the record type")
	}
	if !info.Def.Props.Complex || !info.Def.Props.CustomCopy {
		t.Fatalf("expected Complex+CustomCopy props, got %#v", info.Def.Props)
	}
	if info.Def.Props.FreeFn == "" {
		t.Fatalf("expected a destructor function name to be recorded")
	}

	sawTypDef := false
	for _, s := range cm.Stmts {
		if td, ok := s.(*cform.CTypDef); ok && td.Typ.Name.Key() == recID.Key() {
			sawTypDef = true
		}
	}
	if !sawTypDef {
		t.Fatalf("expected the record's CTypDef to survive dead-code pruning (referenced by origin's KDefVal)")
	}
}

// TestGenerateRecursiveVariantForwardDeclares exercises the
// recursive-variant rule: a self-referential variant must get a
// CForwardDecl before its own CTypDef and its companion tag enum.
func TestGenerateRecursiveVariantForwardDeclares(t *testing.T) {
	gen, kinfo, cinfo := newGenTables()
	diags := &diagnostics.List{}

	variantID := gen.NewID(symtab.KindName, "List")
	kinfo.Set(variantID, kform.Info{Mangled: "_fx_List", Def: &kform.KDefVariant{
		Name: variantID,
		Cases: []kform.KVariantCase{
			{Name: "Nil"},
			{Name: "Cons", Payload: kform.KTypTuple{Elems: []kform.KTyp{kform.KTypInt{}, kform.KTypName{ID: variantID}}}},
		},
		Flags: kform.VariantFlags{Recursive: true, NilCase: 0},
	}})

	fnID := gen.NewID(symtab.KindVal, "length")
	km := &kform.Module{Name: "M", TopLevel: []kform.Expr{
		&kform.KDefFun{Name: fnID, Args: []kform.KParam{{Name: gen.NewID(symtab.KindVal, "l"), Typ: kform.KTypName{ID: variantID}}}, RetType: kform.KTypInt{}},
	}}

	cm := NewGenerator().Generate(km, gen, kinfo, cinfo, diags)
	if !diags.OK() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}

	var sawForward, sawDef, sawEnum bool
	forwardIdx, defIdx := -1, -1
	for i, s := range cm.Stmts {
		switch n := s.(type) {
		case *cform.CForwardDecl:
			if n.Typ.Name.Key() == variantID.Key() {
				sawForward = true
				forwardIdx = i
			}
		case *cform.CTypDef:
			if n.Typ.Name.Key() == variantID.Key() {
				sawDef = true
				defIdx = i
			}
		case *cform.CEnumDef:
			sawEnum = true
		}
	}
	if !sawForward || !sawDef || !sawEnum {
		t.Fatalf("expected forward decl, type def, and tag enum all present, got forward=%v def=%v enum=%v", sawForward, sawDef, sawEnum)
	}
	if forwardIdx >= defIdx {
		t.Fatalf("expected the forward declaration to precede the full definition")
	}

	info, _ := cinfo.Get(variantID)
	if !info.Def.Recursive {
		t.Fatalf("expected the materialized CDefTyp to be marked Recursive")
	}
	if info.Def.NilCaseIdx != 0 {
		t.Fatalf("expected NilCaseIdx to carry through from KDefVariant.Flags.NilCase, got %d", info.Def.NilCaseIdx)
	}
}
