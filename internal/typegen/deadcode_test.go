package typegen

import (
	"testing"

	"github.com/ficuslang/ficusc/internal/cform"
	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
)

// TestGenerateDropsUtilityFunctionsOfPrunedRecord exercises component
// F's dead-type elimination end to end: a record type nothing in the
// module ends up referencing must disappear along with the destructor
// (and copy function, since its one field is complex) generated for
// it, not just its CTypDef.
func TestGenerateDropsUtilityFunctionsOfPrunedRecord(t *testing.T) {
	gen, kinfo, cinfo := newGenTables()
	diags := &diagnostics.List{}

	deadID := gen.NewID(symtab.KindName, "Unused")
	kinfo.Set(deadID, kform.Info{Mangled: "_fx_Unused", Def: &kform.KDefTyp{
		Name: deadID,
		Body: kform.KTypRecord{Name: deadID, Fields: []kform.KTypRecordField{
			{Name: "label", Typ: kform.KTypString{}},
		}},
	}})

	// The type def itself is present (so it is built and gets a
	// destructor), but the only function in the module never mentions
	// it in its signature, so nothing roots it once pruning runs.
	fnID := gen.NewID(symtab.KindVal, "noop")
	km := &kform.Module{Name: "M", TopLevel: []kform.Expr{
		&kform.KDefTyp{Name: deadID, Body: kform.KTypRecord{Name: deadID, Fields: []kform.KTypRecordField{
			{Name: "label", Typ: kform.KTypString{}},
		}}},
		&kform.KDefFun{Name: fnID, RetType: kform.KTypVoid{}},
	}}

	cm := NewGenerator().Generate(km, gen, kinfo, cinfo, diags)
	if !diags.OK() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}

	for _, s := range cm.Stmts {
		switch n := s.(type) {
		case *cform.CTypDef:
			if n.Typ.Name.Key() == deadID.Key() {
				t.Fatalf("expected the unreferenced record's CTypDef to be pruned")
			}
		case *cform.CFunDef:
			if n.Name.Prefix == "free" || n.Name.Prefix == "copy" {
				t.Fatalf("expected %s's utility function to be pruned alongside its owner, found %#v", n.Name.Prefix, n)
			}
		}
	}
}

// TestGenerateKeepsUtilityFunctionsOfReachableRecord is the positive
// twin: a record reachable through a top-level value's declared type
// keeps its destructor (and copy function) in the output.
func TestGenerateKeepsUtilityFunctionsOfReachableRecord(t *testing.T) {
	gen, kinfo, cinfo := newGenTables()
	diags := &diagnostics.List{}

	recID := gen.NewID(symtab.KindName, "Point")
	kinfo.Set(recID, kform.Info{Mangled: "_fx_Point", Def: &kform.KDefTyp{
		Name: recID,
		Body: kform.KTypRecord{Name: recID, Fields: []kform.KTypRecordField{
			{Name: "label", Typ: kform.KTypString{}},
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
	if !ok || info.Def == nil || info.Def.Props.FreeFn == "" {
		t.Fatalf("expected the reachable record to carry a destructor name")
	}

	var sawFree bool
	for _, s := range cm.Stmts {
		if fd, ok := s.(*cform.CFunDef); ok && fd.Name.Prefix == "free" {
			sawFree = true
		}
	}
	if !sawFree {
		t.Fatalf("expected the reachable record's destructor to survive pruning")
	}
}
