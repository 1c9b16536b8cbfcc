package typegen

import (
	"testing"

	"github.com/ficuslang/ficusc/internal/cform"
	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/symtab"
)

// TestEmitDestructorNullsOutSharedPointer exercises the pointer-backed
// branch of emitDestructor: once the refcount is decremented, a holder
// that still sees rc >= 1 must null out its own pointer rather than
// leave it dangling toward a block another holder may go on to free.
func TestEmitDestructorNullsOutSharedPointer(t *testing.T) {
	gen, kinfo, cinfo := newGenTables()
	ctx := &genCtx{g: NewGenerator(), gen: gen, kinfo: kinfo, cinfo: cinfo, diags: &diagnostics.List{}, utilOwner: map[symtab.Key]symtab.ID{}}

	cellID := gen.NewID(symtab.KindName, "Cons")
	def := &cform.CDefTyp{
		Name: cellID,
		Layout: cform.CTypRawPtr{Elem: cform.CTypStruct{
			Name: cellID,
			Fields: []cform.CField{
				{Name: "rc", Typ: cform.CTypScalar{Name: "int"}},
				{Name: "head", Typ: cform.CTypScalar{Name: "int"}},
			},
		}},
		Props: cform.TypeProps{Complex: true, Ptr: true, FreeFn: "_fx_free_Cons"},
	}

	ctx.emitDestructor(def)
	if len(ctx.stmts) != 1 {
		t.Fatalf("expected exactly one emitted statement, got %d", len(ctx.stmts))
	}
	fn, ok := ctx.stmts[0].(*cform.CFunDef)
	if !ok {
		t.Fatalf("expected a CFunDef, got %T", ctx.stmts[0])
	}
	if len(fn.Body.Stmts) != 2 {
		t.Fatalf("expected a decrement followed by the if/else, got %d statements", len(fn.Body.Stmts))
	}
	ifStmt, ok := fn.Body.Stmts[1].(*cform.CIf)
	if !ok {
		t.Fatalf("expected the second statement to be the refcount CIf, got %T", fn.Body.Stmts[1])
	}
	if ifStmt.Then == nil || len(ifStmt.Then.Stmts) == 0 {
		t.Fatalf("expected a non-empty Then branch freeing the cell")
	}
	if ifStmt.Else == nil || len(ifStmt.Else.Stmts) != 1 {
		t.Fatalf("expected an Else branch nulling out the pointer when other holders remain, got %#v", ifStmt.Else)
	}
	assign, ok := ifStmt.Else.Stmts[0].(*cform.CExprStmt)
	if !ok {
		t.Fatalf("expected the Else branch to be a single assignment, got %T", ifStmt.Else.Stmts[0])
	}
	bin, ok := assign.E.(cform.CExprBinary)
	if !ok || bin.Op != "=" {
		t.Fatalf("expected an assignment expression, got %#v", assign.E)
	}
	rhs, ok := bin.R.(cform.CExprLit)
	if !ok || rhs.Text != "NULL" {
		t.Fatalf("expected *dst to be assigned NULL, got %#v", bin.R)
	}
}
