// Package typegen implements the C-form type generator: for every
// K-form type reachable from a module it builds a CDefTyp
// recording its C layout and reference-counting properties, emits the
// forward declarations recursive variants require, the companion tag
// enum for every variant, the destructor/copy/constructor bodies
// complex types need, and finally prunes whatever the module's own
// statements never ended up referencing.
package typegen

import (
	"github.com/ficuslang/ficusc/internal/cform"
	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
)

// Generator holds the process-wide state that must survive across
// every module of one Compilation: the negative exception-tag counter
// (allocated at a negative base and decremented per exception) and the
// set of types currently being built, which lets a self-referential
// recursive variant resolve to its own forward declaration instead of
// recursing forever.
type Generator struct {
	exnTag     int
	inProgress map[symtab.Key]*cform.CDefTyp
}

func NewGenerator() *Generator {
	return &Generator{exnTag: -1024, inProgress: map[symtab.Key]*cform.CDefTyp{}}
}

type genCtx struct {
	g     *Generator
	gen   *symtab.Gen
	kinfo *symtab.Table[kform.Info]
	cinfo *symtab.Table[cform.Info]
	diags *diagnostics.List
	stmts []cform.CStmt
	// roots collects named types reachable only through a top-level
	// value's declared type, never through any function signature, so
	// pruneUnreachable does not mistake them for dead code.
	roots []symtab.ID

	// utilOwner maps a generated destructor/copy/constructor's own id
	// back to the CDefTyp id it serves, so pruneUnreachable can drop it
	// exactly when its owning type is pruned.
	utilOwner map[symtab.Key]symtab.ID
}

// Generate runs component F over one K-form module, returning its
// C-form counterpart. cinfo is the process-wide C-stage symbol table:
// a named type built while generating an earlier module is reused
// (not regenerated) when a later module references the same id.
func (g *Generator) Generate(m *kform.Module, gen *symtab.Gen, kinfo *symtab.Table[kform.Info], cinfo *symtab.Table[cform.Info], diags *diagnostics.List) *cform.Module {
	ctx := &genCtx{g: g, gen: gen, kinfo: kinfo, cinfo: cinfo, diags: diags, utilOwner: map[symtab.Key]symtab.ID{}}

	for _, stmt := range m.TopLevel {
		switch d := stmt.(type) {
		case *kform.KDefTyp:
			ctx.ensureNamed(d.Name)
		case *kform.KDefVariant:
			ctx.ensureNamed(d.Name)
		case *kform.KDefExn:
			ctx.ensureExn(d)
		case *kform.KDefFun:
			ctx.emitFunDecl(d)
		case *kform.KDefVal:
			if d.Typ != nil {
				ctyp, _ := ctx.convert(d.Typ)
				if named, ok := ctyp.(cform.CTypName); ok {
					ctx.roots = append(ctx.roots, named.ID)
				}
			}
		}
	}

	stmts := pruneUnreachable(ctx.stmts, ctx.roots, ctx.utilOwner)

	return &cform.Module{
		Name:  m.Name,
		Stmts: stmts,
		Main:  m.Main,
	}
}

// emitFunDecl forwards a user function's C signature only; the body is
// the job of a final code generation backend (internal/codegen) — no
// statement-emission algorithm lives here.
func (ctx *genCtx) emitFunDecl(d *kform.KDefFun) {
	params := make([]cform.CField, len(d.Args))
	for i, p := range d.Args {
		ctyp, _ := ctx.convert(p.Typ)
		params[i] = cform.CField{Name: sanitizeC(p.Name.Prefix), Typ: ctyp}
	}
	ret, _ := ctx.convert(d.RetType)
	ctx.stmts = append(ctx.stmts, &cform.CFunDef{
		Name:   d.Name,
		Params: params,
		Ret:    ret,
		Body:   nil,
		Static: d.Flags.Private,
	})
}

func (ctx *genCtx) ensureExn(d *kform.KDefExn) {
	if _, ok := ctx.cinfo.Get(d.Name); ok {
		return
	}
	d.Tag = ctx.g.exnTag
	ctx.g.exnTag--
	var payload cform.CTyp
	props := cform.TypeProps{Complex: true, Ptr: false}
	if d.Arg != nil {
		payload, _ = ctx.convert(d.Arg)
	}
	def := &cform.CDefTyp{
		Name:   d.Name,
		Layout: cform.CTypStruct{Name: d.Name, Fields: []cform.CField{{Name: "arg", Typ: payload}}},
		Props:  props,
	}
	ctx.cinfo.Set(d.Name, cform.Info{Def: def})
	ctx.stmts = append(ctx.stmts, &cform.CTypDef{Typ: def})
}
