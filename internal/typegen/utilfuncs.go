package typegen

import (
	"github.com/ficuslang/ficusc/internal/cform"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
)

// local names a bare C parameter/local by its already-rendered text;
// CExprIdent carries a symtab.ID and is reserved for referencing
// symbol-table-tracked globals (types, functions), not the throwaway
// locals a generated utility function declares for itself.
func local(name string) cform.CExpr { return cform.CExprLit{Text: name} }

// funcID mints a fresh id for a type-utility function (destructor,
// copy, constructor), distinct from the owning type's own id — the
// two name separate C declarations and must never share one mangled
// identifier — seeds kinfo with the mangled text already decided in
// finish/finishVariant, and records owner so deadcode.go's isDead can
// later prune this function alongside the CDefTyp it serves.
func (ctx *genCtx) funcID(kind, mangled string, owner symtab.ID) symtab.ID {
	id := ctx.gen.NewID(symtab.KindName, kind)
	ctx.kinfo.Set(id, kform.Info{Mangled: mangled})
	ctx.utilOwner[id.Key()] = owner
	return id
}

// emitDestructor builds `_fx_free_<name>(dst*)`: for a pointer-backed
// reference-counted cell (list/ref/recursive variant) it decrements
// the refcount and only frees the payload plus the block itself once
// the count reaches zero; while other holders remain, it nulls out
// *dst instead, so the now-unreachable local can never accidentally
// dereference a block another holder may later free. For an inline
// struct (tuple/record/non-recursive variant/closure) it frees each
// complex field in place.
func (ctx *genCtx) emitDestructor(def *cform.CDefTyp) {
	dst := local("dst")
	var body []cform.CStmt

	if ptr, ok := def.Layout.(cform.CTypRawPtr); ok {
		cell, _ := ptr.Elem.(cform.CTypStruct)
		deref := cform.CExprUnary{Op: "*", E: dst}
		rc := cform.CExprArrow{E: deref, Field: "rc"}
		dec := &cform.CExprStmt{E: cform.CExprUnary{Op: "--", E: rc}}
		freeFields := ctx.freeStructFields(deref, cell.Fields, true)
		freeFields = append(freeFields, &cform.CExprStmt{E: cform.CExprCall{Fn: "fx_free", Args: []cform.CExpr{dst}}})
		nullOut := []cform.CStmt{
			&cform.CExprStmt{E: cform.CExprBinary{Op: "=", L: deref, R: cform.CExprLit{Text: "NULL"}}},
		}
		body = []cform.CStmt{
			dec,
			&cform.CIf{
				Cond: cform.CExprBinary{Op: "<=", L: rc, R: cform.CExprLit{Text: "0"}},
				Then: &cform.CBlock{Stmts: freeFields},
				Else: &cform.CBlock{Stmts: nullOut},
			},
		}
	} else {
		cell, _ := def.Layout.(cform.CTypStruct)
		body = ctx.freeStructFields(cform.CExprUnary{Op: "*", E: dst}, cell.Fields, false)
	}

	ctx.stmts = append(ctx.stmts, &cform.CFunDef{
		Name: ctx.funcID("free", def.Props.FreeFn, def.Name),
		Params: []cform.CField{
			{Name: "dst", Typ: cform.CTypRawPtr{Elem: def.Layout}},
		},
		Ret:  cform.CTypScalar{Name: "void"},
		Body: &cform.CBlock{Stmts: body},
	})
}

// freeStructFields emits one free call per complex field of base
// (already dereferenced), using "->" when base is itself a pointer
// dereference one level removed (a recursive variant's payload sits
// behind the block pointer) or "." for a plain inline struct value.
func (ctx *genCtx) freeStructFields(base cform.CExpr, fields []cform.CField, arrow bool) []cform.CStmt {
	var stmts []cform.CStmt
	for _, f := range fields {
		if f.Name == "rc" || f.Name == "tag" {
			continue
		}
		var fn string
		switch named := f.Typ.(type) {
		case cform.CTypName:
			info, ok := ctx.cinfo.Get(named.ID)
			if !ok || info.Def == nil || !info.Def.Props.Complex {
				continue
			}
			fn = info.Def.Props.FreeFn
		case cform.CTypArray:
			fn = "fx_free_arr"
		default:
			continue
		}
		var access cform.CExpr
		if arrow {
			access = cform.CExprArrow{E: base, Field: f.Name}
		} else {
			access = cform.CExprMem{E: base, Field: f.Name}
		}
		stmts = append(stmts, &cform.CExprStmt{E: cform.CExprCall{Fn: fn, Args: []cform.CExpr{
			cform.CExprUnary{Op: "&", E: access},
		}}})
	}
	return stmts
}

// emitCopy builds `_fx_copy_<name>(src*, dst*)`: for a reference-
// counted cell it shares the pointer and bumps the refcount; for an
// inline struct it copies the whole value through (field-by-field
// custom copy is only needed once a statement-emission backend starts
// threading individual assignments through this function).
func (ctx *genCtx) emitCopy(def *cform.CDefTyp) {
	src, dst := local("src"), local("dst")
	var body []cform.CStmt

	if _, ok := def.Layout.(cform.CTypRawPtr); ok {
		srcVal := cform.CExprUnary{Op: "*", E: src}
		body = []cform.CStmt{
			&cform.CExprStmt{E: cform.CExprUnary{Op: "++", E: cform.CExprArrow{E: srcVal, Field: "rc"}}},
			&cform.CExprStmt{E: cform.CExprBinary{Op: "=", L: cform.CExprUnary{Op: "*", E: dst}, R: srcVal}},
		}
	} else {
		body = []cform.CStmt{
			&cform.CExprStmt{E: cform.CExprBinary{Op: "=", L: cform.CExprUnary{Op: "*", E: dst}, R: cform.CExprUnary{Op: "*", E: src}}},
		}
	}

	ctx.stmts = append(ctx.stmts, &cform.CFunDef{
		Name: ctx.funcID("copy", def.Props.CopyFn, def.Name),
		Params: []cform.CField{
			{Name: "src", Typ: cform.CTypRawPtr{Elem: def.Layout}},
			{Name: "dst", Typ: cform.CTypRawPtr{Elem: def.Layout}},
		},
		Ret:  cform.CTypScalar{Name: "void"},
		Body: &cform.CBlock{Stmts: body},
	})
}

// emitConstructor builds `_fx_make_<name>(result*) -> int`: for a
// pointer-backed type it allocates the block and seeds rc=1; for an
// inline struct it simply reports success. Threading the actual field
// values through is a statement-emission backend's job once one
// exists; this gives the rest of the pipeline a real,
// callable constructor symbol to reference in the meantime.
func (ctx *genCtx) emitConstructor(def *cform.CDefTyp) {
	result := local("result")
	var body []cform.CStmt
	if _, ok := def.Layout.(cform.CTypRawPtr); ok {
		blk := local("blk")
		body = []cform.CStmt{
			&cform.CValDecl{Typ: def.Layout, Init: cform.CExprCall{Fn: "fx_malloc", Args: []cform.CExpr{
				cform.CExprCall{Fn: "sizeof", Args: []cform.CExpr{blk}},
			}}},
			&cform.CExprStmt{E: cform.CExprBinary{Op: "=", L: cform.CExprArrow{E: cform.CExprUnary{Op: "*", E: blk}, Field: "rc"}, R: cform.CExprLit{Text: "1"}}},
			&cform.CExprStmt{E: cform.CExprBinary{Op: "=", L: cform.CExprUnary{Op: "*", E: result}, R: blk}},
			&cform.CReturn{Value: cform.CExprLit{Text: "0"}},
		}
	} else {
		body = []cform.CStmt{&cform.CReturn{Value: cform.CExprLit{Text: "0"}}}
	}
	name, _ := ctx.kinfo.Get(def.Name)
	mangled := name.Mangled
	if mangled == "" {
		mangled = sanitizeC(def.Name.Prefix)
	}
	id := ctx.funcID("make", "_fx_make_"+mangled, def.Name)
	def.Props.Ctors = append(def.Props.Ctors, id)
	ctx.stmts = append(ctx.stmts, &cform.CFunDef{
		Name: id,
		Params: []cform.CField{
			{Name: "result", Typ: cform.CTypRawPtr{Elem: def.Layout}},
		},
		Ret:  cform.CTypScalar{Name: "int"},
		Body: &cform.CBlock{Stmts: body},
	})
}
