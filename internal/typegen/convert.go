package typegen

import (
	"fmt"
	"unicode"

	"github.com/ficuslang/ficusc/internal/cform"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
)

// convert maps one K-form type to its C-form shape and properties.
// Named types (KTypName) are resolved through ensureNamed so every
// reference shares one CDefTyp; every other shape is structural and
// is rebuilt inline at each occurrence.
func (ctx *genCtx) convert(t kform.KTyp) (cform.CTyp, cform.TypeProps) {
	switch tt := t.(type) {
	case nil:
		return cform.CTypScalar{Name: "void"}, cform.TypeProps{Scalar: true}
	case kform.KTypVoid:
		return cform.CTypScalar{Name: "void"}, cform.TypeProps{Scalar: true}
	case kform.KTypBool:
		return cform.CTypScalar{Name: "bool"}, cform.TypeProps{Scalar: true}
	case kform.KTypChar:
		return cform.CTypScalar{Name: "fx_char_t"}, cform.TypeProps{Scalar: true}
	case kform.KTypInt:
		return cform.CTypScalar{Name: "int_"}, cform.TypeProps{Scalar: true}
	case kform.KTypFixed:
		return cform.CTypScalar{Name: fixedCName(tt)}, cform.TypeProps{Scalar: true}
	case kform.KTypFloat:
		return cform.CTypScalar{Name: floatCName(tt)}, cform.TypeProps{Scalar: true}
	case kform.KTypString:
		return cform.CTypScalar{Name: "fx_str_t"}, cform.TypeProps{Complex: true, CustomCopy: true}
	case kform.KTypCPtr:
		return cform.CTypScalar{Name: "fx_cptr_t"}, cform.TypeProps{Complex: true}
	case kform.KTypExn:
		return cform.CTypScalar{Name: "fx_exn_t"}, cform.TypeProps{Complex: true, CustomCopy: true}
	case kform.KTypArray:
		elem, _ := ctx.convert(tt.Elem)
		return cform.CTypArray{Elem: elem}, cform.TypeProps{Complex: true, CustomCopy: true}
	case kform.KTypFun:
		return ctx.closureShape(tt)
	case kform.KTypName:
		return ctx.ensureNamed(tt.ID)
	case kform.KTypTuple:
		return ctx.tupleShape(tt)
	case kform.KTypRecord:
		return ctx.recordShape(tt)
	case kform.KTypList:
		return ctx.listShape(tt)
	case kform.KTypRef:
		return ctx.refShape(tt)
	default:
		return cform.CTypScalar{Name: "void"}, cform.TypeProps{Scalar: true}
	}
}

func fixedCName(t kform.KTypFixed) string {
	switch {
	case t.Signed:
		return fmt.Sprintf("int%d_t", t.Bits)
	default:
		return fmt.Sprintf("uint%d_t", t.Bits)
	}
}

func floatCName(t kform.KTypFloat) string {
	switch t.Bits {
	case 16:
		return "fx_half_t"
	case 32:
		return "float"
	default:
		return "double"
	}
}

// ensureNamed returns (and, the first time, builds and emits) the
// CDefTyp for a K-form named type: a mangler-materialized tuple/list/
// ref/function alias, a user type alias/record, or a variant.
func (ctx *genCtx) ensureNamed(id symtab.ID) (cform.CTyp, cform.TypeProps) {
	if info, ok := ctx.cinfo.Get(id); ok && info.Def != nil {
		return cform.CTypName{ID: id}, info.Def.Props
	}
	if def, ok := ctx.g.inProgress[id.Key()]; ok {
		return cform.CTypName{ID: id}, def.Props
	}

	kinfo, ok := ctx.kinfo.Get(id)
	if !ok || kinfo.Def == nil {
		return cform.CTypName{ID: id}, cform.TypeProps{}
	}

	switch d := kinfo.Def.(type) {
	case *kform.KDefVariant:
		ctx.buildVariant(d)
	case *kform.KDefTyp:
		ctx.buildAlias(d)
	}
	info, _ := ctx.cinfo.Get(id)
	if info.Def == nil {
		return cform.CTypName{ID: id}, cform.TypeProps{}
	}
	return cform.CTypName{ID: id}, info.Def.Props
}

// buildAlias handles a KDefTyp: a structural alias materialized by
// the mangler (tuple/list/ref/fun), or a user record/alias.
func (ctx *genCtx) buildAlias(d *kform.KDefTyp) {
	switch body := d.Body.(type) {
	case kform.KTypRecord:
		layout, props := ctx.recordShape(body)
		ctx.finish(d.Name, layout, props, true)
	case kform.KTypTuple, kform.KTypList, kform.KTypRef:
		layout, props := ctx.convert(d.Body)
		if named, ok := layout.(cform.CTypName); ok {
			aliased, _ := ctx.cinfo.Get(named.ID)
			if aliased.Def != nil {
				ctx.finish(d.Name, aliased.Def.Layout, props, true)
				return
			}
		}
		ctx.finish(d.Name, layout, props, true)
	default:
		layout, props := ctx.convert(d.Body)
		if named, ok := layout.(cform.CTypName); ok {
			aliased, _ := ctx.cinfo.Get(named.ID)
			if aliased.Def != nil {
				ctx.finish(d.Name, aliased.Def.Layout, props, false)
				return
			}
		}
		ctx.finish(d.Name, layout, props, false)
	}
}

func (ctx *genCtx) tupleShape(t kform.KTypTuple) (cform.CTyp, cform.TypeProps) {
	fields := make([]cform.CField, len(t.Elems))
	complex_ := false
	for i, e := range t.Elems {
		ctyp, props := ctx.convert(e)
		fields[i] = cform.CField{Name: fmt.Sprintf("t%d", i), Typ: ctyp}
		complex_ = complex_ || props.Complex
	}
	return cform.CTypStruct{Fields: fields}, cform.TypeProps{Complex: complex_, CustomCopy: complex_}
}

func (ctx *genCtx) recordShape(t kform.KTypRecord) (cform.CTyp, cform.TypeProps) {
	fields := make([]cform.CField, len(t.Fields))
	complex_ := false
	for i, f := range t.Fields {
		ctyp, props := ctx.convert(f.Typ)
		fields[i] = cform.CField{Name: sanitizeC(f.Name), Typ: ctyp}
		complex_ = complex_ || props.Complex
	}
	return cform.CTypStruct{Name: t.Name, Fields: fields}, cform.TypeProps{Complex: complex_, CustomCopy: complex_}
}

// listShape/refShape both build a heap cell: a reference-counted
// struct reached only through a pointer.
func (ctx *genCtx) listShape(t kform.KTypList) (cform.CTyp, cform.TypeProps) {
	elem, _ := ctx.convert(t.Elem)
	cell := cform.CTypStruct{Fields: []cform.CField{
		{Name: "rc", Typ: cform.CTypScalar{Name: "int_"}},
		{Name: "tl", Typ: cform.CTypRawPtr{Elem: cform.CTypScalar{Name: "struct list_cell"}}},
		{Name: "hd", Typ: elem},
	}}
	return cform.CTypRawPtr{Elem: cell}, cform.TypeProps{Ptr: true, Complex: true, CustomCopy: true}
}

func (ctx *genCtx) refShape(t kform.KTypRef) (cform.CTyp, cform.TypeProps) {
	elem, _ := ctx.convert(t.Elem)
	cell := cform.CTypStruct{Fields: []cform.CField{
		{Name: "rc", Typ: cform.CTypScalar{Name: "int_"}},
		{Name: "data", Typ: elem},
	}}
	return cform.CTypRawPtr{Elem: cell}, cform.TypeProps{Ptr: true, Complex: true, CustomCopy: true}
}

// closureShape is the inline {fp, fcv} pair a function-typed value
// needs: a raw function pointer plus a borrowed pointer to the
// captured-variable block, itself reference-counted so releasing the
// closure releases its capture.
func (ctx *genCtx) closureShape(t kform.KTypFun) (cform.CTyp, cform.TypeProps) {
	args := make([]cform.CTyp, len(t.Args))
	for i, a := range t.Args {
		args[i], _ = ctx.convert(a)
	}
	ret, _ := ctx.convert(t.Ret)
	fp := cform.CTypFunRawPtr{Args: args, Ret: ret}
	shape := cform.CTypStruct{Fields: []cform.CField{
		{Name: "fp", Typ: fp},
		{Name: "fcv", Typ: cform.CTypRawPtr{Elem: cform.CTypScalar{Name: "void"}}},
	}}
	return shape, cform.TypeProps{Complex: true, CustomCopy: true}
}

func (ctx *genCtx) finish(id symtab.ID, layout cform.CTyp, props cform.TypeProps, needsCtor bool) {
	name, _ := ctx.kinfo.Get(id)
	mangled := name.Mangled
	if mangled == "" {
		mangled = sanitizeC(id.Prefix)
	}
	if props.Complex {
		props.FreeFn = "_fx_free_" + mangled
		if props.CustomCopy {
			props.CopyFn = "_fx_copy_" + mangled
		}
	}
	def := &cform.CDefTyp{Name: id, Layout: layout, Props: props, NilCaseIdx: -1}
	ctx.cinfo.Set(id, cform.Info{Def: def})
	ctx.stmts = append(ctx.stmts, &cform.CTypDef{Typ: def})
	if props.Complex {
		ctx.emitDestructor(def)
		if props.CustomCopy {
			ctx.emitCopy(def)
		}
	}
	if needsCtor {
		ctx.emitConstructor(def)
	}
}

// sanitizeC builds a plain C field/parameter identifier; unlike
// internal/mangle's sanitizeCIdent this never goes through the
// global uniqueness/collision table, since field and parameter names
// only need to be valid and distinct within their own struct/signature.
func sanitizeC(s string) string {
	if s == "" {
		return "x"
	}
	r := []rune(s)
	out := make([]rune, len(r))
	for i, c := range r {
		switch {
		case i == 0 && (c == '_' || unicode.IsLetter(c)):
			out[i] = c
		case i > 0 && (c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)):
			out[i] = c
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
