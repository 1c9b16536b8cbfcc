package typegen

import (
	"github.com/ficuslang/ficusc/internal/cform"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
)

// buildVariant applies the recursive/enum/nullable-case rules for
// variant types. d.Flags is already computed upstream (Recursive comes
// from the AST, Option/NilCase from internal/knf's hoistVariant), so
// this only has to act on Recursive/Option/NilCase, not rediscover them.
func (ctx *genCtx) buildVariant(d *kform.KDefVariant) {
	var placeholder *cform.CDefTyp
	if d.Flags.Recursive {
		placeholder = &cform.CDefTyp{Name: d.Name, Recursive: true, NilCaseIdx: d.Flags.NilCase}
		ctx.g.inProgress[d.Name.Key()] = placeholder
		ctx.stmts = append(ctx.stmts, &cform.CForwardDecl{Typ: placeholder})
	}

	start := 1
	if d.Flags.Option {
		start = 0
	}

	members := make([]cform.EnumMember, 0, len(d.Cases))
	unionFields := make([]cform.CField, 0, len(d.Cases))
	anyPayloadComplex := false
	for i := range d.Cases {
		c := &d.Cases[i]
		c.Tag = start + i
		members = append(members, cform.EnumMember{CaseName: c.Name, Value: c.Tag})
		if !hasPayload(c.Payload) {
			continue
		}
		ctyp, props := ctx.convert(c.Payload)
		unionFields = append(unionFields, cform.CField{Name: sanitizeC(c.Name), Typ: ctyp})
		anyPayloadComplex = anyPayloadComplex || props.Complex
	}

	nameInfo, _ := ctx.kinfo.Get(d.Name)
	enumID := ctx.gen.NewID(symtab.KindName, nameInfo.Mangled+"_tag_t")
	ctx.kinfo.Set(enumID, kform.Info{Mangled: nameInfo.Mangled + "_tag_t"})
	ctx.stmts = append(ctx.stmts, &cform.CEnumDef{Name: enumID, Members: members})

	union := cform.CTypUnion{Name: d.Name, Fields: unionFields}

	nullable := d.Flags.NilCase >= 0 && len(d.Cases) == 2

	var layout cform.CTyp
	var props cform.TypeProps
	needsCtor := false
	if d.Flags.Recursive {
		fields := []cform.CField{{Name: "rc", Typ: cform.CTypScalar{Name: "int_"}}}
		if !nullable {
			fields = append(fields, cform.CField{Name: "tag", Typ: cform.CTypName{ID: enumID}})
		}
		fields = append(fields, cform.CField{Name: "u", Typ: union})
		layout = cform.CTypRawPtr{Elem: cform.CTypStruct{Name: d.Name, Fields: fields}}
		props = cform.TypeProps{Ptr: true, Complex: true}
		needsCtor = true
	} else {
		var fields []cform.CField
		if len(d.Cases) > 1 {
			fields = append(fields, cform.CField{Name: "tag", Typ: cform.CTypName{ID: enumID}})
		}
		fields = append(fields, cform.CField{Name: "u", Typ: union})
		layout = cform.CTypStruct{Name: d.Name, Fields: fields}
		props = cform.TypeProps{Complex: anyPayloadComplex, CustomCopy: anyPayloadComplex}
	}

	def := ctx.finishVariant(d.Name, layout, props, needsCtor)
	def.EnumName = enumID
	def.EnumMembers = members
	def.NilCaseIdx = d.Flags.NilCase
	def.Recursive = d.Flags.Recursive
	delete(ctx.g.inProgress, d.Name.Key())
}

func hasPayload(t kform.KTyp) bool {
	if t == nil {
		return false
	}
	_, isVoid := t.(kform.KTypVoid)
	return !isVoid
}

// finishVariant mirrors finish but returns the def (so buildVariant can
// attach its enum afterward) and lets the caller say whether a
// _fx_make_ constructor applies (only recursive variants need one;
// a non-recursive variant's cases are built in place by their
// constructor KDefFun, generated elsewhere in K-form).
func (ctx *genCtx) finishVariant(id symtab.ID, layout cform.CTyp, props cform.TypeProps, needsCtor bool) *cform.CDefTyp {
	name, _ := ctx.kinfo.Get(id)
	mangled := name.Mangled
	if mangled == "" {
		mangled = sanitizeC(id.Prefix)
	}
	if props.Complex {
		props.FreeFn = "_fx_free_" + mangled
	}
	def := &cform.CDefTyp{Name: id, Layout: layout, Props: props, NilCaseIdx: -1}
	ctx.cinfo.Set(id, cform.Info{Def: def})
	ctx.stmts = append(ctx.stmts, &cform.CTypDef{Typ: def})
	if props.Complex {
		ctx.emitDestructor(def)
	}
	if needsCtor {
		ctx.emitConstructor(def)
	}
	return def
}
