package knf

import (
	"github.com/ficuslang/ficusc/internal/ast"
	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
	"github.com/ficuslang/ficusc/internal/token"
)

// hoistTypeDefs batch-processes every DefVariant/DefExn (and every
// record-bodied DefTypeAlias) before any expression in the module is
// lowered, populating the by-id and by-name lookup maps patmatch and
// RecordCons/RecordUpdate lowering need mid-expression.
func (n *normalizer) hoistTypeDefs(mod *ast.Module, km *kform.Module) {
	for _, stmt := range mod.TopLevel {
		switch s := stmt.(type) {
		case *ast.DefVariant:
			n.hoistVariant(s, km)
		case *ast.DefExn:
			n.hoistExn(s, km)
		case *ast.DefTypeAlias:
			if rec, ok := s.Typ.(kform.KTypRecord); ok {
				def := &kform.KDefTyp{CtxV: ctx(kform.KTypVoid{}, s.Loc()), Name: s.Name, Body: rec}
				km.TopLevel = append(km.TopLevel, def)
				n.records[s.Name] = def
				n.recordsByName[s.Name.Prefix] = def
			}
		}
	}
}

// hoistVariant lowers a DefVariant to a KDefVariant (or, for a
// single-case record variant, directly to a KDefTyp with a record
// body) plus one constructor KDefFun per non-void-payload case.
// Tags start at 0 when the variant is recursive with exactly one
// payload-free case (so that case can later be represented as a NULL
// pointer by internal/typegen); otherwise tags start at 1.
func (n *normalizer) hoistVariant(s *ast.DefVariant, km *kform.Module) {
	loc := s.Loc()

	if s.RecordVariant && len(s.Cases) == 1 {
		def := &kform.KDefTyp{CtxV: ctx(kform.KTypVoid{}, loc), Name: s.Name, Body: s.Cases[0].Payload}
		km.TopLevel = append(km.TopLevel, def)
		n.records[s.Name] = def
		n.recordsByName[s.Name.Prefix] = def
		return
	}

	nilCase := -1
	for i, c := range s.Cases {
		if c.Payload == nil {
			nilCase = i
			break
		}
	}
	option := s.Recursive && nilCase >= 0
	base := 1
	if option {
		base = 0
	}

	cases := make([]kform.KVariantCase, len(s.Cases))
	for i, c := range s.Cases {
		var ctorID symtab.ID
		if c.Payload != nil {
			ctorID = n.env.Gen.NewID(symtab.KindVal, s.Name.Prefix+"_"+c.Name)
		}
		cases[i] = kform.KVariantCase{Name: c.Name, Tag: base + i, Payload: c.Payload, Ctor: ctorID}
	}

	kv := &kform.KDefVariant{
		CtxV: ctx(kform.KTypVoid{}, loc), Name: s.Name, Cases: cases,
		Flags: kform.VariantFlags{Recursive: s.Recursive, Option: option, NilCase: nilCase},
	}
	km.TopLevel = append(km.TopLevel, kv)
	n.variants[s.Name] = kv
	n.variantsByName[s.Name.Prefix] = kv

	for i, c := range s.Cases {
		if c.Payload == nil {
			continue
		}
		km.TopLevel = append(km.TopLevel, n.variantCtor(s.Name, cases[i].Ctor, i, c.Payload, loc))
	}
}

// variantCtor builds the auto-generated constructor function for one
// payload-carrying case: a tuple payload is spread across one
// parameter per element (matching the C-form struct layout
// internal/typegen produces), any other payload shape takes a single
// parameter.
func (n *normalizer) variantCtor(variantID, ctorID symtab.ID, caseIdx int, payload kform.KTyp, loc token.Loc) *kform.KDefFun {
	var params []kform.KParam
	var args []kform.Atom
	if tup, ok := payload.(kform.KTypTuple); ok {
		params = make([]kform.KParam, len(tup.Elems))
		args = make([]kform.Atom, len(tup.Elems))
		for i, et := range tup.Elems {
			pid := n.env.Gen.NewID(symtab.KindVal, "a")
			params[i] = kform.KParam{Name: pid, Typ: et}
			args[i] = kform.AtomId{ID: pid, Ctx: ctx(et, loc)}
		}
	} else {
		pid := n.env.Gen.NewID(symtab.KindVal, "a")
		params = []kform.KParam{{Name: pid, Typ: payload}}
		args = []kform.Atom{kform.AtomId{ID: pid, Ctx: ctx(payload, loc)}}
	}
	retTyp := kform.KTypName{ID: variantID}
	body := &kform.KExprMkVariant{CtxV: ctx(retTyp, loc), Variant: variantID, CaseIdx: caseIdx, Payload: args}
	return &kform.KDefFun{
		CtxV: ctx(kform.KTypVoid{}, loc), Name: ctorID, Args: params, RetType: retTyp, Body: body,
		Flags: kform.FunFlags{Ctor: true, Pure: true, NoThrow: true},
	}
}

// hoistExn lowers a DefExn to a KDefExn, allocating its tag at the
// negative exception base, decrementing per declaration.
func (n *normalizer) hoistExn(s *ast.DefExn, km *kform.Module) {
	tag := n.nextExnTag
	n.nextExnTag--
	km.TopLevel = append(km.TopLevel, &kform.KDefExn{
		CtxV: ctx(kform.KTypVoid{}, s.Loc()), Name: s.Name, Arg: s.Arg, Tag: tag,
	})
}

// recordFieldsOf resolves a (possibly nominal) record type to its
// declared field list; used by RecordUpdate lowering, irrefutable
// record-pattern unpacking, and as patmatch's RecordFields callback.
func (n *normalizer) recordFieldsOf(t kform.KTyp) []kform.KTypRecordField {
	switch tt := t.(type) {
	case kform.KTypRecord:
		return tt.Fields
	case kform.KTypName:
		if def, ok := n.records[tt.ID]; ok {
			if rec, ok := def.Body.(kform.KTypRecord); ok {
				return rec.Fields
			}
		}
	}
	return nil
}

func fieldInitValue(fields []ast.RecordFieldInit, name string) (ast.Expr, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// lowerValDecl lowers `val pattern = value` (top-level or nested) to
// zero or more K-form statements. A bare `_` pattern retains the
// value's side effects without binding anything; every other pattern
// goes through simpleUnpack, which rejects refutable sub-patterns.
func (n *normalizer) lowerValDecl(pat ast.Pattern, value ast.Expr, loc token.Loc) []kform.Expr {
	if _, ok := pat.(*ast.PatAny); ok {
		return []kform.Expr{n.lower(value)}
	}
	var emit []kform.Expr
	val := n.atom(&emit, value)
	n.simpleUnpack(pat, val, value.Typ(), loc, &emit)
	return emit
}

// simpleUnpack destructures val against pat, emitting one KDefVal per
// capture. Only irrefutable shapes are legal here (pat_simple_unpack
// semantics): a checking sub-pattern (PatLit/PatVariant/PatCons, or a
// PatRecord naming a variant case) is a compile error, since a `val`
// binding or a for/comprehension clause can never fail to match.
func (n *normalizer) simpleUnpack(pat ast.Pattern, val kform.Atom, typ kform.KTyp, loc token.Loc, emit *[]kform.Expr) {
	switch p := pat.(type) {
	case *ast.PatAny:
		// value already evaluated by the caller; nothing to bind.

	case *ast.PatIdent:
		n.bindNamed(emit, p.Name, val, typ, loc)

	case *ast.PatAs:
		n.bindNamed(emit, p.Name, val, typ, loc)
		n.simpleUnpack(p.Pattern, val, typ, loc, emit)

	case *ast.PatTyped:
		n.simpleUnpack(p.Pattern, val, p.T, loc, emit)

	case *ast.PatRef:
		elem := refElemTyp(typ)
		deref := n.bind(emit, &kform.KExprMem{CtxV: ctx(elem, loc), Base: val, Index: 0}, elem, loc)
		n.simpleUnpack(p.Pattern, deref, elem, loc, emit)

	case *ast.PatTuple:
		tup, _ := typ.(kform.KTypTuple)
		for i, sub := range p.Elems {
			et := kform.KTyp(kform.KTypErr{})
			if i < len(tup.Elems) {
				et = tup.Elems[i]
			}
			ev := n.bind(emit, &kform.KExprMem{CtxV: ctx(et, sub.Loc()), Base: val, Index: i}, et, sub.Loc())
			n.simpleUnpack(sub, ev, et, sub.Loc(), emit)
		}

	case *ast.PatRecord:
		if p.CaseName != "" {
			n.env.Diags.Add(diagnostics.PatternMatch, loc, "refutable pattern (variant case %q) not allowed in an irrefutable binding", p.CaseName)
			return
		}
		fields := n.recordFieldsOf(typ)
		for i, name := range p.FieldOrder {
			sub, ok := p.Fields[name]
			if !ok {
				continue
			}
			ft := kform.KTyp(kform.KTypErr{})
			if i < len(fields) {
				ft = fields[i].Typ
			}
			ev := n.bind(emit, &kform.KExprMem{CtxV: ctx(ft, sub.Loc()), Base: val, Index: i}, ft, sub.Loc())
			n.simpleUnpack(sub, ev, ft, sub.Loc(), emit)
		}

	case *ast.PatLit, *ast.PatVariant, *ast.PatCons:
		n.env.Diags.Add(diagnostics.PatternMatch, loc, "refutable pattern not allowed in an irrefutable binding; use `match` instead")

	default:
		diagnostics.Fail(loc, "unhandled pattern kind in irrefutable binding")
	}
}

func (n *normalizer) bindNamed(emit *[]kform.Expr, name symtab.ID, val kform.Atom, typ kform.KTyp, loc token.Loc) {
	def := &kform.KDefVal{CtxV: ctx(typ, loc), Name: name, Typ: typ, Value: &kform.KExprAtom{CtxV: ctx(typ, loc), A: val}}
	n.defsByID[name] = def
	*emit = append(*emit, def)
}

func refElemTyp(t kform.KTyp) kform.KTyp {
	if r, ok := t.(kform.KTypRef); ok {
		return r.Elem
	}
	return kform.KTypErr{}
}
