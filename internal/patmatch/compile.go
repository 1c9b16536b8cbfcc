package patmatch

import (
	"github.com/ficuslang/ficusc/internal/ast"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
	"github.com/ficuslang/ficusc/internal/token"
)

// compileCase lowers a single case's pattern into an ordered step
// list against scrutinee (of static type scrutTyp). Binds and checks
// are appended in the order they are discovered by a single
// recursive descent, which already guarantees every extraction step
// precedes any check or nested extraction that depends on it — the
// one property a scheduler needs to preserve, so no separate
// worklists are kept for cheap-vs-expensive checks. checkFree reports
// whether zero checks were emitted (the case always matches).
func (c *Compiler) compileCase(scrutinee kform.Atom, scrutTyp kform.KTyp, pat ast.Pattern) (steps []step, checkFree bool) {
	tagCache := map[symtab.ID]kform.Atom{}
	var guard kform.Atom
	hasGuard := false

	emit := func(s step) { steps = append(steps, s) }

	var walk func(p ast.Pattern, typ kform.KTyp, val kform.Atom)
	walk = func(p ast.Pattern, typ kform.KTyp, val kform.Atom) {
		switch pp := p.(type) {
		case *ast.PatAny:
			// matches anything, binds nothing.

		case *ast.PatIdent:
			emit(step{bind: &bindStep{
				Name: kform.Ctx{Typ: typ, Loc: pp.Loc()},
				ID:   pp.Name, Typ: typ,
				Val: &kform.KExprAtom{CtxV: kform.Ctx{Typ: typ, Loc: pp.Loc()}, A: val},
			}})

		case *ast.PatLit:
			lit := literalAtom(pp, typ)
			cond := c.Bind(&kform.KExprBinary{
				CtxV: kform.Ctx{Typ: kform.KTypBool{}, Loc: pp.Loc()},
				Op:   "==", A: val, B: lit,
			}, kform.KTypBool{}, pp.Loc())
			emit(step{check: cond})

		case *ast.PatAs:
			emit(step{bind: &bindStep{
				Name: kform.Ctx{Typ: typ, Loc: pp.Loc()},
				ID:   pp.Name, Typ: typ,
				Val: &kform.KExprAtom{CtxV: kform.Ctx{Typ: typ, Loc: pp.Loc()}, A: val},
			}})
			walk(pp.Pattern, typ, val)

		case *ast.PatTyped:
			walk(pp.Pattern, pp.T, val)

		case *ast.PatRef:
			elem := refElem(typ)
			deref := c.Bind(&kform.KExprMem{
				CtxV: kform.Ctx{Typ: elem, Loc: pp.Loc()}, Base: val, Index: 0,
			}, elem, pp.Loc())
			walk(pp.Pattern, elem, deref)

		case *ast.PatTuple:
			for i, sub := range pp.Elems {
				et := tupleElemTyp(typ, i)
				ev := c.Bind(&kform.KExprMem{
					CtxV: kform.Ctx{Typ: et, Loc: sub.Loc()}, Base: val, Index: i,
				}, et, sub.Loc())
				walk(sub, et, ev)
			}

		case *ast.PatCons:
			cond := c.Bind(&kform.KExprBinary{
				CtxV: kform.Ctx{Typ: kform.KTypBool{}, Loc: pp.Loc()},
				Op:   "!=", A: val, B: kform.AtomLit{Kind: kform.LitInt, I: 0, Ctx: kform.Ctx{Typ: kform.KTypInt{}, Loc: pp.Loc()}},
			}, kform.KTypBool{}, pp.Loc())
			emit(step{check: cond})

			elem := listElem(typ)
			head := c.Bind(&kform.KExprIntrin{
				CtxV: kform.Ctx{Typ: elem, Loc: pp.Loc()}, Op: kform.IntrinListHead, Args: []kform.Atom{val},
			}, elem, pp.Loc())
			tail := c.Bind(&kform.KExprIntrin{
				CtxV: kform.Ctx{Typ: typ, Loc: pp.Loc()}, Op: kform.IntrinListTail, Args: []kform.Atom{val},
			}, typ, pp.Loc())
			walk(pp.Head, elem, head)
			walk(pp.Tail, typ, tail)

		case *ast.PatVariant:
			cases := c.variantCases(typ)
			idx, payload, needsTagCheck := caseLookup(cases, pp.CaseName)
			if needsTagCheck {
				tag := c.tagOf(val, typ, tagCache, pp.Loc())
				cond := c.Bind(&kform.KExprBinary{
					CtxV: kform.Ctx{Typ: kform.KTypBool{}, Loc: pp.Loc()},
					Op:   "==", A: tag, B: kform.AtomLit{Kind: kform.LitInt, I: int64(idx), Ctx: kform.Ctx{Typ: kform.KTypInt{}, Loc: pp.Loc()}},
				}, kform.KTypBool{}, pp.Loc())
				emit(step{check: cond})
			}
			for i, sub := range pp.Args {
				argTyp := payloadElemTyp(payload, i)
				argVal := c.Bind(&kform.KExprIntrin{
					CtxV: kform.Ctx{Typ: argTyp, Loc: sub.Loc()},
					Op:   kform.IntrinVariantCase,
					Args: []kform.Atom{val, kform.AtomLit{Kind: kform.LitInt, I: int64(i), Ctx: kform.Ctx{Typ: kform.KTypInt{}, Loc: sub.Loc()}}},
				}, argTyp, sub.Loc())
				walk(sub, argTyp, argVal)
			}

		case *ast.PatRecord:
			fields := c.recordFields(typ)
			if pp.CaseName != "" {
				cases := c.variantCases(typ)
				idx, _, needsTagCheck := caseLookup(cases, pp.CaseName)
				if needsTagCheck {
					tag := c.tagOf(val, typ, tagCache, pp.Loc())
					cond := c.Bind(&kform.KExprBinary{
						CtxV: kform.Ctx{Typ: kform.KTypBool{}, Loc: pp.Loc()},
						Op:   "==", A: tag, B: kform.AtomLit{Kind: kform.LitInt, I: int64(idx), Ctx: kform.Ctx{Typ: kform.KTypInt{}, Loc: pp.Loc()}},
					}, kform.KTypBool{}, pp.Loc())
					emit(step{check: cond})
				}
			}
			for i, name := range pp.FieldOrder {
				sub, ok := pp.Fields[name]
				if !ok {
					continue
				}
				ft := fieldTyp(fields, i)
				fv := c.Bind(&kform.KExprMem{
					CtxV: kform.Ctx{Typ: ft, Loc: sub.Loc()}, Base: val, Index: i,
				}, ft, sub.Loc())
				walk(sub, ft, fv)
			}

		case *ast.PatWhen:
			walk(pp.Pattern, typ, val)
			g := c.Bind(c.Lower(pp.Guard), kform.KTypBool{}, pp.Loc())
			if hasGuard {
				g = c.Bind(&kform.KExprBinary{
					CtxV: kform.Ctx{Typ: kform.KTypBool{}, Loc: pp.Loc()},
					Op:   "&&", A: guard, B: g,
				}, kform.KTypBool{}, pp.Loc())
			}
			guard, hasGuard = g, true

		default:
			// The type checker guarantees an exhaustive, resolved
			// pattern tree; reaching here means this compiler has not
			// yet been extended to a new pattern kind.
		}
	}

	walk(pat, scrutTyp, scrutinee)
	if hasGuard {
		emit(step{check: guard})
	}

	for _, s := range steps {
		if s.check != nil {
			return steps, false
		}
	}
	return steps, true
}

func (c *Compiler) variantCases(t kform.KTyp) []kform.KVariantCase {
	if c.VariantCases == nil {
		return nil
	}
	return c.VariantCases(t)
}

func (c *Compiler) recordFields(t kform.KTyp) []kform.KTypRecordField {
	if rec, ok := t.(kform.KTypRecord); ok {
		return rec.Fields
	}
	if c.RecordFields == nil {
		return nil
	}
	return c.RecordFields(t)
}

// tagOf extracts val's variant tag. Lookups are memoized by bound-id
// when val is an AtomId (the common case, since Bind always returns a
// fresh temp for a non-trivial expression) so a case that reads the
// tag twice only emits one VARIANT_TAG intrinsic call; literal atoms
// are never cacheable but also never occur as a variant scrutinee.
func (c *Compiler) tagOf(val kform.Atom, typ kform.KTyp, cache map[symtab.ID]kform.Atom, loc token.Loc) kform.Atom {
	if id, ok := val.(kform.AtomId); ok {
		if tag, ok := cache[id.ID]; ok {
			return tag
		}
		tag := c.Bind(&kform.KExprIntrin{
			CtxV: kform.Ctx{Typ: kform.KTypInt{}, Loc: loc}, Op: kform.IntrinVariantTag, Args: []kform.Atom{val},
		}, kform.KTypInt{}, loc)
		cache[id.ID] = tag
		return tag
	}
	return c.Bind(&kform.KExprIntrin{
		CtxV: kform.Ctx{Typ: kform.KTypInt{}, Loc: loc}, Op: kform.IntrinVariantTag, Args: []kform.Atom{val},
	}, kform.KTypInt{}, loc)
}

func caseLookup(cases []kform.KVariantCase, name string) (idx int, payload kform.KTyp, needsCheck bool) {
	for _, vc := range cases {
		if vc.Name == name {
			return vc.Tag, vc.Payload, len(cases) > 1
		}
	}
	return 0, nil, len(cases) > 1
}

func payloadElemTyp(payload kform.KTyp, i int) kform.KTyp {
	if tup, ok := payload.(kform.KTypTuple); ok {
		if i < len(tup.Elems) {
			return tup.Elems[i]
		}
	}
	if payload == nil {
		return kform.KTypVoid{}
	}
	return payload
}

func fieldTyp(fields []kform.KTypRecordField, i int) kform.KTyp {
	if i < len(fields) {
		return fields[i].Typ
	}
	return kform.KTypErr{}
}

func tupleElemTyp(t kform.KTyp, i int) kform.KTyp {
	if tup, ok := t.(kform.KTypTuple); ok && i < len(tup.Elems) {
		return tup.Elems[i]
	}
	return kform.KTypErr{}
}

func refElem(t kform.KTyp) kform.KTyp {
	if r, ok := t.(kform.KTypRef); ok {
		return r.Elem
	}
	return kform.KTypErr{}
}

func listElem(t kform.KTyp) kform.KTyp {
	if l, ok := t.(kform.KTypList); ok {
		return l.Elem
	}
	return kform.KTypErr{}
}

func literalAtom(p *ast.PatLit, typ kform.KTyp) kform.Atom {
	return kform.AtomLit{Kind: p.Kind, I: p.I, F: p.F, B: p.B, C: p.C, S: p.S, Ctx: kform.Ctx{Typ: typ, Loc: p.Loc()}}
}
