package knf

import (
	"github.com/ficuslang/ficusc/internal/ast"
	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
	"github.com/ficuslang/ficusc/internal/token"
)

// lower converts one ast.Expr into a kform.Expr. Most cases build a
// local `var pre []kform.Expr` prefix, atomize their operands into it,
// construct the primitive node, and return seqOf(pre, node, loc);
// compound control-flow nodes (If/For/While/Map/Match/Try) instead
// lower their sub-expressions recursively and need no atomization of
// their own body/branches, only of their scalar operands (conditions,
// domains).
func (n *normalizer) lower(e ast.Expr) kform.Expr {
	loc := e.Loc()
	switch ex := e.(type) {

	case *ast.Lit:
		return &kform.KExprAtom{CtxV: ctx(ex.T, loc), A: kform.AtomLit{
			Kind: ex.Kind, I: ex.I, F: ex.F, B: ex.B, C: ex.C, S: ex.S, Ctx: ctx(ex.T, loc),
		}}

	case *ast.Ident:
		return &kform.KExprAtom{CtxV: ctx(ex.T, loc), A: kform.AtomId{ID: ex.ID, Ctx: ctx(ex.T, loc)}}

	case *ast.BinOp:
		return n.lowerBinOp(ex)

	case *ast.UnOp:
		var pre []kform.Expr
		a := n.atom(&pre, ex.E)
		return seqOf(pre, &kform.KExprUnary{CtxV: ctx(ex.T, loc), Op: ex.Op, A: a}, loc)

	case *ast.Seq:
		return n.lowerSeq(ex)

	case *ast.If:
		var pre []kform.Expr
		cond := n.atom(&pre, ex.Cond)
		then := n.lower(ex.Then)
		var els kform.Expr
		if ex.Else != nil {
			els = n.lower(ex.Else)
		} else {
			els = &kform.KExprAtom{CtxV: ctx(kform.KTypVoid{}, loc), A: kform.AtomLit{Kind: kform.LitUnit, Ctx: ctx(kform.KTypVoid{}, loc)}}
		}
		return seqOf(pre, &kform.KExprIf{CtxV: ctx(ex.T, loc), Cond: cond, Then: then, Else: els}, loc)

	case *ast.Call:
		return n.lowerCall(ex)

	case *ast.TupleCons:
		var pre []kform.Expr
		elems := n.atoms(&pre, ex.Elems)
		return seqOf(pre, &kform.KExprMkTuple{CtxV: ctx(ex.T, loc), Elems: elems}, loc)

	case *ast.RecordCons:
		return n.lowerRecordCons(ex)

	case *ast.RecordUpdate:
		return n.lowerRecordUpdate(ex)

	case *ast.ArrayCons:
		var pre []kform.Expr
		elems := n.atoms(&pre, ex.Elems)
		return seqOf(pre, &kform.KExprMkArray{CtxV: ctx(ex.T, loc), Elems: elems}, loc)

	case *ast.ListCons:
		var pre []kform.Expr
		elems := n.atoms(&pre, ex.Elems)
		return seqOf(pre, &kform.KExprMkList{CtxV: ctx(ex.T, loc), Elems: elems}, loc)

	case *ast.RangeCons:
		var pre []kform.Expr
		lo := n.atom(&pre, ex.Lo)
		hi := n.atom(&pre, ex.Hi)
		var step kform.Atom
		if ex.Step != nil {
			step = n.atom(&pre, ex.Step)
		} else {
			step = kform.AtomLit{Kind: kform.LitInt, I: 1, Ctx: ctx(kform.KTypInt{}, loc)}
		}
		return seqOf(pre, &kform.KExprMkRange{CtxV: ctx(ex.T, loc), Lo: lo, Hi: hi, Step: step}, loc)

	case *ast.For:
		return n.lowerFor(ex)

	case *ast.While:
		cond := n.lower(ex.Cond)
		body := n.lower(ex.Body)
		return &kform.KExprWhile{CtxV: ctx(ex.T, loc), Cond: cond, Body: body, DoWhile: ex.DoWhile}

	case *ast.MapCompr:
		return n.lowerMapCompr(ex)

	case *ast.Match:
		return n.lowerMatch(ex)

	case *ast.Try:
		return n.lowerTry(ex)

	case *ast.Throw:
		var pre []kform.Expr
		exn := n.atom(&pre, ex.E)
		return seqOf(pre, &kform.KExprThrow{CtxV: ctx(kform.KTypVoid{}, loc), Exn: exn}, loc)

	case *ast.Field:
		var pre []kform.Expr
		base := n.atom(&pre, ex.E)
		return seqOf(pre, &kform.KExprMem{CtxV: ctx(ex.T, loc), Base: base, Index: ex.Index}, loc)

	case *ast.Index:
		return n.lowerIndex(ex)

	case *ast.Assign:
		return n.lowerAssign(ex)

	case *ast.Cast:
		var pre []kform.Expr
		a := n.atom(&pre, ex.E)
		return seqOf(pre, &kform.KExprUnary{CtxV: ctx(ex.T, loc), Op: "cast", A: a}, loc)

	case *ast.Annotated:
		return n.lower(ex.E)

	case *ast.CCode:
		return &kform.KExprCCode{CtxV: ctx(ex.T, loc), Code: ex.Code}

	case *ast.ValDecl:
		stmts := n.lowerValDecl(ex.Pattern, ex.Value, loc)
		unit := &kform.KExprAtom{CtxV: ctx(kform.KTypVoid{}, loc), A: kform.AtomLit{Kind: kform.LitUnit, Ctx: ctx(kform.KTypVoid{}, loc)}}
		return seqOf(stmts, unit, loc)

	case *ast.LocalFunDef:
		kdef := n.lowerDefFun(ex.Fn)
		unit := &kform.KExprAtom{CtxV: ctx(kform.KTypVoid{}, loc), A: kform.AtomLit{Kind: kform.LitUnit, Ctx: ctx(kform.KTypVoid{}, loc)}}
		return seqOf([]kform.Expr{kdef}, unit, loc)

	default:
		diagnostics.Fail(loc, "unhandled expression kind in K-normalizer")
		return nil
	}
}

// lowerBinOp handles the special binop lowerings: logical
// short-circuit and string/char concatenation.
func (n *normalizer) lowerBinOp(ex *ast.BinOp) kform.Expr {
	loc := ex.Loc()
	if ex.Op == "&&" {
		var pre []kform.Expr
		a := n.atom(&pre, ex.L)
		thenE := n.lower(ex.R)
		elseE := &kform.KExprAtom{CtxV: ctx(kform.KTypBool{}, loc), A: kform.AtomLit{Kind: kform.LitBool, B: false, Ctx: ctx(kform.KTypBool{}, loc)}}
		return seqOf(pre, &kform.KExprIf{CtxV: ctx(kform.KTypBool{}, loc), Cond: a, Then: thenE, Else: elseE}, loc)
	}
	if ex.Op == "||" {
		var pre []kform.Expr
		a := n.atom(&pre, ex.L)
		thenE := &kform.KExprAtom{CtxV: ctx(kform.KTypBool{}, loc), A: kform.AtomLit{Kind: kform.LitBool, B: true, Ctx: ctx(kform.KTypBool{}, loc)}}
		elseE := n.lower(ex.R)
		return seqOf(pre, &kform.KExprIf{CtxV: ctx(kform.KTypBool{}, loc), Cond: a, Then: thenE, Else: elseE}, loc)
	}
	var pre []kform.Expr
	a := n.atom(&pre, ex.L)
	b := n.atom(&pre, ex.R)
	if ex.Op == "+" && isStringConcat(ex.L.Typ(), ex.R.Typ()) {
		return seqOf(pre, &kform.KExprIntrin{CtxV: ctx(ex.T, loc), Op: kform.IntrinStrConcat, Args: []kform.Atom{a, b}}, loc)
	}
	return seqOf(pre, &kform.KExprBinary{CtxV: ctx(ex.T, loc), Op: ex.Op, A: a, B: b}, loc)
}

// isStringConcat reports whether a `+` between these two static types
// must lower to STR_CONCAT: string+string, char+string, string+char.
func isStringConcat(l, r kform.KTyp) bool {
	isStr := func(t kform.KTyp) bool { _, ok := t.(kform.KTypString); return ok }
	isChar := func(t kform.KTyp) bool { _, ok := t.(kform.KTypChar); return ok }
	if isStr(l) && isStr(r) {
		return true
	}
	if isChar(l) && isStr(r) {
		return true
	}
	if isStr(l) && isChar(r) {
		return true
	}
	return false
}

func (n *normalizer) lowerSeq(ex *ast.Seq) kform.Expr {
	loc := ex.Loc()
	var stmts []kform.Expr
	for i, sub := range ex.Exprs {
		lowered := n.lower(sub)
		if i == len(ex.Exprs)-1 {
			if seq, ok := lowered.(*kform.KExprSeq); ok {
				stmts = append(stmts, seq.Stmts...)
				continue
			}
		}
		stmts = append(stmts, lowered)
	}
	if len(stmts) == 0 {
		return &kform.KExprAtom{CtxV: ctx(kform.KTypVoid{}, loc), A: kform.AtomLit{Kind: kform.LitUnit, Ctx: ctx(kform.KTypVoid{}, loc)}}
	}
	return &kform.KExprSeq{CtxV: ctx(ex.T, loc), Stmts: stmts}
}

// lowerCall resolves a direct call to a known global function (the
// callee is a bare Ident) straight to KExprCall; any other callee
// shape (a closure value read from a field, a local, ...) atomizes
// the callee and goes through KExprCallClosure. When the callee
// declared keyword parameters and the last positional argument is a
// record literal, that literal's fields are flattened into trailing
// positional arguments in call-site order.
func (n *normalizer) lowerCall(ex *ast.Call) kform.Expr {
	loc := ex.Loc()
	var pre []kform.Expr

	args := ex.Args
	if ex.HasKeywords && len(args) > 0 {
		if rc, ok := args[len(args)-1].(*ast.RecordCons); ok {
			flat := make([]ast.Expr, 0, len(args)-1+len(rc.Fields))
			flat = append(flat, args[:len(args)-1]...)
			for _, f := range rc.Fields {
				flat = append(flat, f.Value)
			}
			args = flat
		}
	}

	if id, ok := ex.Fn.(*ast.Ident); ok {
		atoms := n.atoms(&pre, args)
		return seqOf(pre, &kform.KExprCall{CtxV: ctx(ex.T, loc), Fn: id.ID, Args: atoms}, loc)
	}
	closure := n.atom(&pre, ex.Fn)
	atoms := n.atoms(&pre, args)
	return seqOf(pre, &kform.KExprCallClosure{CtxV: ctx(ex.T, loc), Closure: closure, Args: atoms}, loc)
}

// lowerRecordCons constructs either a plain record or, when CaseName
// names a case of a variant, that variant case (optionally with a
// record-shaped payload). Declared fields missing from the literal
// fall back to their declared default; a missing field with no
// default is an internal error, since the type checker guarantees
// every record/case literal is complete.
func (n *normalizer) lowerRecordCons(ex *ast.RecordCons) kform.Expr {
	loc := ex.Loc()
	var pre []kform.Expr

	if ex.CaseName != "" {
		kv, ok := n.variantsByName[ex.TypeName]
		if !ok {
			diagnostics.Fail(loc, "unknown variant type %q in record construction", ex.TypeName)
		}
		idx := -1
		var payloadFields []kform.KTypRecordField
		for i, c := range kv.Cases {
			if c.Name == ex.CaseName {
				idx = i
				if rec, ok := c.Payload.(kform.KTypRecord); ok {
					payloadFields = rec.Fields
				}
				break
			}
		}
		if idx < 0 {
			diagnostics.Fail(loc, "unknown case %q of variant %q", ex.CaseName, ex.TypeName)
		}
		payload := n.atomsForFields(&pre, payloadFields, ex.Fields, loc)
		return seqOf(pre, &kform.KExprMkVariant{CtxV: ctx(ex.T, loc), Variant: kv.Name, CaseIdx: idx, Payload: payload}, loc)
	}

	def, ok := n.recordsByName[ex.TypeName]
	if !ok {
		diagnostics.Fail(loc, "unknown record type %q", ex.TypeName)
	}
	rec, _ := def.Body.(kform.KTypRecord)
	fields := n.atomsForFields(&pre, rec.Fields, ex.Fields, loc)
	return seqOf(pre, &kform.KExprMkRecord{CtxV: ctx(ex.T, loc), Name: def.Name, Fields: fields}, loc)
}

// atomsForFields resolves declared (possibly defaulted) field values
// against a literal's explicit field-init list, in declaration order.
func (n *normalizer) atomsForFields(pre *[]kform.Expr, declared []kform.KTypRecordField, given []ast.RecordFieldInit, loc token.Loc) []kform.Atom {
	out := make([]kform.Atom, len(declared))
	for i, fd := range declared {
		if v, ok := fieldInitValue(given, fd.Name); ok {
			out[i] = n.atom(pre, v)
			continue
		}
		if fd.Default != nil {
			out[i] = *fd.Default
			continue
		}
		diagnostics.Fail(loc, "missing value for field %q with no default", fd.Name)
	}
	return out
}

// lowerRecordUpdate rebuilds Src's record type with the listed fields
// replaced; every other field is read back via KExprMem on Src.
func (n *normalizer) lowerRecordUpdate(ex *ast.RecordUpdate) kform.Expr {
	loc := ex.Loc()
	var pre []kform.Expr
	src := n.atom(&pre, ex.Src)
	fields := n.recordFieldsOf(ex.Src.Typ())
	recName := symtab.NONE
	if nm, ok := ex.Src.Typ().(kform.KTypName); ok {
		recName = nm.ID
	}
	out := make([]kform.Atom, len(fields))
	for i, fd := range fields {
		if v, ok := fieldInitValue(ex.Fields, fd.Name); ok {
			out[i] = n.atom(&pre, v)
			continue
		}
		out[i] = n.bind(&pre, &kform.KExprMem{CtxV: ctx(fd.Typ, loc), Base: src, Index: i}, fd.Typ, loc)
	}
	return seqOf(pre, &kform.KExprMkRecord{CtxV: ctx(ex.T, loc), Name: recName, Fields: out}, loc)
}

// lowerIndex lowers `e[i, j, ...]`: each axis atomizes its index,
// rewrites a `.-` reverse index to GET_SIZE(base,axis)-idx, and runs
// the result through CHECK_IDX before the final KExprAt.
func (n *normalizer) lowerIndex(ex *ast.Index) kform.Expr {
	loc := ex.Loc()
	var pre []kform.Expr
	base := n.atom(&pre, ex.E)
	indices := make([]kform.Atom, len(ex.Idx))
	for axis, idxExpr := range ex.Idx {
		idx := n.atom(&pre, idxExpr)
		if axis < len(ex.Reverse) && ex.Reverse[axis] {
			idx = n.reverseIndex(&pre, base, idx, axis, loc)
		}
		indices[axis] = n.bind(&pre, &kform.KExprIntrin{
			CtxV: ctx(kform.KTypInt{}, loc), Op: kform.IntrinCheckIdx,
			Args: []kform.Atom{base, idx, kform.AtomLit{Kind: kform.LitInt, I: int64(axis), Ctx: ctx(kform.KTypInt{}, loc)}},
		}, kform.KTypInt{}, loc)
	}
	return seqOf(pre, &kform.KExprAt{CtxV: ctx(ex.T, loc), Base: base, Indices: indices}, loc)
}

func (n *normalizer) reverseIndex(pre *[]kform.Expr, base, idx kform.Atom, axis int, loc token.Loc) kform.Atom {
	size := n.bind(pre, &kform.KExprIntrin{
		CtxV: ctx(kform.KTypInt{}, loc), Op: kform.IntrinGetSize,
		Args: []kform.Atom{base, kform.AtomLit{Kind: kform.LitInt, I: int64(axis), Ctx: ctx(kform.KTypInt{}, loc)}},
	}, kform.KTypInt{}, loc)
	return n.bind(pre, &kform.KExprBinary{CtxV: ctx(kform.KTypInt{}, loc), Op: "-", A: size, B: idx}, kform.KTypInt{}, loc)
}

// lowerAssign lowers `lhs = rhs`. The target must resolve to a simple
// identifier — either directly (a mutable val) or as the base of an
// Index (a subarray element assignment) — matching the restriction
// the K-form KExprAssign node itself encodes (Target symtab.ID, plus
// an optional Index for the subarray case).
func (n *normalizer) lowerAssign(ex *ast.Assign) kform.Expr {
	loc := ex.Loc()
	switch lhs := ex.LHS.(type) {
	case *ast.Ident:
		val := n.lower(ex.RHS)
		n.markMutable(lhs.ID)
		return &kform.KExprAssign{CtxV: ctx(kform.KTypVoid{}, loc), Target: lhs.ID, Value: val}

	case *ast.Index:
		targetID, ok := lhs.E.(*ast.Ident)
		if !ok {
			diagnostics.Fail(loc, "subarray assignment target must be a simple identifier")
		}
		var pre []kform.Expr
		base := n.atom(&pre, lhs.E)
		indices := make([]kform.Atom, len(lhs.Idx))
		for axis, idxExpr := range lhs.Idx {
			idx := n.atom(&pre, idxExpr)
			if axis < len(lhs.Reverse) && lhs.Reverse[axis] {
				idx = n.reverseIndex(&pre, base, idx, axis, loc)
			}
			indices[axis] = idx
		}
		val := n.lower(ex.RHS)
		n.markMutable(targetID.ID)
		return seqOf(pre, &kform.KExprAssign{CtxV: ctx(kform.KTypVoid{}, loc), Target: targetID.ID, Index: indices, Value: val}, loc)

	default:
		diagnostics.Fail(loc, "assignment target must be an identifier or index expression")
		return nil
	}
}

func (n *normalizer) markMutable(id symtab.ID) {
	if def, ok := n.defsByID[id]; ok {
		def.Mutable = true
	}
}
