package mangle

import (
	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
	"github.com/ficuslang/ficusc/internal/token"
)

// materializer rewrites every structural KTyp it meets into a
// KTypName, minting one fresh KDefTyp per distinct structural
// signature (memoized in m.bySig, process-wide, so the same tuple
// shape seen in two different modules shares one materialized type).
// Arrays and plain (already-nominal) records are left alone.
type materializer struct {
	m      *Mangler
	gen    *symtab.Gen
	kinfo  *symtab.Table[kform.Info]
	reg    *registry
	prefix string // this module's scope prefix, for naming fresh types
	fresh  []kform.Expr
}

func (mz *materializer) materialize(t kform.KTyp) kform.KTyp {
	switch tt := t.(type) {
	case kform.KTypTuple:
		if len(tt.Elems) == 0 {
			diagnostics.Fail(token.None, "zero-element tuple reached the name mangler")
		}
		elems := make([]kform.KTyp, len(tt.Elems))
		for i, e := range tt.Elems {
			elems[i] = mz.materialize(e)
		}
		return mz.nameFor(kform.KTypTuple{Elems: elems}, "T")
	case kform.KTypList:
		return mz.nameFor(kform.KTypList{Elem: mz.materialize(tt.Elem)}, "L")
	case kform.KTypRef:
		return mz.nameFor(kform.KTypRef{Elem: mz.materialize(tt.Elem)}, "r")
	case kform.KTypFun:
		args := make([]kform.KTyp, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = mz.materialize(a)
		}
		return mz.nameFor(kform.KTypFun{Args: args, Ret: mz.materialize(tt.Ret)}, "Fp")
	case kform.KTypArray:
		return kform.KTypArray{Dims: tt.Dims, Elem: mz.materialize(tt.Elem)}
	case kform.KTypRecord:
		fields := make([]kform.KTypRecordField, len(tt.Fields))
		for i, f := range tt.Fields {
			fields[i] = kform.KTypRecordField{Name: f.Name, Typ: mz.materialize(f.Typ), Default: f.Default}
		}
		return kform.KTypRecord{Name: tt.Name, Fields: fields}
	default:
		return t
	}
}

// nameFor resolves t (already fully materialized in its elements) to
// a KTypName, minting a fresh KDefTyp+mangled name the first time this
// module (or an earlier one) produces this exact structural signature.
func (mz *materializer) nameFor(t kform.KTyp, kind string) kform.KTyp {
	sig := sigOf(t, mz.reg)
	if id, ok := mz.m.bySig[sig]; ok {
		return kform.KTypName{ID: id}
	}
	id := mz.gen.NewID(symtab.KindVal, kind)
	def := &kform.KDefTyp{CtxV: kform.Ctx{Typ: kform.KTypVoid{}}, Name: id, Body: t}
	mz.m.bySig[sig] = id
	mz.fresh = append(mz.fresh, def)
	mz.reg.records[id] = def
	name := mz.m.assignFinal(mz.prefix, sig)
	mz.kinfo.Set(id, kform.Info{Def: def, Typ: kform.KTypVoid{}, Mangled: name})
	return kform.KTypName{ID: id}
}

func (mz *materializer) rewriteCtx(c *kform.Ctx) {
	if c.Typ != nil {
		c.Typ = mz.materialize(c.Typ)
	}
}

func (mz *materializer) rewriteAtom(a kform.Atom) kform.Atom {
	switch v := a.(type) {
	case kform.AtomId:
		mz.rewriteCtx(&v.Ctx)
		return v
	case kform.AtomLit:
		mz.rewriteCtx(&v.Ctx)
		return v
	default:
		return a
	}
}

func (mz *materializer) rewriteAtoms(as []kform.Atom) []kform.Atom {
	for i, a := range as {
		as[i] = mz.rewriteAtom(a)
	}
	return as
}

// rewrite descends e, rewriting every (ktyp,loc) context it carries
// and recursing into every substructure a definition or expression can
// hold. This is a dedicated walker rather than kform.Walk/Hooks,
// because Hooks never visits the Ctx.Typ/KTyp fields embedded
// throughout the tree — only Expr/Atom node shape — and a structural-
// type rewrite needs exactly those fields.
func (mz *materializer) rewrite(e kform.Expr) {
	switch n := e.(type) {
	case *kform.KExprAtom:
		mz.rewriteCtx(&n.CtxV)
		n.A = mz.rewriteAtom(n.A)
	case *kform.KExprBinary:
		mz.rewriteCtx(&n.CtxV)
		n.A, n.B = mz.rewriteAtom(n.A), mz.rewriteAtom(n.B)
	case *kform.KExprUnary:
		mz.rewriteCtx(&n.CtxV)
		n.A = mz.rewriteAtom(n.A)
	case *kform.KExprIntrin:
		mz.rewriteCtx(&n.CtxV)
		n.Args = mz.rewriteAtoms(n.Args)
	case *kform.KExprCall:
		mz.rewriteCtx(&n.CtxV)
		n.Args = mz.rewriteAtoms(n.Args)
	case *kform.KExprCallClosure:
		mz.rewriteCtx(&n.CtxV)
		n.Closure = mz.rewriteAtom(n.Closure)
		n.Args = mz.rewriteAtoms(n.Args)
	case *kform.KExprIf:
		mz.rewriteCtx(&n.CtxV)
		n.Cond = mz.rewriteAtom(n.Cond)
		mz.rewrite(n.Then)
		if n.Else != nil {
			mz.rewrite(n.Else)
		}
	case *kform.KExprSeq:
		mz.rewriteCtx(&n.CtxV)
		for _, s := range n.Stmts {
			mz.rewrite(s)
		}
	case *kform.KExprMkTuple:
		mz.rewriteCtx(&n.CtxV)
		n.Elems = mz.rewriteAtoms(n.Elems)
	case *kform.KExprMkRecord:
		mz.rewriteCtx(&n.CtxV)
		n.Fields = mz.rewriteAtoms(n.Fields)
	case *kform.KExprMkVariant:
		mz.rewriteCtx(&n.CtxV)
		n.Payload = mz.rewriteAtoms(n.Payload)
	case *kform.KExprMkClosure:
		mz.rewriteCtx(&n.CtxV)
		n.Capture = mz.rewriteAtoms(n.Capture)
	case *kform.KExprMkArray:
		mz.rewriteCtx(&n.CtxV)
		n.Elems = mz.rewriteAtoms(n.Elems)
	case *kform.KExprMkList:
		mz.rewriteCtx(&n.CtxV)
		n.Elems = mz.rewriteAtoms(n.Elems)
	case *kform.KExprMkRange:
		mz.rewriteCtx(&n.CtxV)
		n.Lo, n.Hi, n.Step = mz.rewriteAtom(n.Lo), mz.rewriteAtom(n.Hi), mz.rewriteAtom(n.Step)
	case *kform.KExprMem:
		mz.rewriteCtx(&n.CtxV)
		n.Base = mz.rewriteAtom(n.Base)
	case *kform.KExprAt:
		mz.rewriteCtx(&n.CtxV)
		n.Base = mz.rewriteAtom(n.Base)
		n.Indices = mz.rewriteAtoms(n.Indices)
	case *kform.KExprAssign:
		mz.rewriteCtx(&n.CtxV)
		n.Index = mz.rewriteAtoms(n.Index)
		if n.Value != nil {
			mz.rewrite(n.Value)
		}
	case *kform.KExprThrow:
		mz.rewriteCtx(&n.CtxV)
		n.Exn = mz.rewriteAtom(n.Exn)
	case *kform.KExprTry:
		mz.rewriteCtx(&n.CtxV)
		if n.Body != nil {
			mz.rewrite(n.Body)
		}
		if n.Handler != nil {
			mz.rewrite(n.Handler)
		}
	case *kform.KExprCCode:
		mz.rewriteCtx(&n.CtxV)
	case *kform.KExprFor:
		mz.rewriteCtx(&n.CtxV)
		mz.rewriteStages(n.Stages)
		if n.Body != nil {
			mz.rewrite(n.Body)
		}
	case *kform.KExprWhile:
		mz.rewriteCtx(&n.CtxV)
		if n.Cond != nil {
			mz.rewrite(n.Cond)
		}
		if n.Body != nil {
			mz.rewrite(n.Body)
		}
	case *kform.KExprMap:
		mz.rewriteCtx(&n.CtxV)
		mz.rewriteStages(n.Stages)
		if n.Body != nil {
			mz.rewrite(n.Body)
		}
	case *kform.KDefVal:
		mz.rewriteCtx(&n.CtxV)
		n.Typ = mz.materialize(n.Typ)
		if n.Value != nil {
			mz.rewrite(n.Value)
		}
	case *kform.KDefFun:
		mz.rewriteCtx(&n.CtxV)
		for i := range n.Args {
			n.Args[i].Typ = mz.materialize(n.Args[i].Typ)
		}
		n.RetType = mz.materialize(n.RetType)
		if n.Body != nil {
			mz.rewrite(n.Body)
		}
	case *kform.KDefTyp:
		mz.rewriteCtx(&n.CtxV)
		// n.Body is this type's own definition, not a reference: a
		// record body's fields are rewritten in place, but the body
		// itself must stay structural (it would be circular to ask a
		// freshly-declared tuple/list/ref/fun KDefTyp to materialize
		// its own body into a reference to itself).
		if rec, ok := n.Body.(kform.KTypRecord); ok {
			fields := make([]kform.KTypRecordField, len(rec.Fields))
			for i, f := range rec.Fields {
				fields[i] = kform.KTypRecordField{Name: f.Name, Typ: mz.materialize(f.Typ), Default: f.Default}
			}
			n.Body = kform.KTypRecord{Name: rec.Name, Fields: fields}
		}
	case *kform.KDefVariant:
		for i, c := range n.Cases {
			if c.Payload != nil {
				n.Cases[i].Payload = mz.materialize(c.Payload)
			}
		}
	case *kform.KDefExn:
		mz.rewriteCtx(&n.CtxV)
		if n.Arg != nil {
			n.Arg = mz.materialize(n.Arg)
		}
	}
}

func (mz *materializer) rewriteStages(stages []kform.MapClauseStage) {
	for i := range stages {
		for _, u := range stages[i].Unpack {
			mz.rewrite(u)
		}
		stages[i].Guards = mz.rewriteAtoms(stages[i].Guards)
	}
}
