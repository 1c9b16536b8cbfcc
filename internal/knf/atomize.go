package knf

import (
	"github.com/ficuslang/ficusc/internal/ast"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
	"github.com/ficuslang/ficusc/internal/token"
)

// bind atomizes ev: if it is already a bare atom, its atom is reused
// directly (no extra temporary); otherwise a fresh compiler temporary
// is minted, a KDefVal binding it is recorded via emit, and an AtomId
// referencing it is returned. This is the single place non-atomic
// K-expressions become atoms, upholding the invariant that every
// operand of a binary/unary/intrinsic/call is an atom.
func (n *normalizer) bind(emit *[]kform.Expr, ev kform.Expr, typ kform.KTyp, loc token.Loc) kform.Atom {
	if a, ok := ev.(*kform.KExprAtom); ok {
		return a.A
	}
	return n.bindAlways(emit, ev, typ, loc)
}

// bindAlways always copies ev into a fresh temporary, even when ev is
// already an atom — used for every `match` scrutinee: the source is
// evaluated into a fresh immutable temporary first so a mutable
// scrutinee cannot change between tests.
func (n *normalizer) bindAlways(emit *[]kform.Expr, ev kform.Expr, typ kform.KTyp, loc token.Loc) kform.Atom {
	id := n.env.Gen.NewID(symtab.KindTemp, "t")
	def := &kform.KDefVal{CtxV: ctx(typ, loc), Name: id, Typ: typ, Value: ev, TempRef: true}
	n.defsByID[id] = def
	*emit = append(*emit, def)
	return kform.AtomId{ID: id, Ctx: ctx(typ, loc)}
}

// atom lowers e and atomizes the result in one step — the normal way
// every K-form primitive operand is produced.
func (n *normalizer) atom(emit *[]kform.Expr, e ast.Expr) kform.Atom {
	return n.bind(emit, n.lower(e), e.Typ(), e.Loc())
}

func (n *normalizer) atoms(emit *[]kform.Expr, es []ast.Expr) []kform.Atom {
	out := make([]kform.Atom, len(es))
	for i, e := range es {
		out[i] = n.atom(emit, e)
	}
	return out
}

// seqOf wraps stmts (built and kept in forward order since Go has no
// trivial prepend-list idiom worth fighting) plus a trailing value expression
// into one KExprSeq, flattening the case of zero prefix statements to
// avoid a pointless one-statement sequence.
func seqOf(stmts []kform.Expr, tail kform.Expr, loc token.Loc) kform.Expr {
	if len(stmts) == 0 {
		return tail
	}
	all := append(append([]kform.Expr{}, stmts...), tail)
	return &kform.KExprSeq{CtxV: ctx(kform.ExprTyp(tail), loc), Stmts: all}
}
