package knf

import (
	"github.com/ficuslang/ficusc/internal/ast"
	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
)

// lowerIterable lowers one for/comprehension clause's domain
// expression to a kform.Iterable. A literal `lo:hi[:step]` range is
// recognized specially so the loop never materializes a range value;
// every other domain is atomized and classified by its static type.
func (n *normalizer) lowerIterable(e ast.Expr, pre *[]kform.Expr) kform.Iterable {
	if rc, ok := e.(*ast.RangeCons); ok {
		lo := n.atom(pre, rc.Lo)
		hi := n.atom(pre, rc.Hi)
		var step kform.Atom
		if rc.Step != nil {
			step = n.atom(pre, rc.Step)
		} else {
			step = kform.AtomLit{Kind: kform.LitInt, I: 1, Ctx: ctx(kform.KTypInt{}, rc.Loc())}
		}
		return kform.IterRange{Lo: lo, Hi: hi, Step: step}
	}
	a := n.atom(pre, e)
	switch e.Typ().(type) {
	case kform.KTypList:
		return kform.IterList{Lst: a}
	case kform.KTypString:
		return kform.IterString{Str: a}
	default:
		return kform.IterArray{Arr: a}
	}
}

func iterableElemTyp(it kform.Iterable) kform.KTyp {
	switch v := it.(type) {
	case kform.IterRange:
		return kform.KTypInt{}
	case kform.IterArray:
		if at, ok := kform.AtomCtx(v.Arr).Typ.(kform.KTypArray); ok {
			return at.Elem
		}
	case kform.IterList:
		if lt, ok := kform.AtomCtx(v.Lst).Typ.(kform.KTypList); ok {
			return lt.Elem
		}
	case kform.IterString:
		return kform.KTypChar{}
	}
	return kform.KTypErr{}
}

func (n *normalizer) lowerAtSpec(at ast.AtSpec) kform.AtIndex {
	if at.None {
		return kform.AtIndex{None: true}
	}
	if len(at.Names) > 0 {
		return kform.AtIndex{Axes: at.Names}
	}
	return kform.AtIndex{Single: at.Name, Axes: []symtab.ID{at.Name}}
}

// lowerFor lowers a `for` statement: each clause becomes a
// MapClauseStage binding a fresh proxy over its domain and unpacking
// the clause pattern against it via simpleUnpack.
func (n *normalizer) lowerFor(ex *ast.For) kform.Expr {
	loc := ex.Loc()
	var pre []kform.Expr
	stages := make([]kform.MapClauseStage, len(ex.Clauses))
	for i, cl := range ex.Clauses {
		iter := n.lowerIterable(cl.Iter, &pre)
		proxy := n.env.Gen.NewID(symtab.KindTemp, "it")
		elemTyp := iterableElemTyp(iter)
		var unpack []kform.Expr
		n.simpleUnpack(cl.Pattern, kform.AtomId{ID: proxy, Ctx: ctx(elemTyp, loc)}, elemTyp, loc, &unpack)
		stages[i] = kform.MapClauseStage{Proxy: proxy, Iter: iter, Unpack: unpack, AtIdx: n.lowerAtSpec(cl.At)}
	}
	body := n.lower(ex.Body)
	return seqOf(pre, &kform.KExprFor{CtxV: ctx(kform.KTypVoid{}, loc), Stages: stages, Body: body}, loc)
}

// lowerMapCompr lowers a list/array comprehension. Clauses are walked
// in source order, preserving nesting: each CompGenerator opens a new
// stage, and each CompFilter's condition is atomized into the most
// recently opened stage's Unpack prefix and appended to its Guards.
func (n *normalizer) lowerMapCompr(ex *ast.MapCompr) kform.Expr {
	loc := ex.Loc()
	var pre []kform.Expr
	var stages []kform.MapClauseStage
	for _, cl := range ex.Clauses {
		switch c := cl.(type) {
		case ast.CompGenerator:
			iter := n.lowerIterable(c.Iter, &pre)
			proxy := n.env.Gen.NewID(symtab.KindTemp, "it")
			elemTyp := iterableElemTyp(iter)
			var unpack []kform.Expr
			n.simpleUnpack(c.Pattern, kform.AtomId{ID: proxy, Ctx: ctx(elemTyp, loc)}, elemTyp, loc, &unpack)
			stages = append(stages, kform.MapClauseStage{Proxy: proxy, Iter: iter, Unpack: unpack, AtIdx: n.lowerAtSpec(c.At)})
		case ast.CompFilter:
			if len(stages) == 0 {
				diagnostics.Fail(loc, "comprehension filter with no preceding generator")
				continue
			}
			last := &stages[len(stages)-1]
			g := n.atom(&last.Unpack, c.Cond)
			last.Guards = append(last.Guards, g)
		default:
			diagnostics.Fail(loc, "unhandled comprehension clause kind")
		}
	}
	body := n.lower(ex.Body)
	return seqOf(pre, &kform.KExprMap{CtxV: ctx(ex.T, loc), Stages: stages, Body: body, Array: ex.Array}, loc)
}
