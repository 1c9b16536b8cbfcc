package kform

// FoldHooks is the fold variant of Hooks: it additionally threads a
// result through the walk. Each hook receives
// the node and the accumulator threaded in from its caller and
// returns the accumulator to thread onward; a hook that returns
// handled=true stops default recursion into that node's children.
type FoldHooks[T any] struct {
	Expr func(e Expr, acc T) (T, bool)
	Atom func(a Atom, acc T) (T, bool)
}

// Fold threads acc through e and its children in traversal order.
func Fold[T any](e Expr, acc T, h *FoldHooks[T]) T {
	if h != nil && h.Expr != nil {
		if out, handled := h.Expr(e, acc); handled {
			return out
		} else {
			acc = out
		}
	}
	return foldChildren(e, acc, h)
}

func foldAtom[T any](a Atom, acc T, h *FoldHooks[T]) T {
	if h != nil && h.Atom != nil {
		out, _ := h.Atom(a, acc)
		return out
	}
	return acc
}

func foldAtoms[T any](as []Atom, acc T, h *FoldHooks[T]) T {
	for _, a := range as {
		acc = foldAtom(a, acc, h)
	}
	return acc
}

func foldExprs[T any](es []Expr, acc T, h *FoldHooks[T]) T {
	for _, e := range es {
		acc = Fold(e, acc, h)
	}
	return acc
}

func foldOpt[T any](e Expr, acc T, h *FoldHooks[T]) T {
	if e == nil {
		return acc
	}
	return Fold(e, acc, h)
}

func foldIter[T any](it Iterable, acc T, h *FoldHooks[T]) T {
	switch v := it.(type) {
	case IterRange:
		return foldAtom(v.Step, foldAtom(v.Hi, foldAtom(v.Lo, acc, h), h), h)
	case IterArray:
		return foldAtom(v.Arr, acc, h)
	case IterList:
		return foldAtom(v.Lst, acc, h)
	case IterString:
		return foldAtom(v.Str, acc, h)
	}
	return acc
}

func foldChildren[T any](e Expr, acc T, h *FoldHooks[T]) T {
	switch n := e.(type) {
	case *KExprAtom:
		return foldAtom(n.A, acc, h)
	case *KExprBinary:
		return foldAtom(n.B, foldAtom(n.A, acc, h), h)
	case *KExprUnary:
		return foldAtom(n.A, acc, h)
	case *KExprIntrin:
		return foldAtoms(n.Args, acc, h)
	case *KExprCall:
		return foldAtoms(n.Args, acc, h)
	case *KExprCallClosure:
		return foldAtoms(n.Args, foldAtom(n.Closure, acc, h), h)
	case *KExprIf:
		return foldOpt(n.Else, foldOpt(n.Then, foldAtom(n.Cond, acc, h), h), h)
	case *KExprSeq:
		return foldExprs(n.Stmts, acc, h)
	case *KExprMkTuple:
		return foldAtoms(n.Elems, acc, h)
	case *KExprMkRecord:
		return foldAtoms(n.Fields, acc, h)
	case *KExprMkVariant:
		return foldAtoms(n.Payload, acc, h)
	case *KExprMkClosure:
		return foldAtoms(n.Capture, acc, h)
	case *KExprMkArray:
		return foldAtoms(n.Elems, acc, h)
	case *KExprMkList:
		return foldAtoms(n.Elems, acc, h)
	case *KExprMkRange:
		acc = foldAtom(n.Lo, acc, h)
		acc = foldAtom(n.Hi, acc, h)
		return foldAtom(n.Step, acc, h)
	case *KExprMem:
		return foldAtom(n.Base, acc, h)
	case *KExprAt:
		return foldAtoms(n.Indices, foldAtom(n.Base, acc, h), h)
	case *KExprAssign:
		acc = foldAtoms(n.Index, acc, h)
		return foldOpt(n.Value, acc, h)
	case *KExprThrow:
		return foldAtom(n.Exn, acc, h)
	case *KExprTry:
		return foldOpt(n.Handler, foldOpt(n.Body, acc, h), h)
	case *KDefVal:
		return foldOpt(n.Value, acc, h)
	case *KDefFun:
		return foldOpt(n.Body, acc, h)
	case *KExprFor:
		for _, s := range n.Stages {
			acc = foldIter(s.Iter, acc, h)
			acc = foldExprs(s.Unpack, acc, h)
			acc = foldAtoms(s.Guards, acc, h)
		}
		return foldOpt(n.Body, acc, h)
	case *KExprWhile:
		return foldOpt(n.Body, foldOpt(n.Cond, acc, h), h)
	case *KExprMap:
		for _, s := range n.Stages {
			acc = foldIter(s.Iter, acc, h)
			acc = foldExprs(s.Unpack, acc, h)
			acc = foldAtoms(s.Guards, acc, h)
		}
		return foldOpt(n.Body, acc, h)
	default:
		return acc
	}
}
