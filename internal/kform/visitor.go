package kform

// Hooks is a record of optional per-node-kind callbacks rather than a
// Visitor interface every caller must fully implement: the IR is
// closed and small enough that a hook record beats an interface.
// Any hook left nil falls through to default structural recursion;
// a hook that returns handled=true prunes the walk at that node.
type Hooks struct {
	Expr func(e Expr) (out Expr, handled bool)
	// Typ is not called by Walk: the types held in Ctx and definition
	// fields are not visited, only the Expr and Atom hooks are applied.
	Typ  func(t KTyp) (out KTyp, handled bool)
	Atom func(a Atom) (out Atom, handled bool)
}

// Walk rewrites e, applying h at every node and recursing into
// children by default. A nil Hooks is equivalent to the identity
// transform.
func Walk(e Expr, h *Hooks) Expr {
	if h == nil {
		h = &Hooks{}
	}
	if h.Expr != nil {
		if out, handled := h.Expr(e); handled {
			return out
		}
	}
	return walkChildren(e, h)
}

func walkAtom(a Atom, h *Hooks) Atom {
	if h != nil && h.Atom != nil {
		if out, handled := h.Atom(a); handled {
			return out
		}
	}
	return a
}

func walkAtoms(as []Atom, h *Hooks) []Atom {
	out := make([]Atom, len(as))
	for i, a := range as {
		out[i] = walkAtom(a, h)
	}
	return out
}

func walkExprs(es []Expr, h *Hooks) []Expr {
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = Walk(e, h)
	}
	return out
}

func walkOpt(e Expr, h *Hooks) Expr {
	if e == nil {
		return nil
	}
	return Walk(e, h)
}

func walkStages(stages []MapClauseStage, h *Hooks) []MapClauseStage {
	out := make([]MapClauseStage, len(stages))
	for i, s := range stages {
		ns := s
		ns.Iter = walkIter(s.Iter, h)
		ns.Unpack = walkExprs(s.Unpack, h)
		ns.Guards = walkAtoms(s.Guards, h)
		out[i] = ns
	}
	return out
}

func walkIter(it Iterable, h *Hooks) Iterable {
	switch v := it.(type) {
	case IterRange:
		return IterRange{Lo: walkAtom(v.Lo, h), Hi: walkAtom(v.Hi, h), Step: walkAtom(v.Step, h)}
	case IterArray:
		return IterArray{Arr: walkAtom(v.Arr, h)}
	case IterList:
		return IterList{Lst: walkAtom(v.Lst, h)}
	case IterString:
		return IterString{Str: walkAtom(v.Str, h)}
	}
	return it
}

func walkChildren(e Expr, h *Hooks) Expr {
	switch n := e.(type) {
	case *KExprAtom:
		n.A = walkAtom(n.A, h)
		return n
	case *KExprBinary:
		n.A, n.B = walkAtom(n.A, h), walkAtom(n.B, h)
		return n
	case *KExprUnary:
		n.A = walkAtom(n.A, h)
		return n
	case *KExprIntrin:
		n.Args = walkAtoms(n.Args, h)
		return n
	case *KExprCall:
		n.Args = walkAtoms(n.Args, h)
		return n
	case *KExprCallClosure:
		n.Closure = walkAtom(n.Closure, h)
		n.Args = walkAtoms(n.Args, h)
		return n
	case *KExprIf:
		n.Cond = walkAtom(n.Cond, h)
		n.Then, n.Else = walkOpt(n.Then, h), walkOpt(n.Else, h)
		return n
	case *KExprSeq:
		n.Stmts = walkExprs(n.Stmts, h)
		return n
	case *KExprMkTuple:
		n.Elems = walkAtoms(n.Elems, h)
		return n
	case *KExprMkRecord:
		n.Fields = walkAtoms(n.Fields, h)
		return n
	case *KExprMkVariant:
		n.Payload = walkAtoms(n.Payload, h)
		return n
	case *KExprMkClosure:
		n.Capture = walkAtoms(n.Capture, h)
		return n
	case *KExprMkArray:
		n.Elems = walkAtoms(n.Elems, h)
		return n
	case *KExprMkList:
		n.Elems = walkAtoms(n.Elems, h)
		return n
	case *KExprMkRange:
		n.Lo, n.Hi, n.Step = walkAtom(n.Lo, h), walkAtom(n.Hi, h), walkAtom(n.Step, h)
		return n
	case *KExprMem:
		n.Base = walkAtom(n.Base, h)
		return n
	case *KExprAt:
		n.Base = walkAtom(n.Base, h)
		n.Indices = walkAtoms(n.Indices, h)
		return n
	case *KExprAssign:
		if n.Index != nil {
			n.Index = walkAtoms(n.Index, h)
		}
		n.Value = walkOpt(n.Value, h)
		return n
	case *KExprThrow:
		n.Exn = walkAtom(n.Exn, h)
		return n
	case *KExprTry:
		n.Body = walkOpt(n.Body, h)
		n.Handler = walkOpt(n.Handler, h)
		return n
	case *KDefVal:
		n.Value = walkOpt(n.Value, h)
		return n
	case *KDefFun:
		n.Body = walkOpt(n.Body, h)
		return n
	case *KExprFor:
		n.Stages = walkStages(n.Stages, h)
		n.Body = walkOpt(n.Body, h)
		return n
	case *KExprWhile:
		n.Cond = walkOpt(n.Cond, h)
		n.Body = walkOpt(n.Body, h)
		return n
	case *KExprMap:
		n.Stages = walkStages(n.Stages, h)
		n.Body = walkOpt(n.Body, h)
		return n
	default:
		// KExprCCode, KDefTyp, KDefVariant, KDefExn: leaves.
		return e
	}
}
