package kform

import "github.com/ficuslang/ficusc/internal/symtab"

// idSet is a small helper; it is not exported because free_vars'
// ordering does not matter to any consumer (lambda-lift only checks
// set membership).
type idSet map[symtab.Key]symtab.ID

func (s idSet) add(id symtab.ID)        { s[id.Key()] = id }
func (s idSet) has(id symtab.ID) bool   { _, ok := s[id.Key()]; return ok }
func (s idSet) remove(id symtab.ID)     { delete(s, id.Key()) }
func (s idSet) toSlice() []symtab.ID {
	out := make([]symtab.ID, 0, len(s))
	for _, id := range s {
		out = append(out, id)
	}
	return out
}

// FreeVars computes used(e) \ declared(e), folding over the subtree
// and treating binders (KDefVal, function params, for-indices, pattern
// variables) as declarations. Pattern variables are already desugared
// to KDefVal nodes by the time K-normalization finishes, so this
// single pass covers them too.
func FreeVars(e Expr) []symtab.ID {
	used := idSet{}
	declared := idSet{}
	collectFreeVars(e, used, declared)
	free := idSet{}
	for k, id := range used {
		if _, ok := declared[k]; !ok {
			free[k] = id
		}
	}
	return free.toSlice()
}

func collectFreeVars(e Expr, used, declared idSet) {
	h := &FoldHooks[struct{}]{
		Atom: func(a Atom, _ struct{}) (struct{}, bool) {
			if id, ok := a.(AtomId); ok {
				used.add(id.ID)
			}
			return struct{}{}, false
		},
		Expr: func(e Expr, _ struct{}) (struct{}, bool) {
			switch n := e.(type) {
			case *KDefVal:
				declared.add(n.Name)
			case *KDefFun:
				declared.add(n.Name)
				for _, p := range n.Args {
					declared.add(p.Name)
				}
			case *KExprFor:
				for _, s := range n.Stages {
					declared.add(s.Proxy)
					addAtIdx(declared, s.AtIdx)
				}
			case *KExprMap:
				for _, s := range n.Stages {
					declared.add(s.Proxy)
					addAtIdx(declared, s.AtIdx)
				}
			case *KExprTry:
				declared.add(n.ExnVar)
			case *KExprAssign:
				used.add(n.Target)
			case *KExprCall:
				used.add(n.Fn)
			}
			return struct{}{}, false
		},
	}
	Fold(e, struct{}{}, h)
}

func addAtIdx(declared idSet, ai AtIndex) {
	if ai.None {
		return
	}
	if ai.Single != symtab.NONE {
		declared.add(ai.Single)
	}
	for _, a := range ai.Axes {
		declared.add(a)
	}
}
