package typegen

import (
	"github.com/ficuslang/ficusc/internal/cform"
	"github.com/ficuslang/ficusc/internal/symtab"
)

// maxDeadCodePasses bounds the dead-type elimination fixpoint: it
// iterates until nothing more is pruned, capped here since running
// past 100 passes over any realistic module would itself indicate a
// compiler bug.
const maxDeadCodePasses = 100

// pruneUnreachable drops every type declaration, forward declaration,
// companion enum, and type-utility function this module's own
// function signatures and kept types never end up referencing,
// iterating to a fixpoint since dropping one type can make another
// type it alone embedded unreachable in turn, and since dropping a
// type's last reference can in the same pass make its own destructor/
// copy/constructor unreachable too. utilOwner maps each generated
// utility function's id back to the CDefTyp id it serves, so isDead
// can prune it exactly when that owner is pruned.
func pruneUnreachable(stmts []cform.CStmt, extraRoots []symtab.ID, utilOwner map[symtab.Key]symtab.ID) []cform.CStmt {
	for pass := 0; pass < maxDeadCodePasses; pass++ {
		reachable := reachableFrom(stmts, extraRoots, utilOwner)
		pruned := make([]cform.CStmt, 0, len(stmts))
		changed := false
		for _, s := range stmts {
			if isDead(s, reachable, utilOwner) {
				changed = true
				continue
			}
			pruned = append(pruned, s)
		}
		stmts = pruned
		if !changed {
			break
		}
	}
	return stmts
}

// reachableFrom computes the set of type/enum ids reachable from every
// true function signature (a CFunDef whose id is a known type-utility
// function is never itself treated as a root — it inlines its owning
// type's raw Layout rather than a CTypName, so marking its signature
// would add nothing anyway, but skipping it keeps this function
// honest about only rooting on genuine user-code signatures) plus
// extraRoots, which seeds the types named directly by a top-level
// value's own declared type — the one case reachability can't
// rediscover purely from function signatures.
func reachableFrom(stmts []cform.CStmt, extraRoots []symtab.ID, utilOwner map[symtab.Key]symtab.ID) map[symtab.Key]bool {
	defs := map[symtab.Key]*cform.CDefTyp{}
	for _, s := range stmts {
		if td, ok := s.(*cform.CTypDef); ok {
			defs[td.Typ.Name.Key()] = td.Typ
		}
	}

	reachable := map[symtab.Key]bool{}
	var mark func(t cform.CTyp)
	mark = func(t cform.CTyp) {
		switch tt := t.(type) {
		case cform.CTypName:
			if reachable[tt.ID.Key()] {
				return
			}
			reachable[tt.ID.Key()] = true
			if def, ok := defs[tt.ID.Key()]; ok {
				if !def.EnumName.IsNone() {
					reachable[def.EnumName.Key()] = true
				}
				markLayout(def.Layout, mark)
			}
		case cform.CTypRawPtr:
			mark(tt.Elem)
		case cform.CTypArray:
			mark(tt.Elem)
		case cform.CTypRawArray:
			mark(tt.Elem)
		case cform.CTypFunRawPtr:
			for _, a := range tt.Args {
				mark(a)
			}
			mark(tt.Ret)
		}
	}

	for _, s := range stmts {
		fd, ok := s.(*cform.CFunDef)
		if !ok {
			continue
		}
		if _, isUtil := utilOwner[fd.Name.Key()]; isUtil {
			continue
		}
		for _, p := range fd.Params {
			mark(p.Typ)
		}
		if fd.Ret != nil {
			mark(fd.Ret)
		}
	}
	for _, id := range extraRoots {
		mark(cform.CTypName{ID: id})
	}
	return reachable
}

func markLayout(t cform.CTyp, mark func(cform.CTyp)) {
	switch tt := t.(type) {
	case cform.CTypStruct:
		for _, f := range tt.Fields {
			mark(f.Typ)
		}
	case cform.CTypUnion:
		for _, f := range tt.Fields {
			mark(f.Typ)
		}
	case cform.CTypRawPtr:
		mark(tt.Elem)
	case cform.CTypArray:
		mark(tt.Elem)
	}
}

// isDead reports whether a type-shaped statement's own name never
// appears in the reachable set. A type-utility function (destructor/
// copy/constructor) is judged by its owner's reachability, via
// utilOwner, rather than its own name; a CFunDef with no utilOwner
// entry is a genuine user function and is never pruned here.
func isDead(s cform.CStmt, reachable map[symtab.Key]bool, utilOwner map[symtab.Key]symtab.ID) bool {
	switch n := s.(type) {
	case *cform.CTypDef:
		return !reachable[n.Typ.Name.Key()]
	case *cform.CForwardDecl:
		return !reachable[n.Typ.Name.Key()]
	case *cform.CEnumDef:
		return !reachable[n.Name.Key()]
	case *cform.CFunDef:
		owner, ok := utilOwner[n.Name.Key()]
		if !ok {
			return false
		}
		return !reachable[owner.Key()]
	default:
		return false
	}
}
