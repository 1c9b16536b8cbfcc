// Package lift implements the simple lambda-lifter: it hoists every
// nested function definition it can prove has no real capture from its
// enclosing scope up to module scope, and leaves everything else
// exactly where it was. No pass in this repository converts a nested
// function left in place into a closure: its KDefFun.Closure stays
// empty.
//
// A complete lambda-lifter also unconditionally hoists any nested
// type/variant/exception def and any constructor-tag value def; this
// ast never nests a DefVariant/DefExn/DefTypeAlias inside an
// expression (they are statement-only constructs internal/knf always
// emits straight to module scope via hoistTypeDefs), so there is
// nothing of that kind left for this pass to find.
package lift

import (
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
)

// maxPasses bounds the fixed-point loop. Two passes already resolve
// the common case (a nested helper calling a nested sibling declared
// later in the same scope); the extra headroom only matters for
// pathological chains of mutually-referential nested helpers.
const maxPasses = 8

// Hoist mutates mod in place. A nested *KDefFun is moved to
// mod.TopLevel once every free variable it references (computed via
// kform.FreeVars, which already excludes the function's own name and
// parameters) resolves to something already visible at module scope:
// a global val/fun, a type/variant/exception name, a variant
// constructor, or another nested function hoisted earlier in the same
// fixed-point loop.
func Hoist(mod *kform.Module, kinfo *symtab.Table[kform.Info]) {
	globals := map[symtab.Key]bool{}
	for _, stmt := range mod.TopLevel {
		declareGlobal(stmt, globals)
	}

	for pass := 0; pass < maxPasses; pass++ {
		var extracted []kform.Expr
		for _, stmt := range mod.TopLevel {
			extracted = append(extracted, hoistBody(stmt, globals)...)
		}
		if len(extracted) == 0 {
			break
		}
		mod.TopLevel = append(mod.TopLevel, extracted...)
	}
}

// declareGlobal registers the name(s) a single top-level definition
// introduces. A variant's case constructors are separate KDefFun
// entries already in TopLevel, so they are picked up on their own
// turn through this same loop.
func declareGlobal(e kform.Expr, globals map[symtab.Key]bool) {
	switch n := e.(type) {
	case *kform.KDefVal:
		globals[n.Name.Key()] = true
	case *kform.KDefFun:
		globals[n.Name.Key()] = true
	case *kform.KDefTyp:
		globals[n.Name.Key()] = true
	case *kform.KDefVariant:
		globals[n.Name.Key()] = true
	case *kform.KDefExn:
		globals[n.Name.Key()] = true
	}
}

// hoistBody descends into the one body a top-level definition carries
// (a KDefFun's Body or a KDefVal's Value may itself be a sequence
// holding local function definitions) and returns every nested
// KDefFun pulled out of it this pass.
func hoistBody(e kform.Expr, globals map[symtab.Key]bool) []kform.Expr {
	switch n := e.(type) {
	case *kform.KDefFun:
		if n.Body == nil {
			return nil
		}
		newBody, extracted := walk(n.Body, globals)
		n.Body = newBody
		return extracted
	case *kform.KDefVal:
		if n.Value == nil {
			return nil
		}
		newVal, extracted := walk(n.Value, globals)
		n.Value = newVal
		return extracted
	default:
		return nil
	}
}

// walk recurses through every Expr shape that can contain a nested
// KDefFun as a direct statement (only a KExprSeq's Stmts ever hold
// one — a local `fun` definition is itself a statement, never a
// sub-expression of a binary op or call) and returns e rewritten with
// every hoistable nested function removed, plus the flat list of
// extracted functions (already processed bottom-up, so a
// doubly-nested helper is resolved before its parent is judged).
func walk(e kform.Expr, globals map[symtab.Key]bool) (kform.Expr, []kform.Expr) {
	switch n := e.(type) {
	case *kform.KExprSeq:
		var extracted []kform.Expr
		newStmts := make([]kform.Expr, 0, len(n.Stmts))
		for _, stmt := range n.Stmts {
			if fn, ok := stmt.(*kform.KDefFun); ok {
				if fn.Body != nil {
					newBody, inner := walk(fn.Body, globals)
					fn.Body = newBody
					extracted = append(extracted, inner...)
				}
				if hoistable(fn, globals) {
					extracted = append(extracted, fn)
					globals[fn.Name.Key()] = true
					continue
				}
				newStmts = append(newStmts, fn)
				continue
			}
			newStmt, inner := walk(stmt, globals)
			extracted = append(extracted, inner...)
			newStmts = append(newStmts, newStmt)
		}
		n.Stmts = newStmts
		return n, extracted

	case *kform.KDefVal:
		if n.Value != nil {
			newVal, extracted := walk(n.Value, globals)
			n.Value = newVal
			return n, extracted
		}
		return n, nil

	case *kform.KExprIf:
		then, e1 := walk(n.Then, globals)
		n.Then = then
		var e2 []kform.Expr
		if n.Else != nil {
			var els kform.Expr
			els, e2 = walk(n.Else, globals)
			n.Else = els
		}
		return n, append(e1, e2...)

	case *kform.KExprFor:
		body, extracted := walk(n.Body, globals)
		n.Body = body
		return n, extracted

	case *kform.KExprMap:
		body, extracted := walk(n.Body, globals)
		n.Body = body
		return n, extracted

	case *kform.KExprWhile:
		cond, e1 := walk(n.Cond, globals)
		n.Cond = cond
		body, e2 := walk(n.Body, globals)
		n.Body = body
		return n, append(e1, e2...)

	case *kform.KExprTry:
		body, e1 := walk(n.Body, globals)
		n.Body = body
		var e2 []kform.Expr
		if n.Handler != nil {
			var h kform.Expr
			h, e2 = walk(n.Handler, globals)
			n.Handler = h
		}
		return n, append(e1, e2...)

	case *kform.KExprAssign:
		if n.Value == nil {
			return n, nil
		}
		val, extracted := walk(n.Value, globals)
		n.Value = val
		return n, extracted

	default:
		return e, nil
	}
}

// hoistable reports whether every free variable fn references already
// resolves within globals.
func hoistable(fn *kform.KDefFun, globals map[symtab.Key]bool) bool {
	for _, id := range kform.FreeVars(fn) {
		if !globals[id.Key()] {
			return false
		}
	}
	return true
}
