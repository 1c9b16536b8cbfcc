// Package ast is the input contract: a fully type-checked,
// fully-resolved AST produced by an external type checker. Every
// identifier here is already a symtab.ID and every expression already
// carries its resolved kform.KTyp — the shapes below only need to
// describe enough structure for the K-normalizer (internal/knf) and
// pattern-matching compiler (internal/patmatch) to lower them, not to
// describe unresolved source syntax.
package ast

import (
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/token"
)

// Node is the base interface for every AST node. Nodes are consumed
// by a handful of direct recursive-descent lowering functions
// (internal/knf, internal/patmatch) via a type switch rather than a
// generic Visitor interface, since the K-normalizer is the one and
// only consumer of this tree and a parallel Visitor interface would
// have exactly one implementer.
type Node interface {
	Loc() token.Loc
}

// Expr is a type-checked expression: it always carries its resolved
// type.
type Expr interface {
	Node
	Typ() kform.KTyp
	exprNode()
}

// Stmt is a top-level statement/definition.
type Stmt interface {
	Node
	stmtNode()
}

// Pattern is a (possibly nested) pattern from a match arm, a `val`
// binding, or a for/comprehension generator.
type Pattern interface {
	Node
	patternNode()
}

// base carries the (loc) every node needs without repeating field
// boilerplate. Embed it, and define Typ() on expression nodes.
type base struct {
	L token.Loc
}

func (b base) Loc() token.Loc { return b.L }
