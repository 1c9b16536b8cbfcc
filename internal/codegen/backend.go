// Package codegen fixes the consumer-side interface for the final code
// generation stage: a C-form code generator backend is any type able
// to turn one module's typed K-form plus its C-form type declarations
// into the statement bodies of every function. This package does not
// implement the algorithm — the internal details of final code
// generation are out of scope here, which only fixes the interface the
// type generator emits into — it only gives the driver (cmd/ficusc)
// and tests something concrete to wire against: a narrow Backend
// interface plus a processor that folds a backend's errors into the
// shared diagnostic list.
package codegen

import (
	"github.com/ficuslang/ficusc/internal/cform"
	"github.com/ficuslang/ficusc/internal/kform"
)

// Backend turns one module's K-form plus its generated C-form type
// declarations into the function bodies that complete that module's
// cform.Module. Emit is a pure translation step: it returns the
// additional CStmt list to append to cm.Stmts, or an error if it
// cannot produce one.
type Backend interface {
	// Emit produces the function-definition statements for km, given
	// the C-form type declarations typegen already attached to cm.
	Emit(km *kform.Module, cm *cform.Module) ([]cform.CStmt, error)

	// Name identifies the backend in diagnostics.
	Name() string
}

// StubBackend is the only Backend this repository implements: it
// always fails, since there is no concrete statement-emission
// algorithm in scope here. It exists so internal/pipeline and
// cmd/ficusc have a real, wireable Backend to exercise in tests and
// smoke runs rather than a nil interface value.
type StubBackend struct{}

func (StubBackend) Name() string { return "stub" }

func (StubBackend) Emit(*kform.Module, *cform.Module) ([]cform.CStmt, error) {
	return nil, errNotImplemented
}

var errNotImplemented = notImplementedError{}

type notImplementedError struct{}

func (notImplementedError) Error() string {
	return "code generation not implemented: statement emission is a consumer-supplied backend, not part of this package"
}
