// Package diagnostics implements the shared, per-Compilation error
// list: each pass appends to it rather than failing fast. The list is
// owned by internal/pipeline.Compilation rather than a package-level
// global, so two compilations running in the same process (e.g. in
// tests) never interleave each other's diagnostics.
package diagnostics

import (
	"fmt"

	"github.com/ficuslang/ficusc/internal/token"
)

// Kind is the closed set of error categories this compiler reports.
type Kind int

const (
	Syntax Kind = iota
	Type
	PatternMatch
	NameResolution
	Internal
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax error"
	case Type:
		return "type error"
	case PatternMatch:
		return "pattern-match error"
	case NameResolution:
		return "name-resolution error"
	case Internal:
		return "internal error"
	default:
		return "error"
	}
}

// Error carries a source location and a human-readable message.
type Error struct {
	Kind    Kind
	Loc     token.Loc
	Message string
}

func (e Error) Error() string {
	if e.Loc.IsNone() {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Loc, e.Kind, e.Message)
}

func New(kind Kind, loc token.Loc, format string, args ...interface{}) Error {
	return Error{Kind: kind, Loc: loc, Message: fmt.Sprintf(format, args...)}
}

// InvariantViolation is the typed panic value used for Internal
// errors: it names the source location and the violated invariant,
// and is recovered once, at the pipeline's pass boundary.
type InvariantViolation struct {
	Loc       token.Loc
	Invariant string
}

func (e InvariantViolation) Error() string {
	return fmt.Sprintf("%s: internal error: invariant violated: %s", e.Loc, e.Invariant)
}

// Fail raises an InvariantViolation for a failed compiler invariant.
// Unlike List.Add, this never returns — it panics and aborts the
// compilation immediately, as opposed to the accumulate-and-continue
// behavior for ordinary user diagnostics.
func Fail(loc token.Loc, format string, args ...interface{}) {
	panic(InvariantViolation{Loc: loc, Invariant: fmt.Sprintf(format, args...)})
}

// List accumulates Errors for one pass or one Compilation.
type List struct {
	errors []Error
}

func (l *List) Add(kind Kind, loc token.Loc, format string, args ...interface{}) {
	l.errors = append(l.errors, New(kind, loc, format, args...))
}

func (l *List) AddError(e Error) { l.errors = append(l.errors, e) }

func (l *List) Errors() []Error { return l.errors }

func (l *List) OK() bool { return len(l.errors) == 0 }

func (l *List) Reset() { l.errors = nil }
