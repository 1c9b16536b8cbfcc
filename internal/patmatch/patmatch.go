// Package patmatch implements the pattern-matching compiler: it
// lowers a scrutinee atom plus an ordered list of
// (pattern, body) cases into a K-form expression that evaluates one
// body or falls through to NoMatchError (or a rethrow, in catch
// mode).
//
// It is invoked by the K-normalizer (internal/knf) rather than the
// other way around: patmatch never lowers an ast.Expr body itself,
// it calls back into the supplied Lower function so the K-normalizer
// remains the single place atomization happens.
package patmatch

import (
	"github.com/ficuslang/ficusc/internal/ast"
	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
	"github.com/ficuslang/ficusc/internal/token"
)

// Lower converts one already-type-checked AST expression to K-form,
// atomizing it the way internal/knf does for every other expression.
// It may emit fresh ids via Gen and append diagnostics.
type Lower func(e ast.Expr) kform.Expr

// Bind makes a fresh temporary atom holding the evaluated Expr ev
// (used so pattern sub-values, which start out as non-atomic
// KExprMem/KExprIntrin nodes, can be referenced repeatedly as an
// Atom — mirrors the K-normalizer's own atomize step).
type Bind func(ev kform.Expr, typ kform.KTyp, loc token.Loc) kform.Atom

// Compiler holds the shared, per-match-expression state: the id
// generator (for fresh temporaries and the exn variable in catch
// mode), the diagnostics list, and the two callbacks above.
type Compiler struct {
	Gen     *symtab.Gen
	Diags   *diagnostics.List
	Lower   Lower
	Bind    Bind
	NoMatch symtab.ID // the NoMatchError exception id, for the non-catch fallthrough

	// VariantCases/RecordFields resolve a nominal KTypName back to its
	// declaration, since the symbol tables that hold KDefVariant/
	// KDefTyp entries live in the K-normalizer, not here.
	VariantCases func(t kform.KTyp) []kform.KVariantCase
	RecordFields func(t kform.KTyp) []kform.KTypRecordField
}

// Compile lowers arms against scrutinee (of type scrutTyp) into a
// single K-form expression. In catch mode, a failed match re-throws
// the scrutinee (the caught exception) instead of throwing NoMatchError.
func (c *Compiler) Compile(scrutinee kform.Atom, scrutTyp kform.KTyp, arms []ast.MatchArm, loc token.Loc, catchMode bool) kform.Expr {
	fallback := c.fallback(scrutinee, loc, catchMode)
	return c.compileArms(scrutinee, scrutTyp, arms, 0, fallback, loc)
}

func (c *Compiler) fallback(scrutinee kform.Atom, loc token.Loc, catchMode bool) kform.Expr {
	if catchMode {
		return &kform.KExprThrow{CtxV: kform.Ctx{Typ: kform.KTypVoid{}, Loc: loc}, Exn: scrutinee}
	}
	return &kform.KExprThrow{
		CtxV: kform.Ctx{Typ: kform.KTypVoid{}, Loc: loc},
		Exn:  kform.AtomId{ID: c.NoMatch, Ctx: kform.Ctx{Typ: kform.KTypExn{}, Loc: loc}},
	}
}

// compileArms compiles arms[i:] in order: unreachable-case detection
// runs as we go, flagging any case that follows one which already
// matches everything.
func (c *Compiler) compileArms(scrutinee kform.Atom, scrutTyp kform.KTyp, arms []ast.MatchArm, i int, fallback kform.Expr, loc token.Loc) kform.Expr {
	if i >= len(arms) {
		return fallback
	}
	arm := arms[i]
	nextFallback := fallback
	if i+1 < len(arms) {
		nextFallback = c.compileArms(scrutinee, scrutTyp, arms, i+1, fallback, loc)
	}
	body := c.Lower(arm.Body)
	steps, checkFree := c.compileCase(scrutinee, scrutTyp, arm.Pattern)
	if checkFree && i+1 < len(arms) {
		c.Diags.Add(diagnostics.PatternMatch, arms[i+1].Pattern.Loc(), "unreachable match case: preceding case already matches everything")
	}
	return wrapSteps(steps, body, nextFallback, loc)
}

// step is one unit of work emitted while compiling a single case's
// pattern: either a pure binding (no test) or a boolean test. Binds
// and checks are kept in the single order they were produced so
// extraction always precedes the check that depends on it.
type step struct {
	bind  *bindStep
	check kform.Atom
}

type bindStep struct {
	Name kform.Ctx
	ID   symtab.ID
	Typ  kform.KTyp
	Val  kform.Expr
}

// wrapSteps turns an ordered list of steps into a right-associated
// chain of binds/ifs: every bind becomes a KDefVal prepended to the
// continuation, every check becomes `if check then continuation else
// onFail`.
func wrapSteps(steps []step, body, onFail kform.Expr, loc token.Loc) kform.Expr {
	cont := body
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		if s.bind != nil {
			cont = &kform.KExprSeq{
				CtxV: kform.Ctx{Typ: kform.ExprTyp(cont), Loc: loc},
				Stmts: []kform.Expr{
					&kform.KDefVal{CtxV: s.bind.Name, Name: s.bind.ID, Typ: s.bind.Typ, Value: s.bind.Val},
					cont,
				},
			}
		} else {
			cont = &kform.KExprIf{
				CtxV: kform.Ctx{Typ: kform.ExprTyp(cont), Loc: loc},
				Cond: s.check,
				Then: cont,
				Else: onFail,
			}
		}
	}
	return cont
}
