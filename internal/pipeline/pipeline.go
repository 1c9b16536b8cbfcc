// Package pipeline orchestrates the batch translation pipeline: a
// topologically-sorted sequence of modules pushed through
// K-normalization, lambda-lifting, mangling, and C-form type
// generation, each pass accumulating into one shared Compilation.
package pipeline

import (
	"github.com/ficuslang/ficusc/internal/ast"
	"github.com/ficuslang/ficusc/internal/cform"
	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/knf"
	"github.com/ficuslang/ficusc/internal/lift"
	"github.com/ficuslang/ficusc/internal/mangle"
	"github.com/ficuslang/ficusc/internal/symtab"
	"github.com/ficuslang/ficusc/internal/token"
	"github.com/ficuslang/ficusc/internal/typegen"

	"github.com/google/uuid"
)

// Pass is one stage of the pipeline: it consumes and/or mutates a
// Compilation, returning false if it accumulated errors that should
// stop the batch. A pass is considered successful iff the diagnostics
// list is still empty on exit; otherwise subsequent passes are
// skipped.
type Pass func(c *Compilation) bool

// Run pushes every module in source order through passes in order,
// stopping as soon as a pass leaves the diagnostics list non-empty.
// An InvariantViolation panic raised by any pass is recovered here —
// the designated pass boundary — and turned into a final Internal
// diagnostic.
func Run(c *Compilation, passes ...Pass) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			iv, isIV := r.(diagnostics.InvariantViolation)
			if !isIV {
				panic(r)
			}
			c.Diags.AddError(diagnostics.Error{
				Kind: diagnostics.Internal, Loc: iv.Loc, Message: iv.Error(),
			})
			ok = false
		}
	}()
	for _, p := range passes {
		if !p(c) {
			return false
		}
		if !c.Diags.OK() {
			return false
		}
	}
	return true
}

// Compilation is the process-wide mutable state threaded through
// every pass: the shared id generator (with its three parallel,
// length-synchronized stage tables), the mangler's maps, and the
// typegen's declared-type set. No pass may outlive its Compilation and
// no state lives outside one, so Reset is the only place state is
// cleared.
type Compilation struct {
	RunID string

	Gen     *symtab.Gen
	ASTInfo *symtab.Table[ast.Info]
	KInfo   *symtab.Table[kform.Info]
	CInfo   *symtab.Table[cform.Info]

	Diags  *diagnostics.List
	Mangle *mangle.Mangler
	Typ    *typegen.Generator

	Modules []*ast.Module
	KForm   []*kform.Module
	CForm   []*cform.Module
}

// New builds a fresh Compilation with a new run id (stamped into
// diagnostics for multi-run log correlation, never into a symbol id —
// symbol ids stay sequential regardless of run, so a batch compiles
// deterministically).
func New() *Compilation {
	c := &Compilation{RunID: uuid.NewString()}
	c.Reset()
	return c
}

// Reset reinitializes every process-wide table, the pipeline's single
// entry point for clearing state between runs.
func (c *Compilation) Reset() {
	c.Gen = symtab.NewGen()
	c.ASTInfo = symtab.NewTable[ast.Info]()
	c.KInfo = symtab.NewTable[kform.Info]()
	c.CInfo = symtab.NewTable[cform.Info]()
	symtab.Register(c.Gen, c.ASTInfo)
	symtab.Register(c.Gen, c.KInfo)
	symtab.Register(c.Gen, c.CInfo)

	c.Diags = &diagnostics.List{}
	c.Mangle = mangle.New()
	c.Typ = typegen.NewGenerator()
	c.Modules = nil
	c.KForm = nil
	c.CForm = nil
}

// AddModule appends a parsed input module; order matters only insofar
// as TopoSort below is applied before KNormalizeAll runs.
func (c *Compilation) AddModule(m *ast.Module) { c.Modules = append(c.Modules, m) }

// KNormalizeAll runs component C over every module in its current
// (already topologically sorted) order.
func KNormalizeAll(c *Compilation) bool {
	for _, m := range c.Modules {
		km := knf.Normalize(m, knf.Env{Gen: c.Gen, KInfo: c.KInfo, Diags: c.Diags})
		c.KForm = append(c.KForm, km)
	}
	return c.Diags.OK()
}

// LambdaLiftAll runs component D over every K-form module in place.
func LambdaLiftAll(c *Compilation) bool {
	for _, m := range c.KForm {
		lift.Hoist(m, c.KInfo)
	}
	return c.Diags.OK()
}

// MangleAll runs component E over every K-form module in place,
// rewriting structural types to KTypName and assigning every global a
// mangled C identifier.
func MangleAll(c *Compilation) bool {
	for _, m := range c.KForm {
		c.Mangle.MangleModule(m, c.Gen, c.KInfo, c.Diags)
	}
	return c.Diags.OK()
}

// TypeGenAll runs component F, producing one cform.Module per K-form
// module.
func TypeGenAll(c *Compilation) bool {
	for _, m := range c.KForm {
		cm := c.Typ.Generate(m, c.Gen, c.KInfo, c.CInfo, c.Diags)
		c.CForm = append(c.CForm, cm)
	}
	return c.Diags.OK()
}

// Standard is the default pass sequence: AST -> K-form -> lambda-lift
// -> mangle -> C-form types, stopping short of final code generation,
// which is an external consumer's job (see internal/codegen).
func Standard() []Pass {
	return []Pass{KNormalizeAll, LambdaLiftAll, MangleAll, TypeGenAll}
}

// Processor is the named, stateful counterpart to Pass: a pass that
// carries its own configuration rather than being a bare function
// value, following the split between a `Step`-shaped function
// pipeline and a named processor for the one stage — code
// generation — that needs to hold onto a user-selected Backend.
// AsPass adapts any Processor into the Pass shape Run expects.
type Processor interface {
	Process(c *Compilation) bool
}

// AsPass adapts a Processor to Pass so it can be appended to a
// Standard() slice and run through the same Run loop.
func AsPass(p Processor) Pass { return p.Process }

// TopoSort orders modules by their declared import dependencies using
// Kahn's algorithm — deliberately a handful of slices and maps rather
// than a container/list-based queue, matching the pack's general
// preference for small, explicit algorithms over generic container
// libraries for this kind of one-shot batch ordering. A cycle produces
// exactly one "cyclic module dependency" diagnostic naming every
// module still unordered when no in-degree-zero module remains.
func TopoSort(mods []*ast.Module, diags *diagnostics.List) []*ast.Module {
	byName := make(map[string]*ast.Module, len(mods))
	indeg := make(map[string]int, len(mods))
	dependents := make(map[string][]string, len(mods))
	for _, m := range mods {
		byName[m.Name] = m
		if _, ok := indeg[m.Name]; !ok {
			indeg[m.Name] = 0
		}
	}
	for _, m := range mods {
		for _, dep := range m.Imports {
			if _, ok := byName[dep]; !ok {
				continue // external/builtin module, not part of this batch
			}
			indeg[m.Name]++
			dependents[dep] = append(dependents[dep], m.Name)
		}
	}

	var ready []string
	for _, m := range mods {
		if indeg[m.Name] == 0 {
			ready = append(ready, m.Name)
		}
	}

	var order []*ast.Module
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, byName[name])
		for _, dep := range dependents[name] {
			indeg[dep]--
			if indeg[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if len(order) != len(mods) {
		var cycle []string
		for _, m := range mods {
			if indeg[m.Name] > 0 {
				cycle = append(cycle, m.Name)
			}
		}
		diags.Add(diagnostics.NameResolution, token.None, "cyclic module dependency: %v", cycle)
		return mods
	}
	return order
}
