package pipeline

import (
	"testing"

	"github.com/ficuslang/ficusc/internal/ast"
	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
	"github.com/ficuslang/ficusc/internal/token"
)

// TestTopoSortOrdersByImports exercises the pipeline's batch ordering:
// a module must come after everything it imports.
func TestTopoSortOrdersByImports(t *testing.T) {
	a := &ast.Module{Name: "A"}
	b := &ast.Module{Name: "B", Imports: []string{"A"}}
	c := &ast.Module{Name: "C", Imports: []string{"B"}}

	diags := &diagnostics.List{}
	order := TopoSort([]*ast.Module{c, a, b}, diags)
	if !diags.OK() {
		t.Fatalf("unexpected diagnostics: %v", diags.Errors())
	}
	if len(order) != 3 || order[0].Name != "A" || order[1].Name != "B" || order[2].Name != "C" {
		names := make([]string, len(order))
		for i, m := range order {
			names[i] = m.Name
		}
		t.Fatalf("expected order [A B C], got %v", names)
	}
}

// TestTopoSortReportsCycle exercises the cycle-detection path: two
// modules importing each other never reach in-degree zero.
func TestTopoSortReportsCycle(t *testing.T) {
	a := &ast.Module{Name: "A", Imports: []string{"B"}}
	b := &ast.Module{Name: "B", Imports: []string{"A"}}

	diags := &diagnostics.List{}
	TopoSort([]*ast.Module{a, b}, diags)
	if diags.OK() {
		t.Fatalf("expected a cyclic-dependency diagnostic")
	}
}

// TestRunStopsAtFirstFailingPass exercises the pipeline's short-circuit
// rule: once a pass leaves the diagnostics list non-empty, later
// passes must not run.
func TestRunStopsAtFirstFailingPass(t *testing.T) {
	c := New()
	ran := []string{}
	failing := func(c *Compilation) bool {
		ran = append(ran, "failing")
		c.Diags.Add(diagnostics.Internal, token.None, "boom")
		return false
	}
	never := func(c *Compilation) bool {
		ran = append(ran, "never")
		return true
	}

	ok := Run(c, failing, never)
	if ok {
		t.Fatalf("expected Run to report failure")
	}
	if len(ran) != 1 || ran[0] != "failing" {
		t.Fatalf("expected only the failing pass to run, got %v", ran)
	}
}

// TestRunRecoversInvariantViolation exercises the pipeline's panic
// boundary: a pass that panics with diagnostics.InvariantViolation
// must not crash Run, and must leave an Internal diagnostic behind.
func TestRunRecoversInvariantViolation(t *testing.T) {
	c := New()
	panicky := func(c *Compilation) bool {
		diagnostics.Fail(token.None, "should never happen")
		return true
	}

	ok := Run(c, panicky)
	if ok {
		t.Fatalf("expected Run to report failure after a recovered panic")
	}
	if c.Diags.OK() {
		t.Fatalf("expected an Internal diagnostic to be recorded")
	}
}

// TestStandardPipelineProducesCForm exercises the full AST -> K-form ->
// lambda-lift -> mangle -> C-form chain end to end over one trivial
// module, from parsed AST through to generated C-form types.
func TestStandardPipelineProducesCForm(t *testing.T) {
	c := New()
	x := c.Gen.NewID(symtab.KindVal, "x")
	mod := &ast.Module{
		Name: "Main",
		Main: true,
		TopLevel: []ast.Stmt{
			&ast.DefVal{
				Pattern: &ast.PatIdent{Name: x, T: kform.KTypInt{}},
				Value:   &ast.Lit{Kind: kform.LitInt, I: 42, T: kform.KTypInt{}},
			},
		},
	}
	c.AddModule(mod)

	ok := Run(c, Standard()...)
	if !ok || !c.Diags.OK() {
		t.Fatalf("expected the standard pipeline to succeed, diags: %v", c.Diags.Errors())
	}
	if len(c.CForm) != 1 {
		t.Fatalf("expected one C-form module, got %d", len(c.CForm))
	}
}
