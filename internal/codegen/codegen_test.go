package codegen

import (
	"testing"

	"github.com/ficuslang/ficusc/internal/cform"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/pipeline"
)

func TestStubBackendAlwaysErrors(t *testing.T) {
	var b StubBackend
	if b.Name() != "stub" {
		t.Fatalf("expected Name() to be %q, got %q", "stub", b.Name())
	}
	stmts, err := b.Emit(&kform.Module{}, &cform.Module{})
	if err == nil {
		t.Fatalf("expected StubBackend.Emit to always error")
	}
	if stmts != nil {
		t.Fatalf("expected a nil statement list alongside the error, got %v", stmts)
	}
}

func TestProcessorFoldsBackendErrorIntoDiagnostics(t *testing.T) {
	c := pipeline.New()
	c.KForm = []*kform.Module{{Name: "M"}}
	c.CForm = []*cform.Module{{Name: "M"}}

	p := NewProcessor(StubBackend{})
	if ok := p.Process(c); ok {
		t.Fatalf("expected Process to report false when the backend errors")
	}
	if c.Diags.OK() {
		t.Fatalf("expected the backend's error to be folded into the shared diagnostics list")
	}
}

type okBackend struct{ stmts []cform.CStmt }

func (b okBackend) Name() string { return "ok" }
func (b okBackend) Emit(*kform.Module, *cform.Module) ([]cform.CStmt, error) {
	return b.stmts, nil
}

func TestProcessorAppendsEmittedStatements(t *testing.T) {
	c := pipeline.New()
	c.KForm = []*kform.Module{{Name: "M"}}
	cm := &cform.Module{Name: "M"}
	c.CForm = []*cform.Module{cm}

	extra := &cform.CFunDef{}
	p := NewProcessor(okBackend{stmts: []cform.CStmt{extra}})
	if ok := p.Process(c); !ok {
		t.Fatalf("expected Process to report true when the backend succeeds")
	}
	if len(cm.Stmts) != 1 || cm.Stmts[0] != cform.CStmt(extra) {
		t.Fatalf("expected the backend's statement to be appended to the module, got %v", cm.Stmts)
	}
}
