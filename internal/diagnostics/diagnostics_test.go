package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ficuslang/ficusc/internal/token"
)

func TestListAccumulatesRatherThanFailingFast(t *testing.T) {
	var l List
	if !l.OK() {
		t.Fatalf("expected a fresh List to be OK")
	}
	l.Add(Type, token.None, "expected %s, got %s", "int", "string")
	l.Add(NameResolution, token.None, "unbound identifier %q", "foo")
	if l.OK() {
		t.Fatalf("expected List to report not-OK after Add")
	}
	if len(l.Errors()) != 2 {
		t.Fatalf("expected 2 accumulated errors, got %d", len(l.Errors()))
	}

	l.Reset()
	if !l.OK() {
		t.Fatalf("expected Reset to clear accumulated errors")
	}
}

func TestFailPanicsWithInvariantViolation(t *testing.T) {
	defer func() {
		r := recover()
		v, ok := r.(InvariantViolation)
		if !ok {
			t.Fatalf("expected a recovered InvariantViolation, got %#v", r)
		}
		if !strings.Contains(v.Error(), "bad state") {
			t.Fatalf("expected the invariant message to surface in Error(), got %q", v.Error())
		}
	}()
	Fail(token.None, "bad state: %s", "dangling id")
}

func TestPrinterPlainRendersOneLinePerError(t *testing.T) {
	var l List
	l.Add(Syntax, token.None, "unexpected token")
	var buf bytes.Buffer
	p := &Printer{W: &buf}
	p.Print(&l)
	out := buf.String()
	if !strings.Contains(out, "unexpected token") {
		t.Fatalf("expected the error message in the printed output, got %q", out)
	}
	if !strings.Contains(out, "1 error(s)") {
		t.Fatalf("expected a trailing error count, got %q", out)
	}
}

func TestPrinterStampsRunID(t *testing.T) {
	var l List
	l.Add(Syntax, token.None, "boom")
	var buf bytes.Buffer
	p := &Printer{W: &buf, RunID: "abc-123"}
	p.Print(&l)
	if !strings.Contains(buf.String(), "abc-123") {
		t.Fatalf("expected the run id to appear in the summary line, got %q", buf.String())
	}
}

func TestPrinterSilentOnEmptyList(t *testing.T) {
	var l List
	var buf bytes.Buffer
	(&Printer{W: &buf}).Print(&l)
	if buf.Len() != 0 {
		t.Fatalf("expected no output for an empty diagnostics list, got %q", buf.String())
	}
}
