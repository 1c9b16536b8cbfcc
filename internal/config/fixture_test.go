package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ficuslang/ficusc/internal/ast"
	"github.com/ficuslang/ficusc/internal/symtab"
)

const basicFixture = `{
  "modules": [
    {
      "name": "Main",
      "file": "main.fc",
      "main": true,
      "vals": [
        { "name": "greeting", "type": "string", "expr": { "kind": "lit", "type": "string", "s": "hi" } }
      ],
      "funs": [
        {
          "name": "add",
          "params": [ { "name": "a", "type": "int" }, { "name": "b", "type": "int" } ],
          "ret": "int",
          "pure": true,
          "body": {
            "kind": "binop", "type": "int", "op": "+",
            "l": { "kind": "ident", "type": "int", "name": "a" },
            "r": { "kind": "ident", "type": "int", "name": "b" }
          }
        }
      ]
    }
  ]
}`

func TestLoadFixtureBuildsModuleWithResolvedIdents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.json")
	if err := os.WriteFile(path, []byte(basicFixture), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	gen := symtab.NewGen()
	mods, err := LoadFixture(path, gen)
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if len(mods) != 1 {
		t.Fatalf("expected 1 module, got %d", len(mods))
	}
	m := mods[0]
	if m.Name != "Main" || !m.Main {
		t.Fatalf("expected the main module's Name/Main flag to round-trip, got %+v", m)
	}
	if len(m.TopLevel) != 2 {
		t.Fatalf("expected a DefVal and a DefFun, got %d top-level stmts", len(m.TopLevel))
	}

	fn, ok := m.TopLevel[1].(*ast.DefFun)
	if !ok {
		t.Fatalf("expected the second top-level stmt to be a DefFun, got %T", m.TopLevel[1])
	}
	bin, ok := fn.Body.(*ast.BinOp)
	if !ok {
		t.Fatalf("expected the function body to lower to a BinOp, got %T", fn.Body)
	}
	lhs, ok := bin.L.(*ast.Ident)
	if !ok {
		t.Fatalf("expected the binop's left operand to be an Ident, got %T", bin.L)
	}
	if lhs.ID != fn.Params[0].Name {
		t.Fatalf("expected the binop operand to resolve to the function's own first parameter id")
	}
}

func TestLoadFixtureMissingFileErrors(t *testing.T) {
	gen := symtab.NewGen()
	if _, err := LoadFixture("/nonexistent/fixture.json", gen); err == nil {
		t.Fatalf("expected an error loading a nonexistent fixture")
	}
}
