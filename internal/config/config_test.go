package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultHasNoExtraLibsOrCpp(t *testing.T) {
	d := Default()
	if d.Pragmas.Cpp {
		t.Fatalf("expected the default config to target plain C, not C++")
	}
	if len(d.Pragmas.Clibs) != 0 || len(d.ModulePath) != 0 || len(d.RuntimeLib) != 0 {
		t.Fatalf("expected a zero-value default config, got %#v", d)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ficusc.yaml")
	contents := "module_path:\n  - ./lib\nruntime_libs:\n  - m\npragmas:\n  cpp: true\n  clibs:\n    - pthread\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !f.Pragmas.Cpp {
		t.Fatalf("expected cpp: true to round-trip")
	}
	if len(f.ModulePath) != 1 || f.ModulePath[0] != "./lib" {
		t.Fatalf("expected module_path to round-trip, got %#v", f.ModulePath)
	}
	if len(f.RuntimeLib) != 1 || f.RuntimeLib[0] != "m" {
		t.Fatalf("expected runtime_libs to round-trip, got %#v", f.RuntimeLib)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/ficusc.yaml"); err == nil {
		t.Fatalf("expected an error loading a nonexistent config file")
	}
}

func TestClibsWithDedupesPreservingFirstSeenOrder(t *testing.T) {
	f := &File{RuntimeLib: []string{"m", "pthread"}}
	got := f.ClibsWith([]string{"pthread", "gc"})
	want := []string{"m", "pthread", "gc"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
