// Package config carries the ambient, per-run configuration around
// the translation pipeline: the target pragmas every C-form module is
// stamped with, the runtime library names folded into pragmas.clibs,
// and the on-disk ficusc.yaml the driver loads them from. None of this
// changes pipeline semantics — it only configures how the driver wires
// the pipeline together, parsed with gopkg.in/yaml.v3.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Version is the current ficusc version.
var Version = "0.1.0"

const SourceFileExt = ".fc"

// Pragmas mirrors the §6 output contract's pragmas record: at least
// `cpp` (force C++ compilation) and `clibs` (required -l names).
type Pragmas struct {
	Cpp   bool     `yaml:"cpp"`
	Clibs []string `yaml:"clibs"`
}

// File is the shape of ficusc.yaml: the module search path, extra
// runtime libraries to link, and default pragmas applied to every
// compiled module.
type File struct {
	ModulePath []string `yaml:"module_path"`
	RuntimeLib []string `yaml:"runtime_libs"`
	Pragmas    Pragmas  `yaml:"pragmas"`
}

// Default returns the configuration used when no ficusc.yaml is
// present: no extra search path, the bare C runtime, plain C output.
func Default() *File {
	return &File{Pragmas: Pragmas{Cpp: false, Clibs: nil}}
}

// Load reads and parses a ficusc.yaml file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &f, nil
}

// ClibsWith merges the configured runtime libraries into any
// already-collected pragmas.clibs, de-duplicating entries and
// preserving first-seen order.
func (f *File) ClibsWith(extra []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(f.RuntimeLib)+len(extra))
	for _, l := range append(append([]string{}, f.RuntimeLib...), extra...) {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}
