// Command ficusc drives the translation pipeline over a batch of
// already-type-checked modules, loaded from a JSON fixture since the
// real lexer/parser/type checker are out of scope for this
// repository. It wires the pipeline, not the algorithms of lexing,
// parsing, or final C text emission, keeping a thin CLI separate from
// the packages doing the real work.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ficuslang/ficusc/internal/codegen"
	"github.com/ficuslang/ficusc/internal/config"
	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/pipeline"
	"github.com/ficuslang/ficusc/internal/prettyprinter"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ficusc", flag.ContinueOnError)
	fixturePath := fs.String("fixture", "", "JSON fixture standing in for a type-checked AST batch (required)")
	configPath := fs.String("config", "", "path to ficusc.yaml (optional)")
	outDir := fs.String("o", ".", "output directory for dumps")
	dumpKForm := fs.Bool("dump-kform", false, "dump K-form after lambda-lifting and mangling")
	dumpCForm := fs.Bool("dump-cform", false, "dump generated C-form type declarations")
	version := fs.Bool("version", false, "print the ficusc version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *version {
		fmt.Println("ficusc", config.Version)
		return 0
	}
	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "ficusc: -fixture is required (no parser/type-checker in scope)")
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "ficusc:", err)
			return 1
		}
		cfg = loaded
	}

	c := pipeline.New()
	mods, err := config.LoadFixture(*fixturePath, c.Gen)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ficusc:", err)
		return 1
	}

	sorted := pipeline.TopoSort(mods, c.Diags)
	if !c.Diags.OK() {
		errPrinter := diagnostics.NewPrinter(os.Stderr)
		errPrinter.RunID = c.RunID
		errPrinter.Print(c.Diags)
		return 1
	}
	for _, m := range sorted {
		c.AddModule(m)
	}

	passes := pipeline.Standard()
	passes = append(passes, pipeline.AsPass(codegen.NewProcessor(codegen.StubBackend{})))
	pipeline.Run(c, passes...)

	printer := diagnostics.NewPrinter(os.Stderr)
	printer.RunID = c.RunID
	printer.Print(c.Diags)

	if *dumpKForm {
		if err := dump(*outDir, "kform.txt", func() string {
			out := ""
			for _, m := range c.KForm {
				out += prettyprinter.DumpKForm(m)
			}
			return out
		}()); err != nil {
			fmt.Fprintln(os.Stderr, "ficusc:", err)
			return 1
		}
	}
	if *dumpCForm {
		if err := dump(*outDir, "cform.txt", func() string {
			out := ""
			for _, m := range c.CForm {
				m.Pragmas.Clibs = cfg.ClibsWith(m.Pragmas.Clibs)
				out += prettyprinter.DumpCForm(m)
			}
			return out
		}()); err != nil {
			fmt.Fprintln(os.Stderr, "ficusc:", err)
			return 1
		}
	}

	if !c.Diags.OK() {
		return 1
	}
	return 0
}

func dump(dir, name, content string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", dir, err)
	}
	return os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
}
