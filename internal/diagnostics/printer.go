package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiRed    = "\x1b[31;1m"
	ansiYellow = "\x1b[33;1m"
	ansiReset  = "\x1b[0m"
)

// Printer renders a List to an io.Writer, colorizing when the
// destination is a real terminal.
type Printer struct {
	W      io.Writer
	Color  bool
	// RunID, when set, is stamped onto the summary line so diagnostics
	// from several driver invocations logged to the same file can be
	// told apart.
	RunID string
}

// NewPrinter builds a Printer for w, auto-detecting color support when
// w is os.Stdout or os.Stderr.
func NewPrinter(w io.Writer) *Printer {
	color := false
	if f, ok := w.(*os.File); ok {
		fd := f.Fd()
		color = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return &Printer{W: w, Color: color}
}

func (p *Printer) Print(l *List) {
	for _, e := range l.Errors() {
		p.printOne(e)
	}
	if n := len(l.Errors()); n > 0 {
		if p.RunID != "" {
			fmt.Fprintf(p.W, "%d error(s) [run %s]\n", n, p.RunID)
			return
		}
		fmt.Fprintf(p.W, "%d error(s)\n", n)
	}
}

func (p *Printer) printOne(e Error) {
	if !p.Color {
		fmt.Fprintln(p.W, e.Error())
		return
	}
	color := ansiRed
	if e.Kind == Internal {
		color = ansiYellow
	}
	fmt.Fprintf(p.W, "%s%s%s: %s: %s\n", color, e.Loc, ansiReset, e.Kind, e.Message)
}
