package codegen

import (
	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/pipeline"
	"github.com/ficuslang/ficusc/internal/token"
)

// Processor implements pipeline.Processor: it runs a Backend over
// every K-form/C-form module pair in a Compilation and folds any
// Backend error into the shared diagnostic list rather than returning
// it directly to the caller.
type Processor struct {
	Backend Backend
}

// NewProcessor builds a Processor for the given Backend.
func NewProcessor(b Backend) *Processor { return &Processor{Backend: b} }

// Process runs Backend.Emit for every module pair already produced by
// pipeline.TypeGenAll, appending the emitted statements to each
// module's C-form in place. A module whose emission fails still lets
// the rest of the batch run, accumulating diagnostics the same way
// every earlier pass does — but Process itself
// reports false once any module failed, matching Pass's "stop the
// batch" contract for the final stage.
func (p *Processor) Process(c *pipeline.Compilation) bool {
	ok := true
	for i, km := range c.KForm {
		if i >= len(c.CForm) {
			break
		}
		cm := c.CForm[i]
		stmts, err := p.Backend.Emit(km, cm)
		if err != nil {
			c.Diags.Add(diagnostics.Internal, token.None, "codegen(%s): module %s: %v", p.Backend.Name(), km.Name, err)
			ok = false
			continue
		}
		cm.Stmts = append(cm.Stmts, stmts...)
	}
	return ok
}
