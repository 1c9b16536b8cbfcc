package ast

import "github.com/ficuslang/ficusc/internal/kform"

// Info is the AST stage's slot in the parallel symbol tables: three
// parallel, append-only tables keyed by the same id. The type checker
// that owns this stage is external to this repo, so only the one fact
// the K-normalizer actually reads back — the resolved type a symbol
// was declared with — is carried here.
type Info struct {
	Typ kform.KTyp
}

func (i Info) IsPopulated() bool { return i.Typ != nil }
