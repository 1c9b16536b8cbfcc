package kform

// Info is the K-form stage's slot in the parallel symbol tables.
// Every id that reaches K-form — value, function, type, variant case,
// exception, loop proxy — gets one, even if Def is nil (e.g. a
// lambda-lift proxy or a function parameter only ever needs Typ).
type Info struct {
	Def     Expr   // the owning KDefVal/KDefFun/KDefTyp/KDefVariant/KDefExn, if any
	Typ     KTyp   // the id's type
	Mangled string // filled in by internal/mangle; empty until then
}

func (i Info) IsPopulated() bool { return i.Def != nil || i.Typ != nil }
