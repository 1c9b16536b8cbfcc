// Package mangle implements the name mangler and type signature
// encoder: it assigns every global value, function, type, variant
// case, and exception a unique C-compatible name, and collapses
// anonymous structural types (tuples, lists, refs, function types)
// into nominal KTypName references, materializing one fresh KDefTyp
// per distinct structural signature.
package mangle

import (
	"strconv"

	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
)

// Mangler holds the process-wide state that must survive across every
// module of one Compilation: the global name-uniqueness domain and the
// structural-signature memo for materialized types. Both must be
// cleared only by internal/pipeline.Compilation.Reset, so a Mangler is
// never reset on its own.
type Mangler struct {
	seen  map[string]bool
	bySig map[string]symtab.ID
}

func New() *Mangler {
	return &Mangler{seen: map[string]bool{}, bySig: map[string]symtab.ID{}}
}

// MangleModule runs component E over one K-form module in place: it
// names every top-level definition, then rewrites every structural
// type reference reachable from the module into a KTypName, appending
// any freshly materialized KDefTyp entries to the module's top level.
func (m *Mangler) MangleModule(km *kform.Module, gen *symtab.Gen, kinfo *symtab.Table[kform.Info], diags *diagnostics.List) {
	prefix := scopePrefix(km.Name)
	reg := newRegistry()
	reg.scan(km.TopLevel)

	for _, stmt := range km.TopLevel {
		m.nameDef(stmt, prefix, kinfo, diags)
	}

	mz := &materializer{m: m, gen: gen, kinfo: kinfo, reg: reg, prefix: prefix}
	for _, stmt := range km.TopLevel {
		mz.rewrite(stmt)
	}
	km.TopLevel = append(km.TopLevel, mz.fresh...)

	m.mangleBuiltinExnRefs(km, kinfo)
}

// assignFinal builds the final `_fx_`-prefixed C identifier for one
// candidate (prefix, name) pair, resolving global collisions by
// climbing a numeric suffix and compressing repeated module-prefix
// occurrences before applying the final prefix.
func (m *Mangler) assignFinal(prefix, name string) string {
	for attempt := 0; ; attempt++ {
		n := name
		if attempt > 0 {
			n = n + strconv.Itoa(attempt) + "_"
		}
		cand := compress(prefix+lengthPrefixed(n), prefix)
		full := "_fx_" + cand
		if !m.seen[full] {
			m.seen[full] = true
			return full
		}
	}
}

// nameDef assigns a final mangled name to one top-level definition and
// records it (plus the id's K-form type, where one applies) into
// kinfo.
func (m *Mangler) nameDef(stmt kform.Expr, prefix string, kinfo *symtab.Table[kform.Info], diags *diagnostics.List) {
	switch d := stmt.(type) {
	case *kform.KDefVal:
		name := m.assignFinal(prefix, sanitizeCIdent(d.Name.Prefix))
		kinfo.Set(d.Name, kform.Info{Def: d, Typ: d.Typ, Mangled: name})
	case *kform.KDefFun:
		name := m.assignFinal(prefix, sanitizeCIdent(d.Name.Prefix))
		kinfo.Set(d.Name, kform.Info{Def: d, Typ: funTyp(d), Mangled: name})
	case *kform.KDefTyp:
		name := m.assignFinal(prefix, sanitizeCIdent(d.Name.Prefix))
		kinfo.Set(d.Name, kform.Info{Def: d, Typ: kform.KTypVoid{}, Mangled: name})
	case *kform.KDefVariant:
		// Case constructor functions are separate KDefFun entries
		// elsewhere in TopLevel and get named on their own turn.
		name := m.assignFinal(prefix, sanitizeCIdent(d.Name.Prefix))
		kinfo.Set(d.Name, kform.Info{Def: d, Typ: kform.KTypVoid{}, Mangled: name})
	case *kform.KDefExn:
		if isStandardExn(d.Name.Prefix) {
			kinfo.Set(d.Name, kform.Info{Def: d, Typ: kform.KTypVoid{}, Mangled: "FX_EXN_" + d.Name.Prefix})
			return
		}
		name := m.assignFinal(prefix, sanitizeCIdent(d.Name.Prefix))
		kinfo.Set(d.Name, kform.Info{Def: d, Typ: kform.KTypVoid{}, Mangled: name})
	default:
		// a bare top-level expression statement carries no name to
		// mangle.
	}
}

func funTyp(d *kform.KDefFun) kform.KTyp {
	args := make([]kform.KTyp, len(d.Args))
	for i, p := range d.Args {
		args[i] = p.Typ
	}
	return kform.KTypFun{Args: args, Ret: d.RetType}
}

// isStandardExn reports whether name is one of the two runtime
// exceptions internal/knf mints directly (never as a KDefExn) during
// Builtins processing; standard exceptions get an FX_EXN_<name> tag
// instead of a mangled one.
func isStandardExn(name string) bool {
	return name == "NoMatchError" || name == "OutOfRangeError"
}

// mangleBuiltinExnRefs seeds kinfo for NoMatchError/OutOfRangeError:
// internal/knf mints their ids once per module (it has no access to a
// process-wide Builtins pass) without ever emitting a KDefExn for
// them, so nameDef's TopLevel walk never visits them. Any throw target
// or try-handler exception variable referencing one of these two
// names that kinfo doesn't already know about gets its standard
// FX_EXN_ name seeded directly; other atoms are not inspected.
func (m *Mangler) mangleBuiltinExnRefs(km *kform.Module, kinfo *symtab.Table[kform.Info]) {
	seed := func(id symtab.ID) {
		if id.IsNone() || !isStandardExn(id.Prefix) {
			return
		}
		if _, ok := kinfo.Get(id); ok {
			return
		}
		kinfo.Set(id, kform.Info{Typ: kform.KTypExn{}, Mangled: "FX_EXN_" + id.Prefix})
	}
	var walk func(e kform.Expr)
	walkAtom := func(a kform.Atom) {
		if id, ok := a.(kform.AtomId); ok {
			seed(id.ID)
		}
	}
	walk = func(e kform.Expr) {
		switch n := e.(type) {
		case *kform.KExprThrow:
			walkAtom(n.Exn)
		case *kform.KExprTry:
			seed(n.ExnVar)
			if n.Body != nil {
				walk(n.Body)
			}
			if n.Handler != nil {
				walk(n.Handler)
			}
		case *kform.KExprSeq:
			for _, s := range n.Stmts {
				walk(s)
			}
		case *kform.KExprIf:
			walk(n.Then)
			if n.Else != nil {
				walk(n.Else)
			}
		case *kform.KDefVal:
			if n.Value != nil {
				walk(n.Value)
			}
		case *kform.KDefFun:
			if n.Body != nil {
				walk(n.Body)
			}
		case *kform.KExprFor:
			if n.Body != nil {
				walk(n.Body)
			}
		case *kform.KExprWhile:
			if n.Body != nil {
				walk(n.Body)
			}
		case *kform.KExprMap:
			if n.Body != nil {
				walk(n.Body)
			}
		}
	}
	for _, stmt := range km.TopLevel {
		walk(stmt)
	}
}
