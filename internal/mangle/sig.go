package mangle

import (
	"fmt"
	"strings"

	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
)

// registry resolves a nominal KTypName back to the declaration the
// signature encoder needs to tell a record from a variant from a
// transparent alias, scoped to the module currently being mangled.
type registry struct {
	records  map[symtab.ID]*kform.KDefTyp
	variants map[symtab.ID]*kform.KDefVariant
}

func newRegistry() *registry {
	return &registry{records: map[symtab.ID]*kform.KDefTyp{}, variants: map[symtab.ID]*kform.KDefVariant{}}
}

func (r *registry) scan(topLevel []kform.Expr) {
	for _, stmt := range topLevel {
		switch d := stmt.(type) {
		case *kform.KDefTyp:
			r.records[d.Name] = d
		case *kform.KDefVariant:
			r.variants[d.Name] = d
		}
	}
}

// sigOf implements the structural-to-string type signature encoding.
// A KTypName resolves to "V<len><name>" for a
// variant, "R<len><name>" for a record-bodied KDefTyp, or the
// signature of its aliased body for a transparent (non-record) alias
// — an alias is structurally transparent, so two aliases with the
// same underlying shape must still produce the same signature.
func sigOf(t kform.KTyp, reg *registry) string {
	switch tt := t.(type) {
	case kform.KTypVoid:
		return "v"
	case kform.KTypBool:
		return "B"
	case kform.KTypChar:
		return "C"
	case kform.KTypString:
		return "S"
	case kform.KTypCPtr:
		return "p"
	case kform.KTypExn:
		return "E"
	case kform.KTypInt:
		return "i"
	case kform.KTypFixed:
		return fixedCode(tt)
	case kform.KTypFloat:
		return floatCode(tt)
	case kform.KTypTuple:
		return tupleSig(tt, reg)
	case kform.KTypRecord:
		return fmt.Sprintf("R%s", lengthPrefixed(tt.Name.Prefix))
	case kform.KTypList:
		return "L" + sigOf(tt.Elem, reg)
	case kform.KTypRef:
		return "r" + sigOf(tt.Elem, reg)
	case kform.KTypFun:
		return funSig(tt, reg)
	case kform.KTypArray:
		return fmt.Sprintf("A%d%s", tt.Dims, sigOf(tt.Elem, reg))
	case kform.KTypName:
		return nameSig(tt, reg)
	default:
		return "v"
	}
}

func fixedCode(t kform.KTypFixed) string {
	switch {
	case t.Signed && t.Bits == 8:
		return "c"
	case t.Signed && t.Bits == 16:
		return "s"
	case t.Signed && t.Bits == 32:
		return "n"
	case t.Signed && t.Bits == 64:
		return "l"
	case !t.Signed && t.Bits == 8:
		return "b"
	case !t.Signed && t.Bits == 16:
		return "w"
	case !t.Signed && t.Bits == 32:
		return "u"
	default:
		return "q"
	}
}

func floatCode(t kform.KTypFloat) string {
	switch t.Bits {
	case 16:
		return "h"
	case 32:
		return "f"
	default:
		return "d"
	}
}

func tupleSig(t kform.KTypTuple, reg *registry) string {
	n := len(t.Elems)
	if n == 0 {
		return "T0"
	}
	uniform := sigOf(t.Elems[0], reg)
	allSame := true
	for _, e := range t.Elems[1:] {
		if sigOf(e, reg) != uniform {
			allSame = false
			break
		}
	}
	if allSame {
		return fmt.Sprintf("Ta%d%s", n, uniform)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "T%d", n)
	for _, e := range t.Elems {
		b.WriteString(sigOf(e, reg))
	}
	return b.String()
}

func funSig(t kform.KTypFun, reg *registry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "FP%s%d", sigOf(t.Ret, reg), len(t.Args))
	for _, a := range t.Args {
		b.WriteString(sigOf(a, reg))
	}
	return b.String()
}

func nameSig(t kform.KTypName, reg *registry) string {
	if kv, ok := reg.variants[t.ID]; ok {
		return fmt.Sprintf("V%s", lengthPrefixed(kv.Name.Prefix))
	}
	if kt, ok := reg.records[t.ID]; ok {
		if _, isRec := kt.Body.(kform.KTypRecord); isRec {
			return fmt.Sprintf("R%s", lengthPrefixed(kt.Name.Prefix))
		}
		return sigOf(kt.Body, reg)
	}
	// Unknown to this module (e.g. imported from another already-
	// mangled module): fall back to the bare name, still a pure
	// function of the reference so memoization stays deterministic.
	return fmt.Sprintf("V%s", lengthPrefixed(t.ID.Prefix))
}
