// Package prettyprinter renders K-form and C-form trees as indented
// text for the driver's -dump-kform/-dump-cform flags. It is a debug
// aid only — nothing downstream parses its output — grounded on the
// teacher's own indent-tracking writer (internal/prettyprinter's
// write/writeIndent/writeln helpers) and operator-precedence table,
// here retargeted from printing source-language syntax to dumping the
// compiler's own intermediate forms.
package prettyprinter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ficuslang/ficusc/internal/kform"
)

// binaryPrecedence ranks the binary operator spellings, including
// "&&" (which internal/patmatch still emits when combining checks).
// The dump never nests one binary inside another, since KExprBinary
// operands are atoms, so no printer code calls precedenceOf.
var binaryPrecedence = map[string]int{
	"||": 1, "&&": 2,
	"==": 3, "!=": 3, "<": 4, ">": 4, "<=": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

func precedenceOf(op string) int {
	if p, ok := binaryPrecedence[op]; ok {
		return p
	}
	return 10
}

// KPrinter renders one or more kform.Module trees.
type KPrinter struct {
	buf    strings.Builder
	indent int
}

// NewKPrinter builds an empty K-form dumper.
func NewKPrinter() *KPrinter { return &KPrinter{} }

func (p *KPrinter) writeIndent() { p.buf.WriteString(strings.Repeat("  ", p.indent)) }

func (p *KPrinter) line(format string, args ...interface{}) {
	p.writeIndent()
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

// String returns everything printed so far.
func (p *KPrinter) String() string { return p.buf.String() }

// DumpKForm renders m as indented text, top-level statements in
// source order.
func DumpKForm(m *kform.Module) string {
	p := NewKPrinter()
	p.module(m)
	return p.String()
}

func (p *KPrinter) module(m *kform.Module) {
	main := ""
	if m.Main {
		main = " main"
	}
	p.line("module %s%s (imports: %s)", m.Name, main, strings.Join(m.Imports, ", "))
	p.indent++
	for _, e := range m.TopLevel {
		p.expr(e)
	}
	p.indent--
}

func (p *KPrinter) expr(e kform.Expr) {
	switch n := e.(type) {
	case *kform.KDefVal:
		flag := ""
		if n.Mutable {
			flag = " mutable"
		}
		if n.TempRef {
			flag += " tempref"
		}
		p.line("val %s: %s%s =", n.Name, typName(n.Typ), flag)
		p.indent++
		p.expr(n.Value)
		p.indent--

	case *kform.KDefFun:
		p.line("fun %s(%s): %s %s", n.Name, paramList(n.Args), typName(n.RetType), funFlags(n.Flags))
		if n.Body != nil {
			p.indent++
			p.expr(n.Body)
			p.indent--
		}

	case *kform.KDefTyp:
		p.line("type %s = %s", n.Name, typName(n.Body))

	case *kform.KDefVariant:
		p.line("variant %s %s {", n.Name, variantFlags(n.Flags))
		p.indent++
		for _, c := range n.Cases {
			p.line("case %s (tag %d): %s", c.Name, c.Tag, typName(c.Payload))
		}
		p.indent--
		p.line("}")

	case *kform.KDefExn:
		p.line("exception %s (tag %d): %s", n.Name, n.Tag, typName(n.Arg))

	case *kform.KExprAtom:
		p.line("%s", atomStr(n.A))

	case *kform.KExprBinary:
		p.line("%s %s %s", atomStr(n.A), n.Op, atomStr(n.B))

	case *kform.KExprUnary:
		p.line("%s%s", n.Op, atomStr(n.A))

	case *kform.KExprIntrin:
		p.line("%s(%s)", n.Op, atomList(n.Args))

	case *kform.KExprCall:
		p.line("%s(%s)", n.Fn, atomList(n.Args))

	case *kform.KExprCallClosure:
		p.line("(%s)(%s)", atomStr(n.Closure), atomList(n.Args))

	case *kform.KExprIf:
		p.line("if %s", atomStr(n.Cond))
		p.indent++
		p.expr(n.Then)
		p.indent--
		if n.Else != nil {
			p.line("else")
			p.indent++
			p.expr(n.Else)
			p.indent--
		}

	case *kform.KExprSeq:
		p.line("{")
		p.indent++
		for _, s := range n.Stmts {
			p.expr(s)
		}
		p.indent--
		p.line("}")

	case *kform.KExprMkTuple:
		p.line("(%s)", atomList(n.Elems))

	case *kform.KExprMkRecord:
		p.line("%s{%s}", n.Name, atomList(n.Fields))

	case *kform.KExprMkVariant:
		p.line("%s/case%d(%s)", n.Variant, n.CaseIdx, atomList(n.Payload))

	case *kform.KExprMkClosure:
		p.line("closure(%s; capture=%s)", n.Fn, atomList(n.Capture))

	case *kform.KExprMem:
		p.line("%s.%d", atomStr(n.Base), n.Index)

	case *kform.KExprAt:
		p.line("%s[%s]", atomStr(n.Base), atomList(n.Indices))

	case *kform.KExprAssign:
		idx := ""
		if n.Index != nil {
			idx = "[" + atomList(n.Index) + "]"
		}
		p.line("%s%s :=", n.Target, idx)
		p.indent++
		p.expr(n.Value)
		p.indent--

	case *kform.KExprThrow:
		p.line("throw %s", atomStr(n.Exn))

	case *kform.KExprTry:
		p.line("try")
		p.indent++
		p.expr(n.Body)
		p.indent--
		p.line("catch (%s)", n.ExnVar)
		p.indent++
		p.expr(n.Handler)
		p.indent--

	case *kform.KExprCCode:
		p.line("ccode %q", n.Code)

	case *kform.KExprFor:
		p.forStages(n.Stages)
		p.indent++
		p.expr(n.Body)
		p.indent--

	case *kform.KExprWhile:
		kw := "while"
		if n.DoWhile {
			kw = "do-while"
		}
		p.line("%s", kw)
		p.indent++
		p.expr(n.Cond)
		p.expr(n.Body)
		p.indent--

	case *kform.KExprMap:
		kind := "list"
		if n.Array {
			kind = "array"
		}
		p.line("map<%s>", kind)
		p.forStages(n.Stages)
		p.indent++
		p.expr(n.Body)
		p.indent--

	case *kform.KExprMkArray:
		p.line("[|%s|]", atomList(n.Elems))

	case *kform.KExprMkList:
		p.line("[%s]", atomList(n.Elems))

	case *kform.KExprMkRange:
		p.line("%s:%s:%s", atomStr(n.Lo), atomStr(n.Hi), atomStr(n.Step))

	default:
		p.line("<unknown expr %T>", e)
	}
}

func (p *KPrinter) forStages(stages []kform.MapClauseStage) {
	for i, s := range stages {
		p.line("stage %d: %s <- %s%s", i, s.Proxy, iterStr(s.Iter), atIndexStr(s.AtIdx))
		if len(s.Unpack) > 0 {
			p.indent++
			for _, u := range s.Unpack {
				p.expr(u)
			}
			p.indent--
		}
		for _, g := range s.Guards {
			p.line("when %s", atomStr(g))
		}
	}
}

func iterStr(it kform.Iterable) string {
	switch v := it.(type) {
	case kform.IterRange:
		return fmt.Sprintf("%s:%s:%s", atomStr(v.Lo), atomStr(v.Hi), atomStr(v.Step))
	case kform.IterArray:
		return atomStr(v.Arr)
	case kform.IterList:
		return atomStr(v.Lst)
	case kform.IterString:
		return atomStr(v.Str)
	default:
		return "?"
	}
}

func atIndexStr(a kform.AtIndex) string {
	if a.None {
		return ""
	}
	if len(a.Axes) <= 1 {
		return fmt.Sprintf(" @%s", a.Single)
	}
	names := make([]string, len(a.Axes))
	for i, ax := range a.Axes {
		names[i] = ax.String()
	}
	return fmt.Sprintf(" @(%s)", strings.Join(names, ", "))
}

func paramList(ps []kform.KParam) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprintf("%s: %s", p.Name, typName(p.Typ))
	}
	return strings.Join(parts, ", ")
}

func funFlags(f kform.FunFlags) string {
	var flags []string
	if f.CCode {
		flags = append(flags, "ccode")
	}
	if f.Pure {
		flags = append(flags, "pure")
	}
	if f.Ctor {
		flags = append(flags, "ctor")
	}
	if f.NoThrow {
		flags = append(flags, "nothrow")
	}
	if f.Private {
		flags = append(flags, "private")
	}
	if f.HasKeywords {
		flags = append(flags, "keywords")
	}
	if len(flags) == 0 {
		return ""
	}
	return "[" + strings.Join(flags, ",") + "]"
}

func variantFlags(f kform.VariantFlags) string {
	var flags []string
	if f.Recursive {
		flags = append(flags, "recursive")
	}
	if f.Option {
		flags = append(flags, "option")
	}
	if f.NilCase >= 0 {
		flags = append(flags, fmt.Sprintf("nilcase=%d", f.NilCase))
	}
	return strings.Join(flags, " ")
}

func atomList(as []kform.Atom) string {
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = atomStr(a)
	}
	return strings.Join(parts, ", ")
}

func atomStr(a kform.Atom) string {
	switch v := a.(type) {
	case kform.AtomId:
		return v.ID.String()
	case kform.AtomLit:
		return litStr(v)
	default:
		return "?"
	}
}

func litStr(l kform.AtomLit) string {
	switch l.Kind {
	case kform.LitInt:
		return strconv.FormatInt(l.I, 10)
	case kform.LitFloat:
		return strconv.FormatFloat(l.F, 'g', -1, 64)
	case kform.LitBool:
		return strconv.FormatBool(l.B)
	case kform.LitChar:
		return strconv.QuoteRune(l.C)
	case kform.LitString:
		return strconv.Quote(l.S)
	case kform.LitUnit:
		return "()"
	default:
		return "?lit"
	}
}

// typName renders a KTyp compactly; structural types left unmangled
// (e.g. inside tests run before component E) still print something
// readable rather than panicking.
func typName(t kform.KTyp) string {
	switch v := t.(type) {
	case nil:
		return "void"
	case kform.KTypVoid:
		return "void"
	case kform.KTypBool:
		return "bool"
	case kform.KTypChar:
		return "char"
	case kform.KTypString:
		return "string"
	case kform.KTypCPtr:
		return "cptr"
	case kform.KTypExn:
		return "exn"
	case kform.KTypErr:
		return "<err>"
	case kform.KTypInt:
		return "int"
	case kform.KTypFixed:
		sign := "i"
		if !v.Signed {
			sign = "u"
		}
		return fmt.Sprintf("%s%d", sign, v.Bits)
	case kform.KTypFloat:
		return fmt.Sprintf("f%d", v.Bits)
	case kform.KTypTuple:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = typName(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case kform.KTypRecord:
		parts := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			parts[i] = f.Name + ": " + typName(f.Typ)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case kform.KTypList:
		return typName(v.Elem) + " list"
	case kform.KTypRef:
		return typName(v.Elem) + " ref"
	case kform.KTypFun:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = typName(a)
		}
		return "(" + strings.Join(args, ", ") + ") -> " + typName(v.Ret)
	case kform.KTypArray:
		return fmt.Sprintf("%s[%s]", typName(v.Elem), strings.Repeat(",", v.Dims-1))
	case kform.KTypName:
		return v.ID.String()
	default:
		return "?typ"
	}
}
