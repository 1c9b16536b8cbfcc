package prettyprinter

import (
	"fmt"
	"strings"

	"github.com/ficuslang/ficusc/internal/cform"
)

// CPrinter renders one cform.Module as indented text.
type CPrinter struct {
	buf    strings.Builder
	indent int
}

func NewCPrinter() *CPrinter { return &CPrinter{} }

func (p *CPrinter) writeIndent() { p.buf.WriteString(strings.Repeat("  ", p.indent)) }

func (p *CPrinter) line(format string, args ...interface{}) {
	p.writeIndent()
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func (p *CPrinter) String() string { return p.buf.String() }

// DumpCForm renders m as indented text: pragmas, then every
// top-level statement in the forward-decl/type/def order §6's output
// contract prescribes.
func DumpCForm(m *cform.Module) string {
	p := NewCPrinter()
	main := ""
	if m.Main {
		main = " main"
	}
	p.line("cmodule %s%s (cpp=%v clibs=%v)", m.Name, main, m.Pragmas.Cpp, m.Pragmas.Clibs)
	p.indent++
	for _, s := range m.Stmts {
		p.stmt(s)
	}
	p.indent--
	return p.String()
}

func (p *CPrinter) block(b *cform.CBlock) {
	if b == nil {
		p.line("{}")
		return
	}
	p.line("{")
	p.indent++
	for _, s := range b.Stmts {
		p.stmt(s)
	}
	p.indent--
	p.line("}")
}

func (p *CPrinter) stmt(s cform.CStmt) {
	switch n := s.(type) {
	case *cform.CBlock:
		p.block(n)
	case *cform.CIf:
		p.line("if (%s)", p.expr(n.Cond))
		p.block(n.Then)
		if n.Else != nil {
			p.line("else")
			p.block(n.Else)
		}
	case *cform.CFor:
		p.line("for (...; %s; ...)", p.expr(n.Cond))
		p.block(n.Body)
	case *cform.CWhile:
		kw := "while"
		if n.DoWhile {
			kw = "do-while"
		}
		p.line("%s (%s)", kw, p.expr(n.Cond))
		p.block(n.Body)
	case *cform.CSwitch:
		p.line("switch (%s) {", p.expr(n.On))
		p.indent++
		for _, c := range n.Cases {
			label := c.Value
			if label == "" {
				label = "default"
			}
			p.line("case %s:", label)
			p.indent++
			p.block(c.Body)
			p.indent--
		}
		p.indent--
		p.line("}")
	case *cform.CReturn:
		if n.Value == nil {
			p.line("return;")
		} else {
			p.line("return %s;", p.expr(n.Value))
		}
	case *cform.CGoto:
		p.line("goto %s;", n.Label)
	case *cform.CLabel:
		p.line("%s:", n.Name)
	case *cform.CValDecl:
		if n.Init != nil {
			p.line("%s %s = %s;", ctypName(n.Typ), n.Name, p.expr(n.Init))
		} else {
			p.line("%s %s;", ctypName(n.Typ), n.Name)
		}
	case *cform.CExprStmt:
		p.line("%s;", p.expr(n.E))
	case *cform.CFunDef:
		params := make([]string, len(n.Params))
		for i, f := range n.Params {
			params[i] = fmt.Sprintf("%s %s", ctypName(f.Typ), f.Name)
		}
		static := ""
		if n.Static {
			static = "static "
		}
		p.line("%s%s %s(%s)", static, ctypName(n.Ret), n.Name, strings.Join(params, ", "))
		if n.Body == nil {
			p.line("; // forward declaration")
		} else {
			p.block(n.Body)
		}
	case *cform.CTypDef:
		p.line("typedef %s; // %s", typLayout(n.Typ), propsStr(n.Typ.Props))
	case *cform.CEnumDef:
		parts := make([]string, len(n.Members))
		for i, m := range n.Members {
			parts[i] = fmt.Sprintf("%s=%d", m.CaseName, m.Value)
		}
		p.line("enum %s_tag_t { %s };", n.Name, strings.Join(parts, ", "))
	case *cform.CMacroDef:
		p.line("#define %s(%s) %s", n.Name, strings.Join(n.Params, ", "), n.Body)
	case *cform.CForwardDecl:
		p.line("struct %s; // forward", n.Typ.Name)
	case *cform.CInclude:
		if n.System {
			p.line("#include <%s>", n.Path)
		} else {
			p.line("#include %q", n.Path)
		}
	case *cform.CPragma:
		p.line("#pragma %s", n.Text)
	default:
		p.line("<unknown stmt %T>", s)
	}
}

func (p *CPrinter) expr(e cform.CExpr) string {
	switch n := e.(type) {
	case cform.CExprIdent:
		return n.Name.String()
	case cform.CExprLit:
		return n.Text
	case cform.CExprBinary:
		return fmt.Sprintf("(%s %s %s)", p.expr(n.L), n.Op, p.expr(n.R))
	case cform.CExprUnary:
		return fmt.Sprintf("%s%s", n.Op, p.expr(n.E))
	case cform.CExprMem:
		return fmt.Sprintf("%s.%s", p.expr(n.E), n.Field)
	case cform.CExprArrow:
		return fmt.Sprintf("%s->%s", p.expr(n.E), n.Field)
	case cform.CExprCast:
		return fmt.Sprintf("(%s)%s", ctypName(n.Typ), p.expr(n.E))
	case cform.CExprTernary:
		return fmt.Sprintf("(%s ? %s : %s)", p.expr(n.Cond), p.expr(n.Then), p.expr(n.Else))
	case cform.CExprCall:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = p.expr(a)
		}
		return fmt.Sprintf("%s(%s)", n.Fn, strings.Join(args, ", "))
	case cform.CExprInit:
		parts := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			parts[i] = fmt.Sprintf(".%s = %s", f.Name, p.expr(f.Val))
		}
		return fmt.Sprintf("(%s){ %s }", ctypName(n.Typ), strings.Join(parts, ", "))
	case cform.CExprCCode:
		return n.Code
	default:
		return fmt.Sprintf("<unknown expr %T>", e)
	}
}

func ctypName(t cform.CTyp) string {
	switch v := t.(type) {
	case nil:
		return "void"
	case cform.CTypScalar:
		return v.Name
	case cform.CTypStruct:
		return "struct " + v.Name.String()
	case cform.CTypUnion:
		return "union " + v.Name.String()
	case cform.CTypRawPtr:
		return ctypName(v.Elem) + "*"
	case cform.CTypRawArray:
		return fmt.Sprintf("%s[%d]", ctypName(v.Elem), v.Len)
	case cform.CTypArray:
		return "fx_arr_t /* " + ctypName(v.Elem) + " */"
	case cform.CTypFunRawPtr:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = ctypName(a)
		}
		return fmt.Sprintf("%s (*)(%s)", ctypName(v.Ret), strings.Join(args, ", "))
	case cform.CTypName:
		return v.ID.String()
	default:
		return "?ctyp"
	}
}

func typLayout(d *cform.CDefTyp) string {
	switch v := d.Layout.(type) {
	case cform.CTypStruct:
		fields := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = fmt.Sprintf("%s %s", ctypName(f.Typ), f.Name)
		}
		return fmt.Sprintf("struct %s { %s }", d.Name, strings.Join(fields, "; "))
	case cform.CTypUnion:
		fields := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = fmt.Sprintf("%s %s", ctypName(f.Typ), f.Name)
		}
		return fmt.Sprintf("union %s { %s }", d.Name, strings.Join(fields, "; "))
	default:
		return fmt.Sprintf("%s %s", d.Name, ctypName(d.Layout))
	}
}

func propsStr(p cform.TypeProps) string {
	var flags []string
	if p.Scalar {
		flags = append(flags, "scalar")
	}
	if p.Complex {
		flags = append(flags, "complex")
	}
	if p.Ptr {
		flags = append(flags, "ptr")
	}
	if p.PassByRef {
		flags = append(flags, "pass_by_ref")
	}
	if p.CustomCopy {
		flags = append(flags, "custom_copy")
	}
	return strings.Join(flags, ",")
}
