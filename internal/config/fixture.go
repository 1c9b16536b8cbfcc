package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ficuslang/ficusc/internal/ast"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
)

// Fixture is the on-disk JSON shape LoadFixture reads: a stand-in for
// the real lexer/parser/type checker's output, which this repository
// does not implement. It covers enough of ast.Module's shape —
// top-level values, functions with a small expression language, and
// import names — to drive the pipeline end to end in the CLI and in
// tests, without attempting to round-trip the full polymorphic AST
// through JSON.
type Fixture struct {
	Modules []FixtureModule `json:"modules"`
}

type FixtureModule struct {
	Name    string       `json:"name"`
	File    string       `json:"file"`
	Imports []string     `json:"imports"`
	Main    bool         `json:"main"`
	Vals    []FixtureVal `json:"vals"`
	Funs    []FixtureFun `json:"funs"`
}

type FixtureVal struct {
	Name string      `json:"name"`
	Typ  FixtureTyp  `json:"type"`
	Expr FixtureExpr `json:"expr"`
}

type FixtureParam struct {
	Name string     `json:"name"`
	Typ  FixtureTyp `json:"type"`
}

type FixtureFun struct {
	Name    string         `json:"name"`
	Params  []FixtureParam `json:"params"`
	RetType FixtureTyp     `json:"ret"`
	CCode   string         `json:"ccode"`
	Body    *FixtureExpr   `json:"body"`
	Pure    bool           `json:"pure"`
	Private bool           `json:"private"`
}

// FixtureTyp names the closed set of ground types a fixture can
// declare; structural types (tuples, lists, ...) are out of the
// fixture format's scope and are exercised directly by unit tests
// instead, since hand-writing their JSON shape buys nothing the
// pipeline's own tests don't already cover.
type FixtureTyp string

const (
	TInt    FixtureTyp = "int"
	TBool   FixtureTyp = "bool"
	TChar   FixtureTyp = "char"
	TString FixtureTyp = "string"
	TVoid   FixtureTyp = "void"
)

func (t FixtureTyp) resolve() kform.KTyp {
	switch t {
	case TBool:
		return kform.KTypBool{}
	case TChar:
		return kform.KTypChar{}
	case TString:
		return kform.KTypString{}
	case TVoid, "":
		return kform.KTypVoid{}
	default:
		return kform.KTypInt{}
	}
}

// FixtureExpr is a tiny tagged-union expression: a literal, an
// identifier reference, a binary op, or a direct call — enough to
// exercise K-normalization's atomization without needing pattern
// matching, comprehensions, or exceptions expressed in JSON. Pattern
// matching is exercised by internal/patmatch's tests, built directly
// from kform/ast Go values; comprehensions and exceptions are not
// exercised by any fixture or by internal/knf's tests.
type FixtureExpr struct {
	Kind string        `json:"kind"` // "lit" | "ident" | "binop" | "call"
	Typ  FixtureTyp    `json:"type"`
	I    int64         `json:"i"`
	S    string        `json:"s"`
	B    bool          `json:"b"`
	Name string        `json:"name"` // ident ref / callee name
	Op   string        `json:"op"`
	L, R *FixtureExpr  `json:"l,omitempty"`
	Args []FixtureExpr `json:"args,omitempty"`
}

// LoadFixture reads path and builds the ast.Module batch it
// describes, minting a fresh symtab.ID for every declared name via
// gen (shared with the rest of the Compilation so fixture-declared
// ids interleave correctly with ids minted later by the real passes).
func LoadFixture(path string, gen *symtab.Gen) ([]*ast.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: loading fixture %s: %w", path, err)
	}
	var fx Fixture
	if err := json.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("config: parsing fixture %s: %w", path, err)
	}
	b := &fixtureBuilder{gen: gen, scope: map[string]symtab.ID{}}
	var mods []*ast.Module
	for _, fm := range fx.Modules {
		mods = append(mods, b.module(fm))
	}
	return mods, nil
}

// fixtureBuilder resolves a fixture's by-name references (ident,
// call) to the symtab.ID minted for the matching val/fun declaration,
// mirroring the role the real type checker's symbol resolution plays
// upstream of this compiler.
type fixtureBuilder struct {
	gen   *symtab.Gen
	scope map[string]symtab.ID
}

func (b *fixtureBuilder) module(fm FixtureModule) *ast.Module {
	m := &ast.Module{Name: fm.Name, File: fm.File, Imports: fm.Imports, Main: fm.Main}
	for _, fv := range fm.Vals {
		id := b.gen.NewID(symtab.KindVal, fv.Name)
		b.scope[fv.Name] = id
		m.TopLevel = append(m.TopLevel, &ast.DefVal{
			Pattern: &ast.PatIdent{Name: id, T: fv.Typ.resolve()},
			Value:   b.expr(fv.Expr),
		})
	}
	for _, ff := range fm.Funs {
		id := b.gen.NewID(symtab.KindVal, ff.Name)
		b.scope[ff.Name] = id
	}
	for _, ff := range fm.Funs {
		m.TopLevel = append(m.TopLevel, b.fun(ff))
	}
	return m
}

func (b *fixtureBuilder) fun(ff FixtureFun) *ast.DefFun {
	id := b.scope[ff.Name]
	params := make([]ast.Param, len(ff.Params))
	saved := map[string]symtab.ID{}
	for i, p := range ff.Params {
		pid := b.gen.NewID(symtab.KindVal, p.Name)
		saved[p.Name] = b.scope[p.Name]
		b.scope[p.Name] = pid
		params[i] = ast.Param{Name: pid, Typ: p.Typ.resolve()}
	}
	var body ast.Expr
	switch {
	case ff.CCode != "":
		body = &ast.CCode{Code: ff.CCode, T: ff.RetType.resolve()}
	case ff.Body != nil:
		body = b.expr(*ff.Body)
	}
	for _, p := range ff.Params {
		if old, ok := saved[p.Name]; ok {
			b.scope[p.Name] = old
		} else {
			delete(b.scope, p.Name)
		}
	}
	return &ast.DefFun{
		Name: id, Params: params, RetType: ff.RetType.resolve(), Body: body,
		Flags: ast.DefFunFlags{CCode: ff.CCode != "", Pure: ff.Pure, Private: ff.Private},
	}
}

func (b *fixtureBuilder) expr(fe FixtureExpr) ast.Expr {
	switch fe.Kind {
	case "ident":
		return &ast.Ident{ID: b.scope[fe.Name], T: fe.Typ.resolve()}
	case "binop":
		return &ast.BinOp{Op: fe.Op, L: b.expr(*fe.L), R: b.expr(*fe.R), T: fe.Typ.resolve()}
	case "call":
		args := make([]ast.Expr, len(fe.Args))
		for i, a := range fe.Args {
			args[i] = b.expr(a)
		}
		return &ast.Call{Fn: &ast.Ident{ID: b.scope[fe.Name]}, Args: args, T: fe.Typ.resolve()}
	default: // "lit"
		return b.lit(fe)
	}
}

func (b *fixtureBuilder) lit(fe FixtureExpr) *ast.Lit {
	switch fe.Typ {
	case TBool:
		return &ast.Lit{Kind: kform.LitBool, B: fe.B, T: kform.KTypBool{}}
	case TString:
		return &ast.Lit{Kind: kform.LitString, S: fe.S, T: kform.KTypString{}}
	case TChar:
		return &ast.Lit{Kind: kform.LitChar, C: rune(fe.I), T: kform.KTypChar{}}
	default:
		return &ast.Lit{Kind: kform.LitInt, I: fe.I, T: kform.KTypInt{}}
	}
}
