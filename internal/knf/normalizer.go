// Package knf implements the K-normalizer: it lowers a
// fully type-checked ast.Module into a let-normalized kform.Module,
// atomizing every non-atomic operand and substituting fresh
// temporaries for it. It is the sole caller of internal/patmatch (the
// pattern-matching compiler) and the sole place atomization happens —
// patmatch calls back into the normalizer's own Lower/Bind closures
// rather than atomizing anything itself.
package knf

import (
	"github.com/ficuslang/ficusc/internal/ast"
	"github.com/ficuslang/ficusc/internal/diagnostics"
	"github.com/ficuslang/ficusc/internal/kform"
	"github.com/ficuslang/ficusc/internal/symtab"
	"github.com/ficuslang/ficusc/internal/token"
)

// Env is the shared state a Normalize call threads through every
// expression: the id generator and K-form info table it shares with
// every other pass in the same pipeline.Compilation, and the
// diagnostics list errors accumulate into: K-normalization accumulates
// compile errors into a shared list rather than failing fast.
type Env struct {
	Gen   *symtab.Gen
	KInfo *symtab.Table[kform.Info]
	Diags *diagnostics.List
}

// normalizer holds one module's worth of in-progress lowering state.
// A fresh normalizer is built per module so module-local caches (the
// variant/record declaration lookup maps patmatch needs) never leak
// across modules.
type normalizer struct {
	env Env

	// variants/records resolve a nominal symtab.ID back to its
	// declaration — populated by hoistTypeDefs before any expression
	// is lowered, since patmatch.Compiler.VariantCases/RecordFields
	// need them mid-lowering. The By-name twins resolve the source
	// language's by-string RecordCons.TypeName/CaseName references,
	// which never carry a resolved id of their own.
	variants      map[symtab.ID]*kform.KDefVariant
	records       map[symtab.ID]*kform.KDefTyp
	variantsByName map[string]*kform.KDefVariant
	recordsByName  map[string]*kform.KDefTyp

	// defsByID lets Assign lowering flip Mutable on a val already
	// emitted as a KDefVal earlier in the same function/module body.
	defsByID map[symtab.ID]*kform.KDefVal

	noMatchID    symtab.ID
	outOfRangeID symtab.ID

	// nextExnTag allocates exception tags at a negative base,
	// decrementing per the companion-enum numbering scheme typegen uses.
	nextExnTag int
}

// Normalize lowers one module. It never returns an error value:
// failures are accumulated into env.Diags, and the caller
// (internal/pipeline) checks Diags.OK() between passes.
func Normalize(mod *ast.Module, env Env) *kform.Module {
	n := &normalizer{
		env:            env,
		variants:       map[symtab.ID]*kform.KDefVariant{},
		records:        map[symtab.ID]*kform.KDefTyp{},
		variantsByName: map[string]*kform.KDefVariant{},
		recordsByName:  map[string]*kform.KDefTyp{},
		defsByID:       map[symtab.ID]*kform.KDefVal{},
		nextExnTag:     -1024,
	}
	n.noMatchID = n.builtinExn("NoMatchError")
	n.outOfRangeID = n.builtinExn("OutOfRangeError")

	km := &kform.Module{Name: mod.Name, Imports: mod.Imports, Main: mod.Main}

	// Variant/exception defs are hoisted in one batch, producing their
	// KDefVariant/KDefExn nodes, before lowering any expression of the
	// module.
	n.hoistTypeDefs(mod, km)

	for _, stmt := range mod.TopLevel {
		switch s := stmt.(type) {
		case *ast.DefVariant, *ast.DefExn:
			// already handled by hoistTypeDefs
		case *ast.DefTypeAlias:
			// also already emitted by hoistTypeDefs when its body is a
			// record; a non-record alias still needs its KDefTyp here.
			if _, isRec := s.Typ.(kform.KTypRecord); !isRec {
				km.TopLevel = append(km.TopLevel, &kform.KDefTyp{
					CtxV: kform.Ctx{Typ: kform.KTypVoid{}, Loc: s.Loc()},
					Name: s.Name, Body: s.Typ,
				})
			}
		case *ast.DefVal:
			km.TopLevel = append(km.TopLevel, n.lowerValDecl(s.Pattern, s.Value, s.Loc())...)
		case *ast.DefFun:
			km.TopLevel = append(km.TopLevel, n.lowerDefFun(s))
			for _, inst := range s.Instances {
				km.TopLevel = append(km.TopLevel, n.lowerDefFun(inst))
			}
		case *ast.DirectiveImport, *ast.DirectivePragma:
			// carried on kform.Module.Imports / handled ambiently by
			// internal/config; no K-form node of their own.
		case *ast.ExprStmt:
			km.TopLevel = append(km.TopLevel, n.lower(s.E))
		default:
			diagnostics.Fail(stmt.Loc(), "unhandled top-level statement kind")
		}
	}
	return km
}

// builtinExn mints (or reuses, if Builtins already ran in this
// process) the id for a core runtime exception. Both exceptions'
// tags are normally captured by the type checker's own Builtins pass;
// this models that as minting the id once per Normalize call, since
// this repo's scope starts after that pass has already run and
// threading its already-resolved id in is out of scope here.
func (n *normalizer) builtinExn(name string) symtab.ID {
	return n.env.Gen.NewID(symtab.KindVal, name)
}

func (n *normalizer) lowerDefFun(d *ast.DefFun) *kform.KDefFun {
	if d.Body == nil {
		return &kform.KDefFun{
			CtxV: kform.Ctx{Typ: kform.KTypVoid{}, Loc: d.Loc()},
			Name: d.Name, RetType: d.RetType,
			Flags: kform.FunFlags{
				CCode: d.Flags.CCode, Pure: d.Flags.Pure,
				NoThrow: d.Flags.NoThrow, Private: d.Flags.Private,
				HasKeywords: d.Flags.HasKeywords,
			},
		}
	}
	args := make([]kform.KParam, len(d.Params))
	for i, p := range d.Params {
		args[i] = kform.KParam{Name: p.Name, Typ: p.Typ}
	}
	body := n.lower(d.Body)
	return &kform.KDefFun{
		CtxV: kform.Ctx{Typ: kform.KTypVoid{}, Loc: d.Loc()},
		Name: d.Name, Args: args, RetType: d.RetType, Body: body,
		Flags: kform.FunFlags{
			CCode: d.Flags.CCode, Pure: d.Flags.Pure,
			NoThrow: d.Flags.NoThrow, Private: d.Flags.Private,
			HasKeywords: d.Flags.HasKeywords,
		},
	}
}

// ctx builds the (ktyp,loc) pair for a freshly-synthesized node.
func ctx(t kform.KTyp, loc token.Loc) kform.Ctx { return kform.Ctx{Typ: t, Loc: loc} }
