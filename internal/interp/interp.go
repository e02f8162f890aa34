/*
File    : ruchy/internal/interp/interp.go
*/

// Package interp is the tree-walking evaluator, generalizing go-mix's
// eval package (Evaluator/eval_*.go) to Ruchy's richer value set and
// AST shape. It ties together internal/interp/value (runtime values),
// internal/interp/frame (the binding chain) and internal/interp/builtin
// (the prelude catalog) — the same four-way split go-mix itself uses
// (objects/scope/std/eval), kept separate so the evaluator can depend
// on the builtin catalog without the catalog depending back on it.
package interp

import (
	"io"
	"os"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/interp/frame"
	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

// defaultMaxDepth bounds call recursion (spec.md §4.6/§9), carried from
// go-mix's frame-stack shape even though go-mix itself never bounds it.
const defaultMaxDepth = 30

// Interp holds the evaluator's state for a single run: the global
// frame, the struct/enum/method declaration tables resolved from the
// module (mirroring types.Env's shape, but for runtime dispatch rather
// than type schemes), and I/O, generalizing Evaluator's
// Scp/Builtins/Types/Writer/Reader fields.
type Interp struct {
	Global   *frame.Frame
	Structs  map[string]*ast.StructDecl
	Enums    map[string]*ast.EnumDecl
	Methods  map[string]map[string]*ast.FunDecl // type name -> method name -> decl
	Out      io.Writer
	In       io.Reader
	depth    int
	MaxDepth int
}

// New creates an evaluator with stdout/stdin defaults, ready to run a
// module after RunModule registers its declarations.
func New() *Interp {
	return &Interp{
		Global:   frame.New(nil),
		Structs:  map[string]*ast.StructDecl{},
		Enums:    map[string]*ast.EnumDecl{},
		Methods:  map[string]map[string]*ast.FunDecl{},
		Out:      os.Stdout,
		In:       os.Stdin,
		MaxDepth: defaultMaxDepth,
	}
}

// SetOutput redirects where println/print and builtin output land,
// matching Evaluator.SetWriter's role for test harnesses and the REPL.
func (it *Interp) SetOutput(w io.Writer) { it.Out = w }

// SetInput redirects builtin input reads.
func (it *Interp) SetInput(r io.Reader) { it.In = r }

// Stdout/Stdin implement value.Runtime for builtins that need I/O.
func (it *Interp) Stdout() interface{ Write(p []byte) (n int, err error) } {
	return it.Out
}

func (it *Interp) Stdin() interface{ Read(p []byte) (n int, err error) } {
	return it.In
}

// Call implements value.Runtime, letting builtins (.map/.filter/...)
// invoke a Ruchy closure or builtin value passed to them.
func (it *Interp) Call(fn value.Value, args []value.Value) (value.Value, error) {
	return it.callValue(nil, fn, args)
}

// RunModule registers every declaration (structs, enums, impls,
// top-level functions) into the global frame/tables, then evaluates
// the module's top-level statements in sequence. If the module declares
// a `main` function, it is then called and its result returned;
// otherwise the value of the last top-level statement is returned
// (spec.md §4.5.1's "synthesized main" at interpreter level is simply
// running TopLevelStmts directly, no synthesis needed).
func (it *Interp) RunModule(mod *ast.Module) (value.Value, error) {
	for _, d := range mod.Decls {
		it.declare(d)
	}
	var result value.Value = &value.Unit{}
	for _, stmt := range mod.TopLevelStmts {
		v, err := it.eval(it.Global, stmt)
		if err != nil {
			return nil, err
		}
		result = v
	}
	if fn, ok := it.Global.Lookup("main"); ok {
		if _, isClosure := fn.(*value.Closure); isClosure {
			return it.callValue(nil, fn, nil)
		}
	}
	return unwrapReturn(result), nil
}

// DeclareExternalModule registers name's public declarations under the
// "name::member" path convention a call site like `helper::double(21)`
// parses into as a single *ast.Ident (mirroring the runtime enum-variant
// path splitEnumPath relies on, and the same prefixing the resolver
// applies to an external `mod name;`'s public symbols). The driver
// calls this once per resolved `mod name;` before RunModule, since the
// interpreter has no filesystem or module-cache access of its own.
func (it *Interp) DeclareExternalModule(name string, mod *ast.Module) {
	for _, d := range mod.Decls {
		switch decl := d.(type) {
		case *ast.FunDecl:
			if !decl.Pub {
				continue
			}
			it.Global.Bind(name+"::"+decl.Name, &value.Closure{
				Name:    name + "::" + decl.Name,
				Params:  paramNames(decl.Params),
				Body:    decl.Body,
				IsBlock: true,
				Frame:   it.Global,
			})
		case *ast.StructDecl:
			if decl.Pub {
				it.Structs[name+"::"+decl.Name] = decl
			}
		case *ast.EnumDecl:
			if decl.Pub {
				it.Enums[name+"::"+decl.Name] = decl
			}
		}
	}
}

func (it *Interp) declare(d ast.Decl) {
	switch decl := d.(type) {
	case *ast.StructDecl:
		it.Structs[decl.Name] = decl
	case *ast.EnumDecl:
		it.Enums[decl.Name] = decl
	case *ast.FunDecl:
		it.Global.Bind(decl.Name, &value.Closure{
			Name:    decl.Name,
			Params:  paramNames(decl.Params),
			Body:    decl.Body,
			IsBlock: true,
			Frame:   it.Global,
		})
	case *ast.ImplDecl:
		typeName := namedTypeName(decl.TargetType)
		if typeName == "" {
			return
		}
		if it.Methods[typeName] == nil {
			it.Methods[typeName] = map[string]*ast.FunDecl{}
		}
		for _, m := range decl.Methods {
			it.Methods[typeName][m.Name] = m
		}
	case *ast.ModDecl:
		if decl.Inline != nil {
			for _, inner := range decl.Inline.Decls {
				it.declare(inner)
			}
		}
	}
}

func namedTypeName(t ast.TypeExpr) string {
	if nt, ok := t.(*ast.NamedType); ok && len(nt.Path) > 0 {
		return nt.Path[len(nt.Path)-1]
	}
	return ""
}

func paramNames(params []ast.Param) []string {
	names := make([]string, len(params))
	for i, p := range params {
		if id, ok := p.Pattern.(*ast.IdentPattern); ok {
			names[i] = id.Name
		}
	}
	return names
}

// unwrapReturn strips a Return wrapper if the final top-level statement
// happened to be (or produce) one, matching UnwrapReturnValue's role
// in go-mix's evalCallExpression.
func unwrapReturn(v value.Value) value.Value {
	if r, ok := v.(*value.Return); ok {
		return r.Value
	}
	return v
}

// runtimeErr builds a fatal runtime diagnostic the way diag.New does
// for every other phase, satisfying the error interface directly.
func runtimeErr(e ast.Expr, kind diag.Kind, format string, args ...interface{}) error {
	d := diag.New(kind, e.Span(), format, args...)
	return d
}
