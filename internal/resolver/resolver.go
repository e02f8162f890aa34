/*
File    : ruchy/internal/resolver/resolver.go
*/

// Package resolver binds identifier uses to their definition sites, expands
// `use` directives against the fixed prelude, computes visibility, and
// loads external modules on demand through a cache keyed by resolved file
// path. This plays the role go-mix's scope package plays for variable
// lookup (a chained map of bindings), generalized to also cover top-level
// declarations, module loading, and import visibility — none of which
// go-mix needs since it has no module system.
package resolver

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/parser"
	"github.com/ruchy-lang/ruchy/internal/source"
)

// Prelude lists the identifiers implicitly in scope in every module
// (spec.md §6 "Prelude"): scalar/collection type names, Result/Option
// constructors, and the builtin-function catalog's plain-name aliases.
var Prelude = map[string]bool{
	"i32": true, "i64": true, "f64": true, "bool": true, "char": true,
	"String": true, "str": true, "Vec": true, "HashMap": true, "HashSet": true,
	"Result": true, "Ok": true, "Err": true,
	"Option": true, "Some": true, "None": true,
	"println": true, "print": true, "format": true, "dbg": true,
	"parse_json": true, "stringify_json": true, "read_file": true, "open": true,
	"JSON": true, "File": true,
}

// Symbol is one bound name: where it was declared and whether it is
// externally visible.
type Symbol struct {
	Name string
	Decl ast.Decl
	Pub  bool
}

// Scope is a lexical binding environment with a parent chain, generalizing
// go-mix's scope.Scope from "variable -> value" to "name -> declaration
// site", since the resolver only needs to know where a name comes from,
// not its runtime value.
type Scope struct {
	symbols map[string]*Symbol
	parent  *Scope
}

// NewScope creates a child scope of parent (nil for the module root).
func NewScope(parent *Scope) *Scope {
	return &Scope{symbols: make(map[string]*Symbol), parent: parent}
}

// Define binds name in this scope, overwriting any previous binding —
// top-level declarations are hoisted so later redefinitions (e.g. a
// nested shadowing `let`) simply replace the earlier entry, matching
// spec.md §4.3's "forward references are allowed" rule.
func (s *Scope) Define(name string, decl ast.Decl, pub bool) {
	s.symbols[name] = &Symbol{Name: name, Decl: decl, Pub: pub}
}

// Lookup searches this scope and its ancestors, then falls back to the
// prelude.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym, true
		}
	}
	if Prelude[name] {
		return &Symbol{Name: name, Pub: true}, true
	}
	return nil, false
}

// Module is the resolver's output for one source file: its AST plus the
// root scope with every declaration hoisted into it.
type Module struct {
	Path  string
	File  source.FileID
	AST   *ast.Module
	Scope *Scope
}

// Cache loads and resolves `mod name;` references at most once per path,
// detecting cycles, per spec.md §4.3/§4.7. It owns the source.Manager so
// every loaded file gets a stable FileID for diagnostics.
type Cache struct {
	Manager   *source.Manager
	modules   map[string]*Module
	resolving map[string]bool
	Diags     *diag.Collector
}

// NewCache creates an empty module cache over mgr.
func NewCache(mgr *source.Manager) *Cache {
	return &Cache{
		Manager:   mgr,
		modules:   make(map[string]*Module),
		resolving: make(map[string]bool),
		Diags:     diag.NewCollector(),
	}
}

// ResolveFile parses and resolves the file at path, or returns the
// cached result if this exact path was already resolved — module cache
// hits never re-read the file (spec.md §4.3, §8.5).
func (c *Cache) ResolveFile(path, src string) (*Module, bool) {
	if m, ok := c.modules[path]; ok {
		return m, true
	}
	if c.resolving[path] {
		c.Diags.Addf(diag.KindCyclicImport, source.Span{}, "cyclic module import involving %q", path)
		return nil, false
	}
	c.resolving[path] = true
	defer delete(c.resolving, path)

	fid := c.Manager.AddFile(path, src)
	p := parser.New(fid, src)
	mod := p.ParseModule()
	c.Diags.Merge(p.Diags)

	m := &Module{Path: path, File: fid, AST: mod, Scope: NewScope(nil)}
	resolveModule(c, m, mod)
	c.modules[path] = m
	return m, false
}

// resolveModule hoists every declaration into m.Scope, then walks nested
// `mod name;` references through the module cache and `use` directives
// against the prelude/sibling scopes.
func resolveModule(c *Cache, m *Module, mod *ast.Module) {
	for _, d := range mod.Decls {
		hoist(m.Scope, d)
	}
	for _, d := range mod.Decls {
		if md, ok := d.(*ast.ModDecl); ok {
			resolveModDecl(c, m, md)
		}
		if ud, ok := d.(*ast.UseDecl); ok {
			resolveUseDecl(m.Scope, ud)
		}
	}
	checkIdentUses(c, m)
}

func hoist(scope *Scope, d ast.Decl) {
	switch decl := d.(type) {
	case *ast.FunDecl:
		scope.Define(decl.Name, decl, decl.Pub)
	case *ast.StructDecl:
		scope.Define(decl.Name, decl, decl.Pub)
	case *ast.EnumDecl:
		scope.Define(decl.Name, decl, decl.Pub)
		for _, v := range decl.Variants {
			scope.Define(decl.Name+"::"+v.Name, decl, decl.Pub)
		}
	case *ast.TraitDecl:
		scope.Define(decl.Name, decl, decl.Pub)
	case *ast.ModDecl:
		scope.Define(decl.Name, decl, decl.Pub)
	}
}

// resolveModDecl loads an external module (`mod name;`) through the
// cache, using source.JoinModulePath's two candidate paths, or binds an
// inline module's (`mod name { ... }`) own declarations into a fresh
// child scope reachable as `name::member`.
func resolveModDecl(c *Cache, m *Module, md *ast.ModDecl) {
	if md.Inline != nil {
		inner := &Module{Path: m.Path + "::" + md.Name, File: m.File, AST: md.Inline, Scope: NewScope(nil)}
		resolveModule(c, inner, md.Inline)
		for name, sym := range inner.Scope.symbols {
			m.Scope.Define(md.Name+"::"+name, sym.Decl, sym.Pub)
		}
		return
	}
	primary, fallback := source.JoinModulePath(dirOf(m.Path), md.Name)
	loaded := c.loadSibling(primary)
	if loaded == nil {
		loaded = c.loadSibling(fallback)
	}
	if loaded == nil {
		c.Diags.Addf(diag.KindUnknownModule, md.Span(), "cannot find module %q (tried %q and %q)", md.Name, primary, fallback)
		return
	}
	for name, sym := range loaded.Scope.symbols {
		if sym.Pub {
			m.Scope.Define(md.Name+"::"+name, sym.Decl, sym.Pub)
		}
	}
}

// ResolveExternal loads the module at path through the installed file
// reader (SetFileReader), returning the cached module if path was
// already resolved — the same lookup resolveModDecl performs while
// binding a `mod name;` reference's public symbols, exposed for the
// driver to reuse when wiring an external module into the interpreter.
func (c *Cache) ResolveExternal(path string) (*Module, bool) {
	m := c.loadSibling(path)
	if m == nil {
		return nil, false
	}
	return m, true
}

// loadSibling is a seam the driver overrides with real file-system
// access (via SetFileReader); by default the cache has no filesystem
// dependency, so unresolved external modules fall through to the
// unknown-module diagnostic above.
var readFile func(path string) (string, bool)

func (c *Cache) loadSibling(path string) *Module {
	if m, ok := c.modules[path]; ok {
		return m
	}
	if readFile == nil {
		return nil
	}
	src, ok := readFile(path)
	if !ok {
		return nil
	}
	m, _ := c.ResolveFile(path, src)
	return m
}

// SetFileReader installs the function used to load external module
// files by path; the driver calls this once at startup.
func SetFileReader(f func(path string) (string, bool)) { readFile = f }

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}

func resolveUseDecl(scope *Scope, ud *ast.UseDecl) {
	expandUsePath(scope, ud.Path)
}

func expandUsePath(scope *Scope, up ast.UsePath) {
	if up.Group != nil {
		for _, g := range up.Group {
			expandUsePath(scope, g)
		}
		return
	}
	if len(up.Segments) == 0 {
		return
	}
	name := up.Segments[len(up.Segments)-1]
	if up.Alias != "" {
		name = up.Alias
	}
	if up.Wildcard {
		// Wildcard imports bind nothing eagerly; Lookup already falls
		// back to the prelude for prelude::* (spec.md §9 open question,
		// resolved in DESIGN.md: explicit single-name uses always
		// shadow a wildcard import of the same name).
		return
	}
	scope.Define(name, nil, true)
}

// checkIdentUses walks every expression in the module reporting
// unresolved identifiers, per spec.md §4.3's "bind every identifier use
// to a definition site or record an unresolved diagnostic" rule. Method
// names and field names are not checked here — method resolution is a
// type-checker responsibility (spec.md §4.4).
func checkIdentUses(c *Cache, m *Module) {
	var walkExpr func(e ast.Expr, scope *Scope)
	walkExpr = func(e ast.Expr, scope *Scope) {
		if e == nil {
			return
		}
		switch n := e.(type) {
		case *ast.Ident:
			if _, ok := scope.Lookup(n.Name); !ok {
				c.Diags.Addf(diag.KindUnknownIdent, n.Span(), "unresolved identifier %q", n.Name)
			}
		case *ast.BinaryExpr:
			walkExpr(n.Left, scope)
			walkExpr(n.Right, scope)
		case *ast.UnaryExpr:
			walkExpr(n.Operand, scope)
		case *ast.CallExpr:
			walkExpr(n.Callee, scope)
			for _, a := range n.Args {
				walkExpr(a, scope)
			}
		case *ast.MethodCallExpr:
			walkExpr(n.Receiver, scope)
			for _, a := range n.Args {
				walkExpr(a, scope)
			}
		case *ast.FieldAccessExpr:
			walkExpr(n.Receiver, scope)
		case *ast.IndexExpr:
			walkExpr(n.Receiver, scope)
			walkExpr(n.Index, scope)
		case *ast.RangeExpr:
			walkExpr(n.Start, scope)
			walkExpr(n.End, scope)
		case *ast.ReferenceExpr:
			walkExpr(n.Operand, scope)
		case *ast.TryExpr:
			walkExpr(n.Operand, scope)
		case *ast.MacroExpr:
			for _, a := range n.Args {
				walkExpr(a, scope)
			}
		case *ast.ListLit:
			for _, el := range n.Elems {
				walkExpr(el, scope)
			}
		case *ast.TupleLit:
			for _, el := range n.Elems {
				walkExpr(el, scope)
			}
		case *ast.SetLit:
			for _, el := range n.Elems {
				walkExpr(el, scope)
			}
		case *ast.MapLit:
			for _, entry := range n.Entries {
				walkExpr(entry.Key, scope)
				walkExpr(entry.Value, scope)
			}
		case *ast.Block:
			inner := NewScope(scope)
			for _, s := range n.Stmts {
				if let, ok := s.(*ast.LetExpr); ok {
					walkExpr(let.Value, inner)
					bindPattern(inner, let.Pattern)
					continue
				}
				walkExpr(s, inner)
			}
		case *ast.IfExpr:
			walkExpr(n.Cond, scope)
			walkExpr(n.Then, scope)
			walkExpr(n.Else, scope)
		case *ast.MatchExpr:
			walkExpr(n.Subject, scope)
			for _, arm := range n.Arms {
				inner := NewScope(scope)
				bindPattern(inner, arm.Pattern)
				walkExpr(arm.Guard, inner)
				walkExpr(arm.Body, inner)
			}
		case *ast.WhileExpr:
			walkExpr(n.Cond, scope)
			walkExpr(n.Body, scope)
		case *ast.WhileLetExpr:
			walkExpr(n.Subject, scope)
			inner := NewScope(scope)
			bindPattern(inner, n.Pattern)
			walkExpr(n.Body, inner)
		case *ast.ForInExpr:
			walkExpr(n.Iter, scope)
			inner := NewScope(scope)
			bindPattern(inner, n.Pattern)
			walkExpr(n.Body, inner)
		case *ast.LoopExpr:
			walkExpr(n.Body, scope)
		case *ast.BreakExpr:
			walkExpr(n.Value, scope)
		case *ast.ReturnExpr:
			walkExpr(n.Value, scope)
		case *ast.LetExpr:
			walkExpr(n.Value, scope)
		case *ast.AssignExpr:
			walkExpr(n.Target, scope)
			walkExpr(n.Value, scope)
		case *ast.ClosureExpr:
			inner := NewScope(scope)
			for _, p := range n.Params {
				bindPattern(inner, p.Pattern)
			}
			walkExpr(n.Body, inner)
		case *ast.FStringLit:
			for _, seg := range n.Segments {
				walkExpr(seg.Expr, scope)
			}
		}
	}

	for _, d := range m.AST.Decls {
		if fd, ok := d.(*ast.FunDecl); ok {
			inner := NewScope(m.Scope)
			for _, p := range fd.Params {
				bindPattern(inner, p.Pattern)
			}
			walkExpr(fd.Body, inner)
		}
		if id, ok := d.(*ast.ImplDecl); ok {
			for _, method := range id.Methods {
				inner := NewScope(m.Scope)
				for _, p := range method.Params {
					bindPattern(inner, p.Pattern)
				}
				walkExpr(method.Body, inner)
			}
		}
	}
	for _, e := range m.AST.TopLevelStmts {
		if let, ok := e.(*ast.LetExpr); ok {
			walkExpr(let.Value, m.Scope)
			bindPattern(m.Scope, let.Pattern)
			continue
		}
		walkExpr(e, m.Scope)
	}
}

// bindPattern introduces every name a pattern binds into scope, so
// subsequent identifier checks inside its arm/body see it.
func bindPattern(scope *Scope, pat ast.Pattern) {
	switch p := pat.(type) {
	case *ast.IdentPattern:
		scope.Define(p.Name, nil, true)
	case *ast.TuplePattern:
		for _, e := range p.Elems {
			bindPattern(scope, e)
		}
	case *ast.ListPattern:
		for _, e := range p.Elems {
			bindPattern(scope, e)
		}
		if p.RestIndex >= 0 && p.RestName != "" {
			scope.Define(p.RestName, nil, true)
		}
	case *ast.StructPattern:
		for _, f := range p.Fields {
			if f.Pattern != nil {
				bindPattern(scope, f.Pattern)
			} else {
				scope.Define(f.Name, nil, true)
			}
		}
	case *ast.EnumPattern:
		for _, e := range p.TupleElems {
			bindPattern(scope, e)
		}
		for _, f := range p.StructFields {
			if f.Pattern != nil {
				bindPattern(scope, f.Pattern)
			} else {
				scope.Define(f.Name, nil, true)
			}
		}
	}
}

// ParseAndResolve is a convenience entry used by the driver to resolve a
// single in-memory source string that is not necessarily backed by a
// file on disk — the common case for `run`/`check`. The source itself is
// not read through the file-system seam; any external `mod name;`
// declarations in it still are.
func ParseAndResolve(mgr *source.Manager, path, src string) (*Module, *diag.Collector) {
	fid := mgr.AddFile(path, src)
	p := parser.New(fid, src)
	mod := p.ParseModule()
	diags := diag.NewCollector()
	diags.Merge(p.Diags)
	m := &Module{Path: path, File: fid, AST: mod, Scope: NewScope(nil)}
	c := &Cache{Manager: mgr, modules: map[string]*Module{}, resolving: map[string]bool{}, Diags: diags}
	resolveModule(c, m, mod)
	diags.Merge(c.Diags)
	return m, diags
}
