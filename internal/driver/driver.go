/*
File    : ruchy/internal/driver/driver.go
*/

package driver

import (
	"os"
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/interp"
	"github.com/ruchy-lang/ruchy/internal/parser"
	"github.com/ruchy-lang/ruchy/internal/resolver"
	"github.com/ruchy-lang/ruchy/internal/source"
	"github.com/ruchy-lang/ruchy/internal/transpile"
	"github.com/ruchy-lang/ruchy/internal/types"
)

// Driver owns the source manager and module cache shared across every
// entry point for one compilation session, matching spec.md §4.1's
// "source manager" and §4.3's "module cache" as long-lived, session-
// scoped state rather than per-call throwaways.
type Driver struct {
	Manager *source.Manager
	Cache   *resolver.Cache
	Opts    Options
}

// New creates a driver with a fresh source manager and module cache,
// and installs the resolver's file-reader seam, which tries each path
// as given and then under each of opts.ModuleSearchPaths.
func New(opts Options) *Driver {
	mgr := source.NewManager()
	d := &Driver{Manager: mgr, Cache: resolver.NewCache(mgr), Opts: opts}
	resolver.SetFileReader(fileReader(opts.ModuleSearchPaths))
	return d
}

// fileReader builds the resolver's file-reader seam: a bare path is
// tried as-is first (the common case, a sibling of the referring file),
// then under each of searchPaths in order, matching spec.md §6's
// module_search_paths knob.
func fileReader(searchPaths []string) func(path string) (string, bool) {
	return func(path string) (string, bool) {
		if content, err := os.ReadFile(path); err == nil {
			return string(content), true
		}
		for _, dir := range searchPaths {
			if content, err := os.ReadFile(dir + "/" + path); err == nil {
				return string(content), true
			}
		}
		return "", false
	}
}

// dirOf returns path's containing directory, or "." for a bare
// filename, mirroring internal/resolver's own dirOf so a `mod name;`
// reference resolves relative to its referring file the same way
// whether the resolver or the driver performs the join.
func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}

// ParseResult is `parse(source) -> (AST, diagnostics)` (spec.md §6).
type ParseResult struct {
	AST   *ast.Module
	Diags *diag.Collector
}

// Parse lexes and parses a single source string in isolation, without
// touching the module cache — the entry point a caller uses to inspect
// or pretty-print one file's syntax tree without resolving its imports.
func Parse(path, src string) ParseResult {
	fid := source.NewManager().AddFile(path, src)
	p := parser.New(fid, src)
	mod := p.ParseModule()
	return ParseResult{AST: mod, Diags: p.Diags}
}

// CheckedModule is the driver's "typed AST": the resolved module plus
// the type environment the checker produced (struct/enum/method tables,
// the Copy-eligibility table resolving DESIGN.md's open question #1).
// There is no separate per-node-annotated tree — types.Env and the Copy
// table are exactly what the transpiler and, potentially, future callers
// need from type-checking, matching the shape types.Checker.CheckModule
// already returns.
type CheckedModule struct {
	Module *ast.Module
	Env    *types.Env
	Copy   map[string]bool
	Diags  *diag.Collector
}

// ResolveModule is `resolve_module(path) -> (AST, cached?)` (spec.md
// §6): it loads path through the driver's module cache, parsing it only
// the first time a given path is requested.
func (d *Driver) ResolveModule(path, src string) (*ast.Module, bool) {
	m, cached := d.Cache.ResolveFile(path, src)
	if m == nil {
		return nil, cached
	}
	return m.AST, cached
}

// Check is `check(AST) -> (typed AST, diagnostics)` (spec.md §6): it
// type-checks mod with the bidirectional engine, merging any resolver
// diagnostics already collected for this session so a caller sees every
// diagnostic produced so far in one place.
func (d *Driver) Check(mod *ast.Module) CheckedModule {
	c := types.NewChecker()
	env := c.CheckModule(mod)
	diags := diag.NewCollector()
	diags.Merge(d.Cache.Diags)
	diags.Merge(c.Diags)
	return CheckedModule{Module: mod, Env: env, Copy: c.Copy, Diags: diags}
}

// Transpile is `transpile(typed AST) -> (emitted Rust source,
// diagnostics)` (spec.md §6): it lowers the checked module through the
// four-pass pipeline (internal/transpile) and renders the result to a
// Rust source string.
func Transpile(cm CheckedModule) (string, *diag.Collector) {
	lw := transpile.NewLowerer(cm.Env, cm.Copy)
	prog := lw.LowerModule(cm.Module)
	transpile.Optimize(prog)
	return transpile.Emit(prog), cm.Diags
}

// RunResult is `run(AST | typed AST, stdin, argv) -> (stdout, stderr,
// exit_code, diagnostics)` (spec.md §6). Stderr carries only the
// fatal runtime error's message when one occurred; exit_code follows the
// interpreter-convention of 0 on success, 1 on an uncaught runtime error.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Diags    *diag.Collector
}

// Run executes a parsed module. In ModeInterpret it runs the module
// directly with internal/interp, feeding stdin and argv in (argv is
// currently unused by the interpreter's prelude, which has no
// `std::env::args` builtin, matching spec.md's non-goal on OS process
// environment access beyond subprocesses/files/http/time already wired).
// In ModeTranspile it emits Rust source into Stdout and does not
// execute anything, since invoking an external `rustc`/`cargo` toolchain
// is explicitly outside this package's job.
func (d *Driver) Run(mod *ast.Module, path, stdin string, argv []string) RunResult {
	switch d.Opts.Mode {
	case ModeTranspile:
		cm := d.Check(mod)
		src, diags := Transpile(cm)
		return RunResult{Stdout: src, Diags: diags}
	default:
		return d.runInterpreted(mod, path, stdin)
	}
}

// declareExternalModules resolves every top-level `mod name;` (Inline
// nil) declaration in mod through the driver's module cache and
// registers its public declarations into it under the `name::member`
// path convention, since internal/interp has no filesystem or cache
// access of its own — mirroring the path resolveModDecl already applies
// when the resolver checks identifier uses against an external module.
func (d *Driver) declareExternalModules(it *interp.Interp, mod *ast.Module, path string) {
	dir := dirOf(path)
	for _, decl := range mod.Decls {
		md, ok := decl.(*ast.ModDecl)
		if !ok || md.Inline != nil {
			continue
		}
		primary, fallback := source.JoinModulePath(dir, md.Name)
		sibling, found := d.Cache.ResolveExternal(primary)
		if !found {
			sibling, found = d.Cache.ResolveExternal(fallback)
		}
		if !found {
			continue
		}
		it.DeclareExternalModule(md.Name, sibling.AST)
	}
}

func (d *Driver) runInterpreted(mod *ast.Module, path, stdin string) RunResult {
	it := interp.New()
	it.SetInput(strings.NewReader(stdin))
	var out strings.Builder
	it.SetOutput(&out)

	diags := diag.NewCollector()
	diags.Merge(d.Cache.Diags)
	d.declareExternalModules(it, mod, path)

	if d.Opts.StrictTypes {
		cm := d.Check(mod)
		diags.Merge(cm.Diags)
		if diags.HasErrors() {
			return RunResult{Stdout: out.String(), ExitCode: 1, Diags: diags}
		}
	}

	_, err := it.RunModule(mod)
	if err != nil {
		if dg, ok := err.(diag.Diagnostic); ok {
			diags.Add(dg)
		} else {
			diags.Addf(diag.KindIOFailure, source.Span{}, "%s", err.Error())
		}
		return RunResult{Stdout: out.String(), Stderr: err.Error(), ExitCode: 1, Diags: diags}
	}
	return RunResult{Stdout: out.String(), ExitCode: 0, Diags: diags}
}
