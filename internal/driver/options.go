/*
File    : ruchy/internal/driver/options.go
*/

// Package driver wires the lexer, parser, resolver, type checker,
// transpiler, and interpreter together behind the five entry points a
// caller (the CLI's main package, or the REPL) needs: Parse, Check,
// Transpile, Run, and ResolveModule. It plays the role go-mix's main.go
// and repl/repl.go play when they call straight into lexer/parser/eval
// themselves — here that wiring is pulled out into its own package so
// both a batch CLI and a REPL can share it.
package driver

// Mode selects what Run actually does with a parsed module: execute it
// directly with the tree-walking interpreter, or lower it to Rust source
// and stop short of executing (the caller is expected to hand the
// emitted source to an external `rustc`/`cargo`, which is out of scope
// here per spec.md's own non-goals).
type Mode int

const (
	// ModeInterpret runs the module with internal/interp.
	ModeInterpret Mode = iota
	// ModeTranspile lowers the module to Rust source and stops; Run
	// returns the emitted source as Stdout's contents in this mode.
	ModeTranspile
)

// Options controls a single Parse/Check/Run invocation. It is a plain
// struct (spec.md §6's `{ mode, strict_types, module_search_paths }`
// shape) rather than anything backed by a flag/config library: CLI
// argument parsing and config-file loading are both explicitly left to
// an external collaborator (the binary embedding this package), not
// something this package does itself.
type Options struct {
	Mode              Mode
	StrictTypes       bool
	ModuleSearchPaths []string
}

// DefaultOptions returns interpreter-mode, non-strict options with no
// extra search paths — the same defaults go-mix's REPL effectively runs
// under (no flags, no type-checking gate before evaluation).
func DefaultOptions() Options {
	return Options{Mode: ModeInterpret, StrictTypes: false}
}
