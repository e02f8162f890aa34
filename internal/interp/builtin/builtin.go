/*
File    : ruchy/internal/interp/builtin/builtin.go
*/

// Package builtin is the prelude's fixed builtin catalog, generalizing
// go-mix's std package (one file per concern: json.go, http.go,
// regex.go, crypto.go, strings.go, math.go, collections.go, file.go,
// os.go, time.go) to Ruchy's method surface and richer value set.
// Like std, it depends only on the value package, never on the
// evaluator — callbacks reach back into the interpreter through the
// value.Runtime interface instead of importing internal/interp.
package builtin

import "github.com/ruchy-lang/ruchy/internal/interp/value"

// Functions is the free-function half of the catalog (read_file, now,
// sqrt, spawn, parse_json, ...), keyed by plain builtin name; qualified
// spellings such as `JSON::parse` are mapped onto these names by the
// evaluator's builtinAliases table — the same dual-spelling idiom go-mix's
// std.Packages registry uses for `math.abs`-style qualified calls.
var Functions = make(map[string]value.BuiltinFunc)

// Methods is the receiver-method half of the catalog (list.map, str.
// to_upper, map.keys, ...), keyed by receiver Kind then method name.
var Methods = make(map[value.Kind]map[string]MethodFunc)

// MethodFunc is a builtin invoked as `receiver.method(args...)`.
type MethodFunc func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error)

func registerFunc(name string, fn value.BuiltinFunc) {
	Functions[name] = fn
}

func registerMethod(kind value.Kind, name string, fn MethodFunc) {
	if Methods[kind] == nil {
		Methods[kind] = make(map[string]MethodFunc)
	}
	Methods[kind][name] = fn
}

// registerMethodAll registers fn for every kind in kinds — used for
// methods shared across several collection kinds (len, clone, ...).
func registerMethodAll(name string, fn MethodFunc, kinds ...value.Kind) {
	for _, k := range kinds {
		registerMethod(k, name, fn)
	}
}

// LookupFunction resolves a free-function builtin by name, including
// the `__builtin_<name>__` markers the transpiler's lowering pass
// recognizes (both phases share the same catalog so a program behaves
// identically whether run by the interpreter or compiled to Rust).
func LookupFunction(name string) (value.BuiltinFunc, bool) {
	fn, ok := Functions[name]
	return fn, ok
}

// LookupMethod resolves a receiver-method builtin.
func LookupMethod(kind value.Kind, name string) (MethodFunc, bool) {
	fn, ok := Methods[kind][name]
	return fn, ok
}
