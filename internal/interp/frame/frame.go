/*
File    : ruchy/internal/interp/frame/frame.go
*/

// Package frame defines the interpreter's lexical scope chain,
// generalizing scope.Scope from go-mix. It is kept as its own package
// (mirroring go-mix's standalone scope package) so both
// internal/interp and internal/interp/builtin can reference a frame
// without creating an import cycle through the evaluator itself.
package frame

import "github.com/ruchy-lang/ruchy/internal/interp/value"

// Frame is a lexical scope boundary: a binding map plus a parent link,
// walked outward on lookup exactly like scope.Scope.
type Frame struct {
	Vars   map[string]value.Value
	Parent *Frame
}

// New creates a frame nested under parent, or a root frame when parent
// is nil.
func New(parent *Frame) *Frame {
	return &Frame{Vars: make(map[string]value.Value), Parent: parent}
}

// Lookup walks the frame chain outward, exactly like scope.Scope.LookUp.
func (f *Frame) Lookup(name string) (value.Value, bool) {
	if v, ok := f.Vars[name]; ok {
		return v, true
	}
	if f.Parent != nil {
		return f.Parent.Lookup(name)
	}
	return nil, false
}

// Bind creates or overwrites a binding in this frame only, matching
// scope.Scope.Bind.
func (f *Frame) Bind(name string, v value.Value) {
	f.Vars[name] = v
}

// Assign updates an existing binding in whichever frame in the chain
// first declared it, matching scope.Scope.Assign. It returns false if
// the name was never bound anywhere in the chain.
func (f *Frame) Assign(name string, v value.Value) bool {
	if _, ok := f.Vars[name]; ok {
		f.Vars[name] = v
		return true
	}
	if f.Parent != nil {
		return f.Parent.Assign(name, v)
	}
	return false
}
