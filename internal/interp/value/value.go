/*
File    : ruchy/internal/interp/value/value.go
*/

// Package value defines the runtime value representation the
// tree-walking interpreter operates on, generalizing go-mix's objects
// package (Integer, Float, String, Boolean, Nil, Array, Map, Set, List,
// Tuple, the struct/enum additions) to Ruchy's richer value set. It is
// its own package, independent of internal/interp and
// internal/interp/builtin, for the same reason go-mix keeps objects
// separate from eval and std: both the evaluator and the builtin
// catalog need a value representation neither of them owns.
package value

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies a runtime value's variant, the same role go-mix's
// GoMixType plays for objects.GoMixObject.
type Kind string

const (
	KindInt     Kind = "i64"
	KindFloat   Kind = "f64"
	KindStr     Kind = "str"
	KindChar    Kind = "char"
	KindBool    Kind = "bool"
	KindUnit    Kind = "unit"
	KindList    Kind = "list"
	KindTuple   Kind = "tuple"
	KindMap     Kind = "map"
	KindSet     Kind = "set"
	KindRange   Kind = "range"
	KindStruct  Kind = "struct"
	KindEnum    Kind = "enum"
	KindClosure Kind = "closure"
	KindBuiltin Kind = "builtin"
	KindFile    Kind = "file"
	KindProcess Kind = "process"
	KindTabular Kind = "tabular"
)

// Value is every runtime value's interface, renamed from go-mix's
// GoMixObject (GetType/ToString/ToObject) to Kind/String/Inspect so it
// doesn't collide with Ruchy's own user-callable `to_string` method
// dispatch on struct/enum instances.
type Value interface {
	Kind() Kind
	String() string
	Inspect() string
}

type Int struct{ Value int64 }

func (v *Int) Kind() Kind      { return KindInt }
func (v *Int) String() string  { return fmt.Sprintf("%d", v.Value) }
func (v *Int) Inspect() string { return fmt.Sprintf("%d", v.Value) }

type Float struct{ Value float64 }

func (v *Float) Kind() Kind      { return KindFloat }
func (v *Float) String() string  { return fmt.Sprintf("%g", v.Value) }
func (v *Float) Inspect() string { return fmt.Sprintf("%g", v.Value) }

type Str struct{ Value string }

func (v *Str) Kind() Kind      { return KindStr }
func (v *Str) String() string  { return v.Value }
func (v *Str) Inspect() string { return fmt.Sprintf("%q", v.Value) }

type Char struct{ Value rune }

func (v *Char) Kind() Kind      { return KindChar }
func (v *Char) String() string  { return string(v.Value) }
func (v *Char) Inspect() string { return fmt.Sprintf("'%c'", v.Value) }

type Bool struct{ Value bool }

func (v *Bool) Kind() Kind      { return KindBool }
func (v *Bool) String() string  { return fmt.Sprintf("%t", v.Value) }
func (v *Bool) Inspect() string { return fmt.Sprintf("%t", v.Value) }

type Unit struct{}

func (v *Unit) Kind() Kind      { return KindUnit }
func (v *Unit) String() string  { return "()" }
func (v *Unit) Inspect() string { return "()" }

// List is the mutable, homogeneous Vec<T> runtime value.
type List struct{ Elems []Value }

func (v *List) Kind() Kind { return KindList }
func (v *List) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (v *List) Inspect() string { return v.String() }

// Tuple is the immutable, heterogeneous runtime value.
type Tuple struct{ Elems []Value }

func (v *Tuple) Kind() Kind { return KindTuple }
func (v *Tuple) String() string {
	parts := make([]string, len(v.Elems))
	for i, e := range v.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (v *Tuple) Inspect() string { return v.String() }

// Map is keyed by a value's String() form, same string-keying trick
// go-mix's objects.Map uses, extended to carry the original key Value
// (not just its string rendering) so mapping keys that aren't strings
// can still be recovered for iteration/printing.
type Map struct {
	Pairs map[string]Value
	Keys  map[string]Value // original key object, by its string form
	Order []string
}

func NewMap() *Map {
	return &Map{Pairs: make(map[string]Value), Keys: make(map[string]Value)}
}

func (v *Map) Kind() Kind { return KindMap }

func (v *Map) Set(key, val Value) {
	k := key.String()
	if _, exists := v.Pairs[k]; !exists {
		v.Order = append(v.Order, k)
	}
	v.Pairs[k] = val
	v.Keys[k] = key
}

func (v *Map) Get(key Value) (Value, bool) {
	val, ok := v.Pairs[key.String()]
	return val, ok
}

func (v *Map) Delete(key Value) bool {
	k := key.String()
	if _, ok := v.Pairs[k]; !ok {
		return false
	}
	delete(v.Pairs, k)
	delete(v.Keys, k)
	for i, o := range v.Order {
		if o == k {
			v.Order = append(v.Order[:i], v.Order[i+1:]...)
			break
		}
	}
	return true
}

func (v *Map) String() string {
	if len(v.Order) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(v.Order))
	for _, k := range v.Order {
		parts = append(parts, v.Keys[k].String()+": "+v.Pairs[k].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (v *Map) Inspect() string { return v.String() }

// Set is the unique-element collection, string-keyed like objects.Set.
type Set struct {
	Elements map[string]Value
	Order    []string
}

func NewSet() *Set {
	return &Set{Elements: make(map[string]Value)}
}

func (v *Set) Kind() Kind { return KindSet }

func (v *Set) Add(val Value) bool {
	k := val.String()
	if _, exists := v.Elements[k]; exists {
		return false
	}
	v.Elements[k] = val
	v.Order = append(v.Order, k)
	return true
}

func (v *Set) Contains(val Value) bool {
	_, ok := v.Elements[val.String()]
	return ok
}

func (v *Set) String() string {
	if len(v.Order) == 0 {
		return "set{}"
	}
	parts := make([]string, len(v.Order))
	for i, k := range v.Order {
		parts[i] = v.Elements[k].String()
	}
	sort.Strings(parts)
	return "set{" + strings.Join(parts, ", ") + "}"
}
func (v *Set) Inspect() string { return v.String() }

// Range is an (in)clusive integer range, used both as an iterable and as
// a first-class value (Ruchy's `a..b`/`a..=b` expressions).
type Range struct {
	Start, End int64
	Inclusive  bool
}

func (v *Range) Kind() Kind { return KindRange }
func (v *Range) String() string {
	op := ".."
	if v.Inclusive {
		op = "..="
	}
	return fmt.Sprintf("%d%s%d", v.Start, op, v.End)
}
func (v *Range) Inspect() string { return v.String() }

// Struct is a named-struct instance. Fields holds both named-field and
// tuple-field ('0', '1', ...) structs, matching go-mix's single
// GoMixObjectInstance shape for both.
type Struct struct {
	TypeName string
	Fields   map[string]Value
	Order    []string
}

func (v *Struct) Kind() Kind { return KindStruct }
func (v *Struct) String() string {
	parts := make([]string, len(v.Order))
	for i, name := range v.Order {
		parts[i] = fmt.Sprintf("%s: %s", name, v.Fields[name].String())
	}
	return fmt.Sprintf("%s { %s }", v.TypeName, strings.Join(parts, ", "))
}
func (v *Struct) Inspect() string { return v.String() }

// Enum is an enum-variant instance, covering unit/tuple/struct variants.
type Enum struct {
	TypeName     string
	Variant      string
	TupleElems   []Value
	StructFields map[string]Value
	FieldOrder   []string
}

func (v *Enum) Kind() Kind { return KindEnum }
func (v *Enum) String() string {
	switch {
	case len(v.TupleElems) > 0:
		parts := make([]string, len(v.TupleElems))
		for i, e := range v.TupleElems {
			parts[i] = e.String()
		}
		return fmt.Sprintf("%s::%s(%s)", v.TypeName, v.Variant, strings.Join(parts, ", "))
	case len(v.FieldOrder) > 0:
		parts := make([]string, len(v.FieldOrder))
		for i, name := range v.FieldOrder {
			parts[i] = fmt.Sprintf("%s: %s", name, v.StructFields[name].String())
		}
		return fmt.Sprintf("%s::%s { %s }", v.TypeName, v.Variant, strings.Join(parts, ", "))
	default:
		return fmt.Sprintf("%s::%s", v.TypeName, v.Variant)
	}
}
func (v *Enum) Inspect() string { return v.String() }

// Closure is a user-defined function or lambda value; it captures its
// defining Frame by reference, matching function.Function.Scp. Frame is
// kept as interface{} here (rather than importing internal/interp/frame)
// to avoid a frame<->value import cycle: the interpreter type-asserts it
// back to *frame.Frame at call sites.
type Closure struct {
	Name    string
	Params  []string
	Body    interface{} // *ast.Block or ast.Expr
	IsBlock bool
	Frame   interface{} // *frame.Frame
	Move    bool
}

func (v *Closure) Kind() Kind { return KindClosure }
func (v *Closure) String() string {
	if v.Name != "" {
		return fmt.Sprintf("<fn %s>", v.Name)
	}
	return "<closure>"
}
func (v *Closure) Inspect() string { return v.String() }

// BuiltinFunc is the signature every native builtin implements.
type BuiltinFunc func(rt Runtime, args []Value) (Value, error)

// Runtime is the callback surface builtins need into the interpreter,
// matching go-mix's std.Runtime interface (CallFunction/GetInputReader)
// generalized to Ruchy's richer call shape.
type Runtime interface {
	Call(fn Value, args []Value) (Value, error)
	Stdout() interface {
		Write(p []byte) (n int, err error)
	}
	Stdin() interface {
		Read(p []byte) (n int, err error)
	}
}

// Builtin wraps a native function as a callable Value, the same role
// go-mix's std.Builtin plays, callable as a first-class value rather
// than looked up by name only (so it can be passed to `.map`/`.filter`).
type Builtin struct {
	Name string
	Fn   BuiltinFunc
}

func (v *Builtin) Kind() Kind      { return KindBuiltin }
func (v *Builtin) String() string  { return fmt.Sprintf("<builtin %s>", v.Name) }
func (v *Builtin) Inspect() string { return v.String() }

// Tabular is the runtime value behind the tabular literal: a row-store
// of `map[string]Value`, rendered CSV-ish for printing.
type Tabular struct {
	Columns []string
	Rows    []map[string]Value
}

func (v *Tabular) Kind() Kind { return KindTabular }
func (v *Tabular) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(v.Columns, ","))
	for _, row := range v.Rows {
		sb.WriteString("\n")
		parts := make([]string, len(v.Columns))
		for i, col := range v.Columns {
			if val, ok := row[col]; ok {
				parts[i] = val.String()
			}
		}
		sb.WriteString(strings.Join(parts, ","))
	}
	return sb.String()
}
func (v *Tabular) Inspect() string { return v.String() }

// Return/BreakSignal/ContinueSignal wrap a value to signal non-local
// control flow through ordinary evaluation, matching go-mix's
// ReturnValue/Break/Continue objects: the evaluator checks for these at
// each block/loop/function boundary instead of using a separate control
// channel.
type Return struct{ Value Value }

func (v *Return) Kind() Kind      { return v.Value.Kind() }
func (v *Return) String() string  { return v.Value.String() }
func (v *Return) Inspect() string { return v.Value.Inspect() }

type BreakSignal struct {
	Value Value
	Label string
}

func (v *BreakSignal) Kind() Kind      { return KindUnit }
func (v *BreakSignal) String() string  { return "break" }
func (v *BreakSignal) Inspect() string { return "<break>" }

type ContinueSignal struct{ Label string }

func (v *ContinueSignal) Kind() Kind      { return KindUnit }
func (v *ContinueSignal) String() string  { return "continue" }
func (v *ContinueSignal) Inspect() string { return "<continue>" }

// Truthy reports whether a value counts as true in a boolean context
// (conditions, `&&`/`||` short-circuiting, `while` guards).
func Truthy(v Value) bool {
	switch t := v.(type) {
	case *Bool:
		return t.Value
	case *Unit:
		return false
	default:
		return true
	}
}

// Equal implements Ruchy's `==` for every value kind by structural
// comparison, matching go-mix's string-keyed Map/Set equality-by-
// rendering trick for collections and doing field-wise comparison for
// structs/enums.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Int:
		return x.Value == b.(*Int).Value
	case *Float:
		return x.Value == b.(*Float).Value
	case *Str:
		return x.Value == b.(*Str).Value
	case *Char:
		return x.Value == b.(*Char).Value
	case *Bool:
		return x.Value == b.(*Bool).Value
	case *Unit:
		return true
	case *List:
		y := b.(*List)
		if len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *Tuple:
		y := b.(*Tuple)
		if len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *Struct:
		y := b.(*Struct)
		if x.TypeName != y.TypeName {
			return false
		}
		for k, fv := range x.Fields {
			yv, ok := y.Fields[k]
			if !ok || !Equal(fv, yv) {
				return false
			}
		}
		return true
	case *Enum:
		y := b.(*Enum)
		return x.String() == y.String()
	default:
		return a.String() == b.String()
	}
}

// Clone performs a value-semantics deep copy of lists, tuples and
// structs, whatever their field types; every other value is returned
// as is.
func Clone(v Value) Value {
	switch t := v.(type) {
	case *List:
		elems := make([]Value, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = Clone(e)
		}
		return &List{Elems: elems}
	case *Tuple:
		elems := make([]Value, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = Clone(e)
		}
		return &Tuple{Elems: elems}
	case *Struct:
		fields := make(map[string]Value, len(t.Fields))
		for k, fv := range t.Fields {
			fields[k] = Clone(fv)
		}
		order := append([]string(nil), t.Order...)
		return &Struct{TypeName: t.TypeName, Fields: fields, Order: order}
	default:
		return v
	}
}
