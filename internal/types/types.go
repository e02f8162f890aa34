/*
File    : ruchy/internal/types/types.go
*/

// Package types implements Ruchy's bidirectional, Hindley-Milner-style
// checker (spec.md §4.4): union-find unification with an occurs check,
// level-based generalization at `let` boundaries, and instantiation of
// generalized schemes at each reference. go-mix has no static type system
// at all (it is dynamically typed end to end), so this package has no
// direct teacher ancestor; it follows the same "small, explicit, testable
// unit" structure the teacher uses everywhere else (one focused file per
// concern, plain structs over interfaces-with-many-implementations) rather
// than copying any single file.
package types

import "fmt"

// Type is the union of all type representations: type variables,
// constructors (primitives and applied generics), tuples, and functions.
type Type interface {
	isType()
}

// Var is a unification variable. Link is non-nil once unified; Level
// records the let-nesting depth at which it was introduced, used by
// generalization to decide which variables are still "owned" by an
// enclosing scope and therefore must stay monomorphic there.
type Var struct {
	ID    int
	Level int
	Link  Type // nil until bound
}

func (*Var) isType() {}

// Con is a named type constructor applied to zero or more argument
// types: `i64`, `bool`, `Vec<T>`, `HashMap<K, V>`, user struct/enum names.
type Con struct {
	Name string
	Args []Type
}

func (*Con) isType() {}

// Tuple is a fixed-arity product type.
type Tuple struct {
	Elems []Type
}

func (*Tuple) isType() {}

// Func is a function type.
type Func struct {
	Params []Type
	Return Type
}

func (*Func) isType() {}

// Scheme is a universally quantified type: `forall Vars. Body`.
type Scheme struct {
	Vars []*Var
	Body Type
}

// Built-in primitive constructors, interned once so equality checks on
// monomorphic primitives can compare names directly.
var (
	I32    = &Con{Name: "i32"}
	I64    = &Con{Name: "i64"}
	F64    = &Con{Name: "f64"}
	Bool   = &Con{Name: "bool"}
	Char   = &Con{Name: "char"}
	Str    = &Con{Name: "String"}
	StrRef = &Con{Name: "&str"}
	Unit   = &Con{Name: "unit"}
)

func Vec(elem Type) *Con        { return &Con{Name: "Vec", Args: []Type{elem}} }
func HashMap(k, v Type) *Con    { return &Con{Name: "HashMap", Args: []Type{k, v}} }
func HashSet(elem Type) *Con    { return &Con{Name: "HashSet", Args: []Type{elem}} }
func ResultT(ok, err Type) *Con { return &Con{Name: "Result", Args: []Type{ok, err}} }
func OptionT(some Type) *Con    { return &Con{Name: "Option", Args: []Type{some}} }

// resolve follows a Var's Link chain to the representative type,
// performing path compression as it goes (union-find "find").
func resolve(t Type) Type {
	v, ok := t.(*Var)
	if !ok || v.Link == nil {
		return t
	}
	root := resolve(v.Link)
	v.Link = root
	return root
}

// Engine owns the fresh-variable counter and current let-nesting level
// for one checking session, mirroring the per-compilation-unit state a
// real HM checker threads through every call.
type Engine struct {
	nextVar int
	level   int
}

// NewEngine creates a checking engine at level 0.
func NewEngine() *Engine { return &Engine{} }

// Fresh allocates a new unbound type variable at the engine's current
// level.
func (e *Engine) Fresh() *Var {
	e.nextVar++
	return &Var{ID: e.nextVar, Level: e.level}
}

// EnterLet increments the level for the duration of checking a `let`
// binding's initializer, so any variable it introduces is tagged with a
// deeper level than the enclosing scope (spec.md §4.4 "Generalization").
func (e *Engine) EnterLet() { e.level++ }

// ExitLet restores the level after a `let` binding's initializer and
// body have been checked.
func (e *Engine) ExitLet() { e.level-- }

// Unify unifies a and b in place via union-find, returning a unification
// diagnostic on mismatch. This is first-order syntactic unification; there
// is no subtyping (spec.md §4.4).
func (e *Engine) Unify(a, b Type) error {
	a, b = resolve(a), resolve(b)
	if a == b {
		return nil
	}
	if av, ok := a.(*Var); ok {
		return e.bind(av, b)
	}
	if bv, ok := b.(*Var); ok {
		return e.bind(bv, a)
	}
	switch at := a.(type) {
	case *Con:
		bt, ok := b.(*Con)
		if !ok || at.Name != bt.Name || len(at.Args) != len(bt.Args) {
			return fmt.Errorf("cannot unify %s with %s", Show(a), Show(b))
		}
		for i := range at.Args {
			if err := e.Unify(at.Args[i], bt.Args[i]); err != nil {
				return err
			}
		}
		return nil
	case *Tuple:
		bt, ok := b.(*Tuple)
		if !ok || len(at.Elems) != len(bt.Elems) {
			return fmt.Errorf("cannot unify tuple %s with %s", Show(a), Show(b))
		}
		for i := range at.Elems {
			if err := e.Unify(at.Elems[i], bt.Elems[i]); err != nil {
				return err
			}
		}
		return nil
	case *Func:
		bt, ok := b.(*Func)
		if !ok || len(at.Params) != len(bt.Params) {
			return fmt.Errorf("cannot unify function %s with %s", Show(a), Show(b))
		}
		for i := range at.Params {
			if err := e.Unify(at.Params[i], bt.Params[i]); err != nil {
				return err
			}
		}
		return e.Unify(at.Return, bt.Return)
	}
	return fmt.Errorf("cannot unify %s with %s", Show(a), Show(b))
}

// bind links v to t after an occurs check, preventing the infinite types
// the occurs check exists to rule out (spec.md §4.4, §8.6).
func (e *Engine) bind(v *Var, t Type) error {
	if occurs(v, t) {
		return fmt.Errorf("occurs check failed: %s occurs in %s", Show(v), Show(t))
	}
	v.Link = t
	return nil
}

func occurs(v *Var, t Type) bool {
	t = resolve(t)
	switch tt := t.(type) {
	case *Var:
		return tt == v
	case *Con:
		for _, a := range tt.Args {
			if occurs(v, a) {
				return true
			}
		}
	case *Tuple:
		for _, el := range tt.Elems {
			if occurs(v, el) {
				return true
			}
		}
	case *Func:
		for _, p := range tt.Params {
			if occurs(v, p) {
				return true
			}
		}
		return occurs(v, tt.Return)
	}
	return false
}

// Generalize turns t into a scheme, quantifying over every free
// variable whose Level is deeper than the current level — i.e.
// variables owned by the `let` binding being generalized, not by an
// enclosing scope (spec.md §4.4).
func (e *Engine) Generalize(t Type) *Scheme {
	seen := map[*Var]bool{}
	var vars []*Var
	var walk func(Type)
	walk = func(ty Type) {
		ty = resolve(ty)
		switch v := ty.(type) {
		case *Var:
			if v.Level > e.level && !seen[v] {
				seen[v] = true
				vars = append(vars, v)
			}
		case *Con:
			for _, a := range v.Args {
				walk(a)
			}
		case *Tuple:
			for _, el := range v.Elems {
				walk(el)
			}
		case *Func:
			for _, p := range v.Params {
				walk(p)
			}
			walk(v.Return)
		}
	}
	walk(t)
	return &Scheme{Vars: vars, Body: t}
}

// Instantiate replaces a scheme's quantified variables with fresh ones,
// performed at every identifier reference (spec.md §4.4).
func (e *Engine) Instantiate(s *Scheme) Type {
	if len(s.Vars) == 0 {
		return s.Body
	}
	sub := make(map[*Var]Type, len(s.Vars))
	for _, v := range s.Vars {
		sub[v] = e.Fresh()
	}
	var subst func(Type) Type
	subst = func(t Type) Type {
		t = resolve(t)
		switch tt := t.(type) {
		case *Var:
			if r, ok := sub[tt]; ok {
				return r
			}
			return tt
		case *Con:
			args := make([]Type, len(tt.Args))
			for i, a := range tt.Args {
				args[i] = subst(a)
			}
			return &Con{Name: tt.Name, Args: args}
		case *Tuple:
			elems := make([]Type, len(tt.Elems))
			for i, el := range tt.Elems {
				elems[i] = subst(el)
			}
			return &Tuple{Elems: elems}
		case *Func:
			params := make([]Type, len(tt.Params))
			for i, p := range tt.Params {
				params[i] = subst(p)
			}
			return &Func{Params: params, Return: subst(tt.Return)}
		}
		return t
	}
	return subst(s.Body)
}

// Show renders a type for diagnostics.
func Show(t Type) string {
	t = resolve(t)
	switch tt := t.(type) {
	case *Var:
		return fmt.Sprintf("t%d", tt.ID)
	case *Con:
		if len(tt.Args) == 0 {
			return tt.Name
		}
		s := tt.Name + "<"
		for i, a := range tt.Args {
			if i > 0 {
				s += ", "
			}
			s += Show(a)
		}
		return s + ">"
	case *Tuple:
		s := "("
		for i, el := range tt.Elems {
			if i > 0 {
				s += ", "
			}
			s += Show(el)
		}
		return s + ")"
	case *Func:
		s := "fun("
		for i, p := range tt.Params {
			if i > 0 {
				s += ", "
			}
			s += Show(p)
		}
		return s + ") -> " + Show(tt.Return)
	}
	return "?"
}
