/*
File    : ruchy/internal/ast/type.go
*/

package ast

// PrimitiveType covers the built-in scalar/string types: i32, i64, f64,
// bool, char, String, &str, unit.
type PrimitiveType struct {
	Base
	Name string
}

// NamedType is a possibly-namespaced type reference with optional
// generic arguments, e.g. `std::option::Option<i64>`. The parser
// preserves the full path so the transpiler can emit it verbatim
// (spec.md §4.2 "Namespaced type syntax").
type NamedType struct {
	Base
	Path []string
	Args []TypeExpr
}

type TupleType struct {
	Base
	Elems []TypeExpr
}

type FuncType struct {
	Base
	Params []TypeExpr
	Return TypeExpr // nil if the arrow is omitted
}

type RefType struct {
	Base
	Mutable bool
	Inner   TypeExpr
}

type ArrayType struct {
	Base
	Elem TypeExpr
}

type MapTypeExpr struct {
	Base
	Key   TypeExpr
	Value TypeExpr
}

type SetTypeExpr struct {
	Base
	Elem TypeExpr
}

func (PrimitiveType) typeNode() {}
func (NamedType) typeNode()     {}
func (TupleType) typeNode()     {}
func (FuncType) typeNode()      {}
func (RefType) typeNode()       {}
func (ArrayType) typeNode()     {}
func (MapTypeExpr) typeNode()   {}
func (SetTypeExpr) typeNode()   {}
