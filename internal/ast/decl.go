/*
File    : ruchy/internal/ast/decl.go
*/

package ast

// Field is one named field of a struct declaration or struct-pattern/
// struct-literal use site.
type Field struct {
	Name    string
	TypeAnn TypeExpr
}

type FunDecl struct {
	Base
	Name       string
	Params     []Param
	ReturnType TypeExpr // optional
	Body       *Block
	Pub        bool
	Async      bool
}

type StructDecl struct {
	Base
	Name        string
	Fields      []Field
	TupleFields []TypeExpr // set instead of Fields for tuple structs
	Pub         bool
}

type EnumVariant struct {
	Name        string
	TupleFields []TypeExpr // `Variant(T, U)`
	StructFields []Field   // `Variant { a: T }`
}

type EnumDecl struct {
	Base
	Name     string
	Variants []EnumVariant
	Pub      bool
}

type ImplDecl struct {
	Base
	TargetType TypeExpr
	TraitName  string // optional; "" if inherent impl
	Methods    []*FunDecl
}

type TraitMethod struct {
	Name       string
	Params     []Param
	ReturnType TypeExpr
	Default    *Block // optional default body
}

type TraitDecl struct {
	Base
	Name    string
	Methods []TraitMethod
	Pub     bool
}

// UsePath is one segment list of a `use` declaration, possibly with an
// alias, a brace-group of sub-paths, or a trailing wildcard.
type UsePath struct {
	Segments []string // path segments, keywords permitted (spec.md §4.2)
	Alias    string   // "" if none
	Wildcard bool
	Group    []UsePath // non-nil for brace-grouped sub-paths
}

type UseDecl struct {
	Base
	Path        UsePath
	Pub         bool
	PubInPath   []string // non-nil for `pub(in path)`
}

// ModDecl is either `mod name { ... }` (Inline set) or `mod name;`
// (Inline nil, External resolved later by the resolver's module cache).
type ModDecl struct {
	Base
	Name   string
	Inline *Module
	Pub    bool
}

// Module is a parsed file: a flat sequence of declarations.
type Module struct {
	Base
	Decls []Decl
	// TopLevelStmts holds free expressions at module scope, which the
	// transpiler synthesizes into `fn main()` per spec.md §4.5.1 when
	// this module is the program's entry file.
	TopLevelStmts []Expr
}

func (FunDecl) declNode()    {}
func (StructDecl) declNode() {}
func (EnumDecl) declNode()   {}
func (ImplDecl) declNode()   {}
func (TraitDecl) declNode()  {}
func (UseDecl) declNode()    {}
func (ModDecl) declNode()    {}
func (Module) declNode()     {}
