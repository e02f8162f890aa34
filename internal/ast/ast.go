/*
File    : ruchy/internal/ast/ast.go
*/

// Package ast defines Ruchy's immutable expression/declaration tree.
// Every node carries a Span (source.Span) the way go-mix's parser/node.go
// nodes carry a lexer.Token; evaluation and lowering both dispatch on
// node kind with a type switch, exactly as go-mix's Evaluator.Eval does,
// rather than through a full double-dispatch Visitor — a type switch
// over a closed node set is the idiomatic Go rendition of the same
// "one big dispatch table" idea.
package ast

import "github.com/ruchy-lang/ruchy/internal/source"

// Node is implemented by every AST node, expression or declaration.
type Node interface {
	Span() source.Span
}

// Expr is implemented by every expression node (spec.md §3's
// "Expression node" union).
type Expr interface {
	Node
	exprNode()
}

// Decl is implemented by every top-level/nested declaration node
// (spec.md §3's "Declaration node" union).
type Decl interface {
	Node
	declNode()
}

// Pattern is implemented by every pattern-grammar node (spec.md §4.2
// "Pattern grammar").
type Pattern interface {
	Node
	patternNode()
}

// TypeExpr is implemented by every type-syntax node (spec.md §3
// "Types").
type TypeExpr interface {
	Node
	typeNode()
}

// Base is embedded by every concrete node to carry its span. Exported
// (and its field exported) so the parser, which lives in a different
// package, can construct nodes directly: ast.IntLit{Base: ast.Base{Sp:
// span}, ...}.
type Base struct{ Sp source.Span }

func (b Base) Span() source.Span { return b.Sp }

// NewBase is a convenience constructor for Base.
func NewBase(sp source.Span) Base { return Base{Sp: sp} }

// ---------------------------------------------------------------------
// Literals
// ---------------------------------------------------------------------

type IntLit struct {
	Base
	Text  string
	Value int64
}

type FloatLit struct {
	Base
	Text  string
	Value float64
}

type StringLit struct {
	Base
	Value string
}

// FStringSegment is either a literal text run or an embedded expression,
// mirroring token.Segment but holding a parsed Expr once the parser has
// re-entered expression parsing over it (spec.md §4.1/§4.2).
type FStringSegment struct {
	Literal string
	Expr    Expr // nil when this segment is a literal run
}

type FStringLit struct {
	Base
	Segments []FStringSegment
}

type CharLit struct {
	Base
	Value rune
}

type BoolLit struct {
	Base
	Value bool
}

// UnitLit is the `()`/nil literal.
type UnitLit struct{ Base }

type Ident struct {
	Base
	Name string
}

// ---------------------------------------------------------------------
// Collections & comprehensions
// ---------------------------------------------------------------------

type ListLit struct {
	Base
	Elems []Expr
}

type TupleLit struct {
	Base
	Elems []Expr
}

type SetLit struct {
	Base
	Elems []Expr
}

// MapEntry is one `key: value` pair in a mapping literal. Key may itself
// be a keyword used as an identifier-like key (spec.md §9).
type MapEntry struct {
	Key   Expr
	Value Expr
}

type MapLit struct {
	Base
	Entries []MapEntry
}

// Comprehension covers list/set/mapping comprehensions uniformly: for a
// mapping comprehension both KeyElem and Elem are set; for list/set only
// Elem is set.
type Comprehension struct {
	Base
	Kind    ComprehensionKind
	Elem    Expr // list/set element, or mapping value
	KeyElem Expr // mapping key; nil for list/set
	Var     Pattern
	Iter    Expr
	Cond    Expr // optional `if` guard; nil if absent
}

type ComprehensionKind int

const (
	ListComprehension ComprehensionKind = iota
	SetComprehension
	MapComprehension
)

// ---------------------------------------------------------------------
// Operators, calls, access
// ---------------------------------------------------------------------

type BinaryExpr struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

type UnaryExpr struct {
	Base
	Op      string // "-", "!", "&", "&mut"
	Operand Expr
}

type CallExpr struct {
	Base
	Callee Expr
	Args   []Expr
}

type MethodCallExpr struct {
	Base
	Receiver Expr
	Method   string
	Args     []Expr
}

type FieldAccessExpr struct {
	Base
	Receiver Expr
	Field    string
}

type IndexExpr struct {
	Base
	Receiver Expr
	Index    Expr
}

type RangeExpr struct {
	Base
	Start     Expr // nil if open
	End       Expr // nil if open
	Inclusive bool
}

// ReferenceExpr is `&expr` / `&mut expr` used as an addressable operand
// (distinct from UnaryExpr's "&"/"&mut" when used as an explicit
// borrow rather than a binary-vs-unary lex ambiguity resolution).
type ReferenceExpr struct {
	Base
	Mutable bool
	Operand Expr
}

// TryExpr is the `expr?` error-propagation operator.
type TryExpr struct {
	Base
	Operand Expr
}

// MacroExpr covers the small fixed macro set: dbg(expr), println(...),
// print(...), format(...).
type MacroExpr struct {
	Base
	Name string
	Args []Expr
}

// ---------------------------------------------------------------------
// Control flow (all expression-valued per spec.md §4.2)
// ---------------------------------------------------------------------

type Block struct {
	Base
	Stmts []Expr // value is the tail expression, or unit if empty/non-expr tail
}

type IfExpr struct {
	Base
	Cond Expr
	Then *Block
	Else Expr // *Block, *IfExpr, or nil
}

type MatchArm struct {
	Pattern Pattern
	Guard   Expr // optional; nil if absent
	Body    Expr
}

type MatchExpr struct {
	Base
	Subject Expr
	Arms    []MatchArm
}

type WhileExpr struct {
	Base
	Cond Expr
	Body *Block
}

type WhileLetExpr struct {
	Base
	Pattern Pattern
	Subject Expr
	Body    *Block
}

type ForInExpr struct {
	Base
	Pattern Pattern
	Iter    Expr
	Body    *Block
}

type LoopExpr struct {
	Base
	Body *Block
}

type BreakExpr struct {
	Base
	Label string
	Value Expr // optional
}

type ContinueExpr struct {
	Base
	Label string
}

type ReturnExpr struct {
	Base
	Value Expr // optional
}

// ---------------------------------------------------------------------
// Bindings
// ---------------------------------------------------------------------

type LetExpr struct {
	Base
	Pattern Pattern
	Mutable bool
	TypeAnn TypeExpr // optional
	Value   Expr
}

type AssignExpr struct {
	Base
	Op     string // "=", "+=", "-=", ...
	Target Expr
	Value  Expr
}

type Param struct {
	Pattern Pattern
	TypeAnn TypeExpr // optional
}

type ClosureExpr struct {
	Base
	Params     []Param
	ReturnType TypeExpr // optional
	Body       Expr
	Move       bool
}

// exprNode marker methods
func (IntLit) exprNode()         {}
func (FloatLit) exprNode()       {}
func (StringLit) exprNode()      {}
func (FStringLit) exprNode()     {}
func (CharLit) exprNode()        {}
func (BoolLit) exprNode()        {}
func (UnitLit) exprNode()        {}
func (Ident) exprNode()          {}
func (ListLit) exprNode()        {}
func (TupleLit) exprNode()       {}
func (SetLit) exprNode()         {}
func (MapLit) exprNode()         {}
func (Comprehension) exprNode()  {}
func (BinaryExpr) exprNode()     {}
func (UnaryExpr) exprNode()      {}
func (CallExpr) exprNode()       {}
func (MethodCallExpr) exprNode() {}
func (FieldAccessExpr) exprNode() {}
func (IndexExpr) exprNode()      {}
func (RangeExpr) exprNode()      {}
func (ReferenceExpr) exprNode()  {}
func (TryExpr) exprNode()        {}
func (MacroExpr) exprNode()      {}
func (Block) exprNode()          {}
func (IfExpr) exprNode()         {}
func (MatchExpr) exprNode()      {}
func (WhileExpr) exprNode()      {}
func (WhileLetExpr) exprNode()   {}
func (ForInExpr) exprNode()      {}
func (LoopExpr) exprNode()       {}
func (BreakExpr) exprNode()      {}
func (ContinueExpr) exprNode()   {}
func (ReturnExpr) exprNode()     {}
func (LetExpr) exprNode()        {}
func (AssignExpr) exprNode()     {}
func (ClosureExpr) exprNode()    {}
