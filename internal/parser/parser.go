/*
File    : ruchy/internal/parser/parser.go
*/

// Package parser implements Ruchy's parser: a Pratt/precedence-climbing
// expression parser combined with recursive descent for declarations and
// statements, following the same split go-mix's parser package uses
// (parser_precedence.go's binding-power table + parser_expressions.go's
// unary/binary dispatch maps, parser_statements.go/parser_functions.go's
// recursive descent for declarations). Parse errors are collected rather
// than panicking (spec.md §4.2, §8.2): on an expression-level error the
// parser attaches a diagnostic and synchronizes to the next statement
// boundary before continuing.
package parser

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/lexer"
	"github.com/ruchy-lang/ruchy/internal/source"
	"github.com/ruchy-lang/ruchy/internal/token"
)

// Precedence levels, low to high, matching spec.md §4.2's ordering:
// assignment; range; logical ||; logical &&; comparison; bitwise |,^,&;
// shifts; additive; multiplicative; unary prefix; postfix (?, ., [], call).
const (
	precLowest = iota
	precAssign
	precRange
	precOr
	precAnd
	precEquality
	precRelational
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
)

var binaryPrecedence = map[token.Kind]int{
	token.EQ: precAssign, token.PLUS_EQ: precAssign, token.MINUS_EQ: precAssign,
	token.STAR_EQ: precAssign, token.SLASH_EQ: precAssign, token.PERCENT_EQ: precAssign,
	token.AMP_EQ: precAssign, token.PIPE_EQ: precAssign, token.CARET_EQ: precAssign,
	token.SHL_EQ: precAssign, token.SHR_EQ: precAssign,

	token.DOT_DOT: precRange, token.DOT_DOT_EQ: precRange,

	token.OR_OR: precOr,
	token.AND_AND: precAnd,

	token.PIPE:  precBitOr,
	token.CARET: precBitXor,
	token.AMP:   precBitAnd,

	token.EQ_EQ: precEquality, token.BANG_EQ: precEquality,

	token.LT: precRelational, token.GT: precRelational,
	token.LT_EQ: precRelational, token.GT_EQ: precRelational,

	token.SHL: precShift, token.SHR: precShift,

	token.PLUS: precAdditive, token.MINUS: precAdditive,

	token.STAR: precMultiplicative, token.SLASH: precMultiplicative, token.PERCENT: precMultiplicative,

	token.DOT: precPostfix, token.LPAREN: precPostfix, token.LBRACKET: precPostfix,
	token.QUESTION: precPostfix, token.COLON_COLON: precPostfix,
}

var assignOps = map[token.Kind]bool{
	token.EQ: true, token.PLUS_EQ: true, token.MINUS_EQ: true, token.STAR_EQ: true,
	token.SLASH_EQ: true, token.PERCENT_EQ: true, token.AMP_EQ: true, token.PIPE_EQ: true,
	token.CARET_EQ: true, token.SHL_EQ: true, token.SHR_EQ: true,
}

// Parser holds all mutable state needed to turn one file's token stream
// into a Module: the lexer, a one-token lookahead, and an error
// collector, following go-mix's Parser struct (Lex/CurrToken/NextToken/
// Errors) generalized to Ruchy's richer grammar.
type Parser struct {
	file source.FileID
	lex  *lexer.Lexer

	cur  token.Token
	peek token.Token

	Diags *diag.Collector
}

// New creates a parser over src, tagged with its FileID.
func New(file source.FileID, src string) *Parser {
	p := &Parser{file: file, lex: lexer.New(file, src), Diags: diag.NewCollector()}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

func (p *Parser) span(start source.Span) source.Span {
	return source.Span{File: start.File, Start: start.Start, End: p.cur.Span.End}
}

// expect consumes the current token if it matches k, or records an
// unexpected-token diagnostic and synchronizes.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.cur.Kind != k {
		p.Diags.Addf(diag.KindUnexpectedToken, p.cur.Span, "expected %q, found %q (%q)", k, p.cur.Kind, p.cur.Literal)
		return p.cur
	}
	t := p.cur
	p.advance()
	return t
}

// synchronize discards tokens until a statement boundary is reached
// (`;`, `}`, or a top-level keyword), per spec.md §4.2's recovery rule.
func (p *Parser) synchronize() {
	for !p.curIs(token.EOF) {
		if p.curIs(token.SEMI) {
			p.advance()
			return
		}
		if p.curIs(token.RBRACE) {
			return
		}
		switch p.cur.Kind {
		case token.FUN, token.STRUCT, token.ENUM, token.IMPL, token.TRAIT,
			token.USE, token.MOD, token.LET:
			return
		}
		p.advance()
	}
}

// ParseModule parses the entire token stream into a Module: a flat
// sequence of declarations plus any free top-level expressions, which
// the transpiler later synthesizes into `fn main()` (spec.md §4.5.1).
func (p *Parser) ParseModule() *ast.Module {
	start := p.cur.Span
	mod := &ast.Module{Base: ast.NewBase(start)}
	for !p.curIs(token.EOF) {
		if p.startsDecl() {
			if d := p.parseDecl(); d != nil {
				mod.Decls = append(mod.Decls, d)
			}
			continue
		}
		before := p.cur.Span
		e := p.parseExprStatement()
		if e != nil {
			mod.TopLevelStmts = append(mod.TopLevelStmts, e)
		}
		if p.cur.Span == before && !p.curIs(token.EOF) {
			// A token no statement can start with (a stray `}`) is
			// skipped so the loop always makes progress.
			p.advance()
		}
	}
	mod.Sp = p.span(start)
	return mod
}

func (p *Parser) startsDecl() bool {
	switch p.cur.Kind {
	case token.PUB, token.FUN, token.STRUCT, token.ENUM, token.IMPL, token.TRAIT, token.USE, token.MOD, token.ASYNC:
		return true
	}
	return false
}

// parseExprStatement parses one top-level free expression, consuming a
// trailing `;` if present, and synchronizing on error.
func (p *Parser) parseExprStatement() ast.Expr {
	e := p.parseExpr(precLowest)
	if p.curIs(token.SEMI) {
		p.advance()
	}
	return e
}
