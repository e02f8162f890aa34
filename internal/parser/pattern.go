/*
File    : ruchy/internal/parser/pattern.go
*/

package parser

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/source"
	"github.com/ruchy-lang/ruchy/internal/token"
)

// parsePattern parses one pattern per spec.md §4.2's pattern grammar:
// literal, identifier (with optional `mut`), wildcard `_`, tuple, list
// (with an optional `..rest`), struct, enum-variant, and range.
func (p *Parser) parsePattern() ast.Pattern {
	start := p.cur.Span
	switch p.cur.Kind {
	case token.IDENT:
		if p.isWildcard() {
			p.advance()
			return &ast.WildcardPattern{Base: ast.NewBase(start)}
		}
		return p.parseIdentOrStructOrEnumPattern(start)
	case token.MUT:
		p.advance()
		name := p.expect(token.IDENT).Literal
		return &ast.IdentPattern{Base: ast.NewBase(p.span(start)), Name: name, Mutable: true}
	case token.LPAREN:
		return p.parseTuplePattern(start)
	case token.LBRACKET:
		return p.parseListPattern(start)
	case token.MINUS, token.INT, token.FLOAT, token.STRING, token.CHAR, token.TRUE, token.FALSE:
		return p.parseLitOrRangePattern(start)
	default:
		p.Diags.Addf(diag.KindUnexpectedToken, p.cur.Span, "unexpected token %q in pattern", p.cur.Literal)
		p.advance()
		return &ast.WildcardPattern{Base: ast.NewBase(start)}
	}
}

func (p *Parser) isWildcard() bool {
	return p.cur.Kind == token.IDENT && p.cur.Literal == "_"
}

// parseIdentOrStructOrEnumPattern disambiguates a bare binding
// (`name`), a struct pattern (`Name { .. }`), and an enum-variant
// pattern (`Name::Variant(...)` or `Name::Variant { .. }` or bare
// `Variant` / `Variant(...)`), all of which start with an identifier.
func (p *Parser) parseIdentOrStructOrEnumPattern(start source.Span) ast.Pattern {
	name := p.cur.Literal
	p.advance()
	if p.curIs(token.COLON_COLON) {
		p.advance()
		variant := p.expect(token.IDENT).Literal
		return p.finishEnumPattern(start, name, variant)
	}
	if p.curIs(token.LBRACE) {
		return p.finishStructPattern(start, name)
	}
	if p.curIs(token.LPAREN) {
		return p.finishEnumPattern(start, "", name)
	}
	return &ast.IdentPattern{Base: ast.NewBase(p.span(start)), Name: name}
}

func (p *Parser) finishStructPattern(start source.Span, typeName string) ast.Pattern {
	p.advance() // consume {
	sp := &ast.StructPattern{Base: ast.NewBase(start), TypeName: typeName}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.DOT_DOT) {
			p.advance()
			sp.HasRest = true
			break
		}
		fieldName := p.cur.Literal
		p.advance()
		var fp ast.Pattern
		if p.curIs(token.COLON) {
			p.advance()
			fp = p.parsePattern()
		}
		sp.Fields = append(sp.Fields, ast.FieldPattern{Name: fieldName, Pattern: fp})
		if p.curIs(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	sp.Sp = p.span(start)
	return sp
}

func (p *Parser) finishEnumPattern(start source.Span, typeName, variant string) ast.Pattern {
	ep := &ast.EnumPattern{Base: ast.NewBase(start), TypeName: typeName, Variant: variant}
	if p.curIs(token.LPAREN) {
		p.advance()
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			ep.TupleElems = append(ep.TupleElems, p.parsePattern())
			if p.curIs(token.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(token.RPAREN)
	} else if p.curIs(token.LBRACE) {
		p.advance()
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			if p.curIs(token.DOT_DOT) {
				p.advance()
				break
			}
			fieldName := p.cur.Literal
			p.advance()
			var fp ast.Pattern
			if p.curIs(token.COLON) {
				p.advance()
				fp = p.parsePattern()
			}
			ep.StructFields = append(ep.StructFields, ast.FieldPattern{Name: fieldName, Pattern: fp})
			if p.curIs(token.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(token.RBRACE)
	}
	ep.Sp = p.span(start)
	return ep
}

func (p *Parser) parseTuplePattern(start source.Span) ast.Pattern {
	p.advance() // consume (
	tp := &ast.TuplePattern{Base: ast.NewBase(start)}
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		tp.Elems = append(tp.Elems, p.parsePattern())
		if p.curIs(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	tp.Sp = p.span(start)
	return tp
}

// parseListPattern parses `[a, b, ..rest]`, tracking the index and
// optional binding name of a `..`/`..name` rest pattern.
func (p *Parser) parseListPattern(start source.Span) ast.Pattern {
	p.advance() // consume [
	lp := &ast.ListPattern{Base: ast.NewBase(start), RestIndex: -1}
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		if p.curIs(token.DOT_DOT) {
			p.advance()
			lp.RestIndex = len(lp.Elems)
			if p.curIs(token.IDENT) {
				lp.RestName = p.cur.Literal
				p.advance()
			}
		} else {
			lp.Elems = append(lp.Elems, p.parsePattern())
		}
		if p.curIs(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACKET)
	lp.Sp = p.span(start)
	return lp
}

// parseLitOrRangePattern parses a literal pattern, or a range pattern
// (`lo..hi` / `lo..=hi`) when a range operator follows the literal.
func (p *Parser) parseLitOrRangePattern(start source.Span) ast.Pattern {
	lit := p.parseExpr(precUnary)
	if p.curIs(token.DOT_DOT) || p.curIs(token.DOT_DOT_EQ) {
		inclusive := p.curIs(token.DOT_DOT_EQ)
		p.advance()
		end := p.parseExpr(precUnary)
		return &ast.RangePattern{Base: ast.NewBase(p.span(start)), Start: lit, End: end, Inclusive: inclusive}
	}
	return &ast.LitPattern{Base: ast.NewBase(p.span(start)), Value: lit}
}
