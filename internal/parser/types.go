/*
File    : ruchy/internal/parser/types.go
*/

package parser

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/source"
	"github.com/ruchy-lang/ruchy/internal/token"
)

var primitiveTypeNames = map[string]bool{
	"i32": true, "i64": true, "f64": true, "bool": true, "char": true,
	"String": true, "str": true, "unit": true, "usize": true, "isize": true,
}

// parseType parses one type expression: primitives, namespaced named
// types with generics, tuples, function types, references, arrays,
// maps and sets (spec.md §3 "Types").
func (p *Parser) parseType() ast.TypeExpr {
	start := p.cur.Span
	switch p.cur.Kind {
	case token.AMP:
		p.advance()
		mut := false
		if p.curIs(token.MUT) {
			mut = true
			p.advance()
		}
		inner := p.parseType()
		return &ast.RefType{Base: ast.NewBase(p.span(start)), Mutable: mut, Inner: inner}
	case token.LPAREN:
		p.advance()
		if p.curIs(token.RPAREN) {
			p.advance()
			return &ast.PrimitiveType{Base: ast.NewBase(p.span(start)), Name: "unit"}
		}
		var elems []ast.TypeExpr
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			elems = append(elems, p.parseType())
			if p.curIs(token.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(token.RPAREN)
		if len(elems) == 1 {
			return elems[0]
		}
		return &ast.TupleType{Base: ast.NewBase(p.span(start)), Elems: elems}
	case token.LBRACKET:
		p.advance()
		elem := p.parseType()
		p.expect(token.RBRACKET)
		return &ast.ArrayType{Base: ast.NewBase(p.span(start)), Elem: elem}
	case token.FUN:
		return p.parseFuncType(start)
	case token.IDENT:
		return p.parseNamedOrBuiltinType(start)
	default:
		p.advance()
		return &ast.PrimitiveType{Base: ast.NewBase(p.span(start)), Name: "unit"}
	}
}

func (p *Parser) parseFuncType(start source.Span) ast.TypeExpr {
	p.advance() // consume fun
	p.expect(token.LPAREN)
	var params []ast.TypeExpr
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		params = append(params, p.parseType())
		if p.curIs(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	var ret ast.TypeExpr
	if p.curIs(token.ARROW) {
		p.advance()
		ret = p.parseType()
	}
	return &ast.FuncType{Base: ast.NewBase(p.span(start)), Params: params, Return: ret}
}

// parseNamedOrBuiltinType reads a possibly-namespaced identifier path
// with optional `<...>` generic arguments, recognizing the built-in
// `Vec<T>`/`HashMap<K,V>`/`HashSet<T>` spellings as Array/Map/Set sugar
// so the transpiler's collection-type rules (spec.md §4.5) have a
// single representation to work from.
func (p *Parser) parseNamedOrBuiltinType(start source.Span) ast.TypeExpr {
	first := p.cur.Literal
	p.advance()
	if primitiveTypeNames[first] && !p.curIs(token.COLON_COLON) && !p.curIs(token.LT) {
		return &ast.PrimitiveType{Base: ast.NewBase(p.span(start)), Name: first}
	}
	path := []string{first}
	for p.curIs(token.COLON_COLON) {
		p.advance()
		path = append(path, p.cur.Literal)
		p.advance()
	}
	var args []ast.TypeExpr
	if p.curIs(token.LT) {
		p.advance()
		for !p.curIs(token.GT) && !p.curIs(token.EOF) {
			args = append(args, p.parseType())
			if p.curIs(token.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(token.GT)
	}
	last := path[len(path)-1]
	switch last {
	case "Vec":
		if len(args) == 1 {
			return &ast.ArrayType{Base: ast.NewBase(p.span(start)), Elem: args[0]}
		}
	case "HashMap":
		if len(args) == 2 {
			return &ast.MapTypeExpr{Base: ast.NewBase(p.span(start)), Key: args[0], Value: args[1]}
		}
	case "HashSet":
		if len(args) == 1 {
			return &ast.SetTypeExpr{Base: ast.NewBase(p.span(start)), Elem: args[0]}
		}
	}
	return &ast.NamedType{Base: ast.NewBase(p.span(start)), Path: path, Args: args}
}
