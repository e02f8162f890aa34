/*
File    : ruchy/internal/parser/decl.go
*/

package parser

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/source"
	"github.com/ruchy-lang/ruchy/internal/token"
)

// parseDecl parses one top-level or nested declaration: fun, struct,
// enum, impl, trait, use, or mod, with an optional leading `pub`.
func (p *Parser) parseDecl() ast.Decl {
	start := p.cur.Span
	pub := false
	if p.curIs(token.PUB) {
		pub = true
		p.advance()
	}
	switch p.cur.Kind {
	case token.FUN, token.ASYNC:
		return p.parseFunDecl(start, pub)
	case token.STRUCT:
		return p.parseStructDecl(start, pub)
	case token.ENUM:
		return p.parseEnumDecl(start, pub)
	case token.IMPL:
		return p.parseImplDecl(start)
	case token.TRAIT:
		return p.parseTraitDecl(start, pub)
	case token.USE:
		return p.parseUseDecl(start, pub)
	case token.MOD:
		return p.parseModDecl(start, pub)
	default:
		p.synchronize()
		return nil
	}
}

func (p *Parser) parseParams() []ast.Param {
	p.expect(token.LPAREN)
	var params []ast.Param
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		pat := p.parsePattern()
		var ty ast.TypeExpr
		if p.curIs(token.COLON) {
			p.advance()
			ty = p.parseType()
		}
		params = append(params, ast.Param{Pattern: pat, TypeAnn: ty})
		if p.curIs(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseFunDecl(start source.Span, pub bool) *ast.FunDecl {
	async := false
	if p.curIs(token.ASYNC) {
		async = true
		p.advance()
	}
	p.expect(token.FUN)
	name := p.expect(token.IDENT).Literal
	params := p.parseParams()
	var ret ast.TypeExpr
	if p.curIs(token.ARROW) {
		p.advance()
		ret = p.parseType()
	}
	body := p.parseBlock()
	return &ast.FunDecl{
		Base: ast.NewBase(p.span(start)), Name: name, Params: params,
		ReturnType: ret, Body: body, Pub: pub, Async: async,
	}
}

func (p *Parser) parseStructDecl(start source.Span, pub bool) *ast.StructDecl {
	p.expect(token.STRUCT)
	name := p.expect(token.IDENT).Literal
	sd := &ast.StructDecl{Base: ast.NewBase(start), Name: name, Pub: pub}
	switch {
	case p.curIs(token.LPAREN):
		p.advance()
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			sd.TupleFields = append(sd.TupleFields, p.parseType())
			if p.curIs(token.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(token.RPAREN)
		if p.curIs(token.SEMI) {
			p.advance()
		}
	case p.curIs(token.LBRACE):
		p.advance()
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			fpub := false
			if p.curIs(token.PUB) {
				fpub = true
				p.advance()
			}
			_ = fpub
			fname := p.cur.Literal
			p.advance()
			p.expect(token.COLON)
			fty := p.parseType()
			sd.Fields = append(sd.Fields, ast.Field{Name: fname, TypeAnn: fty})
			if p.curIs(token.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(token.RBRACE)
	default:
		if p.curIs(token.SEMI) {
			p.advance()
		}
	}
	sd.Sp = p.span(start)
	return sd
}

func (p *Parser) parseEnumDecl(start source.Span, pub bool) *ast.EnumDecl {
	p.expect(token.ENUM)
	name := p.expect(token.IDENT).Literal
	p.expect(token.LBRACE)
	ed := &ast.EnumDecl{Base: ast.NewBase(start), Name: name, Pub: pub}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		vname := p.expect(token.IDENT).Literal
		variant := ast.EnumVariant{Name: vname}
		if p.curIs(token.LPAREN) {
			p.advance()
			for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
				variant.TupleFields = append(variant.TupleFields, p.parseType())
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
				fname := p.cur.Literal
				p.advance()
				p.expect(token.COLON)
				fty := p.parseType()
				variant.StructFields = append(variant.StructFields, ast.Field{Name: fname, TypeAnn: fty})
				if p.curIs(token.COMMA) {
					p.advance()
				} else {
					break
				}
			}
			p.expect(token.RBRACE)
		}
		ed.Variants = append(ed.Variants, variant)
		if p.curIs(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(token.RBRACE)
	ed.Sp = p.span(start)
	return ed
}

func (p *Parser) parseImplDecl(start source.Span) *ast.ImplDecl {
	p.expect(token.IMPL)
	first := p.parseType()
	id := &ast.ImplDecl{Base: ast.NewBase(start)}
	if p.curIs(token.FOR) {
		p.advance()
		target := p.parseType()
		if nt, ok := first.(*ast.NamedType); ok {
			id.TraitName = nt.Path[len(nt.Path)-1]
		}
		id.TargetType = target
	} else {
		id.TargetType = first
	}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		mstart := p.cur.Span
		pub := false
		if p.curIs(token.PUB) {
			pub = true
			p.advance()
		}
		id.Methods = append(id.Methods, p.parseFunDecl(mstart, pub))
	}
	p.expect(token.RBRACE)
	id.Sp = p.span(start)
	return id
}

func (p *Parser) parseTraitDecl(start source.Span, pub bool) *ast.TraitDecl {
	p.expect(token.TRAIT)
	name := p.expect(token.IDENT).Literal
	td := &ast.TraitDecl{Base: ast.NewBase(start), Name: name, Pub: pub}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		p.expect(token.FUN)
		mname := p.expect(token.IDENT).Literal
		params := p.parseParams()
		var ret ast.TypeExpr
		if p.curIs(token.ARROW) {
			p.advance()
			ret = p.parseType()
		}
		tm := ast.TraitMethod{Name: mname, Params: params, ReturnType: ret}
		if p.curIs(token.LBRACE) {
			tm.Default = p.parseBlock()
		} else if p.curIs(token.SEMI) {
			p.advance()
		}
		td.Methods = append(td.Methods, tm)
	}
	p.expect(token.RBRACE)
	td.Sp = p.span(start)
	return td
}

// parseUseDecl parses `use path::to::{a, b as c, *};` including the
// `pub(in path)` visibility-restriction spelling (spec.md §9 open
// question — resolved to "treat pub(in path) as plain pub with the
// restriction recorded but not enforced", see the design ledger).
func (p *Parser) parseUseDecl(start source.Span, pub bool) *ast.UseDecl {
	p.expect(token.USE)
	ud := &ast.UseDecl{Base: ast.NewBase(start), Pub: pub}
	if pub && p.curIs(token.LPAREN) {
		p.advance()
		p.expect(token.IN)
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			ud.PubInPath = append(ud.PubInPath, p.cur.Literal)
			p.advance()
			if p.curIs(token.COLON_COLON) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(token.RPAREN)
	}
	ud.Path = p.parseUsePath()
	if p.curIs(token.SEMI) {
		p.advance()
	}
	ud.Sp = p.span(start)
	return ud
}

func (p *Parser) parseUsePath() ast.UsePath {
	var up ast.UsePath
	for {
		if p.curIs(token.STAR) {
			p.advance()
			up.Wildcard = true
			break
		}
		if p.curIs(token.LBRACE) {
			p.advance()
			for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
				up.Group = append(up.Group, p.parseUsePath())
				if p.curIs(token.COMMA) {
					p.advance()
				} else {
					break
				}
			}
			p.expect(token.RBRACE)
			break
		}
		seg := p.cur.Literal
		if seg == "" {
			seg = string(p.cur.Kind)
		}
		up.Segments = append(up.Segments, seg)
		p.advance()
		if p.curIs(token.AS) {
			p.advance()
			up.Alias = p.cur.Literal
			p.advance()
			break
		}
		if p.curIs(token.COLON_COLON) {
			p.advance()
			continue
		}
		break
	}
	return up
}

func (p *Parser) parseModDecl(start source.Span, pub bool) *ast.ModDecl {
	p.expect(token.MOD)
	name := p.expect(token.IDENT).Literal
	md := &ast.ModDecl{Base: ast.NewBase(start), Name: name, Pub: pub}
	if p.curIs(token.LBRACE) {
		p.advance()
		inner := &ast.Module{Base: ast.NewBase(p.cur.Span)}
		for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			if p.startsDecl() {
				if d := p.parseDecl(); d != nil {
					inner.Decls = append(inner.Decls, d)
				}
				continue
			}
			inner.TopLevelStmts = append(inner.TopLevelStmts, p.parseExprStatement())
		}
		p.expect(token.RBRACE)
		md.Inline = inner
	} else if p.curIs(token.SEMI) {
		p.advance()
	}
	md.Sp = p.span(start)
	return md
}
