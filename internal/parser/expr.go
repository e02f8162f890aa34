/*
File    : ruchy/internal/parser/expr.go
*/

package parser

import (
	"strconv"
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/source"
	"github.com/ruchy-lang/ruchy/internal/token"
)

// parseExpr is the Pratt loop: parse one prefix expression, then keep
// consuming infix/postfix operators whose precedence exceeds minPrec.
// This mirrors go-mix's parser_expressions.go dispatch except the two
// operator maps (unary/binary) are inlined as switches here, since
// Ruchy's postfix set (call, index, field, method, `?`, `::`) is large
// enough that a single switch reads clearer than two parallel maps.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for {
		prec, ok := binaryPrecedence[p.cur.Kind]
		if !ok || prec < minPrec {
			break
		}
		left = p.parseInfix(left, prec)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expr {
	start := p.cur.Span
	switch p.cur.Kind {
	case token.INT:
		return p.parseIntLit()
	case token.FLOAT:
		return p.parseFloatLit()
	case token.STRING:
		v := p.cur.Literal
		p.advance()
		return &ast.StringLit{Base: ast.NewBase(start), Value: v}
	case token.FSTRING:
		return p.parseFString()
	case token.CHAR:
		r := []rune(p.cur.Literal)
		var v rune
		if len(r) > 0 {
			v = r[0]
		}
		p.advance()
		return &ast.CharLit{Base: ast.NewBase(start), Value: v}
	case token.TRUE, token.FALSE:
		v := p.cur.Kind == token.TRUE
		p.advance()
		return &ast.BoolLit{Base: ast.NewBase(start), Value: v}
	case token.IDENT, token.SELF, token.CRATE, token.SUPER, token.NONEKW:
		return p.parseIdentOrPath(start)
	case token.DBG:
		p.advance()
		p.expect(token.LPAREN)
		arg := p.parseExpr(precLowest)
		p.expect(token.RPAREN)
		return &ast.MacroExpr{Base: ast.NewBase(p.span(start)), Name: "dbg", Args: []ast.Expr{arg}}
	case token.MINUS:
		p.advance()
		operand := p.parseExpr(precUnary)
		return &ast.UnaryExpr{Base: ast.NewBase(p.span(start)), Op: "-", Operand: operand}
	case token.BANG:
		p.advance()
		operand := p.parseExpr(precUnary)
		return &ast.UnaryExpr{Base: ast.NewBase(p.span(start)), Op: "!", Operand: operand}
	case token.AMP:
		p.advance()
		mut := false
		if p.curIs(token.MUT) {
			mut = true
			p.advance()
		}
		operand := p.parseExpr(precUnary)
		return &ast.ReferenceExpr{Base: ast.NewBase(p.span(start)), Mutable: mut, Operand: operand}
	case token.LPAREN:
		return p.parseParenOrTuple(start)
	case token.LBRACKET:
		return p.parseListOrComprehension(start)
	case token.LBRACE:
		return p.parseBlock()
	case token.PIPE, token.OR_OR:
		return p.parseClosure(start, false)
	case token.IF:
		return p.parseIf()
	case token.MATCH:
		return p.parseMatch()
	case token.WHILE:
		return p.parseWhileOrWhileLet()
	case token.FOR:
		return p.parseForIn()
	case token.LOOP:
		return p.parseLoop()
	case token.BREAK:
		return p.parseBreak()
	case token.CONTINUE:
		p.advance()
		return &ast.ContinueExpr{Base: ast.NewBase(p.span(start))}
	case token.RETURN:
		p.advance()
		var val ast.Expr
		if !p.curIs(token.SEMI) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			val = p.parseExpr(precLowest)
		}
		return &ast.ReturnExpr{Base: ast.NewBase(p.span(start)), Value: val}
	case token.LET:
		return p.parseLet()
	case token.ASYNC:
		p.advance()
		if p.curIs(token.PIPE) || p.curIs(token.OR_OR) {
			return p.parseClosure(start, true)
		}
		return p.parseExpr(precUnary)
	}
	// "map"/"set" data-structure literal keywords are lexed as ordinary
	// identifiers in Ruchy; dispatch on spelling once the keyword
	// switch above has missed.
	if p.curIs(token.IDENT) {
		switch p.cur.Literal {
		case "map":
			return p.parseMapOrComprehension(start)
		case "set":
			return p.parseSetOrComprehension(start)
		}
	}
	p.Diags.Addf(diag.KindUnexpectedToken, p.cur.Span, "unexpected token %q in expression", p.cur.Literal)
	p.synchronize()
	return &ast.UnitLit{Base: ast.NewBase(start)}
}

func (p *Parser) parseIntLit() ast.Expr {
	start := p.cur.Span
	text := p.cur.Literal
	clean := strings.ReplaceAll(text, "_", "")
	var v int64
	switch {
	case strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X"):
		n, _ := strconv.ParseInt(clean[2:], 16, 64)
		v = n
	case strings.HasPrefix(clean, "0o") || strings.HasPrefix(clean, "0O"):
		n, _ := strconv.ParseInt(clean[2:], 8, 64)
		v = n
	case strings.HasPrefix(clean, "0b") || strings.HasPrefix(clean, "0B"):
		n, _ := strconv.ParseInt(clean[2:], 2, 64)
		v = n
	default:
		n, err := strconv.ParseInt(clean, 10, 64)
		if err != nil {
			p.Diags.Addf(diag.KindInvalidNumber, start, "invalid integer literal %q", text)
		}
		v = n
	}
	p.advance()
	return &ast.IntLit{Base: ast.NewBase(start), Text: text, Value: v}
}

func (p *Parser) parseFloatLit() ast.Expr {
	start := p.cur.Span
	text := p.cur.Literal
	clean := strings.ReplaceAll(text, "_", "")
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		p.Diags.Addf(diag.KindInvalidNumber, start, "invalid float literal %q", text)
	}
	p.advance()
	return &ast.FloatLit{Base: ast.NewBase(start), Text: text, Value: v}
}

// parseFString re-enters expression parsing for each embedded `{expr}`
// segment, per spec.md §4.1/§4.2.
func (p *Parser) parseFString() ast.Expr {
	start := p.cur.Span
	tok := p.cur
	p.advance()
	lit := &ast.FStringLit{Base: ast.NewBase(start)}
	for _, seg := range tok.Segments {
		if !seg.IsExpr {
			lit.Segments = append(lit.Segments, ast.FStringSegment{Literal: seg.Text})
			continue
		}
		sub := New(seg.Span.File, seg.Text)
		e := sub.parseExpr(precLowest)
		p.Diags.Merge(sub.Diags)
		lit.Segments = append(lit.Segments, ast.FStringSegment{Expr: e})
	}
	return lit
}

// parseIdentOrPath parses an identifier, a `path::to::name` reference,
// or one of the fixed println/print/format macro forms.
func (p *Parser) parseIdentOrPath(start source.Span) ast.Expr {
	name := p.cur.Literal
	if name == "" {
		name = string(p.cur.Kind)
	}
	p.advance()
	if (name == "println" || name == "print" || name == "format") && p.curIs(token.LPAREN) {
		p.advance()
		var args []ast.Expr
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			args = append(args, p.parseExpr(precLowest))
			if p.curIs(token.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(token.RPAREN)
		return &ast.MacroExpr{Base: ast.NewBase(p.span(start)), Name: name, Args: args}
	}
	expr := ast.Expr(&ast.Ident{Base: ast.NewBase(start), Name: name})
	for p.curIs(token.COLON_COLON) {
		p.advance()
		seg := p.cur.Literal
		if seg == "" {
			seg = string(p.cur.Kind)
		}
		p.advance()
		if id, ok := expr.(*ast.Ident); ok {
			expr = &ast.Ident{Base: ast.NewBase(p.span(start)), Name: id.Name + "::" + seg}
		}
	}
	return expr
}

// parseInfix consumes one infix/postfix operator at prec, given the
// already-parsed left operand.
func (p *Parser) parseInfix(left ast.Expr, prec int) ast.Expr {
	start := left.Span()
	switch p.cur.Kind {
	case token.DOT:
		p.advance()
		name := p.cur.Literal
		if name == "" {
			name = string(p.cur.Kind)
		}
		p.advance()
		if p.curIs(token.LPAREN) {
			p.advance()
			var args []ast.Expr
			for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
				args = append(args, p.parseExpr(precLowest))
				if p.curIs(token.COMMA) {
					p.advance()
				} else {
					break
				}
			}
			p.expect(token.RPAREN)
			return &ast.MethodCallExpr{Base: ast.NewBase(p.span(start)), Receiver: left, Method: name, Args: args}
		}
		return &ast.FieldAccessExpr{Base: ast.NewBase(p.span(start)), Receiver: left, Field: name}
	case token.LPAREN:
		p.advance()
		var args []ast.Expr
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			args = append(args, p.parseExpr(precLowest))
			if p.curIs(token.COMMA) {
				p.advance()
			} else {
				break
			}
		}
		p.expect(token.RPAREN)
		return &ast.CallExpr{Base: ast.NewBase(p.span(start)), Callee: left, Args: args}
	case token.LBRACKET:
		p.advance()
		idx := p.parseExpr(precLowest)
		p.expect(token.RBRACKET)
		return &ast.IndexExpr{Base: ast.NewBase(p.span(start)), Receiver: left, Index: idx}
	case token.QUESTION:
		p.advance()
		return &ast.TryExpr{Base: ast.NewBase(p.span(start)), Operand: left}
	case token.DOT_DOT, token.DOT_DOT_EQ:
		inclusive := p.curIs(token.DOT_DOT_EQ)
		p.advance()
		var end ast.Expr
		if p.canStartExpr() {
			end = p.parseExpr(precRange + 1)
		}
		return &ast.RangeExpr{Base: ast.NewBase(p.span(start)), Start: left, End: end, Inclusive: inclusive}
	case token.AND_AND, token.OR_OR, token.PIPE, token.CARET, token.AMP,
		token.EQ_EQ, token.BANG_EQ, token.LT, token.GT, token.LT_EQ, token.GT_EQ,
		token.SHL, token.SHR, token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT:
		op := string(p.cur.Kind)
		p.advance()
		right := p.parseExpr(prec + 1)
		return &ast.BinaryExpr{Base: ast.NewBase(p.span(start)), Op: op, Left: left, Right: right}
	default:
		if assignOps[p.cur.Kind] {
			op := string(p.cur.Kind)
			p.advance()
			val := p.parseExpr(prec) // right-associative
			return &ast.AssignExpr{Base: ast.NewBase(p.span(start)), Op: op, Target: left, Value: val}
		}
		if p.curIs(token.COLON_COLON) {
			p.advance()
			seg := p.cur.Literal
			p.advance()
			if id, ok := left.(*ast.Ident); ok {
				return &ast.Ident{Base: ast.NewBase(p.span(start)), Name: id.Name + "::" + seg}
			}
			return left
		}
	}
	return left
}

// canStartExpr reports whether the current token can begin an
// expression, used to disambiguate open-ended ranges (`a..`) from
// bounded ones (`a..b`).
func (p *Parser) canStartExpr() bool {
	switch p.cur.Kind {
	case token.SEMI, token.RPAREN, token.RBRACE, token.RBRACKET, token.COMMA, token.EOF:
		return false
	}
	return true
}

func (p *Parser) parseParenOrTuple(start source.Span) ast.Expr {
	p.advance() // consume (
	if p.curIs(token.RPAREN) {
		p.advance()
		return &ast.UnitLit{Base: ast.NewBase(p.span(start))}
	}
	first := p.parseExpr(precLowest)
	if p.curIs(token.COMMA) {
		elems := []ast.Expr{first}
		for p.curIs(token.COMMA) {
			p.advance()
			if p.curIs(token.RPAREN) {
				break
			}
			elems = append(elems, p.parseExpr(precLowest))
		}
		p.expect(token.RPAREN)
		return &ast.TupleLit{Base: ast.NewBase(p.span(start)), Elems: elems}
	}
	p.expect(token.RPAREN)
	return first
}

func (p *Parser) parseCommaExprList(closing token.Kind) []ast.Expr {
	var out []ast.Expr
	for !p.curIs(closing) && !p.curIs(token.EOF) {
		out = append(out, p.parseExpr(precLowest))
		if p.curIs(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	return out
}

// parseListOrComprehension handles `[e1, e2, ...]` and `[expr for pat
// in iter if cond]`.
func (p *Parser) parseListOrComprehension(start source.Span) ast.Expr {
	p.advance() // consume [
	if p.curIs(token.RBRACKET) {
		p.advance()
		return &ast.ListLit{Base: ast.NewBase(p.span(start))}
	}
	first := p.parseExpr(precLowest)
	if p.curIs(token.FOR) {
		c := p.parseComprehensionTail(start, ast.ListComprehension, nil, first)
		p.expect(token.RBRACKET)
		return c
	}
	elems := []ast.Expr{first}
	for p.curIs(token.COMMA) {
		p.advance()
		if p.curIs(token.RBRACKET) {
			break
		}
		elems = append(elems, p.parseExpr(precLowest))
	}
	p.expect(token.RBRACKET)
	return &ast.ListLit{Base: ast.NewBase(p.span(start)), Elems: elems}
}

func (p *Parser) parseComprehensionTail(start source.Span, kind ast.ComprehensionKind, keyElem, elem ast.Expr) ast.Expr {
	p.expect(token.FOR)
	pat := p.parsePattern()
	p.expect(token.IN)
	iter := p.parseExpr(precLowest)
	var cond ast.Expr
	if p.curIs(token.IF) {
		p.advance()
		cond = p.parseExpr(precLowest)
	}
	return &ast.Comprehension{
		Base: ast.NewBase(p.span(start)), Kind: kind, Elem: elem, KeyElem: keyElem,
		Var: pat, Iter: iter, Cond: cond,
	}
}

// parseMapOrComprehension handles `map{ k: v, ... }` and `map{ k: v for
// pat in iter }`, after the leading `map` identifier has been seen.
func (p *Parser) parseMapOrComprehension(start source.Span) ast.Expr {
	p.advance() // consume 'map'
	p.expect(token.LBRACE)
	if p.curIs(token.RBRACE) {
		p.advance()
		return &ast.MapLit{Base: ast.NewBase(p.span(start))}
	}
	key := p.parseExpr(precLowest)
	p.expect(token.COLON)
	val := p.parseExpr(precLowest)
	if p.curIs(token.FOR) {
		c := p.parseComprehensionTail(start, ast.MapComprehension, key, val)
		p.expect(token.RBRACE)
		return c
	}
	entries := []ast.MapEntry{{Key: key, Value: val}}
	for p.curIs(token.COMMA) {
		p.advance()
		if p.curIs(token.RBRACE) {
			break
		}
		k := p.parseExpr(precLowest)
		p.expect(token.COLON)
		v := p.parseExpr(precLowest)
		entries = append(entries, ast.MapEntry{Key: k, Value: v})
	}
	p.expect(token.RBRACE)
	return &ast.MapLit{Base: ast.NewBase(p.span(start)), Entries: entries}
}

// parseSetOrComprehension handles `set{ e1, e2 }` and `set{ e for pat
// in iter }`.
func (p *Parser) parseSetOrComprehension(start source.Span) ast.Expr {
	p.advance() // consume 'set'
	p.expect(token.LBRACE)
	if p.curIs(token.RBRACE) {
		p.advance()
		return &ast.SetLit{Base: ast.NewBase(p.span(start))}
	}
	first := p.parseExpr(precLowest)
	if p.curIs(token.FOR) {
		c := p.parseComprehensionTail(start, ast.SetComprehension, nil, first)
		p.expect(token.RBRACE)
		return c
	}
	elems := []ast.Expr{first}
	for p.curIs(token.COMMA) {
		p.advance()
		if p.curIs(token.RBRACE) {
			break
		}
		elems = append(elems, p.parseExpr(precLowest))
	}
	p.expect(token.RBRACE)
	return &ast.SetLit{Base: ast.NewBase(p.span(start)), Elems: elems}
}

// parseBlock parses `{ stmt; stmt; tailExpr }`, where statements are
// separated by `;` or simply follow one another (one per line). The
// last element of Stmts is the block's value when it is not terminated
// by `;`.
func (p *Parser) parseBlock() *ast.Block {
	start := p.cur.Span
	p.expect(token.LBRACE)
	blk := &ast.Block{Base: ast.NewBase(start)}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		before := p.cur.Span
		e := p.parseExpr(precLowest)
		blk.Stmts = append(blk.Stmts, e)
		if p.curIs(token.SEMI) {
			p.advance()
			continue
		}
		if p.cur.Span == before {
			break
		}
	}
	p.expect(token.RBRACE)
	blk.Sp = p.span(start)
	return blk
}

// parseClosure parses `|p1, p2| body` or `move |p1, p2| body`. The
// `||` token is a single lexeme for the empty-parameter-list spelling.
func (p *Parser) parseClosure(start source.Span, move bool) ast.Expr {
	var params []ast.Param
	if p.curIs(token.OR_OR) {
		p.advance()
	} else {
		p.expect(token.PIPE)
		for !p.curIs(token.PIPE) && !p.curIs(token.EOF) {
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
		p.expect(token.PIPE)
	}
	var ret ast.TypeExpr
	if p.curIs(token.ARROW) {
		p.advance()
		ret = p.parseType()
	}
	body := p.parseExpr(precLowest)
	return &ast.ClosureExpr{Base: ast.NewBase(p.span(start)), Params: params, ReturnType: ret, Body: body, Move: move}
}

func (p *Parser) parseIf() ast.Expr {
	start := p.cur.Span
	p.advance() // consume if
	cond := p.parseExpr(precLowest)
	then := p.parseBlock()
	var elseExpr ast.Expr
	if p.curIs(token.ELSE) {
		p.advance()
		if p.curIs(token.IF) {
			elseExpr = p.parseIf()
		} else {
			elseExpr = p.parseBlock()
		}
	}
	return &ast.IfExpr{Base: ast.NewBase(p.span(start)), Cond: cond, Then: then, Else: elseExpr}
}

func (p *Parser) parseMatch() ast.Expr {
	start := p.cur.Span
	p.advance() // consume match
	subj := p.parseExpr(precLowest)
	p.expect(token.LBRACE)
	var arms []ast.MatchArm
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		pat := p.parsePattern()
		var guard ast.Expr
		if p.curIs(token.IF) {
			p.advance()
			guard = p.parseExpr(precLowest)
		}
		p.expect(token.FAT_ARROW)
		body := p.parseExpr(precLowest)
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.MatchExpr{Base: ast.NewBase(p.span(start)), Subject: subj, Arms: arms}
}

func (p *Parser) parseWhileOrWhileLet() ast.Expr {
	start := p.cur.Span
	p.advance() // consume while
	if p.curIs(token.LET) {
		p.advance()
		pat := p.parsePattern()
		p.expect(token.EQ)
		subj := p.parseExpr(precLowest)
		body := p.parseBlock()
		return &ast.WhileLetExpr{Base: ast.NewBase(p.span(start)), Pattern: pat, Subject: subj, Body: body}
	}
	cond := p.parseExpr(precLowest)
	body := p.parseBlock()
	return &ast.WhileExpr{Base: ast.NewBase(p.span(start)), Cond: cond, Body: body}
}

func (p *Parser) parseForIn() ast.Expr {
	start := p.cur.Span
	p.advance() // consume for
	pat := p.parsePattern()
	p.expect(token.IN)
	iter := p.parseExpr(precLowest)
	body := p.parseBlock()
	return &ast.ForInExpr{Base: ast.NewBase(p.span(start)), Pattern: pat, Iter: iter, Body: body}
}

func (p *Parser) parseLoop() ast.Expr {
	start := p.cur.Span
	p.advance() // consume loop
	body := p.parseBlock()
	return &ast.LoopExpr{Base: ast.NewBase(p.span(start)), Body: body}
}

func (p *Parser) parseBreak() ast.Expr {
	start := p.cur.Span
	p.advance() // consume break
	var val ast.Expr
	if p.canStartExpr() {
		val = p.parseExpr(precLowest)
	}
	return &ast.BreakExpr{Base: ast.NewBase(p.span(start)), Value: val}
}

// parseLet parses `let [mut] pat [: Ty] = value`, used both as a
// statement inside a Block and (in while-let form elsewhere) as a
// condition.
func (p *Parser) parseLet() ast.Expr {
	start := p.cur.Span
	p.advance() // consume let
	mut := false
	if p.curIs(token.MUT) {
		mut = true
		p.advance()
	}
	pat := p.parsePattern()
	var ty ast.TypeExpr
	if p.curIs(token.COLON) {
		p.advance()
		ty = p.parseType()
	}
	p.expect(token.EQ)
	val := p.parseExpr(precLowest)
	return &ast.LetExpr{Base: ast.NewBase(p.span(start)), Pattern: pat, Mutable: mut, TypeAnn: ty, Value: val}
}
