/*
File    : ruchy/internal/lexer/lexer.go
*/

// Package lexer scans Ruchy source text into a token stream. It follows
// the same hand-rolled, byte-at-a-time design as go-mix's lexer/lexer.go
// (a Current/Position cursor, longest-match operator
// dispatch in NextToken's switch), generalized to Ruchy's richer literal
// grammar: based integers with `_` separators, f-string interpolation,
// and Unicode escapes.
package lexer

import (
	"strings"

	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/source"
	"github.com/ruchy-lang/ruchy/internal/token"
)

// Lexer holds the scanning cursor over one file's source text.
type Lexer struct {
	File      source.FileID
	Src       string
	Current   byte
	Position  int
	SrcLength int

	Diags *diag.Collector
}

// New creates a lexer over src, tagged with the file it came from so
// every emitted span resolves back through the source manager.
func New(file source.FileID, src string) *Lexer {
	cur := byte(0)
	if len(src) > 0 {
		cur = src[0]
	}
	return &Lexer{
		File: file, Src: src, Current: cur, Position: 0,
		SrcLength: len(src), Diags: diag.NewCollector(),
	}
}

// Peek looks one byte ahead without consuming it.
func (l *Lexer) Peek() byte {
	if l.Position+1 >= l.SrcLength {
		return 0
	}
	return l.Src[l.Position+1]
}

// PeekAt looks n bytes ahead without consuming.
func (l *Lexer) PeekAt(n int) byte {
	if l.Position+n >= l.SrcLength {
		return 0
	}
	return l.Src[l.Position+n]
}

// Advance moves the cursor forward one byte.
func (l *Lexer) Advance() {
	l.Position++
	if l.Position >= l.SrcLength {
		l.Current = 0
		l.Position = l.SrcLength
	} else {
		l.Current = l.Src[l.Position]
	}
}

func (l *Lexer) spanFrom(start int) source.Span {
	return source.Span{File: l.File, Start: uint32(start), End: uint32(l.Position)}
}

func (l *Lexer) mk(kind token.Kind, start int) token.Token {
	lit := l.Src[start:l.Position]
	return token.Token{Kind: kind, Literal: lit, Span: l.spanFrom(start)}
}

// skipTrivia consumes whitespace, `//` line comments, and `/* */` block
// comments, exactly as go-mix's IgnoreWhitespacesAndComments does.
func (l *Lexer) skipTrivia() {
	for {
		switch {
		case isSpace(l.Current):
			l.Advance()
		case l.Current == '/' && l.Peek() == '/':
			for l.Current != '\n' && l.Current != 0 {
				l.Advance()
			}
		case l.Current == '/' && l.Peek() == '*':
			l.Advance()
			l.Advance()
			for l.Current != 0 {
				if l.Current == '*' && l.Peek() == '/' {
					l.Advance()
					l.Advance()
					break
				}
				l.Advance()
			}
		default:
			return
		}
	}
}

// NextToken scans and returns the next token, or an EOF token once the
// source is exhausted. Lexing never panics (spec.md §8.1): unrecognized
// bytes become an INVALID token plus a collected diagnostic.
func (l *Lexer) NextToken() token.Token {
	l.skipTrivia()
	start := l.Position

	if l.Current == 0 {
		return token.Token{Kind: token.EOF, Literal: "", Span: l.spanFrom(start)}
	}

	switch {
	case l.Current == '"':
		return l.readString(start)
	case l.Current == '\'':
		return l.readChar(start)
	case isDigit(l.Current):
		return l.readNumber(start)
	case isIdentStart(l.Current):
		return l.readIdentOrFString(start)
	}

	two := func(k2 byte, short, long token.Kind) token.Token {
		if l.Peek() == k2 {
			l.Advance()
			l.Advance()
			return l.mk(long, start)
		}
		l.Advance()
		return l.mk(short, start)
	}

	switch l.Current {
	case '+':
		return two('=', token.PLUS, token.PLUS_EQ)
	case '-':
		if l.Peek() == '>' {
			l.Advance()
			l.Advance()
			return l.mk(token.ARROW, start)
		}
		return two('=', token.MINUS, token.MINUS_EQ)
	case '*':
		return two('=', token.STAR, token.STAR_EQ)
	case '/':
		return two('=', token.SLASH, token.SLASH_EQ)
	case '%':
		return two('=', token.PERCENT, token.PERCENT_EQ)
	case '^':
		return two('=', token.CARET, token.CARET_EQ)
	case '=':
		if l.Peek() == '>' {
			l.Advance()
			l.Advance()
			return l.mk(token.FAT_ARROW, start)
		}
		return two('=', token.EQ, token.EQ_EQ)
	case '!':
		return two('=', token.BANG, token.BANG_EQ)
	case '<':
		if l.Peek() == '<' {
			l.Advance()
			if l.Peek() == '=' {
				l.Advance()
				l.Advance()
				return l.mk(token.SHL_EQ, start)
			}
			l.Advance()
			return l.mk(token.SHL, start)
		}
		return two('=', token.LT, token.LT_EQ)
	case '>':
		if l.Peek() == '>' {
			l.Advance()
			if l.Peek() == '=' {
				l.Advance()
				l.Advance()
				return l.mk(token.SHR_EQ, start)
			}
			l.Advance()
			return l.mk(token.SHR, start)
		}
		return two('=', token.GT, token.GT_EQ)
	case '&':
		if l.Peek() == '&' {
			l.Advance()
			l.Advance()
			return l.mk(token.AND_AND, start)
		}
		return two('=', token.AMP, token.AMP_EQ)
	case '|':
		if l.Peek() == '|' {
			l.Advance()
			l.Advance()
			return l.mk(token.OR_OR, start)
		}
		return two('=', token.PIPE, token.PIPE_EQ)
	case ':':
		if l.Peek() == ':' {
			l.Advance()
			l.Advance()
			return l.mk(token.COLON_COLON, start)
		}
		l.Advance()
		return l.mk(token.COLON, start)
	case '.':
		if l.Peek() == '.' {
			l.Advance()
			if l.Peek() == '=' {
				l.Advance()
				l.Advance()
				return l.mk(token.DOT_DOT_EQ, start)
			}
			l.Advance()
			return l.mk(token.DOT_DOT, start)
		}
		l.Advance()
		return l.mk(token.DOT, start)
	case '(':
		l.Advance()
		return l.mk(token.LPAREN, start)
	case ')':
		l.Advance()
		return l.mk(token.RPAREN, start)
	case '{':
		l.Advance()
		return l.mk(token.LBRACE, start)
	case '}':
		l.Advance()
		return l.mk(token.RBRACE, start)
	case '[':
		l.Advance()
		return l.mk(token.LBRACKET, start)
	case ']':
		l.Advance()
		return l.mk(token.RBRACKET, start)
	case ',':
		l.Advance()
		return l.mk(token.COMMA, start)
	case ';':
		l.Advance()
		return l.mk(token.SEMI, start)
	case '?':
		l.Advance()
		return l.mk(token.QUESTION, start)
	}

	// Unrecognized byte.
	l.Diags.Addf(diag.KindInvalidToken, l.spanFrom(start), "unrecognized character %q", l.Current)
	l.Advance()
	return l.mk(token.INVALID, start)
}

// readNumber handles decimal/hex/octal/binary integers (with `_`
// separators) and decimal floats with an optional exponent, per
// spec.md §4.1.
func (l *Lexer) readNumber(start int) token.Token {
	kind := token.INT
	if l.Current == '0' && (l.Peek() == 'x' || l.Peek() == 'X') {
		l.Advance()
		l.Advance()
		for isHexDigit(l.Current) || l.Current == '_' {
			l.Advance()
		}
		return l.mk(token.INT, start)
	}
	if l.Current == '0' && (l.Peek() == 'o' || l.Peek() == 'O') {
		l.Advance()
		l.Advance()
		for (l.Current >= '0' && l.Current <= '7') || l.Current == '_' {
			l.Advance()
		}
		return l.mk(token.INT, start)
	}
	if l.Current == '0' && (l.Peek() == 'b' || l.Peek() == 'B') {
		l.Advance()
		l.Advance()
		for l.Current == '0' || l.Current == '1' || l.Current == '_' {
			l.Advance()
		}
		return l.mk(token.INT, start)
	}
	for isDigit(l.Current) || l.Current == '_' {
		l.Advance()
	}
	if l.Current == '.' && isDigit(l.Peek()) {
		kind = token.FLOAT
		l.Advance()
		for isDigit(l.Current) || l.Current == '_' {
			l.Advance()
		}
	}
	if l.Current == 'e' || l.Current == 'E' {
		save := l.Position
		l.Advance()
		if l.Current == '+' || l.Current == '-' {
			l.Advance()
		}
		if isDigit(l.Current) {
			kind = token.FLOAT
			for isDigit(l.Current) {
				l.Advance()
			}
		} else {
			l.Position = save
			l.Current = l.Src[save]
		}
	}
	return l.mk(kind, start)
}

// readIdentOrFString scans an identifier/keyword, special-casing the
// `f"..."` interpolated-string prefix.
func (l *Lexer) readIdentOrFString(start int) token.Token {
	if l.Current == 'f' && l.Peek() == '"' {
		l.Advance() // consume 'f'
		return l.readFString(start)
	}
	for isIdentCont(l.Current) {
		l.Advance()
	}
	lit := NormalizeIdent(l.Src[start:l.Position])
	return token.Token{Kind: token.LookupIdent(lit), Literal: lit, Span: l.spanFrom(start)}
}

// readString scans a standard double-quoted string literal with the
// fixed escape set from spec.md §4.1.
func (l *Lexer) readString(start int) token.Token {
	l.Advance() // opening quote
	var sb strings.Builder
	for l.Current != '"' && l.Current != 0 {
		if l.Current == '\\' {
			esc, ok := l.readEscape()
			if !ok {
				l.Diags.Addf(diag.KindInvalidEscape, l.spanFrom(l.Position), "invalid escape sequence")
			}
			sb.WriteString(esc)
			continue
		}
		sb.WriteByte(l.Current)
		l.Advance()
	}
	if l.Current == 0 {
		l.Diags.Addf(diag.KindUnterminatedStr, l.spanFrom(start), "unterminated string literal")
	} else {
		l.Advance() // closing quote
	}
	return token.Token{Kind: token.STRING, Literal: sb.String(), Span: l.spanFrom(start)}
}

// readFString scans `f"...{expr}..."`, splitting it into alternating
// literal/expression segments that the parser later re-enters expression
// parsing over (spec.md §4.1/§4.2).
func (l *Lexer) readFString(start int) token.Token {
	l.Advance() // opening quote
	var segments []token.Segment
	var lit strings.Builder
	litStart := l.Position
	flushLit := func() {
		if lit.Len() > 0 {
			segments = append(segments, token.Segment{IsExpr: false, Text: lit.String(), Span: l.spanFrom(litStart)})
			lit.Reset()
		}
	}
	for l.Current != '"' && l.Current != 0 {
		if l.Current == '{' {
			flushLit()
			l.Advance()
			exprStart := l.Position
			depth := 1
			for l.Current != 0 && depth > 0 {
				switch l.Current {
				case '{':
					depth++
				case '}':
					depth--
					if depth == 0 {
						break
					}
				}
				if depth > 0 {
					l.Advance()
				}
			}
			exprSrc := l.Src[exprStart:l.Position]
			segments = append(segments, token.Segment{IsExpr: true, Text: exprSrc, Span: source.Span{File: l.File, Start: uint32(exprStart), End: uint32(l.Position)}})
			if l.Current == '}' {
				l.Advance()
			}
			litStart = l.Position
			continue
		}
		if l.Current == '\\' {
			esc, _ := l.readEscape()
			lit.WriteString(esc)
			continue
		}
		lit.WriteByte(l.Current)
		l.Advance()
	}
	flushLit()
	if l.Current == 0 {
		l.Diags.Addf(diag.KindUnterminatedStr, l.spanFrom(start), "unterminated interpolated string")
	} else {
		l.Advance()
	}
	return token.Token{Kind: token.FSTRING, Literal: l.Src[start:l.Position], Span: l.spanFrom(start), Segments: segments}
}

// readChar scans a single-quoted character literal.
func (l *Lexer) readChar(start int) token.Token {
	l.Advance() // opening quote
	var val string
	if l.Current == '\\' {
		esc, ok := l.readEscape()
		if !ok {
			l.Diags.Addf(diag.KindInvalidEscape, l.spanFrom(l.Position), "invalid escape in character literal")
		}
		val = esc
	} else {
		val = string(l.Current)
		l.Advance()
	}
	if l.Current == '\'' {
		l.Advance()
	} else {
		l.Diags.Addf(diag.KindMissingCloser, l.spanFrom(start), "unterminated character literal")
	}
	return token.Token{Kind: token.CHAR, Literal: val, Span: l.spanFrom(start)}
}

// readEscape decodes a backslash escape at the current position,
// consuming it, and returns its expansion plus whether it was
// recognized.
func (l *Lexer) readEscape() (string, bool) {
	l.Advance() // consume backslash
	switch l.Current {
	case 'n':
		l.Advance()
		return "\n", true
	case 't':
		l.Advance()
		return "\t", true
	case 'r':
		l.Advance()
		return "\r", true
	case '\\':
		l.Advance()
		return "\\", true
	case '"':
		l.Advance()
		return "\"", true
	case '\'':
		l.Advance()
		return "'", true
	case '0':
		l.Advance()
		return "\x00", true
	case 'u':
		l.Advance()
		if l.Current != '{' {
			return "u", false
		}
		l.Advance()
		var hex strings.Builder
		for l.Current != '}' && l.Current != 0 {
			hex.WriteByte(l.Current)
			l.Advance()
		}
		if l.Current == '}' {
			l.Advance()
		}
		r, ok := decodeUnicodeEscape(hex.String())
		if !ok {
			return "", false
		}
		return string(r), true
	default:
		bad := string(l.Current)
		l.Advance()
		return bad, false
	}
}

// ConsumeAll tokenizes the whole source, collecting every diagnostic
// that came from scanning it.
func (l *Lexer) ConsumeAll() []token.Token {
	var out []token.Token
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			break
		}
		out = append(out, tok)
	}
	return out
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isIdentStart(b byte) bool { return isAlpha(b) || b == '_' }
func isIdentCont(b byte) bool  { return isAlpha(b) || isDigit(b) || b == '_' }
