/*
File    : ruchy/internal/lexer/unicode.go
*/

package lexer

import (
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// decodeUnicodeEscape parses the hex digits inside `\u{...}` into the
// rune they name.
func decodeUnicodeEscape(hex string) (rune, bool) {
	if hex == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || v > 0x10FFFF {
		return 0, false
	}
	return rune(v), true
}

// NormalizeIdent canonicalizes an identifier to Unicode Normalization
// Form C. Two source files spelling the "same" identifier with
// different combining-mark orderings would otherwise resolve to
// different bindings; running every identifier through NFC before it
// reaches the resolver's symbol table avoids that class of bug.
func NormalizeIdent(ident string) string {
	return norm.NFC.String(ident)
}
