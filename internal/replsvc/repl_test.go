/*
File    : ruchy/internal/replsvc/repl_test.go
*/

package replsvc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ruchy-lang/ruchy/internal/interp"
)

func TestBracketDepthTracksOpenBraces(t *testing.T) {
	assert.Equal(t, 0, bracketDepth("let x = 1"))
	assert.Equal(t, 1, bracketDepth("fun add(a: i64, b: i64) -> i64 {"))
	assert.Equal(t, 0, bracketDepth("fun add(a: i64, b: i64) -> i64 { a + b }"))
	assert.Equal(t, 0, bracketDepth(`let s = "{"`))
	assert.Equal(t, 0, bracketDepth(`let c = '{'`))
}

// TestReplPersistsStateAcrossEntries covers the session behavior that
// distinguishes this REPL from go-mix's: a variable bound on one entry
// must be visible on the next, since both entries run against the same
// *interp.Interp rather than a fresh one per line.
func TestReplPersistsStateAcrossEntries(t *testing.T) {
	r := NewRepl("ruchy", "0.1", "nobody", "----", "MIT", "ruchy> ")
	it := interp.New()
	var out strings.Builder
	it.SetOutput(&out)

	r.executeWithRecovery(&out, "let mut total = 10\n", it)
	r.executeWithRecovery(&out, "total += 5\n", it)
	r.executeWithRecovery(&out, "println(total)\n", it)

	assert.Contains(t, out.String(), "15")
}

// TestReplReportsRuntimeErrorsWithoutPanicking covers a fatal runtime
// diagnostic (division by zero) being handled inside the session rather
// than escaping as a panic; it does not inspect the reported text.
func TestReplReportsRuntimeErrorsWithoutPanicking(t *testing.T) {
	r := NewRepl("ruchy", "0.1", "nobody", "----", "MIT", "ruchy> ")
	it := interp.New()
	var out strings.Builder
	it.SetOutput(&out)

	assert.NotPanics(t, func() {
		r.executeWithRecovery(&out, "println(1 / 0)\n", it)
	})
}
