/*
File    : ruchy/internal/types/checker_test.go
*/

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/parser"
	"github.com/ruchy-lang/ruchy/internal/source"
)

func checkSource(t *testing.T, src string) *diag.Collector {
	t.Helper()
	mgr := source.NewManager()
	fid := mgr.AddFile("test.ruchy", src)
	p := parser.New(fid, src)
	mod := p.ParseModule()
	require.Empty(t, p.Diags.All(), "parse diagnostics: %v", p.Diags.All())

	c := NewChecker()
	c.CheckModule(mod)
	return c.Diags
}

func hasKind(diags *diag.Collector, kind diag.Kind) bool {
	for _, d := range diags.All() {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// TestTryInResultReturningFunctionIsClean covers spec.md §4.4/§7: `?`
// used inside a function declared to return Result, on an operand that
// itself is Result-typed, must not be flagged.
func TestTryInResultReturningFunctionIsClean(t *testing.T) {
	src := `
fun safe_div(a: i64, b: i64) -> Result<i64, str> {
    Ok(a / b)
}
fun parse_two(a: i64, b: i64) -> Result<i64, str> {
    let x = safe_div(a, b)?
    Ok(x)
}
`
	diags := checkSource(t, src)
	assert.False(t, hasKind(diags, diag.KindTryOutsideResult))
}

// TestTryInNonResultFunctionIsDiagnosed covers the same invariant's
// negative case: `?` on a genuinely Result-typed operand, used inside a
// function that does not itself return Result, must be flagged.
func TestTryInNonResultFunctionIsDiagnosed(t *testing.T) {
	src := `
fun safe_div(a: i64, b: i64) -> Result<i64, str> {
    Ok(a / b)
}
fun parse_first(a: i64, b: i64) -> i64 {
    let x = safe_div(a, b)?
    x
}
`
	diags := checkSource(t, src)
	assert.True(t, hasKind(diags, diag.KindTryOutsideResult))
}
