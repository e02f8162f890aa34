/*
File    : ruchy/internal/interp/eval_binary_test.go
*/

package interp_test

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/driver"
	"github.com/ruchy-lang/ruchy/internal/interp"
	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

func evalExprValue(t *testing.T, src string) (value.Value, error) {
	t.Helper()
	parsed := driver.Parse("test.ruchy", src)
	require.Empty(t, parsed.Diags.All())
	it := interp.New()
	var out strings.Builder
	it.SetOutput(&out)
	return it.RunModule(parsed.AST)
}

func TestArithmeticBasics(t *testing.T) {
	v, err := evalExprValue(t, "1 + 2 * 3")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.(*value.Int).Value)

	v, err = evalExprValue(t, "10 - 3")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.(*value.Int).Value)
}

// TestIntegerOverflowRaisesDiagnostic covers spec.md §8.9: i64::MAX + 1
// must raise a diag.KindOverflow diagnostic instead of silently wrapping
// to i64::MIN.
func TestIntegerOverflowRaisesDiagnostic(t *testing.T) {
	src := fmt.Sprintf("%d + 1", int64(math.MaxInt64))
	_, err := evalExprValue(t, src)
	require.Error(t, err)
	d, ok := err.(diag.Diagnostic)
	require.True(t, ok, "expected a diag.Diagnostic, got %T", err)
	assert.Equal(t, diag.KindOverflow, d.Kind)
}

func TestIntegerOverflowOnSubtractAndMultiply(t *testing.T) {
	// i64::MIN expressed without an out-of-range literal (the lexer
	// splits "-9223372036854775808" into `-` and a digit run, and the
	// parser rejects that digit run because it exceeds i64::MAX), then
	// pushed one past i64::MIN to force underflow.
	minExpr := fmt.Sprintf("(-%d - 1)", int64(math.MaxInt64))
	_, err := evalExprValue(t, minExpr+" - 1")
	require.Error(t, err)
	d, ok := err.(diag.Diagnostic)
	require.True(t, ok)
	assert.Equal(t, diag.KindOverflow, d.Kind)

	_, err = evalExprValue(t, fmt.Sprintf("%d * 2", int64(math.MaxInt64)))
	require.Error(t, err)
	d, ok = err.(diag.Diagnostic)
	require.True(t, ok)
	assert.Equal(t, diag.KindOverflow, d.Kind)
}
