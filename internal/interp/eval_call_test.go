/*
File    : ruchy/internal/interp/eval_call_test.go
*/

package interp_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruchy-lang/ruchy/internal/driver"
	"github.com/ruchy-lang/ruchy/internal/interp"
)

// TestBuiltinDispatchWinsOverShadowingBinding covers spec.md §4.5.8: a
// local binding spelled the same as a prelude builtin must not hide the
// builtin at a call site spelling that name.
func TestBuiltinDispatchWinsOverShadowingBinding(t *testing.T) {
	src := `
let sqrt = 99
println(sqrt(16.0))
`
	parsed := driver.Parse("test.ruchy", src)
	require.Empty(t, parsed.Diags.All())

	it := interp.New()
	var out strings.Builder
	it.SetOutput(&out)

	_, err := it.RunModule(parsed.AST)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "4")
}
