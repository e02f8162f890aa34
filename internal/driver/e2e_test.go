/*
File    : ruchy/internal/driver/e2e_test.go
*/

package driver

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruchy-lang/ruchy/internal/ast"
)

func runSource(t *testing.T, src string) RunResult {
	t.Helper()
	d := New(DefaultOptions())
	parsed := Parse("test.ruchy", src)
	require.Empty(t, parsed.Diags.All(), "parse diagnostics: %v", parsed.Diags.All())
	return d.Run(parsed.AST, "test.ruchy", "", nil)
}

// TestFactorial covers spec.md §8's recursive-function scenario.
func TestFactorial(t *testing.T) {
	src := `
fun factorial(n: i64) -> i64 {
    if n <= 1 { 1 } else { n * factorial(n - 1) }
}
println(factorial(10))
`
	res := runSource(t, src)
	require.Empty(t, res.Diags.All())
	assert.Equal(t, "3628800\n", res.Stdout)
}

// TestEnumInSignature covers a function taking and matching over an
// enum parameter.
func TestEnumInSignature(t *testing.T) {
	src := `
enum Shape {
    Circle(f64),
    Square(f64),
}
fun area(s: Shape) -> f64 {
    match s {
        Shape::Circle(r) => 3.14159 * r * r,
        Shape::Square(side) => side * side,
    }
}
println(area(Shape::Square(4.0)))
`
	res := runSource(t, src)
	require.Empty(t, res.Diags.All())
	assert.Equal(t, "16\n", res.Stdout)
}

// TestNestedLoopMutation covers spec.md §8's nested-loop-with-mutation
// scenario, exercising two-level loop scoping and compound assignment.
func TestNestedLoopMutation(t *testing.T) {
	src := `
let mut total = 0
for i in 0..3 {
    for j in 0..3 {
        total += i * j
    }
}
println(total)
`
	res := runSource(t, src)
	require.Empty(t, res.Diags.All())
	assert.Equal(t, "9\n", res.Stdout)
}

// TestStringConcatMutation covers string concatenation combined with a
// mutable rebinding in a loop.
func TestStringConcatMutation(t *testing.T) {
	src := `
let mut s = ""
for c in ["a", "b", "c"] {
    s += c
}
println(s)
`
	res := runSource(t, src)
	require.Empty(t, res.Diags.All())
	assert.Equal(t, "abc\n", res.Stdout)
}

// TestMultiFileModule covers the resolver's module cache loading a
// sibling module exactly once and exposing its public declarations
// under `name::member`.
func TestMultiFileModule(t *testing.T) {
	d := New(DefaultOptions())
	helperSrc := `pub fun double(x: i64) -> i64 { x * 2 }`
	mainSrc := `mod helper;
println(helper::double(21))
`
	// "./helper.ruchy" matches the primary candidate dirOf("main.ruchy")
	// (".") and source.JoinModulePath join to for `mod helper;`.
	_, helperCached := d.ResolveModule("./helper.ruchy", helperSrc)
	assert.False(t, helperCached)
	_, helperCachedAgain := d.ResolveModule("./helper.ruchy", helperSrc)
	assert.True(t, helperCachedAgain)

	parsed := Parse("main.ruchy", mainSrc)
	require.Empty(t, parsed.Diags.All())

	res := d.Run(parsed.AST, "main.ruchy", "", nil)
	require.Empty(t, res.Diags.All())
	assert.Equal(t, "42\n", res.Stdout)
}

// TestJSONRoundTrip covers the prelude's parse_json/stringify_json pair.
func TestJSONRoundTrip(t *testing.T) {
	src := `
let doc = parse_json("{\"a\": 1, \"b\": [1, 2, 3]}")
println(stringify_json(doc))
`
	res := runSource(t, src)
	require.Empty(t, res.Diags.All())
	assert.Contains(t, res.Stdout, "\"a\"")
	assert.Contains(t, res.Stdout, "\"b\"")
}

// TestASTRoundTripModuloTrivia covers spec.md §8.4: parsing the same
// source twice must produce structurally identical trees (spans differ
// only because each parse creates its own Manager/FileID, which Ignore
// strips out of the comparison).
func TestASTRoundTripModuloTrivia(t *testing.T) {
	src := `
fun add(a: i64, b: i64) -> i64 { a + b }
println(add(1, 2))
`
	first := Parse("round.ruchy", src)
	second := Parse("round.ruchy", src)
	require.Empty(t, first.Diags.All())
	require.Empty(t, second.Diags.All())

	diff := cmp.Diff(first.AST, second.AST, cmpopts.IgnoreFields(ast.Base{}, "Sp"))
	assert.Empty(t, diff, "asts differ modulo trivia")
}

// TestDivByZeroDiagnostic covers a fatal runtime diagnostic surfacing
// through Run's Diags/Stderr rather than a Go panic.
func TestDivByZeroDiagnostic(t *testing.T) {
	res := runSource(t, "println(1 / 0)")
	require.NotEmpty(t, res.Diags.All())
	assert.Equal(t, 1, res.ExitCode)
	assert.NotEmpty(t, res.Stderr)
}

// TestIntegerOverflowDiagnostic covers spec.md §8.9: i64::MAX + 1 must
// raise a fatal diagnostic rather than silently wrapping to i64::MIN.
func TestIntegerOverflowDiagnostic(t *testing.T) {
	res := runSource(t, fmt.Sprintf("println(%d + 1)", int64(math.MaxInt64)))
	require.NotEmpty(t, res.Diags.All())
	assert.Equal(t, 1, res.ExitCode)
	assert.NotEmpty(t, res.Stderr)
}

// TestTranspileMode covers Run in ModeTranspile emitting Rust source
// instead of executing.
func TestTranspileMode(t *testing.T) {
	d := New(Options{Mode: ModeTranspile})
	parsed := Parse("test.ruchy", "fun main() { println(\"hi\") }")
	require.Empty(t, parsed.Diags.All())
	res := d.Run(parsed.AST, "test.ruchy", "", nil)
	assert.Contains(t, res.Stdout, "fn main")
}
