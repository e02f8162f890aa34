/*
File    : ruchy/internal/interp/eval_binary.go
*/

package interp

import (
	"math"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/interp/frame"
	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

// evalBinary implements every binary operator over runtime values,
// short-circuiting `&&`/`||` before evaluating the right operand
// (spec.md §5's left-to-right evaluation-order guarantee).
func (it *Interp) evalBinary(fr *frame.Frame, n *ast.BinaryExpr) (value.Value, error) {
	if n.Op == "&&" || n.Op == "||" {
		left, err := it.eval(fr, n.Left)
		if err != nil {
			return nil, err
		}
		if n.Op == "&&" && !value.Truthy(left) {
			return &value.Bool{Value: false}, nil
		}
		if n.Op == "||" && value.Truthy(left) {
			return &value.Bool{Value: true}, nil
		}
		right, err := it.eval(fr, n.Right)
		if err != nil {
			return nil, err
		}
		return &value.Bool{Value: value.Truthy(right)}, nil
	}

	left, err := it.eval(fr, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := it.eval(fr, n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "==":
		return &value.Bool{Value: value.Equal(left, right)}, nil
	case "!=":
		return &value.Bool{Value: !value.Equal(left, right)}, nil
	case "<", ">", "<=", ">=":
		return compareValues(n, n.Op, left, right)
	case "+":
		if ls, ok := left.(*value.Str); ok {
			return &value.Str{Value: ls.Value + right.String()}, nil
		}
		return arith(n, "+", left, right)
	case "-", "*":
		return arith(n, n.Op, left, right)
	case "/":
		return divide(n, left, right)
	case "%":
		return modulo(n, left, right)
	}
	return nil, runtimeErr(n, diag.KindTypeMismatch, "unsupported operator %q", n.Op)
}

func numPair(a, b value.Value) (float64, float64, bool) {
	af, aIsFloat := toFloat(a)
	bf, bIsFloat := toFloat(b)
	return af, bf, aIsFloat || bIsFloat
}

func toFloat(v value.Value) (float64, bool) {
	switch x := v.(type) {
	case *value.Int:
		return float64(x.Value), false
	case *value.Float:
		return x.Value, true
	}
	return 0, false
}

func arith(n ast.Expr, op string, left, right value.Value) (value.Value, error) {
	li, lIsInt := left.(*value.Int)
	ri, rIsInt := right.(*value.Int)
	if lIsInt && rIsInt {
		switch op {
		case "+":
			sum, err := addInt64(n, li.Value, ri.Value)
			if err != nil {
				return nil, err
			}
			return &value.Int{Value: sum}, nil
		case "-":
			diff, err := subInt64(n, li.Value, ri.Value)
			if err != nil {
				return nil, err
			}
			return &value.Int{Value: diff}, nil
		case "*":
			prod, err := mulInt64(n, li.Value, ri.Value)
			if err != nil {
				return nil, err
			}
			return &value.Int{Value: prod}, nil
		}
	}
	lf, rf, isFloat := numPair(left, right)
	if !isFloat && (!lIsInt || !rIsInt) {
		return nil, runtimeErr(n, diag.KindTypeMismatch, "arithmetic requires numbers, got %s and %s", left.Kind(), right.Kind())
	}
	switch op {
	case "+":
		return &value.Float{Value: lf + rf}, nil
	case "-":
		return &value.Float{Value: lf - rf}, nil
	case "*":
		return &value.Float{Value: lf * rf}, nil
	}
	return nil, runtimeErr(n, diag.KindTypeMismatch, "unsupported operator %q", op)
}

// addInt64/subInt64/mulInt64 detect signed 64-bit overflow by comparing
// the wrapped Go result back against what the operands require, raising
// diag.KindOverflow instead of letting i64 arithmetic wrap silently
// (spec.md §3/§7/§8.9 forbid silent wraparound; go-mix's own int
// arithmetic has no equivalent notion of checked overflow since it never
// bounded integers to a fixed width).
func addInt64(n ast.Expr, a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, runtimeErr(n, diag.KindOverflow, "integer overflow: %d + %d", a, b)
	}
	return sum, nil
}

func subInt64(n ast.Expr, a, b int64) (int64, error) {
	diff := a - b
	if (b < 0 && diff < a) || (b > 0 && diff > a) {
		return 0, runtimeErr(n, diag.KindOverflow, "integer overflow: %d - %d", a, b)
	}
	return diff, nil
}

func mulInt64(n ast.Expr, a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if (a == math.MinInt64 && b == -1) || (b == math.MinInt64 && a == -1) {
		return 0, runtimeErr(n, diag.KindOverflow, "integer overflow: %d * %d", a, b)
	}
	prod := a * b
	if prod/b != a {
		return 0, runtimeErr(n, diag.KindOverflow, "integer overflow: %d * %d", a, b)
	}
	return prod, nil
}

func divide(n ast.Expr, left, right value.Value) (value.Value, error) {
	li, lIsInt := left.(*value.Int)
	ri, rIsInt := right.(*value.Int)
	if lIsInt && rIsInt {
		if ri.Value == 0 {
			return nil, runtimeErr(n, diag.KindDivByZero, "division by zero")
		}
		if li.Value == math.MinInt64 && ri.Value == -1 {
			return nil, runtimeErr(n, diag.KindOverflow, "integer overflow: %d / %d", li.Value, ri.Value)
		}
		return &value.Int{Value: li.Value / ri.Value}, nil
	}
	lf, rf, _ := numPair(left, right)
	if rf == 0 {
		return nil, runtimeErr(n, diag.KindDivByZero, "division by zero")
	}
	return &value.Float{Value: lf / rf}, nil
}

func modulo(n ast.Expr, left, right value.Value) (value.Value, error) {
	li, lIsInt := left.(*value.Int)
	ri, rIsInt := right.(*value.Int)
	if lIsInt && rIsInt {
		if ri.Value == 0 {
			return nil, runtimeErr(n, diag.KindModByZero, "modulo by zero")
		}
		return &value.Int{Value: li.Value % ri.Value}, nil
	}
	lf, rf, _ := numPair(left, right)
	if rf == 0 {
		return nil, runtimeErr(n, diag.KindModByZero, "modulo by zero")
	}
	lv := int64(lf)
	rv := int64(rf)
	return &value.Int{Value: lv % rv}, nil
}

func compareValues(n ast.Expr, op string, left, right value.Value) (value.Value, error) {
	if ls, ok := left.(*value.Str); ok {
		rs, ok := right.(*value.Str)
		if !ok {
			return nil, runtimeErr(n, diag.KindTypeMismatch, "cannot compare %s to %s", left.Kind(), right.Kind())
		}
		return &value.Bool{Value: strCompare(op, ls.Value, rs.Value)}, nil
	}
	lf, rf, _ := numPair(left, right)
	switch op {
	case "<":
		return &value.Bool{Value: lf < rf}, nil
	case ">":
		return &value.Bool{Value: lf > rf}, nil
	case "<=":
		return &value.Bool{Value: lf <= rf}, nil
	case ">=":
		return &value.Bool{Value: lf >= rf}, nil
	}
	return nil, runtimeErr(n, diag.KindTypeMismatch, "unsupported comparison %q", op)
}

func strCompare(op, a, b string) bool {
	switch op {
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	}
	return false
}
