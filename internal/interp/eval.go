/*
File    : ruchy/internal/interp/eval.go
*/

package interp

import (
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/interp/frame"
	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

// eval is the evaluator's single dispatch point, a type switch over
// every ast.Expr variant mirroring transpile.Lowerer.lowerExpr's
// structure (and, further back, Evaluator.Eval's role in go-mix) —
// the idiomatic Go rendition of a closed-node-set AST walk.
func (it *Interp) eval(fr *frame.Frame, e ast.Expr) (value.Value, error) {
	switch n := e.(type) {
	case *ast.IntLit:
		return &value.Int{Value: n.Value}, nil
	case *ast.FloatLit:
		return &value.Float{Value: n.Value}, nil
	case *ast.StringLit:
		return &value.Str{Value: n.Value}, nil
	case *ast.FStringLit:
		return it.evalFString(fr, n)
	case *ast.CharLit:
		return &value.Char{Value: n.Value}, nil
	case *ast.BoolLit:
		return &value.Bool{Value: n.Value}, nil
	case *ast.UnitLit:
		return &value.Unit{}, nil
	case *ast.Ident:
		if v, ok := fr.Lookup(n.Name); ok {
			return v, nil
		}
		if n.Name == "None" {
			return &value.Enum{TypeName: "Option", Variant: "None"}, nil
		}
		if typeName, variant, ok := splitEnumPath(n.Name); ok {
			if _, ok := it.Enums[typeName]; ok {
				return &value.Enum{TypeName: typeName, Variant: variant}, nil
			}
		}
		return nil, runtimeErr(n, diag.KindTypeMismatch, "unknown identifier: %s", n.Name)
	case *ast.ListLit:
		elems, err := it.evalExprs(fr, n.Elems)
		if err != nil {
			return nil, err
		}
		return &value.List{Elems: elems}, nil
	case *ast.TupleLit:
		elems, err := it.evalExprs(fr, n.Elems)
		if err != nil {
			return nil, err
		}
		return &value.Tuple{Elems: elems}, nil
	case *ast.SetLit:
		elems, err := it.evalExprs(fr, n.Elems)
		if err != nil {
			return nil, err
		}
		s := value.NewSet()
		for _, el := range elems {
			s.Add(el)
		}
		return s, nil
	case *ast.MapLit:
		m := value.NewMap()
		for _, entry := range n.Entries {
			k, err := it.eval(fr, entry.Key)
			if err != nil {
				return nil, err
			}
			v, err := it.eval(fr, entry.Value)
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	case *ast.Comprehension:
		return it.evalComprehension(fr, n)
	case *ast.BinaryExpr:
		return it.evalBinary(fr, n)
	case *ast.UnaryExpr:
		return it.evalUnary(fr, n)
	case *ast.CallExpr:
		return it.evalCall(fr, n)
	case *ast.MethodCallExpr:
		return it.evalMethodCall(fr, n)
	case *ast.FieldAccessExpr:
		return it.evalFieldAccess(fr, n)
	case *ast.IndexExpr:
		return it.evalIndex(fr, n)
	case *ast.RangeExpr:
		return it.evalRange(fr, n)
	case *ast.ReferenceExpr:
		return it.eval(fr, n.Operand)
	case *ast.TryExpr:
		return it.evalTry(fr, n)
	case *ast.MacroExpr:
		return it.evalMacro(fr, n)
	case *ast.Block:
		return it.evalBlock(fr, n)
	case *ast.IfExpr:
		return it.evalIf(fr, n)
	case *ast.MatchExpr:
		return it.evalMatch(fr, n)
	case *ast.WhileExpr:
		return it.evalWhile(fr, n)
	case *ast.WhileLetExpr:
		return it.evalWhileLet(fr, n)
	case *ast.ForInExpr:
		return it.evalForIn(fr, n)
	case *ast.LoopExpr:
		return it.evalLoop(fr, n)
	case *ast.BreakExpr:
		var v value.Value = &value.Unit{}
		if n.Value != nil {
			ev, err := it.eval(fr, n.Value)
			if err != nil {
				return nil, err
			}
			v = ev
		}
		return &value.BreakSignal{Value: v, Label: n.Label}, nil
	case *ast.ContinueExpr:
		return &value.ContinueSignal{Label: n.Label}, nil
	case *ast.ReturnExpr:
		var v value.Value = &value.Unit{}
		if n.Value != nil {
			ev, err := it.eval(fr, n.Value)
			if err != nil {
				return nil, err
			}
			v = ev
		}
		return &value.Return{Value: v}, nil
	case *ast.LetExpr:
		return it.evalLet(fr, n)
	case *ast.AssignExpr:
		return it.evalAssign(fr, n)
	case *ast.ClosureExpr:
		return &value.Closure{
			Params:  paramNames(n.Params),
			Body:    n.Body,
			IsBlock: isBlockBody(n.Body),
			Frame:   fr,
			Move:    n.Move,
		}, nil
	}
	return &value.Unit{}, nil
}

func isBlockBody(e ast.Expr) bool {
	_, ok := e.(*ast.Block)
	return ok
}

func (it *Interp) evalExprs(fr *frame.Frame, exprs []ast.Expr) ([]value.Value, error) {
	out := make([]value.Value, len(exprs))
	for i, e := range exprs {
		v, err := it.eval(fr, e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (it *Interp) evalFString(fr *frame.Frame, n *ast.FStringLit) (value.Value, error) {
	var sb strings.Builder
	for _, seg := range n.Segments {
		if seg.Expr == nil {
			sb.WriteString(seg.Literal)
			continue
		}
		v, err := it.eval(fr, seg.Expr)
		if err != nil {
			return nil, err
		}
		sb.WriteString(v.String())
	}
	return &value.Str{Value: sb.String()}, nil
}

// evalBlock runs a block's statements in a fresh child frame (so
// bindings introduced inside the block don't leak to the caller),
// stopping immediately and propagating a control-flow signal value if
// one surfaces, matching go-mix's IsError/ReturnValue/Break/Continue
// early-exit checks in evalForLoop/evalWhileLoop.
func (it *Interp) evalBlock(fr *frame.Frame, b *ast.Block) (value.Value, error) {
	inner := frame.New(fr)
	var result value.Value = &value.Unit{}
	for _, stmt := range b.Stmts {
		v, err := it.eval(inner, stmt)
		if err != nil {
			return nil, err
		}
		result = v
		if isSignal(v) {
			return v, nil
		}
	}
	return result, nil
}

func isSignal(v value.Value) bool {
	switch v.(type) {
	case *value.Return, *value.BreakSignal, *value.ContinueSignal:
		return true
	}
	return false
}

func (it *Interp) evalUnary(fr *frame.Frame, n *ast.UnaryExpr) (value.Value, error) {
	v, err := it.eval(fr, n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "-":
		switch x := v.(type) {
		case *value.Int:
			return &value.Int{Value: -x.Value}, nil
		case *value.Float:
			return &value.Float{Value: -x.Value}, nil
		}
		return nil, runtimeErr(n, diag.KindTypeMismatch, "cannot negate %s", v.Kind())
	case "!":
		return &value.Bool{Value: !value.Truthy(v)}, nil
	case "&", "&mut":
		return v, nil
	}
	return v, nil
}

func (it *Interp) evalRange(fr *frame.Frame, n *ast.RangeExpr) (value.Value, error) {
	var start, end int64
	if n.Start != nil {
		v, err := it.eval(fr, n.Start)
		if err != nil {
			return nil, err
		}
		start = asInt(v)
	}
	if n.End != nil {
		v, err := it.eval(fr, n.End)
		if err != nil {
			return nil, err
		}
		end = asInt(v)
	}
	return &value.Range{Start: start, End: end, Inclusive: n.Inclusive}, nil
}

func asInt(v value.Value) int64 {
	switch x := v.(type) {
	case *value.Int:
		return x.Value
	case *value.Float:
		return int64(x.Value)
	}
	return 0
}

func (it *Interp) evalTry(fr *frame.Frame, n *ast.TryExpr) (value.Value, error) {
	v, err := it.eval(fr, n.Operand)
	if err != nil {
		return nil, err
	}
	enum, ok := v.(*value.Enum)
	if !ok {
		return nil, runtimeErr(n, diag.KindTryOutsideResult, "`?` requires a Result/Option value")
	}
	switch enum.Variant {
	case "Ok", "Some":
		if len(enum.TupleElems) > 0 {
			return enum.TupleElems[0], nil
		}
		return &value.Unit{}, nil
	case "Err", "None":
		return &value.Return{Value: enum}, nil
	}
	return nil, runtimeErr(n, diag.KindTryOutsideResult, "`?` requires a Result/Option value")
}

func (it *Interp) evalMacro(fr *frame.Frame, n *ast.MacroExpr) (value.Value, error) {
	switch n.Name {
	case "println", "print", "dbg":
		args, err := it.evalExprs(fr, n.Args)
		if err != nil {
			return nil, err
		}
		text := formatMacroArgs(args)
		if n.Name == "println" {
			text += "\n"
		}
		if n.Name == "dbg" {
			text += "\n"
		}
		it.Out.Write([]byte(text))
		if n.Name == "dbg" && len(args) > 0 {
			return args[len(args)-1], nil
		}
		return &value.Unit{}, nil
	case "format":
		args, err := it.evalExprs(fr, n.Args)
		if err != nil {
			return nil, err
		}
		return &value.Str{Value: formatMacroArgs(args)}, nil
	}
	return &value.Unit{}, nil
}

func formatMacroArgs(args []value.Value) string {
	if len(args) == 0 {
		return ""
	}
	if s, ok := args[0].(*value.Str); ok && len(args) > 1 {
		return interpolateFormat(s.Value, args[1:])
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}

// interpolateFormat substitutes each "{}" placeholder in format with
// the corresponding argument's String() form, left-to-right.
func interpolateFormat(format string, args []value.Value) string {
	var sb strings.Builder
	ai := 0
	for i := 0; i < len(format); i++ {
		if i+1 < len(format) && format[i] == '{' && format[i+1] == '}' {
			if ai < len(args) {
				sb.WriteString(args[ai].String())
				ai++
			}
			i++
			continue
		}
		sb.WriteByte(format[i])
	}
	return sb.String()
}
