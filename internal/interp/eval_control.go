/*
File    : ruchy/internal/interp/eval_control.go
*/

package interp

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/interp/frame"
	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

func (it *Interp) evalIf(fr *frame.Frame, n *ast.IfExpr) (value.Value, error) {
	cond, err := it.eval(fr, n.Cond)
	if err != nil {
		return nil, err
	}
	if _, ok := cond.(*value.Bool); !ok {
		return nil, runtimeErr(n, diag.KindNonBoolCond, "if condition must be bool, got %s", cond.Kind())
	}
	if value.Truthy(cond) {
		return it.evalBlock(fr, n.Then)
	}
	if n.Else != nil {
		return it.eval(fr, n.Else)
	}
	return &value.Unit{}, nil
}

// evalMatch tries each arm in source order, binding the first pattern
// that matches and whose guard (if any) evaluates true — spec.md
// §4.6's "arms are tried in source order" rule. Non-matching patterns
// leave the frame unmodified.
func (it *Interp) evalMatch(fr *frame.Frame, n *ast.MatchExpr) (value.Value, error) {
	subj, err := it.eval(fr, n.Subject)
	if err != nil {
		return nil, err
	}
	for _, arm := range n.Arms {
		inner := frame.New(fr)
		if !matchPattern(inner, arm.Pattern, subj) {
			continue
		}
		if arm.Guard != nil {
			g, err := it.eval(inner, arm.Guard)
			if err != nil {
				return nil, err
			}
			if !value.Truthy(g) {
				continue
			}
		}
		return it.eval(inner, arm.Body)
	}
	return nil, runtimeErr(n, diag.KindNonExhaustive, "no match arm matched value %s", subj.Inspect())
}

func (it *Interp) evalWhile(fr *frame.Frame, n *ast.WhileExpr) (value.Value, error) {
	loopFrame := frame.New(fr)
	for {
		cond, err := it.eval(loopFrame, n.Cond)
		if err != nil {
			return nil, err
		}
		if _, ok := cond.(*value.Bool); !ok {
			return nil, runtimeErr(n, diag.KindNonBoolCond, "while condition must be bool, got %s", cond.Kind())
		}
		if !value.Truthy(cond) {
			return &value.Unit{}, nil
		}
		v, err := it.evalBlock(loopFrame, n.Body)
		if err != nil {
			return nil, err
		}
		if brk, ok := v.(*value.BreakSignal); ok {
			if brk.Label != "" {
				return v, nil
			}
			return brk.Value, nil
		}
		if _, ok := v.(*value.ContinueSignal); ok {
			continue
		}
		if _, ok := v.(*value.Return); ok {
			return v, nil
		}
	}
}

func (it *Interp) evalWhileLet(fr *frame.Frame, n *ast.WhileLetExpr) (value.Value, error) {
	loopFrame := frame.New(fr)
	for {
		subj, err := it.eval(loopFrame, n.Subject)
		if err != nil {
			return nil, err
		}
		inner := frame.New(loopFrame)
		if !matchPattern(inner, n.Pattern, subj) {
			return &value.Unit{}, nil
		}
		v, err := it.evalBlock(inner, n.Body)
		if err != nil {
			return nil, err
		}
		if brk, ok := v.(*value.BreakSignal); ok {
			if brk.Label != "" {
				return v, nil
			}
			return brk.Value, nil
		}
		if _, ok := v.(*value.ContinueSignal); ok {
			continue
		}
		if _, ok := v.(*value.Return); ok {
			return v, nil
		}
	}
}

// evalForIn covers iteration over Range/List/Tuple/Set values, binding
// the pattern fresh each iteration, matching go-mix's evalForeachLoop
// per-iterable-kind switch generalized to Ruchy's richer iterable set.
func (it *Interp) evalForIn(fr *frame.Frame, n *ast.ForInExpr) (value.Value, error) {
	iter, err := it.eval(fr, n.Iter)
	if err != nil {
		return nil, err
	}
	loopFrame := frame.New(fr)

	runBody := func(elem value.Value) (value.Value, bool, error) {
		inner := frame.New(loopFrame)
		if !matchPattern(inner, n.Pattern, elem) {
			return nil, false, runtimeErr(n, diag.KindTypeMismatch, "for-loop pattern did not match element")
		}
		v, err := it.evalBlock(inner, n.Body)
		if err != nil {
			return nil, false, err
		}
		if brk, ok := v.(*value.BreakSignal); ok {
			if brk.Label == "" {
				return brk.Value, true, nil
			}
			return v, true, nil
		}
		if _, ok := v.(*value.Return); ok {
			return v, true, nil
		}
		return nil, false, nil
	}

	switch it2 := iter.(type) {
	case *value.Range:
		if it2.Start <= it2.End {
			end := it2.End
			if it2.Inclusive {
				end++
			}
			for i := it2.Start; i < end; i++ {
				res, stop, err := runBody(&value.Int{Value: i})
				if err != nil {
					return nil, err
				}
				if stop {
					return res, nil
				}
			}
		} else {
			end := it2.End
			if it2.Inclusive {
				end--
			}
			for i := it2.Start; i > end; i-- {
				res, stop, err := runBody(&value.Int{Value: i})
				if err != nil {
					return nil, err
				}
				if stop {
					return res, nil
				}
			}
		}
	case *value.List:
		for _, elem := range it2.Elems {
			res, stop, err := runBody(elem)
			if err != nil {
				return nil, err
			}
			if stop {
				return res, nil
			}
		}
	case *value.Tuple:
		for _, elem := range it2.Elems {
			res, stop, err := runBody(elem)
			if err != nil {
				return nil, err
			}
			if stop {
				return res, nil
			}
		}
	case *value.Set:
		for _, k := range it2.Order {
			res, stop, err := runBody(it2.Elements[k])
			if err != nil {
				return nil, err
			}
			if stop {
				return res, nil
			}
		}
	case *value.Map:
		for _, k := range it2.Order {
			entry := &value.Tuple{Elems: []value.Value{it2.Keys[k], it2.Pairs[k]}}
			res, stop, err := runBody(entry)
			if err != nil {
				return nil, err
			}
			if stop {
				return res, nil
			}
		}
	default:
		return nil, runtimeErr(n, diag.KindTypeMismatch, "for-in requires an iterable, got %s", iter.Kind())
	}
	return &value.Unit{}, nil
}

func (it *Interp) evalLoop(fr *frame.Frame, n *ast.LoopExpr) (value.Value, error) {
	loopFrame := frame.New(fr)
	for {
		v, err := it.evalBlock(loopFrame, n.Body)
		if err != nil {
			return nil, err
		}
		if brk, ok := v.(*value.BreakSignal); ok {
			if brk.Label != "" {
				return v, nil
			}
			return brk.Value, nil
		}
		if _, ok := v.(*value.ContinueSignal); ok {
			continue
		}
		if _, ok := v.(*value.Return); ok {
			return v, nil
		}
	}
}

func (it *Interp) evalLet(fr *frame.Frame, n *ast.LetExpr) (value.Value, error) {
	v, err := it.eval(fr, n.Value)
	if err != nil {
		return nil, err
	}
	if !matchPattern(fr, n.Pattern, v) {
		return nil, runtimeErr(n, diag.KindTypeMismatch, "let pattern did not match value")
	}
	return &value.Unit{}, nil
}

func (it *Interp) evalAssign(fr *frame.Frame, n *ast.AssignExpr) (value.Value, error) {
	rhs, err := it.eval(fr, n.Value)
	if err != nil {
		return nil, err
	}
	if n.Op != "=" {
		cur, err := it.eval(fr, n.Target)
		if err != nil {
			return nil, err
		}
		op := n.Op[:len(n.Op)-1]
		switch op {
		case "+":
			if ls, ok := cur.(*value.Str); ok {
				rhs = &value.Str{Value: ls.Value + rhs.String()}
			} else {
				rhs, err = arith(n, "+", cur, rhs)
			}
		case "-", "*":
			rhs, err = arith(n, op, cur, rhs)
		case "/":
			rhs, err = divide(n, cur, rhs)
		case "%":
			rhs, err = modulo(n, cur, rhs)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := it.assignTo(fr, n.Target, rhs); err != nil {
		return nil, err
	}
	return &value.Unit{}, nil
}

func (it *Interp) assignTo(fr *frame.Frame, target ast.Expr, v value.Value) error {
	switch t := target.(type) {
	case *ast.Ident:
		if fr.Assign(t.Name, v) {
			return nil
		}
		return runtimeErr(t, diag.KindTypeMismatch, "unknown identifier: %s", t.Name)
	case *ast.FieldAccessExpr:
		recv, err := it.eval(fr, t.Receiver)
		if err != nil {
			return err
		}
		s, ok := recv.(*value.Struct)
		if !ok {
			return runtimeErr(t, diag.KindTypeMismatch, "field assignment target is not a struct")
		}
		if _, exists := s.Fields[t.Field]; !exists {
			s.Order = append(s.Order, t.Field)
		}
		s.Fields[t.Field] = v
		return nil
	case *ast.IndexExpr:
		recv, err := it.eval(fr, t.Receiver)
		if err != nil {
			return err
		}
		idx, err := it.eval(fr, t.Index)
		if err != nil {
			return err
		}
		switch r := recv.(type) {
		case *value.List:
			i := int(asInt(idx))
			if i < 0 || i >= len(r.Elems) {
				return runtimeErr(t, diag.KindIndexOutOfRange, "index %d out of range", i)
			}
			r.Elems[i] = v
			return nil
		case *value.Map:
			r.Set(idx, v)
			return nil
		}
		return runtimeErr(t, diag.KindTypeMismatch, "cannot index-assign into %s", recv.Kind())
	}
	return runtimeErr(target, diag.KindTypeMismatch, "invalid assignment target")
}
