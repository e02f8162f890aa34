/*
File    : ruchy/internal/transpile/lower_expr.go
*/

package transpile

import "github.com/ruchy-lang/ruchy/internal/ast"

func (lw *Lowerer) lowerBlock(b *ast.Block) *RBlock {
	blk := &RBlock{}
	for i, stmt := range b.Stmts {
		e := lw.lowerExpr(stmt)
		if i == len(b.Stmts)-1 && !endsWithSemiSignificant(stmt) {
			blk.Tail = e
		} else {
			blk.Stmts = append(blk.Stmts, e)
		}
	}
	return blk
}

// endsWithSemiSignificant reports whether stmt is one of the forms
// that is always a statement (never a block's tail value) regardless
// of its source-level trailing semicolon — `let`, assignment, and
// loop forms all evaluate to unit.
func endsWithSemiSignificant(e ast.Expr) bool {
	switch e.(type) {
	case *ast.LetExpr, *ast.AssignExpr, *ast.WhileExpr, *ast.WhileLetExpr, *ast.ForInExpr:
		return true
	}
	return false
}

func (lw *Lowerer) lowerExpr(e ast.Expr) RExpr {
	if e == nil {
		return &RUnit{}
	}
	switch n := e.(type) {
	case *ast.IntLit:
		return &RInt{Text: n.Text, Value: n.Value}
	case *ast.FloatLit:
		return &RFloat{Text: n.Text, Value: n.Value}
	case *ast.StringLit:
		return &RStr{Value: n.Value}
	case *ast.FStringLit:
		return lw.lowerFString(n)
	case *ast.CharLit:
		return &RChar{Value: n.Value}
	case *ast.BoolLit:
		return &RBool{Value: n.Value}
	case *ast.UnitLit:
		return &RUnit{}
	case *ast.Ident:
		return &RIdent{Name: n.Name}
	case *ast.ListLit:
		elems := make([]RExpr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = lw.lowerExpr(el)
		}
		return &RVecMacro{Elems: elems}
	case *ast.TupleLit:
		elems := make([]RExpr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = lw.lowerExpr(el)
		}
		return &RTuple{Elems: elems}
	case *ast.SetLit:
		elems := make([]RExpr, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = lw.lowerExpr(el)
		}
		return &RCall{Callee: &RPath{Segments: []string{"HashSet", "from"}}, Args: []RExpr{&RVecMacro{Elems: elems}}}
	case *ast.MapLit:
		elems := make([]RExpr, len(n.Entries))
		for i, entry := range n.Entries {
			elems[i] = &RTuple{Elems: []RExpr{lw.lowerExpr(entry.Key), lw.lowerExpr(entry.Value)}}
		}
		return &RCall{Callee: &RPath{Segments: []string{"HashMap", "from"}}, Args: []RExpr{&RVecMacro{Elems: elems}}}
	case *ast.Comprehension:
		return lw.lowerComprehension(n)
	case *ast.BinaryExpr:
		return lw.lowerBinary(n)
	case *ast.UnaryExpr:
		return &RUnary{Op: n.Op, Operand: lw.lowerExpr(n.Operand)}
	case *ast.CallExpr:
		return lw.lowerCall(n)
	case *ast.MethodCallExpr:
		return lw.lowerMethodCall(n)
	case *ast.FieldAccessExpr:
		return &RField{Receiver: lw.lowerExpr(n.Receiver), Field: n.Field}
	case *ast.IndexExpr:
		_, lit := n.Index.(*ast.IntLit)
		return &RIndex{Receiver: lw.lowerExpr(n.Receiver), Index: lw.lowerExpr(n.Index), AsUsize: !lit}
	case *ast.RangeExpr:
		op := ".."
		if n.Inclusive {
			op = "..="
		}
		var left, right RExpr
		if n.Start != nil {
			left = lw.lowerExpr(n.Start)
		}
		if n.End != nil {
			right = lw.lowerExpr(n.End)
		}
		return &RBinary{Op: op, Left: left, Right: right}
	case *ast.ReferenceExpr:
		return &RRef{Mutable: n.Mutable, Operand: lw.lowerExpr(n.Operand)}
	case *ast.TryExpr:
		return &RTry{Operand: lw.lowerExpr(n.Operand)}
	case *ast.MacroExpr:
		return lw.lowerMacro(n)
	case *ast.Block:
		return lw.lowerBlock(n)
	case *ast.IfExpr:
		ri := &RIf{Cond: lw.lowerExpr(n.Cond), Then: lw.lowerBlock(n.Then)}
		if n.Else != nil {
			ri.Else = lw.lowerExpr(n.Else)
		}
		return ri
	case *ast.MatchExpr:
		rm := &RMatch{Subject: lw.lowerExpr(n.Subject)}
		for _, arm := range n.Arms {
			ra := RMatchArm{Pattern: patternToRust(arm.Pattern), Body: lw.lowerExpr(arm.Body)}
			if arm.Guard != nil {
				ra.Guard = lw.lowerExpr(arm.Guard)
			}
			rm.Arms = append(rm.Arms, ra)
		}
		return rm
	case *ast.WhileExpr:
		return &RWhile{Cond: lw.lowerExpr(n.Cond), Body: lw.lowerBlock(n.Body)}
	case *ast.WhileLetExpr:
		return &RWhileLet{Pattern: patternToRust(n.Pattern), Subject: lw.lowerExpr(n.Subject), Body: lw.lowerBlock(n.Body)}
	case *ast.ForInExpr:
		return &RForIn{Pattern: patternToRust(n.Pattern), Iter: lw.lowerExpr(n.Iter), Body: lw.lowerBlock(n.Body)}
	case *ast.LoopExpr:
		return &RLoop{Body: lw.lowerBlock(n.Body)}
	case *ast.BreakExpr:
		var v RExpr
		if n.Value != nil {
			v = lw.lowerExpr(n.Value)
		}
		return &RBreak{Value: v}
	case *ast.ContinueExpr:
		return &RContinue{}
	case *ast.ReturnExpr:
		var v RExpr
		if n.Value != nil {
			v = lw.lowerExpr(n.Value)
		}
		return &RReturn{Value: v}
	case *ast.LetExpr:
		rl := &RLet{Pattern: patternToRust(n.Pattern), Mutable: n.Mutable}
		if n.TypeAnn != nil {
			rl.TypeAnn = lowerType(n.TypeAnn)
		}
		if n.Mutable {
			if s, ok := n.Value.(*ast.StringLit); ok {
				rl.Value = &RStr{Value: s.Value, Owned: true}
				return rl
			}
		}
		rl.Value = lw.lowerExpr(n.Value)
		return rl
	case *ast.AssignExpr:
		return &RAssign{Op: n.Op, Target: lw.lowerExpr(n.Target), Value: lw.lowerExpr(n.Value)}
	case *ast.ClosureExpr:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = patternToRust(p.Pattern)
		}
		return &RClosure{Params: params, Body: lw.lowerExpr(n.Body), Move: n.Move}
	}
	return &RUnit{}
}

func (lw *Lowerer) lowerFString(n *ast.FStringLit) RExpr {
	var format string
	var args []RExpr
	for _, seg := range n.Segments {
		if seg.Expr != nil {
			format += "{}"
			args = append(args, lw.lowerExpr(seg.Expr))
			continue
		}
		format += seg.Literal
	}
	if len(args) == 0 {
		return &RStr{Value: format, Owned: true}
	}
	return &RFormatMacro{Macro: "format!", FormatStr: format, Args: args}
}

func (lw *Lowerer) lowerComprehension(n *ast.Comprehension) RExpr {
	pat := patternToRust(n.Var)
	iter := lw.lowerExpr(n.Iter)
	var body RExpr
	if n.KeyElem != nil {
		body = &RTuple{Elems: []RExpr{lw.lowerExpr(n.KeyElem), lw.lowerExpr(n.Elem)}}
	} else {
		body = lw.lowerExpr(n.Elem)
	}
	chain := &RMethodCall{Receiver: iter, Method: "into_iter"}
	var filtered RExpr = chain
	if n.Cond != nil {
		filtered = &RMethodCall{
			Receiver: chain, Method: "filter",
			Args: []RExpr{&RClosure{Params: []string{pat}, Body: lw.lowerExpr(n.Cond)}},
		}
	}
	mapped := &RMethodCall{Receiver: filtered, Method: "map", Args: []RExpr{&RClosure{Params: []string{pat}, Body: body}}}
	switch n.Kind {
	case ast.SetComprehension:
		return &RMethodCall{Receiver: mapped, Method: "collect::<HashSet<_>>"}
	case ast.MapComprehension:
		return &RMethodCall{Receiver: mapped, Method: "collect::<HashMap<_, _>>"}
	default:
		return &RMethodCall{Receiver: mapped, Method: "collect::<Vec<_>>"}
	}
}

// isStringish approximates "this expression's value is a String/&str"
// for the purposes of deciding whether a `+` is string concatenation
// (spec.md §4.5 rule 4) — a syntactic heuristic, not a query into the
// type checker, since the transpiler lowers per-expression without
// carrying the full inferred-type table through every call.
func isStringish(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.StringLit, *ast.FStringLit:
		return true
	case *ast.MethodCallExpr:
		return n.Method == "to_string" || n.Method == "to_uppercase" || n.Method == "to_lowercase" || n.Method == "trim"
	case *ast.BinaryExpr:
		return n.Op == "+" && (isStringish(n.Left) || isStringish(n.Right))
	}
	return false
}

func (lw *Lowerer) lowerBinary(n *ast.BinaryExpr) RExpr {
	if n.Op == "+" && (isStringish(n.Left) || isStringish(n.Right)) {
		return &RFormatMacro{Macro: "format!", FormatStr: "{}{}", Args: []RExpr{lw.lowerExpr(n.Left), lw.lowerExpr(n.Right)}}
	}
	left, right := lw.lowerExpr(n.Left), lw.lowerExpr(n.Right)
	switch n.Op {
	case "<", ">", "<=", ">=", "==", "!=":
		if isLenCall(n.Left) && !isUsizeExpr(n.Right) {
			right = &RCast{Operand: right, Type: "usize"}
		} else if isLenCall(n.Right) && !isUsizeExpr(n.Left) {
			left = &RCast{Operand: left, Type: "usize"}
		}
	}
	return &RBinary{Op: n.Op, Left: left, Right: right}
}

func isLenCall(e ast.Expr) bool {
	m, ok := e.(*ast.MethodCallExpr)
	return ok && m.Method == "len"
}

// isUsizeExpr is a syntactic check for "already produces usize": only
// another `.len()` call is recognized.
func isUsizeExpr(e ast.Expr) bool {
	return isLenCall(e)
}

func (lw *Lowerer) lowerCall(n *ast.CallExpr) RExpr {
	if id, ok := n.Callee.(*ast.Ident); ok {
		if marker, ok := builtinCatalog[id.Name]; ok {
			return lw.builtinArgs(marker, n.Args)
		}
		if ns := splitPath(id.Name); ns != "" {
			if marker, ok := builtinCatalog[ns]; ok {
				return lw.builtinArgs(marker, n.Args)
			}
			return &RCall{Callee: &RPath{Segments: splitPathSegments(id.Name)}, Args: lw.lowerArgs(n.Args)}
		}
	}
	return &RCall{Callee: lw.lowerExpr(n.Callee), Args: lw.lowerArgs(n.Args)}
}

func (lw *Lowerer) builtinArgs(marker string, args []ast.Expr) RExpr {
	return &RBuiltinCall{Marker: marker, Args: lw.lowerArgs(args)}
}

func (lw *Lowerer) lowerArgs(args []ast.Expr) []RExpr {
	out := make([]RExpr, len(args))
	for i, a := range args {
		out[i] = lw.lowerExpr(a)
	}
	return out
}

func (lw *Lowerer) lowerMethodCall(n *ast.MethodCallExpr) RExpr {
	if id, ok := n.Receiver.(*ast.Ident); ok {
		key := id.Name + "::" + n.Method
		if marker, ok := builtinCatalog[key]; ok {
			return lw.builtinArgs(marker, n.Args)
		}
	}
	recv := lw.lowerExpr(n.Receiver)
	return &RMethodCall{Receiver: recv, Method: n.Method, Args: lw.lowerArgs(n.Args)}
}

func (lw *Lowerer) lowerMacro(n *ast.MacroExpr) RExpr {
	switch n.Name {
	case "println", "print":
		name := n.Name + "!"
		if len(n.Args) == 0 {
			return &RFormatMacro{Macro: name}
		}
		if s, ok := n.Args[0].(*ast.StringLit); ok {
			return &RFormatMacro{Macro: name, FormatStr: s.Value, Args: lw.lowerArgs(n.Args[1:])}
		}
		return &RFormatMacro{Macro: name, FormatStr: "{}", Args: lw.lowerArgs(n.Args)}
	case "format":
		if len(n.Args) == 0 {
			return &RStr{Value: ""}
		}
		if s, ok := n.Args[0].(*ast.StringLit); ok {
			return &RFormatMacro{Macro: "format!", FormatStr: s.Value, Args: lw.lowerArgs(n.Args[1:])}
		}
		return &RFormatMacro{Macro: "format!", FormatStr: "{}", Args: lw.lowerArgs(n.Args)}
	case "dbg":
		return &RFormatMacro{Macro: "dbg!", Args: lw.lowerArgs(n.Args)}
	}
	return &RFormatMacro{Macro: n.Name + "!", Args: lw.lowerArgs(n.Args)}
}

// splitPath returns the last two ::-separated segments joined back
// with "::" when name looks like a namespaced reference, else "".
func splitPath(name string) string {
	segs := splitPathSegments(name)
	if len(segs) < 2 {
		return ""
	}
	return segs[len(segs)-2] + "::" + segs[len(segs)-1]
}

func splitPathSegments(name string) []string {
	var segs []string
	start := 0
	for i := 0; i+1 < len(name); i++ {
		if name[i] == ':' && name[i+1] == ':' {
			segs = append(segs, name[start:i])
			start = i + 2
			i++
		}
	}
	segs = append(segs, name[start:])
	return segs
}

// wrapBlockTailToString wraps a block's tail expression (and the tail
// of any if/match branch reachable through it) with `.to_string()`,
// recursively, per spec.md §4.5 rule 4's "functions whose body may
// yield a literal but whose return type is inferred as String".
func wrapBlockTailToString(b *RBlock) {
	if b == nil {
		return
	}
	b.Tail = wrapTailToString(b.Tail)
}

func wrapTailToString(e RExpr) RExpr {
	switch n := e.(type) {
	case nil:
		return nil
	case *RIf:
		wrapBlockTailToString(n.Then)
		n.Else = wrapTailToString(n.Else)
		return n
	case *RMatch:
		for i := range n.Arms {
			n.Arms[i].Body = wrapTailToString(n.Arms[i].Body)
		}
		return n
	case *RBlock:
		wrapBlockTailToString(n)
		return n
	case *RStr:
		n.Owned = true
		return n
	case *RMethodCall:
		if n.Method == "to_string" {
			return n
		}
		return &RMethodCall{Receiver: n, Method: "to_string"}
	case *RFormatMacro:
		return n // format! already yields String
	default:
		return &RMethodCall{Receiver: e, Method: "to_string"}
	}
}
