/*
File    : ruchy/internal/transpile/optimize.go
*/

package transpile

// Optimize runs the four passes over prog in the fixed order spec.md
// §4.5 rule 7 requires: constant folding, then constant propagation
// (which also eliminates dead `if true/false` branches), then inline
// expansion, then dead-code elimination.
func Optimize(prog *RProgram) {
	foldProgram(prog)
	propagateProgram(prog)
	inlineProgram(prog)
	eliminateDeadCode(prog)
}

func eachFn(prog *RProgram, f func(*RFn)) {
	for _, item := range prog.Items {
		switch it := item.(type) {
		case *RFn:
			f(it)
		case *RImpl:
			for _, m := range it.Methods {
				f(m)
			}
		}
	}
	if prog.Main != nil {
		f(prog.Main)
	}
}

// ---------------------------------------------------------------------
// Pass 1: constant folding
// ---------------------------------------------------------------------

func foldProgram(prog *RProgram) {
	eachFn(prog, func(fn *RFn) { foldBlock(fn.Body) })
}

func foldBlock(b *RBlock) {
	if b == nil {
		return
	}
	for i, s := range b.Stmts {
		b.Stmts[i] = foldExpr(s)
	}
	b.Tail = foldExpr(b.Tail)
}

func foldExpr(e RExpr) RExpr {
	switch n := e.(type) {
	case nil:
		return nil
	case *RBinary:
		n.Left, n.Right = foldExpr(n.Left), foldExpr(n.Right)
		return foldBinaryLiterals(n)
	case *RUnary:
		n.Operand = foldExpr(n.Operand)
		if lit, ok := n.Operand.(*RInt); ok && n.Op == "-" {
			return &RInt{Value: -lit.Value}
		}
		if lit, ok := n.Operand.(*RBool); ok && n.Op == "!" {
			return &RBool{Value: !lit.Value}
		}
		return n
	case *RIf:
		n.Cond = foldExpr(n.Cond)
		foldBlock(n.Then)
		n.Else = foldExpr(n.Else)
		return n
	case *RMatch:
		n.Subject = foldExpr(n.Subject)
		for i := range n.Arms {
			n.Arms[i].Guard = foldExpr(n.Arms[i].Guard)
			n.Arms[i].Body = foldExpr(n.Arms[i].Body)
		}
		return n
	case *RWhile:
		n.Cond = foldExpr(n.Cond)
		foldBlock(n.Body)
		return n
	case *RWhileLet:
		n.Subject = foldExpr(n.Subject)
		foldBlock(n.Body)
		return n
	case *RForIn:
		n.Iter = foldExpr(n.Iter)
		foldBlock(n.Body)
		return n
	case *RLoop:
		foldBlock(n.Body)
		return n
	case *RBlock:
		foldBlock(n)
		return n
	case *RLet:
		n.Value = foldExpr(n.Value)
		return n
	case *RAssign:
		n.Target, n.Value = foldExpr(n.Target), foldExpr(n.Value)
		return n
	case *RReturn:
		n.Value = foldExpr(n.Value)
		return n
	case *RBreak:
		n.Value = foldExpr(n.Value)
		return n
	case *RCall:
		n.Callee = foldExpr(n.Callee)
		for i := range n.Args {
			n.Args[i] = foldExpr(n.Args[i])
		}
		return n
	case *RMethodCall:
		n.Receiver = foldExpr(n.Receiver)
		for i := range n.Args {
			n.Args[i] = foldExpr(n.Args[i])
		}
		return n
	case *RBuiltinCall:
		for i := range n.Args {
			n.Args[i] = foldExpr(n.Args[i])
		}
		return n
	case *RFormatMacro:
		for i := range n.Args {
			n.Args[i] = foldExpr(n.Args[i])
		}
		return n
	case *RIndex:
		n.Receiver, n.Index = foldExpr(n.Receiver), foldExpr(n.Index)
		return n
	case *RField:
		n.Receiver = foldExpr(n.Receiver)
		return n
	case *RRef:
		n.Operand = foldExpr(n.Operand)
		return n
	case *RTry:
		n.Operand = foldExpr(n.Operand)
		return n
	case *RCast:
		n.Operand = foldExpr(n.Operand)
		return n
	case *RTuple:
		for i := range n.Elems {
			n.Elems[i] = foldExpr(n.Elems[i])
		}
		return n
	case *RVecMacro:
		for i := range n.Elems {
			n.Elems[i] = foldExpr(n.Elems[i])
		}
		return n
	}
	return e
}

func foldBinaryLiterals(n *RBinary) RExpr {
	if n.Left == nil || n.Right == nil {
		return n
	}
	li, lok := n.Left.(*RInt)
	ri, rok := n.Right.(*RInt)
	if lok && rok {
		switch n.Op {
		case "+":
			return &RInt{Value: li.Value + ri.Value}
		case "-":
			return &RInt{Value: li.Value - ri.Value}
		case "*":
			return &RInt{Value: li.Value * ri.Value}
		case "/":
			if ri.Value != 0 {
				return &RInt{Value: li.Value / ri.Value}
			}
		case "%":
			if ri.Value != 0 {
				return &RInt{Value: li.Value % ri.Value}
			}
		case "==":
			return &RBool{Value: li.Value == ri.Value}
		case "!=":
			return &RBool{Value: li.Value != ri.Value}
		case "<":
			return &RBool{Value: li.Value < ri.Value}
		case ">":
			return &RBool{Value: li.Value > ri.Value}
		case "<=":
			return &RBool{Value: li.Value <= ri.Value}
		case ">=":
			return &RBool{Value: li.Value >= ri.Value}
		}
	}
	lb, lbok := n.Left.(*RBool)
	rb, rbok := n.Right.(*RBool)
	if lbok && rbok {
		switch n.Op {
		case "&&":
			return &RBool{Value: lb.Value && rb.Value}
		case "||":
			return &RBool{Value: lb.Value || rb.Value}
		case "==":
			return &RBool{Value: lb.Value == rb.Value}
		case "!=":
			return &RBool{Value: lb.Value != rb.Value}
		}
	}
	if lbok && n.Op == "&&" && !lb.Value {
		return &RBool{Value: false}
	}
	if lbok && n.Op == "||" && lb.Value {
		return &RBool{Value: true}
	}
	return n
}

// ---------------------------------------------------------------------
// Pass 2: constant propagation (plus dead if-branch elimination)
// ---------------------------------------------------------------------

func propagateProgram(prog *RProgram) {
	eachFn(prog, func(fn *RFn) { propagateBlock(fn.Body) })
}

// propagateBlock substitutes references to immutable literal-bound
// `let` statements within the same block, stopping at loop/closure
// boundaries per spec.md §4.5 rule 7 ("do not cross control-flow
// boundaries or mutable bindings").
func propagateBlock(b *RBlock) {
	if b == nil {
		return
	}
	consts := map[string]RExpr{}
	newStmts := make([]RExpr, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		s = substituteExpr(s, consts)
		if lt, ok := s.(*RLet); ok && !lt.Mutable {
			if isLiteralExpr(lt.Value) {
				consts[lt.Pattern] = lt.Value
			}
		}
		s = eliminateDeadIf(s)
		descendPropagate(s)
		newStmts = append(newStmts, s)
	}
	b.Stmts = newStmts
	b.Tail = substituteExpr(b.Tail, consts)
	b.Tail = eliminateDeadIf(b.Tail)
	descendPropagate(b.Tail)
}

func isLiteralExpr(e RExpr) bool {
	switch e.(type) {
	case *RInt, *RFloat, *RBool, *RChar:
		return true
	case *RStr:
		return true
	}
	return false
}

func substituteExpr(e RExpr, consts map[string]RExpr) RExpr {
	switch n := e.(type) {
	case nil:
		return nil
	case *RIdent:
		if v, ok := consts[n.Name]; ok {
			return v
		}
		return n
	case *RBinary:
		n.Left, n.Right = substituteExpr(n.Left, consts), substituteExpr(n.Right, consts)
		return foldBinaryLiterals(n)
	case *RUnary:
		n.Operand = substituteExpr(n.Operand, consts)
		return n
	case *RCall:
		n.Callee = substituteExpr(n.Callee, consts)
		for i := range n.Args {
			n.Args[i] = substituteExpr(n.Args[i], consts)
		}
		return n
	case *RMethodCall:
		n.Receiver = substituteExpr(n.Receiver, consts)
		for i := range n.Args {
			n.Args[i] = substituteExpr(n.Args[i], consts)
		}
		return n
	case *RBuiltinCall:
		for i := range n.Args {
			n.Args[i] = substituteExpr(n.Args[i], consts)
		}
		return n
	case *RFormatMacro:
		for i := range n.Args {
			n.Args[i] = substituteExpr(n.Args[i], consts)
		}
		return n
	case *RIndex:
		n.Receiver = substituteExpr(n.Receiver, consts)
		n.Index = substituteExpr(n.Index, consts)
		return n
	case *RField:
		n.Receiver = substituteExpr(n.Receiver, consts)
		return n
	case *RRef:
		n.Operand = substituteExpr(n.Operand, consts)
		return n
	case *RTry:
		n.Operand = substituteExpr(n.Operand, consts)
		return n
	case *RCast:
		n.Operand = substituteExpr(n.Operand, consts)
		return n
	case *RTuple:
		for i := range n.Elems {
			n.Elems[i] = substituteExpr(n.Elems[i], consts)
		}
		return n
	case *RVecMacro:
		for i := range n.Elems {
			n.Elems[i] = substituteExpr(n.Elems[i], consts)
		}
		return n
	case *RLet:
		n.Value = substituteExpr(n.Value, consts)
		return n
	case *RAssign:
		// the target is never substituted (it names a place, not a value)
		n.Value = substituteExpr(n.Value, consts)
		return n
	case *RReturn:
		n.Value = substituteExpr(n.Value, consts)
		return n
	case *RBreak:
		n.Value = substituteExpr(n.Value, consts)
		return n
	case *RIf:
		n.Cond = substituteExpr(n.Cond, consts)
		return n
	}
	return e
}

// descendPropagate recurses propagation into nested blocks that start
// a fresh scope (if/match/nested block), but not into loop bodies or
// closures, which are control-flow boundaries the pass must not cross.
func descendPropagate(e RExpr) {
	switch n := e.(type) {
	case *RIf:
		propagateBlock(n.Then)
		if blk, ok := n.Else.(*RBlock); ok {
			propagateBlock(blk)
		} else if nested, ok := n.Else.(*RIf); ok {
			descendPropagate(nested)
		}
	case *RMatch:
		for _, arm := range n.Arms {
			if blk, ok := arm.Body.(*RBlock); ok {
				propagateBlock(blk)
			}
		}
	case *RBlock:
		propagateBlock(n)
	}
}

func eliminateDeadIf(e RExpr) RExpr {
	ri, ok := e.(*RIf)
	if !ok {
		return e
	}
	cond, ok := ri.Cond.(*RBool)
	if !ok {
		return e
	}
	if cond.Value {
		return ri.Then
	}
	if ri.Else != nil {
		return ri.Else
	}
	return &RUnit{}
}

// ---------------------------------------------------------------------
// Pass 3: inline expansion
// ---------------------------------------------------------------------

// inlineProgram inlines any `fun` whose body is a single tail
// expression referencing only its own parameters and which is not
// recursive (spec.md §4.5 rule 7). A function with any statement before
// its tail expression is not inlined.
func inlineProgram(prog *RProgram) {
	candidates := map[string]*RFn{}
	eachFn(prog, func(fn *RFn) {
		if isInlineEligible(fn) {
			candidates[fn.Name] = fn
		}
	})
	eachFn(prog, func(fn *RFn) {
		inlineBlock(fn.Body, candidates, fn.Name)
	})
}

func isInlineEligible(fn *RFn) bool {
	if fn.Body == nil || len(fn.Body.Stmts) > 0 || fn.Body.Tail == nil {
		return false
	}
	if callsSelf(fn.Body, fn.Name) {
		return false
	}
	params := map[string]bool{}
	for _, p := range fn.Params {
		params[p.Pattern] = true
	}
	return onlyReferences(fn.Body.Tail, params)
}

func callsSelf(b *RBlock, name string) bool {
	found := false
	var walk func(RExpr)
	walk = func(e RExpr) {
		if found || e == nil {
			return
		}
		switch n := e.(type) {
		case *RCall:
			if id, ok := n.Callee.(*RIdent); ok && id.Name == name {
				found = true
				return
			}
			for _, a := range n.Args {
				walk(a)
			}
		case *RBinary:
			walk(n.Left)
			walk(n.Right)
		case *RIf:
			walk(n.Cond)
			for _, s := range n.Then.Stmts {
				walk(s)
			}
			walk(n.Then.Tail)
			walk(n.Else)
		case *RBlock:
			for _, s := range n.Stmts {
				walk(s)
			}
			walk(n.Tail)
		case *RReturn:
			walk(n.Value)
		}
	}
	for _, s := range b.Stmts {
		walk(s)
	}
	walk(b.Tail)
	return found
}

// onlyReferences reports whether every free identifier in e is a
// member of allowed (the function's own parameters) — a conservative
// check that bails (returns false) on anything it cannot prove safe.
func onlyReferences(e RExpr, allowed map[string]bool) bool {
	ok := true
	var walk func(RExpr)
	walk = func(x RExpr) {
		if !ok || x == nil {
			return
		}
		switch n := x.(type) {
		case *RIdent:
			if !allowed[n.Name] {
				ok = false
			}
		case *RInt, *RFloat, *RStr, *RChar, *RBool, *RUnit:
		case *RBinary:
			walk(n.Left)
			walk(n.Right)
		case *RUnary:
			walk(n.Operand)
		case *RCall:
			for _, a := range n.Args {
				walk(a)
			}
		case *RMethodCall:
			walk(n.Receiver)
			for _, a := range n.Args {
				walk(a)
			}
		case *RField:
			walk(n.Receiver)
		case *RIndex:
			walk(n.Receiver)
			walk(n.Index)
		case *RTuple:
			for _, el := range n.Elems {
				walk(el)
			}
		default:
			ok = false
		}
	}
	walk(e)
	return ok
}

func inlineBlock(b *RBlock, candidates map[string]*RFn, selfName string) {
	if b == nil {
		return
	}
	for i, s := range b.Stmts {
		b.Stmts[i] = inlineExpr(s, candidates, selfName)
	}
	b.Tail = inlineExpr(b.Tail, candidates, selfName)
}

func inlineExpr(e RExpr, candidates map[string]*RFn, selfName string) RExpr {
	switch n := e.(type) {
	case nil:
		return nil
	case *RCall:
		for i := range n.Args {
			n.Args[i] = inlineExpr(n.Args[i], candidates, selfName)
		}
		if id, ok := n.Callee.(*RIdent); ok {
			if target, found := candidates[id.Name]; found && id.Name != selfName {
				return substituteParams(target, n.Args)
			}
		}
		return n
	case *RBinary:
		n.Left = inlineExpr(n.Left, candidates, selfName)
		n.Right = inlineExpr(n.Right, candidates, selfName)
		return n
	case *RIf:
		n.Cond = inlineExpr(n.Cond, candidates, selfName)
		inlineBlock(n.Then, candidates, selfName)
		n.Else = inlineExpr(n.Else, candidates, selfName)
		return n
	case *RMatch:
		n.Subject = inlineExpr(n.Subject, candidates, selfName)
		for i := range n.Arms {
			n.Arms[i].Body = inlineExpr(n.Arms[i].Body, candidates, selfName)
		}
		return n
	case *RBlock:
		inlineBlock(n, candidates, selfName)
		return n
	case *RReturn:
		n.Value = inlineExpr(n.Value, candidates, selfName)
		return n
	case *RLet:
		n.Value = inlineExpr(n.Value, candidates, selfName)
		return n
	case *RWhile:
		n.Cond = inlineExpr(n.Cond, candidates, selfName)
		inlineBlock(n.Body, candidates, selfName)
		return n
	case *RForIn:
		n.Iter = inlineExpr(n.Iter, candidates, selfName)
		inlineBlock(n.Body, candidates, selfName)
		return n
	}
	return e
}

// substituteParams renders fn's tail expression with each parameter
// occurrence replaced by the corresponding call argument, preserving
// shadowing by only ever substituting the leaf RIdent nodes collected
// from the (already free-variable-checked) tail.
func substituteParams(fn *RFn, args []RExpr) RExpr {
	subst := map[string]RExpr{}
	for i, p := range fn.Params {
		if i < len(args) {
			subst[p.Pattern] = args[i]
		}
	}
	return substituteExpr(cloneExpr(fn.Body.Tail), subst)
}

// cloneExpr performs a shallow structural copy sufficient to keep an
// inlined call site's substitution from mutating the original
// function body shared across multiple call sites.
func cloneExpr(e RExpr) RExpr {
	switch n := e.(type) {
	case *RIdent:
		c := *n
		return &c
	case *RBinary:
		c := *n
		c.Left, c.Right = cloneExpr(n.Left), cloneExpr(n.Right)
		return &c
	case *RUnary:
		c := *n
		c.Operand = cloneExpr(n.Operand)
		return &c
	case *RCall:
		c := *n
		c.Args = append([]RExpr{}, n.Args...)
		return &c
	case *RMethodCall:
		c := *n
		c.Receiver = cloneExpr(n.Receiver)
		c.Args = append([]RExpr{}, n.Args...)
		return &c
	case *RField:
		c := *n
		c.Receiver = cloneExpr(n.Receiver)
		return &c
	case *RIndex:
		c := *n
		c.Receiver, c.Index = cloneExpr(n.Receiver), cloneExpr(n.Index)
		return &c
	case *RTuple:
		c := *n
		c.Elems = append([]RExpr{}, n.Elems...)
		return &c
	}
	return e
}

// ---------------------------------------------------------------------
// Pass 4: dead code elimination
// ---------------------------------------------------------------------

// eliminateDeadCode drops unreferenced private top-level declarations
// (spec.md §4.5 rule 7). `fun main`/the synthesized Main, pub items,
// impl/trait/use/mod items, and any name referenced from any function
// body (including bodies of functions that are themselves dropped)
// survive.
func eliminateDeadCode(prog *RProgram) {
	referenced := map[string]bool{}
	var mark func(RExpr)
	mark = func(e RExpr) {
		switch n := e.(type) {
		case nil:
			return
		case *RIdent:
			referenced[n.Name] = true
		case *RPath:
			if len(n.Segments) > 0 {
				referenced[n.Segments[0]] = true
			}
		case *RCall:
			mark(n.Callee)
			for _, a := range n.Args {
				mark(a)
			}
		case *RMethodCall:
			mark(n.Receiver)
			for _, a := range n.Args {
				mark(a)
			}
		case *RStructLit:
			referenced[n.Name] = true
			for _, f := range n.Fields {
				mark(f.Value)
			}
		case *RBinary:
			mark(n.Left)
			mark(n.Right)
		case *RUnary:
			mark(n.Operand)
		case *RField:
			mark(n.Receiver)
		case *RIndex:
			mark(n.Receiver)
			mark(n.Index)
		case *RIf:
			mark(n.Cond)
			markBlock(n.Then, mark)
			mark(n.Else)
		case *RMatch:
			mark(n.Subject)
			for _, arm := range n.Arms {
				referenced[arm.Pattern] = true
				mark(arm.Guard)
				mark(arm.Body)
			}
		case *RWhile:
			mark(n.Cond)
			markBlock(n.Body, mark)
		case *RForIn:
			mark(n.Iter)
			markBlock(n.Body, mark)
		case *RLoop:
			markBlock(n.Body, mark)
		case *RBlock:
			markBlock(n, mark)
		case *RLet:
			mark(n.Value)
		case *RAssign:
			mark(n.Target)
			mark(n.Value)
		case *RReturn:
			mark(n.Value)
		case *RBreak:
			mark(n.Value)
		case *RTuple:
			for _, el := range n.Elems {
				mark(el)
			}
		case *RVecMacro:
			for _, el := range n.Elems {
				mark(el)
			}
		case *RRef:
			mark(n.Operand)
		case *RTry:
			mark(n.Operand)
		case *RCast:
			mark(n.Operand)
		case *RFormatMacro:
			for _, a := range n.Args {
				mark(a)
			}
		case *RBuiltinCall:
			for _, a := range n.Args {
				mark(a)
			}
		case *RClosure:
			mark(n.Body)
		}
	}
	eachFn(prog, func(fn *RFn) { markBlock(fn.Body, mark) })
	for _, item := range prog.Items {
		switch it := item.(type) {
		case *RImpl:
			referenced[it.Target] = true
		}
	}

	kept := prog.Items[:0]
	for _, item := range prog.Items {
		switch it := item.(type) {
		case *RFn:
			if it.Pub || it.Name == "main" || referenced[it.Name] {
				kept = append(kept, it)
			}
		case *RStruct:
			if it.Pub || referenced[it.Name] {
				kept = append(kept, it)
			}
		case *REnum:
			if it.Pub || referenced[it.Name] {
				kept = append(kept, it)
			}
		default:
			kept = append(kept, item)
		}
	}
	prog.Items = kept
}

func markBlock(b *RBlock, mark func(RExpr)) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		mark(s)
	}
	mark(b.Tail)
}
