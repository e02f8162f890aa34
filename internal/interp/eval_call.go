/*
File    : ruchy/internal/interp/eval_call.go
*/

package interp

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/interp/builtin"
	"github.com/ruchy-lang/ruchy/internal/interp/frame"
	"github.com/ruchy-lang/ruchy/internal/interp/value"
	"github.com/ruchy-lang/ruchy/internal/source"
)

// builtinAliases maps the prelude's namespaced spellings to their plain
// catalog entry, the interpreter-side half of the dual-dispatch idiom
// transpile.builtinCatalog implements for lowering.
var builtinAliases = map[string]string{
	"JSON::parse":     "parse_json",
	"JSON::stringify": "stringify_json",
	"File::read":      "read_file",
	"File::open":      "open",
}

// preludeResultVariant maps the prelude's built-in Result/Option tuple
// constructors (spec.md §6 prelude: `Ok`/`Err`/`Some` are always in
// scope, unlike user enum variants which need `TypeName::Variant`) to
// the enum type they construct.
var preludeResultVariant = map[string]string{"Ok": "Result", "Err": "Result", "Some": "Option"}

// evalCall resolves a call's callee as, in order: a builtin function (or
// its namespaced alias) — checked before any variable lookup so a local
// or global binding spelled the same as a prelude builtin can never
// hide it at a call site (spec.md §4.5.8/§9's marker-first dispatch) —
// then, only for names that aren't builtins, a local binding, a struct
// constructor, a user enum-variant constructor (`Type::Variant(...)`),
// the prelude's bare `Ok`/`Err`/`Some` constructors, or an ordinary
// value (closure or builtin stored in a variable) — mirroring
// evalCallExpression's builtin-check-first, user-function-lookup-second
// order from go-mix.
func (it *Interp) evalCall(fr *frame.Frame, n *ast.CallExpr) (value.Value, error) {
	if id, ok := n.Callee.(*ast.Ident); ok {
		name := id.Name
		if alias, ok := builtinAliases[name]; ok {
			name = alias
		}
		if fn, ok := builtin.LookupFunction(name); ok {
			args, err := it.evalExprs(fr, n.Args)
			if err != nil {
				return nil, err
			}
			v, err := fn(it, args)
			if err != nil {
				return nil, runtimeErr(n, diag.KindIOFailure, "%s", err.Error())
			}
			return v, nil
		}
		if _, shadowed := fr.Lookup(id.Name); !shadowed {
			if sd, ok := it.Structs[id.Name]; ok {
				return it.constructStruct(fr, n, sd)
			}
			if typeName, variant, ok := splitEnumPath(id.Name); ok {
				if _, ok := it.Enums[typeName]; ok {
					return it.constructEnumTuple(fr, n, typeName, variant)
				}
			}
			if typeName, ok := preludeResultVariant[id.Name]; ok {
				return it.constructEnumTuple(fr, n, typeName, id.Name)
			}
		}
	}
	callee, err := it.eval(fr, n.Callee)
	if err != nil {
		return nil, err
	}
	args, err := it.evalExprs(fr, n.Args)
	if err != nil {
		return nil, err
	}
	return it.callValue(n, callee, args)
}

// splitEnumPath splits a resolver-merged `Type::Variant` identifier
// (see resolver.hoist binding enum variants under exactly this spelling)
// into its two parts.
func splitEnumPath(name string) (typeName, variant string, ok bool) {
	for i := 0; i+1 < len(name); i++ {
		if name[i] == ':' && name[i+1] == ':' {
			return name[:i], name[i+2:], true
		}
	}
	return "", "", false
}

// constructEnumTuple evaluates a tuple-variant enum construction
// (`Type::Variant(args...)` or the prelude's bare `Ok(x)`/`Err(x)`/
// `Some(x)`).
func (it *Interp) constructEnumTuple(fr *frame.Frame, n *ast.CallExpr, typeName, variant string) (value.Value, error) {
	args, err := it.evalExprs(fr, n.Args)
	if err != nil {
		return nil, err
	}
	return &value.Enum{TypeName: typeName, Variant: variant, TupleElems: args}, nil
}

// constructStruct evaluates `TypeName(arg1, arg2, ...)`, the grammar's
// only struct-construction form (there is no brace struct-literal
// syntax): arguments bind positionally against the declared field names
// for a named-field struct, or against numeric "0"/"1"/... field names
// for a tuple struct.
func (it *Interp) constructStruct(fr *frame.Frame, n *ast.CallExpr, sd *ast.StructDecl) (value.Value, error) {
	args, err := it.evalExprs(fr, n.Args)
	if err != nil {
		return nil, err
	}
	s := &value.Struct{TypeName: sd.Name, Fields: map[string]value.Value{}}
	for i := range args {
		name := itoa(i)
		if i < len(sd.Fields) {
			name = sd.Fields[i].Name
		}
		s.Fields[name] = args[i]
		s.Order = append(s.Order, name)
	}
	return s, nil
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

// evalMethodCall dispatches `.method(...)` calls: user-defined impl
// methods registered against the receiver's runtime type name take
// priority, then the builtin method catalog keyed by value.Kind —
// matching spec.md §4.6's "inherent methods shadow prelude methods"
// rule.
func (it *Interp) evalMethodCall(fr *frame.Frame, n *ast.MethodCallExpr) (value.Value, error) {
	recv, err := it.eval(fr, n.Receiver)
	if err != nil {
		return nil, err
	}
	args, err := it.evalExprs(fr, n.Args)
	if err != nil {
		return nil, err
	}

	if typeName := runtimeTypeName(recv); typeName != "" {
		if methods, ok := it.Methods[typeName]; ok {
			if fd, ok := methods[n.Method]; ok {
				return it.callUserMethod(n, fd, recv, args)
			}
		}
	}
	if fn, ok := builtin.LookupMethod(recv.Kind(), n.Method); ok {
		v, err := fn(it, recv, args)
		if err != nil {
			return nil, runtimeErr(n, diag.KindIOFailure, "%s", err.Error())
		}
		return v, nil
	}
	return nil, runtimeErr(n, diag.KindUnknownMethod, "no method %q on %s", n.Method, recv.Kind())
}

func runtimeTypeName(v value.Value) string {
	switch x := v.(type) {
	case *value.Struct:
		return x.TypeName
	case *value.Enum:
		return x.TypeName
	}
	return ""
}

// callUserMethod invokes an impl method with the receiver bound as
// `self`, reusing the same frame/depth machinery as a plain closure call.
func (it *Interp) callUserMethod(site ast.Expr, fd *ast.FunDecl, recv value.Value, args []value.Value) (value.Value, error) {
	if it.depth >= it.MaxDepth {
		return nil, runtimeErr(site, diag.KindRecursionDepth, "recursion depth exceeded (max %d)", it.MaxDepth)
	}
	params := paramNames(fd.Params)
	hasSelf := len(params) > 0 && params[0] == "self"
	expected := params
	if hasSelf {
		expected = params[1:]
	}
	if len(args) != len(expected) {
		return nil, runtimeErr(site, diag.KindWrongArity, "wrong number of arguments: expected %d, got %d", len(expected), len(args))
	}
	callFrame := frame.New(it.Global)
	if hasSelf {
		callFrame.Bind("self", recv)
	}
	for i, p := range expected {
		callFrame.Bind(p, value.Clone(args[i]))
	}

	it.depth++
	defer func() { it.depth-- }()

	result, err := it.evalBlock(callFrame, fd.Body)
	if err != nil {
		return nil, err
	}
	return unwrapReturn(result), nil
}

// callValue invokes any callable runtime value — a user closure or a
// native builtin — used both from evalCall's value path and from
// value.Runtime.Call, through which builtins like .map/.filter invoke a
// Ruchy closure passed to them. site is nil in the latter case, so
// diagnostics fall back to a zero span.
func (it *Interp) callValue(site ast.Expr, callee value.Value, args []value.Value) (value.Value, error) {
	switch fn := callee.(type) {
	case *value.Closure:
		return it.callClosure(site, fn, args)
	case *value.Builtin:
		v, err := fn.Fn(it, args)
		if err != nil {
			return nil, diagAt(site, diag.KindIOFailure, "%s", err.Error())
		}
		return v, nil
	}
	return nil, diagAt(site, diag.KindTypeMismatch, "value is not callable: %s", callee.Kind())
}

// diagAt builds a runtime diagnostic from a call site that may be nil
// (value.Runtime.Call has no enclosing ast.Expr), falling back to a zero
// span in that case.
func diagAt(site ast.Expr, kind diag.Kind, format string, args ...interface{}) error {
	if site == nil {
		return diag.New(kind, source.Span{}, format, args...)
	}
	return diag.New(kind, site.Span(), format, args...)
}

// callClosure binds args into a fresh frame parented on the closure's
// captured frame and evaluates its body, unwrapping a Return the way
// CallFunction unwraps ReturnValue in go-mix. Closures capture their
// defining frame by reference (value.Closure.Frame holds the live
// *frame.Frame, not a copy), so mutations inside the call are visible to
// the closure's definition site afterward.
func (it *Interp) callClosure(site ast.Expr, fn *value.Closure, args []value.Value) (value.Value, error) {
	if it.depth >= it.MaxDepth {
		return nil, diagAt(site, diag.KindRecursionDepth, "recursion depth exceeded (max %d)", it.MaxDepth)
	}
	if len(args) != len(fn.Params) {
		return nil, diagAt(site, diag.KindWrongArity, "wrong number of arguments: expected %d, got %d", len(fn.Params), len(args))
	}
	parent, _ := fn.Frame.(*frame.Frame)
	callFrame := frame.New(parent)
	for i, p := range fn.Params {
		callFrame.Bind(p, value.Clone(args[i]))
	}

	it.depth++
	defer func() { it.depth-- }()

	var result value.Value
	var err error
	if body, ok := fn.Body.(*ast.Block); ok {
		result, err = it.evalBlock(callFrame, body)
	} else if expr, ok := fn.Body.(ast.Expr); ok {
		result, err = it.eval(callFrame, expr)
	} else {
		result, err = &value.Unit{}, nil
	}
	if err != nil {
		return nil, err
	}
	return unwrapReturn(result), nil
}

func (it *Interp) evalFieldAccess(fr *frame.Frame, n *ast.FieldAccessExpr) (value.Value, error) {
	recv, err := it.eval(fr, n.Receiver)
	if err != nil {
		return nil, err
	}
	switch r := recv.(type) {
	case *value.Struct:
		if v, ok := r.Fields[n.Field]; ok {
			return v, nil
		}
		return nil, runtimeErr(n, diag.KindMissingKey, "no field %q on %s", n.Field, r.TypeName)
	case *value.Tuple:
		if idx, ok := tupleFieldIndex(n.Field); ok && idx < len(r.Elems) {
			return r.Elems[idx], nil
		}
		return nil, runtimeErr(n, diag.KindMissingKey, "no tuple field %q", n.Field)
	}
	return nil, runtimeErr(n, diag.KindTypeMismatch, "cannot access field %q on %s", n.Field, recv.Kind())
}

func tupleFieldIndex(name string) (int, bool) {
	if len(name) == 0 {
		return 0, false
	}
	n := 0
	for _, c := range name {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func (it *Interp) evalIndex(fr *frame.Frame, n *ast.IndexExpr) (value.Value, error) {
	recv, err := it.eval(fr, n.Receiver)
	if err != nil {
		return nil, err
	}
	idx, err := it.eval(fr, n.Index)
	if err != nil {
		return nil, err
	}
	switch r := recv.(type) {
	case *value.List:
		i := int(asInt(idx))
		if i < 0 || i >= len(r.Elems) {
			return nil, runtimeErr(n, diag.KindIndexOutOfRange, "index %d out of range (len %d)", i, len(r.Elems))
		}
		return r.Elems[i], nil
	case *value.Tuple:
		i := int(asInt(idx))
		if i < 0 || i >= len(r.Elems) {
			return nil, runtimeErr(n, diag.KindIndexOutOfRange, "index %d out of range (len %d)", i, len(r.Elems))
		}
		return r.Elems[i], nil
	case *value.Map:
		v, ok := r.Get(idx)
		if !ok {
			return nil, runtimeErr(n, diag.KindMissingKey, "missing key %s", idx.Inspect())
		}
		return v, nil
	case *value.Str:
		i := int(asInt(idx))
		runes := []rune(r.Value)
		if i < 0 || i >= len(runes) {
			return nil, runtimeErr(n, diag.KindIndexOutOfRange, "index %d out of range", i)
		}
		return &value.Char{Value: runes[i]}, nil
	}
	return nil, runtimeErr(n, diag.KindTypeMismatch, "cannot index %s", recv.Kind())
}

// evalComprehension desugars list/set/map comprehensions eagerly against
// a concrete iterable value, following the filter-then-map shape
// lowerComprehension builds as a lazy iterator chain for transpilation.
func (it *Interp) evalComprehension(fr *frame.Frame, n *ast.Comprehension) (value.Value, error) {
	iter, err := it.eval(fr, n.Iter)
	if err != nil {
		return nil, err
	}
	elems := iterableElems(iter)

	switch n.Kind {
	case ast.SetComprehension:
		s := value.NewSet()
		err := it.comprehendEach(fr, n, elems, func(v value.Value) { s.Add(v) })
		return s, err
	case ast.MapComprehension:
		m := value.NewMap()
		for _, el := range elems {
			inner := frame.New(fr)
			if !matchPattern(inner, n.Var, el) {
				continue
			}
			ok, err := it.comprehendCond(inner, n.Cond)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			k, err := it.eval(inner, n.KeyElem)
			if err != nil {
				return nil, err
			}
			v, err := it.eval(inner, n.Elem)
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	default:
		var out []value.Value
		err := it.comprehendEach(fr, n, elems, func(v value.Value) { out = append(out, v) })
		return &value.List{Elems: out}, err
	}
}

func (it *Interp) comprehendEach(fr *frame.Frame, n *ast.Comprehension, elems []value.Value, collect func(value.Value)) error {
	for _, el := range elems {
		inner := frame.New(fr)
		if !matchPattern(inner, n.Var, el) {
			continue
		}
		ok, err := it.comprehendCond(inner, n.Cond)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		v, err := it.eval(inner, n.Elem)
		if err != nil {
			return err
		}
		collect(v)
	}
	return nil
}

func (it *Interp) comprehendCond(fr *frame.Frame, cond ast.Expr) (bool, error) {
	if cond == nil {
		return true, nil
	}
	c, err := it.eval(fr, cond)
	if err != nil {
		return false, err
	}
	return value.Truthy(c), nil
}

func iterableElems(v value.Value) []value.Value {
	switch it := v.(type) {
	case *value.List:
		return it.Elems
	case *value.Tuple:
		return it.Elems
	case *value.Set:
		out := make([]value.Value, len(it.Order))
		for i, k := range it.Order {
			out[i] = it.Elements[k]
		}
		return out
	case *value.Range:
		var out []value.Value
		if it.Start <= it.End {
			end := it.End
			if it.Inclusive {
				end++
			}
			for i := it.Start; i < end; i++ {
				out = append(out, &value.Int{Value: i})
			}
		}
		return out
	}
	return nil
}
