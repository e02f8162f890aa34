/*
File    : ruchy/internal/interp/builtin/collections.go
*/

package builtin

import (
	"fmt"
	"sort"

	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

func listMethod(name string, fn func(recv *value.List, args []value.Value, rt value.Runtime) (value.Value, error)) {
	registerMethod(value.KindList, name, func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		recv, ok := receiver.(*value.List)
		if !ok {
			return nil, fmt.Errorf("%s called on non-list receiver %s", name, receiver.Kind())
		}
		return fn(recv, args, rt)
	})
}

func init() {
	registerMethodAll("len", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		switch r := receiver.(type) {
		case *value.List:
			return &value.Int{Value: int64(len(r.Elems))}, nil
		case *value.Tuple:
			return &value.Int{Value: int64(len(r.Elems))}, nil
		case *value.Map:
			return &value.Int{Value: int64(len(r.Order))}, nil
		case *value.Set:
			return &value.Int{Value: int64(len(r.Order))}, nil
		default:
			return nil, fmt.Errorf("len has no meaning for %s", receiver.Kind())
		}
	}, value.KindList, value.KindTuple, value.KindMap, value.KindSet)

	registerMethodAll("is_empty", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		n, err := Methods[receiver.Kind()]["len"](rt, receiver, nil)
		if err != nil {
			return nil, err
		}
		return &value.Bool{Value: n.(*value.Int).Value == 0}, nil
	}, value.KindList, value.KindTuple, value.KindMap, value.KindSet)

	registerMethodAll("clone", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		return value.Clone(receiver), nil
	}, value.KindList, value.KindTuple, value.KindStruct)

	listMethod("push", func(recv *value.List, args []value.Value, rt value.Runtime) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("push expects 1 argument")
		}
		recv.Elems = append(recv.Elems, args[0])
		return &value.Unit{}, nil
	})
	listMethod("pop", func(recv *value.List, args []value.Value, rt value.Runtime) (value.Value, error) {
		if len(recv.Elems) == 0 {
			return nil, fmt.Errorf("pop on an empty list")
		}
		last := recv.Elems[len(recv.Elems)-1]
		recv.Elems = recv.Elems[:len(recv.Elems)-1]
		return last, nil
	})
	listMethod("first", func(recv *value.List, args []value.Value, rt value.Runtime) (value.Value, error) {
		if len(recv.Elems) == 0 {
			return nil, fmt.Errorf("first on an empty list")
		}
		return recv.Elems[0], nil
	})
	listMethod("last", func(recv *value.List, args []value.Value, rt value.Runtime) (value.Value, error) {
		if len(recv.Elems) == 0 {
			return nil, fmt.Errorf("last on an empty list")
		}
		return recv.Elems[len(recv.Elems)-1], nil
	})
	listMethod("contains", func(recv *value.List, args []value.Value, rt value.Runtime) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("contains expects 1 argument")
		}
		for _, e := range recv.Elems {
			if value.Equal(e, args[0]) {
				return &value.Bool{Value: true}, nil
			}
		}
		return &value.Bool{Value: false}, nil
	})
	listMethod("reverse", func(recv *value.List, args []value.Value, rt value.Runtime) (value.Value, error) {
		n := len(recv.Elems)
		out := make([]value.Value, n)
		for i, e := range recv.Elems {
			out[n-1-i] = e
		}
		return &value.List{Elems: out}, nil
	})
	listMethod("sort", func(recv *value.List, args []value.Value, rt value.Runtime) (value.Value, error) {
		out := append([]value.Value(nil), recv.Elems...)
		var sortErr error
		sort.SliceStable(out, func(i, j int) bool {
			less, err := lessThan(out[i], out[j])
			if err != nil {
				sortErr = err
			}
			return less
		})
		if sortErr != nil {
			return nil, sortErr
		}
		return &value.List{Elems: out}, nil
	})
	listMethod("map", func(recv *value.List, args []value.Value, rt value.Runtime) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("map expects 1 function argument")
		}
		out := make([]value.Value, len(recv.Elems))
		for i, e := range recv.Elems {
			r, err := rt.Call(args[0], []value.Value{e})
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return &value.List{Elems: out}, nil
	})
	listMethod("filter", func(recv *value.List, args []value.Value, rt value.Runtime) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("filter expects 1 predicate argument")
		}
		var out []value.Value
		for _, e := range recv.Elems {
			r, err := rt.Call(args[0], []value.Value{e})
			if err != nil {
				return nil, err
			}
			if value.Truthy(r) {
				out = append(out, e)
			}
		}
		return &value.List{Elems: out}, nil
	})
	listMethod("reduce", func(recv *value.List, args []value.Value, rt value.Runtime) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("reduce expects (initial, function)")
		}
		acc := args[0]
		for _, e := range recv.Elems {
			r, err := rt.Call(args[1], []value.Value{acc, e})
			if err != nil {
				return nil, err
			}
			acc = r
		}
		return acc, nil
	})
	listMethod("find", func(recv *value.List, args []value.Value, rt value.Runtime) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("find expects 1 predicate argument")
		}
		for _, e := range recv.Elems {
			r, err := rt.Call(args[0], []value.Value{e})
			if err != nil {
				return nil, err
			}
			if value.Truthy(r) {
				return e, nil
			}
		}
		return &value.Unit{}, nil
	})
	listMethod("any", func(recv *value.List, args []value.Value, rt value.Runtime) (value.Value, error) {
		for _, e := range recv.Elems {
			r, err := rt.Call(args[0], []value.Value{e})
			if err != nil {
				return nil, err
			}
			if value.Truthy(r) {
				return &value.Bool{Value: true}, nil
			}
		}
		return &value.Bool{Value: false}, nil
	})
	listMethod("all", func(recv *value.List, args []value.Value, rt value.Runtime) (value.Value, error) {
		for _, e := range recv.Elems {
			r, err := rt.Call(args[0], []value.Value{e})
			if err != nil {
				return nil, err
			}
			if !value.Truthy(r) {
				return &value.Bool{Value: false}, nil
			}
		}
		return &value.Bool{Value: true}, nil
	})

	// Map methods
	registerMethod(value.KindMap, "get", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		m := receiver.(*value.Map)
		if len(args) != 1 {
			return nil, fmt.Errorf("get expects 1 argument")
		}
		v, ok := m.Get(args[0])
		if !ok {
			return &value.Unit{}, nil
		}
		return v, nil
	})
	registerMethod(value.KindMap, "set", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		m := receiver.(*value.Map)
		if len(args) != 2 {
			return nil, fmt.Errorf("set expects (key, value)")
		}
		m.Set(args[0], args[1])
		return &value.Unit{}, nil
	})
	registerMethod(value.KindMap, "contains_key", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		m := receiver.(*value.Map)
		_, ok := m.Get(args[0])
		return &value.Bool{Value: ok}, nil
	})
	registerMethod(value.KindMap, "remove", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		m := receiver.(*value.Map)
		return &value.Bool{Value: m.Delete(args[0])}, nil
	})
	registerMethod(value.KindMap, "keys", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		m := receiver.(*value.Map)
		out := make([]value.Value, len(m.Order))
		for i, k := range m.Order {
			out[i] = m.Keys[k]
		}
		return &value.List{Elems: out}, nil
	})
	registerMethod(value.KindMap, "values", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		m := receiver.(*value.Map)
		out := make([]value.Value, len(m.Order))
		for i, k := range m.Order {
			out[i] = m.Pairs[k]
		}
		return &value.List{Elems: out}, nil
	})

	// Set methods
	registerMethod(value.KindSet, "add", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		s := receiver.(*value.Set)
		return &value.Bool{Value: s.Add(args[0])}, nil
	})
	registerMethod(value.KindSet, "contains", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		s := receiver.(*value.Set)
		return &value.Bool{Value: s.Contains(args[0])}, nil
	})

	// Tuple access
	registerMethod(value.KindTuple, "get", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		t := receiver.(*value.Tuple)
		idx, _, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		i := int(idx)
		if i < 0 || i >= len(t.Elems) {
			return nil, fmt.Errorf("tuple index %d out of bounds", i)
		}
		return t.Elems[i], nil
	})
}

func lessThan(a, b value.Value) (bool, error) {
	switch x := a.(type) {
	case *value.Int:
		y, ok := b.(*value.Int)
		if !ok {
			return false, fmt.Errorf("cannot compare %s with %s", a.Kind(), b.Kind())
		}
		return x.Value < y.Value, nil
	case *value.Float:
		y, ok := b.(*value.Float)
		if !ok {
			return false, fmt.Errorf("cannot compare %s with %s", a.Kind(), b.Kind())
		}
		return x.Value < y.Value, nil
	case *value.Str:
		y, ok := b.(*value.Str)
		if !ok {
			return false, fmt.Errorf("cannot compare %s with %s", a.Kind(), b.Kind())
		}
		return x.Value < y.Value, nil
	default:
		return false, fmt.Errorf("%s is not orderable", a.Kind())
	}
}
