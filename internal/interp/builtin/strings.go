/*
File    : ruchy/internal/interp/builtin/strings.go
*/

package builtin

import (
	"fmt"
	"strings"

	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

func strArg(args []value.Value, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("missing string argument %d", i)
	}
	s, ok := args[i].(*value.Str)
	if !ok {
		return "", fmt.Errorf("expected a string, got %s", args[i].Kind())
	}
	return s.Value, nil
}

func strMethod(name string, fn func(recv string, args []value.Value) (value.Value, error)) {
	registerMethod(value.KindStr, name, func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		recv, ok := receiver.(*value.Str)
		if !ok {
			return nil, fmt.Errorf("%s called on non-string receiver %s", name, receiver.Kind())
		}
		return fn(recv.Value, args)
	})
}

func init() {
	strMethod("to_upper", func(recv string, args []value.Value) (value.Value, error) {
		return &value.Str{Value: strings.ToUpper(recv)}, nil
	})
	strMethod("to_lower", func(recv string, args []value.Value) (value.Value, error) {
		return &value.Str{Value: strings.ToLower(recv)}, nil
	})
	strMethod("trim", func(recv string, args []value.Value) (value.Value, error) {
		return &value.Str{Value: strings.TrimSpace(recv)}, nil
	})
	strMethod("trim_start", func(recv string, args []value.Value) (value.Value, error) {
		return &value.Str{Value: strings.TrimLeft(recv, " \t\n\r")}, nil
	})
	strMethod("trim_end", func(recv string, args []value.Value) (value.Value, error) {
		return &value.Str{Value: strings.TrimRight(recv, " \t\n\r")}, nil
	})
	strMethod("len", func(recv string, args []value.Value) (value.Value, error) {
		return &value.Int{Value: int64(len([]rune(recv)))}, nil
	})
	strMethod("is_empty", func(recv string, args []value.Value) (value.Value, error) {
		return &value.Bool{Value: len(recv) == 0}, nil
	})
	strMethod("reverse", func(recv string, args []value.Value) (value.Value, error) {
		r := []rune(recv)
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return &value.Str{Value: string(r)}, nil
	})
	strMethod("capitalize", func(recv string, args []value.Value) (value.Value, error) {
		if recv == "" {
			return &value.Str{Value: recv}, nil
		}
		r := []rune(recv)
		return &value.Str{Value: strings.ToUpper(string(r[0])) + string(r[1:])}, nil
	})
	strMethod("split", func(recv string, args []value.Value) (value.Value, error) {
		sep, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		parts := strings.Split(recv, sep)
		elems := make([]value.Value, len(parts))
		for i, p := range parts {
			elems[i] = &value.Str{Value: p}
		}
		return &value.List{Elems: elems}, nil
	})
	strMethod("replace", func(recv string, args []value.Value) (value.Value, error) {
		from, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		to, err := strArg(args, 1)
		if err != nil {
			return nil, err
		}
		return &value.Str{Value: strings.ReplaceAll(recv, from, to)}, nil
	})
	strMethod("contains", func(recv string, args []value.Value) (value.Value, error) {
		sub, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		return &value.Bool{Value: strings.Contains(recv, sub)}, nil
	})
	strMethod("starts_with", func(recv string, args []value.Value) (value.Value, error) {
		prefix, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		return &value.Bool{Value: strings.HasPrefix(recv, prefix)}, nil
	})
	strMethod("ends_with", func(recv string, args []value.Value) (value.Value, error) {
		suffix, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		return &value.Bool{Value: strings.HasSuffix(recv, suffix)}, nil
	})
	strMethod("index_of", func(recv string, args []value.Value) (value.Value, error) {
		sub, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		return &value.Int{Value: int64(strings.Index(recv, sub))}, nil
	})
	strMethod("count", func(recv string, args []value.Value) (value.Value, error) {
		sub, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		return &value.Int{Value: int64(strings.Count(recv, sub))}, nil
	})
	strMethod("repeat", func(recv string, args []value.Value) (value.Value, error) {
		n, _, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		return &value.Str{Value: strings.Repeat(recv, int(n))}, nil
	})
	strMethod("to_string", func(recv string, args []value.Value) (value.Value, error) {
		return &value.Str{Value: recv}, nil
	})
	strMethod("parse_int", func(recv string, args []value.Value) (value.Value, error) {
		var n int64
		if _, err := fmt.Sscanf(strings.TrimSpace(recv), "%d", &n); err != nil {
			return nil, fmt.Errorf("cannot parse %q as an integer", recv)
		}
		return &value.Int{Value: n}, nil
	})
	strMethod("parse_float", func(recv string, args []value.Value) (value.Value, error) {
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(recv), "%g", &f); err != nil {
			return nil, fmt.Errorf("cannot parse %q as a float", recv)
		}
		return &value.Float{Value: f}, nil
	})
	strMethod("chars", func(recv string, args []value.Value) (value.Value, error) {
		r := []rune(recv)
		elems := make([]value.Value, len(r))
		for i, c := range r {
			elems[i] = &value.Char{Value: c}
		}
		return &value.List{Elems: elems}, nil
	})

	registerFunc("join", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("join expects (list, separator)")
		}
		list, ok := args[0].(*value.List)
		if !ok {
			return nil, fmt.Errorf("join expects a list as its first argument")
		}
		sep, err := strArg(args, 1)
		if err != nil {
			return nil, err
		}
		parts := make([]string, len(list.Elems))
		for i, e := range list.Elems {
			parts[i] = e.String()
		}
		return &value.Str{Value: strings.Join(parts, sep)}, nil
	})
	registerMethod(value.KindList, "join", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		return Functions["join"](rt, append([]value.Value{receiver}, args...))
	})
}
