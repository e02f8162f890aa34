/*
File    : ruchy/internal/interp/builtin/math.go
*/

package builtin

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

func numArg(args []value.Value, i int) (float64, bool, error) {
	if i >= len(args) {
		return 0, false, fmt.Errorf("missing numeric argument %d", i)
	}
	switch n := args[i].(type) {
	case *value.Int:
		return float64(n.Value), true, nil
	case *value.Float:
		return n.Value, false, nil
	default:
		return 0, false, fmt.Errorf("expected a number, got %s", args[i].Kind())
	}
}

func floatFn(f func(float64) float64) value.BuiltinFunc {
	return func(rt value.Runtime, args []value.Value) (value.Value, error) {
		x, _, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		return &value.Float{Value: f(x)}, nil
	}
}

func init() {
	registerFunc("sqrt", floatFn(math.Sqrt))
	registerFunc("sin", floatFn(math.Sin))
	registerFunc("cos", floatFn(math.Cos))
	registerFunc("tan", floatFn(math.Tan))
	registerFunc("asin", floatFn(math.Asin))
	registerFunc("acos", floatFn(math.Acos))
	registerFunc("atan", floatFn(math.Atan))
	registerFunc("log", floatFn(math.Log))
	registerFunc("log10", floatFn(math.Log10))
	registerFunc("exp", floatFn(math.Exp))

	registerFunc("abs", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("abs expects 1 argument, got %d", len(args))
		}
		switch n := args[0].(type) {
		case *value.Int:
			if n.Value < 0 {
				return &value.Int{Value: -n.Value}, nil
			}
			return &value.Int{Value: n.Value}, nil
		case *value.Float:
			return &value.Float{Value: math.Abs(n.Value)}, nil
		default:
			return nil, fmt.Errorf("abs expects a number, got %s", n.Kind())
		}
	})

	registerFunc("floor", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		x, _, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		return &value.Int{Value: int64(math.Floor(x))}, nil
	})
	registerFunc("ceil", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		x, _, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		return &value.Int{Value: int64(math.Ceil(x))}, nil
	})
	registerFunc("round", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		x, _, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		return &value.Int{Value: int64(math.Round(x))}, nil
	})

	registerFunc("pow", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		base, baseIsInt, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		exp, expIsInt, err := numArg(args, 1)
		if err != nil {
			return nil, err
		}
		r := math.Pow(base, exp)
		if baseIsInt && expIsInt && exp >= 0 {
			return &value.Int{Value: int64(r)}, nil
		}
		return &value.Float{Value: r}, nil
	})

	registerFunc("min", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		return minMax(args, false)
	})
	registerFunc("max", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		return minMax(args, true)
	})

	registerFunc("random", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		return &value.Float{Value: rand.Float64()}, nil
	})
	registerFunc("random_int", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		lo, _, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		hi, _, err := numArg(args, 1)
		if err != nil {
			return nil, err
		}
		return &value.Int{Value: int64(lo) + rand.Int63n(int64(hi)-int64(lo)+1)}, nil
	})

	for _, name := range []string{"sqrt", "abs", "floor", "ceil", "round", "pow", "min", "max"} {
		registerMethodAll(name, wrapAsMethod(name), value.KindInt, value.KindFloat)
	}
}

func minMax(args []value.Value, wantMax bool) (value.Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("min/max requires at least one argument")
	}
	best := args[0]
	bestVal, _, err := numArg(args, 0)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(args); i++ {
		v, _, err := numArg(args, i)
		if err != nil {
			return nil, err
		}
		if (wantMax && v > bestVal) || (!wantMax && v < bestVal) {
			bestVal, best = v, args[i]
		}
	}
	return best, nil
}

// wrapAsMethod lets `5.sqrt()`/`x.pow(2)`-style method calls reuse the
// same free-function implementation with the receiver prepended to args.
func wrapAsMethod(name string) MethodFunc {
	return func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		fn := Functions[name]
		return fn(rt, append([]value.Value{receiver}, args...))
	}
}
