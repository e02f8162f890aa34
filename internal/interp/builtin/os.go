/*
File    : ruchy/internal/interp/builtin/os.go
*/

package builtin

import (
	"fmt"
	"os"

	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

func init() {
	registerFunc("env", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		name, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		val, ok := os.LookupEnv(name)
		if !ok {
			return &value.Unit{}, nil
		}
		return &value.Str{Value: val}, nil
	})
	registerFunc("set_env", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		name, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		val, err := strArg(args, 1)
		if err != nil {
			return nil, err
		}
		return &value.Unit{}, os.Setenv(name, val)
	})
	registerFunc("args", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		elems := make([]value.Value, len(os.Args))
		for i, a := range os.Args {
			elems[i] = &value.Str{Value: a}
		}
		return &value.List{Elems: elems}, nil
	})
	registerFunc("pwd", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("pwd: %w", err)
		}
		return &value.Str{Value: wd}, nil
	})
	registerFunc("exit", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		code := int64(0)
		if len(args) > 0 {
			n, _, err := numArg(args, 0)
			if err != nil {
				return nil, err
			}
			code = int64(n)
		}
		os.Exit(int(code))
		return &value.Unit{}, nil
	})
}
