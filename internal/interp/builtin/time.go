/*
File    : ruchy/internal/interp/builtin/time.go
*/

package builtin

import (
	"time"

	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

func init() {
	registerFunc("now", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		return &value.Int{Value: time.Now().UnixMilli()}, nil
	})
	registerFunc("sleep_ms", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		ms, _, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		time.Sleep(time.Duration(ms) * time.Millisecond)
		return &value.Unit{}, nil
	})
	registerFunc("format_time", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		ms, _, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		layout, err := strArg(args, 1)
		if err != nil {
			return nil, err
		}
		t := time.UnixMilli(int64(ms)).UTC()
		return &value.Str{Value: t.Format(goLayout(layout))}, nil
	})
}

// goLayout translates the handful of strftime-ish directives the
// prelude documents into Go's reference-time layout strings.
func goLayout(layout string) string {
	replacer := map[string]string{
		"%Y": "2006", "%m": "01", "%d": "02",
		"%H": "15", "%M": "04", "%S": "05",
	}
	out := []rune(layout)
	var sb []rune
	for i := 0; i < len(out); i++ {
		if i+1 < len(out) && out[i] == '%' {
			key := string(out[i : i+2])
			if repl, ok := replacer[key]; ok {
				sb = append(sb, []rune(repl)...)
				i++
				continue
			}
		}
		sb = append(sb, out[i])
	}
	return string(sb)
}
