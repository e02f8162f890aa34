/*
File    : ruchy/internal/interp/builtin/regex.go
*/

// regex.go generalizes go-mix's std/regex.go wrapping of the standard
// library regexp package to Ruchy's method surface.
package builtin

import (
	"fmt"
	"regexp"

	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

func init() {
	registerFunc("regex_match", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		pat, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		s, err := strArg(args, 1)
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("regex_match: %w", err)
		}
		return &value.Bool{Value: re.MatchString(s)}, nil
	})

	registerFunc("regex_find", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		pat, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		s, err := strArg(args, 1)
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("regex_find: %w", err)
		}
		m := re.FindString(s)
		if m == "" && !re.MatchString(s) {
			return &value.Unit{}, nil
		}
		return &value.Str{Value: m}, nil
	})

	registerFunc("regex_find_all", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		pat, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		s, err := strArg(args, 1)
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("regex_find_all: %w", err)
		}
		matches := re.FindAllString(s, -1)
		elems := make([]value.Value, len(matches))
		for i, m := range matches {
			elems[i] = &value.Str{Value: m}
		}
		return &value.List{Elems: elems}, nil
	})

	registerFunc("regex_replace", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		pat, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		s, err := strArg(args, 1)
		if err != nil {
			return nil, err
		}
		repl, err := strArg(args, 2)
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("regex_replace: %w", err)
		}
		return &value.Str{Value: re.ReplaceAllString(s, repl)}, nil
	})

	registerFunc("regex_split", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		pat, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		s, err := strArg(args, 1)
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("regex_split: %w", err)
		}
		parts := re.Split(s, -1)
		elems := make([]value.Value, len(parts))
		for i, p := range parts {
			elems[i] = &value.Str{Value: p}
		}
		return &value.List{Elems: elems}, nil
	})
}
