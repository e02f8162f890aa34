/*
File    : ruchy/internal/interp/builtin/json.go
*/

package builtin

import (
	"encoding/json"
	"fmt"

	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

// toJSON converts a runtime Value to a plain Go value encoding/json can
// marshal, the same bridge go-mix's std/json.go builds for its own
// GoMixObject tree.
func toJSON(v value.Value) (interface{}, error) {
	switch t := v.(type) {
	case *value.Int:
		return t.Value, nil
	case *value.Float:
		return t.Value, nil
	case *value.Str:
		return t.Value, nil
	case *value.Bool:
		return t.Value, nil
	case *value.Unit:
		return nil, nil
	case *value.List:
		out := make([]interface{}, len(t.Elems))
		for i, e := range t.Elems {
			jv, err := toJSON(e)
			if err != nil {
				return nil, err
			}
			out[i] = jv
		}
		return out, nil
	case *value.Tuple:
		out := make([]interface{}, len(t.Elems))
		for i, e := range t.Elems {
			jv, err := toJSON(e)
			if err != nil {
				return nil, err
			}
			out[i] = jv
		}
		return out, nil
	case *value.Map:
		out := make(map[string]interface{}, len(t.Order))
		for _, k := range t.Order {
			jv, err := toJSON(t.Pairs[k])
			if err != nil {
				return nil, err
			}
			out[t.Keys[k].String()] = jv
		}
		return out, nil
	case *value.Struct:
		out := make(map[string]interface{}, len(t.Order))
		for _, name := range t.Order {
			jv, err := toJSON(t.Fields[name])
			if err != nil {
				return nil, err
			}
			out[name] = jv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot serialize %s to JSON", v.Kind())
	}
}

// fromJSON converts a Go value produced by encoding/json.Unmarshal into
// a runtime Value.
func fromJSON(v interface{}) value.Value {
	switch t := v.(type) {
	case nil:
		return &value.Unit{}
	case bool:
		return &value.Bool{Value: t}
	case float64:
		if t == float64(int64(t)) {
			return &value.Int{Value: int64(t)}
		}
		return &value.Float{Value: t}
	case string:
		return &value.Str{Value: t}
	case []interface{}:
		elems := make([]value.Value, len(t))
		for i, e := range t {
			elems[i] = fromJSON(e)
		}
		return &value.List{Elems: elems}
	case map[string]interface{}:
		m := value.NewMap()
		for k, val := range t {
			m.Set(&value.Str{Value: k}, fromJSON(val))
		}
		return m
	default:
		return &value.Unit{}
	}
}

func init() {
	parseJSON := func(rt value.Runtime, args []value.Value) (value.Value, error) {
		text, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		var decoded interface{}
		if err := json.Unmarshal([]byte(text), &decoded); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		return fromJSON(decoded), nil
	}
	stringifyJSON := func(rt value.Runtime, args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("stringify_json expects 1 argument")
		}
		encoded, err := toJSON(args[0])
		if err != nil {
			return nil, err
		}
		out, err := json.Marshal(encoded)
		if err != nil {
			return nil, err
		}
		return &value.Str{Value: string(out)}, nil
	}
	// __builtin_parse_json__/__builtin_stringify_json__ are the
	// distinguished markers the transpiler's lowering pass emits for
	// `parse_json`/`JSON::parse` and `stringify_json`/`JSON::stringify`;
	// the interpreter recognizes the plain names directly, and both
	// marker spellings so a module that only ever runs interpreted still
	// resolves them.
	registerFunc("parse_json", parseJSON)
	registerFunc("__builtin_parse_json__", parseJSON)
	registerFunc("stringify_json", stringifyJSON)
	registerFunc("__builtin_stringify_json__", stringifyJSON)
}
