/*
File    : ruchy/internal/interp/builtin/tabular.go
*/

// tabular.go wires the value.Tabular row-store into constructor and
// accessor builtins, generalizing go-mix's std/arrays.go and
// std/list.go row-oriented helpers to a row-oriented table value.
package builtin

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

func rowsFromMaps(args []value.Value) ([]map[string]value.Value, []string, error) {
	rows := make([]map[string]value.Value, 0, len(args))
	var columns []string
	seen := make(map[string]bool)
	for _, a := range args {
		m, ok := a.(*value.Map)
		if !ok {
			return nil, nil, fmt.Errorf("tabular: expected a row map, got %s", a.Kind())
		}
		row := make(map[string]value.Value, len(m.Order))
		for _, k := range m.Order {
			key := m.Keys[k].String()
			row[key] = m.Pairs[k]
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
		rows = append(rows, row)
	}
	return rows, columns, nil
}

func init() {
	registerFunc("tabular", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		if len(args) == 1 {
			if list, ok := args[0].(*value.List); ok {
				rows, columns, err := rowsFromMaps(list.Elems)
				if err != nil {
					return nil, err
				}
				return &value.Tabular{Columns: columns, Rows: rows}, nil
			}
		}
		rows, columns, err := rowsFromMaps(args)
		if err != nil {
			return nil, err
		}
		return &value.Tabular{Columns: columns, Rows: rows}, nil
	})

	registerMethod(value.KindTabular, "len", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		t := receiver.(*value.Tabular)
		return &value.Int{Value: int64(len(t.Rows))}, nil
	})

	registerMethod(value.KindTabular, "columns", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		t := receiver.(*value.Tabular)
		elems := make([]value.Value, len(t.Columns))
		for i, c := range t.Columns {
			elems[i] = &value.Str{Value: c}
		}
		return &value.List{Elems: elems}, nil
	})

	registerMethod(value.KindTabular, "row", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		t := receiver.(*value.Tabular)
		idx, _, err := numArg(args, 0)
		if err != nil {
			return nil, err
		}
		i := int(idx)
		if i < 0 || i >= len(t.Rows) {
			return nil, fmt.Errorf("row: index %d out of range", i)
		}
		m := value.NewMap()
		for _, col := range t.Columns {
			if v, ok := t.Rows[i][col]; ok {
				m.Set(&value.Str{Value: col}, v)
			}
		}
		return m, nil
	})

	registerMethod(value.KindTabular, "column", func(rt value.Runtime, receiver value.Value, args []value.Value) (value.Value, error) {
		t := receiver.(*value.Tabular)
		name, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		elems := make([]value.Value, 0, len(t.Rows))
		for _, row := range t.Rows {
			if v, ok := row[name]; ok {
				elems = append(elems, v)
			} else {
				elems = append(elems, &value.Unit{})
			}
		}
		return &value.List{Elems: elems}, nil
	})
}
