/*
File    : ruchy/internal/interp/pattern.go
*/

package interp

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/interp/frame"
	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

// matchPattern reports whether pat matches v, binding every name the
// pattern introduces into fr as a side effect — mirroring
// types.bindPatternType's recursive structure, except against a runtime
// value instead of an inferred type, and actually testing the match
// (bindPatternType always "succeeds" since the checker only tracks
// shape, not concrete values).
func matchPattern(fr *frame.Frame, pat ast.Pattern, v value.Value) bool {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return true
	case *ast.IdentPattern:
		fr.Bind(p.Name, v)
		return true
	case *ast.LitPattern:
		return matchLiteral(p.Value, v)
	case *ast.RangePattern:
		return matchRange(p, v)
	case *ast.TuplePattern:
		tup, ok := v.(*value.Tuple)
		if !ok || len(tup.Elems) != len(p.Elems) {
			return false
		}
		for i, el := range p.Elems {
			if !matchPattern(fr, el, tup.Elems[i]) {
				return false
			}
		}
		return true
	case *ast.ListPattern:
		return matchList(fr, p, v)
	case *ast.StructPattern:
		return matchStruct(fr, p, v)
	case *ast.EnumPattern:
		return matchEnum(fr, p, v)
	}
	return false
}

func matchLiteral(litExpr ast.Expr, v value.Value) bool {
	switch n := litExpr.(type) {
	case *ast.IntLit:
		i, ok := v.(*value.Int)
		return ok && i.Value == n.Value
	case *ast.FloatLit:
		f, ok := v.(*value.Float)
		return ok && f.Value == n.Value
	case *ast.StringLit:
		s, ok := v.(*value.Str)
		return ok && s.Value == n.Value
	case *ast.CharLit:
		c, ok := v.(*value.Char)
		return ok && c.Value == n.Value
	case *ast.BoolLit:
		b, ok := v.(*value.Bool)
		return ok && b.Value == n.Value
	case *ast.UnaryExpr:
		if n.Op != "-" {
			return false
		}
		switch inner := n.Operand.(type) {
		case *ast.IntLit:
			i, ok := v.(*value.Int)
			return ok && i.Value == -inner.Value
		case *ast.FloatLit:
			f, ok := v.(*value.Float)
			return ok && f.Value == -inner.Value
		}
	}
	return false
}

func matchRange(p *ast.RangePattern, v value.Value) bool {
	iv := asInt(v)
	var lo, hi int64
	if p.Start != nil {
		lo = exprLiteralInt(p.Start)
	}
	if p.End != nil {
		hi = exprLiteralInt(p.End)
	}
	if p.Inclusive {
		return iv >= lo && iv <= hi
	}
	return iv >= lo && iv < hi
}

func exprLiteralInt(e ast.Expr) int64 {
	switch n := e.(type) {
	case *ast.IntLit:
		return n.Value
	case *ast.UnaryExpr:
		if n.Op == "-" {
			return -exprLiteralInt(n.Operand)
		}
	}
	return 0
}

func matchList(fr *frame.Frame, p *ast.ListPattern, v value.Value) bool {
	list, ok := v.(*value.List)
	if !ok {
		return false
	}
	hasRest := p.RestIndex >= 0 && p.RestIndex <= len(p.Elems)
	if !hasRest {
		if len(list.Elems) != len(p.Elems) {
			return false
		}
		for i, el := range p.Elems {
			if !matchPattern(fr, el, list.Elems[i]) {
				return false
			}
		}
		return true
	}
	before := p.Elems[:p.RestIndex]
	after := p.Elems[p.RestIndex:]
	if len(list.Elems) < len(before)+len(after) {
		return false
	}
	for i, el := range before {
		if !matchPattern(fr, el, list.Elems[i]) {
			return false
		}
	}
	restEnd := len(list.Elems) - len(after)
	for i, el := range after {
		if !matchPattern(fr, el, list.Elems[restEnd+i]) {
			return false
		}
	}
	if p.RestName != "" {
		fr.Bind(p.RestName, &value.List{Elems: append([]value.Value(nil), list.Elems[p.RestIndex:restEnd]...)})
	}
	return true
}

func matchStruct(fr *frame.Frame, p *ast.StructPattern, v value.Value) bool {
	s, ok := v.(*value.Struct)
	if !ok || (p.TypeName != "" && s.TypeName != p.TypeName) {
		return false
	}
	for _, f := range p.Fields {
		fv, exists := s.Fields[f.Name]
		if !exists {
			return false
		}
		if f.Pattern == nil {
			fr.Bind(f.Name, fv)
			continue
		}
		if !matchPattern(fr, f.Pattern, fv) {
			return false
		}
	}
	return true
}

func matchEnum(fr *frame.Frame, p *ast.EnumPattern, v value.Value) bool {
	e, ok := v.(*value.Enum)
	if !ok || e.Variant != p.Variant {
		return false
	}
	if p.TypeName != "" && e.TypeName != p.TypeName {
		return false
	}
	if len(p.TupleElems) > 0 {
		if len(e.TupleElems) != len(p.TupleElems) {
			return false
		}
		for i, el := range p.TupleElems {
			if !matchPattern(fr, el, e.TupleElems[i]) {
				return false
			}
		}
		return true
	}
	if len(p.StructFields) > 0 {
		for _, f := range p.StructFields {
			fv, exists := e.StructFields[f.Name]
			if !exists {
				return false
			}
			if f.Pattern == nil {
				fr.Bind(f.Name, fv)
				continue
			}
			if !matchPattern(fr, f.Pattern, fv) {
				return false
			}
		}
	}
	return true
}
