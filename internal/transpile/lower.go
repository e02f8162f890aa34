/*
File    : ruchy/internal/transpile/lower.go
*/

package transpile

import (
	"strings"

	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/types"
)

// builtinCatalog maps both the plain-name and namespaced spellings of
// the prelude's fixed builtin catalog to the same distinguished marker
// (spec.md §4.5 rule 8). Checked before ordinary call lowering so user
// shadowing of these names cannot hide the builtin at its call site.
var builtinCatalog = map[string]string{
	"parse_json":      "__builtin_parse_json__",
	"JSON::parse":      "__builtin_parse_json__",
	"stringify_json":  "__builtin_stringify_json__",
	"JSON::stringify":  "__builtin_stringify_json__",
	"read_file":       "__builtin_read_file__",
	"File::read":       "__builtin_read_file__",
	"open":            "__builtin_open__",
	"File::open":       "__builtin_open__",
}

// Lowerer carries the checker's type environment and Copy table. No
// lowering rule reads either of them: lowering is purely syntactic and
// inserts no `.clone()` calls.
type Lowerer struct {
	Env  *types.Env
	Copy map[string]bool
}

// NewLowerer builds a Lowerer from a checker's post-CheckModule state.
func NewLowerer(env *types.Env, copy map[string]bool) *Lowerer {
	return &Lowerer{Env: env, Copy: copy}
}

// LowerModule lowers every declaration plus the module's top-level
// statements (synthesized into `fn main` per spec.md §4.5 rule 1,
// unless the module already declares one).
func (lw *Lowerer) LowerModule(mod *ast.Module) *RProgram {
	prog := &RProgram{}
	hasMain := false
	for _, d := range mod.Decls {
		item := lw.lowerDecl(d)
		if item != nil {
			prog.Items = append(prog.Items, item)
		}
		if fd, ok := d.(*ast.FunDecl); ok && fd.Name == "main" {
			hasMain = true
		}
	}
	if !hasMain && len(mod.TopLevelStmts) > 0 {
		blk := &RBlock{}
		for i, stmt := range mod.TopLevelStmts {
			e := lw.lowerExpr(stmt)
			if i == len(mod.TopLevelStmts)-1 {
				blk.Tail = e
			} else {
				blk.Stmts = append(blk.Stmts, e)
			}
		}
		prog.Main = &RFn{Name: "main", Body: blk}
	}
	return prog
}

func (lw *Lowerer) lowerDecl(d ast.Decl) RItem {
	switch decl := d.(type) {
	case *ast.StructDecl:
		return lw.lowerStructDecl(decl)
	case *ast.EnumDecl:
		return lw.lowerEnumDecl(decl)
	case *ast.FunDecl:
		return lw.lowerFunDecl(decl)
	case *ast.ImplDecl:
		return lw.lowerImplDecl(decl)
	case *ast.TraitDecl:
		return lw.lowerTraitDecl(decl)
	case *ast.UseDecl:
		return &RUse{Text: usePathToRust(decl.Path), Pub: decl.Pub}
	case *ast.ModDecl:
		if decl.Inline != nil {
			m := &RMod{Name: decl.Name}
			for _, inner := range decl.Inline.Decls {
				if item := lw.lowerDecl(inner); item != nil {
					m.Inline = append(m.Inline, item)
				}
			}
			return m
		}
		return &RMod{Name: decl.Name, External: true}
	}
	return nil
}

func (lw *Lowerer) lowerStructDecl(sd *ast.StructDecl) *RStruct {
	rs := &RStruct{Name: sd.Name, Pub: sd.Pub}
	for _, f := range sd.Fields {
		rs.Fields = append(rs.Fields, RField2{Name: f.Name, Type: lowerType(f.TypeAnn)})
	}
	for _, t := range sd.TupleFields {
		rs.TupleFields = append(rs.TupleFields, lowerType(t))
	}
	return rs
}

func (lw *Lowerer) lowerEnumDecl(ed *ast.EnumDecl) *REnum {
	re := &REnum{Name: ed.Name, Pub: ed.Pub}
	for _, v := range ed.Variants {
		rv := REnumVariant{Name: v.Name}
		for _, t := range v.TupleFields {
			rv.TupleFields = append(rv.TupleFields, lowerType(t))
		}
		for _, f := range v.StructFields {
			rv.StructFields = append(rv.StructFields, RField2{Name: f.Name, Type: lowerType(f.TypeAnn)})
		}
		re.Variants = append(re.Variants, rv)
	}
	return re
}

func (lw *Lowerer) lowerFunDecl(fd *ast.FunDecl) *RFn {
	fn := &RFn{Name: fd.Name, Pub: fd.Pub, Async: fd.Async, Ret: "unit"}
	for _, p := range fd.Params {
		fn.Params = append(fn.Params, RParam{Pattern: patternToRust(p.Pattern), Type: lowerType(p.TypeAnn)})
	}
	if fd.ReturnType != nil {
		fn.Ret = lowerType(fd.ReturnType)
	}
	if fd.Body != nil {
		fn.Body = lw.lowerBlock(fd.Body)
		if fn.Ret == "String" {
			wrapBlockTailToString(fn.Body)
		}
	}
	return fn
}

func (lw *Lowerer) lowerImplDecl(id *ast.ImplDecl) *RImpl {
	ri := &RImpl{Trait: id.TraitName, Target: lowerType(id.TargetType)}
	for _, m := range id.Methods {
		ri.Methods = append(ri.Methods, lw.lowerFunDecl(m))
	}
	return ri
}

func (lw *Lowerer) lowerTraitDecl(td *ast.TraitDecl) *RTrait {
	rt := &RTrait{Name: td.Name, Pub: td.Pub}
	for _, m := range td.Methods {
		tm := RTraitMethod{Name: m.Name, Ret: "unit"}
		for _, p := range m.Params {
			tm.Params = append(tm.Params, RParam{Pattern: patternToRust(p.Pattern), Type: lowerType(p.TypeAnn)})
		}
		if m.ReturnType != nil {
			tm.Ret = lowerType(m.ReturnType)
		}
		if m.Default != nil {
			tm.Default = lw.lowerBlock(m.Default)
		}
		rt.Methods = append(rt.Methods, tm)
	}
	return rt
}

func usePathToRust(up ast.UsePath) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(up.Segments, "::"))
	if len(up.Group) > 0 {
		if sb.Len() > 0 {
			sb.WriteString("::")
		}
		sb.WriteString("{")
		parts := make([]string, len(up.Group))
		for i, g := range up.Group {
			parts[i] = usePathToRust(g)
		}
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString("}")
		return sb.String()
	}
	if up.Wildcard {
		if sb.Len() > 0 {
			sb.WriteString("::")
		}
		sb.WriteString("*")
	}
	if up.Alias != "" {
		sb.WriteString(" as ")
		sb.WriteString(up.Alias)
	}
	return sb.String()
}

func lowerType(t ast.TypeExpr) string {
	if t == nil {
		return "()"
	}
	switch tt := t.(type) {
	case *ast.PrimitiveType:
		switch tt.Name {
		case "unit":
			return "()"
		case "str":
			return "&str"
		default:
			return tt.Name
		}
	case *ast.NamedType:
		path := strings.Join(tt.Path, "::")
		if len(tt.Args) == 0 {
			return path
		}
		parts := make([]string, len(tt.Args))
		for i, a := range tt.Args {
			parts[i] = lowerType(a)
		}
		return path + "<" + strings.Join(parts, ", ") + ">"
	case *ast.TupleType:
		parts := make([]string, len(tt.Elems))
		for i, e := range tt.Elems {
			parts[i] = lowerType(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.FuncType:
		parts := make([]string, len(tt.Params))
		for i, p := range tt.Params {
			parts[i] = lowerType(p)
		}
		ret := "()"
		if tt.Return != nil {
			ret = lowerType(tt.Return)
		}
		return "fn(" + strings.Join(parts, ", ") + ") -> " + ret
	case *ast.RefType:
		prefix := "&"
		if tt.Mutable {
			prefix = "&mut "
		}
		return prefix + lowerType(tt.Inner)
	case *ast.ArrayType:
		return "Vec<" + lowerType(tt.Elem) + ">"
	case *ast.MapTypeExpr:
		return "HashMap<" + lowerType(tt.Key) + ", " + lowerType(tt.Value) + ">"
	case *ast.SetTypeExpr:
		return "HashSet<" + lowerType(tt.Elem) + ">"
	}
	return "()"
}

func patternToRust(p ast.Pattern) string {
	switch pat := p.(type) {
	case *ast.IdentPattern:
		if pat.Mutable {
			return "mut " + pat.Name
		}
		return pat.Name
	case *ast.WildcardPattern:
		return "_"
	case *ast.TuplePattern:
		parts := make([]string, len(pat.Elems))
		for i, el := range pat.Elems {
			parts[i] = patternToRust(el)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *ast.ListPattern:
		parts := make([]string, 0, len(pat.Elems)+1)
		for i, el := range pat.Elems {
			if i == pat.RestIndex {
				if pat.RestName != "" {
					parts = append(parts, pat.RestName+" @ ..")
				} else {
					parts = append(parts, "..")
				}
			}
			parts = append(parts, patternToRust(el))
		}
		if pat.RestIndex == len(pat.Elems) {
			if pat.RestName != "" {
				parts = append(parts, pat.RestName+" @ ..")
			} else {
				parts = append(parts, "..")
			}
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.StructPattern:
		parts := make([]string, 0, len(pat.Fields))
		for _, f := range pat.Fields {
			if f.Pattern == nil {
				parts = append(parts, f.Name)
			} else {
				parts = append(parts, f.Name+": "+patternToRust(f.Pattern))
			}
		}
		if pat.HasRest {
			parts = append(parts, "..")
		}
		return pat.TypeName + " { " + strings.Join(parts, ", ") + " }"
	case *ast.EnumPattern:
		name := pat.Variant
		if pat.TypeName != "" {
			name = pat.TypeName + "::" + pat.Variant
		}
		if len(pat.TupleElems) > 0 {
			parts := make([]string, len(pat.TupleElems))
			for i, el := range pat.TupleElems {
				parts[i] = patternToRust(el)
			}
			return name + "(" + strings.Join(parts, ", ") + ")"
		}
		if len(pat.StructFields) > 0 {
			parts := make([]string, len(pat.StructFields))
			for i, f := range pat.StructFields {
				if f.Pattern == nil {
					parts[i] = f.Name
				} else {
					parts[i] = f.Name + ": " + patternToRust(f.Pattern)
				}
			}
			return name + " { " + strings.Join(parts, ", ") + " }"
		}
		return name
	case *ast.LitPattern:
		return exprToLiteralText(pat.Value)
	case *ast.RangePattern:
		op := ".."
		if pat.Inclusive {
			op = "..="
		}
		return exprToLiteralText(pat.Start) + op + exprToLiteralText(pat.End)
	}
	return "_"
}

// exprToLiteralText renders the handful of expression kinds that can
// appear inside a literal/range pattern.
func exprToLiteralText(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.IntLit:
		return n.Text
	case *ast.FloatLit:
		return n.Text
	case *ast.StringLit:
		return "\"" + n.Value + "\""
	case *ast.CharLit:
		return "'" + string(n.Value) + "'"
	case *ast.BoolLit:
		if n.Value {
			return "true"
		}
		return "false"
	case *ast.UnaryExpr:
		return n.Op + exprToLiteralText(n.Operand)
	}
	return ""
}
