/*
File    : ruchy/internal/transpile/emit.go
*/

package transpile

import (
	"strconv"
	"strings"
)

// indentSize matches go-mix's print_visitor.go INDENT_SIZE constant —
// the one place in the teacher that renders a tree back to text.
const indentSize = 4

// Emit renders prog as formatted, multi-line Rust source (spec.md §4.5
// rule 9: single-line output of the entire program is a defect).
func Emit(prog *RProgram) string {
	var sb strings.Builder
	for i, item := range prog.Items {
		if i > 0 {
			sb.WriteString("\n")
		}
		emitItem(&sb, item, 0)
	}
	if prog.Main != nil {
		if len(prog.Items) > 0 {
			sb.WriteString("\n")
		}
		emitItem(&sb, prog.Main, 0)
	}
	return sb.String()
}

func pad(n int) string { return strings.Repeat(" ", n) }

func emitItem(sb *strings.Builder, item RItem, level int) {
	switch it := item.(type) {
	case *RStruct:
		emitStruct(sb, it, level)
	case *REnum:
		emitEnum(sb, it, level)
	case *RFn:
		emitFn(sb, it, level)
	case *RImpl:
		emitImpl(sb, it, level)
	case *RTrait:
		emitTrait(sb, it, level)
	case *RUse:
		vis := ""
		if it.Pub {
			vis = "pub "
		}
		sb.WriteString(pad(level) + vis + "use " + it.Text + ";\n")
	case *RMod:
		if it.External {
			sb.WriteString(pad(level) + "mod " + it.Name + ";\n")
			return
		}
		sb.WriteString(pad(level) + "mod " + it.Name + " {\n")
		for _, inner := range it.Inline {
			emitItem(sb, inner, level+indentSize)
		}
		sb.WriteString(pad(level) + "}\n")
	}
}

func emitStruct(sb *strings.Builder, s *RStruct, level int) {
	vis := ""
	if s.Pub {
		vis = "pub "
	}
	sb.WriteString(pad(level) + "#[derive(Debug, Clone, PartialEq)]\n")
	if len(s.TupleFields) > 0 {
		sb.WriteString(pad(level) + vis + "struct " + s.Name + "(" + strings.Join(s.TupleFields, ", ") + ");\n")
		return
	}
	if len(s.Fields) == 0 {
		sb.WriteString(pad(level) + vis + "struct " + s.Name + ";\n")
		return
	}
	sb.WriteString(pad(level) + vis + "struct " + s.Name + " {\n")
	for _, f := range s.Fields {
		sb.WriteString(pad(level+indentSize) + "pub " + f.Name + ": " + f.Type + ",\n")
	}
	sb.WriteString(pad(level) + "}\n")
}

func emitEnum(sb *strings.Builder, e *REnum, level int) {
	vis := ""
	if e.Pub {
		vis = "pub "
	}
	sb.WriteString(pad(level) + "#[derive(Debug, Clone, PartialEq)]\n")
	sb.WriteString(pad(level) + vis + "enum " + e.Name + " {\n")
	for _, v := range e.Variants {
		switch {
		case len(v.TupleFields) > 0:
			sb.WriteString(pad(level+indentSize) + v.Name + "(" + strings.Join(v.TupleFields, ", ") + "),\n")
		case len(v.StructFields) > 0:
			sb.WriteString(pad(level+indentSize) + v.Name + " {\n")
			for _, f := range v.StructFields {
				sb.WriteString(pad(level+2*indentSize) + f.Name + ": " + f.Type + ",\n")
			}
			sb.WriteString(pad(level+indentSize) + "},\n")
		default:
			sb.WriteString(pad(level+indentSize) + v.Name + ",\n")
		}
	}
	sb.WriteString(pad(level) + "}\n")
}

func fnSignature(fn *RFn) string {
	vis := ""
	if fn.Pub {
		vis = "pub "
	}
	async := ""
	if fn.Async {
		async = "async "
	}
	parts := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		parts[i] = p.Pattern + ": " + p.Type
	}
	ret := ""
	if fn.Ret != "" && fn.Ret != "()" {
		ret = " -> " + fn.Ret
	}
	return vis + async + "fn " + fn.Name + "(" + strings.Join(parts, ", ") + ")" + ret
}

func emitFn(sb *strings.Builder, fn *RFn, level int) {
	sb.WriteString(pad(level) + fnSignature(fn) + " {\n")
	emitBlockBody(sb, fn.Body, level+indentSize)
	sb.WriteString(pad(level) + "}\n")
}

func emitImpl(sb *strings.Builder, im *RImpl, level int) {
	if im.Trait != "" {
		sb.WriteString(pad(level) + "impl " + im.Trait + " for " + im.Target + " {\n")
	} else {
		sb.WriteString(pad(level) + "impl " + im.Target + " {\n")
	}
	for i, m := range im.Methods {
		if i > 0 {
			sb.WriteString("\n")
		}
		emitFn(sb, m, level+indentSize)
	}
	sb.WriteString(pad(level) + "}\n")
}

func emitTrait(sb *strings.Builder, t *RTrait, level int) {
	vis := ""
	if t.Pub {
		vis = "pub "
	}
	sb.WriteString(pad(level) + vis + "trait " + t.Name + " {\n")
	for _, m := range t.Methods {
		parts := make([]string, len(m.Params))
		for i, p := range m.Params {
			parts[i] = p.Pattern + ": " + p.Type
		}
		ret := ""
		if m.Ret != "" && m.Ret != "()" {
			ret = " -> " + m.Ret
		}
		sig := "fn " + m.Name + "(" + strings.Join(parts, ", ") + ")" + ret
		if m.Default == nil {
			sb.WriteString(pad(level+indentSize) + sig + ";\n")
			continue
		}
		sb.WriteString(pad(level+indentSize) + sig + " {\n")
		emitBlockBody(sb, m.Default, level+2*indentSize)
		sb.WriteString(pad(level+indentSize) + "}\n")
	}
	sb.WriteString(pad(level) + "}\n")
}

func emitBlockBody(sb *strings.Builder, b *RBlock, level int) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		sb.WriteString(pad(level) + emitExpr(s, level) + ";\n")
	}
	if b.Tail != nil {
		if _, isUnit := b.Tail.(*RUnit); !isUnit {
			sb.WriteString(pad(level) + emitExpr(b.Tail, level) + "\n")
		}
	}
}

func emitBlockExpr(b *RBlock, level int) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	emitBlockBody(&sb, b, level+indentSize)
	sb.WriteString(pad(level) + "}")
	return sb.String()
}

func emitExpr(e RExpr, level int) string {
	switch n := e.(type) {
	case nil:
		return ""
	case *RInt:
		if n.Text == "" {
			return strconv.FormatInt(n.Value, 10)
		}
		return n.Text
	case *RFloat:
		return n.Text
	case *RStr:
		lit := strconv.Quote(n.Value)
		if n.Owned {
			return lit + ".to_string()"
		}
		return lit
	case *RChar:
		return "'" + string(n.Value) + "'"
	case *RBool:
		if n.Value {
			return "true"
		}
		return "false"
	case *RUnit:
		return "()"
	case *RIdent:
		return n.Name
	case *RPath:
		return strings.Join(n.Segments, "::")
	case *RUnary:
		return n.Op + emitExpr(n.Operand, level)
	case *RBinary:
		return emitExpr(n.Left, level) + " " + n.Op + " " + emitExpr(n.Right, level)
	case *RCall:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = emitExpr(a, level)
		}
		return emitExpr(n.Callee, level) + "(" + strings.Join(args, ", ") + ")"
	case *RMethodCall:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = emitExpr(a, level)
		}
		return emitExpr(n.Receiver, level) + "." + n.Method + "(" + strings.Join(args, ", ") + ")"
	case *RField:
		return emitExpr(n.Receiver, level) + "." + n.Field
	case *RIndex:
		idx := emitExpr(n.Index, level)
		if n.AsUsize {
			idx += " as usize"
		}
		return emitExpr(n.Receiver, level) + "[" + idx + "]"
	case *RTuple:
		parts := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			parts[i] = emitExpr(el, level)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case *RVecMacro:
		parts := make([]string, len(n.Elems))
		for i, el := range n.Elems {
			parts[i] = emitExpr(el, level)
		}
		return "vec![" + strings.Join(parts, ", ") + "]"
	case *RStructLit:
		parts := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			parts[i] = f.Name + ": " + emitExpr(f.Value, level)
		}
		return n.Name + " { " + strings.Join(parts, ", ") + " }"
	case *RRef:
		if n.Mutable {
			return "&mut " + emitExpr(n.Operand, level)
		}
		return "&" + emitExpr(n.Operand, level)
	case *RTry:
		return emitExpr(n.Operand, level) + "?"
	case *RFormatMacro:
		args := make([]string, 0, len(n.Args)+1)
		if n.FormatStr != "" || len(n.Args) > 0 {
			args = append(args, strconv.Quote(n.FormatStr))
		}
		for _, a := range n.Args {
			args = append(args, emitExpr(a, level))
		}
		return n.Macro + "(" + strings.Join(args, ", ") + ")"
	case *RBuiltinCall:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = emitExpr(a, level)
		}
		return n.Marker + "(" + strings.Join(args, ", ") + ")"
	case *RIf:
		s := "if " + emitExpr(n.Cond, level) + " " + emitBlockExpr(n.Then, level)
		if n.Else != nil {
			if elseIf, ok := n.Else.(*RIf); ok {
				s += " else " + emitExpr(elseIf, level)
			} else if blk, ok := n.Else.(*RBlock); ok {
				s += " else " + emitBlockExpr(blk, level)
			} else {
				s += " else { " + emitExpr(n.Else, level) + " }"
			}
		}
		return s
	case *RMatch:
		var sb strings.Builder
		sb.WriteString("match " + emitExpr(n.Subject, level) + " {\n")
		for _, arm := range n.Arms {
			guard := ""
			if arm.Guard != nil {
				guard = " if " + emitExpr(arm.Guard, level)
			}
			sb.WriteString(pad(level+indentSize) + arm.Pattern + guard + " => " + emitExpr(arm.Body, level+indentSize) + ",\n")
		}
		sb.WriteString(pad(level) + "}")
		return sb.String()
	case *RWhile:
		return "while " + emitExpr(n.Cond, level) + " " + emitBlockExpr(n.Body, level)
	case *RWhileLet:
		return "while let " + n.Pattern + " = " + emitExpr(n.Subject, level) + " " + emitBlockExpr(n.Body, level)
	case *RForIn:
		return "for " + n.Pattern + " in " + emitExpr(n.Iter, level) + " " + emitBlockExpr(n.Body, level)
	case *RLoop:
		return "loop " + emitBlockExpr(n.Body, level)
	case *RBreak:
		if n.Value != nil {
			return "break " + emitExpr(n.Value, level)
		}
		return "break"
	case *RContinue:
		return "continue"
	case *RReturn:
		if n.Value != nil {
			return "return " + emitExpr(n.Value, level)
		}
		return "return"
	case *RLet:
		mut := ""
		if n.Mutable {
			mut = "mut "
		}
		ty := ""
		if n.TypeAnn != "" {
			ty = ": " + n.TypeAnn
		}
		return "let " + mut + n.Pattern + ty + " = " + emitExpr(n.Value, level)
	case *RAssign:
		return emitExpr(n.Target, level) + " " + n.Op + " " + emitExpr(n.Value, level)
	case *RClosure:
		move := ""
		if n.Move {
			move = "move "
		}
		return move + "|" + strings.Join(n.Params, ", ") + "| " + emitExpr(n.Body, level)
	case *RBlock:
		return emitBlockExpr(n, level)
	case *RCast:
		return emitExpr(n.Operand, level) + " as " + n.Type
	}
	return ""
}
