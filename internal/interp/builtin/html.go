/*
File    : ruchy/internal/interp/builtin/html.go
*/

// html.go implements a minimal HTML/DOM builtin on a small hand-rolled
// tag-soup scanner rather than a third-party parser: no repo in the
// retrieved corpus imports an HTML parsing library, so this stays on
// the standard library (strings/regexp-free scanning) by design.
package builtin

import (
	"strings"

	"github.com/ruchy-lang/ruchy/internal/interp/value"
)

type htmlNode struct {
	tag      string
	attrs    map[string]string
	text     string
	children []*htmlNode
}

func parseTagSoup(src string) []*htmlNode {
	var roots []*htmlNode
	stack := []*htmlNode{}
	i := 0
	n := len(src)
	for i < n {
		lt := strings.IndexByte(src[i:], '<')
		if lt < 0 {
			text := strings.TrimSpace(src[i:])
			if text != "" {
				appendChild(&roots, stack, &htmlNode{text: text})
			}
			break
		}
		if lt > 0 {
			text := strings.TrimSpace(src[i : i+lt])
			if text != "" {
				appendChild(&roots, stack, &htmlNode{text: text})
			}
		}
		gt := strings.IndexByte(src[i+lt:], '>')
		if gt < 0 {
			break
		}
		tagContent := src[i+lt+1 : i+lt+gt]
		i = i + lt + gt + 1

		if strings.HasPrefix(tagContent, "!") {
			continue
		}
		closing := strings.HasPrefix(tagContent, "/")
		selfClosing := strings.HasSuffix(tagContent, "/")
		tagContent = strings.TrimPrefix(tagContent, "/")
		tagContent = strings.TrimSuffix(tagContent, "/")
		tagContent = strings.TrimSpace(tagContent)

		if closing {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			continue
		}

		name, attrs := parseTag(tagContent)
		node := &htmlNode{tag: name, attrs: attrs}
		appendChild(&roots, stack, node)
		if !selfClosing && !voidElement(name) {
			stack = append(stack, node)
		}
	}
	return roots
}

func appendChild(roots *[]*htmlNode, stack []*htmlNode, node *htmlNode) {
	if len(stack) == 0 {
		*roots = append(*roots, node)
		return
	}
	parent := stack[len(stack)-1]
	parent.children = append(parent.children, node)
}

func voidElement(name string) bool {
	switch name {
	case "br", "img", "hr", "input", "meta", "link":
		return true
	}
	return false
}

func parseTag(content string) (string, map[string]string) {
	fields := splitTagFields(content)
	if len(fields) == 0 {
		return "", nil
	}
	name := strings.ToLower(fields[0])
	attrs := make(map[string]string)
	for _, f := range fields[1:] {
		if eq := strings.IndexByte(f, '='); eq >= 0 {
			key := f[:eq]
			val := strings.Trim(f[eq+1:], `"'`)
			attrs[key] = val
		} else if f != "" {
			attrs[f] = ""
		}
	}
	return name, attrs
}

func splitTagFields(s string) []string {
	var fields []string
	var cur strings.Builder
	inQuote := byte(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote != 0:
			cur.WriteByte(c)
			if c == inQuote {
				inQuote = 0
			}
		case c == '"' || c == '\'':
			inQuote = c
			cur.WriteByte(c)
		case c == ' ' || c == '\t' || c == '\n':
			if cur.Len() > 0 {
				fields = append(fields, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	return fields
}

func findByTag(nodes []*htmlNode, tag string) []*htmlNode {
	var out []*htmlNode
	for _, n := range nodes {
		if n.tag == tag {
			out = append(out, n)
		}
		out = append(out, findByTag(n.children, tag)...)
	}
	return out
}

func collectText(n *htmlNode) string {
	if n.text != "" {
		return n.text
	}
	var parts []string
	for _, c := range n.children {
		if t := collectText(c); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func htmlNodeValue(n *htmlNode) value.Value {
	attrs := value.NewMap()
	for k, v := range n.attrs {
		attrs.Set(&value.Str{Value: k}, &value.Str{Value: v})
	}
	return &value.Struct{
		TypeName: "HtmlNode",
		Fields: map[string]value.Value{
			"tag":   &value.Str{Value: n.tag},
			"text":  &value.Str{Value: collectText(n)},
			"attrs": attrs,
		},
		Order: []string{"tag", "text", "attrs"},
	}
}

func init() {
	registerFunc("html_parse", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		src, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		roots := parseTagSoup(src)
		elems := make([]value.Value, 0, len(roots))
		for _, r := range roots {
			if r.tag != "" {
				elems = append(elems, htmlNodeValue(r))
			}
		}
		return &value.List{Elems: elems}, nil
	})

	registerFunc("html_find_all", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		src, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		tag, err := strArg(args, 1)
		if err != nil {
			return nil, err
		}
		roots := parseTagSoup(src)
		found := findByTag(roots, strings.ToLower(tag))
		elems := make([]value.Value, len(found))
		for i, n := range found {
			elems[i] = htmlNodeValue(n)
		}
		return &value.List{Elems: elems}, nil
	})

	registerFunc("html_text", func(rt value.Runtime, args []value.Value) (value.Value, error) {
		src, err := strArg(args, 0)
		if err != nil {
			return nil, err
		}
		roots := parseTagSoup(src)
		var parts []string
		for _, r := range roots {
			if t := collectText(r); t != "" {
				parts = append(parts, t)
			}
		}
		return &value.Str{Value: strings.Join(parts, " ")}, nil
	})
}
