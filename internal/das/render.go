package das

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marram/godap/model"
)

// Render produces attribute text for a dataset tree, the inverse of Parse
// followed by merge. Variables appear in declaration order; dataset-level
// containers follow them.
func Render(ds *model.Dataset) string {
	var b strings.Builder
	b.WriteString("Attributes {\n")
	for _, c := range ds.Root.Children() {
		renderNode(&b, c, 1)
	}
	// Dataset-level attributes, including synthetic containers.
	renderAttrs(&b, ds.Root.Attrs, 1)
	b.WriteString("}\n")
	return b.String()
}

func renderNode(b *strings.Builder, n *model.Node, depth int) {
	ind := strings.Repeat("    ", depth)
	fmt.Fprintf(b, "%s%s {\n", ind, n.Name)
	renderAttrs(b, n.Attrs, depth+1)
	for _, c := range n.Children() {
		renderNode(b, c, depth+1)
	}
	fmt.Fprintf(b, "%s}\n", ind)
}

func renderAttrs(b *strings.Builder, attrs model.Attributes, depth int) {
	ind := strings.Repeat("    ", depth)
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := attrs[k].(type) {
		case model.Attributes:
			fmt.Fprintf(b, "%s%s {\n", ind, k)
			renderAttrs(b, v, depth+1)
			fmt.Fprintf(b, "%s}\n", ind)
		case []any:
			fmt.Fprintf(b, "%s%s %s ", ind, attrTypeName(firstOf(v)), k)
			for i, item := range v {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(renderValue(item))
			}
			b.WriteString(";\n")
		default:
			fmt.Fprintf(b, "%s%s %s %s;\n", ind, attrTypeName(v), k, renderValue(v))
		}
	}
}

func firstOf(v []any) any {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

func attrTypeName(v any) string {
	switch v.(type) {
	case int, int32, int64:
		return "Int32"
	case uint, uint32, uint64:
		return "UInt32"
	case float32, float64:
		return "Float64"
	default:
		return "String"
	}
}

func renderValue(v any) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
