package dds

import (
	"fmt"
	"strings"

	"github.com/marram/godap/model"
)

// Render produces descriptor text for a dataset, the inverse of Parse. The
// output uses four-space indentation, matching what common servers emit.
func Render(ds *model.Dataset) string {
	var b strings.Builder
	b.WriteString("Dataset {\n")
	for _, c := range ds.Root.Children() {
		renderNode(&b, c, 1)
	}
	fmt.Fprintf(&b, "} %s;\n", ds.Name())
	return b.String()
}

func renderNode(b *strings.Builder, n *model.Node, depth int) {
	ind := strings.Repeat("    ", depth)
	switch n.Kind {
	case model.KindVar:
		fmt.Fprintf(b, "%s%s %s%s;\n", ind, n.Type, n.Name, renderDims(n))
	case model.KindStructure:
		fmt.Fprintf(b, "%sStructure {\n", ind)
		for _, c := range n.Children() {
			renderNode(b, c, depth+1)
		}
		fmt.Fprintf(b, "%s} %s%s;\n", ind, n.Name, renderDims(n))
	case model.KindSequence:
		fmt.Fprintf(b, "%sSequence {\n", ind)
		for _, c := range n.Children() {
			renderNode(b, c, depth+1)
		}
		fmt.Fprintf(b, "%s} %s;\n", ind, n.Name)
	case model.KindGrid:
		fmt.Fprintf(b, "%sGrid {\n", ind)
		fmt.Fprintf(b, "%s ARRAY:\n", ind)
		kids := n.Children()
		if len(kids) > 0 {
			renderNode(b, kids[0], depth+1)
		}
		fmt.Fprintf(b, "%s MAPS:\n", ind)
		for _, m := range kids[1:] {
			renderNode(b, m, depth+1)
		}
		fmt.Fprintf(b, "%s} %s;\n", ind, n.Name)
	}
}

func renderDims(n *model.Node) string {
	var b strings.Builder
	for i, ext := range n.Shape {
		name := ""
		if i < len(n.Dims) {
			name = n.Dims[i]
		}
		if name != "" {
			fmt.Fprintf(&b, "[%s = %d]", name, ext)
		} else {
			fmt.Fprintf(&b, "[%d]", ext)
		}
	}
	return b.String()
}
