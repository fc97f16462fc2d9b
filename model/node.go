package model

import "strings"

// Node is one element of the dataset tree. Children are ordered (declaration
// order) with names unique at a level. Topology is fixed after construction;
// attribute merges and data population happen once, while the tree is built.
type Node struct {
	Name  string
	Kind  Kind
	Type  PrimitiveType // meaningful for KindVar and sequence/grid leaves
	Shape []int         // nil for scalars
	Dims  []string      // dimension names, parallel to Shape; may contain ""

	Attrs Attributes

	parent   *Node
	children []*Node
	index    map[string]int

	data any     // KindVar: scalar or flat []T in row-major order
	rows [][]any // KindSequence: one slice per row, one value per field
}

// NewNode returns a node of the given kind with an empty attribute set.
func NewNode(name string, kind Kind) *Node {
	return &Node{Name: name, Kind: kind, Attrs: make(Attributes)}
}

// NewVar returns a leaf variable node. A nil shape declares a scalar.
func NewVar(name string, t PrimitiveType, shape []int, dims []string) *Node {
	n := NewNode(name, KindVar)
	n.Type = t
	n.Shape = shape
	n.Dims = dims
	return n
}

// Append attaches child as the last child. The name must be unique at this
// level; a duplicate replaces nothing and is reported via the bool result.
func (n *Node) Append(child *Node) bool {
	if n.index == nil {
		n.index = make(map[string]int)
	}
	if _, dup := n.index[child.Name]; dup {
		return false
	}
	child.parent = n
	n.index[child.Name] = len(n.children)
	n.children = append(n.children, child)
	return true
}

// Children returns the child nodes in declaration order. The returned slice
// must not be mutated.
func (n *Node) Children() []*Node { return n.children }

// Keys returns child names in declaration order.
func (n *Node) Keys() []string {
	keys := make([]string, len(n.children))
	for i, c := range n.children {
		keys[i] = c.Name
	}
	return keys
}

// Child returns the named direct child, or nil.
func (n *Node) Child(name string) *Node {
	if n.index == nil {
		return nil
	}
	i, ok := n.index[name]
	if !ok {
		return nil
	}
	return n.children[i]
}

// Get resolves a dotted path relative to n. A missing segment yields a
// *PathError naming the full requested path.
func (n *Node) Get(path string) (*Node, error) {
	cur := n
	for _, seg := range strings.Split(path, ".") {
		next := cur.Child(seg)
		if next == nil {
			return nil, &PathError{Path: path}
		}
		cur = next
	}
	return cur, nil
}

// Path returns the dotted path of n relative to the tree root. The root
// itself (the dataset node) is excluded, matching how the protocol addresses
// variables.
func (n *Node) Path() string {
	var segs []string
	for cur := n; cur != nil && cur.parent != nil; cur = cur.parent {
		segs = append(segs, cur.Name)
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, ".")
}

// NumElements returns the declared element count (the product of the shape;
// 1 for scalars).
func (n *Node) NumElements() int {
	total := 1
	for _, ext := range n.Shape {
		total *= ext
	}
	return total
}

// SetData stores decoded values on a leaf variable: a scalar for an empty
// shape, otherwise a flat row-major slice whose length equals NumElements.
func (n *Node) SetData(v any) { n.data = v }

// SetRows stores decoded sequence rows.
func (n *Node) SetRows(rows [][]any) { n.rows = rows }

// Rows returns the decoded rows of a sequence node.
func (n *Node) Rows() [][]any { return n.rows }

// Data returns the node's decoded values in plain Go form: a scalar or flat
// slice for variables, sequence rows for sequences, and a []any with one
// entry per child for structures and grids.
func (n *Node) Data() any {
	switch n.Kind {
	case KindVar:
		return n.data
	case KindSequence:
		return n.rows
	default:
		out := make([]any, len(n.children))
		for i, c := range n.children {
			out[i] = c.Data()
		}
		return out
	}
}

// Walk visits n and every descendant in depth-first declaration order,
// stopping early if fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}
