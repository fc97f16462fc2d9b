package model

import "strings"

// Dataset is the root of an opened dataset: a structure node whose name is
// the dataset name from the descriptor. The tree is read-only after
// construction and safe for concurrent readers.
type Dataset struct {
	Root *Node
}

// NewDataset returns a dataset with an empty root structure.
func NewDataset(name string) *Dataset {
	return &Dataset{Root: NewNode(name, KindStructure)}
}

// Name returns the dataset name.
func (d *Dataset) Name() string { return d.Root.Name }

// Keys returns the top-level variable names in declaration order.
func (d *Dataset) Keys() []string { return d.Root.Keys() }

// Children returns the top-level nodes in declaration order.
func (d *Dataset) Children() []*Node { return d.Root.Children() }

// Get resolves a dotted path from the root, returning a *PathError when a
// segment is missing.
func (d *Dataset) Get(path string) (*Node, error) { return d.Root.Get(path) }

// Attributes returns the dataset-level attribute set, including synthetic
// containers attached during merge.
func (d *Dataset) Attributes() Attributes { return d.Root.Attrs }

// Data flattens the tree into plain Go values, one entry per top-level node.
func (d *Dataset) Data() []any {
	out := make([]any, len(d.Root.Children()))
	for i, c := range d.Root.Children() {
		out[i] = c.Data()
	}
	return out
}

// Walk visits every node starting at the root.
func (d *Dataset) Walk(fn func(*Node) bool) { d.Root.Walk(fn) }

// MergeAttributes applies a parsed attribute table to the tree. Each path is
// matched segment by segment; attributes land on the deepest matching node
// and any unmatched remainder becomes a nested attribute container there, so
// global blocks with no structural counterpart (facility metadata and the
// like) survive as dataset-level attributes. Merging the same table twice is
// equivalent to merging it once.
func (d *Dataset) MergeAttributes(t *AttributeTable) {
	if t == nil {
		return
	}
	for _, path := range t.Paths() {
		set := t.Get(path)
		if path == "" {
			// Top-level attributes merge onto the dataset itself.
			d.Root.Attrs.Merge(set)
			continue
		}
		node, rest := d.deepestMatch(path)
		if len(rest) == 0 {
			node.Attrs.Merge(set)
			continue
		}
		// Rebuild the unmatched tail as nested containers.
		attrs := node.Attrs
		for i, seg := range rest {
			if i == len(rest)-1 {
				if dst, ok := attrs[seg].(Attributes); ok {
					dst.Merge(set)
				} else {
					cp := make(Attributes, len(set))
					cp.Merge(set)
					attrs[seg] = cp
				}
				break
			}
			next, ok := attrs[seg].(Attributes)
			if !ok {
				next = make(Attributes)
				attrs[seg] = next
			}
			attrs = next
		}
	}
}

// deepestMatch walks path segments down the tree, returning the deepest node
// reached and the unmatched remainder.
func (d *Dataset) deepestMatch(path string) (*Node, []string) {
	segs := strings.Split(path, ".")
	cur := d.Root
	for i, seg := range segs {
		next := cur.Child(seg)
		if next == nil {
			return cur, segs[i:]
		}
		cur = next
	}
	return cur, nil
}
