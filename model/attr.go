package model

import "sort"

// Attributes maps attribute names to scalar values, list values ([]any), or a
// nested Attributes for grouped attributes.
type Attributes map[string]any

// Merge copies src into a, overwriting scalars and lists and merging nested
// groups recursively. Merging the same source twice yields the same result.
func (a Attributes) Merge(src Attributes) {
	for k, v := range src {
		if sub, ok := v.(Attributes); ok {
			if dst, ok := a[k].(Attributes); ok {
				dst.Merge(sub)
				continue
			}
			cp := make(Attributes, len(sub))
			cp.Merge(sub)
			a[k] = cp
			continue
		}
		a[k] = v
	}
}

// Keys returns attribute names sorted for deterministic iteration.
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AttributeTable is the parsed form of an attribute-description document:
// dotted paths in document order, each naming one attribute set. Paths are
// matched against the dataset tree during merge; unmatched remainders attach
// as synthetic attribute containers on the deepest matching node.
type AttributeTable struct {
	paths []string
	sets  map[string]Attributes
}

// NewAttributeTable returns an empty table.
func NewAttributeTable() *AttributeTable {
	return &AttributeTable{sets: make(map[string]Attributes)}
}

// Add records attrs under path, merging with any set already present there.
func (t *AttributeTable) Add(path string, attrs Attributes) {
	if set, ok := t.sets[path]; ok {
		set.Merge(attrs)
		return
	}
	t.paths = append(t.paths, path)
	set := make(Attributes, len(attrs))
	set.Merge(attrs)
	t.sets[path] = set
}

// Paths returns the recorded paths in document order.
func (t *AttributeTable) Paths() []string { return t.paths }

// Get returns the attribute set for path, or nil.
func (t *AttributeTable) Get(path string) Attributes { return t.sets[path] }

// Len reports the number of distinct paths.
func (t *AttributeTable) Len() int { return len(t.paths) }
