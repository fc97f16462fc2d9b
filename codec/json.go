// Package codec projects a dataset tree into interchange formats for
// tooling. The wire protocol itself lives under internal/; this package only
// renders already-built trees.
package codec

import (
	json "github.com/goccy/go-json"

	"github.com/marram/godap/model"
)

// DatasetJSON is the serializable view of a dataset.
type DatasetJSON struct {
	Name       string           `json:"name"`
	Attributes model.Attributes `json:"attributes,omitempty"`
	Variables  []NodeJSON       `json:"variables"`
}

// NodeJSON is the serializable view of one tree node.
type NodeJSON struct {
	Name       string           `json:"name"`
	Kind       string           `json:"kind"`
	Type       string           `json:"type,omitempty"`
	Shape      []int            `json:"shape,omitempty"`
	Dimensions []string         `json:"dimensions,omitempty"`
	Attributes model.Attributes `json:"attributes,omitempty"`
	Data       any              `json:"data,omitempty"`
	Children   []NodeJSON       `json:"children,omitempty"`
}

// MarshalDataset renders ds as indented JSON.
func MarshalDataset(ds *model.Dataset) ([]byte, error) {
	return json.MarshalIndent(DatasetView(ds), "", "  ")
}

// DatasetView builds the serializable form without encoding it.
func DatasetView(ds *model.Dataset) DatasetJSON {
	out := DatasetJSON{
		Name:       ds.Name(),
		Attributes: ds.Attributes(),
		Variables:  make([]NodeJSON, 0, len(ds.Children())),
	}
	for _, c := range ds.Children() {
		out.Variables = append(out.Variables, nodeView(c))
	}
	return out
}

func nodeView(n *model.Node) NodeJSON {
	out := NodeJSON{
		Name:       n.Name,
		Kind:       n.Kind.String(),
		Shape:      n.Shape,
		Dimensions: n.Dims,
		Attributes: n.Attrs,
	}
	switch n.Kind {
	case model.KindVar:
		out.Type = n.Type.String()
		out.Data = n.Data()
	case model.KindSequence:
		out.Data = n.Rows()
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, nodeView(c))
	}
	return out
}
