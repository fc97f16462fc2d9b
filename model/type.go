package model

import "strings"

// PrimitiveType enumerates the protocol's atomic types. Int16 and UInt16
// travel on the wire as 32-bit values but are stored at their declared width.
type PrimitiveType int

const (
	Byte PrimitiveType = iota
	Int16
	UInt16
	Int32
	UInt32
	Float32
	Float64
	String
	URL
)

var typeNames = map[PrimitiveType]string{
	Byte:    "Byte",
	Int16:   "Int16",
	UInt16:  "UInt16",
	Int32:   "Int32",
	UInt32:  "UInt32",
	Float32: "Float32",
	Float64: "Float64",
	String:  "String",
	URL:     "Url",
}

func (t PrimitiveType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "Unknown"
}

// ParsePrimitive resolves a declared type word. Matching is case-insensitive
// because servers are inconsistent about capitalization ("UInt32" vs "Uint32").
func ParsePrimitive(word string) (PrimitiveType, bool) {
	for t, name := range typeNames {
		if strings.EqualFold(name, word) {
			return t, true
		}
	}
	return 0, false
}

// Kind classifies a node in the dataset tree.
type Kind int

const (
	KindVar       Kind = iota // scalar or array of a primitive type
	KindStructure             // ordered named fields; the dataset root is one
	KindSequence              // stream-framed rows sharing one field signature
	KindGrid                  // primary array plus one map array per axis
)

func (k Kind) String() string {
	switch k {
	case KindVar:
		return "Var"
	case KindStructure:
		return "Structure"
	case KindSequence:
		return "Sequence"
	case KindGrid:
		return "Grid"
	default:
		return "Unknown"
	}
}
