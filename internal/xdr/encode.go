package xdr

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/marram/godap/model"
)

// Encode produces the binary body for a populated dataset, the exact inverse
// of Decode. It exists for the test server and for round-trip verification;
// a client never sends bodies.
func Encode(ds *model.Dataset) ([]byte, error) {
	e := &encoder{}
	for _, c := range ds.Root.Children() {
		if err := e.node(c); err != nil {
			return nil, err
		}
	}
	return e.buf.Bytes(), nil
}

type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) node(n *model.Node) error {
	switch n.Kind {
	case model.KindVar:
		return e.value(n, n.Data())
	case model.KindSequence:
		return e.sequence(n, n.Rows())
	default:
		for _, c := range n.Children() {
			if err := e.node(c); err != nil {
				return err
			}
		}
		return nil
	}
}

func (e *encoder) value(n *model.Node, v any) error {
	if len(n.Shape) == 0 {
		return e.scalar(n.Type, n.Path(), v)
	}
	return e.array(n, v)
}

func (e *encoder) scalar(t model.PrimitiveType, path string, v any) error {
	switch t {
	case model.Byte:
		b, ok := v.(byte)
		if !ok {
			return e.badValue(path, t, v)
		}
		e.buf.Write([]byte{b, 0, 0, 0})
	case model.Int16:
		x, ok := v.(int16)
		if !ok {
			return e.badValue(path, t, v)
		}
		e.uint32(uint32(int32(x)))
	case model.UInt16:
		x, ok := v.(uint16)
		if !ok {
			return e.badValue(path, t, v)
		}
		e.uint32(uint32(x))
	case model.Int32:
		x, ok := v.(int32)
		if !ok {
			return e.badValue(path, t, v)
		}
		e.uint32(uint32(x))
	case model.UInt32:
		x, ok := v.(uint32)
		if !ok {
			return e.badValue(path, t, v)
		}
		e.uint32(x)
	case model.Float32:
		x, ok := v.(float32)
		if !ok {
			return e.badValue(path, t, v)
		}
		e.uint32(math.Float32bits(x))
	case model.Float64:
		x, ok := v.(float64)
		if !ok {
			return e.badValue(path, t, v)
		}
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(x))
		e.buf.Write(buf[:])
	case model.String, model.URL:
		s, ok := v.(string)
		if !ok {
			return e.badValue(path, t, v)
		}
		e.str(s)
	default:
		return &model.DecodeError{Code: model.CodeUnknownType, Path: path, Message: fmt.Sprintf("cannot size type %v", t)}
	}
	return nil
}

func (e *encoder) array(n *model.Node, v any) error {
	path := n.Path()
	want := n.NumElements()
	count := sliceLen(v)
	if count != want {
		return &model.DecodeError{
			Code:    model.CodeShapeMismatch,
			Path:    path,
			Message: fmt.Sprintf("value has %d elements, shape wants %d", count, want),
		}
	}
	e.uint32(uint32(count))
	if n.Type != model.String && n.Type != model.URL {
		e.uint32(uint32(count))
	}
	switch vals := v.(type) {
	case []byte:
		e.buf.Write(vals)
		for i := len(vals); i%4 != 0; i++ {
			e.buf.WriteByte(0)
		}
	case []int16:
		for _, x := range vals {
			e.uint32(uint32(int32(x)))
		}
	case []uint16:
		for _, x := range vals {
			e.uint32(uint32(x))
		}
	case []int32:
		for _, x := range vals {
			e.uint32(uint32(x))
		}
	case []uint32:
		for _, x := range vals {
			e.uint32(x)
		}
	case []float32:
		for _, x := range vals {
			e.uint32(math.Float32bits(x))
		}
	case []float64:
		for _, x := range vals {
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], math.Float64bits(x))
			e.buf.Write(buf[:])
		}
	case []string:
		for _, s := range vals {
			e.str(s)
		}
	default:
		return e.badValue(path, n.Type, v)
	}
	return nil
}

func (e *encoder) sequence(n *model.Node, rows [][]any) error {
	path := n.Path()
	fields := n.Children()
	for _, row := range rows {
		if len(row) != len(fields) {
			return &model.DecodeError{
				Code:    model.CodeShapeMismatch,
				Path:    path,
				Message: fmt.Sprintf("row has %d values for %d fields", len(row), len(fields)),
			}
		}
		e.uint32(startOfInstance)
		for i, f := range fields {
			if err := e.fieldValue(f, row[i]); err != nil {
				return err
			}
		}
	}
	e.uint32(endOfSequence)
	return nil
}

func (e *encoder) fieldValue(f *model.Node, v any) error {
	switch f.Kind {
	case model.KindVar:
		return e.value(f, v)
	case model.KindSequence:
		rows, ok := v.([][]any)
		if !ok {
			return e.badValue(f.Path(), f.Type, v)
		}
		return e.sequence(f, rows)
	default:
		vals, ok := v.([]any)
		if !ok || len(vals) != len(f.Children()) {
			return e.badValue(f.Path(), f.Type, v)
		}
		for i, c := range f.Children() {
			if err := e.fieldValue(c, vals[i]); err != nil {
				return err
			}
		}
		return nil
	}
}

func (e *encoder) badValue(path string, t model.PrimitiveType, v any) error {
	return &model.DecodeError{
		Code:    model.CodeShapeMismatch,
		Path:    path,
		Message: fmt.Sprintf("value %T does not match declared type %v", v, t),
	}
}

func (e *encoder) uint32(v uint32) {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	e.buf.Write(buf[:])
}

func (e *encoder) str(s string) {
	e.uint32(uint32(len(s)))
	e.buf.WriteString(s)
	for i := len(s); i%4 != 0; i++ {
		e.buf.WriteByte(0)
	}
}

func sliceLen(v any) int {
	switch x := v.(type) {
	case []byte:
		return len(x)
	case []int16:
		return len(x)
	case []uint16:
		return len(x)
	case []int32:
		return len(x)
	case []uint32:
		return len(x)
	case []float32:
		return len(x)
	case []float64:
		return len(x)
	case []string:
		return len(x)
	default:
		return -1
	}
}
