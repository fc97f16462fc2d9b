// Package xdr implements the protocol's big-endian wire coding for dataset
// bodies. Decoding is driven entirely by the descriptor tree: the stream is
// never asked for lengths except where the format defines them (string
// prefixes, array counts, sequence markers).
package xdr

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/marram/godap/model"
)

// Sequence framing markers. Each instance is preceded by startOfInstance and
// the sequence ends with endOfSequence.
const (
	startOfInstance = 0x5A000000
	endOfSequence   = 0xA5000000
)

// Decode populates a skeleton dataset from its binary body. The stream must
// contain exactly the bytes the descriptor implies; running short is a
// truncation error, while trailing bytes after the last variable are ignored.
func Decode(r io.Reader, ds *model.Dataset) error {
	d := &decoder{r: r}
	for _, c := range ds.Root.Children() {
		if err := d.node(c); err != nil {
			return err
		}
	}
	return nil
}

type decoder struct {
	r io.Reader
}

func (d *decoder) node(n *model.Node) error {
	switch n.Kind {
	case model.KindVar:
		return d.variable(n)
	case model.KindSequence:
		rows, err := d.sequence(n)
		if err != nil {
			return err
		}
		n.SetRows(rows)
		return nil
	default:
		// Structures and grids decode their children in declared order; for a
		// grid that is the primary array followed by each map.
		for _, c := range n.Children() {
			if err := d.node(c); err != nil {
				return err
			}
		}
		return nil
	}
}

func (d *decoder) variable(n *model.Node) error {
	v, err := d.value(n)
	if err != nil {
		return err
	}
	n.SetData(v)
	return nil
}

// value decodes one variable's payload without storing it.
func (d *decoder) value(n *model.Node) (any, error) {
	if len(n.Shape) == 0 {
		return d.scalar(n.Type, n.Path())
	}
	return d.array(n)
}

func (d *decoder) scalar(t model.PrimitiveType, path string) (any, error) {
	switch t {
	case model.Byte:
		buf, err := d.bytes(4, path)
		if err != nil {
			return nil, err
		}
		return buf[0], nil
	case model.Int16:
		v, err := d.uint32(path)
		if err != nil {
			return nil, err
		}
		return int16(int32(v)), nil
	case model.UInt16:
		v, err := d.uint32(path)
		if err != nil {
			return nil, err
		}
		return uint16(v), nil
	case model.Int32:
		v, err := d.uint32(path)
		if err != nil {
			return nil, err
		}
		return int32(v), nil
	case model.UInt32:
		return d.uint32(path)
	case model.Float32:
		v, err := d.uint32(path)
		if err != nil {
			return nil, err
		}
		return math.Float32frombits(v), nil
	case model.Float64:
		buf, err := d.bytes(8, path)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.BigEndian.Uint64(buf)), nil
	case model.String, model.URL:
		return d.str(path)
	default:
		return nil, &model.DecodeError{
			Code:    model.CodeUnknownType,
			Path:    path,
			Message: fmt.Sprintf("cannot size type %v", t),
		}
	}
}

// array decodes a fixed-shape array. Numeric arrays carry their element count
// twice; string and URL arrays carry it once. Either way the count must match
// the declared shape.
func (d *decoder) array(n *model.Node) (any, error) {
	path := n.Path()
	want := n.NumElements()
	count, err := d.uint32(path)
	if err != nil {
		return nil, err
	}
	if int(count) != want {
		return nil, &model.DecodeError{
			Code:    model.CodeShapeMismatch,
			Path:    path,
			Message: fmt.Sprintf("stream declares %d elements, shape wants %d", count, want),
		}
	}
	if n.Type != model.String && n.Type != model.URL {
		again, err := d.uint32(path)
		if err != nil {
			return nil, err
		}
		if again != count {
			return nil, &model.DecodeError{
				Code:    model.CodeShapeMismatch,
				Path:    path,
				Message: fmt.Sprintf("repeated count %d does not match %d", again, count),
			}
		}
	}
	switch n.Type {
	case model.Byte:
		padded := pad4(want)
		buf, err := d.bytes(padded, path)
		if err != nil {
			return nil, err
		}
		out := make([]byte, want)
		copy(out, buf[:want])
		return out, nil
	case model.Int16:
		return decodeN(d, want, path, func(v uint32) int16 { return int16(int32(v)) })
	case model.UInt16:
		return decodeN(d, want, path, func(v uint32) uint16 { return uint16(v) })
	case model.Int32:
		return decodeN(d, want, path, func(v uint32) int32 { return int32(v) })
	case model.UInt32:
		return decodeN(d, want, path, func(v uint32) uint32 { return v })
	case model.Float32:
		return decodeN(d, want, path, math.Float32frombits)
	case model.Float64:
		out := make([]float64, want)
		for i := range out {
			buf, err := d.bytes(8, path)
			if err != nil {
				return nil, err
			}
			out[i] = math.Float64frombits(binary.BigEndian.Uint64(buf))
		}
		return out, nil
	case model.String, model.URL:
		out := make([]string, want)
		for i := range out {
			s, err := d.str(path)
			if err != nil {
				return nil, err
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, &model.DecodeError{
			Code:    model.CodeUnknownType,
			Path:    path,
			Message: fmt.Sprintf("cannot size type %v", n.Type),
		}
	}
}

func decodeN[T any](d *decoder, n int, path string, conv func(uint32) T) ([]T, error) {
	out := make([]T, n)
	for i := range out {
		v, err := d.uint32(path)
		if err != nil {
			return nil, err
		}
		out[i] = conv(v)
	}
	return out, nil
}

// sequence reads stream-framed rows until the end marker. Each row holds one
// value per field in declared order; nested structures and sequences recurse.
func (d *decoder) sequence(n *model.Node) ([][]any, error) {
	path := n.Path()
	rows := [][]any{}
	for {
		marker, err := d.uint32(path)
		if err != nil {
			return nil, err
		}
		switch marker {
		case endOfSequence:
			return rows, nil
		case startOfInstance:
			row := make([]any, len(n.Children()))
			for i, f := range n.Children() {
				v, err := d.fieldValue(f)
				if err != nil {
					return nil, err
				}
				row[i] = v
			}
			rows = append(rows, row)
		default:
			return nil, &model.DecodeError{
				Code:    model.CodeBadMarker,
				Path:    path,
				Message: fmt.Sprintf("unexpected sequence marker %#08x", marker),
			}
		}
	}
}

func (d *decoder) fieldValue(f *model.Node) (any, error) {
	switch f.Kind {
	case model.KindVar:
		return d.value(f)
	case model.KindSequence:
		return d.sequence(f)
	default:
		out := make([]any, len(f.Children()))
		for i, c := range f.Children() {
			v, err := d.fieldValue(c)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
}

func (d *decoder) str(path string) (string, error) {
	n, err := d.uint32(path)
	if err != nil {
		return "", err
	}
	buf, err := d.bytes(pad4(int(n)), path)
	if err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

func (d *decoder) uint32(path string) (uint32, error) {
	buf, err := d.bytes(4, path)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

func (d *decoder) bytes(n int, path string) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, &model.DecodeError{
			Code:    model.CodeTruncated,
			Path:    path,
			Message: fmt.Sprintf("stream ended %d bytes short", n),
			Cause:   err,
		}
	}
	return buf, nil
}

func pad4(n int) int { return (n + 3) &^ 3 }
