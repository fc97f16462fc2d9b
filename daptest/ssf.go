package daptest

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/marram/godap/internal/scan"
	"github.com/marram/godap/model"
)

// Evaluate applies a constraint-expression function call to a dataset and
// returns the derived dataset, mirroring what a function-capable server does.
// Supported: mean(target[, axis]) with arbitrary nesting.
func Evaluate(ds *model.Dataset, expr string) (*model.Dataset, error) {
	p := &exprParser{s: scan.New(expr), ds: ds}
	node, err := p.expr()
	if err != nil {
		return nil, err
	}
	tok, err := p.s.Next()
	if err != nil {
		return nil, err
	}
	if tok.Kind != scan.KindEOF {
		return nil, fmt.Errorf("daptest: trailing input in expression %q", expr)
	}
	result, ok := node.(*model.Node)
	if !ok {
		return nil, fmt.Errorf("daptest: expression %q does not produce a variable", expr)
	}
	out := model.NewDataset(ds.Name())
	// Clone so projections never re-parent nodes of the served tree.
	out.Root.Append(cloneNode(result))
	return out, nil
}

type exprParser struct {
	s  *scan.Scanner
	ds *model.Dataset
}

// expr parses and evaluates one term: a function call, a variable path, a
// number, or a quoted string.
func (p *exprParser) expr() (any, error) {
	tok, err := p.s.Next()
	if err != nil {
		return nil, err
	}
	switch tok.Kind {
	case scan.KindString:
		return tok.Text, nil
	case scan.KindWord:
	default:
		return nil, fmt.Errorf("daptest: unexpected %q in expression", tok.Text)
	}
	next, err := p.s.Peek()
	if err != nil {
		return nil, err
	}
	if next.IsPunct('(') {
		return p.call(tok.Text)
	}
	if v, err := strconv.ParseInt(tok.Text, 10, 64); err == nil {
		return v, nil
	}
	if v, err := strconv.ParseFloat(tok.Text, 64); err == nil {
		return v, nil
	}
	node, err := p.ds.Get(tok.Text)
	if err != nil {
		return nil, err
	}
	return node, nil
}

func (p *exprParser) call(name string) (any, error) {
	p.s.Next() // consume '('
	var args []any
	for {
		tok, err := p.s.Peek()
		if err != nil {
			return nil, err
		}
		if tok.IsPunct(')') {
			p.s.Next()
			break
		}
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		sep, err := p.s.Next()
		if err != nil {
			return nil, err
		}
		if sep.IsPunct(')') {
			break
		}
		if !sep.IsPunct(',') {
			return nil, fmt.Errorf("daptest: expected ',' or ')' after argument, got %q", sep.Text)
		}
	}
	switch name {
	case "mean":
		return evalMean(args)
	default:
		return nil, fmt.Errorf("daptest: unknown server-side function %q", name)
	}
}

func evalMean(args []any) (any, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("daptest: mean needs a target")
	}
	target, ok := args[0].(*model.Node)
	if !ok {
		return nil, fmt.Errorf("daptest: mean target must be a variable, got %T", args[0])
	}
	axis := 0
	if len(args) > 1 {
		i, ok := args[1].(int64)
		if !ok {
			return nil, fmt.Errorf("daptest: mean axis must be an integer, got %T", args[1])
		}
		axis = int(i)
	}
	return meanNode(target, axis)
}

// meanNode reduces a variable or grid along one axis. Grids keep their grid
// shape with the collapsed axis map dropped; a full reduction leaves a
// scalar primary.
func meanNode(n *model.Node, axis int) (*model.Node, error) {
	if n.Kind == model.KindGrid {
		kids := n.Children()
		reduced, err := meanNode(kids[0], axis)
		if err != nil {
			return nil, err
		}
		out := model.NewNode(n.Name, model.KindGrid)
		out.Attrs.Merge(n.Attrs)
		out.Append(reduced)
		for i, m := range kids[1:] {
			if i == axis {
				continue
			}
			out.Append(cloneVar(m))
		}
		return out, nil
	}
	if n.Kind != model.KindVar {
		return nil, fmt.Errorf("daptest: cannot take mean of %v %q", n.Kind, n.Name)
	}
	vals, err := toFloats(n.Data())
	if err != nil {
		return nil, fmt.Errorf("daptest: mean of %q: %w", n.Name, err)
	}
	switch len(n.Shape) {
	case 1:
		out := model.NewVar(n.Name, model.Float64, nil, nil)
		out.SetData(floats.Sum(vals) / float64(len(vals)))
		return out, nil
	case 2:
		rows, cols := n.Shape[0], n.Shape[1]
		var data []float64
		var shape []int
		var dims []string
		switch axis {
		case 0:
			data = make([]float64, cols)
			col := make([]float64, rows)
			for j := 0; j < cols; j++ {
				for i := 0; i < rows; i++ {
					col[i] = vals[i*cols+j]
				}
				data[j] = floats.Sum(col) / float64(rows)
			}
			shape = []int{cols}
			dims = dimAt(n.Dims, 1)
		case 1:
			data = make([]float64, rows)
			for i := 0; i < rows; i++ {
				row := vals[i*cols : (i+1)*cols]
				data[i] = floats.Sum(row) / float64(cols)
			}
			shape = []int{rows}
			dims = dimAt(n.Dims, 0)
		default:
			return nil, fmt.Errorf("daptest: axis %d out of range for %q", axis, n.Name)
		}
		out := model.NewVar(n.Name, model.Float64, shape, dims)
		out.SetData(data)
		return out, nil
	default:
		return nil, fmt.Errorf("daptest: mean supports 1-D and 2-D variables, %q has %d dimensions", n.Name, len(n.Shape))
	}
}

func dimAt(dims []string, i int) []string {
	if i < len(dims) {
		return []string{dims[i]}
	}
	return []string{""}
}

func cloneVar(n *model.Node) *model.Node {
	out := model.NewVar(n.Name, n.Type, n.Shape, n.Dims)
	out.Attrs.Merge(n.Attrs)
	out.SetData(n.Data())
	return out
}

// cloneNode deep-copies a subtree. Leaf data and rows are shared; the served
// tree is read-only so sharing is safe.
func cloneNode(n *model.Node) *model.Node {
	if n.Kind == model.KindVar {
		return cloneVar(n)
	}
	out := model.NewNode(n.Name, n.Kind)
	out.Type = n.Type
	out.Shape = n.Shape
	out.Dims = n.Dims
	out.Attrs.Merge(n.Attrs)
	out.SetRows(n.Rows())
	for _, c := range n.Children() {
		out.Append(cloneNode(c))
	}
	return out
}

func toFloats(v any) ([]float64, error) {
	switch x := v.(type) {
	case []float64:
		return x, nil
	case []float32:
		out := make([]float64, len(x))
		for i, f := range x {
			out[i] = float64(f)
		}
		return out, nil
	case []int16:
		out := make([]float64, len(x))
		for i, f := range x {
			out[i] = float64(f)
		}
		return out, nil
	case []uint16:
		out := make([]float64, len(x))
		for i, f := range x {
			out[i] = float64(f)
		}
		return out, nil
	case []int32:
		out := make([]float64, len(x))
		for i, f := range x {
			out[i] = float64(f)
		}
		return out, nil
	case []uint32:
		out := make([]float64, len(x))
		for i, f := range x {
			out[i] = float64(f)
		}
		return out, nil
	case []byte:
		out := make([]float64, len(x))
		for i, f := range x {
			out[i] = float64(f)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported element type %T", v)
	}
}
