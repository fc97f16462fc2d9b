// Package dds parses and renders the textual dataset descriptor that drives
// binary decoding: an ordered tree of typed variables, structures, sequences,
// and grids.
package dds

import (
	"fmt"
	"strconv"

	"github.com/marram/godap/internal/scan"
	"github.com/marram/godap/model"
)

// Parse turns descriptor text into a skeleton dataset: the full node tree
// with types and shapes but no data.
func Parse(src string) (*model.Dataset, error) {
	p := &parser{s: scan.New(src)}
	ds, err := p.dataset()
	if err != nil {
		return nil, err
	}
	return ds, nil
}

type parser struct {
	s *scan.Scanner
}

func (p *parser) errf(tok scan.Token, code, format string, args ...any) error {
	return &model.ParseError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Offset:  tok.Offset,
	}
}

func (p *parser) next() (scan.Token, error) {
	tok, err := p.s.Next()
	if err != nil {
		return scan.Token{}, &model.ParseError{Code: model.CodeSyntax, Message: err.Error(), Offset: p.s.Offset()}
	}
	return tok, nil
}

func (p *parser) expectPunct(ch byte) (scan.Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}
	if !tok.IsPunct(ch) {
		return tok, p.errf(tok, model.CodeUnexpectedToken, "expected %q, got %q", string(ch), tok.Text)
	}
	return tok, nil
}

func (p *parser) expectWord() (scan.Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}
	if tok.Kind != scan.KindWord {
		return tok, p.errf(tok, model.CodeUnexpectedToken, "expected name, got %q", tok.Text)
	}
	return tok, nil
}

// dataset := "Dataset" "{" decl* "}" name ";"
func (p *parser) dataset() (*model.Dataset, error) {
	tok, err := p.expectWord()
	if err != nil {
		return nil, err
	}
	if tok.Text != "Dataset" {
		return nil, p.errf(tok, model.CodeUnexpectedToken, "expected Dataset, got %q", tok.Text)
	}
	if _, err := p.expectPunct('{'); err != nil {
		return nil, err
	}
	root := model.NewNode("", model.KindStructure)
	if err := p.decls(root); err != nil {
		return nil, err
	}
	name, err := p.expectWord()
	if err != nil {
		return nil, err
	}
	root.Name = name.Text
	if _, err := p.expectPunct(';'); err != nil {
		return nil, err
	}
	return &model.Dataset{Root: root}, nil
}

// decls parses declarations until the closing brace of the current block.
func (p *parser) decls(parent *model.Node) error {
	for {
		tok, err := p.s.Peek()
		if err != nil {
			return &model.ParseError{Code: model.CodeSyntax, Message: err.Error(), Offset: p.s.Offset()}
		}
		if tok.IsPunct('}') {
			p.next() // consume
			return nil
		}
		if tok.Kind == scan.KindEOF {
			return p.errf(tok, model.CodeUnbalancedBlock, "unexpected end of descriptor inside block")
		}
		child, err := p.decl()
		if err != nil {
			return err
		}
		if !parent.Append(child) {
			return p.errf(tok, model.CodeSyntax, "duplicate name %q", child.Name)
		}
	}
}

// decl parses one declaration, including its trailing semicolon.
func (p *parser) decl() (*model.Node, error) {
	tok, err := p.expectWord()
	if err != nil {
		return nil, err
	}
	switch tok.Text {
	case "Structure":
		return p.compound(model.KindStructure, true)
	case "Sequence":
		return p.compound(model.KindSequence, false)
	case "Grid":
		return p.grid()
	}
	t, ok := model.ParsePrimitive(tok.Text)
	if !ok {
		return nil, p.errf(tok, model.CodeUnknownType, "unknown type %q", tok.Text)
	}
	name, err := p.expectWord()
	if err != nil {
		return nil, err
	}
	shape, dims, err := p.dimensions()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectPunct(';'); err != nil {
		return nil, err
	}
	return model.NewVar(name.Text, t, shape, dims), nil
}

// compound parses the body of a Structure or Sequence declaration after its
// keyword. Structures may carry array dimensions; sequences may not.
func (p *parser) compound(kind model.Kind, allowDims bool) (*model.Node, error) {
	if _, err := p.expectPunct('{'); err != nil {
		return nil, err
	}
	node := model.NewNode("", kind)
	if err := p.decls(node); err != nil {
		return nil, err
	}
	name, err := p.expectWord()
	if err != nil {
		return nil, err
	}
	node.Name = name.Text
	if allowDims {
		shape, dims, err := p.dimensions()
		if err != nil {
			return nil, err
		}
		node.Shape = shape
		node.Dims = dims
	}
	if _, err := p.expectPunct(';'); err != nil {
		return nil, err
	}
	return node, nil
}

// grid := "Grid" "{" "ARRAY" ":" decl "MAPS" ":" decl* "}" name ";"
func (p *parser) grid() (*model.Node, error) {
	if _, err := p.expectPunct('{'); err != nil {
		return nil, err
	}
	kw, err := p.expectWord()
	if err != nil {
		return nil, err
	}
	if kw.Text != "ARRAY" && kw.Text != "Array" {
		return nil, p.errf(kw, model.CodeUnexpectedToken, "expected ARRAY, got %q", kw.Text)
	}
	if _, err := p.expectPunct(':'); err != nil {
		return nil, err
	}
	node := model.NewNode("", model.KindGrid)
	primary, err := p.decl()
	if err != nil {
		return nil, err
	}
	node.Append(primary)
	kw, err = p.expectWord()
	if err != nil {
		return nil, err
	}
	if kw.Text != "MAPS" && kw.Text != "Maps" {
		return nil, p.errf(kw, model.CodeUnexpectedToken, "expected MAPS, got %q", kw.Text)
	}
	if _, err := p.expectPunct(':'); err != nil {
		return nil, err
	}
	for {
		tok, err := p.s.Peek()
		if err != nil {
			return nil, &model.ParseError{Code: model.CodeSyntax, Message: err.Error(), Offset: p.s.Offset()}
		}
		if tok.IsPunct('}') {
			p.next()
			break
		}
		if tok.Kind == scan.KindEOF {
			return nil, p.errf(tok, model.CodeUnbalancedBlock, "unexpected end of descriptor inside Grid")
		}
		m, err := p.decl()
		if err != nil {
			return nil, err
		}
		if !node.Append(m) {
			return nil, p.errf(tok, model.CodeSyntax, "duplicate map %q", m.Name)
		}
	}
	name, err := p.expectWord()
	if err != nil {
		return nil, err
	}
	node.Name = name.Text
	if _, err := p.expectPunct(';'); err != nil {
		return nil, err
	}
	if err := checkGrid(node); err != nil {
		return nil, err
	}
	return node, nil
}

// checkGrid verifies the axis invariant: one map per primary dimension, each
// map's extent equal to the primary extent on that axis.
func checkGrid(g *model.Node) error {
	kids := g.Children()
	if len(kids) == 0 {
		return &model.ParseError{Code: model.CodeSyntax, Message: "Grid without primary array", Offset: -1}
	}
	primary := kids[0]
	maps := kids[1:]
	if len(maps) != len(primary.Shape) {
		return &model.ParseError{
			Code:    model.CodeSyntax,
			Message: fmt.Sprintf("Grid %q: %d maps for %d dimensions", g.Name, len(maps), len(primary.Shape)),
			Offset:  -1,
		}
	}
	for i, m := range maps {
		if len(m.Shape) != 1 || m.Shape[0] != primary.Shape[i] {
			return &model.ParseError{
				Code:    model.CodeSyntax,
				Message: fmt.Sprintf("Grid %q: map %q does not match axis %d extent %d", g.Name, m.Name, i, primary.Shape[i]),
				Offset:  -1,
			}
		}
	}
	return nil
}

// dimensions parses zero or more "[name = extent]" or "[extent]" suffixes.
func (p *parser) dimensions() (shape []int, dims []string, err error) {
	for {
		tok, err := p.s.Peek()
		if err != nil {
			return nil, nil, &model.ParseError{Code: model.CodeSyntax, Message: err.Error(), Offset: p.s.Offset()}
		}
		if !tok.IsPunct('[') {
			return shape, dims, nil
		}
		p.next() // consume '['
		first, err := p.expectWord()
		if err != nil {
			return nil, nil, err
		}
		name := ""
		extText := first.Text
		eq, err := p.s.Peek()
		if err != nil {
			return nil, nil, &model.ParseError{Code: model.CodeSyntax, Message: err.Error(), Offset: p.s.Offset()}
		}
		if eq.IsPunct('=') {
			p.next()
			ext, err := p.expectWord()
			if err != nil {
				return nil, nil, err
			}
			name = first.Text
			extText = ext.Text
		}
		extent, convErr := strconv.Atoi(extText)
		if convErr != nil || extent < 0 {
			return nil, nil, p.errf(first, model.CodeSyntax, "bad dimension extent %q", extText)
		}
		if _, err := p.expectPunct(']'); err != nil {
			return nil, nil, err
		}
		shape = append(shape, extent)
		dims = append(dims, name)
	}
}
