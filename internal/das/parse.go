// Package das parses and renders the textual attribute description: nested
// name-keyed blocks of typed scalar or list attributes.
package das

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marram/godap/internal/scan"
	"github.com/marram/godap/model"
)

// Parse turns attribute text into a table of dotted path -> attribute set.
// Values that do not match their declared type are preserved as raw strings;
// unbalanced blocks are fatal.
func Parse(src string) (*model.AttributeTable, error) {
	p := &parser{s: scan.New(src), table: model.NewAttributeTable()}
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if !tok.IsWord("Attributes") && !tok.IsWord("attributes") {
		return nil, p.errf(tok, "expected Attributes, got %q", tok.Text)
	}
	if _, err := p.expectPunct('{'); err != nil {
		return nil, err
	}
	if err := p.blockBody(nil); err != nil {
		return nil, err
	}
	// Nothing may follow the closing brace.
	tok, err = p.next()
	if err != nil {
		return nil, err
	}
	if tok.Kind != scan.KindEOF {
		return nil, p.errf(tok, "trailing input after attribute description")
	}
	return p.table, nil
}

type parser struct {
	s     *scan.Scanner
	table *model.AttributeTable
}

func (p *parser) errf(tok scan.Token, format string, args ...any) error {
	return &model.ParseError{
		Code:    model.CodeUnexpectedToken,
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

func (p *parser) peek() (scan.Token, error) {
	tok, err := p.s.Peek()
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
		return tok, p.errf(tok, "expected %q, got %q", string(ch), tok.Text)
	}
	return tok, nil
}

// blockBody parses entries until the closing brace of the current block.
// path is the dotted prefix of the enclosing blocks (nil at top level).
func (p *parser) blockBody(path []string) error {
	attrs := make(model.Attributes)
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		switch {
		case tok.IsPunct('}'):
			// Empty blocks still register: a container with no attributes is
			// meaningful metadata (for example an empty NC_GLOBAL). Bare
			// attributes at the top level register under the empty path and
			// merge onto the dataset itself.
			if len(path) > 0 || len(attrs) > 0 {
				p.table.Add(strings.Join(path, "."), attrs)
			}
			return nil
		case tok.Kind == scan.KindEOF:
			return &model.ParseError{
				Code:    model.CodeUnbalancedBlock,
				Message: "unexpected end of attribute description inside block",
				Offset:  tok.Offset,
			}
		case tok.Kind != scan.KindWord:
			return p.errf(tok, "expected name or type, got %q", tok.Text)
		}
		nxt, err := p.peek()
		if err != nil {
			return err
		}
		if nxt.IsPunct('{') {
			// Nested block: tok is its name.
			p.next()
			if err := p.blockBody(append(path, tok.Text)); err != nil {
				return err
			}
			continue
		}
		// Typed attribute declaration: tok is the type word.
		name, err := p.next()
		if err != nil {
			return err
		}
		if name.Kind != scan.KindWord && name.Kind != scan.KindString {
			return p.errf(name, "expected attribute name, got %q", name.Text)
		}
		val, err := p.values(tok.Text)
		if err != nil {
			return err
		}
		attrs[name.Text] = val
	}
}

// values parses one or more comma-separated values through the terminating
// semicolon, converting each per the declared type.
func (p *parser) values(declType string) (any, error) {
	var out []any
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case scan.KindWord, scan.KindString:
			out = append(out, convert(declType, tok))
		case scan.KindEOF:
			return nil, &model.ParseError{
				Code:    model.CodeUnbalancedBlock,
				Message: "unexpected end of attribute description in value list",
				Offset:  tok.Offset,
			}
		default:
			return nil, p.errf(tok, "expected attribute value, got %q", tok.Text)
		}
		sep, err := p.next()
		if err != nil {
			return nil, err
		}
		if sep.IsPunct(';') {
			if len(out) == 1 {
				return out[0], nil
			}
			return out, nil
		}
		if !sep.IsPunct(',') {
			return nil, p.errf(sep, "expected ',' or ';', got %q", sep.Text)
		}
	}
}

// convert applies the declared type to a raw value token. Unsupported types
// and failed conversions degrade to the raw string rather than failing the
// parse.
func convert(declType string, tok scan.Token) any {
	raw := tok.Text
	if tok.Kind == scan.KindString {
		// Quoted values are strings regardless of the declared type.
		return raw
	}
	t, ok := model.ParsePrimitive(declType)
	if !ok {
		return raw
	}
	switch t {
	case model.Byte, model.Int16, model.Int32:
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return int(v)
		}
	case model.UInt16, model.UInt32:
		if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return int(v)
		}
	case model.Float32, model.Float64:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	case model.String, model.URL:
		return raw
	}
	return raw
}
