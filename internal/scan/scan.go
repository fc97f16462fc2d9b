// Package scan provides the token scanner shared by the descriptor (DDS) and
// attribute (DAS) parsers. Both grammars use the same lexical shape: bare
// words, double-quoted strings, and single-character punctuation.
package scan

import (
	"fmt"
	"strings"
)

// Kind enumerates token kinds.
type Kind int

const (
	KindWord   Kind = iota // identifiers, type names, numbers
	KindString             // double-quoted, backslash escapes
	KindPunct              // one of { } [ ] ( ) ; , = :
	KindEOF
)

// Token is one lexical unit with its byte offset in the input.
type Token struct {
	Kind   Kind
	Text   string // unquoted text for KindString
	Offset int64
}

// IsPunct reports whether t is the given punctuation character.
func (t Token) IsPunct(ch byte) bool {
	return t.Kind == KindPunct && len(t.Text) == 1 && t.Text[0] == ch
}

// IsWord reports whether t is a bare word equal to w, case-sensitively.
func (t Token) IsWord(w string) bool { return t.Kind == KindWord && t.Text == w }

// Scanner tokenizes an input buffer. It keeps one token of lookahead.
type Scanner struct {
	src    string
	pos    int64
	peeked *Token
}

// New returns a scanner over src.
func New(src string) *Scanner { return &Scanner{src: src} }

const punctChars = "{}[]();,=:"

// Next consumes and returns the next token. Lexical problems (an unterminated
// string) are reported as an error with the offending offset.
func (s *Scanner) Next() (Token, error) {
	if s.peeked != nil {
		t := *s.peeked
		s.peeked = nil
		return t, nil
	}
	s.skipSpace()
	if s.pos >= int64(len(s.src)) {
		return Token{Kind: KindEOF, Offset: s.pos}, nil
	}
	start := s.pos
	ch := s.src[s.pos]
	switch {
	case strings.IndexByte(punctChars, ch) >= 0:
		s.pos++
		return Token{Kind: KindPunct, Text: string(ch), Offset: start}, nil
	case ch == '"':
		return s.scanString()
	default:
		return s.scanWord()
	}
}

// Peek returns the next token without consuming it.
func (s *Scanner) Peek() (Token, error) {
	if s.peeked != nil {
		return *s.peeked, nil
	}
	t, err := s.Next()
	if err != nil {
		return Token{}, err
	}
	s.peeked = &t
	return t, nil
}

// Offset returns the current scan position.
func (s *Scanner) Offset() int64 { return s.pos }

func (s *Scanner) skipSpace() {
	for s.pos < int64(len(s.src)) {
		switch s.src[s.pos] {
		case ' ', '\t', '\r', '\n':
			s.pos++
		default:
			return
		}
	}
}

func (s *Scanner) scanString() (Token, error) {
	start := s.pos
	s.pos++ // opening quote
	var b strings.Builder
	for s.pos < int64(len(s.src)) {
		ch := s.src[s.pos]
		switch ch {
		case '\\':
			if s.pos+1 < int64(len(s.src)) {
				s.pos++
				b.WriteByte(s.src[s.pos])
				s.pos++
				continue
			}
			s.pos++
		case '"':
			s.pos++
			return Token{Kind: KindString, Text: b.String(), Offset: start}, nil
		default:
			b.WriteByte(ch)
			s.pos++
		}
	}
	return Token{}, fmt.Errorf("unterminated string at offset %d", start)
}

func (s *Scanner) scanWord() (Token, error) {
	start := s.pos
	for s.pos < int64(len(s.src)) {
		ch := s.src[s.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' ||
			ch == '"' || strings.IndexByte(punctChars, ch) >= 0 {
			break
		}
		s.pos++
	}
	return Token{Kind: KindWord, Text: s.src[start:s.pos], Offset: start}, nil
}
