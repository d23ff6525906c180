package filter

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokName
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int // byte offset in the source
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of expression"
	}

	return fmt.Sprintf("%q", t.text)
}

// operators lists every operator, longest first so that "//" is preferred
// over "/" and "<=" over "<".
var operators = []string{
	"==", "!=", "<=", ">=", "//", "&&", "||",
	"<", ">", "+", "-", "*", "/", "%", "!", "(", ")",
}

// lexer splits a predicate into tokens.
type lexer struct {
	input string
	pos   int
}

// tokenize returns every token of input followed by a tokEOF token.
func tokenize(input string) ([]token, error) {
	l := &lexer{input: input}

	var toks []token

	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)

		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()

	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}

	start := l.pos
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])

	switch {
	case isDigit(r):
		for l.pos < len(l.input) && isDigit(rune(l.input[l.pos])) {
			l.pos++
		}

		text := l.input[start:l.pos]
		if len(text) > 1 && text[0] == '0' && !allZero(text) {
			return token{}, ErrSyntax.WithOffset(start).
				Wrap(fmt.Errorf("leading zeros in integer %q", text))
		}

		return token{kind: tokInt, text: text, pos: start}, nil

	case r == '_' || unicode.IsLetter(r):
		for l.pos < len(l.input) {
			r, size := utf8.DecodeRuneInString(l.input[l.pos:])
			if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				break
			}

			l.pos += size
		}

		return token{kind: tokName, text: l.input[start:l.pos], pos: start}, nil
	}

	for _, op := range operators {
		if len(l.input)-l.pos >= len(op) && l.input[l.pos:l.pos+len(op)] == op {
			l.pos += len(op)

			return token{kind: tokOp, text: op, pos: start}, nil
		}
	}

	return token{}, ErrSyntax.WithOffset(start).
		Wrap(fmt.Errorf("unexpected character %q", l.input[start:start+size]))
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}

		l.pos += size
	}
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func allZero(s string) bool {
	for i := range len(s) {
		if s[i] != '0' {
			return false
		}
	}

	return true
}
