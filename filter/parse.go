package filter

import (
	"fmt"
	"log/slog"
	"strconv"
)

// maxDepth bounds the nesting of parentheses and unary operators.
const maxDepth = 64

// parser is a recursive-descent parser over the token stream, one method
// per precedence level from lowest (or) to highest (primary).
type parser struct {
	toks  []token
	pos   int
	depth int
}

func parse(input string) (node, error) {
	toks, err := tokenize(input)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}

	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.unexpected(tok)
	}

	return root, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}

	return tok
}

// accept consumes the next token if it is one of the given operators or
// keywords and returns its text.
func (p *parser) accept(texts ...string) (string, bool) {
	tok := p.peek()
	if tok.kind != tokOp && tok.kind != tokName {
		return "", false
	}

	for _, text := range texts {
		if tok.text == text {
			p.advance()

			return text, true
		}
	}

	return "", false
}

func (p *parser) unexpected(tok token) *Error {
	return ErrSyntax.WithOffset(tok.pos).Wrap(fmt.Errorf("unexpected %s", tok))
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxDepth {
		return ErrSyntax.WithOffset(p.peek().pos).
			With(slog.Int("max_depth", maxDepth)).
			Wrap(fmt.Errorf("expression nested too deeply"))
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// parseOr parses: and { ("or" | "||") and }.
func (p *parser) parseOr() (node, error) {
	x, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for {
		if _, ok := p.accept("or", "||"); !ok {
			return x, nil
		}

		y, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		x = logical{or: true, x: x, y: y}
	}
}

// parseAnd parses: not { ("and" | "&&") not }.
func (p *parser) parseAnd() (node, error) {
	x, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for {
		if _, ok := p.accept("and", "&&"); !ok {
			return x, nil
		}

		y, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		x = logical{x: x, y: y}
	}
}

// parseNot parses: ("not" | "!") not | compare.
func (p *parser) parseNot() (node, error) {
	if _, ok := p.accept("not", "!"); !ok {
		return p.parseCompare()
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	x, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	return negation{x: x}, nil
}

// parseCompare parses: sum { cmpop sum }, where a chain a < b < c means
// a < b and b < c with b evaluated once.
func (p *parser) parseCompare() (node, error) {
	x, err := p.parseSum()
	if err != nil {
		return nil, err
	}

	c := comparison{operands: []node{x}}

	for {
		op, ok := p.accept("==", "!=", "<=", ">=", "<", ">")
		if !ok {
			break
		}

		y, err := p.parseSum()
		if err != nil {
			return nil, err
		}

		c.ops = append(c.ops, op)
		c.operands = append(c.operands, y)
	}

	if len(c.ops) == 0 {
		return x, nil
	}

	return c, nil
}

// parseSum parses: product { ("+" | "-") product }.
func (p *parser) parseSum() (node, error) {
	x, err := p.parseProduct()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.accept("+", "-")
		if !ok {
			return x, nil
		}

		pos := p.toks[p.pos-1].pos

		y, err := p.parseProduct()
		if err != nil {
			return nil, err
		}

		x = arithmetic{op: op, x: x, y: y, pos: pos}
	}
}

// parseProduct parses: unary { ("*" | "/" | "//" | "%") unary }.
func (p *parser) parseProduct() (node, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := p.accept("*", "//", "/", "%")
		if !ok {
			return x, nil
		}

		pos := p.toks[p.pos-1].pos

		y, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		x = arithmetic{op: op, x: x, y: y, pos: pos}
	}
}

// parseUnary parses: ("-" | "+") unary | primary.
func (p *parser) parseUnary() (node, error) {
	op, ok := p.accept("-", "+")
	if !ok {
		return p.parsePrimary()
	}

	pos := p.toks[p.pos-1].pos

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return arithmetic{op: op, x: literal(0), y: x, pos: pos}, nil
}

// parsePrimary parses: INT | "i" | "True" | "False" | "(" expr ")".
func (p *parser) parsePrimary() (node, error) {
	tok := p.advance()

	switch tok.kind {
	case tokInt:
		v, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, ErrSyntax.WithOffset(tok.pos).
				Wrap(fmt.Errorf("integer literal %s out of range", tok.text))
		}

		return literal(v), nil

	case tokName:
		switch tok.text {
		case "i":
			return index{}, nil
		case "True":
			return literal(1), nil
		case "False":
			return literal(0), nil
		}

		return nil, ErrSyntax.WithOffset(tok.pos).
			Wrap(fmt.Errorf("unknown name %q", tok.text))

	case tokOp:
		if tok.text != "(" {
			break
		}

		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		x, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		if _, ok := p.accept(")"); !ok {
			return nil, p.unexpected(p.peek())
		}

		return x, nil
	}

	return nil, p.unexpected(tok)
}
