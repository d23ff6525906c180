package filter

import (
	"cmp"
	"errors"
	"log/slog"
	"math"
)

// value is an exact integer unless it descends from a true division.
// Booleans are the integers 1 and 0.
type value struct {
	n       int64
	f       float64
	inexact bool
}

func integer(n int64) value { return value{n: n} }

func fraction(f float64) value { return value{f: f, inexact: true} }

func truth(b bool) value {
	if b {
		return integer(1)
	}

	return integer(0)
}

func (v value) truthy() bool {
	if v.inexact {
		return v.f != 0
	}

	return v.n != 0
}

func (v value) float() float64 {
	if v.inexact {
		return v.f
	}

	return float64(v.n)
}

func (v value) zero() bool { return !v.truthy() }

// node is a compiled expression.
type node interface {
	eval(i int64) (value, error)
}

type literal int64

func (n literal) eval(int64) (value, error) { return integer(int64(n)), nil }

// index is the ordinal position of the element under test.
type index struct{}

func (index) eval(i int64) (value, error) { return integer(i), nil }

type negation struct{ x node }

func (n negation) eval(i int64) (value, error) {
	v, err := n.x.eval(i)
	if err != nil {
		return value{}, err
	}

	return truth(!v.truthy()), nil
}

// logical is a short-circuit and/or that yields the deciding operand.
type logical struct {
	or   bool
	x, y node
}

func (n logical) eval(i int64) (value, error) {
	v, err := n.x.eval(i)
	if err != nil {
		return value{}, err
	}

	if v.truthy() == n.or {
		return v, nil
	}

	return n.y.eval(i)
}

// comparison is a chain of comparisons joined by an implicit and. Each
// operand is evaluated at most once and evaluation stops at the first
// false link.
type comparison struct {
	operands []node
	ops      []string
}

func (n comparison) eval(i int64) (value, error) {
	x, err := n.operands[0].eval(i)
	if err != nil {
		return value{}, err
	}

	for k, op := range n.ops {
		y, err := n.operands[k+1].eval(i)
		if err != nil {
			return value{}, err
		}

		if !compare(op, order(x, y)) {
			return truth(false), nil
		}

		x = y
	}

	return truth(true), nil
}

func compare(op string, c int) bool {
	switch op {
	case "==":
		return c == 0
	case "!=":
		return c != 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	default:
		return c >= 0
	}
}

// order compares x and y exactly, without rounding an integer operand to
// the nearest float.
func order(x, y value) int {
	switch {
	case !x.inexact && !y.inexact:
		return cmp.Compare(x.n, y.n)
	case x.inexact && y.inexact:
		return cmp.Compare(x.f, y.f)
	case y.inexact:
		return orderMixed(x.n, y.f)
	default:
		return -orderMixed(y.n, x.f)
	}
}

func orderMixed(n int64, f float64) int {
	switch {
	case f >= 0x1p63:
		return -1
	case f < -0x1p63:
		return 1
	}

	t := math.Trunc(f)
	if c := cmp.Compare(n, int64(t)); c != 0 {
		return c
	}

	return cmp.Compare(t, f)
}

type arithmetic struct {
	op   string
	x, y node
	pos  int
}

func (n arithmetic) eval(i int64) (value, error) {
	x, err := n.x.eval(i)
	if err != nil {
		return value{}, err
	}

	y, err := n.y.eval(i)
	if err != nil {
		return value{}, err
	}

	if n.op != "+" && n.op != "-" && n.op != "*" && y.zero() {
		return value{}, n.fail("division by zero")
	}

	if n.op == "/" || x.inexact || y.inexact {
		r := arithReal(n.op, x.float(), y.float())
		if math.IsInf(r, 0) || math.IsNaN(r) {
			return value{}, n.fail("result out of range")
		}

		return fraction(r), nil
	}

	r, ok := arithInt(n.op, x.n, y.n)
	if !ok {
		return value{}, n.fail("integer overflow")
	}

	return integer(r), nil
}

func (n arithmetic) fail(reason string) error {
	return ErrEvaluate.WithOffset(n.pos).
		With(slog.String("operator", n.op)).
		Wrap(errors.New(reason))
}

// arithInt applies op to x and y, reporting false when the result does not
// fit in an int64. y is non-zero for the division operators.
func arithInt(op string, x, y int64) (int64, bool) {
	switch op {
	case "+":
		r := x + y

		return r, (r > x) == (y > 0)
	case "-":
		r := x - y

		return r, (r < x) == (y > 0)
	case "*":
		if x == 0 || y == 0 {
			return 0, true
		}

		r := x * y
		if r/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
			return 0, false
		}

		return r, true
	case "//":
		if x == math.MinInt64 && y == -1 {
			return 0, false
		}

		q := x / y
		if x%y != 0 && (x < 0) != (y < 0) {
			q--
		}

		return q, true
	default:
		// The remainder takes the sign of the divisor.
		r := x % y
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}

		return r, true
	}
}

func arithReal(op string, x, y float64) float64 {
	switch op {
	case "+":
		return x + y
	case "-":
		return x - y
	case "*":
		return x * y
	case "/":
		return x / y
	case "//":
		return math.Floor(x / y)
	default:
		r := math.Mod(x, y)
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}

		return r
	}
}
