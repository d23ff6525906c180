package pattern

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Len returns the number of names r generates.
func (r *Range) Len() int { return span(r.Lo, r.Hi, r.stride()) }

// All returns an iterator over the names r generates.
func (r *Range) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		stride := r.stride()
		for v, n := r.Lo, r.Len(); n > 0; v, n = v+stride, n-1 {
			if !yield(r.Prefix + r.format(v)) {
				return
			}
		}
	}
}

// stride is the distance between consecutive resolved values.
func (r *Range) stride() int {
	if r.Axis == AxisTime {
		// A stride longer than a day yields the start time only.
		return min(r.Step, 25) * 60
	}

	return r.Step
}

func (r *Range) format(v int) string {
	switch r.Axis {
	case AxisTime:
		return fmt.Sprintf("%02d:%02d", v/60, v%60)
	case AxisAlpha:
		return letter(v, r.Upper)
	default:
		return pad(v, r.Width)
	}
}

// pad formats v in decimal, left-padded with zeros to width.
func pad(v, width int) string {
	s := strconv.Itoa(v)
	if len(s) >= width {
		return s
	}

	return strings.Repeat("0", width-len(s)) + s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// parseNumber parses a non-negative decimal bound.
func parseNumber(tok string) (int, error) {
	if !isDigits(tok) {
		return 0, errNumber
	}

	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errNumber, err)
	}

	return n, nil
}

// parseStep parses the step of b, which defaults to 1 when omitted.
func parseStep(b bounds) (int, error) {
	if !b.stepped {
		return 1, nil
	}

	n, err := parseNumber(b.step)
	if err != nil || n <= 0 {
		return 0, errStep
	}

	return n, nil
}

// numericRange resolves a digit-led range. The width is taken from the
// bound tokens as written, so leading zeros are significant.
func numericRange(template, prefix string, b bounds) (*Range, error) {
	lo, err := parseNumber(b.start)
	if err != nil {
		return nil, formatError(template, b.start, err)
	}

	hi, err := parseNumber(b.end)
	if err != nil {
		return nil, formatError(template, b.end, err)
	}

	step, err := parseStep(b)
	if err != nil {
		return nil, formatError(template, b.step, err)
	}

	return &Range{
		Prefix: prefix,
		Axis:   AxisNumeric,
		Start:  b.start,
		End:    b.end,
		Lo:     lo,
		Hi:     hi,
		Step:   step,
		Width:  max(len(b.start), len(b.end)),
	}, nil
}
