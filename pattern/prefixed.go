package pattern

import (
	"strings"
	"time"
)

// clockLayout is the 24-hour time of day accepted by time ranges.
const clockLayout = "15:04"

// bounds are the raw tokens of a start...end(:step) expression.
type bounds struct {
	start, end, step string
	stepped          bool
}

// splitBounds splits s at the first "..." into start and end tokens and
// separates an optional trailing :step from the end token. Time bounds carry
// a colon of their own, so their step follows a second colon.
func splitBounds(s string) (bounds, bool) {
	start, rest, ok := strings.Cut(s, "...")
	if !ok {
		return bounds{}, false
	}

	b := bounds{start: strings.TrimSpace(start)}

	sep := strings.Index(rest, ":")
	if strings.Contains(b.start, ":") {
		if strings.Count(rest, ":") < 2 {
			sep = -1
		} else {
			sep = strings.LastIndex(rest, ":")
		}
	}

	if sep < 0 {
		b.end = strings.TrimSpace(rest)

		return b, true
	}

	b.end = strings.TrimSpace(rest[:sep])
	b.step = strings.TrimSpace(rest[sep+1:])
	b.stepped = true

	return b, true
}

// prefixedRange resolves the bounds of a [prefix, start...end(:step)]
// template by the shape of the start token.
func prefixedRange(template, prefix string, b bounds) (*Range, error) {
	switch {
	case isDigits(b.start):
		return numericRange(template, prefix, b)
	case strings.Contains(b.start, ":"):
		return timeRange(template, prefix, b)
	case len(b.start) == 1 && isLetter(b.start[0]):
		return alphaRange(template, prefix, b)
	default:
		return nil, formatError(template, b.start, errBound)
	}
}

// parseClock returns the minutes since midnight of a HH:MM token.
func parseClock(tok string) (int, error) {
	t, err := time.Parse(clockLayout, tok)
	if err != nil {
		return 0, errTime
	}

	return t.Hour()*60 + t.Minute(), nil
}

// timeRange steps in whole hours from start to end inclusive. The clock
// does not wrap past midnight.
func timeRange(template, prefix string, b bounds) (*Range, error) {
	lo, err := parseClock(b.start)
	if err != nil {
		return nil, formatError(template, b.start, err)
	}

	hi, err := parseClock(b.end)
	if err != nil {
		return nil, formatError(template, b.end, err)
	}

	step, err := parseStep(b)
	if err != nil {
		return nil, formatError(template, b.step, err)
	}

	return &Range{
		Prefix: prefix,
		Axis:   AxisTime,
		Start:  b.start,
		End:    b.end,
		Lo:     lo,
		Hi:     hi,
		Step:   step,
	}, nil
}

func alphaRange(template, prefix string, b bounds) (*Range, error) {
	lo, upper, err := parseLetter(b.start)
	if err != nil {
		return nil, formatError(template, b.start, err)
	}

	hi, err := parseLetterCase(b.end, upper)
	if err != nil {
		return nil, formatError(template, b.end, err)
	}

	step, err := parseStep(b)
	if err != nil {
		return nil, formatError(template, b.step, err)
	}

	return &Range{
		Prefix: prefix,
		Axis:   AxisAlpha,
		Start:  b.start,
		End:    b.end,
		Lo:     lo,
		Hi:     hi,
		Step:   step,
		Upper:  upper,
	}, nil
}

func isLetter(c byte) bool { return isUpper(c) || isLower(c) }
func isUpper(c byte) bool  { return 'A' <= c && c <= 'Z' }
func isLower(c byte) bool  { return 'a' <= c && c <= 'z' }

// parseLetter returns the alphabet index and case of a single-letter token.
func parseLetter(tok string) (int, bool, error) {
	if len(tok) != 1 || !isLetter(tok[0]) {
		return 0, false, errLetter
	}

	if isUpper(tok[0]) {
		return int(tok[0] - 'A'), true, nil
	}

	return int(tok[0] - 'a'), false, nil
}

// parseLetterCase is parseLetter for a bound that must share the case of
// the alphabet selected by the start bound.
func parseLetterCase(tok string, upper bool) (int, error) {
	idx, u, err := parseLetter(tok)
	if err != nil {
		return 0, err
	}

	if u != upper {
		return 0, errCase
	}

	return idx, nil
}

func letter(idx int, upper bool) string {
	if upper {
		return string(rune('A' + idx))
	}

	return string(rune('a' + idx))
}
