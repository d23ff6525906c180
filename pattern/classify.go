package pattern

import "strings"

// Parse classifies template into exactly one [Kind] without expanding it.
//
// Kinds are tried in a fixed priority: numeric range, prefixed range, grid,
// literal list, passthrough. Once a template matches the shape of a kind it
// is committed to that kind, and an inconsistent bound is reported as
// [ErrFormat] rather than falling through to the next kind.
func Parse(template string) (*Pattern, error) {
	s := strings.TrimSpace(template)

	if inner, ok := leadingBracket(s); ok {
		if b, ok := bareShape(inner); ok {
			r, err := numericRange(template, "", b)
			if err != nil {
				return nil, err
			}

			return &Pattern{Kind: KindNumeric, Template: template, Range: r}, nil
		}

		if prefix, b, ok := prefixedShape(inner); ok {
			r, err := prefixedRange(template, prefix, b)
			if err != nil {
				return nil, err
			}

			return &Pattern{Kind: KindPrefixed, Template: template, Range: r}, nil
		}
	}

	if groups := braceGroups(template); len(groups) > 0 {
		g, err := parseGrid(template, groups)
		if err != nil {
			return nil, err
		}

		return &Pattern{Kind: KindGrid, Template: template, Grid: g}, nil
	}

	if items, ok := listItems(s); ok {
		return &Pattern{Kind: KindList, Template: template, Items: items}, nil
	}

	return &Pattern{Kind: KindPassthrough, Template: template, Raw: template}, nil
}

// leadingBracket returns the text between a leading '[' and the first ']'.
// Text after the closing bracket is not inspected.
func leadingBracket(s string) (string, bool) {
	if !strings.HasPrefix(s, "[") {
		return "", false
	}

	end := strings.IndexByte(s, ']')
	if end < 0 {
		return "", false
	}

	return s[1:end], true
}

// bareShape matches start...end(:step) with a digit start bound and no
// prefix.
func bareShape(inner string) (bounds, bool) {
	if strings.Contains(inner, ",") {
		return bounds{}, false
	}

	b, ok := splitBounds(inner)
	if !ok || !isDigits(b.start) {
		return bounds{}, false
	}

	return b, true
}

// prefixedShape matches prefix, start...end(:step) where the prefix is
// non-empty and the bound tokens are drawn from [0-9A-Za-z:].
func prefixedShape(inner string) (string, bounds, bool) {
	prefix, rest, ok := strings.Cut(inner, ",")
	if !ok || prefix == "" {
		return "", bounds{}, false
	}

	b, ok := splitBounds(rest)
	if !ok || !isToken(b.start) || !isToken(b.end) {
		return "", bounds{}, false
	}

	if b.stepped && !isToken(b.step) {
		return "", bounds{}, false
	}

	return strings.TrimSpace(prefix), b, true
}

func isToken(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		if c := s[i]; !isLetter(c) && !('0' <= c && c <= '9') && c != ':' {
			return false
		}
	}

	return true
}
