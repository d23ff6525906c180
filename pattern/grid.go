package pattern

import (
	"iter"
	"strconv"
	"strings"
)

// Len returns the number of values on a.
func (a Axis) Len() int { return span(a.Lo, a.Hi, 1) }

func (a Axis) format(v int) string {
	if a.Kind == AxisAlpha {
		return letter(v, a.Upper)
	}

	return strconv.Itoa(v)
}

// Len returns the product of the axis lengths.
func (g *Grid) Len() int {
	n := 1
	for _, a := range g.Axes {
		n = mulSat(n, a.Len())
	}

	return n
}

// All returns an iterator over the Cartesian product of the axes, with the
// rightmost axis varying fastest.
func (g *Grid) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		if len(g.Axes) == 0 || g.Len() == 0 {
			return
		}

		cur := make([]int, len(g.Axes))
		for k, a := range g.Axes {
			cur[k] = a.Lo
		}

		var sb strings.Builder

		for {
			sb.Reset()
			sb.WriteString(g.Segments[0])

			for k, a := range g.Axes {
				sb.WriteString(a.format(cur[k]))
				sb.WriteString(g.Segments[k+1])
			}

			if !yield(sb.String()) {
				return
			}

			k := len(cur) - 1
			for ; k >= 0; k-- {
				if cur[k] < g.Axes[k].Hi {
					cur[k]++

					break
				}

				cur[k] = g.Axes[k].Lo
			}

			if k < 0 {
				return
			}
		}
	}
}

// braceGroups returns the [open, close] byte offsets of every brace group
// in s, scanning left to right. A group ends at the first '}' after its '{'.
func braceGroups(s string) [][2]int {
	var groups [][2]int

	for pos := 0; pos < len(s); {
		open := strings.IndexByte(s[pos:], '{')
		if open < 0 {
			break
		}

		open += pos

		end := strings.IndexByte(s[open+1:], '}')
		if end < 0 {
			break
		}

		end += open + 1
		groups = append(groups, [2]int{open, end})
		pos = end + 1
	}

	return groups
}

// parseGrid builds a grid from the brace groups found in template.
func parseGrid(template string, groups [][2]int) (*Grid, error) {
	g := &Grid{
		Axes:     make([]Axis, 0, len(groups)),
		Segments: make([]string, 0, len(groups)+1),
	}

	prev := 0

	for _, grp := range groups {
		axis, err := parseAxis(template, template[grp[0]+1:grp[1]])
		if err != nil {
			return nil, err
		}

		g.Segments = append(g.Segments, template[prev:grp[0]])
		g.Axes = append(g.Axes, axis)
		prev = grp[1] + 1
	}

	g.Segments = append(g.Segments, template[prev:])

	return g, nil
}

// parseAxis resolves the contents of one {a...b} group.
func parseAxis(template, expr string) (Axis, error) {
	switch strings.Count(expr, "...") {
	case 0:
		return Axis{}, formatError(template, expr, errEllipsis)
	case 1:
	default:
		return Axis{}, formatError(template, expr, errAxis)
	}

	start, end, _ := strings.Cut(expr, "...")
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)

	a := Axis{Start: start, End: end}

	var err error

	switch {
	case isDigits(start):
		a.Kind = AxisNumeric

		if a.Lo, err = parseNumber(start); err != nil {
			return Axis{}, formatError(template, start, err)
		}

		if len(end) == 1 && isLetter(end[0]) {
			return Axis{}, formatError(template, end, errMixed)
		}

		if a.Hi, err = parseNumber(end); err != nil {
			return Axis{}, formatError(template, end, err)
		}
	case len(start) == 1 && isLetter(start[0]):
		a.Kind = AxisAlpha
		a.Lo, a.Upper, _ = parseLetter(start)

		if isDigits(end) {
			return Axis{}, formatError(template, end, errMixed)
		}

		if a.Hi, err = parseLetterCase(end, a.Upper); err != nil {
			return Axis{}, formatError(template, end, err)
		}
	default:
		return Axis{}, formatError(template, start, errBound)
	}

	return a, nil
}
