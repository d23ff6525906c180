package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// filterSeparator introduces a filter condition in a template.
const filterSeparator = ", if "

// Styles for shape hints.
var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// shapeKind identifies the hint shown for the group at the cursor.
type shapeKind int

const (
	shapeNone shapeKind = iota
	shapeNumeric
	shapePrefixed
	shapeList
	shapeGrid
	shapeFilter
)

// hintPart is one piece of a rendered shape. Fields are highlighted when
// current; separators never are.
type hintPart struct {
	text  string
	field bool
}

// shapes holds the rendered form of each shape.
var shapes = map[shapeKind]struct {
	name  string
	parts []hintPart
}{
	shapeNumeric: {"range", []hintPart{
		{"[", false}, {"start", true}, {"...", false}, {"end", true},
		{":", false}, {"step", true}, {"]", false},
	}},
	shapePrefixed: {"prefixed range", []hintPart{
		{"[", false}, {"prefix", true}, {", ", false}, {"start", true},
		{"...", false}, {"end", true}, {":", false}, {"step", true}, {"]", false},
	}},
	shapeList: {"list", []hintPart{
		{"[", false}, {"first", true}, {", ", false}, {"second", true},
		{", ", false}, {"more", true}, {"]", false},
	}},
	shapeGrid: {"grid axis", []hintPart{
		{"{", false}, {"start", true}, {"...", false}, {"end", true}, {"}", false},
	}},
	shapeFilter: {"filter", []hintPart{
		{"if ", false}, {"condition on i", true},
	}},
}

// templateGroup describes where the cursor sits in a template.
type templateGroup struct {
	kind  shapeKind
	field int // index of the current field of the shape
}

// detectGroup finds the bracket or brace group enclosing the cursor, or the
// filter condition if the cursor follows ", if " outside any group.
func detectGroup(input string, cursor int) templateGroup {
	if cursor > len(input) {
		cursor = len(input)
	}

	before := input[:cursor]

	open := strings.LastIndexAny(before, "[{")
	if open >= 0 && !strings.ContainsAny(before[open+1:], "]}") {
		body := before[open+1:]

		if input[open] == '{' {
			if strings.Contains(body, "...") {
				return templateGroup{kind: shapeGrid, field: 1}
			}

			return templateGroup{kind: shapeGrid}
		}

		return bracketGroup(body)
	}

	if strings.Contains(before, filterSeparator) {
		return templateGroup{kind: shapeFilter}
	}

	return templateGroup{}
}

// bracketGroup classifies the text typed so far inside a bracket.
func bracketGroup(body string) templateGroup {
	if strings.Contains(body, filterSeparator) {
		return templateGroup{kind: shapeFilter}
	}

	items := strings.Split(body, ",")
	last := strings.TrimSpace(items[len(items)-1])

	if len(items) == 1 {
		if last == "" || isDigit(last[0]) {
			return templateGroup{kind: shapeNumeric, field: rangeField(last)}
		}

		return templateGroup{kind: shapePrefixed}
	}

	if len(items) == 2 || strings.Contains(last, "...") {
		return templateGroup{kind: shapePrefixed, field: 1 + rangeField(last)}
	}

	return templateGroup{kind: shapeList, field: min(len(items)-1, 2)}
}

// rangeField returns 0, 1 or 2 for a range token being typed as its start,
// end or step. Clock times carry their own colons, so their step follows a
// second colon in the end token.
func rangeField(token string) int {
	start, end, ok := strings.Cut(token, "...")
	if !ok {
		return 0
	}

	colons := 1
	if strings.Contains(start, ":") {
		colons = 2
	}

	if strings.Count(end, ":") >= colons {
		return 2
	}

	return 1
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// renderShapeHint renders the shape of g with its current field
// highlighted, or "" if the cursor is not inside a group.
func renderShapeHint(g templateGroup) string {
	s, ok := shapes[g.kind]
	if !ok {
		return ""
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(s.name))
	b.WriteString(signatureStyle.Render(" "))

	field := 0

	for _, p := range s.parts {
		switch {
		case !p.field:
			b.WriteString(signatureStyle.Render(p.text))

		case field == g.field:
			b.WriteString(currentParamStyle.Render(p.text))

			field++

		default:
			b.WriteString(signatureStyle.Render(p.text))

			field++
		}
	}

	return b.String()
}
