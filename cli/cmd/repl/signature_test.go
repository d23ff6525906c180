package repl

import (
	"strings"
	"testing"
)

func TestDetectGroup(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int // -1 for end of input
		want   templateGroup
	}{
		{"empty", "", -1, templateGroup{}},
		{"plain", "general", -1, templateGroup{}},
		{"closed_bracket", "[1...5]", -1, templateGroup{}},
		{"open_bracket", "[", -1, templateGroup{kind: shapeNumeric}},
		{"numeric_start", "[1", -1, templateGroup{kind: shapeNumeric}},
		{"numeric_end", "[1...", -1, templateGroup{kind: shapeNumeric, field: 1}},
		{"numeric_step", "[1...10:", -1, templateGroup{kind: shapeNumeric, field: 2}},
		{"time_end", "[09:00...17:00", -1, templateGroup{kind: shapeNumeric, field: 1}},
		{"time_step", "[09:00...17:00:", -1, templateGroup{kind: shapeNumeric, field: 2}},
		{"prefix", "[Room", -1, templateGroup{kind: shapePrefixed}},
		{"prefixed_start", "[Room, ", -1, templateGroup{kind: shapePrefixed, field: 1}},
		{"prefixed_end", "[Room, 1...", -1, templateGroup{kind: shapePrefixed, field: 2}},
		{"prefixed_step", "[Room, 1...9:", -1, templateGroup{kind: shapePrefixed, field: 3}},
		{"list", "[a, b, c", -1, templateGroup{kind: shapeList, field: 2}},
		{"long_list", "[a, b, c, d, e", -1, templateGroup{kind: shapeList, field: 2}},
		{"grid_start", "S{A", -1, templateGroup{kind: shapeGrid}},
		{"grid_end", "S{A...", -1, templateGroup{kind: shapeGrid, field: 1}},
		{"second_axis", "S{A...B}{", -1, templateGroup{kind: shapeGrid}},
		{"bracket_filter", "[1...5, if i", -1, templateGroup{kind: shapeFilter}},
		{"trailing_filter", "S{A...B}{1...2}, if i", -1, templateGroup{kind: shapeFilter}},
		{"cursor_inside", "[Room, 1...5]", 4, templateGroup{kind: shapePrefixed}},
		{"cursor_before", "x[1...5]", 1, templateGroup{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor := tt.cursor
			if cursor < 0 {
				cursor = len(tt.input)
			}

			if got := detectGroup(tt.input, cursor); got != tt.want {
				t.Errorf("detectGroup(%q, %d) = %+v, want %+v", tt.input, cursor, got, tt.want)
			}
		})
	}
}

func TestRangeField(t *testing.T) {
	tests := []struct {
		token string
		want  int
	}{
		{"", 0},
		{"1", 0},
		{"1..", 0},
		{"1...", 1},
		{"1...10", 1},
		{"1...10:", 2},
		{"1...10:2", 2},
		{"A...Z", 1},
		{"09:00", 0},
		{"09:00...17", 1},
		{"09:00...17:00", 1},
		{"09:00...17:00:", 2},
	}

	for _, tt := range tests {
		if got := rangeField(tt.token); got != tt.want {
			t.Errorf("rangeField(%q) = %d, want %d", tt.token, got, tt.want)
		}
	}
}

func TestRenderShapeHint(t *testing.T) {
	tests := []struct {
		name string
		g    templateGroup
		want string
	}{
		{"none", templateGroup{}, ""},
		{"numeric", templateGroup{kind: shapeNumeric}, "range [start...end:step]"},
		{"prefixed", templateGroup{kind: shapePrefixed, field: 2}, "prefixed range [prefix, start...end:step]"},
		{"list", templateGroup{kind: shapeList}, "list [first, second, more]"},
		{"grid", templateGroup{kind: shapeGrid, field: 1}, "grid axis {start...end}"},
		{"filter", templateGroup{kind: shapeFilter}, "filter if condition on i"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Styles render plain text without a terminal.
			if got := renderShapeHint(tt.g); got != tt.want {
				t.Errorf("renderShapeHint(%+v) = %q, want %q", tt.g, got, tt.want)
			}
		})
	}
}

func TestRenderShapeHint_CurrentField(t *testing.T) {
	for kind, s := range shapes {
		fields := 0

		for _, p := range s.parts {
			if p.field {
				fields++
			}
		}

		for field := range fields {
			hint := renderShapeHint(templateGroup{kind: kind, field: field})
			if !strings.HasPrefix(hint, s.name) {
				t.Errorf("hint %q does not start with %q", hint, s.name)
			}
		}
	}
}
