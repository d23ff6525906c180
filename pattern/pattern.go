package pattern

import (
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which expander handles a template.
type Kind int

// Template kinds in classification priority order.
const (
	KindNumeric Kind = iota
	KindPrefixed
	KindGrid
	KindList
	KindPassthrough
)

var kindName = [...]string{
	KindNumeric:     "numeric",
	KindPrefixed:    "prefixed",
	KindGrid:        "grid",
	KindList:        "list",
	KindPassthrough: "passthrough",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindName[k]
}

// AxisKind identifies the value domain of a range or grid axis.
type AxisKind int

// Axis kinds.
const (
	AxisNumeric AxisKind = iota
	AxisTime
	AxisAlpha
)

var axisName = [...]string{
	AxisNumeric: "numeric",
	AxisTime:    "time",
	AxisAlpha:   "alpha",
}

func (a AxisKind) String() string {
	if a < 0 || int(a) >= len(axisName) {
		return "AxisKind(" + strconv.Itoa(int(a)) + ")"
	}

	return axisName[a]
}

// Range is an inclusive stepped interval, optionally prefixed.
//
// Lo and Hi hold the resolved bounds: the integer value for numeric axes,
// minutes since midnight for time axes, and the alphabet index (0-25) for
// alphabetic axes. Start and End keep the bound tokens as written.
type Range struct {
	Prefix string
	Axis   AxisKind
	Start  string
	End    string
	Lo, Hi int
	Step   int
	Width  int  // zero-padding width, numeric axes only
	Upper  bool // alphabet case, alphabetic axes only
}

// Axis is one {a...b} group of a grid. Step is always 1.
type Axis struct {
	Kind   AxisKind
	Start  string
	End    string
	Lo, Hi int
	Upper  bool
}

// Grid is a template with one or more brace groups. Segments holds the
// literal text around the groups, so len(Segments) == len(Axes)+1.
type Grid struct {
	Axes     []Axis
	Segments []string
}

// Pattern is a classified template. Exactly one of Range, Grid, Items or Raw
// is meaningful, selected by Kind.
type Pattern struct {
	Kind     Kind
	Template string
	Range    *Range   // KindNumeric, KindPrefixed
	Grid     *Grid    // KindGrid
	Items    []string // KindList
	Raw      string   // KindPassthrough
}

// Len returns the number of names p generates without generating them.
// The count saturates at math.MaxInt.
func (p *Pattern) Len() int {
	switch p.Kind {
	case KindNumeric, KindPrefixed:
		return p.Range.Len()
	case KindGrid:
		return p.Grid.Len()
	case KindList:
		return len(p.Items)
	default:
		return 1
	}
}

// All returns an iterator over the names p generates, in generation order.
// Each call yields a fresh sequence.
func (p *Pattern) All() iter.Seq[string] {
	switch p.Kind {
	case KindNumeric, KindPrefixed:
		return p.Range.All()
	case KindGrid:
		return p.Grid.All()
	case KindList:
		return func(yield func(string) bool) {
			for _, item := range p.Items {
				if !yield(item) {
					return
				}
			}
		}
	default:
		return func(yield func(string) bool) { yield(p.Raw) }
	}
}

// String describes p in a single line.
func (p *Pattern) String() string {
	var sb strings.Builder

	sb.WriteString(p.Kind.String())

	switch p.Kind {
	case KindNumeric, KindPrefixed:
		r := p.Range
		if r.Prefix != "" {
			fmt.Fprintf(&sb, " prefix=%q", r.Prefix)
		}

		fmt.Fprintf(&sb, " axis=%s start=%s end=%s step=%d",
			r.Axis, r.Start, r.End, r.Step)

		if r.Axis == AxisNumeric {
			fmt.Fprintf(&sb, " width=%d", r.Width)
		}
	case KindGrid:
		for _, a := range p.Grid.Axes {
			fmt.Fprintf(&sb, " {%s...%s}", a.Start, a.End)
		}
	case KindList:
		fmt.Fprintf(&sb, " items=%d", len(p.Items))
	case KindPassthrough:
		fmt.Fprintf(&sb, " raw=%q", p.Raw)
	}

	fmt.Fprintf(&sb, " count=%d", p.Len())

	return sb.String()
}

// span returns the number of stepped values in [lo, hi].
func span(lo, hi, step int) int {
	if lo > hi || step <= 0 {
		return 0
	}

	d := uint(hi) - uint(lo) // hi >= lo, so no wrap in unsigned space

	n := d/uint(step) + 1
	if n > math.MaxInt {
		return math.MaxInt
	}

	return int(n)
}

// mulSat multiplies non-negative a and b, saturating at math.MaxInt.
func mulSat(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}

	if a > math.MaxInt/b {
		return math.MaxInt
	}

	return a * b
}
