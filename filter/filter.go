package filter

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/chanplate/log"
)

// separator introduces the predicate of a template.
const separator = ", if "

// Extract splits template into a base template and a predicate at the first
// ", if ". When template is fully bracketed, the split happens inside the
// brackets and the base is bracketed again:
//
//	"[1...6, if i % 2 == 0]"    -> "[1...6]", "i % 2 == 0"
//	"Room{1...4}, if i > 2"     -> "Room{1...4}", "i > 2"
//
// ok is false, and base is template, when there is no predicate.
func Extract(template string) (base, predicate string, ok bool) {
	s := strings.TrimSpace(template)

	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		before, after, found := strings.Cut(s[1:len(s)-1], separator)
		if !found {
			return template, "", false
		}

		return "[" + strings.TrimSpace(before) + "]", strings.TrimSpace(after), true
	}

	before, after, found := strings.Cut(s, separator)
	if !found {
		return template, "", false
	}

	return strings.TrimSpace(before), strings.TrimSpace(after), true
}

// Predicate is a compiled filter expression. It is immutable and safe for
// concurrent use.
type Predicate struct {
	text string
	root node
}

// Compile parses text into a [Predicate]. Errors match [ErrSyntax].
func Compile(text string) (*Predicate, error) {
	root, err := parse(text)
	if err != nil {
		if e, ok := err.(*Error); ok {
			return nil, e.With(slog.String("expression", text))
		}

		return nil, err
	}

	return &Predicate{text: text, root: root}, nil
}

// String returns the source text of p.
func (p *Predicate) String() string { return p.text }

// Eval reports whether the element at the 1-based index i is selected.
// Errors match [ErrEvaluate].
func (p *Predicate) Eval(i int) (bool, error) {
	v, err := p.root.eval(int64(i))
	if err != nil {
		if e, ok := err.(*Error); ok {
			return false, e.With(slog.String("expression", p.text), slog.Int("i", i))
		}

		return false, err
	}

	return v.truthy(), nil
}

// Filter returns the elements of seq whose 1-based index satisfies p. An
// index at which evaluation fails is excluded.
func (p *Predicate) Filter(seq []string, opts ...Option) []string {
	o := makeOptions(opts...)

	kept := make([]string, 0, len(seq))

	for k, name := range seq {
		ok, err := p.Eval(k + 1)
		if err != nil {
			o.logger.Trace("filter excluded element",
				slog.String("name", name),
				slog.Any("error", err),
			)

			continue
		}

		if ok {
			kept = append(kept, name)
		}
	}

	return kept
}

// Apply keeps the elements of seq selected by the predicate text. An empty
// predicate keeps everything; one that does not compile keeps nothing.
// The result never aliases seq.
func Apply(seq []string, text string, opts ...Option) []string {
	if strings.TrimSpace(text) == "" {
		return slices.Clone(seq)
	}

	p, err := Compile(text)
	if err != nil {
		makeOptions(opts...).logger.Trace("filter rejected",
			slog.Any("error", err),
		)

		return []string{}
	}

	return p.Filter(seq, opts...)
}

// Option configures [Apply] and [Predicate.Filter].
type Option func(*options)

type options struct {
	logger log.Logger
}

func makeOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithLogger sets the logger that records excluded elements at trace level.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}
