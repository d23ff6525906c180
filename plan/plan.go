// Package plan runs the template pipeline shared by every front end:
// separate the filter predicate, expand the base template, and keep the
// names the predicate selects.
package plan

import (
	"context"
	"log/slog"

	"github.com/ardnew/chanplate/filter"
	"github.com/ardnew/chanplate/log"
	"github.com/ardnew/chanplate/pattern"
)

// Option configures [Generate].
type Option func(*options)

type options struct {
	limit  int
	cache  bool
	logger log.Logger
}

// WithLimit caps the number of names the base template may expand to.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// WithCache enables the template classification cache.
func WithCache(enable bool) Option {
	return func(o *options) { o.cache = enable }
}

// WithLogger sets the logger passed down to the expander and the filter.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
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

func (o options) pattern() []pattern.Option {
	return []pattern.Option{
		pattern.WithLimit(o.limit),
		pattern.WithCache(o.cache),
		pattern.WithLogger(o.logger),
	}
}

// Generate returns the names produced by template, an optionally filtered
// template such as "[Room, 1...10, if i % 2 == 0]".
func Generate(ctx context.Context, template string, opts ...Option) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o := makeOptions(opts...)

	base, predicate, filtered := filter.Extract(template)

	names, err := pattern.Expand(base, o.pattern()...)
	if err != nil {
		return nil, err
	}

	if filtered {
		total := len(names)
		names = filter.Apply(names, predicate, filter.WithLogger(o.logger))

		o.logger.TraceContext(ctx, "filtered names",
			slog.String("predicate", predicate),
			slog.Int("expanded", total),
			slog.Int("kept", len(names)),
		)
	}

	o.logger.DebugContext(ctx, "generated names",
		slog.String("template", template),
		slog.Int("count", len(names)),
	)

	return names, nil
}

// GenerateAffixed returns the names produced by target, a name that may
// embed one bracketed template, as in "Week [1...3] archive". Each generated
// name keeps the text around the bracket. The limit applies to the embedded
// template.
func GenerateAffixed(ctx context.Context, target string, opts ...Option) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o := makeOptions(opts...)

	names, err := pattern.ExpandAffixed(target, o.pattern()...)
	if err != nil {
		return nil, err
	}

	o.logger.DebugContext(ctx, "generated affixed names",
		slog.String("target", target),
		slog.Int("count", len(names)),
	)

	return names, nil
}
