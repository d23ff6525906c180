package pattern

import "github.com/ardnew/chanplate/log"

// Option configures [Expand] and [ExpandAffixed].
type Option func(*options)

type options struct {
	limit  int
	cache  bool
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

// WithLimit rejects templates that generate more than n names with
// [ErrLimit]. A limit of zero or less means no limit.
func WithLimit(n int) Option {
	return func(o *options) { o.limit = n }
}

// WithCache memoizes classification results in a process-wide cache keyed
// by template. Generated sequences are still produced fresh per call.
func WithCache(enable bool) Option {
	return func(o *options) { o.cache = enable }
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}
