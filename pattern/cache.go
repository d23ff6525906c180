package pattern

import (
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/chanplate/log"
)

// globalCache stores classification results keyed by template hash.
var globalCache sync.Map

// entry is a memoized Parse result. A Pattern is never modified after
// Parse returns it, so one instance is shared by every caller.
type entry struct {
	once     sync.Once
	template string
	pattern  *Pattern
	err      error
}

// parseCached is Parse backed by globalCache.
func parseCached(template string, logger log.Logger) (*Pattern, error) {
	hash := xxh3.HashString(template)
	key := strconv.FormatUint(hash, 36)

	value, hit := globalCache.LoadOrStore(key, &entry{template: template})

	e, ok := value.(*entry)
	if !ok || e.template != template {
		// Hash collision with a different template.
		logger.Trace("cache bypass", slog.String("hash", key))

		return Parse(template)
	}

	logger.Trace("cache lookup",
		slog.String("hash", key),
		slog.Bool("cache_hit", hit),
	)

	e.once.Do(func() { e.pattern, e.err = Parse(template) })

	return e.pattern, e.err
}

// ClearCache removes all memoized classification results.
func ClearCache() {
	globalCache.Clear()
}
