package pattern

import (
	"log/slog"
	"slices"
	"strings"
)

// maxPrealloc bounds the capacity reserved up front for unlimited expansions.
const maxPrealloc = 1 << 16

// Expand classifies template and returns every name it generates, in order.
//
// A template that matches no kind is returned unchanged as the only name.
// The returned slice is owned by the caller.
func Expand(template string, opts ...Option) ([]string, error) {
	o := makeOptions(opts...)

	p, err := o.parse(template)
	if err != nil {
		o.logger.Trace("classify failed",
			slog.String("template", template),
			slog.Any("error", err),
		)

		return nil, err
	}

	n := p.Len()
	if o.limit > 0 && n > o.limit {
		return nil, ErrLimit.With(
			slog.String("template", template),
			slog.Int("count", n),
			slog.Int("limit", o.limit),
		)
	}

	names := slices.AppendSeq(make([]string, 0, min(n, maxPrealloc)), p.All())

	o.logger.Trace("expanded template",
		slog.String("template", template),
		slog.String("kind", p.Kind.String()),
		slog.Int("count", len(names)),
	)

	return names, nil
}

// ExpandAffixed expands the first bracketed template embedded in target and
// surrounds each generated name with the text before and after it, so
// "Week [1...2] notes" yields "Week 1 notes" and "Week 2 notes". A target
// without a non-empty bracketed section is returned unchanged.
func ExpandAffixed(target string, opts ...Option) ([]string, error) {
	prefix, template, suffix, ok := cutBracket(target)
	if !ok {
		return []string{target}, nil
	}

	names, err := Expand(template, opts...)
	if err != nil {
		return nil, err
	}

	for i, name := range names {
		names[i] = prefix + name + suffix
	}

	return names, nil
}

// cutBracket splits s around its first non-empty [...] section; the section
// keeps its brackets.
func cutBracket(s string) (prefix, section, suffix string, ok bool) {
	for pos := 0; pos < len(s); {
		open := strings.IndexByte(s[pos:], '[')
		if open < 0 {
			break
		}

		open += pos

		end := strings.IndexByte(s[open+1:], ']')
		if end < 0 {
			break
		}

		end += open + 1
		if end > open+1 {
			return s[:open], s[open : end+1], s[end+1:], true
		}

		pos = end + 1
	}

	return "", "", "", false
}

func (o options) parse(template string) (*Pattern, error) {
	if !o.cache {
		return Parse(template)
	}

	return parseCached(template, o.logger)
}
