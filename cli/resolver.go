package cli

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] that reads a YAML configuration
// file, such as the one written by "chanplate init".
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Keys are flag names. Hyphens and underscores are interchangeable, and a
// nested mapping is flattened by joining keys with a hyphen:
//
//	log-level: debug
//	log:
//	  pretty: false
//	limit: 500
//
// is applied as --log-level=debug --no-log-pretty --limit=500.
// Command-line flags and environment variables override config file values.
// An empty document yields an empty configuration.
func resolve(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return config{}, nil
		}

		return nil, err
	}

	cfg := config{}
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over a flattened YAML document.
type config map[string]any

// flatten stores the scalars and sequences of doc under hyphen-joined keys.
func (c config) flatten(prefix string, doc map[string]any) {
	for key, val := range doc {
		name := normalize(key)
		if prefix != "" {
			name = prefix + "-" + name
		}

		if m, ok := val.(map[string]any); ok {
			c.flatten(name, m)

			continue
		}

		c[name] = scalar(val)
	}
}

// normalize folds a config key into kong's flag name form.
func normalize(key string) string {
	return strings.ReplaceAll(strings.TrimSpace(key), "_", "-")
}

// scalar converts a decoded YAML value into a form kong can parse.
// Kong parses numbers from strings, and sequences from comma-joined strings.
func scalar(val any) any {
	switch v := val.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := scalar(e).(string); ok {
				parts = append(parts, s)
			} else {
				parts = append(parts, strings.TrimSpace(yamlString(e)))
			}
		}

		return strings.Join(parts, ",")
	default:
		return v
	}
}

func yamlString(v any) string {
	data, err := yaml.Marshal(v)
	if err != nil {
		return ""
	}

	return string(data)
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	return nil, nil
}
