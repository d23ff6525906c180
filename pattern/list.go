package pattern

import "strings"

// listItems splits a fully bracketed, comma-separated template into its
// trimmed items. It reports false for anything that is not a list of at
// least two items.
func listItems(s string) ([]string, bool) {
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, false
	}

	inner := s[1 : len(s)-1]
	if strings.Contains(inner, "...") {
		return nil, false
	}

	items := strings.Split(inner, ",")
	if len(items) < 2 {
		return nil, false
	}

	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}

	return items, true
}
