package plan

import (
	"fmt"
	"strings"
)

// DefaultPreviewSize is the number of names a preview lists.
const DefaultPreviewSize = 25

// Preview is a truncated, numbered view of a generated sequence.
type Preview struct {
	Names []string // at most the preview size, in order
	Total int      // length of the full sequence
}

// MakePreview keeps the first size names of names. A size of zero or less
// means [DefaultPreviewSize].
func MakePreview(names []string, size int) Preview {
	if size <= 0 {
		size = DefaultPreviewSize
	}

	shown := names[:min(size, len(names))]

	return Preview{Names: append([]string(nil), shown...), Total: len(names)}
}

// More returns the number of names left out of the preview.
func (p Preview) More() int { return p.Total - len(p.Names) }

// String renders the preview one numbered name per line.
func (p Preview) String() string {
	if p.Total == 0 {
		return "No results generated"
	}

	var sb strings.Builder

	for k, name := range p.Names {
		if k > 0 {
			sb.WriteByte('\n')
		}

		fmt.Fprintf(&sb, "%d. %s", k+1, name)
	}

	if n := p.More(); n > 0 {
		fmt.Fprintf(&sb, "\n...and %d more", n)
	}

	return sb.String()
}
