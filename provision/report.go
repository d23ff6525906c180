package provision

import (
	"fmt"
	"strings"
)

// Operation names a batch operation.
type Operation string

// Batch operations.
const (
	OpCreate Operation = "create"
	OpRemove Operation = "remove"
	OpClone  Operation = "clone"
)

// Failure records a name that could not be processed.
type Failure struct {
	Name string `json:"name" yaml:"name"`
	Err  error  `json:"-"    yaml:"-"`
}

// CloneResult is one category produced by a clone.
type CloneResult struct {
	Name     string `json:"name"     yaml:"name"`
	Channels int    `json:"channels" yaml:"channels"`
}

// Report summarizes a batch operation.
type Report struct {
	Batch     string        `json:"batch"              yaml:"batch"`
	Operation Operation     `json:"operation"          yaml:"operation"`
	Category  string        `json:"category,omitempty" yaml:"category,omitempty"`
	Names     []string      `json:"names"              yaml:"names"`
	Done      []string      `json:"done"               yaml:"done"`
	Failures  []Failure     `json:"failures,omitempty" yaml:"failures,omitempty"`
	Clones    []CloneResult `json:"clones,omitempty"   yaml:"clones,omitempty"`
}

func (r *Report) fail(name string, err error) {
	r.Failures = append(r.Failures, Failure{Name: name, Err: err})
}

// String renders a one-line summary followed by one line per clone or
// failure.
func (r *Report) String() string {
	var sb strings.Builder

	switch r.Operation {
	case OpCreate:
		fmt.Fprintf(&sb, "Created %d channels", len(r.Done))

		if len(r.Done) > 0 {
			sb.WriteString(": " + strings.Join(r.Done, ", "))
		}
	case OpRemove:
		fmt.Fprintf(&sb, "Deleted %d channels", len(r.Done))

		if r.Category != "" {
			fmt.Fprintf(&sb, " from %s", r.Category)
		}
	case OpClone:
		sb.WriteString("Clone complete")

		for _, c := range r.Clones {
			fmt.Fprintf(&sb, "\n• %s → %d channels", c.Name, c.Channels)
		}
	}

	for _, f := range r.Failures {
		fmt.Fprintf(&sb, "\nfailed %s: %v", f.Name, f.Err)
	}

	return sb.String()
}
