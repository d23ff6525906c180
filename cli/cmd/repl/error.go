package repl

import "errors"

// Errors reported by the history and the template editor.
var (
	// ErrOutOfBounds is returned by [History.Entry] for an index outside the
	// history.
	ErrOutOfBounds = errors.New("history index out of range")
	// ErrEditDeclined ends the session when the user does not re-edit an
	// invalid template.
	ErrEditDeclined = errors.New("template edit declined")
)
