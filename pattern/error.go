package pattern

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values). Decorated copies created with
// [Error.With] and [Error.Wrap] still match their sentinel with [errors.Is].
var (
	// ErrFormat reports a template that structurally matched a range, grid or
	// list but has an internally inconsistent bound: a malformed time of day,
	// a non-positive step, letters of different case, and so on.
	ErrFormat = NewError("invalid template")

	// ErrLimit reports a template that would generate more names than the
	// limit configured with [WithLimit].
	ErrLimit = NewError("template generates too many names")
)

// Causes wrapped by ErrFormat.
var (
	errStep     = errors.New("step must be a positive integer")
	errNumber   = errors.New("bound is not a non-negative integer")
	errTime     = errors.New("bound is not a 24-hour HH:MM time")
	errLetter   = errors.New("bound is not a single letter")
	errCase     = errors.New("letter bounds differ in case")
	errMixed    = errors.New("bounds are of different kinds")
	errBound    = errors.New("unrecognized range bound")
	errAxis     = errors.New("brace group is not of the form {a...b}")
	errEllipsis = errors.New("missing '...' between bounds")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer.
type Error struct {
	msg   string
	err   error       // wrapped cause
	attrs []slog.Attr // attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error with the same message, so that
// decorated copies match the sentinel they were derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attrs returns a copy of the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	merged := make([]slog.Attr, len(e.attrs), len(e.attrs)+len(attrs))
	copy(merged, e.attrs)

	return &Error{msg: e.msg, err: e.err, attrs: append(merged, attrs...)}
}

// formatError builds an ErrFormat for template caused by cause at token.
func formatError(template, token string, cause error) *Error {
	err := ErrFormat.With(slog.String("template", template))
	if token != "" {
		err = err.With(slog.String("bound", token))
	}

	return err.Wrap(cause)
}
