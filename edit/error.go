package edit

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values). These map directly onto the error
// kinds surfaced through the operation protocol: input errors, shape
// errors, lookup errors, and file errors.
var (
	ErrNoEntry          = NewError("no dependency specified")
	ErrShapeMismatch    = NewError("document does not match expected shape")
	ErrMissingParameter = NewError("lambda pattern does not bind pkgs")
	ErrMissingKey       = NewError("required key not found")
	ErrNotFound         = NewError("dependency not found")
	ErrUnknownCategory  = NewError("unknown dependency category")
	ErrUnknownOp        = NewError("unknown operation")
	ErrReadFile         = NewError("cannot read file")
	ErrWriteFile        = NewError("cannot write file")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
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

// Is matches errors derived from the same sentinel: Wrap and With return
// new instances, so identity comparison alone would never match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
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

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// IsShapeError reports whether err is one of the schema-shape failures:
// a kind mismatch, a missing pkgs parameter, or a missing required key.
func IsShapeError(err error) bool {
	return errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrMissingParameter) ||
		errors.Is(err, ErrMissingKey)
}
