// Package apperr defines the outcome kinds returned by the catalog core.
// Handlers map kinds to transport status codes; the core never does.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrIntegrity  = errors.New("integrity error")
	ErrStorage    = errors.New("storage error")
)

// Error is an outcome of a given Kind carrying a client-safe Reason and,
// optionally, the underlying cause.
type Error struct {
	Kind   error
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func Validation(reason string) error { return &Error{Kind: ErrValidation, Reason: reason} }

func NotFound(reason string) error { return &Error{Kind: ErrNotFound, Reason: reason} }

func Conflict(reason string) error { return &Error{Kind: ErrConflict, Reason: reason} }

func Integrity(reason string) error { return &Error{Kind: ErrIntegrity, Reason: reason} }

// Storage wraps a failure of the underlying store. op names the failed
// operation, e.g. "list products".
func Storage(op string, cause error) error {
	return &Error{Kind: ErrStorage, Reason: op, Err: cause}
}

// Reason returns the client-safe message of err, or fallback when err is not
// an *Error or is a storage failure (whose cause must not leak).
func Reason(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && !errors.Is(e.Kind, ErrStorage) {
		return e.Reason
	}
	return fallback
}
