// Package apperr defines the error kinds reported by the marketplace core.
// None of them are fatal; callers discriminate on Kind and decide how to
// present the failure.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindStorage      Kind = "storage"
)

// Error is a classified core error
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Msg != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports missing, zero or negative required input
func Validation(op, format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// NotFound reports a failed lookup by id or username
func NotFound(op, format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Conflict reports a duplicate key or a transition the current state forbids
func Conflict(op, format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Unauthorized reports a rejected credential
func Unauthorized(op, format string, args ...interface{}) error {
	return &Error{Kind: KindUnauthorized, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Storage wraps a persistence failure
func Storage(op string, err error) error {
	return &Error{Kind: KindStorage, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
