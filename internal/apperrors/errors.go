// Package apperrors defines the typed failures returned by the core services.
// Handlers translate them into transport responses; nothing in the core
// retries on them.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindInvalidState
	KindInsufficientBalance
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindForbidden:
		return "FORBIDDEN"
	case KindInvalidState:
		return "INVALID_STATE"
	case KindInsufficientBalance:
		return "INSUFFICIENT_BALANCE"
	case KindUnavailable:
		return "UNAVAILABLE"
	default:
		return "INTERNAL"
	}
}

// Error is a failure tagged with its Kind.
type Error struct {
	Kind    Kind
	Op      string // operation that failed, e.g. "collection.accept"
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind. This lets callers
// write errors.Is(err, apperrors.ErrInvalidState).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Message == "" && t.Err == nil
}

// Kind sentinels, for use with errors.Is.
var (
	ErrValidation          = &Error{Kind: KindValidation}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrForbidden           = &Error{Kind: KindForbidden}
	ErrInvalidState        = &Error{Kind: KindInvalidState}
	ErrInsufficientBalance = &Error{Kind: KindInsufficientBalance}
	ErrUnavailable         = &Error{Kind: KindUnavailable}
	ErrInternal            = &Error{Kind: KindInternal}
)

func newf(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

func Validation(op, format string, args ...interface{}) error {
	return newf(KindValidation, op, format, args...)
}

func NotFound(op, format string, args ...interface{}) error {
	return newf(KindNotFound, op, format, args...)
}

func Forbidden(op, format string, args ...interface{}) error {
	return newf(KindForbidden, op, format, args...)
}

func InvalidState(op, format string, args ...interface{}) error {
	return newf(KindInvalidState, op, format, args...)
}

func InsufficientBalance(op, format string, args ...interface{}) error {
	return newf(KindInsufficientBalance, op, format, args...)
}

func Unavailable(op, format string, args ...interface{}) error {
	return newf(KindUnavailable, op, format, args...)
}

// Internal wraps an unexpected infrastructure error.
func Internal(op string, err error) error {
	return &Error{Kind: KindInternal, Op: op, Message: "internal error", Err: err}
}

// KindOf returns the Kind carried by err, or KindInternal when err is not an
// *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
