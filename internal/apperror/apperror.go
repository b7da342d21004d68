// Package apperror defines the business error taxonomy shared by services and
// the HTTP layer. Services return *Error values; handlers translate them to
// status codes through apierror.FromError.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a business error.
type Kind int

const (
	// KindValidation is a user-correctable input problem.
	KindValidation Kind = iota + 1
	// KindNotFound means a referenced entity does not exist.
	KindNotFound
	// KindConsistency means an invariant would be broken; the write is rejected.
	KindConsistency
	// KindState means the entity is in a state that forbids the operation.
	KindState
	// KindUnauthorized covers bad credentials and invalid tokens.
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConsistency:
		return "consistency"
	case KindState:
		return "state"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Error is a business error with a stable machine code and a Spanish message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches on Kind and Code so sentinel values work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

func newf(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(code, format string, args ...any) *Error {
	return newf(KindValidation, code, format, args...)
}

func NotFound(code, format string, args ...any) *Error {
	return newf(KindNotFound, code, format, args...)
}

func Consistency(code, format string, args ...any) *Error {
	return newf(KindConsistency, code, format, args...)
}

func State(code, format string, args ...any) *Error {
	return newf(KindState, code, format, args...)
}

func Unauthorized(code, format string, args ...any) *Error {
	return newf(KindUnauthorized, code, format, args...)
}

// IsKind reports whether err (or anything it wraps) is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// As returns the *Error wrapped by err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
