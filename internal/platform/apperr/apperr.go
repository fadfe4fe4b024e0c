// Package apperr defines the error taxonomy shared by all ledger services.
// Every failure path in the domain layer returns one of these typed errors;
// the HTTP layer translates them to status codes in one place.
package apperr

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure.
type Code string

const (
	CodeNotFound        Code = "not_found"
	CodeConflict        Code = "conflict"
	CodeInvalidState    Code = "invalid_state"
	CodeInvalidArgument Code = "invalid_argument"
	CodeForbidden       Code = "forbidden"
)

// Error is a typed domain error.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func newError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return newError(CodeNotFound, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newError(CodeConflict, format, args...)
}

func InvalidState(format string, args ...interface{}) *Error {
	return newError(CodeInvalidState, format, args...)
}

func InvalidArgument(format string, args ...interface{}) *Error {
	return newError(CodeInvalidArgument, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newError(CodeForbidden, format, args...)
}

// Wrap attaches a cause to a typed error so callers can still reach the
// underlying storage error with errors.Is/As.
func Wrap(err *Error, cause error) *Error {
	e := *err
	e.cause = cause
	return &e
}

// CodeOf extracts the taxonomy code from err, or "" when err is not typed.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func IsNotFound(err error) bool        { return CodeOf(err) == CodeNotFound }
func IsConflict(err error) bool        { return CodeOf(err) == CodeConflict }
func IsInvalidState(err error) bool    { return CodeOf(err) == CodeInvalidState }
func IsInvalidArgument(err error) bool { return CodeOf(err) == CodeInvalidArgument }
func IsForbidden(err error) bool       { return CodeOf(err) == CodeForbidden }
