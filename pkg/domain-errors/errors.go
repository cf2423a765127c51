// Package domainerrors provides coded errors for the service layer. Handlers
// translate codes into HTTP statuses; services and domain code never import
// net/http.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for transport mapping and for tests that assert on
// failure category rather than message wording.
type Code string

const (
	CodeValidation      Code = "validation_error"
	CodeBadRequest      Code = "bad_request"
	CodeConflict        Code = "conflict"
	CodeNotFound        Code = "not_found"
	CodeForbidden       Code = "forbidden"
	CodeUnauthorized    Code = "unauthorized"
	CodeTimeout         Code = "timeout"
	CodeUnavailable     Code = "unavailable"
	CodeTooManyRequests Code = "too_many_requests"
	CodeInternal        Code = "internal_error"
)

// Error carries a code, a human-readable message, and an optional cause.
type Error struct {
	code Code
	msg  string
	err  error
}

// New constructs a coded error with no underlying cause.
func New(code Code, msg string) *Error {
	return &Error{code: code, msg: msg}
}

// Newf constructs a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is / errors.As.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{code: code, msg: msg, err: err}
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// Code returns the classification of this error.
func (e *Error) Code() Code { return e.code }

// Message returns the human-readable message without the wrapped cause.
func (e *Error) Message() string { return e.msg }

// CodeOf extracts the code from an error chain. Unclassified errors report
// CodeInternal so callers fail safe.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.code == code
	}
	return false
}

// Is is a readable alias for HasCode.
func Is(err error, code Code) bool { return HasCode(err, code) }
