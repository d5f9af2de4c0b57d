// Package domainerrors carries the error codes callers of the case workflow can tell apart.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error
type Code string

// Error codes
const (
	CodeNotFound     Code = "not_found"
	CodeValidation   Code = "validation"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal"
)

// Error is a classified failure with a caller-safe message
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an error with the given code and message
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap classifies err under code
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// NotFound returns a not_found error
func NotFound(message string) *Error { return New(CodeNotFound, message) }

// Validation returns a validation error
func Validation(message string) *Error { return New(CodeValidation, message) }

// Unauthorized returns an unauthorized error
func Unauthorized(message string) *Error { return New(CodeUnauthorized, message) }

// Forbidden returns a forbidden error
func Forbidden(message string) *Error { return New(CodeForbidden, message) }

// Conflict returns a conflict error
func Conflict(message string) *Error { return New(CodeConflict, message) }

// Internal wraps an unexpected failure
func Internal(message string, err error) *Error { return Wrap(err, CodeInternal, message) }

// CodeOf returns the code of the first *Error in err's chain, or CodeInternal
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Is reports whether err carries code
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}
