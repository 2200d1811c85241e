// Package errors provides standardized domain errors with codes for the
// psdgate API.
//
// Usage:
//
//	// In services - return typed errors
//	if code == "" {
//	    return errors.Unresolvedf("commodity not found: %s", input)
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrUnresolved) {
//	    ...
//	}
//
// The taxonomy mirrors what callers need to tell apart: bad input (400),
// a name that matches nothing (404 UNRESOLVED), a resolved name with no rows
// for the requested scope (404 NO_DATA), and provider failures (502).
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound   Code = "NOT_FOUND"
	CodeValidation Code = "VALIDATION"
	CodeUnresolved Code = "UNRESOLVED"
	CodeNoData     Code = "NO_DATA"
	CodeUpstream   Code = "UPSTREAM"
	CodeInternal   Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound, CodeUnresolved, CodeNoData:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound   = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation = &Error{Code: CodeValidation, Message: "validation error"}
	ErrUnresolved = &Error{Code: CodeUnresolved, Message: "name not resolved"}
	ErrNoData     = &Error{Code: CodeNoData, Message: "no data"}
	ErrUpstream   = &Error{Code: CodeUpstream, Message: "upstream failure"}
	ErrInternal   = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Unresolvedf creates an error for a name that matched nothing.
func Unresolvedf(format string, args ...any) *Error {
	return &Error{Code: CodeUnresolved, Message: fmt.Sprintf(format, args...)}
}

// NoDataf creates an error for a resolved scope without rows.
func NoDataf(format string, args ...any) *Error {
	return &Error{Code: CodeNoData, Message: fmt.Sprintf(format, args...)}
}

// Upstream wraps a provider failure. Details carry the upstream envelope.
func Upstream(err error, msg string, details any) *Error {
	return &Error{Code: CodeUpstream, Message: msg, Details: details, cause: err}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}
