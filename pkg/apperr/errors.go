// Package apperr defines the error kinds the API surfaces to clients and the
// HTTP status each of them maps to.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an error for programmatic handling.
type ErrorCode string

const (
	// ErrCodeValidation indicates malformed or invalid input.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeConflict indicates a uniqueness rule was violated (duplicate email, second admin).
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeInvalidCredentials is returned for every failed login, whatever the cause.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrCodeUnauthorized indicates a missing, invalid or expired credential.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeForbidden indicates a role or ownership mismatch.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrCodeNotFound indicates a requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeUnavailable indicates an optional integration is not configured.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Error carries a code, a client-safe message and the underlying cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error that keeps cause in its chain.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func Validation(message string) *Error   { return New(ErrCodeValidation, message) }
func Conflict(message string) *Error     { return New(ErrCodeConflict, message) }
func NotFound(message string) *Error     { return New(ErrCodeNotFound, message) }
func Forbidden(message string) *Error    { return New(ErrCodeForbidden, message) }
func Unauthorized(message string) *Error { return New(ErrCodeUnauthorized, message) }

// InvalidCredentials is deliberately the same for unknown email and wrong password.
func InvalidCredentials() *Error {
	return New(ErrCodeInvalidCredentials, "Invalid credentials")
}

// CodeOf returns the code of the first *Error in err's chain, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// HTTPStatus maps an error to the response status the API uses for it.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case ErrCodeValidation, ErrCodeConflict, ErrCodeInvalidCredentials:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
