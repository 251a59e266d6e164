// Package apierrors defines the coded error taxonomy surfaced by the HTTP API.
package apierrors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a specific failure class.
type ErrorCode string

const (
	// ErrCodeAlreadyExists indicates a registration conflict.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeInvalidCredentials indicates a login failure.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrCodeUnsupportedFormat indicates an import file the service cannot parse.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeNotFound indicates a referenced entity does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeUnauthenticated indicates a missing or invalid bearer token.
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeRateLimitExceeded indicates the per-user rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeInternal indicates an unhandled upstream failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// APIError is a structured error carrying a taxonomy code.
type APIError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error code to an HTTP status code.
func (e *APIError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeAlreadyExists:
		return http.StatusConflict
	case ErrCodeInvalidCredentials, ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case ErrCodeUnsupportedFormat, ErrCodeInvalidArgument:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Convenience constructors for common error types.

// AlreadyExists creates a registration conflict error.
func AlreadyExists(msg string) *APIError {
	return &APIError{Code: ErrCodeAlreadyExists, Message: msg}
}

// InvalidCredentials creates a login failure error.
func InvalidCredentials(msg string) *APIError {
	return &APIError{Code: ErrCodeInvalidCredentials, Message: msg}
}

// UnsupportedFormat creates an unsupported import format error.
func UnsupportedFormat(msg string) *APIError {
	return &APIError{Code: ErrCodeUnsupportedFormat, Message: msg}
}

// NotFound creates a missing entity error.
func NotFound(msg string) *APIError {
	return &APIError{Code: ErrCodeNotFound, Message: msg}
}

// Unauthenticated creates a missing/invalid credential error.
func Unauthenticated(msg string) *APIError {
	return &APIError{Code: ErrCodeUnauthenticated, Message: msg}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *APIError {
	return &APIError{Code: ErrCodeInvalidArgument, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *APIError {
	return &APIError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// Internal wraps an unhandled upstream failure.
func Internal(msg string, cause error) *APIError {
	return &APIError{Code: ErrCodeInternal, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Code == code
	}
	return false
}
