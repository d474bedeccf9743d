package common

import (
	"errors"
	"net/http"
)

// Error codes used across the wholesale portal API.
const (
	CodeBadRequest     = "BAD_REQUEST"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeInternal       = "INTERNAL"
	CodeDependencyDown = "DEPENDENCY_UNAVAILABLE"
	CodeVendorAuth     = "VENDOR_AUTH_REQUIRED"
	CodeVendorMismatch = "VENDOR_ID_MISMATCH"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// ValidationError reports a malformed or empty request payload.
func ValidationError(message string, err error) *AppError {
	return NewAppError(CodeBadRequest, message, http.StatusBadRequest, err)
}

// AuthenticationRequired reports missing credentials, an unknown vendor, or a
// vendor whose portal access is disabled.
func AuthenticationRequired() *AppError {
	return NewAppError(CodeVendorAuth, "vendor authorization required", http.StatusUnauthorized, nil)
}

// AuthorizationMismatch reports a caller-specified vendor id that differs from
// the vendor the credentials resolved to.
func AuthorizationMismatch() *AppError {
	return NewAppError(CodeVendorMismatch, "vendor id mismatch", http.StatusForbidden, nil)
}

// NotFoundError reports an unknown product, order, or vendor id.
func NotFoundError(message string, err error) *AppError {
	return NewAppError(CodeNotFound, message, http.StatusNotFound, err)
}

// DependencyUnavailable reports an unreachable or misconfigured store.
func DependencyUnavailable(err error) *AppError {
	return NewAppError(CodeDependencyDown, "service temporarily unavailable", http.StatusInternalServerError, err)
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}
