package apierrors

import (
	"fmt"
	"net/http"
)

// Machine-readable error codes returned alongside HTTP statuses.
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeNotFound            = "NOT_FOUND"
	CodePageNotFound        = "PAGE_NOT_FOUND"
	CodeLeadNotFound        = "LEAD_NOT_FOUND"
	CodeConnectionNotFound  = "CONNECTION_NOT_FOUND"
	CodeUnknownProvider     = "UNKNOWN_PROVIDER"
	CodeCredentialRejected  = "CREDENTIAL_REJECTED"
	CodeProviderUnavailable = "PROVIDER_UNAVAILABLE"
	CodeInvalidStatus       = "INVALID_STATUS"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodePermissionDenied    = "PERMISSION_DENIED"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeEmailNotFound       = "EMAIL_NOT_FOUND"
	CodeIncorrectPassword   = "INCORRECT_PASSWORD"
)

// APIError is the sanitized error surfaced to API clients. Internal error
// detail stays in the logs; only Message and Code cross the boundary.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	internal   error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.internal != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.internal)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the internal error for errors.Is/As chains
func (e *APIError) Unwrap() error {
	return e.internal
}

// BadRequest builds a 400 error
func BadRequest(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Code: code, Message: message}
}

// NotFound builds a 404 error
func NotFound(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Code: code, Message: message}
}

// Unauthorized builds a 401 error
func Unauthorized(message string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

// Forbidden builds a 403 error
func Forbidden(message string) *APIError {
	return &APIError{StatusCode: http.StatusForbidden, Code: CodePermissionDenied, Message: message}
}

// TooManyRequests builds a 429 error
func TooManyRequests(message string) *APIError {
	return &APIError{StatusCode: http.StatusTooManyRequests, Code: CodeRateLimited, Message: message}
}

// ServiceUnavailable builds a 503 error carrying the internal cause
func ServiceUnavailable(code, message string, internal error) *APIError {
	return &APIError{StatusCode: http.StatusServiceUnavailable, Code: code, Message: message, internal: internal}
}

// InternalError builds a sanitized 500 error - never exposes internal details
func InternalError(internal error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternalError,
		Message:    "An internal error occurred. Please try again later.",
		internal:   internal,
	}
}
