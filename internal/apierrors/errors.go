package apierrors

import (
	"fmt"
	"net/http"
)

// Error codes returned to API clients
const (
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidState    = "INVALID_STATE"
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnsupported     = "UNSUPPORTED"
	CodeUnavailable     = "SERVICE_UNAVAILABLE"
	CodeInternal        = "INTERNAL_ERROR"
	CodePreconditionNot = "PRECONDITION_FAILED"
)

// APIError carries the HTTP status, machine-readable code and
// client-facing message of an error response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	internal   error
}

func (e *APIError) Error() string {
	if e.internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.internal)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.internal
}

// NotFound builds a 404 error.
func NotFound(message string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

// Conflict builds a 409 error.
func Conflict(message string) *APIError {
	return &APIError{StatusCode: http.StatusConflict, Code: CodeConflict, Message: message}
}

// BadRequest builds a 400 error with a custom code.
func BadRequest(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Code: code, Message: message}
}

// UnprocessableState builds a 409 for illegal state-machine transitions.
func UnprocessableState(message string) *APIError {
	return &APIError{StatusCode: http.StatusConflict, Code: CodeInvalidState, Message: message}
}

// ServiceUnavailable builds a 503 error.
func ServiceUnavailable(message string, internal error) *APIError {
	return &APIError{StatusCode: http.StatusServiceUnavailable, Code: CodeUnavailable, Message: message, internal: internal}
}

// InternalError builds a sanitized 500 error. The internal cause is kept
// for logging only, never returned to the client.
func InternalError(internal error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternal,
		Message:    "An internal error occurred. Please try again later.",
		internal:   internal,
	}
}
