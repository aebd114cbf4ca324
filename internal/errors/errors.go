package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation         ErrorType = "validation"
	ErrorTypeNetwork            ErrorType = "network"
	ErrorTypeUpstream           ErrorType = "upstream"
	ErrorTypeUnexpectedResponse ErrorType = "unexpected_response"
	ErrorTypeUnsupportedMedia   ErrorType = "unsupported_media"
	ErrorTypeNotFound           ErrorType = "not_found"
	ErrorTypeConflict           ErrorType = "conflict"
	ErrorTypeInternal           ErrorType = "internal"
)

// UnknownErrorMessage is shown when an error carries no user-facing message
const UnknownErrorMessage = "An unknown error occurred."

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"status_code"`
	// UpstreamStatus is the prediction backend's HTTP status for upstream errors
	UpstreamStatus int      `json:"upstream_status,omitempty"`
	Fields         []string `json:"fields,omitempty"`
	Cause          error    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewFieldValidationError creates a validation error flagging form fields
func NewFieldValidationError(message string, fields []string) *AppError {
	err := NewValidationError(message, nil)
	err.Fields = fields
	return err
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNetwork,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewUpstreamError creates an error for a non-success response from the prediction backend
func NewUpstreamError(message string, upstreamStatus int, body string) *AppError {
	return &AppError{
		Type:           ErrorTypeUpstream,
		Message:        message,
		Details:        body,
		StatusCode:     http.StatusBadGateway,
		UpstreamStatus: upstreamStatus,
	}
}

// NewUnexpectedResponseError creates an error for a response that does not match the expected shape
func NewUnexpectedResponseError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUnexpectedResponse,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewUnsupportedMediaError creates an error for a rejected upload type
func NewUnsupportedMediaError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUnsupportedMedia,
		Message:    message,
		StatusCode: http.StatusUnsupportedMediaType,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
		Cause:      cause,
	}
}

// NewConflictError creates an error for an action refused in the current state
func NewConflictError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Message:    message,
		StatusCode: http.StatusConflict,
		Cause:      cause,
	}
}

// As extracts an AppError from anywhere in err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	if appErr, ok := As(err); ok {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// UserMessage returns the message shown to the user for err.
// Errors outside the taxonomy fall back to a generic message.
func UserMessage(err error) string {
	if appErr, ok := As(err); ok && appErr.Message != "" {
		return appErr.Message
	}
	return UnknownErrorMessage
}
