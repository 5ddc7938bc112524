package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lib/pq"

	"github.com/Innei/mx-gobackend/internal/constants"
)

// Custom error types for the application. Every failure the core produces
// maps to exactly one of these kinds; infrastructure faults stay on
// ErrInternalServer and are never reported as credential rejections.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("conflict")
	ErrUnprocessable   = errors.New("unprocessable input")
	ErrBadRequest      = errors.New("invalid request")
	ErrValidation      = errors.New("validation error")
	ErrInternalServer  = errors.New("internal server error")
)

// AppError represents an application error with additional context
type AppError struct {
	Err        error  // The underlying error kind
	StatusCode int    // HTTP status code
	Message    string // User-facing error message
	DevInfo    string // Additional information for developers
	Field      string // Field related to the error (for validation errors)
	Details    map[string]any
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewUnauthenticatedError creates a credential-rejection error. The message
// is one of the stable guard messages (missing/invalid credential, session
// expired, bad credentials).
func NewUnauthenticatedError(message string) *AppError {
	if message == "" {
		message = constants.MsgMissingCredential
	}
	return &AppError{
		Err:        ErrUnauthenticated,
		StatusCode: http.StatusUnauthorized,
		Message:    message,
	}
}

// NewConflictError creates a duplicate-resource error
func NewConflictError(message string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		StatusCode: http.StatusConflict,
		Message:    message,
	}
}

// NewUnprocessableError creates an error for input that is well-formed but
// semantically rejected (e.g. reusing the current password).
func NewUnprocessableError(message string) *AppError {
	return &AppError{
		Err:        ErrUnprocessable,
		StatusCode: http.StatusUnprocessableEntity,
		Message:    message,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resourceType string, identifier interface{}) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier),
	}
}

// NewValidationError creates a new validation error for a specific field
func NewValidationError(field, message string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		StatusCode: http.StatusBadRequest,
		Message:    message,
		Field:      field,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}

// NewInternalServerError creates a new internal server error
func NewInternalServerError(err error) *AppError {
	devInfo := ""
	if err != nil {
		devInfo = err.Error()
	}
	return &AppError{
		Err:        ErrInternalServer,
		StatusCode: http.StatusInternalServerError,
		Message:    "An internal server error occurred",
		DevInfo:    devInfo,
	}
}

// ParseError attempts to parse various types of errors into an AppError
func ParseError(err error) *AppError {
	// If it's already an AppError, return it
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return NewNotFoundError("Resource", "")
	case errors.Is(err, ErrUnauthenticated):
		return NewUnauthenticatedError(err.Error())
	case errors.Is(err, ErrConflict):
		return NewConflictError(err.Error())
	case errors.Is(err, ErrUnprocessable):
		return NewUnprocessableError(err.Error())
	case errors.Is(err, ErrBadRequest):
		return NewBadRequestError(err.Error())
	case errors.Is(err, ErrValidation):
		return NewValidationError("", err.Error())
	}

	// PostgreSQL-specific errors from the record store
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return &AppError{
				Err:        ErrConflict,
				StatusCode: http.StatusConflict,
				Message:    "A resource with the same unique identifier already exists",
				DevInfo:    pqErr.Error(),
			}
		case "23502": // not_null_violation
			return &AppError{
				Err:        ErrValidation,
				StatusCode: http.StatusBadRequest,
				Message:    fmt.Sprintf("The %s field cannot be empty", pqErr.Column),
				DevInfo:    pqErr.Error(),
				Field:      pqErr.Column,
			}
		}
	}

	// Generic database error patterns
	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "duplicate key") || strings.Contains(errMsg, "unique constraint"):
		return &AppError{
			Err:        ErrConflict,
			StatusCode: http.StatusConflict,
			Message:    "A resource with the same unique identifier already exists",
			DevInfo:    err.Error(),
		}
	case strings.Contains(errMsg, "no rows"):
		return &AppError{
			Err:        ErrNotFound,
			StatusCode: http.StatusNotFound,
			Message:    "The requested resource could not be found",
			DevInfo:    err.Error(),
		}
	}

	// Everything else is an infrastructure fault.
	return NewInternalServerError(err)
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return errors.Is(appErr.Err, ErrNotFound)
	}
	return errors.Is(err, ErrNotFound)
}

// IsUnauthenticatedError checks if an error is a credential rejection
func IsUnauthenticatedError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return errors.Is(appErr.Err, ErrUnauthenticated)
	}
	return errors.Is(err, ErrUnauthenticated)
}

// IsConflictError checks if an error is a duplicate resource error
func IsConflictError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return errors.Is(appErr.Err, ErrConflict)
	}
	return errors.Is(err, ErrConflict)
}

// IsUnprocessableError checks if an error is an unprocessable input error
func IsUnprocessableError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return errors.Is(appErr.Err, ErrUnprocessable)
	}
	return errors.Is(err, ErrUnprocessable)
}

// StatusCode returns the HTTP status code for an error
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
