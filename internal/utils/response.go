// Package utils provides utility functions and helpers for the application.
// This file implements a standardized API response envelope so every
// endpoint answers in the same shape.
package utils

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Innei/mx-gobackend/internal/constants"
)

// Response represents a standardized API response.
type Response struct {
	Success bool        `json:"success"`         // Whether the request was successful
	Data    interface{} `json:"data,omitempty"`  // The response data (omitted for error responses)
	Error   *ErrorInfo  `json:"error,omitempty"` // Error information (omitted for successful responses)
}

// ErrorInfo represents error information in the response.
type ErrorInfo struct {
	Code    string            `json:"code"`              // A machine-readable error code
	Message string            `json:"message"`           // A human-readable error message
	Details map[string]string `json:"details,omitempty"` // Additional details (e.g. validation errors)
}

// JSON sends a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	response := Response{
		Success: statusCode >= 200 && statusCode < 300,
		Data:    data,
	}

	SendJSON(w, statusCode, response)
}

// Error sends an error response with the given status code and error information.
func Error(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	response := Response{
		Success: constants.ResponseFailure,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	SendJSON(w, statusCode, response)
}

// ErrorFromAppError sends an error response based on an AppError, mapping
// the error kind to its machine-readable code.
func ErrorFromAppError(w http.ResponseWriter, err *AppError) {
	errCode := constants.CodeInternalError
	switch err.Err {
	case ErrNotFound:
		errCode = constants.CodeNotFound
	case ErrUnauthenticated:
		errCode = constants.CodeUnauthenticated
	case ErrConflict:
		errCode = constants.CodeConflict
	case ErrUnprocessable:
		errCode = constants.CodeUnprocessable
	case ErrValidation:
		errCode = constants.CodeValidationError
	case ErrBadRequest:
		errCode = constants.CodeBadRequest
	}

	// Session expiry gets its own code so clients can prompt re-login.
	if errCode == constants.CodeUnauthenticated && err.Message == constants.MsgSessionExpired {
		errCode = constants.CodeTokenExpired
	}

	var details map[string]string
	if len(err.Details) > 0 {
		details = make(map[string]string, len(err.Details))
		for field, message := range err.Details {
			details[field] = fmt.Sprint(message)
		}
	}
	if err.Field != "" {
		if details == nil {
			details = make(map[string]string, 1)
		}
		details[err.Field] = err.Message
	}

	Error(w, err.StatusCode, errCode, err.Message, details)
}

// Unauthenticated sends a 401 response with the given message.
func Unauthenticated(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgMissingCredential
	}
	Error(w, http.StatusUnauthorized, constants.CodeUnauthenticated, message, nil)
}

// BadRequest sends a 400 response with the given message and details.
func BadRequest(w http.ResponseWriter, message string, details map[string]string) {
	Error(w, http.StatusBadRequest, constants.CodeBadRequest, message, details)
}

// TooManyRequests sends a 429 response.
func TooManyRequests(w http.ResponseWriter, message string) {
	Error(w, http.StatusTooManyRequests, constants.CodeRateLimited, message, nil)
}

// InternalServerError sends a 500 response. The underlying error is logged
// but never exposed to the client.
func InternalServerError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("Internal server error")
	Error(w, http.StatusInternalServerError, constants.CodeInternalError, "An internal server error occurred", nil)
}

// SendJSON marshals and writes a response envelope. Marshal failures fall
// back to a plain 500 body.
func SendJSON(w http.ResponseWriter, statusCode int, response Response) {
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
		http.Error(w, `{"success":false,"error":{"code":"internal_error","message":"Failed to encode response"}}`, http.StatusInternalServerError)
	}
}
