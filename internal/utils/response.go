// Package utils provides utility functions and helpers for the application.
// This file implements the JSON response helpers shared by every handler.
//
// Responses are flat objects. Successful responses carry `success: true`
// next to their payload fields; error responses always have the shape
//
//	{"success": false, "message": "...", "code": "...", "details": {...}}
//
// where `code` and `details` are optional machine-readable additions.
package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/matrizrfm/auth-api/internal/constants"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Success bool              `json:"success"`           // Always false
	Message string            `json:"message"`           // A human-readable error message
	Code    string            `json:"code,omitempty"`    // A machine-readable error code
	Details map[string]string `json:"details,omitempty"` // Per-field validation messages
}

// MessageResponse is the body of successful responses that carry only a message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JSON sends the given payload with the given status code.
// The payload is expected to carry its own `success` field.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - data: The data to marshal as the response body
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	SendJSON(w, statusCode, data)
}

// Message sends a successful response that only carries a message.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - message: A human-readable message
func Message(w http.ResponseWriter, statusCode int, message string) {
	SendJSON(w, statusCode, MessageResponse{Success: true, Message: message})
}

// Error sends an error response with the given status code and error information.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - code: A machine-readable error code
//   - message: A human-readable error message
//   - details: Additional details about the error (e.g., validation errors)
func Error(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	SendJSON(w, statusCode, ErrorResponse{
		Success: false,
		Message: message,
		Code:    code,
		Details: details,
	})
}

// ErrorFromAppError sends an error response based on an AppError.
// Server errors are logged with their developer information, which is never
// included in the response body.
//
// Parameters:
//   - w: The HTTP response writer
//   - err: The application error
func ErrorFromAppError(w http.ResponseWriter, err *AppError) {
	if err == nil {
		err = NewInternalServerError(nil)
	}

	if err.StatusCode >= http.StatusInternalServerError {
		log.Error().
			Str("dev_info", err.DevInfo).
			Int("status", err.StatusCode).
			Msg(err.Message)
	}

	var details map[string]string
	if len(err.Details) > 0 {
		details = make(map[string]string, len(err.Details))
		for k, v := range err.Details {
			if s, ok := v.(string); ok {
				details[k] = s
			}
		}
	} else if err.Field != "" && errors.Is(err.Err, ErrValidation) {
		details = map[string]string{err.Field: err.Message}
	}

	Error(w, err.StatusCode, ErrorCode(err), err.Message, details)
}

// ErrorCode returns the machine-readable code for an AppError.
func ErrorCode(err *AppError) string {
	switch {
	case errors.Is(err.Err, ErrNotFound):
		return constants.CodeNotFound
	case errors.Is(err.Err, ErrBadRequest):
		return constants.CodeBadRequest
	case errors.Is(err.Err, ErrUnauthorized):
		return constants.CodeUnauthorized
	case errors.Is(err.Err, ErrValidation):
		return constants.CodeValidationError
	case errors.Is(err.Err, ErrDuplicate):
		return constants.CodeDuplicateResource
	case errors.Is(err.Err, ErrInvalidCredentials):
		return constants.CodeInvalidCredentials
	case errors.Is(err.Err, ErrExpiredToken):
		return constants.CodeTokenExpired
	case errors.Is(err.Err, ErrInvalidToken):
		return constants.CodeTokenInvalid
	}
	return constants.CodeInternalError
}

// SendJSON marshals data and writes it with the JSON content type.
//
// Parameters:
//   - w: The HTTP response writer
//   - statusCode: The HTTP status code
//   - data: The data to marshal to JSON and send
func SendJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		if _, err := w.Write([]byte(`{"success":false,"message":"Failed to generate response","code":"internal_error"}`)); err != nil {
			log.Error().Err(err).Msg("Failed to write error response")
		}
		return
	}

	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	if _, err := w.Write(jsonData); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// BadRequest sends a 400 Bad Request response with the given message.
func BadRequest(w http.ResponseWriter, message string, details map[string]string) {
	Error(w, http.StatusBadRequest, constants.CodeBadRequest, message, details)
}

// Unauthorized sends a 401 Unauthorized response with the given message.
// An empty message falls back to the default authentication message.
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgAuthRequired
	}
	Error(w, http.StatusUnauthorized, constants.CodeUnauthorized, message, nil)
}

// NotFound sends a 404 Not Found response with the given message.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgResourceNotFound
	}
	Error(w, http.StatusNotFound, constants.CodeNotFound, message, nil)
}

// MethodNotAllowed sends a 405 Method Not Allowed response.
func MethodNotAllowed(w http.ResponseWriter) {
	Error(w, http.StatusMethodNotAllowed, constants.CodeMethodNotAllowed, constants.MsgMethodNotAllowed, nil)
}

// InternalServerError sends a 500 response. The error is logged, not exposed.
func InternalServerError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("Internal server error")
	Error(w, http.StatusInternalServerError, constants.CodeInternalError, constants.MsgInternalServerError, nil)
}

// ServiceUnavailable sends a 503 response used by health checks.
func ServiceUnavailable(w http.ResponseWriter, message string) {
	if message == "" {
		message = constants.MsgServiceUnavailable
	}
	Error(w, http.StatusServiceUnavailable, constants.CodeServiceUnavailable, message, nil)
}
