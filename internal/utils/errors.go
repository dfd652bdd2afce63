package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lib/pq"

	"github.com/matrizrfm/auth-api/internal/constants"
)

// Custom error types for the application
var (
	ErrNotFound           = errors.New(constants.ErrorNotFound)
	ErrUnauthorized       = errors.New(constants.ErrorUnauthorized)
	ErrBadRequest         = errors.New(constants.ErrorBadRequest)
	ErrInternalServer     = errors.New(constants.ErrorInternalServer)
	ErrValidation         = errors.New(constants.ErrorValidation)
	ErrDuplicate          = errors.New(constants.ErrorDuplicate)
	ErrInvalidCredentials = errors.New(constants.ErrorInvalidCredentials)
	ErrExpiredToken       = errors.New(constants.ErrorExpiredToken)
	ErrInvalidToken       = errors.New(constants.ErrorInvalidToken)
)

// AppError represents an application error with additional context
type AppError struct {
	Err        error  // The underlying error
	StatusCode int    // HTTP status code
	Message    string // User-friendly error message
	DevInfo    string // Additional information for developers, never sent to clients
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

// New creates a new AppError with the given error and status code
func New(err error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        err,
		StatusCode: statusCode,
		Message:    message,
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

// NewNotFoundError creates a new not found error
func NewNotFoundError(resourceType string, identifier interface{}) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier),
	}
}

// NewUserNotFoundError is returned when a token refers to a user that no longer exists
func NewUserNotFoundError() *AppError {
	return &AppError{
		Err:        ErrNotFound,
		StatusCode: http.StatusNotFound,
		Message:    constants.MsgUserNotFound,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = constants.MsgAuthRequired
	}
	return &AppError{
		Err:        ErrUnauthorized,
		StatusCode: http.StatusUnauthorized,
		Message:    message,
	}
}

// NewInternalServerError creates a new internal server error.
// The cause is kept in DevInfo for logs; clients only see the generic message.
func NewInternalServerError(err error) *AppError {
	devInfo := ""
	if err != nil {
		devInfo = err.Error()
	}
	return &AppError{
		Err:        ErrInternalServer,
		StatusCode: http.StatusInternalServerError,
		Message:    constants.MsgInternalServerError,
		DevInfo:    devInfo,
	}
}

// NewDuplicateError creates a new duplicate resource error
func NewDuplicateError(resourceType, field string, value interface{}) *AppError {
	return &AppError{
		Err:        ErrDuplicate,
		StatusCode: http.StatusConflict,
		Message:    fmt.Sprintf("%s with %s '%v' already exists", resourceType, field, value),
		Field:      field,
	}
}

// NewEmailInUseError is returned by registration for an existing address.
// It is a client error (400), not a conflict, so the web client shows it inline.
func NewEmailInUseError() *AppError {
	return &AppError{
		Err:        ErrDuplicate,
		StatusCode: http.StatusBadRequest,
		Message:    constants.MsgEmailInUse,
		Field:      constants.ColumnEmail,
	}
}

// NewInvalidCredentialsError is shared by unknown email and wrong password
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Err:        ErrInvalidCredentials,
		StatusCode: http.StatusUnauthorized,
		Message:    constants.MsgInvalidCredentials,
	}
}

// NewExpiredTokenError creates a new expired session token error
func NewExpiredTokenError() *AppError {
	return &AppError{
		Err:        ErrExpiredToken,
		StatusCode: http.StatusUnauthorized,
		Message:    constants.MsgInvalidToken,
	}
}

// NewInvalidTokenError creates a new invalid session token error
func NewInvalidTokenError() *AppError {
	return &AppError{
		Err:        ErrInvalidToken,
		StatusCode: http.StatusUnauthorized,
		Message:    constants.MsgInvalidToken,
	}
}

// NewMissingTokenError is returned when verification is attempted without a token
func NewMissingTokenError() *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		StatusCode: http.StatusUnauthorized,
		Message:    constants.MsgNoTokenProvided,
	}
}

// NewInvalidResetTokenError covers unknown and already consumed reset tokens
func NewInvalidResetTokenError() *AppError {
	return &AppError{
		Err:        ErrInvalidToken,
		StatusCode: http.StatusBadRequest,
		Message:    constants.MsgInvalidResetToken,
	}
}

// NewExpiredResetTokenError is returned once for a reset token found past its expiry
func NewExpiredResetTokenError() *AppError {
	return &AppError{
		Err:        ErrExpiredToken,
		StatusCode: http.StatusBadRequest,
		Message:    constants.MsgExpiredResetToken,
	}
}

// ParseError attempts to parse various types of errors into an AppError
func ParseError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return &AppError{Err: ErrNotFound, StatusCode: http.StatusNotFound, Message: constants.MsgResourceNotFound}
	case errors.Is(err, ErrUnauthorized):
		return NewUnauthorizedError("")
	case errors.Is(err, ErrBadRequest):
		return NewBadRequestError(err.Error())
	case errors.Is(err, ErrValidation):
		return NewValidationError("", err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return NewInvalidCredentialsError()
	case errors.Is(err, ErrExpiredToken):
		return NewExpiredTokenError()
	case errors.Is(err, ErrInvalidToken):
		return NewInvalidTokenError()
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case constants.PGErrorDuplicateConstraint:
			if pqErr.Constraint == constants.ConstraintUsersEmail {
				e := NewEmailInUseError()
				e.DevInfo = pqErr.Error()
				return e
			}
			return &AppError{
				Err:        ErrDuplicate,
				StatusCode: http.StatusConflict,
				Message:    "A resource with the same unique identifier already exists",
				DevInfo:    pqErr.Error(),
			}
		case constants.PGErrorForeignKeyConstraint:
			return &AppError{
				Err:        ErrBadRequest,
				StatusCode: http.StatusBadRequest,
				Message:    "This operation violates a foreign key constraint",
				DevInfo:    pqErr.Error(),
			}
		case constants.PGErrorNotNullConstraint:
			field := pqErr.Column
			return &AppError{
				Err:        ErrValidation,
				StatusCode: http.StatusBadRequest,
				Message:    fmt.Sprintf("The %s field cannot be empty", field),
				DevInfo:    pqErr.Error(),
				Field:      field,
			}
		}
	}

	if strings.Contains(strings.ToLower(err.Error()), constants.DBErrorDuplicateKey) {
		return &AppError{
			Err:        ErrDuplicate,
			StatusCode: http.StatusConflict,
			Message:    "A resource with the same unique identifier already exists",
			DevInfo:    err.Error(),
		}
	}

	return NewInternalServerError(err)
}

// IsUniqueViolation reports whether err is a Postgres unique violation on the named constraint
func IsUniqueViolation(err error, constraintName string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == constants.PGErrorDuplicateConstraint && pqErr.Constraint == constraintName
	}
	return false
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode == http.StatusNotFound
	}
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if an error is a duplicate resource error
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// StatusCode returns the HTTP status code for an error
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
