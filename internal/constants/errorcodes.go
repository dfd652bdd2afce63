// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling and messaging.
// User-facing messages match what the web client displays and must not reveal
// whether an account exists.
package constants

// Error Types define the categories of errors that can occur in the application.
// These are used for internal error classification and handling.
const (
	// ErrorNotFound indicates that a requested resource could not be found.
	ErrorNotFound = "resource not found"

	// ErrorUnauthorized indicates that authentication is required but was not provided.
	ErrorUnauthorized = "unauthorized access"

	// ErrorBadRequest indicates that the request was malformed or invalid.
	ErrorBadRequest = "invalid request"

	// ErrorInternalServer indicates an unexpected internal error.
	ErrorInternalServer = "internal server error"

	// ErrorValidation indicates that input validation failed.
	ErrorValidation = "validation error"

	// ErrorDuplicate indicates an attempt to create a resource that already exists.
	ErrorDuplicate = "duplicate resource"

	// ErrorInvalidCredentials indicates that authentication credentials are incorrect.
	ErrorInvalidCredentials = "invalid credentials"

	// ErrorExpiredToken indicates that a token has expired.
	ErrorExpiredToken = "expired token"

	// ErrorInvalidToken indicates that a token is malformed, unknown or already used.
	ErrorInvalidToken = "invalid token"
)

// User-Facing Messages for the auth endpoints.
const (
	MsgRegistered          = "User registered successfully"
	MsgLoggedIn            = "Login successful"
	MsgResetEmailSent      = "Password reset email sent"
	MsgPasswordReset       = "Password reset successful"
	MsgEmailInUse          = "Email already in use"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgInvalidResetToken   = "Invalid or expired token"
	MsgExpiredResetToken   = "Token has expired"
	MsgUserNotFound        = "User not found"
	MsgNoTokenProvided     = "No token provided"
	MsgInvalidToken        = "Invalid token"
	MsgAuthRequired        = "Authentication required"
	MsgInternalServerError = "An internal server error occurred"
	MsgServiceUnavailable  = "Service unavailable"
)

// Request decoding messages.
const (
	MsgRequestBodyTooLarge = "Request body too large"
	MsgEmptyRequestBody    = "Request body must not be empty"
	MsgMalformedJSON       = "Request body contains malformed JSON"
	MsgResourceNotFound    = "The requested resource could not be found"
	MsgMethodNotAllowed    = "This method is not allowed for this resource"
)

// Database Error Types define constants for recognizing database-specific errors.
const (
	// DBErrorDuplicateKey is the PostgreSQL error message for unique constraint violations.
	DBErrorDuplicateKey = "duplicate key value violates unique constraint"

	// PGErrorDuplicateConstraint is the PostgreSQL error code for unique constraint violations.
	PGErrorDuplicateConstraint = "23505"

	// PGErrorForeignKeyConstraint is the PostgreSQL error code for foreign key violations.
	PGErrorForeignKeyConstraint = "23503"

	// PGErrorNotNullConstraint is the PostgreSQL error code for not-null constraint violations.
	PGErrorNotNullConstraint = "23502"
)

// Logger Constants define values used for structured logging.
const (
	// LogCategoryAuth is the log category for authentication-related events.
	LogCategoryAuth = "auth"

	// LogCategoryMail is the log category for outbound mail.
	LogCategoryMail = "mail"

	// LogRedactedValue is used to replace sensitive values in logs.
	LogRedactedValue = "[REDACTED]"
)
