package constants

// Context Key Names
const (
	UserIDContextKey    = "user_id"
	RequestIDContextKey = "request_id"
)

// Field Limits
const (
	MaxNameLength     = 100
	MaxEmailLength    = 255
	MaxPasswordLength = 1024
	MaxTokenLength    = 4096
)

// Redaction markers for log arguments
const (
	SensitiveColumnToken    = "token"
	SensitiveColumnPassword = "password"
	SensitiveColumnSalt     = "salt"
	SensitiveColumnEmail    = "email"
)
