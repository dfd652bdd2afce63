// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the application.
// These constants provide fallbacks for configuration settings and establish
// boundaries for resource usage.
package constants

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultAppName is the application name reported in logs and /version.
	DefaultAppName = "Matriz RFM Auth"

	// DefaultAppVersion is used when no version is configured or injected at build time.
	DefaultAppVersion = "1.0.0"

	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultDBHost is the database host used by the docker-compose deployment.
	DefaultDBHost = "db"

	// DefaultDBPort is the default PostgreSQL port.
	DefaultDBPort = 5432

	// DefaultDBName is the default database name.
	DefaultDBName = "rfmmatrix"

	// DefaultDBUser is the default database user.
	DefaultDBUser = "rfmuser"

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default minimum number of database connections.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultMetricsPath is where Prometheus metrics are exposed.
	DefaultMetricsPath = "/metrics"
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Request limits.
const (
	// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
	MaxRequestBodySize = 1048576 // 1MB in bytes
)

// Default Password Hash Settings define the parameters for Argon2id password hashing.
const (
	// DefaultPasswordHashMemory is the memory cost parameter in KiB.
	DefaultPasswordHashMemory = 64 * 1024

	// DefaultPasswordHashIterations is the number of Argon2id passes.
	DefaultPasswordHashIterations = 3

	// DefaultPasswordHashParallelism is the number of threads used during hashing.
	DefaultPasswordHashParallelism = 2

	// DefaultPasswordHashSaltLength is the length in bytes of the random salt.
	DefaultPasswordHashSaltLength = 16

	// DefaultPasswordHashKeyLength is the length in bytes of the derived key.
	DefaultPasswordHashKeyLength = 32

	// DevPasswordHashMemory is a reduced memory setting for development environments.
	DevPasswordHashMemory = 16 * 1024

	// DevPasswordHashIterations is a reduced iteration count for development environments.
	DevPasswordHashIterations = 1
)

// Auth Constants define values related to session and reset tokens.
const (
	// DefaultJWTIssuer is the issuer claim value for session tokens.
	DefaultJWTIssuer = "matrizrfm-auth"

	// DevJWTSecret is the placeholder secret accepted outside production only.
	DevJWTSecret = "development-secret-change-me"

	// BearerTokenPrefix is the prefix for Authorization header bearer tokens.
	BearerTokenPrefix = "Bearer "

	// ResetTokenBytes is the number of random bytes in a reset token before hex encoding.
	ResetTokenBytes = 32
)

// Mail Defaults define the sender identity and transport settings for reset emails.
const (
	// MailProviderLog writes emails to the log instead of delivering them.
	MailProviderLog = "log"

	// MailProviderSMTP delivers through an SMTP relay such as the SES SMTP endpoint.
	MailProviderSMTP = "smtp"

	// MailProviderSES delivers through the SES v2 API.
	MailProviderSES = "ses"

	// MailProviderSendGrid delivers through the SendGrid v3 API.
	MailProviderSendGrid = "sendgrid"

	// DefaultMailFrom is the sender address for outgoing mail.
	DefaultMailFrom = "no-reply@matrizrfm.com.br"

	// DefaultMailFromName is the sender display name for outgoing mail.
	DefaultMailFromName = "Matriz RFM"

	// DefaultSMTPHost is the SES SMTP endpoint used by default.
	DefaultSMTPHost = "email-smtp.us-east-1.amazonaws.com"

	// DefaultSMTPPort is the STARTTLS submission port.
	DefaultSMTPPort = 587

	// DefaultSESRegion is the AWS region used for the SES API.
	DefaultSESRegion = "us-east-1"

	// DefaultFrontendURL is the base URL of the web client that hosts the reset page.
	DefaultFrontendURL = "http://app.matrizrfm.com.br"

	// ResetPasswordPagePath is appended to the frontend URL to build reset links.
	ResetPasswordPagePath = "/reset-password"

	// ResetPasswordSubject is the subject line of the reset email.
	ResetPasswordSubject = "Redefinição de Senha - Matriz RFM"
)

// Development seed account created by the `seed` command.
const (
	SeedUserName     = "Usuário Demo"
	SeedUserEmail    = "demo@matrizrfm.com.br"
	SeedUserPassword = "demo1234"
)
