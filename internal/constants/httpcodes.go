// Package constants provides shared constant values used throughout the application.
//
// The httpcodes.go file defines HTTP-related constants such as response codes,
// headers, content types and security header values.
package constants

// Response Code Types define application-specific error codes carried next to
// the message in error bodies.
const (
	// CodeBadRequest indicates a malformed or invalid request.
	CodeBadRequest = "bad_request"

	// CodeUnauthorized indicates missing or invalid authentication.
	CodeUnauthorized = "unauthorized"

	// CodeNotFound indicates the requested resource does not exist.
	CodeNotFound = "not_found"

	// CodeMethodNotAllowed indicates the HTTP method is not allowed for the endpoint.
	CodeMethodNotAllowed = "method_not_allowed"

	// CodeInternalError indicates an unexpected server error.
	CodeInternalError = "internal_error"

	// CodeServiceUnavailable indicates a dependency such as the store is down.
	CodeServiceUnavailable = "service_unavailable"

	// CodeValidationError indicates request validation failed.
	CodeValidationError = "validation_error"

	// CodeInvalidCredentials indicates provided authentication credentials are incorrect.
	CodeInvalidCredentials = "invalid_credentials"

	// CodeTokenExpired indicates a token has expired.
	CodeTokenExpired = "token_expired"

	// CodeTokenInvalid indicates a token is malformed or invalid.
	CodeTokenInvalid = "token_invalid"

	// CodeDuplicateResource indicates an attempt to create a resource that already exists.
	CodeDuplicateResource = "duplicate_resource"
)

// HTTP Header Names used in requests and responses.
const (
	HeaderContentType           = "Content-Type"
	HeaderCacheControl          = "Cache-Control"
	HeaderPragma                = "Pragma"
	HeaderExpires               = "Expires"
	HeaderAuthorization         = "Authorization"
	HeaderXRequestID            = "X-Request-ID"
	HeaderXContentTypeOptions   = "X-Content-Type-Options"
	HeaderXFrameOptions         = "X-Frame-Options"
	HeaderXXSSProtection        = "X-XSS-Protection"
	HeaderReferrerPolicy        = "Referrer-Policy"
	HeaderContentSecurityPolicy = "Content-Security-Policy"
)

// HTTP Content Types define media types used in the Content-Type header.
const (
	// ContentTypeJSON specifies the content is in JSON format.
	ContentTypeJSON = "application/json"
)

// Security Header Values define the values for security-related HTTP headers.
const (
	// FrameOptionsDeny prevents the page from being displayed in a frame.
	FrameOptionsDeny = "DENY"

	// XSSProtectionModeBlock enables XSS filtering and blocks rendering on detection.
	XSSProtectionModeBlock = "1; mode=block"

	// ContentTypeOptionsNoSniff prevents MIME type sniffing.
	ContentTypeOptionsNoSniff = "nosniff"

	// ReferrerPolicyStrictOrigin restricts referrer information for cross-origin requests.
	ReferrerPolicyStrictOrigin = "strict-origin-when-cross-origin"

	// CSPDefaultSrc restricts content sources to the same origin by default.
	CSPDefaultSrc = "default-src 'self'"

	// CacheControlNoStore prevents caching of credentials and tokens.
	CacheControlNoStore = "no-cache, no-store, must-revalidate"

	// PragmaNoCache prevents caching in HTTP/1.0 caches.
	PragmaNoCache = "no-cache"

	// ExpiresZero sets the expiration date to the past to prevent caching.
	ExpiresZero = "0"
)
