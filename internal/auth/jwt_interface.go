package auth

import "time"

// TokenValidator validates session tokens
type TokenValidator interface {
	// ValidateToken validates a session token and returns its claims if valid
	ValidateToken(tokenString string) (*SessionClaims, error)
}

// TokenIssuer issues session tokens
type TokenIssuer interface {
	// GenerateSessionToken signs a session token for the user and returns its expiry
	GenerateSessionToken(userID int64) (string, time.Time, error)
}

// SessionTokens is implemented by JWTService
type SessionTokens interface {
	TokenIssuer
	TokenValidator
}
