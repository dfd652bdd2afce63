// Package models provides the data structures shared by the repositories,
// services and handlers.
//
// This file contains the session model returned by register and login.
// Sessions are stateless: the signed token is the only record of them.
package models

import "time"

// Session is an issued session token together with the user it belongs to.
type Session struct {
	// Token is the signed session token handed to the client
	Token string `json:"token"`

	// ExpiresAt is when the token stops being accepted
	ExpiresAt time.Time `json:"expires_at"`

	// User is the public view of the authenticated user
	User UserSummary `json:"user"`
}

// NewSession bundles a signed token with its user.
func NewSession(token string, expiresAt time.Time, user *User) *Session {
	return &Session{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.Summary(),
	}
}

// IsExpired reports whether the session token has expired at the given instant.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// VerifyTokenRequest carries a session token to verify.
// The token may also arrive in the Authorization header, so it is optional here.
type VerifyTokenRequest struct {
	Token string `json:"token" validate:"max=4096"`
}
