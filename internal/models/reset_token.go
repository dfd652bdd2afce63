package models

import (
	"time"

	"github.com/matrizrfm/auth-api/internal/constants"
)

// ResetToken is a single-use password reset grant.
// Only the SHA-256 digest of the mailed token is persisted. A user has at
// most one ResetToken at a time; issuing a new one replaces the old.
type ResetToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	TokenHash string    `json:"-" db:"token_hash"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewResetToken creates a token for userID that expires ttl after now.
// Timestamps are kept in UTC.
func NewResetToken(userID int64, tokenHash string, now time.Time, ttl time.Duration) *ResetToken {
	now = now.UTC()
	return &ResetToken{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// TableName returns the database table name for the ResetToken model.
func (t *ResetToken) TableName() string {
	return constants.TableResetTokens
}

// IsExpired reports whether the token is past its expiry at the given instant.
// A token is still valid at exactly its expiry time.
func (t *ResetToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// ForgotPasswordRequest defines the structure for requesting a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,max=255"`
}

// ResetPasswordRequest defines the structure for resetting a password with a token.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required,notblank,max=4096"`
	Password string `json:"password" validate:"required,max=1024"`
}
