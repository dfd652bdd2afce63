// Package handlers provides HTTP request handlers for the auth API.
package handlers

import (
	"context"

	"github.com/matrizrfm/auth-api/internal/models"
)

// AuthServiceInterface defines the methods required from the authentication service.
// This interface is used by the auth handlers to interact with the authentication business logic
// without being tightly coupled to the implementation.
type AuthServiceInterface interface {
	// Register creates an account and signs the new user in.
	//
	// Parameters:
	//   - ctx: Context for the operation
	//   - name: Display name
	//   - email: Email address, normalized by the service
	//   - password: Plain password, hashed before storage
	//
	// Returns:
	//   - The session for the new user
	//   - An error if the email is taken or the store fails
	Register(ctx context.Context, name, email, password string) (*models.Session, error)

	// Login authenticates a user by email and password.
	//
	// Returns:
	//   - The session for the user
	//   - An invalid credentials error for unknown emails and wrong passwords alike
	Login(ctx context.Context, email, password string) (*models.Session, error)

	// ForgotPassword issues and mails a reset token. It never reveals
	// whether the email belongs to an account.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and sets a new password.
	//
	// Returns:
	//   - An error if the token is unknown, expired or already used,
	//     or if its user no longer exists
	ResetPassword(ctx context.Context, token, password string) error

	// Verify validates a session token and returns its user.
	Verify(ctx context.Context, token string) (*models.UserSummary, error)

	// CurrentUser returns the user behind an authenticated request.
	CurrentUser(ctx context.Context, userID int64) (*models.UserSummary, error)
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
