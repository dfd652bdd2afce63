package models

import (
	"time"

	"github.com/matrizrfm/auth-api/internal/constants"
)

// User represents a registered account.
// Email is stored in its normalized (trimmed, lower-case) form and is unique.
type User struct {
	ID           int64     `json:"id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Salt         string    `json:"-" db:"salt"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser creates a new User instance with the given name and email.
// Password fields are populated later during the registration process.
func NewUser(name, email string) *User {
	now := time.Now()
	return &User{
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TableName returns the database table name for the User model.
func (u *User) TableName() string {
	return constants.TableUsers
}

// Summary returns the public view of the user sent to clients.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// UserSummary is the `user` object embedded in auth responses.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RegisterRequest represents the data required for user registration.
// No strength policy is applied to the password beyond presence and a length cap.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=1024"`
}

// LoginRequest represents the login credentials provided by a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=1024"`
}
