package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/matrizrfm/auth-api/internal/constants"
	"github.com/matrizrfm/auth-api/internal/utils"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

// Context keys
const (
	UserIDContextKey    ContextKey = constants.UserIDContextKey
	RequestIDContextKey ContextKey = constants.RequestIDContextKey
)

// AuthProvider defines the interface for authentication providers
type AuthProvider interface {
	// Authenticate validates the request and returns the user id on success
	Authenticate(r *http.Request) (int64, error)
}

// JWTAuthProvider authenticates requests carrying a Bearer session token
type JWTAuthProvider struct {
	validator TokenValidator
}

// NewJWTAuthProvider creates a new JWTAuthProvider
func NewJWTAuthProvider(validator TokenValidator) *JWTAuthProvider {
	return &JWTAuthProvider{validator: validator}
}

// Authenticate validates the Bearer token of the request
func (p *JWTAuthProvider) Authenticate(r *http.Request) (int64, error) {
	token := BearerToken(r)
	if token == "" {
		return 0, utils.NewMissingTokenError()
	}

	claims, err := p.validator.ValidateToken(token)
	if err != nil {
		return 0, err
	}

	return claims.UserID, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// It returns an empty string when the header is missing or uses another scheme.
func BearerToken(r *http.Request) string {
	header := r.Header.Get(constants.HeaderAuthorization)
	if len(header) <= len(constants.BearerTokenPrefix) ||
		!strings.EqualFold(header[:len(constants.BearerTokenPrefix)], constants.BearerTokenPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(constants.BearerTokenPrefix):])
}

// RequireAuth rejects requests that the provider cannot authenticate.
// On success the user id and a request id are stored in the request context.
func RequireAuth(provider AuthProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID, ok := GetRequestID(r)
			if !ok {
				requestID = uuid.New().String()
			}

			userID, err := provider.Authenticate(r)
			if err != nil {
				log.Debug().
					Err(err).
					Str(constants.RequestIDContextKey, requestID).
					Str("path", r.URL.Path).
					Msg("Authentication failed")

				if appErr, ok := err.(*utils.AppError); ok {
					utils.ErrorFromAppError(w, appErr)
				} else {
					utils.Unauthorized(w, constants.MsgAuthRequired)
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
			ctx = context.WithValue(ctx, RequestIDContextKey, requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithRequestID stores a request id in the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDContextKey, requestID)
}

// GetUserID retrieves the user ID from the request context
func GetUserID(r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value(UserIDContextKey).(int64)
	return userID, ok
}

// GetRequestID retrieves the request ID from the request context
func GetRequestID(r *http.Request) (string, bool) {
	requestID, ok := r.Context().Value(RequestIDContextKey).(string)
	return requestID, ok && requestID != ""
}
