package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/matrizrfm/auth-api/internal/config"
	"github.com/matrizrfm/auth-api/internal/utils"
)

// JWT errors
var (
	ErrInvalidSigningMethod = errors.New("invalid signing method")
)

// SessionClaims represents the claims in a session token.
// The user id travels both as the `id` claim read by the web client and as
// the standard `sub` claim read by the analytics backend.
type SessionClaims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// JWTService issues and validates HS256 session tokens
type JWTService struct {
	Config *config.JWTSettings
	now    func() time.Time
}

// NewJWTService creates a new JWTService instance
func NewJWTService(config *config.JWTSettings) *JWTService {
	return &JWTService{
		Config: config,
		now:    time.Now,
	}
}

// WithClock replaces the clock used when issuing tokens
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	s.now = now
	return s
}

// GenerateSessionToken signs a session token for userID.
// It returns the token and its expiry.
func (s *JWTService) GenerateSessionToken(userID int64) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.Config.Expiry)

	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Config.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.Config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates a session token and returns its claims if valid.
// Expired tokens yield an expired-token AppError, anything else an invalid-token AppError.
func (s *JWTService) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return []byte(s.Config.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, utils.NewExpiredTokenError()
		}
		return nil, utils.NewInvalidTokenError()
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, utils.NewInvalidTokenError()
	}

	if s.Config.Issuer != "" && !claims.VerifyIssuer(s.Config.Issuer, true) {
		return nil, utils.NewInvalidTokenError()
	}

	if claims.UserID == 0 {
		// Tokens carrying only `sub`
		id, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil || id <= 0 {
			return nil, utils.NewInvalidTokenError()
		}
		claims.UserID = id
	}

	return claims, nil
}
