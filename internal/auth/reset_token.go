package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/matrizrfm/auth-api/internal/constants"
)

// GenerateResetToken creates a new opaque reset token.
// The plain value goes into the emailed link; only the hash is stored.
func GenerateResetToken() (plain string, hash string, err error) {
	b, err := GenerateRandomBytes(constants.ResetTokenBytes)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	plain = hex.EncodeToString(b)
	return plain, HashResetToken(plain), nil
}

// HashResetToken returns the hex SHA-256 digest under which a token is stored
func HashResetToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}
