// Package utils provides utility functions and helpers for common operations
// used throughout the application: error taxonomy, JSON responses, request
// validation, logging and small string helpers.
package utils

import (
	"strconv"
	"strings"
)

// NormalizeEmail trims surrounding whitespace and lower-cases an address.
// Every store lookup and insert goes through it so that addresses compare
// case-insensitively.
//
// Parameters:
//   - email: the address as submitted by the client
//
// Returns:
//   - the canonical form used as the store key
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FormatInt64 formats an int64 as a decimal string.
func FormatInt64(i int64) string {
	return strconv.FormatInt(i, 10)
}

// MaskEmail masks the local part of an email address for logging.
// For example: "user@example.com" becomes "u**r@example.com"
//
// Parameters:
//   - email: the email address to mask
//
// Returns:
//   - the masked email address, or a fully redacted marker if it is not an address
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "***"
	}

	user := email[:at]
	domain := email[at+1:]

	if len(user) <= 2 {
		return strings.Repeat("*", len(user)) + "@" + domain
	}

	return string(user[0]) + strings.Repeat("*", len(user)-2) + string(user[len(user)-1]) + "@" + domain
}

// TruncateString shortens s to maxLen bytes, appending "..." when cut.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 3 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
