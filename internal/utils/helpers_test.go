package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matrizrfm/auth-api/internal/utils"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", utils.NormalizeEmail("  Ana@Example.COM "))
	assert.Equal(t, "", utils.NormalizeEmail("   "))
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"user@example.com", "u**r@example.com"},
		{"ab@example.com", "**@example.com"},
		{"not-an-email", "***"},
		{"trailing@", "***"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, utils.MaskEmail(tt.in))
		})
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", utils.TruncateString("short", 10))
	assert.Equal(t, "abcd...", utils.TruncateString("abcdefghij", 7))
}

func TestFormatInt64(t *testing.T) {
	assert.Equal(t, "42", utils.FormatInt64(42))
	assert.Equal(t, "-7", utils.FormatInt64(-7))
}
