package auth_test

import (
	"strings"
	"testing"

	"github.com/clientdesk/clientdesk/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("supersecret")
	require.NoError(t, err)

	assert.NotEqual(t, "supersecret", hash)
	assert.True(t, strings.HasPrefix(hash, "$2"), "expected a bcrypt hash, got %q", hash)

	// Same password hashes differently each time (random salt)
	hash2, err := auth.HashPassword("supersecret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("supersecret")
	require.NoError(t, err)

	assert.True(t, auth.CheckPassword("supersecret", hash))
	assert.False(t, auth.CheckPassword("wrongpassword", hash))
	assert.False(t, auth.CheckPassword("", hash))
	assert.False(t, auth.CheckPassword("supersecret", "not-a-hash"))
}

func TestGenerateResetToken(t *testing.T) {
	token, err := auth.GenerateResetToken()
	require.NoError(t, err)

	// 32 bytes of entropy, base64 URL-safe without padding
	assert.Len(t, token, 43)
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")

	seen := map[string]bool{token: true}
	for i := 0; i < 100; i++ {
		next, err := auth.GenerateResetToken()
		require.NoError(t, err)
		assert.False(t, seen[next], "reset tokens must not repeat")
		seen[next] = true
	}
}

func TestResetURL(t *testing.T) {
	url := auth.ResetURL("https://app.example.com", "abc123")
	assert.Equal(t, "https://app.example.com/reset-password?token=abc123", url)
}
