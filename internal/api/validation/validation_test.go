package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@example.co.uk",
		"user+tag@example.io",
		"user_name@sub.example.com",
		"1234@example.org",
	}
	for _, email := range valid {
		assert.True(t, IsValidEmail(email), "expected %q to be valid", email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@example",
		"user @example.com",
		"user@exam ple.com",
		strings.Repeat("a", 250) + "@x.com",
	}
	for _, email := range invalid {
		assert.False(t, IsValidEmail(email), "expected %q to be invalid", email)
	}
}

func TestIsValidPassword(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		ok, msg := IsValidPassword("short")
		assert.False(t, ok)
		assert.Equal(t, "Password must be at least 8 characters", msg)
	})

	t.Run("minimum length", func(t *testing.T) {
		ok, msg := IsValidPassword("12345678")
		assert.True(t, ok)
		assert.Empty(t, msg)
	})

	t.Run("too long", func(t *testing.T) {
		ok, msg := IsValidPassword(strings.Repeat("a", 129))
		assert.False(t, ok)
		assert.Equal(t, "Password must be at most 128 characters", msg)
	})

	t.Run("maximum length", func(t *testing.T) {
		ok, _ := IsValidPassword(strings.Repeat("a", 128))
		assert.True(t, ok)
	})
}
