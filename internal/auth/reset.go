package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// resetTokenBytes is the entropy of a reset token before encoding.
const resetTokenBytes = 32

// GenerateResetToken returns a URL-safe opaque token with 32 bytes of
// entropy. The raw value is emailed to the user and stored verbatim;
// redemption matches on the exact string.
func GenerateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ResetURL builds the link embedded in the reset email.
func ResetURL(frontendURL, token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", frontendURL, token)
}
