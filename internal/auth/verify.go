package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewVerifyToken returns a cryptographically random 40-char hex token for
// email verification links.
func NewVerifyToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("unable to generate verification token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
