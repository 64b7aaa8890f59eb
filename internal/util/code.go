package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// RandomCode returns n random bytes hex-encoded (2n characters).
// Used for management codes, invite tokens and attendance codes.
func RandomCode(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
