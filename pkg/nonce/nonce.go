// Package nonce generates single-use random tokens for Content-Security-Policy
// script nonces.
package nonce

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Size is the number of random bytes in a nonce. Generate returns twice as
// many hex characters.
const Size = 32

// Generate returns 64 lowercase hex characters from crypto/rand.
func Generate() (string, error) {
	b := make([]byte, Size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("nonce: read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// MustGenerate is Generate for callers that cannot continue without entropy.
func MustGenerate() string {
	n, err := Generate()
	if err != nil {
		panic(err)
	}
	return n
}
