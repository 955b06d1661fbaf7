package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// StartTokenLength is the number of characters in a start token.
const StartTokenLength = 32

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// rejectAbove is the largest multiple of len(alphanumeric) that fits in a byte.
// Bytes at or above it are discarded so every character is equally likely.
const rejectAbove = 256 - (256 % len(alphanumeric))

// GenerateAlphanumeric creates a cryptographically secure random string of the
// given length drawn uniformly from [A-Za-z0-9].
func GenerateAlphanumeric(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", length)
	}

	out := make([]byte, 0, length)
	buf := make([]byte, length+length/2)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate random token: %w", err)
		}
		for _, b := range buf {
			if int(b) >= rejectAbove {
				continue
			}
			out = append(out, alphanumeric[int(b)%len(alphanumeric)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}

// GenerateStartToken returns a fresh one-time registration secret.
//
// 32 characters over a 62 symbol alphabet gives ~190 bits of entropy, so
// collisions are not expected in practice. The store still keeps a unique
// index on the column and retries on conflict.
func GenerateStartToken() (string, error) {
	return GenerateAlphanumeric(StartTokenLength)
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token.
// The fingerprint is returned as a base64url-encoded string (43 chars).
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// TokensEqual compares two secrets in constant time. Both sides are
// fingerprinted first so the comparison does not leak the expected length.
func TokensEqual(provided, expected string) bool {
	a := FingerprintToken(provided)
	b := FingerprintToken(expected)
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
