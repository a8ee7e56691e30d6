package common

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateRandByteArray returns size cryptographically secure random bytes.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	// crypto/rand.Read never returns a partial buffer without an error,
	// and an error here means the platform RNG is broken
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// Base64URLEncode encodes input as URL-safe base64 with padding stripped.
func Base64URLEncode(input []byte) string {
	return base64.RawURLEncoding.EncodeToString(input)
}
