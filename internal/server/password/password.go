// Package password wraps bcrypt hashing for stored credentials. Hashing is
// salted per call, so the same plaintext never produces the same output twice.
package password

import "golang.org/x/crypto/bcrypt"

// Hash produces a salted bcrypt hash of the plaintext.
func Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plaintext matches the stored hash. A malformed hash
// is treated as a mismatch, never an error.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
