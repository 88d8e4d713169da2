package verification

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const codeDigits = 6

// GenerateCode returns a random numeric one-time code. Only its bcrypt
// hash is ever stored; the plaintext goes out through the mailer once.
func GenerateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < codeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", codeDigits, n), nil
}

// HashCode derives the stored form of a code. bcrypt salts internally,
// so equal codes produce distinct hashes.
func HashCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckCode compares in constant time via bcrypt.
func CheckCode(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}

// CodeUsable reports whether a stored code may still be verified.
// A code is usable up to and including its expiry instant.
func CodeUsable(expiresAt *time.Time, now time.Time) bool {
	return expiresAt != nil && !now.After(*expiresAt)
}
