package auth

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted when setting a new one.
const MinPasswordLength = 8

// ErrPasswordTooShort is returned by ValidateNewPassword.
var ErrPasswordTooShort = errors.New("auth: password too short")

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its salted hash. An empty hash never matches.
func ComparePassword(hashed, plain string) error {
	if hashed == "" {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// ValidateNewPassword enforces the minimum length for rotated passwords. bcrypt
// ignores input past 72 bytes, so longer passwords are rejected as well.
func ValidateNewPassword(plain string) error {
	if utf8.RuneCountInString(plain) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(plain) > 72 {
		return errors.New("auth: password longer than 72 bytes")
	}
	return nil
}
