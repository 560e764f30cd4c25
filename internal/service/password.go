package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Password policy: at least 8 characters and all four character classes.
// Checks run in a fixed order so the first unmet rule names the error.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ValidationError("Password must be at least 8 characters long.")
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	switch {
	case !hasLower:
		return ValidationError("Password must contain at least one lowercase letter.")
	case !hasUpper:
		return ValidationError("Password must contain at least one uppercase letter.")
	case !hasDigit:
		return ValidationError("Password must contain at least one number.")
	case !hasSpecial:
		return ValidationError("Password must contain at least one special character.")
	}
	return nil
}

// HashPassword produces a salted bcrypt hash. No plaintext password is
// persisted anywhere, including the session snapshot.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
