package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost matches the product wide bcrypt work factor.
const PasswordHashCost = 10

// HashPassword returns the bcrypt hash of the given plaintext.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost())
	if err != nil {
		return "", wrapInternal(err, "unable to hash password")
	}
	return string(hash), nil
}

// ComparePasswordAndHash checks plaintext against a stored hash, returning
// ErrMismatchedHashAndPassword on any mismatch.
func ComparePasswordAndHash(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatchedHashAndPassword
	}
	return nil
}
