package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch hides which bcrypt failure happened from callers.
var ErrPasswordMismatch = errors.New("password mismatch")

var ErrPasswordTooLong = errors.New("password longer than 72 bytes")

// MaxPasswordBytes is bcrypt's input limit. Longer passwords would be silently
// truncated on compare, so they are refused outright.
const MaxPasswordBytes = 72

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func CheckPassword(hash, plain string) error {
	if hash == "" || len(plain) > MaxPasswordBytes {
		return ErrPasswordMismatch
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
