package util

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"unicode"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength   = 16
	hashLength   = 32
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4

	MinPasswordLength = 10
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 10 characters long")
	ErrPasswordTooWeak  = errors.New("password must include letters and at least one digit")
	errEmptyPassword    = errors.New("password cannot be empty")
	errEmptySalt        = errors.New("salt cannot be empty")
)

// ValidatePassword enforces the storefront password policy: a minimum length
// plus at least one letter and one digit.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrPasswordTooWeak
	}
	return nil
}

func HashPassword(password string, salt []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, errEmptyPassword
	}
	if len(salt) == 0 {
		return nil, errEmptySalt
	}
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, hashLength), nil
}

// DerivePassword returns an argon2id hash of password under a fresh salt.
func DerivePassword(password string) (hash, salt []byte, err error) {
	salt = make([]byte, saltLength)
	if _, err = rand.Read(salt); err != nil {
		return nil, nil, err
	}
	hash, err = HashPassword(password, salt)
	if err != nil {
		return nil, nil, err
	}
	return hash, salt, nil
}

func VerifyPassword(password string, salt, expectedHash []byte) bool {
	candidate, err := HashPassword(password, salt)
	if err != nil || len(expectedHash) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare(candidate, expectedHash) == 1
}
