package utils

import (
	"errors"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// ErrWeakPassword is returned by ValidatePassword with a message describing
// the first unmet rule.
var ErrWeakPassword = errors.New("password does not meet the policy")

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// ValidatePassword checks the password policy: at least 8 characters with an
// upper-case letter, a lower-case letter, a digit and a special character.
func ValidatePassword(plain string) error {
	if len(plain) < 8 {
		return errors.Join(ErrWeakPassword, errors.New("must be at least 8 characters"))
	}
	var upper, lower, digit, special bool
	for _, r := range plain {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	switch {
	case !upper:
		return errors.Join(ErrWeakPassword, errors.New("must contain an upper-case letter"))
	case !lower:
		return errors.Join(ErrWeakPassword, errors.New("must contain a lower-case letter"))
	case !digit:
		return errors.Join(ErrWeakPassword, errors.New("must contain a digit"))
	case !special:
		return errors.Join(ErrWeakPassword, errors.New("must contain a special character"))
	}
	return nil
}
