package services

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrWeakPassword         = errors.New("weak password")
	ErrAuthPasswordMismatch = errors.New("auth password mismatch")
)

type PasswordStrength string

const (
	PasswordWeak   PasswordStrength = "weak"
	PasswordMedium PasswordStrength = "medium"
	PasswordStrong PasswordStrength = "strong"
)

const minPasswordLength = 8

// ClassifyPasswordStrength rates a password by character classes. Upper,
// lower and digit together always rate at least medium; adding a symbol at
// eight runes or more rates strong.
func ClassifyPasswordStrength(password string) PasswordStrength {
	hasUpper, hasLower, hasDigit, hasOther := false, false, false, false
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		case !unicode.IsSpace(char):
			hasOther = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return PasswordWeak
	}
	if hasOther && len([]rune(password)) >= minPasswordLength {
		return PasswordStrong
	}
	return PasswordMedium
}

func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return ErrWeakPassword
	}
	if ClassifyPasswordStrength(password) == PasswordWeak {
		return ErrWeakPassword
	}
	return nil
}

// ValidateNewPasswordPair checks a new password and its confirmation. An
// empty confirmation is accepted so API clients may omit it.
func ValidateNewPasswordPair(password string, confirmPassword string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrAuthCredentialsInvalid
	}
	if confirm := strings.TrimSpace(confirmPassword); confirm != "" && confirm != password {
		return ErrAuthPasswordMismatch
	}
	return ValidatePasswordStrength(password)
}
