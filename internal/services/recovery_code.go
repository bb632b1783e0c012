package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/terraincognita07/cradle/internal/security"
	"golang.org/x/crypto/bcrypt"
)

// Recovery codes look like CRDL-XXXX-XXXX-XXXX over an alphabet without
// look-alike characters.
const (
	recoveryCodePrefix   = "CRDL"
	recoveryCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	recoveryCodeBody     = 12
	recoveryCodeGroup    = 4
)

var ErrAuthRecoveryCodeInvalid = errors.New("auth recovery code invalid")

var recoveryCodeFormat = regexp.MustCompile(`^` + recoveryCodePrefix + `(-[A-Z0-9]{4}){3}$`)

// GenerateRecoveryCodeHash returns a new code and its bcrypt hash.
func GenerateRecoveryCodeHash(cost int) (string, string, error) {
	code, err := GenerateRecoveryCode()
	if err != nil {
		return "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", "", err
	}
	return code, string(hash), nil
}

func GenerateRecoveryCode() (string, error) {
	body, err := security.RandomString(recoveryCodeBody, recoveryCodeAlphabet)
	if err != nil {
		return "", err
	}
	return formatRecoveryCode(body), nil
}

// NormalizeRecoveryCode accepts codes typed in any case, with spaces or
// dashes, with or without the prefix. Anything else is returned upper-cased
// so format validation rejects it.
func NormalizeRecoveryCode(raw string) string {
	compact := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(raw)))

	if len(compact) == len(recoveryCodePrefix)+recoveryCodeBody {
		compact = strings.TrimPrefix(compact, recoveryCodePrefix)
	}
	if len(compact) != recoveryCodeBody {
		return strings.ToUpper(strings.TrimSpace(raw))
	}
	return formatRecoveryCode(compact)
}

func formatRecoveryCode(body string) string {
	parts := []string{recoveryCodePrefix}
	for start := 0; start < len(body); start += recoveryCodeGroup {
		parts = append(parts, body[start:start+recoveryCodeGroup])
	}
	return strings.Join(parts, "-")
}

func ValidateRecoveryCodeFormat(code string) error {
	if !recoveryCodeFormat.MatchString(strings.TrimSpace(code)) {
		return ErrAuthRecoveryCodeInvalid
	}
	return nil
}
