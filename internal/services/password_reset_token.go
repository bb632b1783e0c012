package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	passwordResetTokenPurpose = "password_reset"
	passwordResetTokenTTL     = 30 * time.Minute
	passwordStateSalt         = "cradle.reset.password-state.v1:"
)

var (
	ErrPasswordResetTokenMissing              = errors.New("missing reset token")
	ErrPasswordResetTokenInvalid              = errors.New("invalid reset token")
	ErrPasswordResetTokenInvalidPurpose       = errors.New("invalid reset token purpose")
	ErrPasswordResetTokenExpired              = errors.New("expired reset token")
	ErrPasswordResetTokenInvalidUserID        = errors.New("invalid reset token user id")
	ErrPasswordResetTokenInvalidPasswordState = errors.New("invalid reset token password state")
)

// PasswordResetClaims carry a fingerprint of the password hash they were
// issued against, so a token stops working once the password changes.
type PasswordResetClaims struct {
	UserID        uint   `json:"uid"`
	Purpose       string `json:"purpose"`
	PasswordState string `json:"password_state"`
	jwt.RegisteredClaims
}

func BuildPasswordResetToken(secretKey []byte, userID uint, passwordHash string, ttl time.Duration, now time.Time) (string, error) {
	if ttl <= 0 {
		ttl = passwordResetTokenTTL
	}
	if now.IsZero() {
		now = time.Now()
	}
	state := PasswordStateFingerprint(passwordHash)
	if state == "" {
		return "", ErrPasswordResetTokenInvalidPasswordState
	}

	return signToken(secretKey, PasswordResetClaims{
		UserID:           userID,
		Purpose:          passwordResetTokenPurpose,
		PasswordState:    state,
		RegisteredClaims: registeredClaims(userID, now, ttl),
	})
}

func ParsePasswordResetToken(secretKey []byte, rawToken string, now time.Time) (*PasswordResetClaims, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, ErrPasswordResetTokenMissing
	}
	if now.IsZero() {
		now = time.Now()
	}

	claims := &PasswordResetClaims{}
	switch err := parseToken(secretKey, rawToken, claims, now); {
	case errors.Is(err, errTokenExpired):
		return nil, ErrPasswordResetTokenExpired
	case err != nil:
		return nil, ErrPasswordResetTokenInvalid
	}

	switch {
	case claims.Purpose != passwordResetTokenPurpose:
		return nil, ErrPasswordResetTokenInvalidPurpose
	case claims.UserID == 0:
		return nil, ErrPasswordResetTokenInvalidUserID
	case strings.TrimSpace(claims.PasswordState) == "":
		return nil, ErrPasswordResetTokenInvalidPasswordState
	}
	return claims, nil
}

func PasswordStateFingerprint(passwordHash string) string {
	passwordHash = strings.TrimSpace(passwordHash)
	if passwordHash == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(passwordStateSalt + passwordHash))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func IsPasswordStateFingerprintMatch(expected string, passwordHash string) bool {
	actual := PasswordStateFingerprint(passwordHash)
	if strings.TrimSpace(expected) == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
