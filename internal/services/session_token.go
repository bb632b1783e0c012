package services

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultSessionTTL  = 7 * 24 * time.Hour
	RememberSessionTTL = 30 * 24 * time.Hour
	sessionPurpose     = "session"
)

var (
	ErrSessionTokenMissing = errors.New("missing session token")
	ErrSessionTokenInvalid = errors.New("invalid session token")
	ErrSessionTokenExpired = errors.New("expired session token")
)

type SessionClaims struct {
	UserID  uint   `json:"uid"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

func BuildSessionToken(secretKey []byte, userID uint, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if now.IsZero() {
		now = time.Now()
	}

	claims := SessionClaims{UserID: userID, Purpose: sessionPurpose, RegisteredClaims: registeredClaims(userID, now, ttl)}
	signed, err := signToken(secretKey, claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, claims.ExpiresAt.Time, nil
}

func ParseSessionToken(secretKey []byte, rawToken string, now time.Time) (*SessionClaims, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, ErrSessionTokenMissing
	}
	if now.IsZero() {
		now = time.Now()
	}

	claims := &SessionClaims{}
	switch err := parseToken(secretKey, rawToken, claims, now); {
	case errors.Is(err, errTokenExpired):
		return nil, ErrSessionTokenExpired
	case err != nil:
		return nil, ErrSessionTokenInvalid
	}
	if claims.Purpose != sessionPurpose || claims.UserID == 0 {
		return nil, ErrSessionTokenInvalid
	}
	return claims, nil
}
