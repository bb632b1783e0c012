package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	upperAlphabet  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerAlphabet  = "abcdefghijkmnopqrstuvwxyz"
	digitAlphabet  = "23456789"
	symbolAlphabet = "!@#$%*-_+?"

	temporaryPasswordLength = 16
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString returns a cryptographically secure, unbiased string of the requested length.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}

	return string(value), nil
}

// TemporaryPassword returns an operator-issued password with at least one
// character from every class, in random positions.
func TemporaryPassword() (string, error) {
	classes := []string{upperAlphabet, lowerAlphabet, digitAlphabet, symbolAlphabet}
	all := upperAlphabet + lowerAlphabet + digitAlphabet + symbolAlphabet

	rest, err := RandomString(temporaryPasswordLength-len(classes), all)
	if err != nil {
		return "", err
	}
	value := []byte(rest)
	for _, class := range classes {
		pick, err := RandomString(1, class)
		if err != nil {
			return "", err
		}
		position, err := rand.Int(rand.Reader, big.NewInt(int64(len(value)+1)))
		if err != nil {
			return "", err
		}
		at := int(position.Int64())
		value = append(value[:at], append([]byte(pick), value[at:]...)...)
	}
	return string(value), nil
}
