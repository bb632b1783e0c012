package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxNotesLength = 500
	maxLabelLength = 64
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrNotesTooLong   = errors.New("notes too long")
)

func newRecordID() string {
	return uuid.NewString()
}

// IsValidRecordID guards route parameters before they reach the store.
func IsValidRecordID(raw string) bool {
	_, err := uuid.Parse(strings.TrimSpace(raw))
	return err == nil
}

func normalizeNotes(raw string) (string, error) {
	notes := strings.TrimSpace(raw)
	if utf8.RuneCountInString(notes) > maxNotesLength {
		return "", ErrNotesTooLong
	}
	return notes, nil
}

func normalizeLabel(raw string, required bool, invalid error) (string, error) {
	label := strings.TrimSpace(raw)
	length := utf8.RuneCountInString(label)
	if length > maxLabelLength || (required && length == 0) {
		return "", invalid
	}
	return label, nil
}
