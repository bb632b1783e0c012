package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/terraincognita07/cradle/internal/models"
)

const (
	maxPreferenceValueBytes = 1024
	maxPreferencesPerUser   = 50
)

var (
	ErrPreferenceKeyInvalid   = errors.New("preference key invalid")
	ErrPreferenceValueTooLong = errors.New("preference value too long")
	ErrPreferenceLimitReached = errors.New("preference limit reached")
)

var preferenceKeyPattern = regexp.MustCompile(`^[a-z0-9_.\-]{1,64}$`)

type PreferenceRepository interface {
	ListByUser(userID uint) ([]models.Preference, error)
	CountByUser(userID uint) (int64, error)
	Exists(userID uint, key string) (bool, error)
	Upsert(preference *models.Preference) error
	Delete(userID uint, key string) (bool, error)
}

type PreferenceService struct {
	preferences PreferenceRepository
}

func NewPreferenceService(preferences PreferenceRepository) *PreferenceService {
	return &PreferenceService{preferences: preferences}
}

func (service *PreferenceService) List(userID uint) ([]models.Preference, error) {
	return service.preferences.ListByUser(userID)
}

// Set overwrites an existing key; new keys count against the per-user limit.
func (service *PreferenceService) Set(userID uint, rawKey string, value string) (models.Preference, error) {
	key, err := NormalizePreferenceKey(rawKey)
	if err != nil {
		return models.Preference{}, err
	}
	if len(value) > maxPreferenceValueBytes {
		return models.Preference{}, ErrPreferenceValueTooLong
	}

	exists, err := service.preferences.Exists(userID, key)
	if err != nil {
		return models.Preference{}, fmt.Errorf("check preference: %w", err)
	}
	if !exists {
		count, err := service.preferences.CountByUser(userID)
		if err != nil {
			return models.Preference{}, fmt.Errorf("count preferences: %w", err)
		}
		if count >= maxPreferencesPerUser {
			return models.Preference{}, ErrPreferenceLimitReached
		}
	}

	preference := models.Preference{UserID: userID, Key: key, Value: value}
	if err := service.preferences.Upsert(&preference); err != nil {
		return models.Preference{}, fmt.Errorf("store preference: %w", err)
	}
	return preference, nil
}

func (service *PreferenceService) Delete(userID uint, rawKey string) error {
	key, err := NormalizePreferenceKey(rawKey)
	if err != nil {
		return err
	}
	return deletedOrNotFound(service.preferences.Delete(userID, key))
}

func NormalizePreferenceKey(raw string) (string, error) {
	key := strings.TrimSpace(raw)
	if !preferenceKeyPattern.MatchString(key) {
		return "", ErrPreferenceKeyInvalid
	}
	return key, nil
}
