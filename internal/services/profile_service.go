package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/cradle/internal/models"
)

var ErrOnboardingRequired = errors.New("onboarding required")

type ProfileUserRepository interface {
	FindByID(userID uint) (models.User, error)
	UpdateByID(userID uint, updates map[string]any) error
	CompleteOnboarding(userID uint, startDay time.Time, periodLength int) error
}

type ProfileService struct {
	users ProfileUserRepository
}

func NewProfileService(users ProfileUserRepository) *ProfileService {
	return &ProfileService{users: users}
}

// UpdateProfile validates and stores the profile fields. An empty last period
// start keeps the stored one.
func (service *ProfileService) UpdateProfile(userID uint, input ProfileInput, now time.Time, location *time.Location) (models.User, error) {
	update, err := ValidateProfileInput(input, now, location)
	if err != nil {
		return models.User{}, err
	}

	updates := map[string]any{
		"display_name":  update.DisplayName,
		"age":           update.Age,
		"phone":         update.Phone,
		"partner_name":  update.PartnerName,
		"cycle_length":  update.CycleLength,
		"period_length": update.PeriodLength,
	}
	if update.LastPeriodStart != nil {
		updates["last_period_start"] = *update.LastPeriodStart
	}
	if err := service.users.UpdateByID(userID, updates); err != nil {
		return models.User{}, fmt.Errorf("update profile: %w", err)
	}
	return service.users.FindByID(userID)
}

// CompleteOnboarding flips the completion flag once the required fields are
// present and seeds period markings for the first period, up to today.
func (service *ProfileService) CompleteOnboarding(userID uint, now time.Time, location *time.Location) (models.User, error) {
	current, err := service.users.FindByID(userID)
	if err != nil {
		return models.User{}, err
	}
	if current.OnboardingCompleted {
		return current, nil
	}
	if strings.TrimSpace(current.DisplayName) == "" || current.LastPeriodStart == nil || current.CycleLength <= 0 {
		return models.User{}, ErrOnboardingStepsRequired
	}

	startDay := DateAtLocation(*current.LastPeriodStart, location)
	_, periodLength := SanitizeCycleAndPeriod(current.CycleLength, current.PeriodLength)
	if elapsed := DaysBetween(startDay, DateAtLocation(now, location)) + 1; elapsed < periodLength {
		periodLength = max(elapsed, 0)
	}
	if err := service.users.CompleteOnboarding(userID, startDay, periodLength); err != nil {
		return models.User{}, fmt.Errorf("complete onboarding: %w", err)
	}
	return service.users.FindByID(userID)
}

func RequireOnboarding(user *models.User) error {
	if user == nil || !user.OnboardingCompleted {
		return ErrOnboardingRequired
	}
	return nil
}
