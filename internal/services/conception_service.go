package services

import (
	"fmt"
	"time"

	"github.com/terraincognita07/cradle/internal/models"
)

type ConceptionAttemptRepository interface {
	ListAttempts(userID uint) ([]models.ConceptionAttempt, error)
	CreateAttempt(attempt *models.ConceptionAttempt) error
	DeleteAttempt(userID uint, id string) (bool, error)
}

type ConceptionAttemptInput struct {
	OccurredAt string `json:"occurred_at"`
	Notes      string `json:"notes"`
}

type ConceptionService struct {
	attempts ConceptionAttemptRepository
}

func NewConceptionService(attempts ConceptionAttemptRepository) *ConceptionService {
	return &ConceptionService{attempts: attempts}
}

func (service *ConceptionService) List(userID uint) ([]models.ConceptionAttempt, error) {
	return service.attempts.ListAttempts(userID)
}

// Create flags the attempt against the fertile window projected from the
// user's profile at the time of logging.
func (service *ConceptionService) Create(user *models.User, input ConceptionAttemptInput, now time.Time, location *time.Location) (models.ConceptionAttempt, error) {
	occurredAt, err := ParseMoment(input.OccurredAt, now, location)
	if err != nil {
		return models.ConceptionAttempt{}, err
	}
	if occurredAt.After(now) {
		return models.ConceptionAttempt{}, ErrTimestampInFuture
	}
	notes, err := normalizeNotes(input.Notes)
	if err != nil {
		return models.ConceptionAttempt{}, err
	}

	attempt := models.ConceptionAttempt{
		ID:              newRecordID(),
		UserID:          user.ID,
		OccurredAt:      occurredAt,
		InFertileWindow: IsInFertileWindow(user, occurredAt, location),
		Notes:           notes,
	}
	if err := service.attempts.CreateAttempt(&attempt); err != nil {
		return models.ConceptionAttempt{}, fmt.Errorf("create conception attempt: %w", err)
	}
	return attempt, nil
}

func (service *ConceptionService) Delete(userID uint, id string) error {
	deleted, err := service.attempts.DeleteAttempt(userID, id)
	if err != nil {
		return fmt.Errorf("delete conception attempt: %w", err)
	}
	if !deleted {
		return ErrRecordNotFound
	}
	return nil
}

func IsInFertileWindow(user *models.User, moment time.Time, location *time.Location) bool {
	if user == nil || user.LastPeriodStart == nil {
		return false
	}
	day := DateAtLocation(moment, location)
	lastPeriodStart := DateAtLocation(*user.LastPeriodStart, location)
	switch projectMarkings(day, day, lastPeriodStart, user.CycleLength, user.PeriodLength)[FormatDay(day)] {
	case models.MarkingFertile, models.MarkingOvulation:
		return true
	default:
		return false
	}
}
