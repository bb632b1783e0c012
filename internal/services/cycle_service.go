package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/cradle/internal/models"
)

var (
	ErrInvalidMonth         = errors.New("invalid month")
	ErrInvalidMarking       = errors.New("invalid marking")
	ErrCycleDayInFuture     = errors.New("cycle day in future")
	ErrCycleDayNotFound     = errors.New("cycle day not found")
	ErrSyncLastPeriodFailed = errors.New("sync last period failed")
)

type CycleDayRepository interface {
	ListByUserRange(userID uint, fromStart time.Time, toEnd time.Time) ([]models.CycleDay, error)
	ListPeriodDays(userID uint) ([]models.CycleDay, error)
	Upsert(userID uint, day time.Time, marking string) (models.CycleDay, error)
	Delete(userID uint, day time.Time) (bool, error)
}

type CycleUserRepository interface {
	UpdateByID(userID uint, updates map[string]any) error
}

type CycleService struct {
	days  CycleDayRepository
	users CycleUserRepository
}

type CycleSummary struct {
	Prediction *CyclePrediction
	Regularity CycleRegularity
}

func NewCycleService(days CycleDayRepository, users CycleUserRepository) *CycleService {
	return &CycleService{days: days, users: users}
}

func (service *CycleService) Summary(user *models.User, now time.Time, location *time.Location) (CycleSummary, error) {
	periodDays, err := service.days.ListPeriodDays(user.ID)
	if err != nil {
		return CycleSummary{}, fmt.Errorf("load period days: %w", err)
	}

	summary := CycleSummary{Regularity: ClassifyRegularity(CycleLengths(DetectCycleStarts(periodDays)))}
	if prediction, ok := PredictionForUser(user, now, location); ok {
		summary.Prediction = &prediction
	}
	return summary, nil
}

// PredictionForUser reports false while the user has no last period start.
func PredictionForUser(user *models.User, now time.Time, location *time.Location) (CyclePrediction, bool) {
	if user == nil || user.LastPeriodStart == nil {
		return CyclePrediction{}, false
	}
	lastPeriodStart := DateAtLocation(*user.LastPeriodStart, location)
	today := DateAtLocation(now, location)
	return PredictCycle(lastPeriodStart, user.CycleLength, user.PeriodLength, today), true
}

// ParseMonth parses YYYY-MM into the first day of that month.
func ParseMonth(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	month, err := time.ParseInLocation("2006-01", strings.TrimSpace(raw), location)
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return month, nil
}

func (service *CycleService) MonthMarkings(user *models.User, monthStart time.Time, location *time.Location) ([]DayMarking, error) {
	monthEnd := monthStart.AddDate(0, 1, 0)
	manual, err := service.days.ListByUserRange(user.ID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("load cycle days: %w", err)
	}

	var lastPeriodStart time.Time
	if user.LastPeriodStart != nil {
		lastPeriodStart = DateAtLocation(*user.LastPeriodStart, location)
	}
	return BuildMonthMarkings(monthStart, manual, lastPeriodStart, user.CycleLength, user.PeriodLength), nil
}

// SetMarking stores a manual marking for one day. A period day that starts a
// new cycle moves the user's last period start forward; replacing the period
// day that anchors the prediction recomputes it from the remaining markings.
func (service *CycleService) SetMarking(user *models.User, day time.Time, marking string, now time.Time, location *time.Location) (models.CycleDay, error) {
	marking = strings.ToLower(strings.TrimSpace(marking))
	if !models.IsValidMarking(marking) {
		return models.CycleDay{}, ErrInvalidMarking
	}
	day = DateAtLocation(day, location)
	if day.After(DateAtLocation(now, location)) {
		return models.CycleDay{}, ErrCycleDayInFuture
	}

	previous, err := service.markingOn(user.ID, day, location)
	if err != nil {
		return models.CycleDay{}, err
	}
	stored, err := service.days.Upsert(user.ID, day, marking)
	if err != nil {
		return models.CycleDay{}, fmt.Errorf("store cycle day: %w", err)
	}

	switch {
	case marking == models.MarkingPeriod:
		err = service.syncLastPeriodStart(user, location, false)
	case touchesAnchor(user, day, previous, location):
		err = service.syncLastPeriodStart(user, location, true)
	}
	if err != nil {
		return models.CycleDay{}, err
	}
	return stored, nil
}

func (service *CycleService) DeleteMarking(user *models.User, day time.Time, location *time.Location) error {
	day = DateAtLocation(day, location)
	previous, err := service.markingOn(user.ID, day, location)
	if err != nil {
		return err
	}
	deleted, err := service.days.Delete(user.ID, day)
	if err != nil {
		return fmt.Errorf("delete cycle day: %w", err)
	}
	if !deleted {
		return ErrCycleDayNotFound
	}
	if touchesAnchor(user, day, previous, location) {
		return service.syncLastPeriodStart(user, location, true)
	}
	return nil
}

func (service *CycleService) markingOn(userID uint, day time.Time, location *time.Location) (string, error) {
	start, end := DayRange(day, location)
	entries, err := service.days.ListByUserRange(userID, start, end)
	if err != nil {
		return "", fmt.Errorf("load cycle day: %w", err)
	}
	if len(entries) == 0 {
		return "", nil
	}
	return entries[0].Marking, nil
}

// touchesAnchor reports whether removing a period marking from day can
// invalidate the user's last period start: the day is the anchor itself, or
// a period day inside the anchored cycle.
func touchesAnchor(user *models.User, day time.Time, previous string, location *time.Location) bool {
	if user.LastPeriodStart == nil {
		return false
	}
	anchor := DateAtLocation(*user.LastPeriodStart, location)
	return sameDay(anchor, day) || (previous == models.MarkingPeriod && day.After(anchor))
}

func (service *CycleService) syncLastPeriodStart(user *models.User, location *time.Location, allowBackward bool) error {
	periodDays, err := service.days.ListPeriodDays(user.ID)
	if err != nil {
		return ErrSyncLastPeriodFailed
	}
	starts := DetectCycleStarts(periodDays)
	if len(starts) == 0 {
		return nil
	}

	latest := DateAtLocation(starts[len(starts)-1], location)
	if user.LastPeriodStart != nil {
		current := DateAtLocation(*user.LastPeriodStart, location)
		if sameDay(current, latest) || (latest.Before(current) && !allowBackward) {
			return nil
		}
	}
	if err := service.users.UpdateByID(user.ID, map[string]any{"last_period_start": latest}); err != nil {
		return ErrSyncLastPeriodFailed
	}
	user.LastPeriodStart = &latest
	return nil
}
