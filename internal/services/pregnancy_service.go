package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/cradle/internal/models"
	"gorm.io/gorm"
)

const gestationDays = 280

var (
	ErrInvalidTestResult = errors.New("invalid test result")
	ErrBrandTooLong      = errors.New("brand too long")
	ErrTimestampInFuture = errors.New("timestamp in future")
)

type PregnancyTestRepository interface {
	ListTests(userID uint) ([]models.PregnancyTest, error)
	FindTest(userID uint, id string) (models.PregnancyTest, error)
	CreateTest(test *models.PregnancyTest) error
	SaveTest(test *models.PregnancyTest) error
	DeleteTest(userID uint, id string) (bool, error)
}

type PregnancyTestInput struct {
	TakenAt string `json:"taken_at"`
	Result  string `json:"result"`
	Brand   string `json:"brand"`
	Notes   string `json:"notes"`
}

type GestationalAge struct {
	Weeks int `json:"weeks"`
	Days  int `json:"days"`
}

type PregnancySummary struct {
	LatestResult   string
	LatestTakenAt  *time.Time
	CountByResult  map[string]int
	DueDate        *time.Time
	GestationalAge *GestationalAge
}

type PregnancyService struct {
	tests PregnancyTestRepository
}

func NewPregnancyService(tests PregnancyTestRepository) *PregnancyService {
	return &PregnancyService{tests: tests}
}

func (service *PregnancyService) List(userID uint) ([]models.PregnancyTest, error) {
	return service.tests.ListTests(userID)
}

func (service *PregnancyService) Get(userID uint, id string) (models.PregnancyTest, error) {
	test, err := service.tests.FindTest(userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PregnancyTest{}, ErrRecordNotFound
	}
	return test, err
}

func (service *PregnancyService) Create(userID uint, input PregnancyTestInput, now time.Time, location *time.Location) (models.PregnancyTest, error) {
	test := models.PregnancyTest{ID: newRecordID(), UserID: userID}
	if err := applyPregnancyTestInput(&test, input, now, location); err != nil {
		return models.PregnancyTest{}, err
	}
	if err := service.tests.CreateTest(&test); err != nil {
		return models.PregnancyTest{}, fmt.Errorf("create pregnancy test: %w", err)
	}
	return test, nil
}

func (service *PregnancyService) Update(userID uint, id string, input PregnancyTestInput, now time.Time, location *time.Location) (models.PregnancyTest, error) {
	test, err := service.Get(userID, id)
	if err != nil {
		return models.PregnancyTest{}, err
	}
	if err := applyPregnancyTestInput(&test, input, now, location); err != nil {
		return models.PregnancyTest{}, err
	}
	if err := service.tests.SaveTest(&test); err != nil {
		return models.PregnancyTest{}, fmt.Errorf("save pregnancy test: %w", err)
	}
	return test, nil
}

func (service *PregnancyService) Delete(userID uint, id string) error {
	deleted, err := service.tests.DeleteTest(userID, id)
	if err != nil {
		return fmt.Errorf("delete pregnancy test: %w", err)
	}
	if !deleted {
		return ErrRecordNotFound
	}
	return nil
}

// Summary reports the due date only once a positive test exists and the last
// period start is known.
func (service *PregnancyService) Summary(user *models.User, now time.Time, location *time.Location) (PregnancySummary, error) {
	tests, err := service.tests.ListTests(user.ID)
	if err != nil {
		return PregnancySummary{}, fmt.Errorf("load pregnancy tests: %w", err)
	}
	return BuildPregnancySummary(tests, user.LastPeriodStart, now, location), nil
}

func BuildPregnancySummary(tests []models.PregnancyTest, lastPeriodStart *time.Time, now time.Time, location *time.Location) PregnancySummary {
	summary := PregnancySummary{CountByResult: map[string]int{
		models.TestResultPositive: 0,
		models.TestResultNegative: 0,
		models.TestResultFaint:    0,
		models.TestResultInvalid:  0,
	}}

	hasPositive := false
	for index := range tests {
		test := tests[index]
		summary.CountByResult[test.Result]++
		if summary.LatestTakenAt == nil || test.TakenAt.After(*summary.LatestTakenAt) {
			takenAt := test.TakenAt
			summary.LatestTakenAt = &takenAt
			summary.LatestResult = test.Result
		}
		if test.Result == models.TestResultPositive {
			hasPositive = true
		}
	}

	if !hasPositive || lastPeriodStart == nil {
		return summary
	}
	start := DateAtLocation(*lastPeriodStart, location)
	dueDate := EstimateDueDate(start)
	summary.DueDate = &dueDate
	age := GestationalAgeAt(start, DateAtLocation(now, location))
	summary.GestationalAge = &age
	return summary
}

func EstimateDueDate(lastPeriodStart time.Time) time.Time {
	return lastPeriodStart.AddDate(0, 0, gestationDays)
}

func GestationalAgeAt(lastPeriodStart time.Time, today time.Time) GestationalAge {
	elapsed := DaysBetween(lastPeriodStart, today)
	if elapsed < 0 {
		elapsed = 0
	}
	return GestationalAge{Weeks: elapsed / 7, Days: elapsed % 7}
}

func applyPregnancyTestInput(test *models.PregnancyTest, input PregnancyTestInput, now time.Time, location *time.Location) error {
	result := strings.ToLower(strings.TrimSpace(input.Result))
	if !models.IsValidTestResult(result) {
		return ErrInvalidTestResult
	}
	takenAt, err := ParseMoment(input.TakenAt, now, location)
	if err != nil {
		return err
	}
	if takenAt.After(now) {
		return ErrTimestampInFuture
	}
	brand, err := normalizeLabel(input.Brand, false, ErrBrandTooLong)
	if err != nil {
		return err
	}
	notes, err := normalizeNotes(input.Notes)
	if err != nil {
		return err
	}

	test.TakenAt = takenAt
	test.Result = result
	test.Brand = brand
	test.Notes = notes
	return nil
}
