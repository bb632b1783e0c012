package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/cradle/internal/models"
)

const (
	upcomingVaccinationDays = 30
	maxFeedingAmountML      = 1000
	maxFeedingMinutes       = 180
	maxWeightKG             = 30
	maxLengthCM             = 130
	maxHeadCM               = 60
)

var (
	ErrBabyRequired           = errors.New("baby profile required")
	ErrBabyNameInvalid        = errors.New("baby name invalid")
	ErrBabySexInvalid         = errors.New("baby sex invalid")
	ErrBirthDateInvalid       = errors.New("birth date invalid")
	ErrBeforeBirth            = errors.New("timestamp before birth date")
	ErrInvalidFeedingKind     = errors.New("invalid feeding kind")
	ErrFeedingAmountInvalid   = errors.New("feeding amount invalid")
	ErrVaccineInvalid         = errors.New("vaccine invalid")
	ErrDoseTooLong            = errors.New("dose too long")
	ErrNextDueBeforeGiven     = errors.New("next due date before given date")
	ErrGrowthMeasurementEmpty = errors.New("growth measurement required")
	ErrGrowthOutOfRange       = errors.New("growth measurement out of range")
)

type NewbornRepository interface {
	FindBaby(userID uint) (models.Baby, bool, error)
	SaveBaby(baby *models.Baby) error
	ListFeedings(userID uint) ([]models.FeedingLog, error)
	CreateFeeding(entry *models.FeedingLog) error
	DeleteFeeding(userID uint, id string) (bool, error)
	ListVaccinations(userID uint) ([]models.VaccinationLog, error)
	ListVaccinationsDueBefore(userID uint, before time.Time) ([]models.VaccinationLog, error)
	CreateVaccination(entry *models.VaccinationLog) error
	DeleteVaccination(userID uint, id string) (bool, error)
	ListGrowth(userID uint) ([]models.GrowthLog, error)
	CreateGrowth(entry *models.GrowthLog) error
	DeleteGrowth(userID uint, id string) (bool, error)
}

type BabyInput struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Sex       string `json:"sex"`
}

type BabyProfile struct {
	Baby      models.Baby
	AgeMonths int
	AgeDays   int
}

type FeedingInput struct {
	Kind            string `json:"kind"`
	AmountML        int    `json:"amount_ml"`
	DurationMinutes int    `json:"duration_minutes"`
	FedAt           string `json:"fed_at"`
	Notes           string `json:"notes"`
}

type VaccinationInput struct {
	Vaccine   string `json:"vaccine"`
	Dose      string `json:"dose"`
	GivenAt   string `json:"given_at"`
	NextDueAt string `json:"next_due_at"`
}

type GrowthInput struct {
	MeasuredAt string  `json:"measured_at"`
	WeightKG   float64 `json:"weight_kg"`
	LengthCM   float64 `json:"length_cm"`
	HeadCM     float64 `json:"head_cm"`
}

type NewbornService struct {
	newborns NewbornRepository
}

func NewNewbornService(newborns NewbornRepository) *NewbornService {
	return &NewbornService{newborns: newborns}
}

func (service *NewbornService) Profile(userID uint, now time.Time, location *time.Location) (BabyProfile, error) {
	baby, found, err := service.newborns.FindBaby(userID)
	if err != nil {
		return BabyProfile{}, fmt.Errorf("load baby: %w", err)
	}
	if !found {
		return BabyProfile{}, ErrBabyRequired
	}
	return buildBabyProfile(baby, now, location), nil
}

func (service *NewbornService) SaveProfile(userID uint, input BabyInput, now time.Time, location *time.Location) (BabyProfile, error) {
	name, err := normalizeLabel(input.Name, true, ErrBabyNameInvalid)
	if err != nil {
		return BabyProfile{}, err
	}
	sex := strings.ToLower(strings.TrimSpace(input.Sex))
	if sex != models.SexUnspecified && sex != models.SexFemale && sex != models.SexMale {
		return BabyProfile{}, ErrBabySexInvalid
	}
	birthDate, err := ParseDay(input.BirthDate, location)
	if err != nil || birthDate.After(DateAtLocation(now, location)) {
		return BabyProfile{}, ErrBirthDateInvalid
	}

	baby, _, err := service.newborns.FindBaby(userID)
	if err != nil {
		return BabyProfile{}, fmt.Errorf("load baby: %w", err)
	}
	baby.UserID = userID
	baby.Name = name
	baby.BirthDate = birthDate
	baby.Sex = sex
	if err := service.newborns.SaveBaby(&baby); err != nil {
		return BabyProfile{}, fmt.Errorf("save baby: %w", err)
	}
	return buildBabyProfile(baby, now, location), nil
}

func buildBabyProfile(baby models.Baby, now time.Time, location *time.Location) BabyProfile {
	birth := DateAtLocation(baby.BirthDate, location)
	today := DateAtLocation(now, location)
	ageDays := DaysBetween(birth, today)
	if ageDays < 0 {
		ageDays = 0
	}
	return BabyProfile{Baby: baby, AgeMonths: AgeInMonths(birth, today), AgeDays: ageDays}
}

// AgeInMonths counts completed calendar months; a month is complete once the
// day of month reaches the birth day.
func AgeInMonths(birthDate time.Time, today time.Time) int {
	if today.Before(birthDate) {
		return 0
	}
	months := (today.Year()-birthDate.Year())*12 + int(today.Month()-birthDate.Month())
	if today.Day() < birthDate.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

func (service *NewbornService) ListFeedings(userID uint) ([]models.FeedingLog, error) {
	return service.newborns.ListFeedings(userID)
}

func (service *NewbornService) CreateFeeding(userID uint, input FeedingInput, now time.Time, location *time.Location) (models.FeedingLog, error) {
	kind := strings.ToLower(strings.TrimSpace(input.Kind))
	if !models.IsValidFeedingKind(kind) {
		return models.FeedingLog{}, ErrInvalidFeedingKind
	}
	if input.AmountML < 0 || input.AmountML > maxFeedingAmountML || input.DurationMinutes < 0 || input.DurationMinutes > maxFeedingMinutes {
		return models.FeedingLog{}, ErrFeedingAmountInvalid
	}
	notes, err := normalizeNotes(input.Notes)
	if err != nil {
		return models.FeedingLog{}, err
	}
	fedAt, err := service.resolveLogMoment(userID, input.FedAt, now, location)
	if err != nil {
		return models.FeedingLog{}, err
	}

	entry := models.FeedingLog{
		ID:              newRecordID(),
		UserID:          userID,
		Kind:            kind,
		AmountML:        input.AmountML,
		DurationMinutes: input.DurationMinutes,
		FedAt:           fedAt,
		Notes:           notes,
	}
	if err := service.newborns.CreateFeeding(&entry); err != nil {
		return models.FeedingLog{}, fmt.Errorf("create feeding: %w", err)
	}
	return entry, nil
}

func (service *NewbornService) DeleteFeeding(userID uint, id string) error {
	return deletedOrNotFound(service.newborns.DeleteFeeding(userID, id))
}

func (service *NewbornService) ListVaccinations(userID uint) ([]models.VaccinationLog, error) {
	return service.newborns.ListVaccinations(userID)
}

func (service *NewbornService) CreateVaccination(userID uint, input VaccinationInput, now time.Time, location *time.Location) (models.VaccinationLog, error) {
	vaccine, err := normalizeLabel(input.Vaccine, true, ErrVaccineInvalid)
	if err != nil {
		return models.VaccinationLog{}, err
	}
	dose, err := normalizeLabel(input.Dose, false, ErrDoseTooLong)
	if err != nil {
		return models.VaccinationLog{}, err
	}
	givenAt, err := service.resolveLogMoment(userID, input.GivenAt, now, location)
	if err != nil {
		return models.VaccinationLog{}, err
	}

	entry := models.VaccinationLog{
		ID:      newRecordID(),
		UserID:  userID,
		Vaccine: vaccine,
		Dose:    dose,
		GivenAt: givenAt,
	}
	if raw := strings.TrimSpace(input.NextDueAt); raw != "" {
		nextDue, err := ParseMoment(raw, now, location)
		if err != nil {
			return models.VaccinationLog{}, err
		}
		if nextDue.Before(givenAt) {
			return models.VaccinationLog{}, ErrNextDueBeforeGiven
		}
		entry.NextDueAt = &nextDue
	}
	if err := service.newborns.CreateVaccination(&entry); err != nil {
		return models.VaccinationLog{}, fmt.Errorf("create vaccination: %w", err)
	}
	return entry, nil
}

func (service *NewbornService) DeleteVaccination(userID uint, id string) error {
	return deletedOrNotFound(service.newborns.DeleteVaccination(userID, id))
}

// UpcomingVaccinations lists doses due from today through the next 30 days.
func (service *NewbornService) UpcomingVaccinations(userID uint, now time.Time, location *time.Location) ([]models.VaccinationLog, error) {
	today := DateAtLocation(now, location)
	horizon := today.AddDate(0, 0, upcomingVaccinationDays+1)
	due, err := service.newborns.ListVaccinationsDueBefore(userID, horizon)
	if err != nil {
		return nil, fmt.Errorf("load vaccinations: %w", err)
	}

	upcoming := make([]models.VaccinationLog, 0, len(due))
	for _, entry := range due {
		if entry.NextDueAt != nil && !entry.NextDueAt.Before(today) {
			upcoming = append(upcoming, entry)
		}
	}
	return upcoming, nil
}

func (service *NewbornService) ListGrowth(userID uint) ([]models.GrowthLog, error) {
	return service.newborns.ListGrowth(userID)
}

func (service *NewbornService) CreateGrowth(userID uint, input GrowthInput, now time.Time, location *time.Location) (models.GrowthLog, error) {
	if err := ValidateGrowthInput(input); err != nil {
		return models.GrowthLog{}, err
	}
	measuredAt, err := service.resolveLogMoment(userID, input.MeasuredAt, now, location)
	if err != nil {
		return models.GrowthLog{}, err
	}

	entry := models.GrowthLog{
		ID:         newRecordID(),
		UserID:     userID,
		MeasuredAt: measuredAt,
		WeightKG:   input.WeightKG,
		LengthCM:   input.LengthCM,
		HeadCM:     input.HeadCM,
	}
	if err := service.newborns.CreateGrowth(&entry); err != nil {
		return models.GrowthLog{}, fmt.Errorf("create growth: %w", err)
	}
	return entry, nil
}

func (service *NewbornService) DeleteGrowth(userID uint, id string) error {
	return deletedOrNotFound(service.newborns.DeleteGrowth(userID, id))
}

func ValidateGrowthInput(input GrowthInput) error {
	if input.WeightKG == 0 && input.LengthCM == 0 && input.HeadCM == 0 {
		return ErrGrowthMeasurementEmpty
	}
	checks := []struct {
		value float64
		max   float64
	}{
		{input.WeightKG, maxWeightKG},
		{input.LengthCM, maxLengthCM},
		{input.HeadCM, maxHeadCM},
	}
	for _, check := range checks {
		if check.value < 0 || check.value > check.max {
			return ErrGrowthOutOfRange
		}
	}
	return nil
}

// resolveLogMoment parses a log timestamp and keeps it between the birth date
// and now.
func (service *NewbornService) resolveLogMoment(userID uint, raw string, now time.Time, location *time.Location) (time.Time, error) {
	baby, found, err := service.newborns.FindBaby(userID)
	if err != nil {
		return time.Time{}, fmt.Errorf("load baby: %w", err)
	}
	if !found {
		return time.Time{}, ErrBabyRequired
	}

	moment, err := ParseMoment(raw, now, location)
	if err != nil {
		return time.Time{}, err
	}
	if moment.After(now) {
		return time.Time{}, ErrTimestampInFuture
	}
	if DateAtLocation(moment, location).Before(DateAtLocation(baby.BirthDate, location)) {
		return time.Time{}, ErrBeforeBirth
	}
	return moment, nil
}

func deletedOrNotFound(deleted bool, err error) error {
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRecordNotFound
	}
	return nil
}
