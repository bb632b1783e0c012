package services

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/cradle/internal/models"
)

const (
	maxProfileNameLength   = 64
	minProfileAge          = 12
	maxProfileAge          = 60
	lastPeriodLookbackDays = 90
	minCycleLength         = 15
	maxCycleLength         = 90
	minPeriodLength        = 1
	maxPeriodLength        = 14
	minFollicularGapDays   = 8
)

var (
	ErrProfileDisplayNameInvalid     = errors.New("display name invalid")
	ErrProfileAgeOutOfRange          = errors.New("age out of range")
	ErrProfilePhoneInvalid           = errors.New("phone invalid")
	ErrProfilePartnerNameTooLong     = errors.New("partner name too long")
	ErrProfileLastPeriodInvalid      = errors.New("last period start invalid")
	ErrProfileCycleLengthOutOfRange  = errors.New("cycle length out of range")
	ErrProfilePeriodLengthOutOfRange = errors.New("period length out of range")
	ErrOnboardingStepsRequired       = errors.New("complete profile first")
)

var phonePattern = regexp.MustCompile(`^[0-9 +()\-]{7,20}$`)

type ProfileInput struct {
	DisplayName     string `json:"display_name"`
	Age             int    `json:"age"`
	Phone           string `json:"phone"`
	PartnerName     string `json:"partner_name"`
	LastPeriodStart string `json:"last_period_start"`
	CycleLength     int    `json:"cycle_length"`
	PeriodLength    int    `json:"period_length"`
}

type ProfileUpdate struct {
	DisplayName     string
	Age             int
	Phone           string
	PartnerName     string
	LastPeriodStart *time.Time
	CycleLength     int
	PeriodLength    int
}

func ValidateProfileInput(input ProfileInput, now time.Time, location *time.Location) (ProfileUpdate, error) {
	update := ProfileUpdate{
		DisplayName: strings.TrimSpace(input.DisplayName),
		Age:         input.Age,
		Phone:       strings.TrimSpace(input.Phone),
		PartnerName: strings.TrimSpace(input.PartnerName),
	}

	nameLength := utf8.RuneCountInString(update.DisplayName)
	if nameLength < 1 || nameLength > maxProfileNameLength {
		return ProfileUpdate{}, ErrProfileDisplayNameInvalid
	}
	if update.Age < minProfileAge || update.Age > maxProfileAge {
		return ProfileUpdate{}, ErrProfileAgeOutOfRange
	}
	if update.Phone != "" && !phonePattern.MatchString(update.Phone) {
		return ProfileUpdate{}, ErrProfilePhoneInvalid
	}
	if utf8.RuneCountInString(update.PartnerName) > maxProfileNameLength {
		return ProfileUpdate{}, ErrProfilePartnerNameTooLong
	}
	if !IsValidCycleLength(input.CycleLength) {
		return ProfileUpdate{}, ErrProfileCycleLengthOutOfRange
	}
	if !IsValidPeriodLength(input.PeriodLength) {
		return ProfileUpdate{}, ErrProfilePeriodLengthOutOfRange
	}
	update.CycleLength, update.PeriodLength = SanitizeCycleAndPeriod(input.CycleLength, input.PeriodLength)

	if raw := strings.TrimSpace(input.LastPeriodStart); raw != "" {
		day, err := ParseDay(raw, location)
		if err != nil {
			return ProfileUpdate{}, ErrProfileLastPeriodInvalid
		}
		minDate, today := LastPeriodDateBounds(now, location)
		if day.Before(minDate) || day.After(today) {
			return ProfileUpdate{}, ErrProfileLastPeriodInvalid
		}
		update.LastPeriodStart = &day
	}
	return update, nil
}

// LastPeriodDateBounds returns the oldest and newest accepted last period day.
func LastPeriodDateBounds(now time.Time, location *time.Location) (time.Time, time.Time) {
	today := DateAtLocation(now, location)
	return today.AddDate(0, 0, -lastPeriodLookbackDays), today
}

// SanitizeCycleAndPeriod clamps both lengths into range and keeps at least
// eight days between the end of the period and the next cycle.
func SanitizeCycleAndPeriod(cycleLength int, periodLength int) (int, int) {
	safeCycleLength := clampInt(cycleLength, minCycleLength, maxCycleLength)
	safePeriodLength := clampInt(periodLength, minPeriodLength, maxPeriodLength)

	if safeCycleLength-safePeriodLength < minFollicularGapDays {
		safePeriodLength = safeCycleLength - minFollicularGapDays
		if safePeriodLength < minPeriodLength {
			safePeriodLength = minPeriodLength
		}
	}
	return safeCycleLength, safePeriodLength
}

func IsValidCycleLength(value int) bool {
	return value >= minCycleLength && value <= maxCycleLength
}

func IsValidPeriodLength(value int) bool {
	return value >= minPeriodLength && value <= maxPeriodLength
}

func ResolveCycleAndPeriodDefaults(cycleLength int, periodLength int) (int, int) {
	if !IsValidCycleLength(cycleLength) {
		cycleLength = models.DefaultCycleLength
	}
	if !IsValidPeriodLength(periodLength) {
		periodLength = models.DefaultPeriodLength
	}
	return cycleLength, periodLength
}

func clampInt(value int, low int, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
