package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cradle/internal/advisor"
	"github.com/terraincognita07/cradle/internal/services"
	"go.uber.org/zap"
)

const internalErrorCode = "internal error"

type errorEntry struct {
	err     error
	status  int
	code    string
	message string
}

// errorCatalog maps service errors to a status, a stable machine code and a
// sentence a client can show as is. The first match wins.
var errorCatalog = []errorEntry{
	{services.ErrAuthCredentialsInvalid, fiber.StatusBadRequest, "invalid input", "Enter a valid email address and password."},
	{services.ErrAuthInvalidCredentials, fiber.StatusUnauthorized, "invalid credentials", "The email or password is incorrect."},
	{services.ErrAuthEmailExists, fiber.StatusConflict, "email already exists", "An account with this email already exists."},
	{services.ErrAuthPasswordMismatch, fiber.StatusBadRequest, "password mismatch", "The passwords do not match."},
	{services.ErrWeakPassword, fiber.StatusBadRequest, "weak password", "Use at least 8 characters with upper and lower case letters and a digit."},
	{services.ErrAuthPasswordChangeNeeded, fiber.StatusForbidden, "password change required", "Set a new password before continuing."},
	{services.ErrAuthInvalidCurrentPass, fiber.StatusUnauthorized, "invalid current password", "The current password is incorrect."},
	{services.ErrAuthNewPasswordMustDiffer, fiber.StatusBadRequest, "new password must differ", "Choose a password different from the current one."},
	{services.ErrAuthRecoveryCodeInvalid, fiber.StatusBadRequest, "invalid recovery code", "The recovery code is not valid."},
	{services.ErrRecoveryCodeNotFound, fiber.StatusBadRequest, "invalid recovery code", "The recovery code is not valid."},
	{services.ErrPasswordResetTokenExpired, fiber.StatusUnauthorized, "invalid reset token", "This reset link has expired. Start over with your recovery code."},
	{services.ErrPasswordResetTokenMissing, fiber.StatusUnauthorized, "invalid reset token", "This reset link is not valid. Start over with your recovery code."},
	{services.ErrPasswordResetTokenInvalid, fiber.StatusUnauthorized, "invalid reset token", "This reset link is not valid. Start over with your recovery code."},
	{services.ErrPasswordResetTokenInvalidPurpose, fiber.StatusUnauthorized, "invalid reset token", "This reset link is not valid. Start over with your recovery code."},
	{services.ErrPasswordResetTokenInvalidUserID, fiber.StatusUnauthorized, "invalid reset token", "This reset link is not valid. Start over with your recovery code."},
	{services.ErrPasswordResetTokenInvalidPasswordState, fiber.StatusUnauthorized, "invalid reset token", "This reset link was already used. Start over with your recovery code."},
	{services.ErrUserNotFound, fiber.StatusUnauthorized, "unauthorized", "Please sign in again."},

	{services.ErrOnboardingRequired, fiber.StatusForbidden, "onboarding required", "Finish setting up your profile first."},
	{services.ErrOnboardingStepsRequired, fiber.StatusBadRequest, "complete profile first", "Add your name, last period date and cycle length first."},
	{services.ErrProfileDisplayNameInvalid, fiber.StatusBadRequest, "display name invalid", "Enter a name between 1 and 64 characters."},
	{services.ErrProfileAgeOutOfRange, fiber.StatusBadRequest, "age out of range", "Enter an age between 12 and 60."},
	{services.ErrProfilePhoneInvalid, fiber.StatusBadRequest, "phone invalid", "Enter a phone number with 7 to 20 digits."},
	{services.ErrProfilePartnerNameTooLong, fiber.StatusBadRequest, "partner name too long", "The partner name can be at most 64 characters."},
	{services.ErrProfileLastPeriodInvalid, fiber.StatusBadRequest, "last period start invalid", "Pick a last period date within the past 90 days."},
	{services.ErrProfileCycleLengthOutOfRange, fiber.StatusBadRequest, "cycle length out of range", "Cycle length must be between 15 and 90 days."},
	{services.ErrProfilePeriodLengthOutOfRange, fiber.StatusBadRequest, "period length out of range", "Period length must be between 1 and 14 days."},

	{services.ErrInvalidDate, fiber.StatusBadRequest, "invalid date", "Use the YYYY-MM-DD date format."},
	{services.ErrInvalidMonth, fiber.StatusBadRequest, "invalid month", "Use the YYYY-MM month format."},
	{services.ErrInvalidMarking, fiber.StatusBadRequest, "invalid marking", "Marking must be period, ovulation, fertile or none."},
	{services.ErrCycleDayInFuture, fiber.StatusBadRequest, "cycle day in future", "Days in the future cannot be marked."},
	{services.ErrCycleDayNotFound, fiber.StatusNotFound, "cycle day not found", "This day has no marking."},

	{services.ErrRecordNotFound, fiber.StatusNotFound, "not found", "This entry does not exist."},
	{services.ErrNotesTooLong, fiber.StatusBadRequest, "notes too long", "Notes can be at most 500 characters."},
	{services.ErrTimestampInFuture, fiber.StatusBadRequest, "timestamp in future", "The time cannot be in the future."},
	{services.ErrInvalidTestResult, fiber.StatusBadRequest, "invalid test result", "Result must be positive, negative, faint or invalid."},
	{services.ErrBrandTooLong, fiber.StatusBadRequest, "brand too long", "The brand can be at most 64 characters."},

	{services.ErrBabyRequired, fiber.StatusConflict, "baby profile required", "Add your baby's profile first."},
	{services.ErrBabyNameInvalid, fiber.StatusBadRequest, "baby name invalid", "Enter a name between 1 and 64 characters."},
	{services.ErrBabySexInvalid, fiber.StatusBadRequest, "baby sex invalid", "Sex must be female, male or empty."},
	{services.ErrBirthDateInvalid, fiber.StatusBadRequest, "birth date invalid", "Enter a birth date that is not in the future."},
	{services.ErrBeforeBirth, fiber.StatusBadRequest, "timestamp before birth date", "The time cannot be before the birth date."},
	{services.ErrInvalidFeedingKind, fiber.StatusBadRequest, "invalid feeding kind", "Feeding kind must be breast, bottle, formula or solid."},
	{services.ErrFeedingAmountInvalid, fiber.StatusBadRequest, "feeding amount invalid", "Amount and duration must be within a plausible range."},
	{services.ErrVaccineInvalid, fiber.StatusBadRequest, "vaccine invalid", "Enter the vaccine name."},
	{services.ErrDoseTooLong, fiber.StatusBadRequest, "dose too long", "The dose can be at most 64 characters."},
	{services.ErrNextDueBeforeGiven, fiber.StatusBadRequest, "next due date before given date", "The next due date must be after the date given."},
	{services.ErrGrowthMeasurementEmpty, fiber.StatusBadRequest, "growth measurement required", "Enter weight, length or head circumference."},
	{services.ErrGrowthOutOfRange, fiber.StatusBadRequest, "growth measurement out of range", "Check the measurement, it is outside the expected range."},

	{services.ErrPreferenceKeyInvalid, fiber.StatusBadRequest, "preference key invalid", "Keys use 1 to 64 characters: a-z, 0-9, dot, dash or underscore."},
	{services.ErrPreferenceValueTooLong, fiber.StatusBadRequest, "preference value too long", "The value can be at most 1024 bytes."},
	{services.ErrPreferenceLimitReached, fiber.StatusConflict, "preference limit reached", "You can store at most 50 preferences."},

	{advisor.ErrUnavailable, fiber.StatusServiceUnavailable, "advisor unavailable", "The guide is not available right now."},
	{advisor.ErrFailed, fiber.StatusBadGateway, "advisor failed", "The guide could not answer. Please try again."},
	{advisor.ErrInvalidTopic, fiber.StatusBadRequest, "invalid topic", "Topic must be pregnancy, newborn, cycle or general."},
	{advisor.ErrInvalidMessage, fiber.StatusBadRequest, "invalid message", "Write a message of up to 2000 characters."},
	{advisor.ErrInvalidTurn, fiber.StatusBadRequest, "invalid transcript", "The conversation history is not valid."},
}

var codeMessages = map[string]string{
	"unauthorized":       "Please sign in.",
	"invalid input":      "The request could not be read.",
	"not found":          "This entry does not exist.",
	"too many attempts":  "Too many attempts. Try again in a few minutes.",
	"vitals unavailable": "The vitals monitor is not configured.",
	"unknown metric":     "This metric is not monitored.",
	internalErrorCode:    "Something went wrong. Please try again.",
}

func lookupError(err error) (errorEntry, bool) {
	for _, entry := range errorCatalog {
		if errors.Is(err, entry.err) {
			return entry, true
		}
	}
	return errorEntry{}, false
}

// apiError writes {"error": code, "message": sentence}.
func apiError(c *fiber.Ctx, status int, code string) error {
	message, ok := codeMessages[code]
	if !ok {
		for _, entry := range errorCatalog {
			if entry.code == code {
				message = entry.message
				break
			}
		}
	}
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

// respondError maps err through the catalog. Unknown errors are logged and
// reported as 500.
func (handler *Handler) respondError(c *fiber.Ctx, err error) error {
	if entry, ok := lookupError(err); ok {
		return c.Status(entry.status).JSON(fiber.Map{"error": entry.code, "message": entry.message})
	}
	handler.logger.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return apiError(c, fiber.StatusInternalServerError, internalErrorCode)
}
