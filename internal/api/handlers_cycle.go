package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cradle/internal/models"
	"github.com/terraincognita07/cradle/internal/services"
)

type cycleDayInput struct {
	Marking string `json:"marking" form:"marking"`
}

func (handler *Handler) CycleSummary(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	summary, err := handler.cycleService.Summary(user, handler.currentTime(), handler.location)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(newCycleSummaryView(summary))
}

// CycleDays returns one entry per day of ?month=YYYY-MM, the current month
// when omitted.
func (handler *Handler) CycleDays(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var monthStart time.Time
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		parsed, err := services.ParseMonth(raw, handler.location)
		if err != nil {
			return handler.respondError(c, err)
		}
		monthStart = parsed
	} else {
		today := services.DateAtLocation(handler.currentTime(), handler.location)
		monthStart = today.AddDate(0, 0, 1-today.Day())
	}

	markings, err := handler.cycleService.MonthMarkings(user, monthStart, handler.location)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"month": monthStart.Format("2006-01"),
		"days":  newDayMarkingViews(markings),
	})
}

func (handler *Handler) SetCycleDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, err := services.ParseDay(c.Params("date"), handler.location)
	if err != nil {
		return handler.respondError(c, err)
	}

	input := cycleDayInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	stored, err := handler.cycleService.SetMarking(user, day, input.Marking, handler.currentTime(), handler.location)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"date":              services.FormatDay(day),
		"marking":           stored.Marking,
		"source":            models.MarkingSourceManual,
		"last_period_start": optionalDay(user.LastPeriodStart),
	})
}

func (handler *Handler) DeleteCycleDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, err := services.ParseDay(c.Params("date"), handler.location)
	if err != nil {
		return handler.respondError(c, err)
	}
	if err := handler.cycleService.DeleteMarking(user, day, handler.location); err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "last_period_start": optionalDay(user.LastPeriodStart)})
}
