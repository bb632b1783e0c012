package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cradle/internal/telemetry"
)

func (handler *Handler) Vitals(c *fiber.Ctx) error {
	if handler.vitals == nil {
		return apiError(c, fiber.StatusServiceUnavailable, "vitals unavailable")
	}
	return c.JSON(handler.vitals.Status())
}

func (handler *Handler) VitalsSeries(c *fiber.Ctx) error {
	if handler.vitals == nil {
		return apiError(c, fiber.StatusServiceUnavailable, "vitals unavailable")
	}
	metric := strings.ToLower(strings.TrimSpace(c.Params("metric")))
	points, ok := handler.vitals.Series(metric)
	if !ok {
		return apiError(c, fiber.StatusNotFound, "unknown metric")
	}
	return c.JSON(fiber.Map{
		"metric": metric,
		"unit":   telemetry.Unit(metric),
		"points": points,
	})
}
