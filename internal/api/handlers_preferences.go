package api

import (
	"github.com/gofiber/fiber/v2"
)

type preferenceInput struct {
	Value string `json:"value" form:"value"`
}

func (handler *Handler) ListPreferences(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	preferences, err := handler.preferenceService.List(user.ID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{"preferences": mapViews(preferences, handler.newPreferenceView)})
}

func (handler *Handler) SetPreference(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := preferenceInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	preference, err := handler.preferenceService.Set(user.ID, c.Params("key"), input.Value)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(handler.newPreferenceView(preference))
}

func (handler *Handler) DeletePreference(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if err := handler.preferenceService.Delete(user.ID, c.Params("key")); err != nil {
		return handler.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
