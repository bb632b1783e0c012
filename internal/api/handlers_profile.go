package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cradle/internal/models"
	"github.com/terraincognita07/cradle/internal/services"
)

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return handler.respondProfile(c, user)
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := services.ProfileInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	updated, err := handler.profileService.UpdateProfile(user.ID, input, handler.currentTime(), handler.location)
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondProfile(c, &updated)
}

func (handler *Handler) CompleteProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	updated, err := handler.profileService.CompleteOnboarding(user.ID, handler.currentTime(), handler.location)
	if err != nil {
		return handler.respondError(c, err)
	}
	return handler.respondProfile(c, &updated)
}

func (handler *Handler) respondProfile(c *fiber.Ctx, user *models.User) error {
	payload := fiber.Map{
		"profile":   handler.newUserView(user),
		"completed": user.OnboardingCompleted,
		"cycle":     nil,
	}
	if prediction, ok := services.PredictionForUser(user, handler.currentTime(), handler.location); ok {
		payload["cycle"] = newPredictionView(&prediction)
	}
	return c.JSON(payload)
}
