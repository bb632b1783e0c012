package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cradle/internal/services"
)

func (handler *Handler) GetNewborn(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	profile, err := handler.newbornService.Profile(user.ID, handler.currentTime(), handler.location)
	if errors.Is(err, services.ErrBabyRequired) {
		return c.JSON(fiber.Map{"baby": nil})
	}
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{"baby": newBabyView(profile)})
}

func (handler *Handler) SaveNewborn(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := services.BabyInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	profile, err := handler.newbornService.SaveProfile(user.ID, input, handler.currentTime(), handler.location)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{"baby": newBabyView(profile)})
}

func (handler *Handler) ListFeedings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	entries, err := handler.newbornService.ListFeedings(user.ID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{"feedings": mapViews(entries, handler.newFeedingView)})
}

func (handler *Handler) CreateFeeding(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := services.FeedingInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	entry, err := handler.newbornService.CreateFeeding(user.ID, input, handler.currentTime(), handler.location)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(handler.newFeedingView(entry))
}

func (handler *Handler) DeleteFeeding(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if err := handler.newbornService.DeleteFeeding(user.ID, c.Params("id")); err != nil {
		return handler.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) ListVaccinations(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	entries, err := handler.newbornService.ListVaccinations(user.ID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{"vaccinations": mapViews(entries, handler.newVaccinationView)})
}

func (handler *Handler) UpcomingVaccinations(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	entries, err := handler.newbornService.UpcomingVaccinations(user.ID, handler.currentTime(), handler.location)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{"vaccinations": mapViews(entries, handler.newVaccinationView)})
}

func (handler *Handler) CreateVaccination(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := services.VaccinationInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	entry, err := handler.newbornService.CreateVaccination(user.ID, input, handler.currentTime(), handler.location)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(handler.newVaccinationView(entry))
}

func (handler *Handler) DeleteVaccination(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if err := handler.newbornService.DeleteVaccination(user.ID, c.Params("id")); err != nil {
		return handler.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) ListGrowth(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	entries, err := handler.newbornService.ListGrowth(user.ID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{"growth": mapViews(entries, handler.newGrowthView)})
}

func (handler *Handler) CreateGrowth(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := services.GrowthInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	entry, err := handler.newbornService.CreateGrowth(user.ID, input, handler.currentTime(), handler.location)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(handler.newGrowthView(entry))
}

func (handler *Handler) DeleteGrowth(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if err := handler.newbornService.DeleteGrowth(user.ID, c.Params("id")); err != nil {
		return handler.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
