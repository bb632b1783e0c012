package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cradle/internal/services"
)

func (handler *Handler) ListPregnancyTests(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	tests, err := handler.pregnancyService.List(user.ID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{"tests": mapViews(tests, handler.newPregnancyTestView)})
}

func (handler *Handler) GetPregnancyTest(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	test, err := handler.pregnancyService.Get(user.ID, c.Params("id"))
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(handler.newPregnancyTestView(test))
}

func (handler *Handler) CreatePregnancyTest(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := services.PregnancyTestInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	test, err := handler.pregnancyService.Create(user.ID, input, handler.currentTime(), handler.location)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(handler.newPregnancyTestView(test))
}

func (handler *Handler) UpdatePregnancyTest(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := services.PregnancyTestInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	test, err := handler.pregnancyService.Update(user.ID, c.Params("id"), input, handler.currentTime(), handler.location)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(handler.newPregnancyTestView(test))
}

func (handler *Handler) DeletePregnancyTest(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if err := handler.pregnancyService.Delete(user.ID, c.Params("id")); err != nil {
		return handler.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) PregnancySummary(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	summary, err := handler.pregnancyService.Summary(user, handler.currentTime(), handler.location)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(handler.newPregnancySummaryView(summary))
}

func (handler *Handler) ListConceptionAttempts(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	attempts, err := handler.conceptionService.List(user.ID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{"attempts": mapViews(attempts, handler.newConceptionAttemptView)})
}

func (handler *Handler) CreateConceptionAttempt(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := services.ConceptionAttemptInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	attempt, err := handler.conceptionService.Create(user, input, handler.currentTime(), handler.location)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(handler.newConceptionAttemptView(attempt))
}

func (handler *Handler) DeleteConceptionAttempt(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if err := handler.conceptionService.Delete(user.ID, c.Params("id")); err != nil {
		return handler.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
