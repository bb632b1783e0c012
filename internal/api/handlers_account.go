package api

import (
	"github.com/gofiber/fiber/v2"
)

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type deleteAccountInput struct {
	Password string `json:"password" form:"password"`
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := changePasswordInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := handler.authService.ChangePassword(user, input.CurrentPassword, input.NewPassword, input.ConfirmPassword); err != nil {
		return handler.respondError(c, err)
	}

	updated, err := handler.authService.FindByID(user.ID)
	if err != nil {
		return handler.respondError(c, err)
	}
	token, expiresAt, err := handler.startSession(c, &updated, false)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "token": token, "expires_at": handler.formatMoment(expiresAt)})
}

func (handler *Handler) RegenerateRecoveryCode(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	code, err := handler.authService.RegenerateRecoveryCode(user.ID)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{"recovery_code": code})
}

// DeleteAccount removes the user and everything they own.
func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := deleteAccountInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if err := handler.authService.DeleteAccount(user, input.Password); err != nil {
		return handler.respondError(c, err)
	}

	handler.clearAuthCookie(c)
	handler.logger.Info("account deleted", zapUserID(user.ID))
	return c.JSON(fiber.Map{"ok": true})
}
