package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cradle/internal/models"
	"github.com/terraincognita07/cradle/internal/services"
)

type credentialsInput struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	RememberMe      bool   `json:"remember_me" form:"remember_me"`
}

type forgotPasswordInput struct {
	RecoveryCode string `json:"recovery_code" form:"recovery_code"`
}

type resetPasswordInput struct {
	Token           string `json:"token" form:"token"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := credentialsInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, recoveryCode, err := handler.authService.Register(input.Email, input.Password, input.ConfirmPassword, handler.currentTime())
	if err != nil {
		return handler.respondError(c, err)
	}

	token, expiresAt, err := handler.startSession(c, &user, false)
	if err != nil {
		return handler.respondError(c, err)
	}
	handler.logger.Info("account registered")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":          handler.newUserView(&user),
		"token":         token,
		"expires_at":    handler.formatMoment(expiresAt),
		"recovery_code": recoveryCode,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	now := handler.currentTime()
	limiterKey := requestLimiterKey(c)
	if handler.authLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many attempts")
	}

	input := credentialsInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.Authenticate(input.Email, input.Password)
	switch {
	case errors.Is(err, services.ErrAuthPasswordChangeNeeded):
		handler.authLimiter.reset(limiterKey)
		resetToken, tokenErr := services.BuildPasswordResetToken(handler.secretKey, user.ID, user.PasswordHash, 0, now)
		if tokenErr != nil {
			return handler.respondError(c, tokenErr)
		}
		entry, _ := lookupError(err)
		return c.Status(entry.status).JSON(fiber.Map{
			"error":       entry.code,
			"message":     entry.message,
			"reset_token": resetToken,
		})
	case errors.Is(err, services.ErrAuthInvalidCredentials):
		handler.authLimiter.fail(limiterKey, now)
		return handler.respondError(c, err)
	case err != nil:
		return handler.respondError(c, err)
	}

	handler.authLimiter.reset(limiterKey)
	token, expiresAt, err := handler.startSession(c, &user, input.RememberMe)
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":       handler.newUserView(&user),
		"token":      token,
		"expires_at": handler.formatMoment(expiresAt),
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

// ForgotPassword trades a recovery code for a short-lived reset token.
func (handler *Handler) ForgotPassword(c *fiber.Ctx) error {
	now := handler.currentTime()
	limiterKey := requestLimiterKey(c)
	if handler.authLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many attempts")
	}

	input := forgotPasswordInput{}
	if err := parseBody(c, &input); err != nil {
		handler.authLimiter.fail(limiterKey, now)
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	user, err := handler.authService.FindUserByRecoveryCode(input.RecoveryCode)
	if err != nil {
		if errors.Is(err, services.ErrAuthRecoveryCodeInvalid) || errors.Is(err, services.ErrRecoveryCodeNotFound) {
			handler.authLimiter.fail(limiterKey, now)
		}
		return handler.respondError(c, err)
	}

	token, err := services.BuildPasswordResetToken(handler.secretKey, user.ID, user.PasswordHash, 0, now)
	if err != nil {
		return handler.respondError(c, err)
	}
	handler.authLimiter.reset(limiterKey)
	return c.JSON(fiber.Map{"reset_token": token})
}

func (handler *Handler) ResetPassword(c *fiber.Ctx) error {
	input := resetPasswordInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	claims, err := services.ParsePasswordResetToken(handler.secretKey, input.Token, handler.now())
	if err != nil {
		return handler.respondError(c, err)
	}
	recoveryCode, err := handler.authService.ResetPassword(claims, input.Password, input.ConfirmPassword)
	if err != nil {
		return handler.respondError(c, err)
	}

	handler.clearAuthCookie(c)
	handler.logger.Info("password reset", zapUserID(claims.UserID))
	return c.JSON(fiber.Map{"ok": true, "recovery_code": recoveryCode})
}

func (handler *Handler) PasswordStrength(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"strength": services.ClassifyPasswordStrength(c.Query("password"))})
}

func (handler *Handler) startSession(c *fiber.Ctx, user *models.User, rememberMe bool) (string, time.Time, error) {
	ttl := services.DefaultSessionTTL
	if rememberMe {
		ttl = services.RememberSessionTTL
	}
	token, expiresAt, err := services.BuildSessionToken(handler.secretKey, user.ID, ttl, handler.now())
	if err != nil {
		return "", time.Time{}, err
	}
	handler.setAuthCookie(c, token, expiresAt)
	return token, expiresAt, nil
}
