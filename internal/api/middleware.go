package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cradle/internal/models"
	"github.com/terraincognita07/cradle/internal/services"
)

const (
	authCookieName = "cradle_auth"
	contextUserKey = "current_user"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok && user != nil
}

// AuthRequired accepts a session token from the Authorization header or the
// auth cookie, in that order.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	c.Locals(contextUserKey, user)
	return c.Next()
}

// OnboardingRequired must run after AuthRequired.
func (handler *Handler) OnboardingRequired(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if err := services.RequireOnboarding(user); err != nil {
		return handler.respondError(c, err)
	}
	return c.Next()
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, error) {
	claims, err := services.ParseSessionToken(handler.secretKey, requestSessionToken(c), handler.now())
	if err != nil {
		return nil, err
	}
	user, err := handler.authService.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.MustChangePassword {
		return nil, errors.New("password change pending")
	}
	return &user, nil
}

func requestSessionToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(c.Cookies(authCookieName))
}

func (handler *Handler) setAuthCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(handler.sessionCookie(token, expiresAt))
}

func (handler *Handler) clearAuthCookie(c *fiber.Ctx) {
	cookie := handler.sessionCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	c.Cookie(cookie)
}

func (handler *Handler) sessionCookie(value string, expiresAt time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     authCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

func parseBody(c *fiber.Ctx, target any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(target)
}
