package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/forgot-password", handler.ForgotPassword)
	auth.Post("/reset-password", handler.ResetPassword)
	auth.Post("/logout", handler.Logout)
	auth.Get("/password-strength", handler.PasswordStrength)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Post("/change-password", handler.ChangePassword)
	settings.Post("/regenerate-recovery-code", handler.RegenerateRecoveryCode)
	settings.Delete("/account", handler.DeleteAccount)

	profile := api.Group("/profile", handler.AuthRequired)
	profile.Get("", handler.GetProfile)
	profile.Put("", handler.UpdateProfile)
	profile.Post("/complete", handler.CompleteProfile)

	preferences := api.Group("/preferences", handler.AuthRequired)
	preferences.Get("", handler.ListPreferences)
	preferences.Put("/:key", handler.SetPreference)
	preferences.Delete("/:key", handler.DeletePreference)

	cycle := api.Group("/cycle", handler.AuthRequired, handler.OnboardingRequired)
	cycle.Get("/summary", handler.CycleSummary)
	cycle.Get("/days", handler.CycleDays)
	cycle.Put("/days/:date", handler.SetCycleDay)
	cycle.Delete("/days/:date", handler.DeleteCycleDay)

	tests := api.Group("/pregnancy-tests", handler.AuthRequired, handler.OnboardingRequired)
	tests.Get("", handler.ListPregnancyTests)
	tests.Post("", handler.CreatePregnancyTest)
	tests.Get("/summary", handler.PregnancySummary)
	tests.Get("/:id", handler.GetPregnancyTest)
	tests.Put("/:id", handler.UpdatePregnancyTest)
	tests.Delete("/:id", handler.DeletePregnancyTest)

	attempts := api.Group("/conception-attempts", handler.AuthRequired, handler.OnboardingRequired)
	attempts.Get("", handler.ListConceptionAttempts)
	attempts.Post("", handler.CreateConceptionAttempt)
	attempts.Delete("/:id", handler.DeleteConceptionAttempt)

	newborn := api.Group("/newborn", handler.AuthRequired, handler.OnboardingRequired)
	newborn.Get("", handler.GetNewborn)
	newborn.Put("", handler.SaveNewborn)
	newborn.Get("/feedings", handler.ListFeedings)
	newborn.Post("/feedings", handler.CreateFeeding)
	newborn.Delete("/feedings/:id", handler.DeleteFeeding)
	newborn.Get("/vaccinations/upcoming", handler.UpcomingVaccinations)
	newborn.Get("/vaccinations", handler.ListVaccinations)
	newborn.Post("/vaccinations", handler.CreateVaccination)
	newborn.Delete("/vaccinations/:id", handler.DeleteVaccination)
	newborn.Get("/growth", handler.ListGrowth)
	newborn.Post("/growth", handler.CreateGrowth)
	newborn.Delete("/growth/:id", handler.DeleteGrowth)

	api.Post("/advisor/chat", handler.AuthRequired, handler.OnboardingRequired, handler.AdvisorChat)

	vitals := api.Group("/vitals", handler.AuthRequired, handler.OnboardingRequired)
	vitals.Get("", handler.Vitals)
	vitals.Get("/:metric/series", handler.VitalsSeries)
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// NotFound is the terminal handler for unmatched routes.
func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, "not found")
}
