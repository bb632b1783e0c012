package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cradle/internal/advisor"
	"github.com/terraincognita07/cradle/internal/models"
	"github.com/terraincognita07/cradle/internal/services"
	"go.uber.org/zap"
)

type advisorChatInput struct {
	Topic      string         `json:"topic"`
	Transcript []advisor.Turn `json:"transcript"`
	Message    string         `json:"message"`
}

// AdvisorChat relays one turn to the guide. The transcript lives on the
// client; nothing is stored here.
func (handler *Handler) AdvisorChat(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !handler.advisor.Enabled() {
		return handler.respondError(c, advisor.ErrUnavailable)
	}

	input := advisorChatInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	reply, err := handler.advisor.Chat(c.UserContext(), advisor.Request{
		Topic:      input.Topic,
		Transcript: input.Transcript,
		Message:    input.Message,
		Profile:    handler.advisorProfile(user),
	})
	if err != nil {
		return handler.respondError(c, err)
	}
	return c.JSON(reply)
}

// advisorProfile gathers what the guide may know about the user. Lookups
// that fail only leave facts out.
func (handler *Handler) advisorProfile(user *models.User) advisor.ProfileContext {
	now := handler.currentTime()
	profile := advisor.ProfileContext{DisplayName: user.DisplayName}

	if prediction, ok := services.PredictionForUser(user, now, handler.location); ok {
		profile.CycleDay = prediction.CurrentCycleDay
		profile.CyclePhase = prediction.CurrentPhase
		profile.DaysUntilPeriod = prediction.DaysUntilNextPeriod
	}

	if summary, err := handler.pregnancyService.Summary(user, now, handler.location); err != nil {
		handler.logger.Debug("advisor context: pregnancy summary unavailable", zap.Error(err))
	} else if summary.GestationalAge != nil {
		profile.GestationalWeeks = summary.GestationalAge.Weeks
	}

	if baby, err := handler.newbornService.Profile(user.ID, now, handler.location); err == nil {
		profile.HasBaby = true
		profile.BabyName = baby.Baby.Name
		profile.BabyAgeMonths = baby.AgeMonths
	}
	return profile
}
