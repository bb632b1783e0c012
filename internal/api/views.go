package api

import (
	"time"

	"github.com/terraincognita07/cradle/internal/models"
	"github.com/terraincognita07/cradle/internal/services"
)

// Date-only columns are rendered as YYYY-MM-DD, timestamps as RFC 3339 in
// the server time zone.

type userView struct {
	ID                  uint    `json:"id"`
	Email               string  `json:"email"`
	DisplayName         string  `json:"display_name"`
	Age                 int     `json:"age"`
	Phone               string  `json:"phone"`
	PartnerName         string  `json:"partner_name"`
	LastPeriodStart     *string `json:"last_period_start"`
	CycleLength         int     `json:"cycle_length"`
	PeriodLength        int     `json:"period_length"`
	OnboardingCompleted bool    `json:"onboarding_completed"`
	MustChangePassword  bool    `json:"must_change_password"`
	CreatedAt           string  `json:"created_at"`
}

type predictionView struct {
	LastPeriodStart     string  `json:"last_period_start"`
	CurrentCycleStart   string  `json:"current_cycle_start"`
	NextPeriodStart     string  `json:"next_period_start"`
	OvulationCalculable bool    `json:"ovulation_calculable"`
	OvulationDate       *string `json:"ovulation_date"`
	FertileWindowStart  *string `json:"fertile_window_start"`
	FertileWindowEnd    *string `json:"fertile_window_end"`
	DaysUntilNextPeriod int     `json:"days_until_next_period"`
	CurrentCycleDay     int     `json:"current_cycle_day"`
	CurrentPhase        string  `json:"current_phase"`
	CycleLength         int     `json:"cycle_length"`
	PeriodLength        int     `json:"period_length"`
}

type cycleSummaryView struct {
	Prediction *predictionView          `json:"prediction"`
	Regularity services.CycleRegularity `json:"regularity"`
}

type dayMarkingView struct {
	Date    string `json:"date"`
	Marking string `json:"marking"`
	Source  string `json:"source"`
}

type pregnancyTestView struct {
	ID        string `json:"id"`
	TakenAt   string `json:"taken_at"`
	Result    string `json:"result"`
	Brand     string `json:"brand"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
}

type pregnancySummaryView struct {
	LatestResult   *string                  `json:"latest_result"`
	LatestTakenAt  *string                  `json:"latest_taken_at"`
	CountByResult  map[string]int           `json:"count_by_result"`
	DueDate        *string                  `json:"due_date"`
	GestationalAge *services.GestationalAge `json:"gestational_age"`
}

type conceptionAttemptView struct {
	ID              string `json:"id"`
	OccurredAt      string `json:"occurred_at"`
	InFertileWindow bool   `json:"in_fertile_window"`
	Notes           string `json:"notes"`
	CreatedAt       string `json:"created_at"`
}

type babyView struct {
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Sex       string `json:"sex"`
	AgeMonths int    `json:"age_months"`
	AgeDays   int    `json:"age_days"`
}

type feedingView struct {
	ID              string `json:"id"`
	Kind            string `json:"kind"`
	AmountML        int    `json:"amount_ml"`
	DurationMinutes int    `json:"duration_minutes"`
	FedAt           string `json:"fed_at"`
	Notes           string `json:"notes"`
}

type vaccinationView struct {
	ID        string  `json:"id"`
	Vaccine   string  `json:"vaccine"`
	Dose      string  `json:"dose"`
	GivenAt   string  `json:"given_at"`
	NextDueAt *string `json:"next_due_at"`
}

type growthView struct {
	ID         string  `json:"id"`
	MeasuredAt string  `json:"measured_at"`
	WeightKG   float64 `json:"weight_kg"`
	LengthCM   float64 `json:"length_cm"`
	HeadCM     float64 `json:"head_cm"`
}

type preferenceView struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt string `json:"updated_at"`
}

func (handler *Handler) formatMoment(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.In(handler.location).Format(time.RFC3339)
}

func optionalDay(value *time.Time) *string {
	if value == nil || value.IsZero() {
		return nil
	}
	formatted := services.FormatDay(*value)
	return &formatted
}

func (handler *Handler) newUserView(user *models.User) userView {
	return userView{
		ID:                  user.ID,
		Email:               user.Email,
		DisplayName:         user.DisplayName,
		Age:                 user.Age,
		Phone:               user.Phone,
		PartnerName:         user.PartnerName,
		LastPeriodStart:     optionalDay(user.LastPeriodStart),
		CycleLength:         user.CycleLength,
		PeriodLength:        user.PeriodLength,
		OnboardingCompleted: user.OnboardingCompleted,
		MustChangePassword:  user.MustChangePassword,
		CreatedAt:           handler.formatMoment(user.CreatedAt),
	}
}

func newPredictionView(prediction *services.CyclePrediction) *predictionView {
	if prediction == nil {
		return nil
	}
	view := &predictionView{
		LastPeriodStart:     services.FormatDay(prediction.LastPeriodStart),
		CurrentCycleStart:   services.FormatDay(prediction.CurrentCycleStart),
		NextPeriodStart:     services.FormatDay(prediction.NextPeriodStart),
		OvulationCalculable: prediction.OvulationCalculable,
		DaysUntilNextPeriod: prediction.DaysUntilNextPeriod,
		CurrentCycleDay:     prediction.CurrentCycleDay,
		CurrentPhase:        prediction.CurrentPhase,
		CycleLength:         prediction.CycleLength,
		PeriodLength:        prediction.PeriodLength,
	}
	if prediction.OvulationCalculable {
		view.OvulationDate = optionalDay(&prediction.OvulationDate)
		view.FertileWindowStart = optionalDay(&prediction.FertileWindowStart)
		view.FertileWindowEnd = optionalDay(&prediction.FertileWindowEnd)
	}
	return view
}

func newCycleSummaryView(summary services.CycleSummary) cycleSummaryView {
	return cycleSummaryView{Prediction: newPredictionView(summary.Prediction), Regularity: summary.Regularity}
}

func newDayMarkingViews(markings []services.DayMarking) []dayMarkingView {
	views := make([]dayMarkingView, 0, len(markings))
	for _, marking := range markings {
		views = append(views, dayMarkingView{
			Date:    services.FormatDay(marking.Date),
			Marking: marking.Marking,
			Source:  marking.Source,
		})
	}
	return views
}

func (handler *Handler) newPregnancyTestView(test models.PregnancyTest) pregnancyTestView {
	return pregnancyTestView{
		ID:        test.ID,
		TakenAt:   handler.formatMoment(test.TakenAt),
		Result:    test.Result,
		Brand:     test.Brand,
		Notes:     test.Notes,
		CreatedAt: handler.formatMoment(test.CreatedAt),
	}
}

func (handler *Handler) newPregnancySummaryView(summary services.PregnancySummary) pregnancySummaryView {
	view := pregnancySummaryView{
		CountByResult:  summary.CountByResult,
		DueDate:        optionalDay(summary.DueDate),
		GestationalAge: summary.GestationalAge,
	}
	if view.CountByResult == nil {
		view.CountByResult = map[string]int{}
	}
	if summary.LatestResult != "" {
		result := summary.LatestResult
		view.LatestResult = &result
	}
	if summary.LatestTakenAt != nil {
		takenAt := handler.formatMoment(*summary.LatestTakenAt)
		view.LatestTakenAt = &takenAt
	}
	return view
}

func (handler *Handler) newConceptionAttemptView(attempt models.ConceptionAttempt) conceptionAttemptView {
	return conceptionAttemptView{
		ID:              attempt.ID,
		OccurredAt:      handler.formatMoment(attempt.OccurredAt),
		InFertileWindow: attempt.InFertileWindow,
		Notes:           attempt.Notes,
		CreatedAt:       handler.formatMoment(attempt.CreatedAt),
	}
}

func newBabyView(profile services.BabyProfile) babyView {
	return babyView{
		Name:      profile.Baby.Name,
		BirthDate: services.FormatDay(profile.Baby.BirthDate),
		Sex:       profile.Baby.Sex,
		AgeMonths: profile.AgeMonths,
		AgeDays:   profile.AgeDays,
	}
}

func (handler *Handler) newFeedingView(entry models.FeedingLog) feedingView {
	return feedingView{
		ID:              entry.ID,
		Kind:            entry.Kind,
		AmountML:        entry.AmountML,
		DurationMinutes: entry.DurationMinutes,
		FedAt:           handler.formatMoment(entry.FedAt),
		Notes:           entry.Notes,
	}
}

func (handler *Handler) newVaccinationView(entry models.VaccinationLog) vaccinationView {
	view := vaccinationView{
		ID:      entry.ID,
		Vaccine: entry.Vaccine,
		Dose:    entry.Dose,
		GivenAt: handler.formatMoment(entry.GivenAt),
	}
	if entry.NextDueAt != nil {
		nextDue := handler.formatMoment(*entry.NextDueAt)
		view.NextDueAt = &nextDue
	}
	return view
}

func (handler *Handler) newGrowthView(entry models.GrowthLog) growthView {
	return growthView{
		ID:         entry.ID,
		MeasuredAt: handler.formatMoment(entry.MeasuredAt),
		WeightKG:   entry.WeightKG,
		LengthCM:   entry.LengthCM,
		HeadCM:     entry.HeadCM,
	}
}

func (handler *Handler) newPreferenceView(preference models.Preference) preferenceView {
	return preferenceView{
		Key:       preference.Key,
		Value:     preference.Value,
		UpdatedAt: handler.formatMoment(preference.UpdatedAt),
	}
}

// mapViews converts a slice, returning an empty (not nil) slice.
func mapViews[T any, V any](items []T, convert func(T) V) []V {
	views := make([]V, 0, len(items))
	for _, item := range items {
		views = append(views, convert(item))
	}
	return views
}
