package services

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/terraincognita07/cradle/internal/models"
)

type stubCycleDayRepo struct {
	days map[string]models.CycleDay
}

func newStubCycleDayRepo() *stubCycleDayRepo {
	return &stubCycleDayRepo{days: map[string]models.CycleDay{}}
}

func (stub *stubCycleDayRepo) sorted(filter func(models.CycleDay) bool) []models.CycleDay {
	result := make([]models.CycleDay, 0, len(stub.days))
	for _, day := range stub.days {
		if filter(day) {
			result = append(result, day)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result
}

func (stub *stubCycleDayRepo) ListByUserRange(_ uint, fromStart time.Time, toEnd time.Time) ([]models.CycleDay, error) {
	return stub.sorted(func(day models.CycleDay) bool {
		return !day.Date.Before(fromStart) && day.Date.Before(toEnd)
	}), nil
}

func (stub *stubCycleDayRepo) ListPeriodDays(uint) ([]models.CycleDay, error) {
	return stub.sorted(func(day models.CycleDay) bool { return day.Marking == models.MarkingPeriod }), nil
}

func (stub *stubCycleDayRepo) Upsert(userID uint, day time.Time, marking string) (models.CycleDay, error) {
	entry := models.CycleDay{UserID: userID, Date: day, Marking: marking}
	stub.days[FormatDay(day)] = entry
	return entry, nil
}

func (stub *stubCycleDayRepo) Delete(_ uint, day time.Time) (bool, error) {
	key := FormatDay(day)
	_, ok := stub.days[key]
	delete(stub.days, key)
	return ok, nil
}

type stubCycleUserRepo struct {
	updates []map[string]any
}

func (stub *stubCycleUserRepo) UpdateByID(_ uint, updates map[string]any) error {
	stub.updates = append(stub.updates, updates)
	return nil
}

var cycleTestNow = time.Date(2026, time.March, 25, 8, 0, 0, 0, time.UTC)

func TestCycleServiceSetMarkingValidates(t *testing.T) {
	service := NewCycleService(newStubCycleDayRepo(), &stubCycleUserRepo{})
	user := &models.User{ID: 1}

	if _, err := service.SetMarking(user, mustParseDay("2026-03-20"), "spotting", cycleTestNow, time.UTC); !errors.Is(err, ErrInvalidMarking) {
		t.Fatalf("expected ErrInvalidMarking, got %v", err)
	}
	if _, err := service.SetMarking(user, mustParseDay("2026-03-26"), "period", cycleTestNow, time.UTC); !errors.Is(err, ErrCycleDayInFuture) {
		t.Fatalf("expected ErrCycleDayInFuture, got %v", err)
	}
}

func TestCycleServicePeriodAfterGapMovesLastPeriodStart(t *testing.T) {
	days := newStubCycleDayRepo()
	users := &stubCycleUserRepo{}
	service := NewCycleService(days, users)
	lastPeriod := mustParseDay("2026-02-20")
	user := &models.User{ID: 1, LastPeriodStart: &lastPeriod, CycleLength: 28, PeriodLength: 5}
	for _, raw := range []string{"2026-02-20", "2026-02-21", "2026-02-22"} {
		days.days[raw] = makePeriodDay(raw)
	}

	if _, err := service.SetMarking(user, mustParseDay("2026-02-24"), "period", cycleTestNow, time.UTC); err != nil {
		t.Fatalf("SetMarking() unexpected error: %v", err)
	}
	if len(users.updates) != 0 {
		t.Fatalf("a period day inside the current run must not move the anchor")
	}

	if _, err := service.SetMarking(user, mustParseDay("2026-03-19"), " PERIOD ", cycleTestNow, time.UTC); err != nil {
		t.Fatalf("SetMarking() unexpected error: %v", err)
	}
	if len(users.updates) != 1 || FormatDay(*user.LastPeriodStart) != "2026-03-19" {
		t.Fatalf("expected last period start 2026-03-19, got %s after %d updates", FormatDay(*user.LastPeriodStart), len(users.updates))
	}

	if err := service.DeleteMarking(user, mustParseDay("2026-03-19"), time.UTC); err != nil {
		t.Fatalf("DeleteMarking() unexpected error: %v", err)
	}
	if FormatDay(*user.LastPeriodStart) != "2026-02-20" {
		t.Fatalf("expected anchor to fall back to 2026-02-20, got %s", FormatDay(*user.LastPeriodStart))
	}
	if err := service.DeleteMarking(user, mustParseDay("2026-03-19"), time.UTC); !errors.Is(err, ErrCycleDayNotFound) {
		t.Fatalf("expected ErrCycleDayNotFound, got %v", err)
	}
}

func TestCycleServiceSummaryAndMonth(t *testing.T) {
	days := newStubCycleDayRepo()
	service := NewCycleService(days, &stubCycleUserRepo{})
	for _, raw := range []string{"2026-01-01", "2026-01-29", "2026-02-26", "2026-03-25"} {
		days.days[raw] = makePeriodDay(raw)
	}
	lastPeriod := mustParseDay("2026-03-25")
	user := &models.User{ID: 1, LastPeriodStart: &lastPeriod, CycleLength: 28, PeriodLength: 5}

	summary, err := service.Summary(user, cycleTestNow, time.UTC)
	if err != nil {
		t.Fatalf("Summary() unexpected error: %v", err)
	}
	if summary.Regularity.Status != RegularityRegular {
		t.Fatalf("expected regular cycles, got %+v", summary.Regularity)
	}
	if summary.Prediction == nil || FormatDay(summary.Prediction.NextPeriodStart) != "2026-04-22" {
		t.Fatalf("unexpected prediction %+v", summary.Prediction)
	}

	month, err := ParseMonth("2026-03", time.UTC)
	if err != nil {
		t.Fatalf("ParseMonth() unexpected error: %v", err)
	}
	markings, err := service.MonthMarkings(user, month, time.UTC)
	if err != nil {
		t.Fatalf("MonthMarkings() unexpected error: %v", err)
	}
	if len(markings) != 31 {
		t.Fatalf("expected 31 markings, got %d", len(markings))
	}
	if markings[24].Marking != models.MarkingPeriod || markings[24].Source != models.MarkingSourceManual {
		t.Fatalf("expected manual period on 2026-03-25, got %+v", markings[24])
	}
	if markings[25].Marking != models.MarkingPeriod || markings[25].Source != models.MarkingSourceDerived {
		t.Fatalf("expected derived period on 2026-03-26, got %+v", markings[25])
	}
	if _, err := ParseMonth("2026-13", time.UTC); !errors.Is(err, ErrInvalidMonth) {
		t.Fatalf("expected ErrInvalidMonth, got %v", err)
	}
}

func TestCycleServiceSummaryWithoutAnchor(t *testing.T) {
	service := NewCycleService(newStubCycleDayRepo(), &stubCycleUserRepo{})
	summary, err := service.Summary(&models.User{ID: 1}, cycleTestNow, time.UTC)
	if err != nil {
		t.Fatalf("Summary() unexpected error: %v", err)
	}
	if summary.Prediction != nil || summary.Regularity.Status != RegularityUnknown {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
}

func TestCycleServiceReplacingAnchorDayRecomputesLastPeriod(t *testing.T) {
	days := newStubCycleDayRepo()
	users := &stubCycleUserRepo{}
	service := NewCycleService(days, users)
	anchor := mustParseDay("2026-03-12")
	user := &models.User{ID: 1, LastPeriodStart: &anchor, CycleLength: 28, PeriodLength: 5}
	for _, raw := range []string{"2026-02-20", "2026-02-21", "2026-03-12", "2026-03-13"} {
		days.days[raw] = makePeriodDay(raw)
	}

	if _, err := service.SetMarking(user, mustParseDay("2026-03-12"), "fertile", cycleTestNow, time.UTC); err != nil {
		t.Fatalf("SetMarking() unexpected error: %v", err)
	}
	if FormatDay(*user.LastPeriodStart) != "2026-03-13" {
		t.Fatalf("expected anchor 2026-03-13, got %s", FormatDay(*user.LastPeriodStart))
	}

	if err := service.DeleteMarking(user, mustParseDay("2026-03-13"), time.UTC); err != nil {
		t.Fatalf("DeleteMarking() unexpected error: %v", err)
	}
	if FormatDay(*user.LastPeriodStart) != "2026-02-20" {
		t.Fatalf("expected anchor 2026-02-20, got %s", FormatDay(*user.LastPeriodStart))
	}
}

func TestCycleServiceKeepsProfileAnchorWhenOlderDaysChange(t *testing.T) {
	days := newStubCycleDayRepo()
	users := &stubCycleUserRepo{}
	service := NewCycleService(days, users)
	anchor := mustParseDay("2026-03-10")
	user := &models.User{ID: 1, LastPeriodStart: &anchor, CycleLength: 28, PeriodLength: 5}
	for _, raw := range []string{"2026-02-10", "2026-02-11"} {
		days.days[raw] = makePeriodDay(raw)
	}

	if _, err := service.SetMarking(user, mustParseDay("2026-02-11"), "none", cycleTestNow, time.UTC); err != nil {
		t.Fatalf("SetMarking() unexpected error: %v", err)
	}
	if err := service.DeleteMarking(user, mustParseDay("2026-02-10"), time.UTC); err != nil {
		t.Fatalf("DeleteMarking() unexpected error: %v", err)
	}
	if len(users.updates) != 0 || FormatDay(*user.LastPeriodStart) != "2026-03-10" {
		t.Fatalf("expected profile anchor to stay, got %s after %d updates", FormatDay(*user.LastPeriodStart), len(users.updates))
	}
}
