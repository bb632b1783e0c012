package api

import (
	"net/http"
	"testing"
)

func TestDomainRoutesRequireOnboarding(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	token, _ := ta.register(t, "gate@example.com")

	for _, path := range []string{"/api/cycle/summary", "/api/pregnancy-tests", "/api/newborn", "/api/vitals"} {
		payload := ta.expectStatus(t, http.MethodGet, path, token, nil, http.StatusForbidden)
		if payload["error"] != "onboarding required" {
			t.Fatalf("%s: expected onboarding required, got %v", path, payload)
		}
	}
	ta.expectStatus(t, http.MethodGet, "/api/preferences", token, nil, http.StatusOK)

	status, payload := ta.do(t, http.MethodPost, "/api/profile/complete", token, nil)
	if status != http.StatusBadRequest || payload["error"] != "complete profile first" {
		t.Fatalf("expected completion to need profile fields, got %d %v", status, payload)
	}
}

func TestProfileUpdateValidatesAndReportsCycle(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	token, _ := ta.register(t, "profile@example.com")

	cases := []struct {
		body map[string]any
		want string
	}{
		{map[string]any{"display_name": "", "age": 29, "cycle_length": 28, "period_length": 5}, "display name invalid"},
		{map[string]any{"display_name": "Ana", "age": 9, "cycle_length": 28, "period_length": 5}, "age out of range"},
		{map[string]any{"display_name": "Ana", "age": 29, "phone": "12", "cycle_length": 28, "period_length": 5}, "phone invalid"},
		{map[string]any{"display_name": "Ana", "age": 29, "cycle_length": 10, "period_length": 5}, "cycle length out of range"},
		{map[string]any{"display_name": "Ana", "age": 29, "cycle_length": 28, "period_length": 5, "last_period_start": "2026-03-16"}, "last period start invalid"},
		{map[string]any{"display_name": "Ana", "age": 29, "cycle_length": 28, "period_length": 5, "last_period_start": "2025-11-01"}, "last period start invalid"},
	}
	for _, testCase := range cases {
		status, payload := ta.do(t, http.MethodPut, "/api/profile", token, testCase.body)
		if status != http.StatusBadRequest || payload["error"] != testCase.want {
			t.Fatalf("expected 400 %q, got %d %v", testCase.want, status, payload)
		}
	}

	payload := ta.expectStatus(t, http.MethodPut, "/api/profile", token, map[string]any{
		"display_name":      "Ana",
		"age":               29,
		"phone":             "+1 (555) 010-2000",
		"partner_name":      "Sam",
		"last_period_start": "2026-03-01",
		"cycle_length":      28,
		"period_length":     5,
	}, http.StatusOK)
	profile := objectField(t, payload, "profile")
	if profile["last_period_start"] != "2026-03-01" || profile["partner_name"] != "Sam" {
		t.Fatalf("unexpected profile %v", profile)
	}
	cycle := objectField(t, payload, "cycle")
	if cycle["next_period_start"] != "2026-03-29" || cycle["days_until_next_period"] != float64(14) {
		t.Fatalf("unexpected cycle prediction %v", cycle)
	}

	completed := ta.expectStatus(t, http.MethodPost, "/api/profile/complete", token, nil, http.StatusOK)
	if completed["completed"] != true {
		t.Fatalf("expected completed profile, got %v", completed)
	}
}

func TestCycleSummaryAndMonthMarkings(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	token := ta.onboardedUser(t, "cycle@example.com")

	summary := ta.expectStatus(t, http.MethodGet, "/api/cycle/summary", token, nil, http.StatusOK)
	prediction := objectField(t, summary, "prediction")
	if prediction["next_period_start"] != "2026-03-29" || prediction["ovulation_date"] != "2026-03-15" {
		t.Fatalf("unexpected prediction %v", prediction)
	}
	if prediction["current_cycle_day"] != float64(15) {
		t.Fatalf("expected cycle day 15, got %v", prediction["current_cycle_day"])
	}
	if objectField(t, summary, "regularity")["status"] != "unknown" {
		t.Fatalf("expected unknown regularity with one cycle, got %v", summary["regularity"])
	}

	month := ta.expectStatus(t, http.MethodGet, "/api/cycle/days?month=2026-03", token, nil, http.StatusOK)
	days := listField(t, month, "days")
	if len(days) != 31 {
		t.Fatalf("expected 31 days in March, got %d", len(days))
	}
	first := days[0].(map[string]any)
	if first["date"] != "2026-03-01" || first["marking"] != "period" || first["source"] != "manual" {
		t.Fatalf("expected seeded manual period day, got %v", first)
	}
	projected := days[28].(map[string]any)
	if projected["date"] != "2026-03-29" || projected["marking"] != "period" || projected["source"] != "derived" {
		t.Fatalf("expected derived period on 2026-03-29, got %v", projected)
	}

	ta.expectStatus(t, http.MethodGet, "/api/cycle/days?month=March", token, nil, http.StatusBadRequest)
}

func TestCycleDayMarkingWrites(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	token := ta.onboardedUser(t, "marking@example.com")

	ta.expectStatus(t, http.MethodPut, "/api/cycle/days/2026-03-16", token, map[string]any{"marking": "period"}, http.StatusBadRequest)
	ta.expectStatus(t, http.MethodPut, "/api/cycle/days/2026-03-10", token, map[string]any{"marking": "spotting"}, http.StatusBadRequest)
	ta.expectStatus(t, http.MethodPut, "/api/cycle/days/03-10-2026", token, map[string]any{"marking": "none"}, http.StatusBadRequest)

	hidden := ta.expectStatus(t, http.MethodPut, "/api/cycle/days/2026-03-10", token, map[string]any{"marking": "none"}, http.StatusOK)
	if hidden["marking"] != "none" || hidden["source"] != "manual" {
		t.Fatalf("unexpected marking response %v", hidden)
	}
	ta.expectStatus(t, http.MethodDelete, "/api/cycle/days/2026-03-10", token, nil, http.StatusOK)
	ta.expectStatus(t, http.MethodDelete, "/api/cycle/days/2026-03-10", token, nil, http.StatusNotFound)

	moved := ta.expectStatus(t, http.MethodPut, "/api/cycle/days/2026-03-14", token, map[string]any{"marking": "period"}, http.StatusOK)
	if moved["last_period_start"] != "2026-03-14" {
		t.Fatalf("expected new cycle start to move last period, got %v", moved)
	}

	restored := ta.expectStatus(t, http.MethodDelete, "/api/cycle/days/2026-03-14", token, nil, http.StatusOK)
	if restored["last_period_start"] != "2026-03-01" {
		t.Fatalf("expected last period to fall back to 2026-03-01, got %v", restored)
	}
}

func TestCycleDayOverwritingAnchorRecomputesLastPeriod(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	token := ta.onboardedUser(t, "anchor@example.com")

	for _, day := range []string{"2026-03-12", "2026-03-13"} {
		payload := ta.expectStatus(t, http.MethodPut, "/api/cycle/days/"+day, token, map[string]any{"marking": "period"}, http.StatusOK)
		if payload["last_period_start"] != "2026-03-12" {
			t.Fatalf("expected run starting 2026-03-12, got %v", payload)
		}
	}

	cleared := ta.expectStatus(t, http.MethodPut, "/api/cycle/days/2026-03-12", token, map[string]any{"marking": "none"}, http.StatusOK)
	if cleared["last_period_start"] != "2026-03-13" {
		t.Fatalf("expected anchor to move to the remaining period day, got %v", cleared)
	}

	removed := ta.expectStatus(t, http.MethodDelete, "/api/cycle/days/2026-03-13", token, nil, http.StatusOK)
	if removed["last_period_start"] != "2026-03-01" {
		t.Fatalf("expected anchor back on the onboarding period, got %v", removed)
	}

	summary := ta.expectStatus(t, http.MethodGet, "/api/cycle/summary", token, nil, http.StatusOK)
	if prediction := objectField(t, summary, "prediction"); prediction["next_period_start"] != "2026-03-29" {
		t.Fatalf("expected prediction from 2026-03-01, got %v", prediction)
	}
}

func TestOnboardingSeedsPeriodOnlyUpToToday(t *testing.T) {
	t.Parallel()

	ta := newTestApp(t, nil)
	token, _ := ta.register(t, "recent@example.com")
	ta.expectStatus(t, http.MethodPut, "/api/profile", token, map[string]any{
		"display_name":      "Ana",
		"age":               31,
		"last_period_start": "2026-03-14",
		"cycle_length":      28,
		"period_length":     5,
	}, http.StatusOK)
	ta.expectStatus(t, http.MethodPost, "/api/profile/complete", token, nil, http.StatusOK)

	days := listField(t, ta.expectStatus(t, http.MethodGet, "/api/cycle/days?month=2026-03", token, nil, http.StatusOK), "days")
	for index, raw := range days {
		day := raw.(map[string]any)
		if index >= 15 && day["source"] == "manual" {
			t.Fatalf("expected no manual marking after today, got %v", day)
		}
	}
	if today := days[14].(map[string]any); today["marking"] != "period" || today["source"] != "manual" {
		t.Fatalf("expected today seeded as period, got %v", today)
	}
}
