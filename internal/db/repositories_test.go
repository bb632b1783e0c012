package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/cradle/internal/models"
)

func newTestRepositories(t *testing.T) *Repositories {
	t.Helper()
	return NewRepositories(openSQLiteForTest(t, filepath.Join(t.TempDir(), "cradle-repos.db")))
}

func createTestUser(t *testing.T, repos *Repositories, email string) models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		PasswordHash: "hash",
		CycleLength:  models.DefaultCycleLength,
		PeriodLength: models.DefaultPeriodLength,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repos.Users.Create(&user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestUserRepositoryFindsByNormalizedEmail(t *testing.T) {
	repos := newTestRepositories(t)
	created := createTestUser(t, repos, "Mother@Example.com")

	found, err := repos.Users.FindByNormalizedEmail("mother@example.com")
	if err != nil {
		t.Fatalf("FindByNormalizedEmail() error = %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("expected user %d, got %d", created.ID, found.ID)
	}

	exists, err := repos.Users.ExistsByNormalizedEmail("mother@example.com")
	if err != nil || !exists {
		t.Fatalf("ExistsByNormalizedEmail() = %v, %v; want true, nil", exists, err)
	}
}

func TestCompleteOnboardingMarksFirstPeriod(t *testing.T) {
	repos := newTestRepositories(t)
	user := createTestUser(t, repos, "onboard@example.com")
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	if err := repos.Users.CompleteOnboarding(user.ID, start, 4); err != nil {
		t.Fatalf("CompleteOnboarding() error = %v", err)
	}

	reloaded, err := repos.Users.FindByID(user.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if !reloaded.OnboardingCompleted {
		t.Fatal("expected onboarding_completed to be set")
	}
	if reloaded.LastPeriodStart == nil || !reloaded.LastPeriodStart.Equal(start) {
		t.Fatalf("expected last period start %s, got %v", start, reloaded.LastPeriodStart)
	}

	days, err := repos.CycleDays.ListPeriodDays(user.ID)
	if err != nil {
		t.Fatalf("ListPeriodDays() error = %v", err)
	}
	if len(days) != 4 {
		t.Fatalf("expected 4 period days, got %d", len(days))
	}
}

func TestCycleDayUpsertIsLastWriteWins(t *testing.T) {
	repos := newTestRepositories(t)
	user := createTestUser(t, repos, "cycle@example.com")
	day := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)

	if _, err := repos.CycleDays.Upsert(user.ID, day, models.MarkingFertile); err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}
	stored, err := repos.CycleDays.Upsert(user.ID, day, models.MarkingOvulation)
	if err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}
	if stored.Marking != models.MarkingOvulation {
		t.Fatalf("expected marking ovulation, got %q", stored.Marking)
	}

	days, err := repos.CycleDays.ListByUserRange(user.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListByUserRange() error = %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected exactly one stored day, got %d", len(days))
	}

	deleted, err := repos.CycleDays.Delete(user.ID, day)
	if err != nil || !deleted {
		t.Fatalf("Delete() = %v, %v; want true, nil", deleted, err)
	}
}

func TestCycleDayMatchesCalendarDayAcrossZones(t *testing.T) {
	repos := newTestRepositories(t)
	user := createTestUser(t, repos, "zones@example.com")
	earlier := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.FixedZone("UTC+5", 5*60*60))
	if err := repos.CycleDays.database.Create(&models.CycleDay{UserID: user.ID, Date: earlier, Marking: models.MarkingPeriod}).Error; err != nil {
		t.Fatalf("seed cycle day: %v", err)
	}

	day := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)
	stored, err := repos.CycleDays.Upsert(user.ID, day, models.MarkingNone)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if stored.Marking != models.MarkingNone || !stored.Date.Equal(day) {
		t.Fatalf("unexpected stored day %+v", stored)
	}

	var count int64
	if err := repos.CycleDays.database.Model(&models.CycleDay{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count cycle days: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected the existing row to be updated, found %d rows", count)
	}

	deleted, err := repos.CycleDays.Delete(user.ID, day)
	if err != nil || !deleted {
		t.Fatalf("Delete() = %v, %v; want true, nil", deleted, err)
	}
}

func TestDeleteOwnedRecordRespectsOwner(t *testing.T) {
	repos := newTestRepositories(t)
	owner := createTestUser(t, repos, "owner@example.com")
	other := createTestUser(t, repos, "other@example.com")

	test := models.PregnancyTest{
		ID:      uuid.NewString(),
		UserID:  owner.ID,
		TakenAt: time.Now().UTC(),
		Result:  models.TestResultNegative,
	}
	if err := repos.Pregnancy.CreateTest(&test); err != nil {
		t.Fatalf("CreateTest() error = %v", err)
	}

	deleted, err := repos.Pregnancy.DeleteTest(other.ID, test.ID)
	if err != nil {
		t.Fatalf("DeleteTest() error = %v", err)
	}
	if deleted {
		t.Fatal("expected delete by another user to affect nothing")
	}

	deleted, err = repos.Pregnancy.DeleteTest(owner.ID, test.ID)
	if err != nil || !deleted {
		t.Fatalf("DeleteTest() by owner = %v, %v; want true, nil", deleted, err)
	}
}

func TestPreferenceUpsertOverwritesValue(t *testing.T) {
	repos := newTestRepositories(t)
	user := createTestUser(t, repos, "prefs@example.com")

	for _, value := range []string{"metric", "imperial"} {
		if err := repos.Preferences.Upsert(&models.Preference{UserID: user.ID, Key: "units", Value: value}); err != nil {
			t.Fatalf("Upsert(%q) error = %v", value, err)
		}
	}

	preferences, err := repos.Preferences.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(preferences) != 1 || preferences[0].Value != "imperial" {
		t.Fatalf("expected single overwritten preference, got %+v", preferences)
	}
}

func TestDeleteAccountRemovesOwnedData(t *testing.T) {
	repos := newTestRepositories(t)
	user := createTestUser(t, repos, "gone@example.com")

	baby := models.Baby{UserID: user.ID, Name: "Ada", BirthDate: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)}
	if err := repos.Newborn.SaveBaby(&baby); err != nil {
		t.Fatalf("SaveBaby() error = %v", err)
	}
	feeding := models.FeedingLog{ID: uuid.NewString(), UserID: user.ID, Kind: models.FeedingBottle, AmountML: 90, FedAt: time.Now().UTC()}
	if err := repos.Newborn.CreateFeeding(&feeding); err != nil {
		t.Fatalf("CreateFeeding() error = %v", err)
	}

	if err := repos.Users.DeleteAccountAndRelatedData(user.ID); err != nil {
		t.Fatalf("DeleteAccountAndRelatedData() error = %v", err)
	}

	if _, found, err := repos.Newborn.FindBaby(user.ID); err != nil || found {
		t.Fatalf("FindBaby() after delete = found %v, err %v", found, err)
	}
	feedings, err := repos.Newborn.ListFeedings(user.ID)
	if err != nil || len(feedings) != 0 {
		t.Fatalf("ListFeedings() after delete = %d entries, err %v", len(feedings), err)
	}
}
