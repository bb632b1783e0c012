package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/cradle/internal/db"
	"github.com/terraincognita07/cradle/internal/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func openResetTestDB(t *testing.T) (*gorm.DB, *services.AuthService) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "cradle-cli-test.db"), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	authService := services.NewAuthService(db.NewRepositories(database).Users).WithHashCost(bcrypt.MinCost)
	if _, _, err := authService.Register("mom@example.com", "StrongPass1", "StrongPass1", time.Now()); err != nil {
		t.Fatalf("register user: %v", err)
	}
	return database, authService
}

func scriptedPasswords(values ...string) func(string) (string, error) {
	return func(string) (string, error) {
		if len(values) == 0 {
			return "", errors.New("no more input")
		}
		next := values[0]
		values = values[1:]
		return next, nil
	}
}

func TestResetPasswordIssuesTemporaryPassword(t *testing.T) {
	t.Parallel()

	database, authService := openResetTestDB(t)
	out := &bytes.Buffer{}
	if err := RunResetPasswordCommand(database, ResetOptions{Email: " MOM@example.com ", HashCost: bcrypt.MinCost, Out: out}); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	temporary := ""
	for _, line := range strings.Split(out.String(), "\n") {
		if value, found := strings.CutPrefix(line, "Temporary password: "); found {
			temporary = value
		}
	}
	if temporary == "" {
		t.Fatalf("expected temporary password in output %q", out.String())
	}

	user, err := authService.Authenticate("mom@example.com", temporary)
	if !errors.Is(err, services.ErrAuthPasswordChangeNeeded) {
		t.Fatalf("expected forced password change, got %v", err)
	}
	if !user.MustChangePassword {
		t.Fatal("expected must_change_password to be set")
	}
	if _, err := authService.Authenticate("mom@example.com", "StrongPass1"); !errors.Is(err, services.ErrAuthInvalidCredentials) {
		t.Fatalf("expected old password to stop working, got %v", err)
	}
}

func TestResetPasswordWithPrompt(t *testing.T) {
	t.Parallel()

	database, authService := openResetTestDB(t)
	options := ResetOptions{
		Email:        "mom@example.com",
		Prompt:       true,
		HashCost:     bcrypt.MinCost,
		Out:          &bytes.Buffer{},
		ReadPassword: scriptedPasswords("NewStrong2", "NewStrong2"),
	}
	if err := RunResetPasswordCommand(database, options); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if _, err := authService.Authenticate("mom@example.com", "NewStrong2"); err != nil {
		t.Fatalf("expected prompted password to be usable, got %v", err)
	}
}

func TestResetPasswordRejectsBadInput(t *testing.T) {
	t.Parallel()

	database, _ := openResetTestDB(t)
	cases := []struct {
		name    string
		options ResetOptions
		want    string
	}{
		{"missing email", ResetOptions{}, "email is required"},
		{"malformed email", ResetOptions{Email: "not-an-email"}, "invalid email address"},
		{"unknown user", ResetOptions{Email: "nobody@example.com"}, "not found"},
		{"mismatch", ResetOptions{Email: "mom@example.com", Prompt: true, ReadPassword: scriptedPasswords("NewStrong2", "NewStrong3")}, "do not match"},
		{"weak", ResetOptions{Email: "mom@example.com", Prompt: true, ReadPassword: scriptedPasswords("short", "short")}, "password rejected"},
	}
	for _, testCase := range cases {
		testCase.options.Out = &bytes.Buffer{}
		testCase.options.HashCost = bcrypt.MinCost
		err := RunResetPasswordCommand(database, testCase.options)
		if err == nil || !strings.Contains(err.Error(), testCase.want) {
			t.Fatalf("%s: expected error containing %q, got %v", testCase.name, testCase.want, err)
		}
	}
}
