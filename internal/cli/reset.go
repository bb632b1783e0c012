// Package cli holds operator commands that run against the database directly.
package cli

import (
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"

	"github.com/terraincognita07/cradle/internal/db"
	"github.com/terraincognita07/cradle/internal/security"
	"github.com/terraincognita07/cradle/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrPasswordsDiffer = errors.New("passwords do not match")

type ResetOptions struct {
	Email string
	// Prompt asks for the new password on the terminal instead of issuing a
	// temporary one.
	Prompt   bool
	HashCost int
	Out      io.Writer
	// ReadPassword overrides the no-echo terminal prompt.
	ReadPassword func(prompt string) (string, error)
	Logger       *zap.Logger
}

// RunResetPasswordCommand sets a new password for one account. A generated
// temporary password forces a change on next login; a prompted one does not.
func RunResetPasswordCommand(database *gorm.DB, options ResetOptions) error {
	normalizedEmail := services.NormalizeAuthEmail(options.Email)
	if normalizedEmail == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(normalizedEmail); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}
	out := options.Out
	if out == nil {
		out = os.Stdout
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	repositories := db.NewRepositories(database)
	user, err := repositories.Users.FindByNormalizedEmail(normalizedEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user %s not found", normalizedEmail)
		}
		return fmt.Errorf("load user: %w", err)
	}

	authService := services.NewAuthService(repositories.Users)
	if options.HashCost > 0 {
		authService = authService.WithHashCost(options.HashCost)
	}

	if options.Prompt {
		password, err := promptNewPassword(options.ReadPassword, out)
		if err != nil {
			return err
		}
		if err := authService.SetTemporaryPassword(user.ID, password, false); err != nil {
			return fmt.Errorf("update user password: %w", err)
		}
		logger.Info("password set by operator", zap.Uint("user_id", user.ID))
		fmt.Fprintln(out, "Password updated.")
		return nil
	}

	temporaryPassword, err := security.TemporaryPassword()
	if err != nil {
		return fmt.Errorf("generate temporary password: %w", err)
	}
	if err := authService.SetTemporaryPassword(user.ID, temporaryPassword, true); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	logger.Info("temporary password issued", zap.Uint("user_id", user.ID))

	fmt.Fprintln(out, "Password reset successful")
	fmt.Fprintf(out, "Temporary password: %s\n", temporaryPassword)
	fmt.Fprintln(out, "User must change password on next login.")
	return nil
}

func promptNewPassword(read func(prompt string) (string, error), out io.Writer) (string, error) {
	if read == nil {
		read = func(prompt string) (string, error) {
			fmt.Fprint(out, prompt)
			raw, err := readPasswordNoEcho(os.Stdin)
			fmt.Fprintln(out)
			return string(raw), err
		}
	}

	password, err := read("New password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	confirmation, err := read("Repeat password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	password = strings.TrimSpace(password)
	if password != strings.TrimSpace(confirmation) {
		return "", ErrPasswordsDiffer
	}
	if err := services.ValidateNewPasswordPair(password, confirmation); err != nil {
		return "", fmt.Errorf("password rejected: %w", err)
	}
	return password, nil
}
