package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/cradle/internal/cli"
	"github.com/terraincognita07/cradle/internal/db"
	"github.com/terraincognita07/cradle/internal/logging"
)

func newResetPasswordCommand() *cobra.Command {
	var (
		email  string
		dbPath string
		prompt bool
	)
	command := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset an account password",
		Long: `Issues a temporary password that must be changed at the next login.
With --prompt the new password is read from the terminal instead and no
change is forced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.New("warn", false)
			if err != nil {
				return fmt.Errorf("logger init failed: %w", err)
			}
			database, err := db.OpenSQLite(resolveDBPath(dbPath), logger)
			if err != nil {
				return fmt.Errorf("database init failed: %w", err)
			}
			if sqlDB, err := database.DB(); err == nil {
				defer sqlDB.Close()
			}
			return cli.RunResetPasswordCommand(database, cli.ResetOptions{
				Email:  email,
				Prompt: prompt,
				Out:    cmd.OutOrStdout(),
				Logger: logger,
			})
		},
	}
	command.Flags().StringVar(&email, "email", "", "account email")
	command.Flags().StringVar(&dbPath, "db", "", "database path (default $DB_PATH or data/cradle.db)")
	command.Flags().BoolVar(&prompt, "prompt", false, "read the new password from the terminal")
	_ = command.MarkFlagRequired("email")
	return command
}
