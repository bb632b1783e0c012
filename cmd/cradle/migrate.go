package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/cradle/internal/db"
	"github.com/terraincognita07/cradle/internal/logging"
)

func newMigrateCommand() *cobra.Command {
	var dbPath string
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.New("info", false)
			if err != nil {
				return fmt.Errorf("logger init failed: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			path := resolveDBPath(dbPath)
			database, err := db.OpenSQLite(path, logger)
			if err != nil {
				return fmt.Errorf("database init failed: %w", err)
			}
			sqlDB, err := database.DB()
			if err != nil {
				return fmt.Errorf("database handle: %w", err)
			}
			defer sqlDB.Close()

			records, err := db.AppliedMigrations(database)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, record := range records {
				fmt.Fprintf(out, "%s  %s  %s\n", record.Version, record.AppliedAt.Format(time.RFC3339), record.Name)
			}
			fmt.Fprintf(out, "database %s is up to date\n", path)
			return nil
		},
	}
	command.Flags().StringVar(&dbPath, "db", "", "database path (default $DB_PATH or data/cradle.db)")
	return command
}
