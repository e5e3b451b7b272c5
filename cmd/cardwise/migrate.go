package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"cardwise/internal/common"
	"cardwise/internal/config"
	"cardwise/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

This command ensures your local database has all the required
tables and indexes for the application to function properly.`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	settings := config.Load()

	slog.Info("Starting database migration", "database", settings.DatabasePath)

	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return common.NewUserError("Failed to open database", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(cmd.Context()); err != nil {
		return common.NewUserError("Migration failed", err)
	}

	slog.Info("✅ Database migrations completed successfully!")

	return nil
}
