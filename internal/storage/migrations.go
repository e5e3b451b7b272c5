package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS cards (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					family TEXT,
					is_active INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_cards_active ON cards(is_active)`,

				`CREATE TABLE IF NOT EXISTS reward_categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					card_id TEXT NOT NULL,
					category TEXT NOT NULL,
					multiplier REAL NOT NULL,
					point_type TEXT NOT NULL,
					is_active INTEGER NOT NULL DEFAULT 1,
					position INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_reward_categories_card ON reward_categories(card_id)`,

				`CREATE TABLE IF NOT EXISTS spending_limits (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					card_id TEXT NOT NULL,
					category TEXT NOT NULL,
					limit_amount REAL NOT NULL,
					current_spending REAL NOT NULL DEFAULT 0,
					reset_date DATETIME,
					reset_cycle TEXT NOT NULL DEFAULT 'monthly',
					position INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_spending_limits_card ON spending_limits(card_id)`,

				`CREATE TABLE IF NOT EXISTS quarterly_bonuses (
					card_id TEXT PRIMARY KEY,
					category TEXT NOT NULL,
					point_type TEXT NOT NULL,
					multiplier REAL NOT NULL,
					limit_amount REAL NOT NULL,
					current_spending REAL NOT NULL DEFAULT 0,
					quarter INTEGER NOT NULL,
					year INTEGER NOT NULL,
					FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add user preferences",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS preferences (
					id INTEGER PRIMARY KEY CHECK (id = 1),
					preferred_point_type TEXT NOT NULL,
					warning_threshold REAL NOT NULL DEFAULT 0.85,
					language TEXT NOT NULL DEFAULT 'en',
					notifications_enabled INTEGER NOT NULL DEFAULT 1,
					auto_update_enabled INTEGER NOT NULL DEFAULT 0
				)
			`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
