package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cardwise/internal/model"
)

// GetPreferences loads the single preferences row, falling back to
// defaults when none has been saved yet.
func (s *SQLiteStorage) GetPreferences(ctx context.Context) (model.UserPreferences, error) {
	if err := validateContext(ctx); err != nil {
		return model.UserPreferences{}, err
	}

	var prefs model.UserPreferences
	err := s.db.QueryRowContext(ctx, `
		SELECT preferred_point_type, warning_threshold, language, notifications_enabled, auto_update_enabled
		FROM preferences WHERE id = 1`).
		Scan(&prefs.PreferredPointType, &prefs.WarningThreshold, &prefs.Language,
			&prefs.NotificationsEnabled, &prefs.AutoUpdateEnabled)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultPreferences(), nil
	}
	if err != nil {
		return model.UserPreferences{}, fmt.Errorf("failed to get preferences: %w", err)
	}

	return prefs, nil
}

// SavePreferences upserts the single preferences row.
func (s *SQLiteStorage) SavePreferences(ctx context.Context, prefs model.UserPreferences) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (id, preferred_point_type, warning_threshold, language, notifications_enabled, auto_update_enabled)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			preferred_point_type = excluded.preferred_point_type,
			warning_threshold = excluded.warning_threshold,
			language = excluded.language,
			notifications_enabled = excluded.notifications_enabled,
			auto_update_enabled = excluded.auto_update_enabled`,
		prefs.PreferredPointType, prefs.WarningThreshold, prefs.Language,
		prefs.NotificationsEnabled, prefs.AutoUpdateEnabled)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	return nil
}
