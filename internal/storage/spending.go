package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cardwise/internal/common"
	"cardwise/internal/limits"
	"cardwise/internal/model"
)

// RecordSpending applies a purchase amount to a card's limit consumption
// for a category. This is the single write path for current-spending
// values; the scoring path only ever reads them. A limit whose reset date
// has passed is rolled over (spending zeroed, next reset computed) before
// the new amount lands. The in-quarter bonus, when it matches, accumulates
// as well.
func (s *SQLiteStorage) RecordSpending(ctx context.Context, cardID string, category model.Category, amount float64, asOf time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if amount < 0 {
		return fmt.Errorf("amount must not be negative")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var limitID int64
	var currentSpending float64
	var resetDate sql.NullTime
	var cycle model.ResetCycle
	err = tx.QueryRowContext(ctx, `
		SELECT id, current_spending, reset_date, reset_cycle
		FROM spending_limits WHERE card_id = ? AND category = ?
		ORDER BY position LIMIT 1`, cardID, category).
		Scan(&limitID, &currentSpending, &resetDate, &cycle)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No limit in this category; nothing tracks regular spending.
	case err != nil:
		return fmt.Errorf("failed to load spending limit: %w", err)
	default:
		if resetDate.Valid && !resetDate.Time.IsZero() && !asOf.Before(resetDate.Time) && cycle != model.ResetNever {
			next := limits.NextResetDate(cycle, resetDate.Time)
			for !asOf.Before(next) {
				next = limits.NextResetDate(cycle, next)
			}
			currentSpending = 0
			resetDate = sql.NullTime{Time: next, Valid: true}
			slog.Info("Rolled spending limit over its reset cycle",
				"card_id", cardID,
				"category", category,
				"next_reset", next)
		}

		currentSpending += amount
		_, err = tx.ExecContext(ctx, `
			UPDATE spending_limits SET current_spending = ?, reset_date = ? WHERE id = ?`,
			currentSpending, resetDate, limitID)
		if err != nil {
			return fmt.Errorf("failed to update spending limit: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE quarterly_bonuses SET current_spending = current_spending + ?
		WHERE card_id = ? AND category = ? AND quarter = ? AND year = ?`,
		amount, cardID, category, model.QuarterOf(asOf), asOf.Year())
	if err != nil {
		return fmt.Errorf("failed to update quarterly bonus: %w", err)
	}
	bonusRows, _ := result.RowsAffected()

	if updated, err := cardExists(ctx, tx, cardID); err != nil {
		return err
	} else if !updated {
		return fmt.Errorf("card %s: %w", cardID, common.ErrNotFound)
	}

	_, err = tx.ExecContext(ctx, `UPDATE cards SET updated_at = ? WHERE id = ?`, time.Now(), cardID)
	if err != nil {
		return fmt.Errorf("failed to touch card: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit spending update: %w", err)
	}

	slog.Debug("Recorded spending",
		"card_id", cardID,
		"category", category,
		"amount", amount,
		"bonus_updated", bonusRows > 0)

	return nil
}

// ResetExpiredLimits rolls every limit whose reset date has passed,
// returning how many were reset. Intended for the auto-update path.
func (s *SQLiteStorage) ResetExpiredLimits(ctx context.Context, asOf time.Time) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, reset_date, reset_cycle FROM spending_limits
		WHERE reset_cycle != 'never' AND reset_date IS NOT NULL AND reset_date <= ?`, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to query expired limits: %w", err)
	}

	type expired struct {
		id    int64
		reset time.Time
		cycle model.ResetCycle
	}
	var found []expired
	for rows.Next() {
		var e expired
		if err := rows.Scan(&e.id, &e.reset, &e.cycle); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("failed to scan expired limit: %w", err)
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, fmt.Errorf("failed to iterate expired limits: %w", err)
	}
	_ = rows.Close()

	for _, e := range found {
		next := limits.NextResetDate(e.cycle, e.reset)
		for !asOf.Before(next) {
			next = limits.NextResetDate(e.cycle, next)
		}
		_, err := s.db.ExecContext(ctx, `
			UPDATE spending_limits SET current_spending = 0, reset_date = ? WHERE id = ?`, next, e.id)
		if err != nil {
			return 0, fmt.Errorf("failed to reset limit: %w", err)
		}
	}

	if len(found) > 0 {
		slog.Info("Reset expired spending limits", "count", len(found))
	}

	return len(found), nil
}

func cardExists(ctx context.Context, tx *sql.Tx, cardID string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM cards WHERE id = ?`, cardID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check card existence: %w", err)
	}
	return true, nil
}
