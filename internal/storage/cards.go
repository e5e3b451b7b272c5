package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cardwise/internal/common"
	"cardwise/internal/model"
)

// SaveCard inserts or replaces a card and all of its reward categories,
// spending limits, and quarterly bonus in one transaction. Cards without
// an ID get one assigned.
func (s *SQLiteStorage) SaveCard(ctx context.Context, card *model.Card) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if card == nil {
		return fmt.Errorf("card must not be nil")
	}
	if card.Name == "" {
		return fmt.Errorf("card name must not be empty")
	}

	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	now := time.Now()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cards (id, name, family, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			family = excluded.family,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`,
		card.ID, card.Name, card.Family, card.IsActive, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}

	// Child rows are replaced wholesale; position preserves the caller's
	// declared ordering, which scoring depends on.
	if _, err = tx.ExecContext(ctx, `DELETE FROM reward_categories WHERE card_id = ?`, card.ID); err != nil {
		return fmt.Errorf("failed to clear reward categories: %w", err)
	}
	for i, rc := range card.RewardCategories {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO reward_categories (card_id, category, multiplier, point_type, is_active, position)
			VALUES (?, ?, ?, ?, ?, ?)`,
			card.ID, rc.Category, rc.Multiplier, rc.PointType, rc.IsActive, i)
		if err != nil {
			return fmt.Errorf("failed to save reward category: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM spending_limits WHERE card_id = ?`, card.ID); err != nil {
		return fmt.Errorf("failed to clear spending limits: %w", err)
	}
	for i, sl := range card.SpendingLimits {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO spending_limits (card_id, category, limit_amount, current_spending, reset_date, reset_cycle, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			card.ID, sl.Category, sl.Limit, sl.CurrentSpending, sl.ResetDate, sl.ResetCycle, i)
		if err != nil {
			return fmt.Errorf("failed to save spending limit: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM quarterly_bonuses WHERE card_id = ?`, card.ID); err != nil {
		return fmt.Errorf("failed to clear quarterly bonus: %w", err)
	}
	if b := card.QuarterlyBonus; b != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO quarterly_bonuses (card_id, category, point_type, multiplier, limit_amount, current_spending, quarter, year)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			card.ID, b.Category, b.PointType, b.Multiplier, b.Limit, b.CurrentSpending, b.Quarter, b.Year)
		if err != nil {
			return fmt.Errorf("failed to save quarterly bonus: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit card: %w", err)
	}

	return nil
}

// GetCard retrieves one card with all of its reward structure.
func (s *SQLiteStorage) GetCard(ctx context.Context, id string) (*model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	card := &model.Card{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, family, is_active, created_at, updated_at
		FROM cards WHERE id = ?`, id).
		Scan(&card.ID, &card.Name, &card.Family, &card.IsActive, &card.CreatedAt, &card.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("card %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	if err := s.loadCardDetails(ctx, card); err != nil {
		return nil, err
	}

	return card, nil
}

// GetCards retrieves every card, active or not, ordered by creation time.
func (s *SQLiteStorage) GetCards(ctx context.Context) ([]model.Card, error) {
	return s.getCards(ctx, `SELECT id, name, family, is_active, created_at, updated_at FROM cards ORDER BY created_at, id`)
}

// GetActiveCards retrieves the snapshot handed to the recommendation
// engine: active cards only, in stable creation order.
func (s *SQLiteStorage) GetActiveCards(ctx context.Context) ([]model.Card, error) {
	return s.getCards(ctx, `SELECT id, name, family, is_active, created_at, updated_at FROM cards WHERE is_active = 1 ORDER BY created_at, id`)
}

func (s *SQLiteStorage) getCards(ctx context.Context, queryText string) ([]model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []model.Card
	for rows.Next() {
		var card model.Card
		if err := rows.Scan(&card.ID, &card.Name, &card.Family, &card.IsActive, &card.CreatedAt, &card.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}

	for i := range cards {
		if err := s.loadCardDetails(ctx, &cards[i]); err != nil {
			return nil, err
		}
	}

	return cards, nil
}

// DeleteCard removes a card and, via foreign keys, its reward structure.
func (s *SQLiteStorage) DeleteCard(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("card %s: %w", id, common.ErrNotFound)
	}

	return nil
}

func (s *SQLiteStorage) loadCardDetails(ctx context.Context, card *model.Card) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, multiplier, point_type, is_active
		FROM reward_categories WHERE card_id = ? ORDER BY position`, card.ID)
	if err != nil {
		return fmt.Errorf("failed to query reward categories: %w", err)
	}
	for rows.Next() {
		var rc model.RewardCategory
		if err := rows.Scan(&rc.Category, &rc.Multiplier, &rc.PointType, &rc.IsActive); err != nil {
			_ = rows.Close()
			return fmt.Errorf("failed to scan reward category: %w", err)
		}
		card.RewardCategories = append(card.RewardCategories, rc)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("failed to iterate reward categories: %w", err)
	}
	_ = rows.Close()

	rows, err = s.db.QueryContext(ctx, `
		SELECT category, limit_amount, current_spending, reset_date, reset_cycle
		FROM spending_limits WHERE card_id = ? ORDER BY position`, card.ID)
	if err != nil {
		return fmt.Errorf("failed to query spending limits: %w", err)
	}
	for rows.Next() {
		var sl model.SpendingLimit
		var resetDate sql.NullTime
		if err := rows.Scan(&sl.Category, &sl.Limit, &sl.CurrentSpending, &resetDate, &sl.ResetCycle); err != nil {
			_ = rows.Close()
			return fmt.Errorf("failed to scan spending limit: %w", err)
		}
		if resetDate.Valid {
			sl.ResetDate = resetDate.Time
		}
		card.SpendingLimits = append(card.SpendingLimits, sl)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("failed to iterate spending limits: %w", err)
	}
	_ = rows.Close()

	var b model.QuarterlyBonus
	err = s.db.QueryRowContext(ctx, `
		SELECT category, point_type, multiplier, limit_amount, current_spending, quarter, year
		FROM quarterly_bonuses WHERE card_id = ?`, card.ID).
		Scan(&b.Category, &b.PointType, &b.Multiplier, &b.Limit, &b.CurrentSpending, &b.Quarter, &b.Year)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No bonus configured.
	case err != nil:
		return fmt.Errorf("failed to get quarterly bonus: %w", err)
	default:
		card.QuarterlyBonus = &b
	}

	return nil
}
