// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"cardwise/internal/model"
)

// Storage defines the contract for the persistence collaborator. The
// recommendation core never touches storage directly: callers fetch a card
// snapshot, hand it to the engine, and apply spending updates here.
type Storage interface {
	// Card operations
	SaveCard(ctx context.Context, card *model.Card) error
	GetCard(ctx context.Context, id string) (*model.Card, error)
	GetCards(ctx context.Context) ([]model.Card, error)
	GetActiveCards(ctx context.Context) ([]model.Card, error)
	DeleteCard(ctx context.Context, id string) error

	// Spending updates: the single write path for current-spending values.
	// RecordSpending rolls limits over their reset cycle before applying
	// the new amount.
	RecordSpending(ctx context.Context, cardID string, category model.Category, amount float64, asOf time.Time) error
	ResetExpiredLimits(ctx context.Context, asOf time.Time) (int, error)

	// Preference operations
	GetPreferences(ctx context.Context) (model.UserPreferences, error)
	SavePreferences(ctx context.Context, prefs model.UserPreferences) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Notifier is the notification collaborator. Callers trigger it from
// observed limit statuses; the core itself never sends notifications.
type Notifier interface {
	NotifyLimitStatus(ctx context.Context, card model.Card, category model.Category, status model.LimitStatus, remaining float64) error
}

// Augmenter is the optional language-model augmentation collaborator. It
// is entirely outside the rule-based core: when it fails, callers fall
// back to the core's deterministic response exactly once.
type Augmenter interface {
	Augment(ctx context.Context, query string, context string) (string, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
