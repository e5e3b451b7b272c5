// Package notify implements the notification collaborator. Callers fire
// it from limit statuses the engine exposes; the engine itself never
// notifies.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"cardwise/internal/model"
	"cardwise/internal/service"
)

// LogNotifier emits limit notifications to the structured log. It stands
// in for push or email delivery behind the same interface.
type LogNotifier struct {
	enabled bool
}

var _ service.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a notifier honoring the user's notification flag.
func NewLogNotifier(enabled bool) *LogNotifier {
	return &LogNotifier{enabled: enabled}
}

// NotifyLimitStatus reports a warning or reached limit. Available
// statuses and disabled notifications are silently dropped.
func (n *LogNotifier) NotifyLimitStatus(_ context.Context, card model.Card, category model.Category, status model.LimitStatus, remaining float64) error {
	if !n.enabled || status == model.LimitAvailable {
		return nil
	}

	var message string
	switch status {
	case model.LimitWarning:
		message = fmt.Sprintf("%s is close to its %s limit ($%.2f remaining)", card.Name, category, remaining)
	case model.LimitReached:
		message = fmt.Sprintf("%s has reached its %s limit", card.Name, category)
	default:
		return nil
	}

	slog.Info("Limit notification",
		"card", card.Name,
		"category", category,
		"status", status,
		"message", message)

	return nil
}
