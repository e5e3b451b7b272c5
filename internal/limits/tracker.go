// Package limits classifies spending-limit consumption and computes reset
// windows. Everything here reads card snapshots; spending updates happen
// through the storage write path, never here.
package limits

import (
	"time"

	"cardwise/internal/model"
)

// Tracker evaluates spending limits against a point in time. Stateless and
// safe for concurrent use.
type Tracker struct{}

// NewTracker creates a limit tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Status classifies limit consumption for one card and category as of a
// given time. A quarterly bonus matching the category and quarter takes
// precedence over the regular limit entry. No limit, or a zero limit,
// means Available. Both classification boundaries are inclusive: usage at
// exactly the warning threshold warns, usage at exactly the limit is
// reached.
func (t *Tracker) Status(card model.Card, category model.Category, asOf time.Time, warningThreshold float64) model.LimitStatus {
	limit, spent := t.limitFor(card, category, asOf)
	return Classify(spent, limit, warningThreshold)
}

// Remaining returns the unconsumed portion of the limit governing category,
// or 0 when no limit applies. It can go negative when spending overruns
// the cap; callers decide how to present that.
func (t *Tracker) Remaining(card model.Card, category model.Category, asOf time.Time) float64 {
	limit, spent := t.limitFor(card, category, asOf)
	if limit <= 0 {
		return 0
	}
	return limit - spent
}

// HasLimit reports whether a positive limit governs category for this card.
func (t *Tracker) HasLimit(card model.Card, category model.Category, asOf time.Time) bool {
	limit, _ := t.limitFor(card, category, asOf)
	return limit > 0
}

// limitFor locates the governing limit amount and current spending: the
// in-quarter bonus if it matches, otherwise the card's limit entry.
func (t *Tracker) limitFor(card model.Card, category model.Category, asOf time.Time) (limit, spent float64) {
	if card.QuarterlyBonus.ActiveFor(category, asOf) {
		return card.QuarterlyBonus.Limit, card.QuarterlyBonus.CurrentSpending
	}
	if sl := card.LimitFor(category); sl != nil {
		return sl.Limit, sl.CurrentSpending
	}
	return 0, 0
}

// Classify turns raw spending figures into a limit status. A zero or
// absent limit is never constrained.
func Classify(spent, limit, warningThreshold float64) model.LimitStatus {
	if limit <= 0 {
		return model.LimitAvailable
	}

	ratio := spent / limit
	switch {
	case ratio >= 1.0:
		return model.LimitReached
	case ratio >= warningThreshold:
		return model.LimitWarning
	default:
		return model.LimitAvailable
	}
}

// NextResetDate computes when a limit's consumption next resets: monthly
// adds one calendar month, quarterly lands on the first day of the next
// calendar quarter, annually adds one year, and never returns from
// unchanged.
func NextResetDate(cycle model.ResetCycle, from time.Time) time.Time {
	switch cycle {
	case model.ResetMonthly:
		return from.AddDate(0, 1, 0)
	case model.ResetQuarterly:
		quarter := model.QuarterOf(from)
		firstMonth := time.Month((quarter)*3 + 1)
		year := from.Year()
		if firstMonth > 12 {
			firstMonth -= 12
			year++
		}
		return time.Date(year, firstMonth, 1, 0, 0, 0, 0, from.Location())
	case model.ResetAnnually:
		return from.AddDate(1, 0, 0)
	case model.ResetNever:
		return from
	default:
		return from
	}
}
