package limits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cardwise/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		want      model.LimitStatus
		spent     float64
		limit     float64
		threshold float64
	}{
		{name: "well under limit", spent: 800, limit: 1000, threshold: 0.85, want: model.LimitAvailable},
		{name: "exactly at threshold warns", spent: 850, limit: 1000, threshold: 0.85, want: model.LimitWarning},
		{name: "above threshold warns", spent: 900, limit: 1000, threshold: 0.85, want: model.LimitWarning},
		{name: "exactly at limit is reached", spent: 1000, limit: 1000, threshold: 0.85, want: model.LimitReached},
		{name: "over limit is reached", spent: 1100, limit: 1000, threshold: 0.85, want: model.LimitReached},
		{name: "zero limit never constrains", spent: 500, limit: 0, threshold: 0.85, want: model.LimitAvailable},
		{name: "zero spending", spent: 0, limit: 1000, threshold: 0.85, want: model.LimitAvailable},
		{name: "custom threshold boundary inclusive", spent: 500, limit: 1000, threshold: 0.5, want: model.LimitWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.spent, tt.limit, tt.threshold))
		})
	}
}

func TestTracker_Status(t *testing.T) {
	tracker := NewTracker()
	asOf := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)

	card := model.Card{
		ID:       "card-1",
		Name:     "Amex Gold",
		IsActive: true,
		SpendingLimits: []model.SpendingLimit{
			{Category: model.CategoryGroceries, Limit: 1000, CurrentSpending: 800, ResetCycle: model.ResetMonthly},
		},
	}

	t.Run("limit entry classification", func(t *testing.T) {
		assert.Equal(t, model.LimitAvailable, tracker.Status(card, model.CategoryGroceries, asOf, 0.85))
	})

	t.Run("no limit for category is available", func(t *testing.T) {
		assert.Equal(t, model.LimitAvailable, tracker.Status(card, model.CategoryDining, asOf, 0.85))
	})

	t.Run("in-quarter bonus takes precedence over limit entry", func(t *testing.T) {
		bonusCard := card
		bonusCard.QuarterlyBonus = &model.QuarterlyBonus{
			Category:        model.CategoryGroceries,
			Multiplier:      5.0,
			Limit:           1500,
			CurrentSpending: 1500,
			Quarter:         3,
			Year:            2026,
		}
		assert.Equal(t, model.LimitReached, tracker.Status(bonusCard, model.CategoryGroceries, asOf, 0.85))
	})

	t.Run("out-of-quarter bonus is ignored", func(t *testing.T) {
		bonusCard := card
		bonusCard.QuarterlyBonus = &model.QuarterlyBonus{
			Category:        model.CategoryGroceries,
			Multiplier:      5.0,
			Limit:           1500,
			CurrentSpending: 1500,
			Quarter:         1,
			Year:            2026,
		}
		assert.Equal(t, model.LimitAvailable, tracker.Status(bonusCard, model.CategoryGroceries, asOf, 0.85))
	})
}

func TestTracker_Remaining(t *testing.T) {
	tracker := NewTracker()
	asOf := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)

	card := model.Card{
		SpendingLimits: []model.SpendingLimit{
			{Category: model.CategoryGroceries, Limit: 1000, CurrentSpending: 800},
		},
	}

	assert.InDelta(t, 200, tracker.Remaining(card, model.CategoryGroceries, asOf), 0.001)
	assert.InDelta(t, 0, tracker.Remaining(card, model.CategoryDining, asOf), 0.001)

	overrun := card
	overrun.SpendingLimits[0].CurrentSpending = 1200
	assert.InDelta(t, -200, tracker.Remaining(overrun, model.CategoryGroceries, asOf), 0.001)
}

func TestNextResetDate(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		from  time.Time
		want  time.Time
		name  string
		cycle model.ResetCycle
	}{
		{
			name:  "monthly adds one calendar month",
			cycle: model.ResetMonthly,
			from:  time.Date(2026, time.January, 15, 0, 0, 0, 0, loc),
			want:  time.Date(2026, time.February, 15, 0, 0, 0, 0, loc),
		},
		{
			name:  "quarterly lands on next quarter start",
			cycle: model.ResetQuarterly,
			from:  time.Date(2026, time.February, 10, 0, 0, 0, 0, loc),
			want:  time.Date(2026, time.April, 1, 0, 0, 0, 0, loc),
		},
		{
			name:  "quarterly rolls into next year from Q4",
			cycle: model.ResetQuarterly,
			from:  time.Date(2026, time.November, 20, 0, 0, 0, 0, loc),
			want:  time.Date(2027, time.January, 1, 0, 0, 0, 0, loc),
		},
		{
			name:  "annually adds one year",
			cycle: model.ResetAnnually,
			from:  time.Date(2026, time.March, 1, 0, 0, 0, 0, loc),
			want:  time.Date(2027, time.March, 1, 0, 0, 0, 0, loc),
		},
		{
			name:  "never leaves the date unchanged",
			cycle: model.ResetNever,
			from:  time.Date(2026, time.March, 1, 0, 0, 0, 0, loc),
			want:  time.Date(2026, time.March, 1, 0, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextResetDate(tt.cycle, tt.from))
		})
	}
}
