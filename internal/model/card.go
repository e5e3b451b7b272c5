// Package model defines the domain types shared across the application.
package model

import (
	"time"
)

// Category is a spending category a card can earn rewards in.
type Category string

// Known spending categories. AllCategories fixes the iteration order used
// everywhere a category lookup could tie: first declared wins.
const (
	CategoryDining        Category = "dining"
	CategoryGroceries     Category = "groceries"
	CategoryGas           Category = "gas"
	CategoryTravel        Category = "travel"
	CategoryOnline        Category = "online shopping"
	CategoryEntertainment Category = "entertainment"
	CategoryStreaming     Category = "streaming"
	CategoryTransit       Category = "transit"
	CategoryDrugstores    Category = "drugstores"
	CategoryGeneral       Category = "general"
)

// AllCategories lists every known category in canonical order.
var AllCategories = []Category{
	CategoryDining,
	CategoryGroceries,
	CategoryGas,
	CategoryTravel,
	CategoryOnline,
	CategoryEntertainment,
	CategoryStreaming,
	CategoryTransit,
	CategoryDrugstores,
	CategoryGeneral,
}

// PointType is the rewards currency a card earns.
type PointType string

// Known point systems.
const (
	PointsMembershipRewards PointType = "Membership Rewards"
	PointsUltimateRewards   PointType = "Ultimate Rewards"
	PointsThankYou          PointType = "ThankYou Points"
	PointsCapitalOneMiles   PointType = "Capital One Miles"
	PointsCashback          PointType = "Cashback"
)

// ResetCycle is the cadence at which a spending limit's consumption resets.
type ResetCycle string

// Reset cycles for spending limits.
const (
	ResetMonthly   ResetCycle = "monthly"
	ResetQuarterly ResetCycle = "quarterly"
	ResetAnnually  ResetCycle = "annually"
	ResetNever     ResetCycle = "never"
)

// RewardCategory is one earning rate on a card. A card may carry an inactive
// duplicate for the same category; inactive entries are always skipped.
type RewardCategory struct {
	Category   Category  `json:"category"`
	Multiplier float64   `json:"multiplier"`
	PointType  PointType `json:"point_type"`
	IsActive   bool      `json:"is_active"`
}

// SpendingLimit caps bonus-eligible spending in a category. CurrentSpending
// may exceed Limit; callers classify, they never clamp.
type SpendingLimit struct {
	ResetDate       time.Time  `json:"reset_date"`
	Category        Category   `json:"category"`
	ResetCycle      ResetCycle `json:"reset_cycle"`
	Limit           float64    `json:"limit"`
	CurrentSpending float64    `json:"current_spending"`
}

// QuarterlyBonus is a time-boxed elevated multiplier in one category,
// capped by its own limit. At most one per card.
type QuarterlyBonus struct {
	Category        Category  `json:"category"`
	PointType       PointType `json:"point_type"`
	Multiplier      float64   `json:"multiplier"`
	Limit           float64   `json:"limit"`
	CurrentSpending float64   `json:"current_spending"`
	Quarter         int       `json:"quarter"`
	Year            int       `json:"year"`
}

// ActiveFor reports whether the bonus applies to the given category at the
// given time (quarter and year must both match).
func (b *QuarterlyBonus) ActiveFor(category Category, asOf time.Time) bool {
	if b == nil || b.Category != category {
		return false
	}
	return b.Quarter == QuarterOf(asOf) && b.Year == asOf.Year()
}

// QuarterOf returns the calendar quarter (1-4) containing t.
func QuarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// Card is a snapshot of one payment card. The engine only ever reads
// snapshots; all spending updates go through the storage write path.
type Card struct {
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Family           string           `json:"family"`
	RewardCategories []RewardCategory `json:"reward_categories"`
	SpendingLimits   []SpendingLimit  `json:"spending_limits"`
	QuarterlyBonus   *QuarterlyBonus  `json:"quarterly_bonus,omitempty"`
	IsActive         bool             `json:"is_active"`
}

// ActiveReward returns the first active reward category matching category,
// or nil if the card has none.
func (c *Card) ActiveReward(category Category) *RewardCategory {
	for i := range c.RewardCategories {
		rc := &c.RewardCategories[i]
		if rc.IsActive && rc.Category == category {
			return rc
		}
	}
	return nil
}

// LimitFor returns the spending limit entry for category, or nil.
func (c *Card) LimitFor(category Category) *SpendingLimit {
	for i := range c.SpendingLimits {
		if c.SpendingLimits[i].Category == category {
			return &c.SpendingLimits[i]
		}
	}
	return nil
}

// EarnsPointType reports whether any active reward category on the card
// earns the given point system.
func (c *Card) EarnsPointType(pt PointType) bool {
	for _, rc := range c.RewardCategories {
		if rc.IsActive && rc.PointType == pt {
			return true
		}
	}
	return false
}
