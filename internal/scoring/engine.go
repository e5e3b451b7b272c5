// Package scoring computes per-card multi-factor scores for a resolved
// spending category.
package scoring

import (
	"fmt"
	"time"

	"cardwise/internal/limits"
	"cardwise/internal/model"
)

// Component weights. They sum to 1.0 and the total is always the weighted
// sum of the four components.
const (
	weightBase       = 0.1
	weightCategory   = 0.6
	weightPreference = 0.2
	weightLimit      = 0.1
)

// Engine scores cards against a resolved category. Pure with respect to
// its inputs; missing data degrades to defaults, never to an error.
type Engine struct {
	tracker *limits.Tracker
}

// NewEngine creates a scoring engine backed by the given limit tracker.
func NewEngine(tracker *limits.Tracker) *Engine {
	return &Engine{tracker: tracker}
}

// Score computes the multi-factor score for one card. Callers exclude
// inactive cards before scoring.
func (e *Engine) Score(card model.Card, category model.Category, prefs model.UserPreferences, asOf time.Time) model.CardScore {
	base := 1.0

	multiplier, pointType := e.resolveRate(card, category, asOf)
	categoryScore := multiplier
	preferenceScore := e.preferenceScore(card, prefs)

	status := e.tracker.Status(card, category, asOf, prefs.EffectiveThreshold())
	limitScore := limitScoreFor(status)

	total := weightBase*base +
		weightCategory*categoryScore +
		weightPreference*preferenceScore +
		weightLimit*limitScore

	return model.CardScore{
		Card:            card,
		Category:        category,
		LimitStatus:     status,
		Reasoning:       e.reasoning(card, category, multiplier, pointType, status, asOf),
		BaseScore:       base,
		CategoryScore:   categoryScore,
		PreferenceScore: preferenceScore,
		LimitScore:      limitScore,
		TotalScore:      total,
	}
}

// resolveRate resolves the earning rate for the category: the first
// active reward category's multiplier, defaulting to 1.0, with an
// in-quarter bonus competing via max-take. The multiplier doubles as the
// category component score.
func (e *Engine) resolveRate(card model.Card, category model.Category, asOf time.Time) (multiplier float64, pointType model.PointType) {
	multiplier = 1.0
	pointType = model.PointsCashback

	if rc := card.ActiveReward(category); rc != nil {
		multiplier = rc.Multiplier
		pointType = rc.PointType
	}

	if card.QuarterlyBonus.ActiveFor(category, asOf) && card.QuarterlyBonus.Multiplier > multiplier {
		multiplier = card.QuarterlyBonus.Multiplier
		pointType = card.QuarterlyBonus.PointType
	}

	return multiplier, pointType
}

func (e *Engine) preferenceScore(card model.Card, prefs model.UserPreferences) float64 {
	if card.EarnsPointType(prefs.PreferredPointType) {
		return 1.2
	}
	return 1.0
}

func limitScoreFor(status model.LimitStatus) float64 {
	switch status {
	case model.LimitReached:
		return 0.0
	case model.LimitWarning:
		return 0.5
	default:
		return 1.0
	}
}

// reasoning renders the deterministic explanation for a score: earning
// rate, remaining limit when one applies, and a caveat once the limit is
// warning or reached.
func (e *Engine) reasoning(card model.Card, category model.Category, multiplier float64, pointType model.PointType, status model.LimitStatus, asOf time.Time) string {
	text := fmt.Sprintf("%s earns %.1fx %s on %s", card.Name, multiplier, pointType, category)

	if e.tracker.HasLimit(card, category, asOf) {
		remaining := e.tracker.Remaining(card, category, asOf)
		if remaining < 0 {
			remaining = 0
		}
		text += fmt.Sprintf(" ($%.2f of bonus limit remaining)", remaining)
	}

	switch status {
	case model.LimitWarning:
		text += "; approaching its spending limit"
	case model.LimitReached:
		text += "; spending limit reached, earns base rate only"
	}

	return text
}
