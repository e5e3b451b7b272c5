// Package recommend ranks scored cards and assembles recommendation
// responses, with a bounded memoization cache in front.
package recommend

import (
	"fmt"

	"cardwise/internal/model"
)

// Fixed response strings for the no-viable-card case.
const (
	reasonNoSuitableCard     = "no suitable card found for this category"
	warningAllLimitsReached  = "all cards have reached their limits for this category"
	suggestionGeneralRewards = "consider a card with general rewards"
)

// lowScoreCutoff is the total below which every surviving card is
// considered weak enough to suggest acquiring a better one.
const lowScoreCutoff = 2.0

// Composer turns a scored card set into the final response.
type Composer struct{}

// NewComposer creates a recommendation composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Compose ranks the scores, drops zero-total entries, and builds the
// response with at most a primary and secondary pick plus warnings and
// suggestions. Ties in total score keep the cards' input order.
func (c *Composer) Compose(scores model.CardScores, prefs model.UserPreferences) model.RecommendationResponse {
	ranked := scores.Ranked()
	viable := scores.Viable()

	if len(viable) == 0 || allLimitsReached(ranked) {
		return model.RecommendationResponse{
			Reasoning:   reasonNoSuitableCard,
			Warnings:    []string{warningAllLimitsReached},
			Suggestions: []string{suggestionGeneralRewards},
		}
	}

	resp := model.RecommendationResponse{
		Primary:   &viable[0],
		Reasoning: viable[0].Reasoning,
		Warnings:  limitWarnings(ranked),
	}
	if len(viable) > 1 {
		resp.Secondary = &viable[1]
	}
	resp.Suggestions = suggestions(viable, prefs)

	return resp
}

// allLimitsReached reports whether every scored card has exhausted its
// limit for the category. A reached limit on one card among others is not
// disqualifying, but when no card has room left there is nothing to
// recommend.
func allLimitsReached(ranked model.CardScores) bool {
	if len(ranked) == 0 {
		return false
	}
	for _, cs := range ranked {
		if cs.LimitStatus != model.LimitReached {
			return false
		}
	}
	return true
}

// limitWarnings emits one warning per ranked card whose limit is warning
// or reached.
func limitWarnings(ranked model.CardScores) []string {
	var warnings []string
	for _, cs := range ranked {
		switch cs.LimitStatus {
		case model.LimitWarning:
			warnings = append(warnings, fmt.Sprintf("%s is approaching its %s spending limit", cs.Card.Name, cs.Category))
		case model.LimitReached:
			warnings = append(warnings, fmt.Sprintf("%s has reached its %s spending limit", cs.Card.Name, cs.Category))
		}
	}
	return warnings
}

// suggestions proposes improvements: a stronger card when every survivor
// scores low, and prioritizing the preferred point system when it is not
// the most common one among the surviving cards.
func suggestions(viable model.CardScores, prefs model.UserPreferences) []string {
	var out []string

	allLow := true
	for _, cs := range viable {
		if cs.TotalScore >= lowScoreCutoff {
			allLow = false
			break
		}
	}
	if allLow {
		out = append(out, fmt.Sprintf("consider acquiring a card with stronger %s rewards", viable[0].Category))
	}

	if modal, ok := modalPointType(viable); ok && modal != prefs.PreferredPointType {
		out = append(out, fmt.Sprintf("consider prioritizing cards that earn %s", prefs.PreferredPointType))
	}

	return out
}

// modalPointType returns the most common point type among the surviving
// cards' matching reward categories. Ties resolve to the type seen first
// in ranking order.
func modalPointType(viable model.CardScores) (model.PointType, bool) {
	counts := make(map[model.PointType]int)
	var order []model.PointType

	for _, cs := range viable {
		rc := cs.Card.ActiveReward(cs.Category)
		if rc == nil {
			continue
		}
		if counts[rc.PointType] == 0 {
			order = append(order, rc.PointType)
		}
		counts[rc.PointType]++
	}

	if len(order) == 0 {
		return "", false
	}

	best := order[0]
	for _, pt := range order[1:] {
		if counts[pt] > counts[best] {
			best = pt
		}
	}
	return best, true
}
