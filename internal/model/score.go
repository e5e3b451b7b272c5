package model

import (
	"sort"
)

// LimitStatus classifies how much of a spending limit has been consumed.
type LimitStatus string

// Limit statuses.
const (
	LimitAvailable LimitStatus = "available"
	LimitWarning   LimitStatus = "warning"
	LimitReached   LimitStatus = "reached"
)

// CardScore is the scored result for one card against one resolved
// category. The four component scores combine into Total through fixed
// weights; Total is never set independently of the components.
type CardScore struct {
	Card            Card        `json:"card"`
	Category        Category    `json:"category"`
	LimitStatus     LimitStatus `json:"limit_status"`
	Reasoning       string      `json:"reasoning"`
	BaseScore       float64     `json:"base_score"`
	CategoryScore   float64     `json:"category_score"`
	PreferenceScore float64     `json:"preference_score"`
	LimitScore      float64     `json:"limit_score"`
	TotalScore      float64     `json:"total_score"`

	// InputIndex records the card's position in the caller's snapshot;
	// it is the tie-break when totals are equal.
	InputIndex int `json:"-"`
}

// CardScores supports ranking a scored card set.
type CardScores []CardScore

// Ranked returns a copy sorted by total score descending. Equal totals
// keep the cards' original input order.
func (s CardScores) Ranked() CardScores {
	ranked := make(CardScores, len(s))
	copy(ranked, s)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalScore != ranked[j].TotalScore {
			return ranked[i].TotalScore > ranked[j].TotalScore
		}
		return ranked[i].InputIndex < ranked[j].InputIndex
	})
	return ranked
}

// Viable returns the ranked scores with zero-total entries removed. The
// filter applies to the total only: a reached limit alone does not
// disqualify a card.
func (s CardScores) Viable() CardScores {
	var viable CardScores
	for _, cs := range s.Ranked() {
		if cs.TotalScore > 0 {
			viable = append(viable, cs)
		}
	}
	return viable
}
