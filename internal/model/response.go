package model

// RecommendationResponse is the engine's final answer for one query.
// Primary and Secondary are absent when no card scored above zero.
type RecommendationResponse struct {
	Primary     *CardScore `json:"primary,omitempty"`
	Secondary   *CardScore `json:"secondary,omitempty"`
	Reasoning   string     `json:"reasoning"`
	Warnings    []string   `json:"warnings,omitempty"`
	Suggestions []string   `json:"suggestions,omitempty"`
}

// HasRecommendation reports whether any card was recommended.
func (r RecommendationResponse) HasRecommendation() bool {
	return r.Primary != nil
}
