package model

// Intent is what the user is trying to do with a query.
type Intent string

// Query intents.
const (
	IntentCardRecommendation Intent = "card_recommendation"
	IntentSpendingUpdate     Intent = "spending_update"
	IntentLimitCheck         Intent = "limit_check"
	IntentGeneralQuestion    Intent = "general_question"
)

// ParsedQuery is the structured form of a free-text query. It is a value
// object: once produced by the interpreter it is never mutated.
type ParsedQuery struct {
	Category   Category `json:"category,omitempty"`
	Merchant   string   `json:"merchant,omitempty"`
	Intent     Intent   `json:"intent"`
	Amount     *float64 `json:"amount,omitempty"`
	Confidence float64  `json:"confidence"`
}

// CategoryResolved reports whether the interpreter derived a category,
// directly or via a recognized merchant.
func (q ParsedQuery) CategoryResolved() bool {
	return q.Category != ""
}

// EffectiveCategory returns the resolved category, defaulting to general
// when nothing was derived from the text.
func (q ParsedQuery) EffectiveCategory() Category {
	if q.Category == "" {
		return CategoryGeneral
	}
	return q.Category
}
