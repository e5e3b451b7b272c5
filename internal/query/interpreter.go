// Package query parses free-text purchase descriptions into structured queries.
package query

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"cardwise/internal/common"
	"cardwise/internal/model"
)

// Query text bounds enforced before any extraction runs.
const (
	minQueryLength = 3
	maxQueryLength = 500
)

// blockedTerms fails validation outright when present anywhere in the query.
var blockedTerms = []string{
	"fuck",
	"shit",
	"bitch",
	"asshole",
	"bastard",
}

// categoryKeywords maps each category to the substrings that resolve it.
// Lookup iterates model.AllCategories in declaration order and the first
// category with a matching keyword wins, so the order there is the
// tie-break.
var categoryKeywords = map[model.Category][]string{
	model.CategoryDining:        {"restaurant", "dinner", "lunch", "brunch", "coffee", "dining", "takeout", "eating out"},
	model.CategoryGroceries:     {"grocery", "groceries", "supermarket", "produce", "food shopping"},
	model.CategoryGas:           {"gas station", "fuel", "filling up", "gasoline", "gas"},
	model.CategoryTravel:        {"flight", "airfare", "hotel", "vacation", "travel", "trip"},
	model.CategoryOnline:        {"online shopping", "online order", "e-commerce", "shopping online"},
	model.CategoryEntertainment: {"movie", "concert", "tickets", "entertainment"},
	model.CategoryStreaming:     {"streaming", "subscription"},
	model.CategoryTransit:       {"subway", "bus fare", "train", "commute", "rideshare", "taxi", "parking", "transit"},
	model.CategoryDrugstores:    {"pharmacy", "drugstore", "prescription", "medicine"},
}

// merchantMapping ties a known merchant name to its category. The slice
// order is the scan order: the first merchant found in the query wins.
type merchantMapping struct {
	Name     string
	Category model.Category
}

var knownMerchants = []merchantMapping{
	{"whole foods", model.CategoryGroceries},
	{"trader joe's", model.CategoryGroceries},
	{"safeway", model.CategoryGroceries},
	{"kroger", model.CategoryGroceries},
	{"costco", model.CategoryGroceries},
	{"starbucks", model.CategoryDining},
	{"mcdonald's", model.CategoryDining},
	{"chipotle", model.CategoryDining},
	{"shell", model.CategoryGas},
	{"chevron", model.CategoryGas},
	{"exxon", model.CategoryGas},
	{"amazon", model.CategoryOnline},
	{"netflix", model.CategoryStreaming},
	{"spotify", model.CategoryStreaming},
	{"hulu", model.CategoryStreaming},
	{"uber", model.CategoryTransit},
	{"lyft", model.CategoryTransit},
	{"delta", model.CategoryTravel},
	{"united airlines", model.CategoryTravel},
	{"marriott", model.CategoryTravel},
	{"hilton", model.CategoryTravel},
	{"airbnb", model.CategoryTravel},
	{"cvs", model.CategoryDrugstores},
	{"walgreens", model.CategoryDrugstores},
}

// intentKeywords drive intent classification. Checked in the order listed
// in detectIntent; card recommendation is the default when nothing matches.
var intentKeywords = map[model.Intent][]string{
	model.IntentSpendingUpdate:     {"i spent", "just spent", "just paid", "record", "update my spending", "add a purchase"},
	model.IntentLimitCheck:         {"limit", "how much left", "remaining", "cap", "used up"},
	model.IntentCardRecommendation: {"which card", "what card", "best card", "should i use", "recommend"},
	model.IntentGeneralQuestion:    {"what is", "what are", "how do", "how does", "why"},
}

// amountPattern captures "$123.45", "123 dollars" and "123.45 bucks".
var amountPattern = regexp.MustCompile(`(?i)\$\s?(\d+(?:\.\d{1,2})?)|(\d+(?:\.\d{1,2})?)\s?(?:dollars?|bucks?)`)

// Interpreter turns free text into a ParsedQuery. It is stateless and safe
// for concurrent use.
type Interpreter struct{}

// NewInterpreter creates a query interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// Parse validates text and extracts category, merchant, amount, intent and
// a confidence score. Extraction failures degrade to absent fields; only
// validation produces an error.
func (p *Interpreter) Parse(text string) (model.ParsedQuery, error) {
	trimmed := strings.TrimSpace(text)

	if err := validate(trimmed); err != nil {
		return model.ParsedQuery{}, err
	}

	lowered := strings.ToLower(trimmed)

	merchant, merchantCategory := extractMerchant(lowered)

	category := extractCategory(lowered)
	if category == "" && merchant != "" {
		// Merchant fallback: resolve the category through the merchant table.
		category = merchantCategory
	}

	amount := extractAmount(lowered)
	intent, intentMatched := detectIntent(lowered)

	q := model.ParsedQuery{
		Category: category,
		Merchant: merchant,
		Amount:   amount,
		Intent:   intent,
	}
	q.Confidence = confidence(q, intentMatched)

	return q, nil
}

func validate(trimmed string) error {
	if trimmed == "" {
		return common.NewInvalidQueryError("query is empty")
	}
	// Bounds count characters, not bytes; multibyte queries measure the same
	// as ASCII ones.
	runes := utf8.RuneCountInString(trimmed)
	if runes < minQueryLength {
		return common.NewInvalidQueryError("query is too short")
	}
	if runes > maxQueryLength {
		return common.NewInvalidQueryError("query is too long")
	}

	lowered := strings.ToLower(trimmed)
	for _, term := range blockedTerms {
		if strings.Contains(lowered, term) {
			return common.NewInvalidQueryError("query contains blocked language")
		}
	}

	return nil
}

// extractCategory returns the first category whose keyword set matches,
// iterating categories in canonical order.
func extractCategory(lowered string) model.Category {
	for _, category := range model.AllCategories {
		for _, keyword := range categoryKeywords[category] {
			if strings.Contains(lowered, keyword) {
				return category
			}
		}
	}
	return ""
}

// extractMerchant scans the merchant table for a substring match, then
// falls back to a fuzzy token comparison for near-miss spellings.
func extractMerchant(lowered string) (string, model.Category) {
	for _, m := range knownMerchants {
		if strings.Contains(lowered, m.Name) {
			return m.Name, m.Category
		}
	}

	// Fuzzy pass: single-token merchants within edit distance 1 of a
	// query token. Short tokens are skipped to avoid false hits.
	for _, token := range strings.Fields(lowered) {
		if len(token) < 5 {
			continue
		}
		for _, m := range knownMerchants {
			if strings.ContainsRune(m.Name, ' ') {
				continue
			}
			if levenshtein.ComputeDistance(token, m.Name) == 1 {
				return m.Name, m.Category
			}
		}
	}

	return "", ""
}

// extractAmount takes the first currency-like match; unparsable amounts
// are treated as absent, not an error.
func extractAmount(lowered string) *float64 {
	match := amountPattern.FindStringSubmatch(lowered)
	if match == nil {
		return nil
	}

	raw := match[1]
	if raw == "" {
		raw = match[2]
	}

	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &amount
}

// detectIntent classifies the query into one of the four intents. The
// second return reports whether any keyword actually matched, which feeds
// the confidence increment.
func detectIntent(lowered string) (model.Intent, bool) {
	ordered := []model.Intent{
		model.IntentSpendingUpdate,
		model.IntentLimitCheck,
		model.IntentCardRecommendation,
		model.IntentGeneralQuestion,
	}

	for _, intent := range ordered {
		for _, keyword := range intentKeywords[intent] {
			if strings.Contains(lowered, keyword) {
				return intent, true
			}
		}
	}

	return model.IntentCardRecommendation, false
}

// confidence combines extraction signals: 0.4 for a resolved category,
// 0.3 for a merchant, 0.2 for an amount, plus a small intent increment,
// capped at 1.0.
func confidence(q model.ParsedQuery, intentMatched bool) float64 {
	score := 0.0

	if q.CategoryResolved() {
		score += 0.4
	}
	if q.Merchant != "" {
		score += 0.3
	}
	if q.Amount != nil {
		score += 0.2
	}

	if intentMatched {
		if q.Intent == model.IntentGeneralQuestion {
			score += 0.05
		} else {
			score += 0.1
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
