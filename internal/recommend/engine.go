package recommend

import (
	"context"
	"log/slog"
	"time"

	"cardwise/internal/common"
	"cardwise/internal/model"
	"cardwise/internal/query"
	"cardwise/internal/scoring"
)

// Engine is the rule-based recommendation core: it interprets a query,
// scores every active card, and composes the ranked response. It performs
// no I/O; callers hand it fully materialized card and preference
// snapshots. The only mutable state is the bounded response cache.
type Engine struct {
	interpreter *query.Interpreter
	scorer      *scoring.Engine
	composer    *Composer
	cache       *Cache
}

// Config holds configuration options for the recommendation engine.
type Config struct {
	CacheCapacity int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		CacheCapacity: DefaultCacheCapacity,
	}
}

// NewEngine creates a recommendation engine with the given collaborators.
func NewEngine(interpreter *query.Interpreter, scorer *scoring.Engine, composer *Composer, cfg Config) *Engine {
	return &Engine{
		interpreter: interpreter,
		scorer:      scorer,
		composer:    composer,
		cache:       NewCache(cfg.CacheCapacity),
	}
}

// Cache exposes the engine's response cache for callers that need direct
// get/put access.
func (e *Engine) Cache() *Cache {
	return e.cache
}

// Parse exposes query interpretation without running a recommendation.
func (e *Engine) Parse(text string) (model.ParsedQuery, error) {
	return e.interpreter.Parse(text)
}

// Recommend turns a free-text query and a card snapshot into a ranked,
// explained recommendation. Identical inputs always yield identical
// responses. An empty card snapshot fails before any parsing cost is
// spent; an unrecognized category is soft and falls back to general.
func (e *Engine) Recommend(_ context.Context, queryText string, cards []model.Card, prefs model.UserPreferences, asOf time.Time) (model.RecommendationResponse, error) {
	if len(cards) == 0 {
		return model.RecommendationResponse{}, common.ErrNoCardsAvailable
	}

	key := Key(queryText, cards)
	if cached, ok := e.cache.Get(key); ok {
		slog.Debug("Recommendation cache hit", "key", key)
		return cached, nil
	}

	parsed, err := e.interpreter.Parse(queryText)
	if err != nil {
		return model.RecommendationResponse{}, err
	}

	category := parsed.EffectiveCategory()

	scores := make(model.CardScores, 0, len(cards))
	for i, card := range cards {
		if !card.IsActive {
			continue
		}
		cs := e.scorer.Score(card, category, prefs, asOf)
		cs.InputIndex = i
		scores = append(scores, cs)
	}

	resp := e.composer.Compose(scores, prefs)

	slog.Debug("Composed recommendation",
		"category", category,
		"confidence", parsed.Confidence,
		"scored_cards", len(scores),
		"has_primary", resp.HasRecommendation())

	e.cache.Put(key, resp)

	return resp, nil
}
