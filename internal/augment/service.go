package augment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cardwise/internal/common"
	"cardwise/internal/model"
	"cardwise/internal/recommend"
	"cardwise/internal/service"
)

// Service wraps the rule-based recommendation engine with optional
// augmentation. The core result is computed first and is always the
// answer; augmentation only decorates it. When the augmenter fails, the
// core response is returned untouched, with no partial state or cache
// pollution carried across the two paths.
type Service struct {
	engine    *recommend.Engine
	augmenter service.Augmenter
}

// NewService creates an augmented recommendation service. A nil augmenter
// disables augmentation entirely.
func NewService(engine *recommend.Engine, augmenter service.Augmenter) *Service {
	return &Service{
		engine:    engine,
		augmenter: augmenter,
	}
}

// Recommend runs the core engine and, when configured, asks the augmenter
// for a narrative. The augmenter gets one retried attempt window; any
// failure degrades to the plain core response.
func (s *Service) Recommend(ctx context.Context, queryText string, cards []model.Card, prefs model.UserPreferences, asOf time.Time) (model.RecommendationResponse, string, error) {
	resp, err := s.engine.Recommend(ctx, queryText, cards, prefs, asOf)
	if err != nil {
		return model.RecommendationResponse{}, "", wrapCoreError(err)
	}

	if s.augmenter == nil {
		return resp, "", nil
	}

	var narrative string
	retryErr := common.WithRetry(ctx, func() error {
		var augErr error
		narrative, augErr = s.augmenter.Augment(ctx, queryText, augmentContext(resp))
		if augErr != nil {
			return &common.RetryableError{Err: augErr, Retryable: true}
		}
		return nil
	}, service.RetryOptions{
		MaxAttempts:  2,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	})
	if retryErr != nil {
		slog.Warn("Augmentation failed, serving rule-based response",
			"error", retryErr)
		return resp, "", nil
	}

	return resp, narrative, nil
}

// wrapCoreError classifies engine failures: the validation and
// empty-snapshot sentinels pass through untouched, anything else surfaces
// as a processing failure.
func wrapCoreError(err error) error {
	if errors.Is(err, common.ErrInvalidQuery) || errors.Is(err, common.ErrNoCardsAvailable) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrProcessing, err)
}

// augmentContext flattens the composed response into the context string
// handed to the augmenter.
func augmentContext(resp model.RecommendationResponse) string {
	parts := []string{resp.Reasoning}
	parts = append(parts, resp.Warnings...)
	parts = append(parts, resp.Suggestions...)
	return strings.Join(parts, "; ")
}
