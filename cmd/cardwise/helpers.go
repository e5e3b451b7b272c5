package main

import (
	"context"
	"fmt"

	"cardwise/internal/augment"
	"cardwise/internal/config"
	"cardwise/internal/limits"
	"cardwise/internal/query"
	"cardwise/internal/recommend"
	"cardwise/internal/scoring"
	"cardwise/internal/service"
	"cardwise/internal/storage"
)

// initStorage initializes the storage service with proper path expansion
// and runs migrations.
func initStorage(ctx context.Context, settings config.Settings) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// buildEngine wires the recommendation core from its collaborators. The
// wiring is explicit on purpose: one engine per process, no ambient
// globals.
func buildEngine(settings config.Settings) *recommend.Engine {
	interpreter := query.NewInterpreter()
	tracker := limits.NewTracker()
	scorer := scoring.NewEngine(tracker)
	composer := recommend.NewComposer()

	return recommend.NewEngine(interpreter, scorer, composer, recommend.Config{
		CacheCapacity: settings.RecommendCacheCap,
	})
}

// buildService wraps the core engine with the configured augmenter.
func buildService(settings config.Settings) (*augment.Service, error) {
	engine := buildEngine(settings)

	augmenter, err := augment.NewAugmenter(augment.Config{
		Provider: settings.AugmentProvider,
		CacheTTL: settings.AugmentCacheTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create augmenter: %w", err)
	}

	return augment.NewService(engine, augmenter), nil
}
