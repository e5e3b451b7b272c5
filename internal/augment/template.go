package augment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cardwise/internal/common"
)

// templateAugmenter renders a conversational wrapper around the core's
// structured output from fixed templates. It stands in for a real model
// integration and is fully deterministic.
type templateAugmenter struct {
	cache *contextCache
}

func newTemplateAugmenter(ttl time.Duration) *templateAugmenter {
	return &templateAugmenter{
		cache: newContextCache(ttl),
	}
}

// Augment produces a short narrative for the query given the core's
// context (typically the composed reasoning and warnings). An empty
// context is a failure: there is nothing to narrate, and the caller
// falls back to the rule-based response.
func (a *templateAugmenter) Augment(ctx context.Context, query string, contextText string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if strings.TrimSpace(contextText) == "" {
		return "", fmt.Errorf("%w: empty augmentation context", common.ErrAugmentUnavailable)
	}

	key := strings.ToLower(strings.TrimSpace(query)) + "\n" + contextText
	if cached, ok := a.cache.get(key); ok {
		return cached, nil
	}

	text := fmt.Sprintf("For %q: %s.", strings.TrimSpace(query), strings.TrimSuffix(contextText, "."))

	a.cache.set(key, text)
	return text, nil
}
