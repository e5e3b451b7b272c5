package augment

import (
	"fmt"
	"strings"
	"time"

	"cardwise/internal/common"
	"cardwise/internal/service"
)

// Config selects and tunes an augmentation provider.
type Config struct {
	Provider string
	CacheTTL time.Duration
}

// NewAugmenter creates an augmentation provider based on the provided
// configuration. The "template" provider is a deterministic, model-free
// stand-in; real model providers can be slotted in behind the same
// interface.
func NewAugmenter(cfg Config) (service.Augmenter, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "template":
		return newTemplateAugmenter(cfg.CacheTTL), nil
	default:
		return nil, fmt.Errorf("%w: unsupported augmentation provider %q", common.ErrInvalidConfig, cfg.Provider)
	}
}
