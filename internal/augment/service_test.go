package augment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardwise/internal/common"
	"cardwise/internal/limits"
	"cardwise/internal/model"
	"cardwise/internal/query"
	"cardwise/internal/recommend"
	"cardwise/internal/scoring"
)

var asOf = time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)

func newCoreEngine() *recommend.Engine {
	return recommend.NewEngine(
		query.NewInterpreter(),
		scoring.NewEngine(limits.NewTracker()),
		recommend.NewComposer(),
		recommend.DefaultConfig(),
	)
}

func testCards() []model.Card {
	return []model.Card{{
		ID:       "amex-gold",
		Name:     "Amex Gold",
		IsActive: true,
		RewardCategories: []model.RewardCategory{
			{Category: model.CategoryGroceries, Multiplier: 4.0, PointType: model.PointsMembershipRewards, IsActive: true},
		},
	}}
}

// failingAugmenter always errors, counting its calls.
type failingAugmenter struct {
	calls int
}

func (f *failingAugmenter) Augment(_ context.Context, _ string, _ string) (string, error) {
	f.calls++
	return "", errors.New("provider down")
}

func TestService_Recommend_WithNarrative(t *testing.T) {
	augmenter, err := NewAugmenter(Config{Provider: "template"})
	require.NoError(t, err)

	svc := NewService(newCoreEngine(), augmenter)
	resp, narrative, err := svc.Recommend(context.Background(), "buying groceries", testCards(), model.DefaultPreferences(), asOf)
	require.NoError(t, err)

	require.NotNil(t, resp.Primary)
	assert.Contains(t, narrative, `For "buying groceries"`)
	assert.Contains(t, narrative, "Amex Gold")
}

func TestService_Recommend_NilAugmenter(t *testing.T) {
	svc := NewService(newCoreEngine(), nil)

	resp, narrative, err := svc.Recommend(context.Background(), "buying groceries", testCards(), model.DefaultPreferences(), asOf)
	require.NoError(t, err)
	require.NotNil(t, resp.Primary)
	assert.Empty(t, narrative)
}

func TestService_Recommend_AugmenterFailureDegrades(t *testing.T) {
	failing := &failingAugmenter{}
	svc := NewService(newCoreEngine(), failing)

	resp, narrative, err := svc.Recommend(context.Background(), "buying groceries", testCards(), model.DefaultPreferences(), asOf)
	require.NoError(t, err)

	require.NotNil(t, resp.Primary)
	assert.Empty(t, narrative)
	assert.Equal(t, 2, failing.calls)
}

func TestService_Recommend_CoreErrorPropagates(t *testing.T) {
	augmenter, err := NewAugmenter(Config{})
	require.NoError(t, err)
	svc := NewService(newCoreEngine(), augmenter)

	_, _, err = svc.Recommend(context.Background(), "buying groceries", nil, model.DefaultPreferences(), asOf)
	assert.ErrorIs(t, err, common.ErrNoCardsAvailable)
}

func TestTemplateAugmenter_Deterministic(t *testing.T) {
	a := newTemplateAugmenter(0)

	first, err := a.Augment(context.Background(), "buying groceries", "Amex Gold earns 4.0x Membership Rewards on groceries")
	require.NoError(t, err)

	again, err := a.Augment(context.Background(), "buying groceries", "Amex Gold earns 4.0x Membership Rewards on groceries")
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.Equal(t, `For "buying groceries": Amex Gold earns 4.0x Membership Rewards on groceries.`, first)
	assert.Equal(t, 1, a.cache.size())
}

func TestTemplateAugmenter_EmptyContext(t *testing.T) {
	a := newTemplateAugmenter(0)

	_, err := a.Augment(context.Background(), "buying groceries", "   ")
	assert.ErrorIs(t, err, common.ErrAugmentUnavailable)
}

func TestTemplateAugmenter_CancelledContext(t *testing.T) {
	a := newTemplateAugmenter(0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Augment(ctx, "buying groceries", "some context")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewAugmenter_UnknownProvider(t *testing.T) {
	_, err := NewAugmenter(Config{Provider: "gpt-next"})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestWrapCoreError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "invalid query passes through", err: common.NewInvalidQueryError("too short"), want: common.ErrInvalidQuery},
		{name: "no cards passes through", err: common.ErrNoCardsAvailable, want: common.ErrNoCardsAvailable},
		{name: "unexpected failure becomes processing", err: errors.New("snapshot corrupt"), want: common.ErrProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, wrapCoreError(tt.err), tt.want)
		})
	}
}

func TestContextCache_Expiry(t *testing.T) {
	c := newContextCache(10 * time.Millisecond)

	c.set("k", "v")
	got, ok := c.get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	time.Sleep(20 * time.Millisecond)

	_, ok = c.get("k")
	assert.False(t, ok)

	// The expired entry is swept on the next write.
	c.set("other", "v2")
	assert.Equal(t, 1, c.size())
}
