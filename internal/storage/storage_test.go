package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardwise/internal/common"
	"cardwise/internal/model"
)

func setupTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testCard() *model.Card {
	return &model.Card{
		Name:     "Amex Gold",
		Family:   "American Express",
		IsActive: true,
		RewardCategories: []model.RewardCategory{
			{Category: model.CategoryGroceries, Multiplier: 4.0, PointType: model.PointsMembershipRewards, IsActive: true},
			{Category: model.CategoryDining, Multiplier: 4.0, PointType: model.PointsMembershipRewards, IsActive: true},
		},
		SpendingLimits: []model.SpendingLimit{
			{
				Category:        model.CategoryGroceries,
				Limit:           1000,
				CurrentSpending: 250,
				ResetDate:       time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
				ResetCycle:      model.ResetMonthly,
			},
		},
		QuarterlyBonus: &model.QuarterlyBonus{
			Category:   model.CategoryGas,
			PointType:  model.PointsMembershipRewards,
			Multiplier: 5.0,
			Limit:      1500,
			Quarter:    3,
			Year:       2026,
		},
	}
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := setupTestStorage(t)

	// A second run is a no-op at the expected version.
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSaveCard_RoundTrip(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	card := testCard()
	require.NoError(t, store.SaveCard(ctx, card))
	require.NotEmpty(t, card.ID)

	got, err := store.GetCard(ctx, card.ID)
	require.NoError(t, err)

	assert.Equal(t, card.Name, got.Name)
	assert.Equal(t, card.Family, got.Family)
	assert.True(t, got.IsActive)
	require.Len(t, got.RewardCategories, 2)
	assert.Equal(t, model.CategoryGroceries, got.RewardCategories[0].Category)
	assert.Equal(t, model.CategoryDining, got.RewardCategories[1].Category)
	require.Len(t, got.SpendingLimits, 1)
	assert.InDelta(t, 250, got.SpendingLimits[0].CurrentSpending, 0.001)
	assert.Equal(t, model.ResetMonthly, got.SpendingLimits[0].ResetCycle)
	require.NotNil(t, got.QuarterlyBonus)
	assert.Equal(t, model.CategoryGas, got.QuarterlyBonus.Category)
	assert.Equal(t, 3, got.QuarterlyBonus.Quarter)
}

func TestSaveCard_UpdateReplacesChildren(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	card := testCard()
	require.NoError(t, store.SaveCard(ctx, card))

	card.RewardCategories = card.RewardCategories[:1]
	card.QuarterlyBonus = nil
	require.NoError(t, store.SaveCard(ctx, card))

	got, err := store.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Len(t, got.RewardCategories, 1)
	assert.Nil(t, got.QuarterlyBonus)
}

func TestSaveCard_Validation(t *testing.T) {
	store := setupTestStorage(t)

	assert.Error(t, store.SaveCard(context.Background(), nil))
	assert.Error(t, store.SaveCard(context.Background(), &model.Card{}))
}

func TestGetCard_NotFound(t *testing.T) {
	store := setupTestStorage(t)

	_, err := store.GetCard(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetActiveCards_ExcludesInactive(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	active := testCard()
	require.NoError(t, store.SaveCard(ctx, active))

	inactive := testCard()
	inactive.ID = ""
	inactive.Name = "Old Card"
	inactive.IsActive = false
	require.NoError(t, store.SaveCard(ctx, inactive))

	all, err := store.GetCards(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	cards, err := store.GetActiveCards(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Amex Gold", cards[0].Name)
}

func TestDeleteCard(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	card := testCard()
	require.NoError(t, store.SaveCard(ctx, card))
	require.NoError(t, store.DeleteCard(ctx, card.ID))

	_, err := store.GetCard(ctx, card.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, store.DeleteCard(ctx, card.ID), common.ErrNotFound)
}

func TestRecordSpending_AccumulatesLimit(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	card := testCard()
	require.NoError(t, store.SaveCard(ctx, card))

	asOf := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordSpending(ctx, card.ID, model.CategoryGroceries, 100, asOf))

	got, err := store.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.InDelta(t, 350, got.SpendingLimits[0].CurrentSpending, 0.001)
}

func TestRecordSpending_RollsOverExpiredLimit(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	card := testCard()
	require.NoError(t, store.SaveCard(ctx, card))

	// Two cycles past the stored reset date: spending zeroes first and the
	// reset date advances past asOf.
	asOf := time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordSpending(ctx, card.ID, model.CategoryGroceries, 100, asOf))

	got, err := store.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100, got.SpendingLimits[0].CurrentSpending, 0.001)
	assert.Equal(t, time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC), got.SpendingLimits[0].ResetDate.UTC())
}

func TestRecordSpending_UpdatesMatchingBonus(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	card := testCard()
	require.NoError(t, store.SaveCard(ctx, card))

	inQuarter := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordSpending(ctx, card.ID, model.CategoryGas, 200, inQuarter))

	got, err := store.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.InDelta(t, 200, got.QuarterlyBonus.CurrentSpending, 0.001)

	// Outside the bonus quarter the bonus does not accumulate.
	outOfQuarter := time.Date(2026, time.November, 15, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordSpending(ctx, card.ID, model.CategoryGas, 50, outOfQuarter))

	got, err = store.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.InDelta(t, 200, got.QuarterlyBonus.CurrentSpending, 0.001)
}

func TestRecordSpending_UnknownCard(t *testing.T) {
	store := setupTestStorage(t)

	err := store.RecordSpending(context.Background(), "missing", model.CategoryGas, 10, time.Now())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRecordSpending_NegativeAmount(t *testing.T) {
	store := setupTestStorage(t)

	err := store.RecordSpending(context.Background(), "any", model.CategoryGas, -5, time.Now())
	assert.Error(t, err)
}

func TestResetExpiredLimits(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	card := testCard()
	require.NoError(t, store.SaveCard(ctx, card))

	asOf := time.Date(2026, time.September, 2, 0, 0, 0, 0, time.UTC)
	count, err := store.ResetExpiredLimits(ctx, asOf)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Zero(t, got.SpendingLimits[0].CurrentSpending)
	assert.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), got.SpendingLimits[0].ResetDate.UTC())

	// Nothing left to reset.
	count, err = store.ResetExpiredLimits(ctx, asOf)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPreferences_DefaultsWhenUnset(t *testing.T) {
	store := setupTestStorage(t)

	prefs, err := store.GetPreferences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPreferences(), prefs)
}

func TestPreferences_SaveAndGet(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	prefs := model.UserPreferences{
		PreferredPointType:   model.PointsUltimateRewards,
		WarningThreshold:     0.9,
		Language:             "en",
		NotificationsEnabled: false,
		AutoUpdateEnabled:    true,
	}
	require.NoError(t, store.SavePreferences(ctx, prefs))

	got, err := store.GetPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, prefs, got)

	prefs.WarningThreshold = 0.7
	require.NoError(t, store.SavePreferences(ctx, prefs))

	got, err = store.GetPreferences(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, got.WarningThreshold, 0.001)
}
