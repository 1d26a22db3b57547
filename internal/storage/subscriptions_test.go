package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/model"
)

func testSubscription(patternID, name string) *model.Subscription {
	next := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)
	return &model.Subscription{
		SpaceID: testSpace,
		SubscriptionClassification: model.SubscriptionClassification{
			PatternID:       patternID,
			ServiceName:     name,
			Amount:          15.99,
			Currency:        "USD",
			BillingCycle:    model.FrequencyMonthly,
			Category:        model.CategoryStreaming,
			Source:          model.SourceCatalog,
			Confidence:      0.87,
			AnnualCost:      191.88,
			NextBillingDate: &next,
		},
	}
}

func TestSaveAndGetSubscription(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	pattern := testPattern("Netflix", model.PatternConfirmed, 0.87)
	require.NoError(t, store.SaveDetectedPattern(ctx, pattern, nil))

	sub := testSubscription(pattern.ID, "Netflix")
	sub.ServiceURL = "https://www.netflix.com"
	require.NoError(t, store.SaveSubscription(ctx, sub))
	require.NotEmpty(t, sub.ID)

	got, err := store.GetSubscription(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Netflix", got.ServiceName)
	assert.Equal(t, pattern.ID, got.PatternID)
	assert.Equal(t, model.CategoryStreaming, got.Category)
	assert.Equal(t, "https://www.netflix.com", got.ServiceURL)
	assert.Empty(t, got.Icon)
	assert.Nil(t, got.LastBillingDate)
	require.NotNil(t, got.NextBillingDate)
	assert.True(t, got.NextBillingDate.Equal(*sub.NextBillingDate))
	assert.Equal(t, model.UsageFrequency(""), got.Usage)

	// A pattern backs at most one subscription.
	dup := testSubscription(pattern.ID, "Netflix again")
	assert.ErrorIs(t, store.SaveSubscription(ctx, dup), common.ErrDuplicateEntry)

	_, err = store.GetSubscription(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetSubscriptions_OrderedByAnnualCost(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	cheap := testSubscription("", "Spotify")
	cheap.AnnualCost = 119.88
	pricey := testSubscription("", "Adobe")
	pricey.AnnualCost = 659.88
	require.NoError(t, store.SaveSubscription(ctx, cheap))
	require.NoError(t, store.SaveSubscription(ctx, pricey))

	subs, err := store.GetSubscriptions(ctx, testSpace)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "Adobe", subs[0].ServiceName)
	assert.Equal(t, "Spotify", subs[1].ServiceName)
}

func TestUpdateSubscription(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	sub := testSubscription("", "Netflix")
	require.NoError(t, store.SaveSubscription(ctx, sub))

	cancelled := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	sub.Usage = model.UsageLow
	sub.CancelledAt = &cancelled
	require.NoError(t, store.UpdateSubscription(ctx, sub))

	got, err := store.GetSubscription(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UsageLow, got.Usage)
	require.NotNil(t, got.CancelledAt)
	assert.True(t, got.CancelledAt.Equal(cancelled))

	sub.ID = "missing"
	assert.ErrorIs(t, store.UpdateSubscription(ctx, sub), common.ErrNotFound)
}

func TestSaveSubscription_Validation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	sub := testSubscription("", "")
	assert.ErrorIs(t, store.SaveSubscription(ctx, sub), ErrInvalidSubscription)

	sub = testSubscription("", "Netflix")
	sub.BillingCycle = "hourly"
	assert.ErrorIs(t, store.SaveSubscription(ctx, sub), ErrInvalidSubscription)
}
