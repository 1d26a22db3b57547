package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/recurring-spice/internal/model"
)

func confirmPattern(t *testing.T, e *Engine, merchant string) model.RecurringPattern {
	t.Helper()
	ctx := context.Background()
	detected, err := e.DetectPatterns(ctx, testSpace)
	require.NoError(t, err)

	for _, d := range detected {
		if d.MerchantName != merchant {
			continue
		}
		saved, err := e.SaveDetected(ctx, testSpace, []model.DetectedPattern{d})
		require.NoError(t, err)
		p, err := e.SetPatternStatus(ctx, saved[0].ID, model.PatternConfirmed)
		require.NoError(t, err)
		return *p
	}
	t.Fatalf("merchant %s not detected", merchant)
	return model.RecurringPattern{}
}

func TestEngine_ClassifySubscriptions(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	seed(t, store, "Netflix", 15.99, 0, 6, 30)
	seed(t, store, "Corner Bakery", 12.00, 3, 6, 30)
	netflix := confirmPattern(t, e, "Netflix")
	confirmPattern(t, e, "Corner Bakery")

	subs, err := e.ClassifySubscriptions(ctx, testSpace)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Netflix", subs[0].ServiceName)
	assert.Equal(t, netflix.ID, subs[0].PatternID)
	assert.Equal(t, model.SourceCatalog, subs[0].Source)
	assert.InDelta(t, 191.88, subs[0].AnnualCost, 1e-9)

	// Already classified patterns are not classified twice.
	again, err := e.ClassifySubscriptions(ctx, testSpace)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestEngine_SubscriptionInsights(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	seed(t, store, "Netflix", 15.99, 0, 6, 30)
	seed(t, store, "Spotify", 9.99, 5, 6, 30)
	confirmPattern(t, e, "Netflix")
	confirmPattern(t, e, "Spotify")
	subs, err := e.ClassifySubscriptions(ctx, testSpace)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	var netflixID, spotifyID string
	for _, s := range subs {
		switch s.ServiceName {
		case "Netflix":
			netflixID = s.ID
		case "Spotify":
			spotifyID = s.ID
		}
	}

	_, err = e.SetUsage(ctx, netflixID, model.UsageLow)
	require.NoError(t, err)
	now := start.AddDate(0, 6, 0)
	_, err = e.CancelSubscription(ctx, spotifyID, now.AddDate(0, 0, -1))
	require.NoError(t, err)

	report, err := e.SubscriptionInsights(ctx, testSpace, now)
	require.NoError(t, err)
	require.Len(t, report.Insights, 2)

	byName := make(map[string]model.SubscriptionInsight)
	for _, in := range report.Insights {
		byName[in.ServiceName] = in
	}
	assert.Equal(t, model.SubscriptionActive, byName["Netflix"].Status)
	assert.Equal(t, "Consider cancelling Netflix. You rarely use it and it costs $191.88/year.",
		byName["Netflix"].Recommendation)
	assert.Equal(t, model.SubscriptionCancelled, byName["Spotify"].Status)
	assert.Empty(t, byName["Spotify"].Recommendation)

	require.Len(t, report.Totals, 1)
	assert.Equal(t, 1, report.Totals[0].Count)
	assert.InDelta(t, 191.88, report.Totals[0].AnnualTotal, 1e-9)
	assert.InDelta(t, 15.99, report.Totals[0].MonthlyTotal, 1e-9)
}

func TestEngine_UpcomingRenewals(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	// Last charge on day 150, so the next is due on day 180.
	seed(t, store, "Netflix", 15.99, 0, 6, 30)
	confirmPattern(t, e, "Netflix")
	_, err := e.ClassifySubscriptions(ctx, testSpace)
	require.NoError(t, err)

	due := start.AddDate(0, 0, 180)

	upcoming, err := e.UpcomingRenewals(ctx, testSpace, due.AddDate(0, 0, -3), 7*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.True(t, upcoming[0].NextBillingDate.Equal(due))

	upcoming, err = e.UpcomingRenewals(ctx, testSpace, due.AddDate(0, 0, -10), 7*24*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, upcoming)
}

func TestEngine_SubscriptionLifecycleDates(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	seed(t, store, "Netflix", 15.99, 0, 6, 30)
	confirmPattern(t, e, "Netflix")
	subs, err := e.ClassifySubscriptions(ctx, testSpace)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	id := subs[0].ID

	now := start.AddDate(0, 6, 0)
	_, err = e.SetTrialEnd(ctx, id, now.AddDate(0, 0, 14))
	require.NoError(t, err)
	report, err := e.SubscriptionInsights(ctx, testSpace, now)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionTrial, report.Insights[0].Status)

	_, err = e.SetEndDate(ctx, id, now.AddDate(0, 0, -1))
	require.NoError(t, err)
	report, err = e.SubscriptionInsights(ctx, testSpace, now)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionExpired, report.Insights[0].Status)
}
