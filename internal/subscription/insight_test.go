package subscription

import (
	"testing"
	"time"

	"github.com/Veraticus/recurring-spice/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sub(name string, annual float64, usage model.UsageFrequency, next time.Time) model.Subscription {
	return model.Subscription{
		ID:    "s-" + name,
		Usage: usage,
		SubscriptionClassification: model.SubscriptionClassification{
			ServiceName:     name,
			Currency:        "USD",
			AnnualCost:      annual,
			NextBillingDate: &next,
		},
	}
}

func TestInsight(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	in := Insight(sub("Netflix", 180, model.UsageLow, now), now, DefaultSavingsWarningThreshold)
	assert.Equal(t, model.SubscriptionActive, in.Status)
	assert.Contains(t, in.Recommendation, "$180.00/year")

	cancelled := sub("Hulu", 95.88, model.UsageLow, now)
	cancelled.CancelledAt = &now
	in = Insight(cancelled, now, DefaultSavingsWarningThreshold)
	assert.Equal(t, model.SubscriptionCancelled, in.Status)
	assert.Empty(t, in.Recommendation)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	insights := []model.SubscriptionInsight{
		Insight(sub("Netflix", 191.88, "", now), now, 100),
		Insight(sub("Spotify", 119.88, "", now), now, 100),
	}
	cancelled := sub("Hulu", 95.88, "", now)
	cancelled.CancelledAt = &now
	insights = append(insights, Insight(cancelled, now, 100))

	eur := sub("Deezer", 131.88, "", now)
	eur.Currency = "EUR"
	insights = append(insights, Insight(eur, now, 100))

	got := Summarize(insights)
	require.Len(t, got, 2)
	assert.Equal(t, SpendSummary{Currency: "EUR", AnnualTotal: 131.88, MonthlyTotal: 10.99, Count: 1}, got[0])
	assert.Equal(t, SpendSummary{Currency: "USD", AnnualTotal: 311.76, MonthlyTotal: 25.98, Count: 2}, got[1])
}

func TestUpcoming(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	insights := []model.SubscriptionInsight{
		Insight(sub("Later", 10, "", now.AddDate(0, 0, 20)), now, 100),
		Insight(sub("Soon", 10, "", now.AddDate(0, 0, 5)), now, 100),
		Insight(sub("Sooner", 10, "", now.AddDate(0, 0, 2)), now, 100),
		Insight(sub("Past", 10, "", now.AddDate(0, 0, -2)), now, 100),
	}

	got := Upcoming(insights, now, 7*24*time.Hour)
	require.Len(t, got, 2)
	assert.Equal(t, "Sooner", got[0].ServiceName)
	assert.Equal(t, "Soon", got[1].ServiceName)
}
