package subscription

import (
	"testing"
	"time"

	"github.com/Veraticus/recurring-spice/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestAnnualCost(t *testing.T) {
	tests := []struct {
		amount float64
		cycle  model.Frequency
		want   float64
	}{
		{9.99, model.FrequencyMonthly, 119.88},
		{1.5, model.FrequencyDaily, 547.5},
		{4.99, model.FrequencyWeekly, 259.48},
		{20, model.FrequencyBiweekly, 520},
		{29.99, model.FrequencyQuarterly, 119.96},
		{139, model.FrequencyYearly, 139},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AnnualCost(tt.amount, tt.cycle), "%v %s", tt.amount, tt.cycle)
	}
}

func TestRecommendSavings(t *testing.T) {
	t.Run("low usage recommends cancelling", func(t *testing.T) {
		rec, ok := RecommendSavings("Netflix", model.UsageLow, 180, DefaultSavingsWarningThreshold)
		assert.True(t, ok)
		assert.Contains(t, rec, "Netflix")
		assert.Contains(t, rec, "$180.00/year")
		assert.Contains(t, rec, "cancelling")
	})

	t.Run("medium usage above threshold recommends annual billing", func(t *testing.T) {
		rec, ok := RecommendSavings("Spotify", model.UsageMedium, 131.88, DefaultSavingsWarningThreshold)
		assert.True(t, ok)
		assert.Contains(t, rec, "annual billing")
		assert.Contains(t, rec, "$131.88/year")
	})

	t.Run("medium usage at threshold gets nothing", func(t *testing.T) {
		_, ok := RecommendSavings("Spotify", model.UsageMedium, 100, DefaultSavingsWarningThreshold)
		assert.False(t, ok)
	})

	for _, usage := range []model.UsageFrequency{model.UsageHigh, model.UsageUnknown, ""} {
		_, ok := RecommendSavings("Netflix", usage, 500, DefaultSavingsWarningThreshold)
		assert.False(t, ok, "usage %q", usage)
	}
}

func TestDetermineStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	tests := []struct {
		name      string
		trial     *time.Time
		cancelled *time.Time
		end       *time.Time
		want      model.SubscriptionStatus
	}{
		{"nothing set", nil, nil, nil, model.SubscriptionActive},
		{"cancelled beats everything", &future, &past, &past, model.SubscriptionCancelled},
		{"expired beats trial", &future, nil, &past, model.SubscriptionExpired},
		{"future end is still active", nil, nil, &future, model.SubscriptionActive},
		{"trial running", &future, nil, nil, model.SubscriptionTrial},
		{"trial over", &past, nil, nil, model.SubscriptionActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineStatus(tt.trial, tt.cancelled, tt.end, now))
		})
	}
}
