package subscription

import (
	"sort"
	"time"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/model"
)

// Insight attaches the current status and any savings advice to a subscription.
func Insight(sub model.Subscription, now time.Time, warningThreshold float64) model.SubscriptionInsight {
	insight := model.SubscriptionInsight{
		Subscription: sub,
		Status:       DetermineStatus(sub.TrialEndsAt, sub.CancelledAt, sub.EndsAt, now),
	}
	if insight.Status == model.SubscriptionActive || insight.Status == model.SubscriptionTrial {
		if rec, ok := RecommendSavings(sub.ServiceName, sub.Usage, sub.AnnualCost, warningThreshold); ok {
			insight.Recommendation = rec
		}
	}
	return insight
}

// SpendSummary totals the cost of live subscriptions in one currency.
type SpendSummary struct {
	Currency     string  `json:"currency" yaml:"currency"`
	MonthlyTotal float64 `json:"monthly_total" yaml:"monthly_total"`
	AnnualTotal  float64 `json:"annual_total" yaml:"annual_total"`
	Count        int     `json:"count" yaml:"count"`
}

// Summarize totals active and trial subscriptions per currency, ordered by currency code.
func Summarize(insights []model.SubscriptionInsight) []SpendSummary {
	byCurrency := make(map[string]*SpendSummary)
	for _, in := range insights {
		if in.Status != model.SubscriptionActive && in.Status != model.SubscriptionTrial {
			continue
		}
		s, ok := byCurrency[in.Currency]
		if !ok {
			s = &SpendSummary{Currency: in.Currency}
			byCurrency[in.Currency] = s
		}
		s.AnnualTotal += in.AnnualCost
		s.Count++
	}

	out := make([]SpendSummary, 0, len(byCurrency))
	for _, s := range byCurrency {
		s.AnnualTotal = common.Round2(s.AnnualTotal)
		s.MonthlyTotal = common.Round2(s.AnnualTotal / 12)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}

// Upcoming returns live subscriptions billing within horizon of now, soonest first.
func Upcoming(insights []model.SubscriptionInsight, now time.Time, horizon time.Duration) []model.SubscriptionInsight {
	end := now.Add(horizon)
	var out []model.SubscriptionInsight
	for _, in := range insights {
		if in.Status != model.SubscriptionActive && in.Status != model.SubscriptionTrial {
			continue
		}
		next := in.NextBillingDate
		if next == nil || next.Before(now) || next.After(end) {
			continue
		}
		out = append(out, in)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextBillingDate.Before(*out[j].NextBillingDate)
	})
	return out
}
