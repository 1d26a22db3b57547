package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/recurring-spice/internal/model"
	"github.com/Veraticus/recurring-spice/internal/subscription"
)

// ClassifySubscriptions classifies confirmed patterns that have no subscription
// yet and persists the ones that qualify.
func (e *Engine) ClassifySubscriptions(ctx context.Context, spaceID string) ([]model.Subscription, error) {
	patterns, err := e.storage.GetUnclassifiedPatterns(ctx, spaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load unclassified patterns: %w", err)
	}

	var created []model.Subscription
	for _, c := range subscription.ClassifyAll(patterns) {
		sub := model.Subscription{
			SpaceID:                    spaceID,
			SubscriptionClassification: c,
		}
		if err := e.storage.SaveSubscription(ctx, &sub); err != nil {
			return created, fmt.Errorf("failed to save subscription %s: %w", c.ServiceName, err)
		}
		created = append(created, sub)
	}

	slog.Info("Classified subscriptions",
		"space", spaceID,
		"candidates", len(patterns),
		"subscriptions", len(created))
	return created, nil
}

// SubscriptionReport is the full view of a space's subscriptions.
type SubscriptionReport struct {
	Insights []model.SubscriptionInsight
	Totals   []subscription.SpendSummary
}

// SubscriptionInsights returns every subscription with its status and savings
// advice as of now, plus spend totals for live subscriptions.
func (e *Engine) SubscriptionInsights(ctx context.Context, spaceID string, now time.Time) (SubscriptionReport, error) {
	subs, err := e.storage.GetSubscriptions(ctx, spaceID)
	if err != nil {
		return SubscriptionReport{}, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	insights := make([]model.SubscriptionInsight, len(subs))
	for i, sub := range subs {
		insights[i] = subscription.Insight(sub, now, e.config.SavingsWarningThreshold)
	}

	return SubscriptionReport{
		Insights: insights,
		Totals:   subscription.Summarize(insights),
	}, nil
}

// UpcomingRenewals returns live subscriptions billing within horizon of now.
func (e *Engine) UpcomingRenewals(ctx context.Context, spaceID string, now time.Time, horizon time.Duration) ([]model.SubscriptionInsight, error) {
	report, err := e.SubscriptionInsights(ctx, spaceID, now)
	if err != nil {
		return nil, err
	}
	return subscription.Upcoming(report.Insights, now, horizon), nil
}

// SetUsage records how often the user uses a subscription.
func (e *Engine) SetUsage(ctx context.Context, subscriptionID string, usage model.UsageFrequency) (*model.Subscription, error) {
	return e.updateSubscription(ctx, subscriptionID, func(sub *model.Subscription) {
		sub.Usage = usage
	})
}

// CancelSubscription marks a subscription cancelled at the given time.
func (e *Engine) CancelSubscription(ctx context.Context, subscriptionID string, at time.Time) (*model.Subscription, error) {
	return e.updateSubscription(ctx, subscriptionID, func(sub *model.Subscription) {
		sub.CancelledAt = &at
	})
}

// SetTrialEnd records when a subscription's free trial ends.
func (e *Engine) SetTrialEnd(ctx context.Context, subscriptionID string, at time.Time) (*model.Subscription, error) {
	return e.updateSubscription(ctx, subscriptionID, func(sub *model.Subscription) {
		sub.TrialEndsAt = &at
	})
}

// SetEndDate records when a subscription stops.
func (e *Engine) SetEndDate(ctx context.Context, subscriptionID string, at time.Time) (*model.Subscription, error) {
	return e.updateSubscription(ctx, subscriptionID, func(sub *model.Subscription) {
		sub.EndsAt = &at
	})
}

func (e *Engine) updateSubscription(ctx context.Context, id string, mutate func(*model.Subscription)) (*model.Subscription, error) {
	sub, err := e.storage.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	mutate(sub)
	if err := e.storage.UpdateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update subscription %s: %w", id, err)
	}
	return sub, nil
}
