package subscription

import (
	"time"

	"github.com/Veraticus/recurring-spice/internal/model"
)

// DetermineStatus derives a subscription's status from its lifecycle dates.
// Priority is cancelled, then expired, then trial, then active.
func DetermineStatus(trialEndsAt, cancelledAt, endsAt *time.Time, now time.Time) model.SubscriptionStatus {
	switch {
	case cancelledAt != nil:
		return model.SubscriptionCancelled
	case endsAt != nil && endsAt.Before(now):
		return model.SubscriptionExpired
	case trialEndsAt != nil && trialEndsAt.After(now):
		return model.SubscriptionTrial
	default:
		return model.SubscriptionActive
	}
}
