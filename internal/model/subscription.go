package model

import (
	"fmt"
	"time"
)

// SubscriptionCategory groups subscriptions for reporting.
type SubscriptionCategory string

// Subscription categories.
const (
	CategoryStreaming    SubscriptionCategory = "streaming"
	CategoryMusic        SubscriptionCategory = "music"
	CategorySoftware     SubscriptionCategory = "software"
	CategoryCloudStorage SubscriptionCategory = "cloud_storage"
	CategoryNews         SubscriptionCategory = "news"
	CategoryFitness      SubscriptionCategory = "fitness"
	CategoryGaming       SubscriptionCategory = "gaming"
	CategoryEducation    SubscriptionCategory = "education"
	CategoryShopping     SubscriptionCategory = "shopping"
	CategoryUtilities    SubscriptionCategory = "utilities"
	CategoryOther        SubscriptionCategory = "other"
)

// ClassificationSource records how a subscription was identified.
type ClassificationSource string

// Classification sources.
const (
	SourceCatalog   ClassificationSource = "catalog"
	SourceHeuristic ClassificationSource = "heuristic"
)

// UsageFrequency is how often the user reports using a subscription.
type UsageFrequency string

// Usage levels. The empty value means the user never said.
const (
	UsageLow     UsageFrequency = "low"
	UsageMedium  UsageFrequency = "medium"
	UsageHigh    UsageFrequency = "high"
	UsageUnknown UsageFrequency = "unknown"
)

// ParseUsageFrequency converts a string into a UsageFrequency.
func ParseUsageFrequency(s string) (UsageFrequency, error) {
	switch u := UsageFrequency(s); u {
	case UsageLow, UsageMedium, UsageHigh, UsageUnknown:
		return u, nil
	}
	return "", fmt.Errorf("unknown usage frequency %q", s)
}

// SubscriptionStatus is derived from a subscription's lifecycle dates.
type SubscriptionStatus string

// Subscription statuses.
const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

// SubscriptionClassification is the classifier's verdict on a confirmed pattern.
type SubscriptionClassification struct {
	LastBillingDate *time.Time
	NextBillingDate *time.Time
	PatternID       string
	ServiceName     string
	Currency        string
	ServiceURL      string
	Icon            string
	BillingCycle    Frequency
	Category        SubscriptionCategory
	Source          ClassificationSource
	Amount          float64
	AnnualCost      float64
	Confidence      float64
}

// Subscription is a persisted subscription record.
type Subscription struct {
	CreatedAt   time.Time
	TrialEndsAt *time.Time
	CancelledAt *time.Time
	EndsAt      *time.Time
	Usage       UsageFrequency
	ID          string
	SpaceID     string
	SubscriptionClassification
}

// SubscriptionInsight is a subscription enriched with its current status and savings advice.
type SubscriptionInsight struct {
	Recommendation string
	Status         SubscriptionStatus
	Subscription
}
