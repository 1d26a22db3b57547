package model

import (
	"fmt"
	"time"
)

// PatternStatus is the lifecycle state of a recurring pattern.
type PatternStatus string

// Pattern statuses.
const (
	PatternDetected  PatternStatus = "detected"
	PatternConfirmed PatternStatus = "confirmed"
	PatternPaused    PatternStatus = "paused"
	PatternDismissed PatternStatus = "dismissed"
)

// IsValid reports whether s is a known status.
func (s PatternStatus) IsValid() bool {
	switch s {
	case PatternDetected, PatternConfirmed, PatternPaused, PatternDismissed:
		return true
	}
	return false
}

// IsTracked reports whether a pattern in this status blocks re-detection of its merchant.
func (s PatternStatus) IsTracked() bool {
	return s == PatternConfirmed || s == PatternDetected
}

// CanTransitionTo reports whether a user may move a pattern from s to next.
func (s PatternStatus) CanTransitionTo(next PatternStatus) bool {
	switch s {
	case PatternDetected:
		return next == PatternConfirmed || next == PatternDismissed
	case PatternConfirmed:
		return next == PatternPaused || next == PatternDismissed
	case PatternPaused:
		return next == PatternConfirmed || next == PatternDismissed
	case PatternDismissed:
		return false
	}
	return false
}

// ParsePatternStatus converts a string into a PatternStatus.
func ParsePatternStatus(s string) (PatternStatus, error) {
	status := PatternStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown pattern status %q", s)
	}
	return status, nil
}

// RecurringPattern is a persisted, status-bearing recurring obligation.
type RecurringPattern struct {
	CreatedAt       time.Time     `json:"created_at" yaml:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" yaml:"updated_at"`
	LastOccurrence  time.Time     `json:"last_occurrence" yaml:"last_occurrence"`
	NextExpected    time.Time     `json:"next_expected" yaml:"next_expected"`
	ID              string        `json:"id" yaml:"id"`
	SpaceID         string        `json:"space_id" yaml:"space_id"`
	MerchantName    string        `json:"merchant_name" yaml:"merchant_name"`
	Currency        string        `json:"currency" yaml:"currency"`
	Frequency       Frequency     `json:"frequency" yaml:"frequency"`
	Status          PatternStatus `json:"status" yaml:"status"`
	ExpectedAmount  float64       `json:"expected_amount" yaml:"expected_amount"`
	AmountVariance  float64       `json:"amount_variance" yaml:"amount_variance"`
	Confidence      float64       `json:"confidence" yaml:"confidence"`
	OccurrenceCount int           `json:"occurrence_count" yaml:"occurrence_count"`
}

// DetectedPattern is a candidate produced by a detection run. It is never
// mutated after creation; a fresh run regenerates the whole set.
type DetectedPattern struct {
	FirstOccurrence    time.Time `json:"first_occurrence" yaml:"first_occurrence"`
	LastOccurrence     time.Time `json:"last_occurrence" yaml:"last_occurrence"`
	MerchantName       string    `json:"merchant_name" yaml:"merchant_name"`
	Currency           string    `json:"currency" yaml:"currency"`
	SuggestedFrequency Frequency `json:"suggested_frequency" yaml:"suggested_frequency"`
	TransactionIDs     []string  `json:"transaction_ids" yaml:"transaction_ids"`
	AverageAmount      float64   `json:"average_amount" yaml:"average_amount"`
	AmountVariance     float64   `json:"amount_variance" yaml:"amount_variance"`
	Confidence         float64   `json:"confidence" yaml:"confidence"`
	OccurrenceCount    int       `json:"occurrence_count" yaml:"occurrence_count"`
}

// PatternMatch is the outcome of linking one transaction to a confirmed pattern.
// It carries the pattern's new occurrence state for the caller to persist.
type PatternMatch struct {
	LastOccurrence  time.Time
	NextExpected    time.Time
	PatternID       string
	TransactionID   string
	OccurrenceCount int
}
