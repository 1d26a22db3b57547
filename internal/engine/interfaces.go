package engine

import (
	"context"

	"github.com/Veraticus/recurring-spice/internal/model"
)

// Decision is a user's verdict on one detected pattern.
type Decision struct {
	Pattern model.DetectedPattern
	Status  model.PatternStatus // PatternConfirmed or PatternDismissed; empty means skipped
}

// Reviewer defines the contract for user review of detected patterns.
type Reviewer interface {
	ReviewPatterns(ctx context.Context, patterns []model.DetectedPattern) ([]Decision, error)
}
