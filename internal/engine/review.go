package engine

import (
	"context"
	"fmt"

	"github.com/Veraticus/recurring-spice/internal/model"
)

// ReviewStats summarizes a review session.
type ReviewStats struct {
	Confirmed int
	Dismissed int
	Skipped   int
	// Stale counts verdicts dropped because a transaction was matched to
	// another pattern while the review was open.
	Stale int
}

// Review detects patterns in a space, hands them to the reviewer and persists
// the verdicts. Confirmed and dismissed candidates are stored with that status
// and their transactions linked; skipped candidates are left for the next run.
func (e *Engine) Review(ctx context.Context, spaceID string, reviewer Reviewer) (ReviewStats, error) {
	var stats ReviewStats

	detected, err := e.DetectPatterns(ctx, spaceID)
	if err != nil {
		return stats, err
	}
	if len(detected) == 0 {
		return stats, nil
	}

	decisions, err := reviewer.ReviewPatterns(ctx, detected)
	if err != nil {
		return stats, fmt.Errorf("review failed: %w", err)
	}

	var confirmed, dismissed []model.DetectedPattern
	for _, d := range decisions {
		switch d.Status {
		case model.PatternConfirmed:
			confirmed = append(confirmed, d.Pattern)
		case model.PatternDismissed:
			dismissed = append(dismissed, d.Pattern)
		default:
			stats.Skipped++
		}
	}
	stats.Skipped += len(detected) - len(decisions)

	saved, err := e.saveWithStatus(ctx, spaceID, confirmed, model.PatternConfirmed)
	if err != nil {
		return stats, err
	}
	stats.Confirmed = len(saved)
	stats.Stale += len(confirmed) - len(saved)

	saved, err = e.saveWithStatus(ctx, spaceID, dismissed, model.PatternDismissed)
	if err != nil {
		return stats, err
	}
	stats.Dismissed = len(saved)
	stats.Stale += len(dismissed) - len(saved)

	return stats, nil
}
