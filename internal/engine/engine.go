// Package engine orchestrates recurring pattern detection, matching and
// subscription classification against persistent storage.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/model"
	"github.com/Veraticus/recurring-spice/internal/recurring"
	"github.com/Veraticus/recurring-spice/internal/service"
	"github.com/Veraticus/recurring-spice/internal/subscription"
)

// Engine ties the pure detection and classification core to storage.
type Engine struct {
	storage  service.Storage
	detector *recurring.Detector
	now      func() time.Time
	locks    sync.Map // space ID -> *sync.Mutex
	config   Config
}

// Config holds configuration options for the engine.
type Config struct {
	LookbackDays            int
	SavingsWarningThreshold float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		LookbackDays:            recurring.DefaultLookbackDays,
		SavingsWarningThreshold: subscription.DefaultSavingsWarningThreshold,
	}
}

// New creates an engine with the default configuration.
func New(storage service.Storage) *Engine {
	return NewWithConfig(storage, DefaultConfig())
}

// NewWithConfig creates an engine with a custom configuration.
func NewWithConfig(storage service.Storage, config Config) *Engine {
	return &Engine{
		storage:  storage,
		detector: recurring.NewDetector(config.LookbackDays),
		now:      time.Now,
		config:   config,
	}
}

// spaceLock returns the mutex that serializes detection and matching in a space.
func (e *Engine) spaceLock(spaceID string) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(spaceID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// DetectPatterns runs detection over the space's unlinked transactions.
// Merchants of confirmed and detected patterns are skipped.
func (e *Engine) DetectPatterns(ctx context.Context, spaceID string) ([]model.DetectedPattern, error) {
	mu := e.spaceLock(spaceID)
	mu.Lock()
	defer mu.Unlock()

	return e.detect(ctx, spaceID)
}

func (e *Engine) detect(ctx context.Context, spaceID string) ([]model.DetectedPattern, error) {
	transactions, err := e.storage.GetTransactions(ctx, service.TransactionFilter{
		SpaceID:      spaceID,
		UnlinkedOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	tracked, err := e.storage.GetPatterns(ctx, spaceID, model.PatternConfirmed, model.PatternDetected)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracked patterns: %w", err)
	}
	trackedNames := make([]string, len(tracked))
	for i, p := range tracked {
		trackedNames[i] = p.MerchantName
	}

	patterns := e.detector.Detect(transactions, trackedNames, e.now())

	slog.Info("Detected recurring patterns",
		"space", spaceID,
		"transactions", len(transactions),
		"tracked", len(trackedNames),
		"patterns", len(patterns))
	return patterns, nil
}

// SaveDetected persists candidates as detected patterns and links their transactions.
func (e *Engine) SaveDetected(ctx context.Context, spaceID string, detected []model.DetectedPattern) ([]model.RecurringPattern, error) {
	return e.saveWithStatus(ctx, spaceID, detected, model.PatternDetected)
}

func (e *Engine) saveWithStatus(ctx context.Context, spaceID string, detected []model.DetectedPattern, status model.PatternStatus) ([]model.RecurringPattern, error) {
	mu := e.spaceLock(spaceID)
	mu.Lock()
	defer mu.Unlock()

	saved := make([]model.RecurringPattern, 0, len(detected))
	for _, d := range detected {
		pattern := ToRecurringPattern(spaceID, d, status)
		err := e.storage.SaveDetectedPattern(ctx, &pattern, d.TransactionIDs)
		if errors.Is(err, common.ErrAlreadyLinked) {
			// Matched since detection ran; the next detection sees the new state.
			slog.Warn("Skipping stale detected pattern",
				"space", spaceID,
				"merchant", d.MerchantName,
				"error", err)
			continue
		}
		if err != nil {
			return saved, fmt.Errorf("failed to save pattern for %s: %w", d.MerchantName, err)
		}
		saved = append(saved, pattern)
	}
	return saved, nil
}

// ToRecurringPattern converts a detection candidate into a pattern ready to persist.
func ToRecurringPattern(spaceID string, d model.DetectedPattern, status model.PatternStatus) model.RecurringPattern {
	return model.RecurringPattern{
		SpaceID:         spaceID,
		MerchantName:    d.MerchantName,
		ExpectedAmount:  d.AverageAmount,
		AmountVariance:  d.AmountVariance,
		Frequency:       d.SuggestedFrequency,
		Status:          status,
		LastOccurrence:  d.LastOccurrence,
		NextExpected:    model.NextExpected(d.LastOccurrence, d.SuggestedFrequency),
		OccurrenceCount: d.OccurrenceCount,
		Confidence:      d.Confidence,
		Currency:        d.Currency,
	}
}

// MatchStats summarizes a matching run.
type MatchStats struct {
	Examined int
	Matched  int
}

// MatchPending links unlinked transactions, oldest first, to confirmed
// patterns. Each match updates the in-memory pattern so later transactions
// see the advanced occurrence state.
func (e *Engine) MatchPending(ctx context.Context, spaceID string) (MatchStats, error) {
	mu := e.spaceLock(spaceID)
	mu.Lock()
	defer mu.Unlock()

	var stats MatchStats

	patterns, err := e.storage.GetPatterns(ctx, spaceID, model.PatternConfirmed)
	if err != nil {
		return stats, fmt.Errorf("failed to load confirmed patterns: %w", err)
	}
	if len(patterns) == 0 {
		return stats, nil
	}

	transactions, err := e.storage.GetTransactions(ctx, service.TransactionFilter{
		SpaceID:      spaceID,
		UnlinkedOnly: true,
	})
	if err != nil {
		return stats, fmt.Errorf("failed to load transactions: %w", err)
	}

	index := make(map[string]int, len(patterns))
	for i, p := range patterns {
		index[p.ID] = i
	}

	for _, txn := range transactions {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		stats.Examined++
		match, ok := recurring.Match(txn, patterns)
		if !ok {
			continue
		}
		err := e.storage.ApplyPatternMatch(ctx, match)
		if errors.Is(err, common.ErrAlreadyLinked) {
			slog.Debug("Transaction linked elsewhere, skipping", "transaction", txn.ID)
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("failed to apply match for transaction %s: %w", txn.ID, err)
		}
		i := index[match.PatternID]
		patterns[i] = recurring.Apply(patterns[i], match)
		stats.Matched++

		slog.Debug("Matched transaction to pattern",
			"transaction", txn.ID,
			"pattern", match.PatternID,
			"occurrences", match.OccurrenceCount)
	}

	slog.Info("Matched pending transactions",
		"space", spaceID,
		"examined", stats.Examined,
		"matched", stats.Matched)
	return stats, nil
}

// SetPatternStatus applies a user status transition.
func (e *Engine) SetPatternStatus(ctx context.Context, patternID string, status model.PatternStatus) (*model.RecurringPattern, error) {
	pattern, err := e.storage.GetPattern(ctx, patternID)
	if err != nil {
		return nil, err
	}
	if !pattern.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s to %s", common.ErrInvalidStatusTransition, pattern.Status, status)
	}
	if err := e.storage.UpdatePatternStatus(ctx, patternID, status); err != nil {
		return nil, err
	}

	common.LogInfo("Pattern status changed", common.Fields{
		"pattern":  patternID,
		"merchant": pattern.MerchantName,
		"from":     string(pattern.Status),
		"to":       string(status),
	})
	pattern.Status = status
	return pattern, nil
}

// Patterns lists a space's stored patterns, optionally filtered by status.
func (e *Engine) Patterns(ctx context.Context, spaceID string, statuses ...model.PatternStatus) ([]model.RecurringPattern, error) {
	return e.storage.GetPatterns(ctx, spaceID, statuses...)
}

// ImportTransactions stores transactions, skipping any already known. It
// returns how many were new.
func (e *Engine) ImportTransactions(ctx context.Context, transactions []model.Transaction) (int, error) {
	if len(transactions) == 0 {
		return 0, nil
	}
	inserted, err := e.storage.SaveTransactions(ctx, transactions)
	if err != nil {
		return 0, fmt.Errorf("failed to save transactions: %w", err)
	}
	slog.Info("Imported transactions",
		"received", len(transactions),
		"inserted", inserted)
	return inserted, nil
}
