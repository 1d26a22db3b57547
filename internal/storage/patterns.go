package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/model"
)

const patternColumns = `id, space_id, merchant_name, expected_amount, amount_variance, frequency, status,
	last_occurrence, next_expected, occurrence_count, confidence, currency, created_at, updated_at`

// SaveDetectedPattern inserts a pattern and links its source transactions in one
// database transaction. A missing ID is generated.
func (s *SQLiteStorage) SaveDetectedPattern(ctx context.Context, pattern *model.RecurringPattern, transactionIDs []string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePattern(pattern); err != nil {
		return err
	}

	if pattern.ID == "" {
		pattern.ID = uuid.NewString()
	}
	if pattern.Currency == "" {
		pattern.Currency = defaultCurrency
	}
	now := time.Now().UTC()
	pattern.CreatedAt = now
	pattern.UpdatedAt = now

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO recurring_patterns (`+patternColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			pattern.ID,
			pattern.SpaceID,
			pattern.MerchantName,
			pattern.ExpectedAmount,
			pattern.AmountVariance,
			string(pattern.Frequency),
			string(pattern.Status),
			pattern.LastOccurrence.UTC(),
			pattern.NextExpected.UTC(),
			pattern.OccurrenceCount,
			pattern.Confidence,
			pattern.Currency,
			pattern.CreatedAt,
			pattern.UpdatedAt,
		)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return fmt.Errorf("pattern %s: %w", pattern.ID, common.ErrDuplicateEntry)
			}
			return fmt.Errorf("failed to insert pattern: %w", err)
		}

		return linkTransactions(ctx, tx, pattern.ID, transactionIDs)
	})
	if err != nil {
		return err
	}

	slog.Debug("Saved recurring pattern",
		"id", pattern.ID,
		"merchant", pattern.MerchantName,
		"linked", len(transactionIDs))
	return nil
}

// linkTransactions claims unlinked transactions for a pattern. A transaction
// linked elsewhere since detection fails with common.ErrAlreadyLinked.
func linkTransactions(ctx context.Context, tx *sql.Tx, patternID string, transactionIDs []string) error {
	if len(transactionIDs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `UPDATE transactions SET pattern_id = ? WHERE id = ? AND pattern_id IS NULL`)
	if err != nil {
		return fmt.Errorf("failed to prepare link statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, id := range transactionIDs {
		result, err := stmt.ExecContext(ctx, patternID, id)
		if err != nil {
			return fmt.Errorf("failed to link transaction %s: %w", id, err)
		}
		if n, _ := result.RowsAffected(); n == 1 {
			continue
		}

		var existing sql.NullString
		err = tx.QueryRowContext(ctx, `SELECT pattern_id FROM transactions WHERE id = ?`, id).Scan(&existing)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check transaction %s: %w", id, err)
		}
		return fmt.Errorf("transaction %s linked to %s: %w", id, existing.String, common.ErrAlreadyLinked)
	}
	return nil
}

// GetPattern retrieves a pattern by ID.
func (s *SQLiteStorage) GetPattern(ctx context.Context, id string) (*model.RecurringPattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+patternColumns+` FROM recurring_patterns WHERE id = ?`, id)
	pattern, err := scanPattern(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pattern %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return pattern, nil
}

// GetPatterns lists a space's patterns, optionally restricted to the given statuses.
// Results are ordered by confidence, highest first.
func (s *SQLiteStorage) GetPatterns(ctx context.Context, spaceID string, statuses ...model.PatternStatus) ([]model.RecurringPattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(spaceID, "spaceID"); err != nil {
		return nil, err
	}

	query := `SELECT ` + patternColumns + ` FROM recurring_patterns WHERE space_id = ?`
	args := []any{spaceID}
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += " AND status IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY confidence DESC, merchant_name"

	return s.queryPatterns(ctx, query, args...)
}

// GetUnclassifiedPatterns lists confirmed patterns that have no subscription yet.
func (s *SQLiteStorage) GetUnclassifiedPatterns(ctx context.Context, spaceID string) ([]model.RecurringPattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(spaceID, "spaceID"); err != nil {
		return nil, err
	}

	query := `SELECT ` + patternColumns + ` FROM recurring_patterns p
		WHERE p.space_id = ? AND p.status = ?
		AND NOT EXISTS (SELECT 1 FROM subscriptions s WHERE s.pattern_id = p.id)
		ORDER BY p.confidence DESC, p.merchant_name`

	return s.queryPatterns(ctx, query, spaceID, string(model.PatternConfirmed))
}

func (s *SQLiteStorage) queryPatterns(ctx context.Context, query string, args ...any) ([]model.RecurringPattern, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patterns []model.RecurringPattern
	for rows.Next() {
		pattern, err := scanPattern(rows)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, *pattern)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patterns: %w", err)
	}
	return patterns, nil
}

// UpdatePatternStatus sets a pattern's status. Transition rules are enforced by the caller.
func (s *SQLiteStorage) UpdatePatternStatus(ctx context.Context, id string, status model.PatternStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if !status.IsValid() {
		return fmt.Errorf("%w: status %q", ErrInvalidPattern, status)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE recurring_patterns SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update pattern status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("pattern %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// ApplyPatternMatch links the matched transaction and advances the pattern's
// occurrence state atomically.
func (s *SQLiteStorage) ApplyPatternMatch(ctx context.Context, match model.PatternMatch) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(match.PatternID, "patternID"); err != nil {
		return err
	}
	if err := validateString(match.TransactionID, "transactionID"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE recurring_patterns
			SET last_occurrence = ?, next_expected = ?, occurrence_count = ?, updated_at = ?
			WHERE id = ?
		`,
			match.LastOccurrence.UTC(),
			match.NextExpected.UTC(),
			match.OccurrenceCount,
			time.Now().UTC(),
			match.PatternID,
		)
		if err != nil {
			return fmt.Errorf("failed to update pattern occurrence: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return fmt.Errorf("pattern %s: %w", match.PatternID, common.ErrNotFound)
		}

		return linkTransactions(ctx, tx, match.PatternID, []string{match.TransactionID})
	})
}

func scanPattern(row rowScanner) (*model.RecurringPattern, error) {
	var (
		p              model.RecurringPattern
		frequency      string
		status         string
		lastOccurrence sql.NullTime
		nextExpected   sql.NullTime
	)
	err := row.Scan(
		&p.ID,
		&p.SpaceID,
		&p.MerchantName,
		&p.ExpectedAmount,
		&p.AmountVariance,
		&frequency,
		&status,
		&lastOccurrence,
		&nextExpected,
		&p.OccurrenceCount,
		&p.Confidence,
		&p.Currency,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan pattern: %w", err)
	}

	p.Frequency = model.Frequency(frequency)
	p.Status = model.PatternStatus(status)
	p.LastOccurrence = lastOccurrence.Time
	p.NextExpected = nextExpected.Time
	return &p, nil
}
