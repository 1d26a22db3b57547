package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/model"
)

const subscriptionColumns = `id, space_id, pattern_id, service_name, amount, currency, billing_cycle,
	category, service_url, icon, confidence, last_billing, next_billing, annual_cost, source,
	usage_frequency, trial_ends_at, cancelled_at, ends_at, created_at`

// SaveSubscription inserts a subscription. A pattern may back at most one subscription.
func (s *SQLiteStorage) SaveSubscription(ctx context.Context, sub *model.Subscription) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSubscription(sub); err != nil {
		return err
	}

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.Currency == "" {
		sub.Currency = defaultCurrency
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscriptions (`+subscriptionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sub.ID,
		sub.SpaceID,
		nullString(sub.PatternID),
		sub.ServiceName,
		sub.Amount,
		sub.Currency,
		string(sub.BillingCycle),
		string(sub.Category),
		nullString(sub.ServiceURL),
		nullString(sub.Icon),
		sub.Confidence,
		nullTime(sub.LastBillingDate),
		nullTime(sub.NextBillingDate),
		sub.AnnualCost,
		string(sub.Source),
		nullString(string(sub.Usage)),
		nullTime(sub.TrialEndsAt),
		nullTime(sub.CancelledAt),
		nullTime(sub.EndsAt),
		sub.CreatedAt.UTC(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("subscription for pattern %s: %w", sub.PatternID, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to insert subscription: %w", err)
	}
	return nil
}

// GetSubscription retrieves a subscription by ID.
func (s *SQLiteStorage) GetSubscription(ctx context.Context, id string) (*model.Subscription, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = ?`, id)
	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subscription %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// GetSubscriptions lists a space's subscriptions, most expensive first.
func (s *SQLiteStorage) GetSubscriptions(ctx context.Context, spaceID string) ([]model.Subscription, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(spaceID, "spaceID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE space_id = ? ORDER BY annual_cost DESC, service_name`,
		spaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var subs []model.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}
	return subs, nil
}

// UpdateSubscription persists the user-editable fields of a subscription.
func (s *SQLiteStorage) UpdateSubscription(ctx context.Context, sub *model.Subscription) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSubscription(sub); err != nil {
		return err
	}
	if err := validateString(sub.ID, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET service_name = ?, amount = ?, billing_cycle = ?, category = ?, annual_cost = ?,
			next_billing = ?, usage_frequency = ?, trial_ends_at = ?, cancelled_at = ?, ends_at = ?
		WHERE id = ?
	`,
		sub.ServiceName,
		sub.Amount,
		string(sub.BillingCycle),
		string(sub.Category),
		sub.AnnualCost,
		nullTime(sub.NextBillingDate),
		nullString(string(sub.Usage)),
		nullTime(sub.TrialEndsAt),
		nullTime(sub.CancelledAt),
		nullTime(sub.EndsAt),
		sub.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("subscription %s: %w", sub.ID, common.ErrNotFound)
	}
	return nil
}

func scanSubscription(row rowScanner) (*model.Subscription, error) {
	var (
		sub          model.Subscription
		patternID    sql.NullString
		billingCycle string
		category     string
		serviceURL   sql.NullString
		icon         sql.NullString
		lastBilling  sql.NullTime
		nextBilling  sql.NullTime
		source       string
		usage        sql.NullString
		trialEndsAt  sql.NullTime
		cancelledAt  sql.NullTime
		endsAt       sql.NullTime
	)
	err := row.Scan(
		&sub.ID,
		&sub.SpaceID,
		&patternID,
		&sub.ServiceName,
		&sub.Amount,
		&sub.Currency,
		&billingCycle,
		&category,
		&serviceURL,
		&icon,
		&sub.Confidence,
		&lastBilling,
		&nextBilling,
		&sub.AnnualCost,
		&source,
		&usage,
		&trialEndsAt,
		&cancelledAt,
		&endsAt,
		&sub.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan subscription: %w", err)
	}

	sub.PatternID = patternID.String
	sub.BillingCycle = model.Frequency(billingCycle)
	sub.Category = model.SubscriptionCategory(category)
	sub.ServiceURL = serviceURL.String
	sub.Icon = icon.String
	sub.LastBillingDate = timePtr(lastBilling)
	sub.NextBillingDate = timePtr(nextBilling)
	sub.Source = model.ClassificationSource(source)
	sub.Usage = model.UsageFrequency(usage.String)
	sub.TrialEndsAt = timePtr(trialEndsAt)
	sub.CancelledAt = timePtr(cancelledAt)
	sub.EndsAt = timePtr(endsAt)
	return &sub, nil
}
