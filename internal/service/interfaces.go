// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"io"
	"time"

	"github.com/Veraticus/recurring-spice/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate    *time.Time
	EndDate      *time.Time
	SpaceID      string
	UnlinkedOnly bool
	Limit        int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)

	// Pattern operations
	SaveDetectedPattern(ctx context.Context, pattern *model.RecurringPattern, transactionIDs []string) error
	GetPattern(ctx context.Context, id string) (*model.RecurringPattern, error)
	GetPatterns(ctx context.Context, spaceID string, statuses ...model.PatternStatus) ([]model.RecurringPattern, error)
	GetUnclassifiedPatterns(ctx context.Context, spaceID string) ([]model.RecurringPattern, error)
	UpdatePatternStatus(ctx context.Context, id string, status model.PatternStatus) error
	ApplyPatternMatch(ctx context.Context, match model.PatternMatch) error

	// Subscription operations
	SaveSubscription(ctx context.Context, sub *model.Subscription) error
	GetSubscription(ctx context.Context, id string) (*model.Subscription, error)
	GetSubscriptions(ctx context.Context, spaceID string) ([]model.Subscription, error)
	UpdateSubscription(ctx context.Context, sub *model.Subscription) error

	// Maintenance
	Migrate(ctx context.Context) error
	Close() error
}

// TransactionSource parses an export file into transactions.
type TransactionSource interface {
	Parse(ctx context.Context, reader io.Reader) ([]model.Transaction, error)
}
