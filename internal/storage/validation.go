package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/recurring-spice/internal/model"
)

// Validation errors.
var (
	ErrNilContext          = errors.New("context cannot be nil")
	ErrEmptyString         = errors.New("string parameter cannot be empty")
	ErrNilParameter        = errors.New("parameter cannot be nil")
	ErrEmptySlice          = errors.New("slice cannot be empty")
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrInvalidPattern      = errors.New("invalid recurring pattern")
	ErrInvalidSubscription = errors.New("invalid subscription")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateTransactions(transactions []model.Transaction) error {
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}
	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.SpaceID == "" {
		return fmt.Errorf("%w: missing space", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if txn.Description == "" && txn.MerchantName == "" {
		return fmt.Errorf("%w: missing description and merchant", ErrInvalidTransaction)
	}
	return nil
}

func validatePattern(p *model.RecurringPattern) error {
	if p == nil {
		return fmt.Errorf("%w: pattern", ErrNilParameter)
	}
	if p.SpaceID == "" {
		return fmt.Errorf("%w: missing space", ErrInvalidPattern)
	}
	if strings.TrimSpace(p.MerchantName) == "" {
		return fmt.Errorf("%w: missing merchant name", ErrInvalidPattern)
	}
	if !p.Frequency.IsValid() {
		return fmt.Errorf("%w: frequency %q", ErrInvalidPattern, p.Frequency)
	}
	if !p.Status.IsValid() {
		return fmt.Errorf("%w: status %q", ErrInvalidPattern, p.Status)
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v out of range", ErrInvalidPattern, p.Confidence)
	}
	return nil
}

func validateSubscription(sub *model.Subscription) error {
	if sub == nil {
		return fmt.Errorf("%w: subscription", ErrNilParameter)
	}
	if sub.SpaceID == "" {
		return fmt.Errorf("%w: missing space", ErrInvalidSubscription)
	}
	if strings.TrimSpace(sub.ServiceName) == "" {
		return fmt.Errorf("%w: missing service name", ErrInvalidSubscription)
	}
	if !sub.BillingCycle.IsValid() {
		return fmt.Errorf("%w: billing cycle %q", ErrInvalidSubscription, sub.BillingCycle)
	}
	return nil
}
