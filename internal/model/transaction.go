package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single financial transaction from any source.
// The recurring engine treats it as read-only input.
type Transaction struct {
	Date         time.Time
	PatternID    *string // Set once the transaction is linked to a recurring pattern
	ID           string
	SpaceID      string // Scope the transaction belongs to
	Description  string // Raw free-text description from the bank
	MerchantName string // Merchant label, empty when the source provides none
	Currency     string
	AccountID    string
	Hash         string
	Amount       float64 // Signed; debits are negative when the source says so
}

// IsLinked reports whether the transaction already belongs to a pattern.
func (t *Transaction) IsLinked() bool {
	return t.PatternID != nil && *t.PatternID != ""
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%.2f:%s:%s:%s",
		t.SpaceID,
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.MerchantName,
		t.Description,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
