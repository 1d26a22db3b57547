// Package ledger builds synthetic transaction histories for tests. Charges
// repeat on a fixed day interval from a start date, so detection and
// matching tests can describe a history in one line per merchant.
//
// Example usage:
//
//	txns := ledger.NewBuilder("household", start).
//		WithCharge("Netflix", 15.99, 6, 30).
//		WithOneOff("Hardware Store", 82.10, 12).
//		Build()
package ledger

import (
	"fmt"
	"time"

	"github.com/Veraticus/recurring-spice/internal/model"
)

// Charge describes one repeating debit.
type Charge struct {
	Merchant string
	Amount   float64
	Count    int
	Every    int // days between charges
	Offset   int // days after the builder's start
	Currency string
}

// Builder accumulates charges for a single space.
type Builder struct {
	start   time.Time
	spaceID string
	account string
	charges []Charge
}

// NewBuilder creates a builder whose charges are dated from start.
func NewBuilder(spaceID string, start time.Time) *Builder {
	return &Builder{spaceID: spaceID, start: start, account: "checking"}
}

// WithAccount sets the account stamped on every transaction.
func (b *Builder) WithAccount(accountID string) *Builder {
	b.account = accountID
	return b
}

// WithCharge adds count debits of amount, every days apart, starting at the
// builder's start date.
func (b *Builder) WithCharge(merchant string, amount float64, count, every int) *Builder {
	return b.WithCharges(Charge{Merchant: merchant, Amount: amount, Count: count, Every: every})
}

// WithOneOff adds a single debit offset days after the start date.
func (b *Builder) WithOneOff(merchant string, amount float64, offset int) *Builder {
	return b.WithCharges(Charge{Merchant: merchant, Amount: amount, Count: 1, Offset: offset})
}

// WithCharges adds arbitrary charges.
func (b *Builder) WithCharges(charges ...Charge) *Builder {
	b.charges = append(b.charges, charges...)
	return b
}

// WithFixture adds the charges of a predefined fixture.
func (b *Builder) WithFixture(fixture Fixture) *Builder {
	return b.WithCharges(fixture.Charges()...)
}

// Build expands the charges into transactions. IDs are stable across calls:
// merchant, offset and sequence number.
func (b *Builder) Build() []model.Transaction {
	var txns []model.Transaction
	for _, c := range b.charges {
		currency := c.Currency
		if currency == "" {
			currency = "USD"
		}
		for i := 0; i < c.Count; i++ {
			txns = append(txns, model.Transaction{
				ID:           fmt.Sprintf("%s-%d-%d", c.Merchant, c.Offset, i),
				SpaceID:      b.spaceID,
				Date:         b.start.AddDate(0, 0, c.Offset+c.Every*i),
				Description:  c.Merchant,
				MerchantName: c.Merchant,
				Amount:       -c.Amount,
				Currency:     currency,
				AccountID:    b.account,
			})
		}
	}
	return txns
}
