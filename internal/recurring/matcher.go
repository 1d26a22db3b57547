package recurring

import (
	"math"

	"github.com/Veraticus/recurring-spice/internal/merchant"
	"github.com/Veraticus/recurring-spice/internal/model"
)

// amountEpsilon absorbs float error at the inclusive amount bounds.
const amountEpsilon = 1e-9

// Match links a transaction to the first confirmed pattern whose merchant and
// amount both fit. Patterns are tried in the order given; a pattern whose
// merchant matches but whose amount does not is skipped, not fatal. It returns
// false when the transaction has no usable merchant or nothing matches.
//
// The merchant test is bidirectional containment of normalized keys, so
// "Prime" will match "Amazon Prime Video" transactions.
func Match(txn model.Transaction, patterns []model.RecurringPattern) (model.PatternMatch, bool) {
	name, ok := merchant.Extract(txn.MerchantName, txn.Description)
	if !ok {
		return model.PatternMatch{}, false
	}

	for _, p := range patterns {
		if p.Status != model.PatternConfirmed {
			continue
		}
		if !merchant.Matches(p.MerchantName, name) {
			continue
		}
		if !AmountWithinVariance(txn.Amount, p.ExpectedAmount, p.AmountVariance) {
			continue
		}

		return model.PatternMatch{
			PatternID:       p.ID,
			TransactionID:   txn.ID,
			LastOccurrence:  txn.Date,
			NextExpected:    model.NextExpected(txn.Date, p.Frequency),
			OccurrenceCount: p.OccurrenceCount + 1,
		}, true
	}

	return model.PatternMatch{}, false
}

// AmountWithinVariance reports whether |amount| lies in
// [expected*(1-variance), expected*(1+variance)], bounds inclusive.
func AmountWithinVariance(amount, expected, variance float64) bool {
	a := math.Abs(amount)
	lo := expected * (1 - variance)
	hi := expected * (1 + variance)
	return a >= lo-amountEpsilon && a <= hi+amountEpsilon
}

// Apply returns a copy of pattern with the match's occurrence state applied.
func Apply(pattern model.RecurringPattern, m model.PatternMatch) model.RecurringPattern {
	pattern.LastOccurrence = m.LastOccurrence
	pattern.NextExpected = m.NextExpected
	pattern.OccurrenceCount = m.OccurrenceCount
	return pattern
}
