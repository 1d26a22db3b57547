package recurring

import (
	"sort"
	"time"

	"github.com/Veraticus/recurring-spice/internal/merchant"
	"github.com/Veraticus/recurring-spice/internal/model"
)

// DefaultLookbackDays is the trailing window a detection run considers.
const DefaultLookbackDays = 365

// Detector runs the pattern detection pipeline over a transaction snapshot.
type Detector struct {
	lookbackDays int
}

// NewDetector creates a detector considering the trailing lookbackDays.
// Non-positive values fall back to DefaultLookbackDays.
func NewDetector(lookbackDays int) *Detector {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &Detector{lookbackDays: lookbackDays}
}

// Detect groups unlinked transactions by merchant, skips merchants that are
// already tracked, and returns candidates with confidence >= MinConfidence in
// descending confidence order. Transactions dated before asOf minus the
// lookback window are ignored; a zero asOf disables the window.
//
// Equal confidences keep grouping order, which follows input order.
func (d *Detector) Detect(transactions []model.Transaction, trackedMerchants []string, asOf time.Time) []model.DetectedPattern {
	var since time.Time
	if !asOf.IsZero() {
		since = asOf.AddDate(0, 0, -d.lookbackDays)
	}

	candidates := make([]model.Transaction, 0, len(transactions))
	for _, txn := range transactions {
		if txn.IsLinked() {
			continue
		}
		if !since.IsZero() && txn.Date.Before(since) {
			continue
		}
		candidates = append(candidates, txn)
	}

	tracked := make(map[string]struct{}, len(trackedMerchants))
	for _, name := range trackedMerchants {
		if key := merchant.Key(name); key != "" {
			tracked[key] = struct{}{}
		}
	}

	var patterns []model.DetectedPattern
	for _, group := range GroupByMerchant(candidates) {
		if _, ok := tracked[group.Key]; ok {
			continue
		}
		if len(group.Transactions) < MinOccurrences {
			continue
		}
		pattern, ok := Analyze(group)
		if !ok || pattern.Confidence < MinConfidence {
			continue
		}
		patterns = append(patterns, pattern)
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Confidence > patterns[j].Confidence
	})

	return patterns
}

// GroupByMerchant groups transactions by merchant key in first-seen order.
// Transactions without a usable merchant are dropped.
func GroupByMerchant(transactions []model.Transaction) []MerchantGroup {
	index := make(map[string]int)
	var groups []MerchantGroup

	for _, txn := range transactions {
		name, ok := merchant.Extract(txn.MerchantName, txn.Description)
		if !ok {
			continue
		}
		key := merchant.Key(name)
		if key == "" {
			continue
		}

		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, MerchantGroup{Name: name, Key: key})
		}
		groups[i].Transactions = append(groups[i].Transactions, txn)
	}

	return groups
}
