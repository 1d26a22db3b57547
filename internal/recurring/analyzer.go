package recurring

import (
	"math"
	"sort"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/model"
)

// Detection thresholds.
const (
	MinOccurrences    = 3
	MinFrequencyScore = 0.5
	MaxAmountVariance = 0.5
	MinConfidence     = 0.6
)

// Confidence weights; they sum to 1.
const (
	frequencyWeight   = 0.5
	consistencyWeight = 0.3
	occurrenceWeight  = 0.2

	// occurrenceSaturation is the occurrence count at which the occurrence
	// component maxes out.
	occurrenceSaturation = 12
)

// MerchantGroup is a transient group of transactions sharing a merchant key.
type MerchantGroup struct {
	Name         string // First-seen merchant name
	Key          string
	Transactions []model.Transaction
}

// Analyze turns a merchant group into a detected pattern candidate. It returns
// false when the group is too small, irregular, or its amounts vary too much.
// The confidence floor (MinConfidence) is applied by the detection pipeline,
// not here.
func Analyze(group MerchantGroup) (model.DetectedPattern, bool) {
	if len(group.Transactions) < MinOccurrences {
		return model.DetectedPattern{}, false
	}

	txns := make([]model.Transaction, len(group.Transactions))
	copy(txns, group.Transactions)
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date)
	})

	intervals := make([]float64, 0, len(txns)-1)
	for i := 1; i < len(txns); i++ {
		intervals = append(intervals, txns[i].Date.Sub(txns[i-1].Date).Hours()/24)
	}

	freq, ok := DetectFrequency(intervals)
	if !ok || freq.Score < MinFrequencyScore {
		return model.DetectedPattern{}, false
	}

	amounts := make([]float64, len(txns))
	ids := make([]string, len(txns))
	for i, txn := range txns {
		amounts[i] = math.Abs(txn.Amount)
		ids[i] = txn.ID
	}

	variance := coefficientOfVariation(amounts)
	if variance > MaxAmountVariance {
		return model.DetectedPattern{}, false
	}

	confidence := frequencyWeight*freq.Score +
		consistencyWeight*(1-math.Min(variance, 1)) +
		occurrenceWeight*math.Min(float64(len(txns))/occurrenceSaturation, 1)
	confidence = math.Min(confidence, 1)

	return model.DetectedPattern{
		MerchantName:       group.Name,
		TransactionIDs:     ids,
		SuggestedFrequency: freq.Frequency,
		AverageAmount:      common.Round2(mean(amounts)),
		AmountVariance:     common.Round2(variance),
		Confidence:         common.Round2(confidence),
		FirstOccurrence:    txns[0].Date,
		LastOccurrence:     txns[len(txns)-1].Date,
		OccurrenceCount:    len(txns),
		Currency:           txns[0].Currency,
	}, true
}
