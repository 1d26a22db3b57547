package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/model"
)

// DetectedRow is the flat form of a detected pattern.
type DetectedRow struct {
	Merchant        string  `json:"merchant" yaml:"merchant" csv:"merchant"`
	Frequency       string  `json:"frequency" yaml:"frequency" csv:"frequency"`
	Currency        string  `json:"currency" yaml:"currency" csv:"currency"`
	FirstOccurrence string  `json:"first_occurrence" yaml:"first_occurrence" csv:"first_occurrence"`
	LastOccurrence  string  `json:"last_occurrence" yaml:"last_occurrence" csv:"last_occurrence"`
	AverageAmount   float64 `json:"average_amount" yaml:"average_amount" csv:"average_amount"`
	AmountVariance  float64 `json:"amount_variance" yaml:"amount_variance" csv:"amount_variance"`
	Confidence      float64 `json:"confidence" yaml:"confidence" csv:"confidence"`
	Occurrences     int     `json:"occurrences" yaml:"occurrences" csv:"occurrences"`
}

// WriteDetected renders detection candidates.
func WriteDetected(w io.Writer, format Format, patterns []model.DetectedPattern) error {
	rows := make([]*DetectedRow, len(patterns))
	for i, p := range patterns {
		rows[i] = &DetectedRow{
			Merchant:        p.MerchantName,
			Frequency:       string(p.SuggestedFrequency),
			Currency:        p.Currency,
			FirstOccurrence: p.FirstOccurrence.Format(dateLayout),
			LastOccurrence:  p.LastOccurrence.Format(dateLayout),
			AverageAmount:   p.AverageAmount,
			AmountVariance:  p.AmountVariance,
			Confidence:      p.Confidence,
			Occurrences:     p.OccurrenceCount,
		}
	}

	if format != FormatTable {
		return write(w, format, rows, rows)
	}

	t := table{header: []string{"MERCHANT", "AMOUNT", "FREQUENCY", "SEEN", "LAST", "VARIANCE", "CONFIDENCE"}}
	for _, r := range rows {
		t.rows = append(t.rows, []string{
			r.Merchant,
			common.FormatMoney(r.AverageAmount) + " " + r.Currency,
			r.Frequency,
			strconv.Itoa(r.Occurrences),
			r.LastOccurrence,
			percent(r.AmountVariance),
			percent(r.Confidence),
		})
	}
	return t.write(w)
}

// PatternRow is the flat form of a stored pattern.
type PatternRow struct {
	ID             string  `json:"id" yaml:"id" csv:"id"`
	Merchant       string  `json:"merchant" yaml:"merchant" csv:"merchant"`
	Status         string  `json:"status" yaml:"status" csv:"status"`
	Frequency      string  `json:"frequency" yaml:"frequency" csv:"frequency"`
	Currency       string  `json:"currency" yaml:"currency" csv:"currency"`
	LastOccurrence string  `json:"last_occurrence" yaml:"last_occurrence" csv:"last_occurrence"`
	NextExpected   string  `json:"next_expected" yaml:"next_expected" csv:"next_expected"`
	ExpectedAmount float64 `json:"expected_amount" yaml:"expected_amount" csv:"expected_amount"`
	AmountVariance float64 `json:"amount_variance" yaml:"amount_variance" csv:"amount_variance"`
	Confidence     float64 `json:"confidence" yaml:"confidence" csv:"confidence"`
	Occurrences    int     `json:"occurrences" yaml:"occurrences" csv:"occurrences"`
}

// WritePatterns renders stored recurring patterns.
func WritePatterns(w io.Writer, format Format, patterns []model.RecurringPattern) error {
	rows := make([]*PatternRow, len(patterns))
	for i, p := range patterns {
		rows[i] = &PatternRow{
			ID:             p.ID,
			Merchant:       p.MerchantName,
			Status:         string(p.Status),
			Frequency:      string(p.Frequency),
			Currency:       p.Currency,
			LastOccurrence: formatDate(p.LastOccurrence.IsZero(), p.LastOccurrence.Format(dateLayout)),
			NextExpected:   formatDate(p.NextExpected.IsZero(), p.NextExpected.Format(dateLayout)),
			ExpectedAmount: p.ExpectedAmount,
			AmountVariance: p.AmountVariance,
			Confidence:     p.Confidence,
			Occurrences:    p.OccurrenceCount,
		}
	}

	if format != FormatTable {
		return write(w, format, rows, rows)
	}

	t := table{header: []string{"ID", "MERCHANT", "STATUS", "AMOUNT", "FREQUENCY", "SEEN", "NEXT", "CONFIDENCE"}}
	for _, r := range rows {
		t.rows = append(t.rows, []string{
			shortID(r.ID),
			r.Merchant,
			r.Status,
			common.FormatMoney(r.ExpectedAmount) + " " + r.Currency,
			r.Frequency,
			strconv.Itoa(r.Occurrences),
			r.NextExpected,
			percent(r.Confidence),
		})
	}
	return t.write(w)
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func formatDate(zero bool, s string) string {
	if zero {
		return ""
	}
	return s
}

// shortID trims a UUID to its first block for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
