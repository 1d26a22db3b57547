// Package model defines the core data structures for the recurring engine.
package model

import (
	"fmt"
	"time"
)

// Frequency is a canonical recurrence frequency.
type Frequency string

// Canonical frequencies. Day counts are fixed and not calendar aware.
const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
)

// Frequencies lists every canonical frequency in declaration order.
// Scans that break ties by first-seen rely on this order.
var Frequencies = []Frequency{
	FrequencyDaily,
	FrequencyWeekly,
	FrequencyBiweekly,
	FrequencyMonthly,
	FrequencyQuarterly,
	FrequencyYearly,
}

// Days returns the canonical day count for the frequency, or 0 if unknown.
func (f Frequency) Days() int {
	switch f {
	case FrequencyDaily:
		return 1
	case FrequencyWeekly:
		return 7
	case FrequencyBiweekly:
		return 14
	case FrequencyMonthly:
		return 30
	case FrequencyQuarterly:
		return 90
	case FrequencyYearly:
		return 365
	}
	return 0
}

// PeriodsPerYear returns how many billing periods of this frequency fit in a year.
func (f Frequency) PeriodsPerYear() int {
	switch f {
	case FrequencyDaily:
		return 365
	case FrequencyWeekly:
		return 52
	case FrequencyBiweekly:
		return 26
	case FrequencyMonthly:
		return 12
	case FrequencyQuarterly:
		return 4
	case FrequencyYearly:
		return 1
	}
	return 0
}

// IsValid reports whether f is one of the canonical frequencies.
func (f Frequency) IsValid() bool {
	return f.Days() > 0
}

// ParseFrequency converts a string into a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	if !f.IsValid() {
		return "", fmt.Errorf("unknown frequency %q", s)
	}
	return f, nil
}

// NextExpected returns date advanced by the canonical day count of frequency.
func NextExpected(date time.Time, frequency Frequency) time.Time {
	return date.AddDate(0, 0, frequency.Days())
}
