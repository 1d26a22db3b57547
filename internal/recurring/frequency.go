// Package recurring detects recurring transaction patterns and links new
// transactions to confirmed ones. Everything here is pure computation over
// caller-supplied snapshots.
package recurring

import (
	"math"

	"github.com/Veraticus/recurring-spice/internal/model"
)

const (
	// intervalTolerance is the fraction of a frequency's day count an interval
	// may deviate by and still count as a hit.
	intervalTolerance = 0.25

	matchScoreWeight   = 0.7
	averageScoreWeight = 0.3
)

// FrequencyResult is the best-fitting canonical frequency for a set of intervals.
type FrequencyResult struct {
	Frequency       model.Frequency
	Score           float64 // Combined score in [0,1]
	AverageInterval float64 // Mean interval in days
}

// DetectFrequency scores day intervals against every canonical frequency and
// returns the best fit. Ties go to the frequency declared first. It returns
// false when there are no intervals.
func DetectFrequency(intervals []float64) (FrequencyResult, bool) {
	if len(intervals) == 0 {
		return FrequencyResult{}, false
	}

	avg := mean(intervals)

	var best FrequencyResult
	found := false
	for _, freq := range model.Frequencies {
		score := frequencyScore(intervals, avg, float64(freq.Days()))
		if !found || score > best.Score {
			best = FrequencyResult{Frequency: freq, Score: score, AverageInterval: avg}
			found = true
		}
	}
	return best, true
}

func frequencyScore(intervals []float64, avg, expected float64) float64 {
	tolerance := expected * intervalTolerance
	lo, hi := expected-tolerance, expected+tolerance

	hits := 0
	for _, iv := range intervals {
		if iv >= lo && iv <= hi {
			hits++
		}
	}
	matchScore := float64(hits) / float64(len(intervals))
	avgScore := math.Max(0, 1-math.Abs(avg-expected)/expected)

	return matchScoreWeight*matchScore + averageScoreWeight*avgScore
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// coefficientOfVariation returns the population standard deviation divided by
// the mean. A zero mean yields 1 so the set is treated as maximally inconsistent.
func coefficientOfVariation(values []float64) float64 {
	m := mean(values)
	if m == 0 {
		return 1
	}
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq/float64(len(values))) / m
}
