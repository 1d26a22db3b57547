package common

import "github.com/shopspring/decimal"

// Round2 rounds to two decimal places, half away from zero. Values go through
// their shortest decimal representation first, so 9.99*12 rounds to 119.88 and
// 1.005 rounds to 1.01.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatMoney renders an amount with exactly two decimals, e.g. "180.00".
func FormatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// MulRound2 multiplies amount by n in decimal arithmetic and rounds to two places.
func MulRound2(amount float64, n int64) float64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(n)).Round(2).InexactFloat64()
}
