package recurring

import (
	"fmt"
	"time"

	"github.com/Veraticus/recurring-spice/internal/model"
)

var baseDate = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// series builds one transaction per day offset, all for the same merchant.
func series(merchantName string, offsets []int, amounts []float64) []model.Transaction {
	txns := make([]model.Transaction, len(offsets))
	for i, off := range offsets {
		txns[i] = model.Transaction{
			ID:           fmt.Sprintf("%s-%d", merchantName, i),
			Date:         baseDate.AddDate(0, 0, off),
			MerchantName: merchantName,
			Description:  merchantName + " purchase",
			Amount:       amounts[i],
			Currency:     "USD",
		}
	}
	return txns
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func monthlyOffsets(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = -30 * (n - 1 - i)
	}
	return out
}
