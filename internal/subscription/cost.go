package subscription

import (
	"fmt"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/model"
)

// DefaultSavingsWarningThreshold is the annual cost above which medium-usage
// subscriptions get an annual-billing suggestion.
const DefaultSavingsWarningThreshold = 100.0

// AnnualCost returns amount multiplied by the billing periods per year,
// rounded to two decimals.
func AnnualCost(amount float64, cycle model.Frequency) float64 {
	return common.MulRound2(amount, int64(cycle.PeriodsPerYear()))
}

// RecommendSavings returns savings advice for a subscription given how often
// it is used. Low usage suggests cancelling; medium usage above the warning
// threshold suggests annual billing. High, unknown or unset usage gets none.
func RecommendSavings(serviceName string, usage model.UsageFrequency, annualCost, warningThreshold float64) (string, bool) {
	switch usage {
	case model.UsageLow:
		return fmt.Sprintf("Consider cancelling %s. You rarely use it and it costs $%s/year.",
			serviceName, common.FormatMoney(annualCost)), true
	case model.UsageMedium:
		if annualCost > warningThreshold {
			return fmt.Sprintf("Consider switching %s to annual billing. At $%s/year an annual plan is usually cheaper.",
				serviceName, common.FormatMoney(annualCost)), true
		}
	}
	return "", false
}
