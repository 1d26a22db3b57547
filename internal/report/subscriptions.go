package report

import (
	"io"
	"strconv"
	"time"

	"github.com/Veraticus/recurring-spice/internal/cli"
	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/model"
	"github.com/Veraticus/recurring-spice/internal/subscription"
)

// SubscriptionRow is the flat form of a subscription insight.
type SubscriptionRow struct {
	ID             string  `json:"id" yaml:"id" csv:"id"`
	Service        string  `json:"service" yaml:"service" csv:"service"`
	Category       string  `json:"category" yaml:"category" csv:"category"`
	BillingCycle   string  `json:"billing_cycle" yaml:"billing_cycle" csv:"billing_cycle"`
	Currency       string  `json:"currency" yaml:"currency" csv:"currency"`
	NextBilling    string  `json:"next_billing,omitempty" yaml:"next_billing,omitempty" csv:"next_billing"`
	Status         string  `json:"status" yaml:"status" csv:"status"`
	Usage          string  `json:"usage,omitempty" yaml:"usage,omitempty" csv:"usage"`
	Source         string  `json:"source" yaml:"source" csv:"source"`
	URL            string  `json:"url,omitempty" yaml:"url,omitempty" csv:"url"`
	Recommendation string  `json:"recommendation,omitempty" yaml:"recommendation,omitempty" csv:"recommendation"`
	Amount         float64 `json:"amount" yaml:"amount" csv:"amount"`
	AnnualCost     float64 `json:"annual_cost" yaml:"annual_cost" csv:"annual_cost"`
	Confidence     float64 `json:"confidence" yaml:"confidence" csv:"confidence"`
}

// SubscriptionDocument is the JSON and YAML shape of a subscription report.
type SubscriptionDocument struct {
	Subscriptions []*SubscriptionRow          `json:"subscriptions" yaml:"subscriptions"`
	Totals        []subscription.SpendSummary `json:"totals" yaml:"totals"`
}

// WriteSubscriptions renders subscription insights with their spend totals.
// CSV output carries the rows only.
func WriteSubscriptions(w io.Writer, format Format, insights []model.SubscriptionInsight, totals []subscription.SpendSummary) error {
	rows := make([]*SubscriptionRow, len(insights))
	for i, in := range insights {
		rows[i] = &SubscriptionRow{
			ID:             in.ID,
			Service:        in.ServiceName,
			Category:       string(in.Category),
			BillingCycle:   string(in.BillingCycle),
			Currency:       in.Currency,
			NextBilling:    formatTime(in.NextBillingDate),
			Status:         string(in.Status),
			Usage:          string(in.Usage),
			Source:         string(in.Source),
			URL:            in.ServiceURL,
			Recommendation: in.Recommendation,
			Amount:         in.Amount,
			AnnualCost:     in.AnnualCost,
			Confidence:     in.Confidence,
		}
	}

	if format != FormatTable {
		return write(w, format, SubscriptionDocument{Subscriptions: rows, Totals: totals}, rows)
	}

	t := table{header: []string{"ID", "SERVICE", "CATEGORY", "AMOUNT", "CYCLE", "ANNUAL", "NEXT", "STATUS"}}
	for _, r := range rows {
		t.rows = append(t.rows, []string{
			shortID(r.ID),
			r.Service,
			r.Category,
			common.FormatMoney(r.Amount) + " " + r.Currency,
			r.BillingCycle,
			common.FormatMoney(r.AnnualCost),
			r.NextBilling,
			r.Status,
		})
	}
	if err := t.write(w); err != nil {
		return err
	}

	for _, r := range rows {
		if r.Recommendation == "" {
			continue
		}
		if _, err := io.WriteString(w, "\n"+cli.FormatWarning(r.Recommendation)); err != nil {
			return err
		}
	}

	for _, s := range totals {
		line := "\n" + cli.BoldStyle.Render(cli.MoneyIcon+" "+s.Currency) +
			"  " + common.FormatMoney(s.MonthlyTotal) + "/month  " +
			common.FormatMoney(s.AnnualTotal) + "/year  across " + plural(s.Count, "subscription")
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	if len(totals) > 0 || hasRecommendation(rows) {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

func hasRecommendation(rows []*SubscriptionRow) bool {
	for _, r := range rows {
		if r.Recommendation != "" {
			return true
		}
	}
	return false
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
