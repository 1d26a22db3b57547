// Package csvimport reads transactions from a generic CSV export with the
// header date,description,merchant,amount,currency and an optional id column.
package csvimport

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/model"
)

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

const defaultCurrency = "USD"

// Row is one CSV record.
type Row struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Merchant    string `csv:"merchant"`
	Amount      string `csv:"amount"`
	Currency    string `csv:"currency"`
	ID          string `csv:"id"`
}

// Parser converts CSV rows into transactions for one space.
type Parser struct {
	spaceID   string
	accountID string
}

// NewParser creates a parser that stamps transactions with spaceID and accountID.
func NewParser(spaceID, accountID string) *Parser {
	return &Parser{spaceID: spaceID, accountID: accountID}
}

// Parse reads every row. Rows with an unparseable date or amount are skipped
// with a warning; a file that cannot be read as CSV is an error.
func (p *Parser) Parse(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	var rows []*Row
	if err := gocsv.UnmarshalCSV(newReader(reader), &rows); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnsupportedFormat, err)
	}

	transactions := make([]model.Transaction, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if strings.TrimSpace(row.Date) == "" {
			continue
		}

		tx, err := p.convertRow(*row)
		if err != nil {
			skipped++
			slog.Warn("Skipping CSV row",
				"line", i+2,
				"error", err)
			continue
		}
		transactions = append(transactions, tx)
	}

	slog.Info("Parsed CSV file",
		"transactions", len(transactions),
		"skipped", skipped)
	return transactions, nil
}

func newReader(in io.Reader) gocsv.CSVReader {
	r := csv.NewReader(in)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	return r
}

func (p *Parser) convertRow(row Row) (model.Transaction, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(row.Date))
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid date %q: %w", row.Date, err)
	}

	amount, err := ParseAmount(row.Amount)
	if err != nil {
		return model.Transaction{}, err
	}

	currency := strings.ToUpper(strings.TrimSpace(row.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	tx := model.Transaction{
		ID:           strings.TrimSpace(row.ID),
		SpaceID:      p.spaceID,
		Date:         date,
		Description:  strings.TrimSpace(row.Description),
		MerchantName: strings.TrimSpace(row.Merchant),
		Amount:       amount,
		Currency:     currency,
		AccountID:    p.accountID,
	}
	if tx.Description == "" && tx.MerchantName == "" {
		return model.Transaction{}, fmt.Errorf("row has neither description nor merchant")
	}

	tx.Hash = tx.GenerateHash()
	if tx.ID == "" {
		tx.ID = tx.Hash
	}
	return tx, nil
}

// ParseAmount parses a signed decimal amount, tolerating thousands separators
// and a leading currency symbol, and rounds it to cents.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimLeft(cleaned, "$€£")
	if strings.HasPrefix(cleaned, "-") {
		cleaned = "-" + strings.TrimLeft(cleaned[1:], "$€£")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d.Round(2).InexactFloat64(), nil
}
