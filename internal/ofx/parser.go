// Package ofx imports transactions from OFX and QFX bank statements.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/Veraticus/recurring-spice/internal/common"
	"github.com/Veraticus/recurring-spice/internal/model"
)

const fallbackCurrency = "USD"

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// Opening tags at end of line that lost their closing bracket.
	unclosedTagRegex = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser converts OFX statements into transactions for one space.
type Parser struct {
	spaceID string
}

// NewParser creates a parser that stamps transactions with spaceID.
func NewParser(spaceID string) *Parser {
	return &Parser{spaceID: spaceID}
}

// preprocess fixes formatting issues that real bank exports are known to have.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTagRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parseResponse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnsupportedFormat, err)
	}
	return resp, nil
}

// Parse reads bank and credit card statements and returns their transactions
// in file order. Amounts keep the sign the bank reported.
func (p *Parser) Parse(ctx context.Context, reader io.Reader) ([]model.Transaction, error) {
	resp, err := p.parseResponse(reader)
	if err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	statements := 0

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		statements++
		transactions = append(transactions,
			p.convertList(stmt.BankTranList.Transactions, string(stmt.BankAcctFrom.AcctID), currencyCode(stmt.CurDef))...)
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		statements++
		transactions = append(transactions,
			p.convertList(stmt.BankTranList.Transactions, string(stmt.CCAcctFrom.AcctID), currencyCode(stmt.CurDef))...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("Parsed OFX file",
		"transactions", len(transactions),
		"statements", statements)
	return transactions, nil
}

func (p *Parser) convertList(list []ofxgo.Transaction, accountID, currency string) []model.Transaction {
	out := make([]model.Transaction, 0, len(list))
	for _, ofxTx := range list {
		out = append(out, p.convertTransaction(ofxTx, accountID, currency))
	}
	return out
}

// convertTransaction maps one STMTTRN. The payee name, when the bank sends
// one, becomes the merchant; otherwise merchant extraction falls back to the
// description at detection time.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID, currency string) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()

	var merchantName string
	if ofxTx.Payee != nil {
		merchantName = strings.TrimSpace(string(ofxTx.Payee.Name))
	}

	tx := model.Transaction{
		ID:           string(ofxTx.FiTID),
		SpaceID:      p.spaceID,
		Date:         ofxTx.DtPosted.UTC(),
		Description:  description(ofxTx),
		MerchantName: merchantName,
		Amount:       common.Round2(amount),
		Currency:     currency,
		AccountID:    accountID,
	}
	tx.Hash = tx.GenerateHash()
	if tx.ID == "" {
		tx.ID = tx.Hash
	}
	return tx
}

// description joins NAME and MEMO, skipping a memo that repeats the name.
func description(ofxTx ofxgo.Transaction) string {
	name := strings.TrimSpace(string(ofxTx.Name))
	memo := strings.TrimSpace(string(ofxTx.Memo))
	switch {
	case memo == "" || strings.EqualFold(memo, name):
		return name
	case name == "":
		return memo
	default:
		return name + " " + memo
	}
}

func currencyCode(sym ofxgo.CurrSymbol) string {
	code := sym.String()
	if code == "" || code == "XXX" {
		return fallbackCurrency
	}
	return code
}

// Accounts returns the sorted, distinct account IDs in an OFX file.
func (p *Parser) Accounts(reader io.Reader) ([]string, error) {
	resp, err := p.parseResponse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankAcctFrom.AcctID != "" {
			seen[string(stmt.BankAcctFrom.AcctID)] = struct{}{}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.CCAcctFrom.AcctID != "" {
			seen[string(stmt.CCAcctFrom.AcctID)] = struct{}{}
		}
	}

	accounts := make([]string, 0, len(seen))
	for acct := range seen {
		accounts = append(accounts, acct)
	}
	sort.Strings(accounts)
	return accounts, nil
}
