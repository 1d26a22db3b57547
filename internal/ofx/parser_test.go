package ofx

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/recurring-spice/internal/common"
)

// Sample OFX data for testing.
const sampleBankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>STARBUCKS STORE #1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>Whole Foods Market
<MEMO>Store 10245
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK #1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const sampleCreditCardOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>EUR
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func TestParse(t *testing.T) {
	tests := []struct {
		wantErr   error
		name      string
		ofxData   string
		wantCount int
	}{
		{
			name:      "valid bank statement",
			ofxData:   sampleBankOFX,
			wantCount: 3,
		},
		{
			name:      "valid credit card statement",
			ofxData:   sampleCreditCardOFX,
			wantCount: 2,
		},
		{
			name:    "invalid OFX data",
			ofxData: "not valid OFX",
			wantErr: common.ErrUnsupportedFormat,
		},
		{
			name:    "empty OFX",
			ofxData: "",
			wantErr: common.ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser("household")
			transactions, err := parser.Parse(context.Background(), strings.NewReader(tt.ofxData))

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, transactions, tt.wantCount)
		})
	}
}

func TestParse_BankTransactions(t *testing.T) {
	parser := NewParser("household")
	transactions, err := parser.Parse(context.Background(), strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	require.Len(t, transactions, 3)

	tx1 := transactions[0]
	assert.Equal(t, "2024011501", tx1.ID)
	assert.Equal(t, "household", tx1.SpaceID)
	assert.Equal(t, "STARBUCKS STORE #1234", tx1.Description)
	assert.Empty(t, tx1.MerchantName)
	assert.InDelta(t, -25.50, tx1.Amount, 1e-9)
	assert.Equal(t, "USD", tx1.Currency)
	assert.Equal(t, "1234567890", tx1.AccountID)
	assert.NotEmpty(t, tx1.Hash)
	assert.Equal(t, time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC), tx1.Date)

	tx2 := transactions[1]
	assert.Equal(t, "Whole Foods Market Store 10245", tx2.Description)
	assert.InDelta(t, -125.00, tx2.Amount, 1e-9)

	tx3 := transactions[2]
	assert.Equal(t, "CHECK #1234", tx3.Description)
	assert.InDelta(t, -500.00, tx3.Amount, 1e-9)
}

func TestParse_CreditCardTransactions(t *testing.T) {
	parser := NewParser("household")
	transactions, err := parser.Parse(context.Background(), strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	assert.Equal(t, "CC2024011001", transactions[0].ID)
	assert.Equal(t, "AMAZON.COM*RT4Y7HG2", transactions[0].Description)
	assert.Equal(t, "4111111111111111", transactions[0].AccountID)
	assert.Equal(t, "EUR", transactions[0].Currency)

	assert.Equal(t, "NETFLIX.COM", transactions[1].Description)
	assert.InDelta(t, -15.00, transactions[1].Amount, 1e-9)
}

func TestConvertTransaction(t *testing.T) {
	parser := NewParser("household")
	posted := ofxgo.Date{Time: time.Date(2024, 3, 1, 8, 0, 0, 0, time.FixedZone("EST", -5*3600))}

	tests := []struct {
		name         string
		ofxTx        ofxgo.Transaction
		wantMerchant string
		wantDesc     string
	}{
		{
			name: "payee becomes merchant",
			ofxTx: ofxgo.Transaction{
				FiTID:    "1",
				DtPosted: posted,
				Name:     "POS NETFLIX 4021",
				Payee:    &ofxgo.Payee{Name: " Netflix "},
			},
			wantMerchant: "Netflix",
			wantDesc:     "POS NETFLIX 4021",
		},
		{
			name: "memo repeating the name is dropped",
			ofxTx: ofxgo.Transaction{
				FiTID:    "2",
				DtPosted: posted,
				Name:     "SPOTIFY",
				Memo:     "spotify",
			},
			wantDesc: "SPOTIFY",
		},
		{
			name: "memo only",
			ofxTx: ofxgo.Transaction{
				FiTID:    "3",
				DtPosted: posted,
				Memo:     "HULU 877-8244858 CA",
			},
			wantDesc: "HULU 877-8244858 CA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.convertTransaction(tt.ofxTx, "acct", "USD")
			assert.Equal(t, tt.wantMerchant, got.MerchantName)
			assert.Equal(t, tt.wantDesc, got.Description)
			assert.Equal(t, time.UTC, got.Date.Location())
			assert.Equal(t, 13, got.Date.Hour())
		})
	}
}

func TestConvertTransaction_MissingFITIDUsesHash(t *testing.T) {
	parser := NewParser("household")
	got := parser.convertTransaction(ofxgo.Transaction{Name: "GYM"}, "acct", "USD")
	assert.Equal(t, got.Hash, got.ID)
}

func TestAccounts(t *testing.T) {
	parser := NewParser("household")

	accounts, err := parser.Accounts(strings.NewReader(sampleBankOFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"1234567890"}, accounts)

	accounts, err = parser.Accounts(strings.NewReader(sampleCreditCardOFX))
	require.NoError(t, err)
	assert.Equal(t, []string{"4111111111111111"}, accounts)
}

func TestPreprocess(t *testing.T) {
	in := "\n\n<OFX>\n<SEVERITY>Info</SEVERITY>\n<CODE\n"
	want := "<OFX>\n<SEVERITY>INFO</SEVERITY>\n<CODE>\n"
	assert.Equal(t, want, preprocess(in))
}
