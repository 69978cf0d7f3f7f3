// Package report turns transaction listings into the back-office spreadsheet export.
package report

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Basis is a percent-like value stored as hundredths, e.g. 250 for 2.50%.
// Missing, null or non-numeric input decodes to zero.
type Basis struct {
	decimal.Decimal
}

func NewBasis(v int64) Basis {
	return Basis{decimal.NewFromInt(v)}
}

func (b *Basis) UnmarshalJSON(data []byte) error {
	b.Decimal = decimal.Zero
	raw := strings.TrimSpace(string(bytes.Trim(data, `"`)))
	if raw == "" || raw == "null" {
		return nil
	}
	if d, err := decimal.NewFromString(raw); err == nil {
		b.Decimal = d
	}
	return nil
}

func (b Basis) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Decimal)
}

// Percent is the value as written to the sheet: 250 -> 2.50.
func (b Basis) Percent() decimal.Decimal {
	return b.Decimal.Div(decimal.NewFromInt(100))
}

// Transaction is one row of the transaction listing.
type Transaction struct {
	ID                string          `json:"id"`
	Date              string          `json:"date"`
	MerchantName      string          `json:"merchantName"`
	MerchantDocument  string          `json:"merchantDocument"`
	TerminalSerial    string          `json:"terminalSerial"`
	NSU               string          `json:"nsu"`
	AuthorizationCode string          `json:"authorizationCode"`
	CardNumber        string          `json:"cardNumber"`
	Brand             string          `json:"brand"`
	ProductType       string          `json:"productType"`
	Installments      int             `json:"installments"`
	Amount            decimal.Decimal `json:"amount"`
	TransactionStatus string          `json:"transactionStatus"`
	FeeAdmin          Basis           `json:"feeAdmin"`
	TransactionMdr    Basis           `json:"transactionMdr"`
	ProfitMargin      Basis           `json:"profitMargin"`
}

// DecodeTransactions reads a JSON array of transactions.
func DecodeTransactions(data []byte) ([]Transaction, error) {
	var txs []Transaction
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}
