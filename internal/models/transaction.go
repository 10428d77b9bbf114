package models

import (
	"github.com/shopspring/decimal"
)

// Transaction represents one cleaned sales record produced by the parser.
// All fields are mandatory by construction: a line that cannot fill every
// field never becomes a Transaction, so downstream code does not need
// presence checks.
type Transaction struct {
	TransactionID string          // "T"-prefixed id
	Date          string          // calendar date, YYYY-MM-DD
	ProductID     string          // "P"-prefixed id; numeric suffix is the catalog key
	ProductName   string          // commas stripped, trimmed
	Quantity      int             // strictly positive
	UnitPrice     decimal.Decimal // strictly positive
	CustomerID    string          // "C"-prefixed id
	Region        string          // non-empty; compared case-insensitively when filtering
}

// Amount returns the transaction value, Quantity * UnitPrice.
func (t Transaction) Amount() decimal.Decimal {
	return decimal.NewFromInt(int64(t.Quantity)).Mul(t.UnitPrice)
}
