package pipeline

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// fieldCount is the number of pipe-delimited fields a raw sales line must
// split into: transaction id, date, product id, product name, quantity,
// unit price, customer id, region.
const fieldCount = 8

// ParseTransactions turns raw pipe-delimited lines into Transactions.
// Lines that fail any cleaning or validation rule are silently dropped;
// malformed input never produces an error and never yields a partial
// record. Counting of rejects is the validator's job, not the parser's.
func ParseTransactions(lines []string) []Transaction {
	transactions := make([]Transaction, 0, len(lines))

	for _, line := range lines {
		if txn, ok := parseLine(line); ok {
			transactions = append(transactions, txn)
		}
	}

	return transactions
}

// parseLine applies the per-line cleaning rules from the legacy feed:
// exactly 8 fields, trimmed ids, non-empty customer/region, commas
// stripped out of product names and numeric fields, strictly positive
// quantity and unit price.
func parseLine(line string) (Transaction, bool) {
	fields := strings.Split(line, "|")
	if len(fields) != fieldCount {
		return Transaction{}, false
	}

	transactionID := strings.TrimSpace(fields[0])
	date := strings.TrimSpace(fields[1])
	productID := strings.TrimSpace(fields[2])
	customerID := strings.TrimSpace(fields[6])
	region := strings.TrimSpace(fields[7])

	if customerID == "" || region == "" {
		return Transaction{}, false
	}

	// Product names in the feed may contain embedded commas.
	productName := strings.TrimSpace(strings.ReplaceAll(fields[3], ",", " "))

	// Numeric fields may carry thousands separators.
	quantity, err := strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(fields[4], ",", "")))
	if err != nil {
		return Transaction{}, false
	}
	unitPrice, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(fields[5], ",", "")))
	if err != nil {
		return Transaction{}, false
	}

	if quantity <= 0 || !unitPrice.IsPositive() {
		return Transaction{}, false
	}

	return Transaction{
		TransactionID: transactionID,
		Date:          date,
		ProductID:     productID,
		ProductName:   productName,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		CustomerID:    customerID,
		Region:        region,
	}, true
}
