package pipeline

import (
	"strings"
)

// ValidateAndFilter re-validates transactions and applies the optional
// region and amount filters. It returns the surviving records, the number
// of records that failed validation, and a summary of every stage.
//
// Validation deliberately re-checks what the parser already enforced:
// callers may supply hand-built records (tests do), so the validator must
// not assume parser-level cleaning happened. Records failing validation
// are counted and dropped, never returned as an error.
//
// Filters run in order, each only over the survivors of the previous
// stage, and never reorder surviving records.
func ValidateAndFilter(transactions []Transaction, opts FilterOptions) ([]Transaction, int, FilterSummary) {
	valid := make([]Transaction, 0, len(transactions))
	invalidCount := 0

	for _, txn := range transactions {
		if !isValid(txn) {
			invalidCount++
			continue
		}
		valid = append(valid, txn)
	}

	filtered := valid
	filteredByRegion := 0
	filteredByAmount := 0

	if opts.Region != nil {
		before := len(filtered)
		kept := filtered[:0:0]
		for _, txn := range filtered {
			if strings.ToLower(txn.Region) == *opts.Region {
				kept = append(kept, txn)
			}
		}
		filtered = kept
		filteredByRegion = before - len(filtered)
	}

	if opts.MinAmount != nil || opts.MaxAmount != nil {
		before := len(filtered)
		kept := filtered[:0:0]
		for _, txn := range filtered {
			amount := txn.Amount()
			if opts.MinAmount != nil && amount.LessThan(*opts.MinAmount) {
				continue
			}
			if opts.MaxAmount != nil && amount.GreaterThan(*opts.MaxAmount) {
				continue
			}
			kept = append(kept, txn)
		}
		filtered = kept
		filteredByAmount = before - len(filtered)
	}

	summary := FilterSummary{
		TotalInput:       len(transactions),
		Invalid:          invalidCount,
		FilteredByRegion: filteredByRegion,
		FilteredByAmount: filteredByAmount,
		FinalCount:       len(filtered),
	}

	return filtered, invalidCount, summary
}

// isValid checks the structural rules every transaction must satisfy:
// all string fields present, id fields carrying their expected prefix
// letter, and strictly positive quantity and unit price.
func isValid(txn Transaction) bool {
	if txn.TransactionID == "" || txn.Date == "" || txn.ProductID == "" ||
		txn.ProductName == "" || txn.CustomerID == "" || txn.Region == "" {
		return false
	}
	if !strings.HasPrefix(txn.TransactionID, "T") ||
		!strings.HasPrefix(txn.ProductID, "P") ||
		!strings.HasPrefix(txn.CustomerID, "C") {
		return false
	}
	if txn.Quantity <= 0 || !txn.UnitPrice.IsPositive() {
		return false
	}
	return true
}
