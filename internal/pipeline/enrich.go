package pipeline

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dvloznov/sales-analytics/internal/catalog"
)

// enrichedHeader is the column order of the enriched flat file.
var enrichedHeader = []string{
	"TransactionID", "Date", "ProductID", "ProductName",
	"Quantity", "UnitPrice", "CustomerID", "Region",
	"API_Category", "API_Brand", "API_Rating", "API_Match",
}

// Enrich attaches catalog metadata to each transaction by the numeric
// suffix of its product id ("P101" -> 101). Transactions whose product id
// has no numeric suffix or no catalog entry keep the zero enrichment
// fields; enrichment never fails a record.
func Enrich(transactions []Transaction, mapping map[int]catalog.Product) []EnrichedTransaction {
	enriched := make([]EnrichedTransaction, 0, len(transactions))

	for _, txn := range transactions {
		e := EnrichedTransaction{Transaction: txn}

		if product, ok := lookupProduct(txn.ProductID, mapping); ok {
			category := product.Category
			brand := product.Brand
			rating := product.Rating
			e.APICategory = &category
			e.APIBrand = &brand
			e.APIRating = &rating
			e.APIMatch = true
		}

		enriched = append(enriched, e)
	}

	return enriched
}

func lookupProduct(productID string, mapping map[int]catalog.Product) (catalog.Product, bool) {
	suffix, ok := strings.CutPrefix(strings.TrimSpace(productID), "P")
	if !ok {
		return catalog.Product{}, false
	}
	numericID, err := strconv.Atoi(suffix)
	if err != nil {
		return catalog.Product{}, false
	}
	product, ok := mapping[numericID]
	return product, ok
}

// SummarizeEnrichment counts catalog matches and collects the distinct
// product names that found no match, sorted for stable output.
func SummarizeEnrichment(enriched []EnrichedTransaction) (matched int, unmatched []string) {
	seen := make(map[string]bool)
	for _, e := range enriched {
		if e.APIMatch {
			matched++
			continue
		}
		if !seen[e.ProductName] {
			seen[e.ProductName] = true
			unmatched = append(unmatched, e.ProductName)
		}
	}
	sort.Strings(unmatched)
	return matched, unmatched
}

// WriteEnriched writes the enriched transactions as a pipe-delimited flat
// file with a header row. Absent enrichment fields are written empty.
func WriteEnriched(w io.Writer, enriched []EnrichedTransaction) error {
	if _, err := fmt.Fprintln(w, strings.Join(enrichedHeader, "|")); err != nil {
		return fmt.Errorf("WriteEnriched: %w", err)
	}

	for _, e := range enriched {
		row := []string{
			e.TransactionID,
			e.Date,
			e.ProductID,
			e.ProductName,
			strconv.Itoa(e.Quantity),
			e.UnitPrice.String(),
			e.CustomerID,
			e.Region,
			optionalString(e.APICategory),
			optionalString(e.APIBrand),
			optionalFloat(e.APIRating),
			strconv.FormatBool(e.APIMatch),
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, "|")); err != nil {
			return fmt.Errorf("WriteEnriched: %w", err)
		}
	}

	return nil
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'g', -1, 64)
}
