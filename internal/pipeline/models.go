package pipeline

import (
	"github.com/shopspring/decimal"

	"github.com/dvloznov/sales-analytics/internal/models"
)

// Transaction is the cleaned sales record; the definition lives in
// internal/models so that analytics can use it without importing this
// package.
type Transaction = models.Transaction

// EnrichedTransaction is a Transaction plus catalog metadata attached by
// the enrichment adapter. The API fields stay nil / false when no catalog
// product matched.
type EnrichedTransaction struct {
	Transaction

	APICategory *string
	APIBrand    *string
	APIRating   *float64
	APIMatch    bool
}

// FilterOptions carries the optional user-supplied filters for
// ValidateAndFilter. A nil field means the filter is not applied.
// Region is expected already lower-cased by the caller.
type FilterOptions struct {
	Region    *string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// FilterSummary reports how many records each stage of ValidateAndFilter
// removed. FilteredByAmount counts only records that survived the region
// filter, so the stages subtract sequentially:
//
//	FinalCount = TotalInput - Invalid - FilteredByRegion - FilteredByAmount
type FilterSummary struct {
	TotalInput       int
	Invalid          int
	FilteredByRegion int
	FilteredByAmount int
	FinalCount       int
}
