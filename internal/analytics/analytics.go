// Package analytics computes descriptive statistics over a validated
// transaction collection. Every function is a pure read-only pass over
// its input: each builds its own grouping, so the functions stay
// independent and individually testable. The dataset is a single
// in-memory batch, so the repeated passes are immaterial.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/sales-analytics/internal/models"
)

// RegionStat summarizes sales for one region.
type RegionStat struct {
	Region           string
	TotalSales       decimal.Decimal
	TransactionCount int
	Percentage       decimal.Decimal // share of grand total, rounded to 2 decimals
}

// ProductStat summarizes sales for one product, aggregated by name.
type ProductStat struct {
	Name          string
	TotalQuantity int
	TotalRevenue  decimal.Decimal
}

// CustomerStat summarizes purchase behavior for one customer.
type CustomerStat struct {
	CustomerID     string
	TotalSpent     decimal.Decimal
	PurchaseCount  int
	AvgOrderValue  decimal.Decimal
	ProductsBought []string // deduplicated, alphabetically sorted
}

// DailyStat summarizes sales for one calendar day.
type DailyStat struct {
	Date             string
	Revenue          decimal.Decimal
	TransactionCount int
	UniqueCustomers  int
}

// PeakDay is the date with the highest aggregated revenue.
type PeakDay struct {
	Date             string
	Revenue          decimal.Decimal
	TransactionCount int
}

// TotalRevenue sums Quantity * UnitPrice over all transactions.
// An empty collection yields zero.
func TotalRevenue(transactions []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range transactions {
		total = total.Add(txn.Amount())
	}
	return total
}

// RegionWiseSales aggregates sales per region, ordered descending by
// total sales. Ties keep encounter order. Percentage is each region's
// share of the grand total, rounded to 2 decimals, and zero when the
// grand total is zero.
func RegionWiseSales(transactions []models.Transaction) []RegionStat {
	index := make(map[string]int)
	stats := make([]RegionStat, 0)
	grandTotal := decimal.Zero

	for _, txn := range transactions {
		amount := txn.Amount()
		grandTotal = grandTotal.Add(amount)

		i, ok := index[txn.Region]
		if !ok {
			i = len(stats)
			index[txn.Region] = i
			stats = append(stats, RegionStat{Region: txn.Region})
		}
		stats[i].TotalSales = stats[i].TotalSales.Add(amount)
		stats[i].TransactionCount++
	}

	hundred := decimal.NewFromInt(100)
	for i := range stats {
		if grandTotal.IsPositive() {
			stats[i].Percentage = stats[i].TotalSales.Div(grandTotal).Mul(hundred).Round(2)
		} else {
			stats[i].Percentage = decimal.Zero
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalSales.GreaterThan(stats[j].TotalSales)
	})

	return stats
}

// TopSellingProducts returns the n products with the highest total
// quantity sold, ordered descending by quantity. Requesting more than
// the distinct-product count returns all products. Revenue is rounded
// to 2 decimals.
func TopSellingProducts(transactions []models.Transaction, n int) []ProductStat {
	stats := aggregateProducts(transactions)

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalQuantity > stats[j].TotalQuantity
	})

	if n < len(stats) {
		stats = stats[:n]
	}
	for i := range stats {
		stats[i].TotalRevenue = stats[i].TotalRevenue.Round(2)
	}
	return stats
}

// CustomerAnalysis aggregates purchase behavior per customer, ordered
// descending by total spent. AvgOrderValue and TotalSpent are rounded to
// 2 decimals; ProductsBought is the sorted set of distinct product names.
func CustomerAnalysis(transactions []models.Transaction) []CustomerStat {
	index := make(map[string]int)
	stats := make([]CustomerStat, 0)
	products := make(map[string]map[string]bool)

	for _, txn := range transactions {
		i, ok := index[txn.CustomerID]
		if !ok {
			i = len(stats)
			index[txn.CustomerID] = i
			stats = append(stats, CustomerStat{CustomerID: txn.CustomerID})
			products[txn.CustomerID] = make(map[string]bool)
		}
		stats[i].TotalSpent = stats[i].TotalSpent.Add(txn.Amount())
		stats[i].PurchaseCount++
		products[txn.CustomerID][txn.ProductName] = true
	}

	for i := range stats {
		if stats[i].PurchaseCount > 0 {
			count := decimal.NewFromInt(int64(stats[i].PurchaseCount))
			stats[i].AvgOrderValue = stats[i].TotalSpent.Div(count).Round(2)
		} else {
			stats[i].AvgOrderValue = decimal.Zero
		}
		stats[i].TotalSpent = stats[i].TotalSpent.Round(2)

		bought := make([]string, 0, len(products[stats[i].CustomerID]))
		for name := range products[stats[i].CustomerID] {
			bought = append(bought, name)
		}
		sort.Strings(bought)
		stats[i].ProductsBought = bought
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalSpent.GreaterThan(stats[j].TotalSpent)
	})

	return stats
}

// DailySalesTrend aggregates sales per calendar day, ordered
// chronologically ascending. Dates are compared as parsed calendar dates,
// not lexically; unparseable dates sort after parseable ones in their
// encounter order. Revenue is rounded to 2 decimals.
func DailySalesTrend(transactions []models.Transaction) []DailyStat {
	index := make(map[string]int)
	stats := make([]DailyStat, 0)
	customers := make(map[string]map[string]bool)

	for _, txn := range transactions {
		i, ok := index[txn.Date]
		if !ok {
			i = len(stats)
			index[txn.Date] = i
			stats = append(stats, DailyStat{Date: txn.Date})
			customers[txn.Date] = make(map[string]bool)
		}
		stats[i].Revenue = stats[i].Revenue.Add(txn.Amount())
		stats[i].TransactionCount++
		customers[txn.Date][txn.CustomerID] = true
	}

	for i := range stats {
		stats[i].Revenue = stats[i].Revenue.Round(2)
		stats[i].UniqueCustomers = len(customers[stats[i].Date])
	}

	sort.SliceStable(stats, func(i, j int) bool {
		di, erri := time.Parse("2006-01-02", stats[i].Date)
		dj, errj := time.Parse("2006-01-02", stats[j].Date)
		if erri != nil || errj != nil {
			return errj != nil && erri == nil
		}
		return di.Before(dj)
	})

	return stats
}

// FindPeakSalesDay returns the date with the highest aggregated revenue.
// On tied revenue the earlier calendar date wins, which keeps the result
// deterministic regardless of input order. The second return value is
// false when there are no transactions.
func FindPeakSalesDay(transactions []models.Transaction) (PeakDay, bool) {
	daily := DailySalesTrend(transactions)
	if len(daily) == 0 {
		return PeakDay{Revenue: decimal.Zero}, false
	}

	// daily is chronological, so a strict comparison picks the earliest
	// of any revenue tie.
	peak := daily[0]
	for _, day := range daily[1:] {
		if day.Revenue.GreaterThan(peak.Revenue) {
			peak = day
		}
	}

	return PeakDay{
		Date:             peak.Date,
		Revenue:          peak.Revenue,
		TransactionCount: peak.TransactionCount,
	}, true
}

// LowPerformingProducts returns products whose total quantity sold is
// strictly below threshold, ordered ascending by quantity. Revenue is
// rounded to 2 decimals.
func LowPerformingProducts(transactions []models.Transaction, threshold int) []ProductStat {
	stats := aggregateProducts(transactions)

	low := make([]ProductStat, 0)
	for _, stat := range stats {
		if stat.TotalQuantity < threshold {
			stat.TotalRevenue = stat.TotalRevenue.Round(2)
			low = append(low, stat)
		}
	}

	sort.SliceStable(low, func(i, j int) bool {
		return low[i].TotalQuantity < low[j].TotalQuantity
	})

	return low
}

// aggregateProducts groups quantity and revenue by product name in
// encounter order.
func aggregateProducts(transactions []models.Transaction) []ProductStat {
	index := make(map[string]int)
	stats := make([]ProductStat, 0)

	for _, txn := range transactions {
		i, ok := index[txn.ProductName]
		if !ok {
			i = len(stats)
			index[txn.ProductName] = i
			stats = append(stats, ProductStat{Name: txn.ProductName})
		}
		stats[i].TotalQuantity += txn.Quantity
		stats[i].TotalRevenue = stats[i].TotalRevenue.Add(txn.Amount())
	}

	return stats
}
