// Package report renders the sales analytics report. The renderer only
// formats data the aggregation engine already computed; it never re-derives
// a statistic itself, so the report can never disagree with the engine.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/sales-analytics/internal/analytics"
)

// topCustomerCount caps the customer table at the same size as the
// product table.
const topCustomerCount = 5

// Data is everything the renderer needs, assembled from engine output.
type Data struct {
	RunID       string
	GeneratedAt time.Time
	Currency    string

	RecordCount   int
	TotalRevenue  decimal.Decimal
	AvgOrderValue decimal.Decimal
	DateRange     string

	Regions       []analytics.RegionStat
	TopProducts   []analytics.ProductStat
	TopCustomers  []analytics.CustomerStat
	Daily         []analytics.DailyStat
	Peak          analytics.PeakDay
	HasPeak       bool
	LowPerformers []analytics.ProductStat

	EnrichedCount     int
	EnrichedTotal     int
	UnmatchedProducts []string
}

// Results bundles the aggregation engine outputs a report is built from.
type Results struct {
	TotalRevenue  decimal.Decimal
	Regions       []analytics.RegionStat
	TopProducts   []analytics.ProductStat
	Customers     []analytics.CustomerStat
	Daily         []analytics.DailyStat
	Peak          analytics.PeakDay
	HasPeak       bool
	LowPerformers []analytics.ProductStat
}

// EnrichmentSummary carries the enrichment counts for the report. The
// caller computes it from the enriched collection; the renderer never
// inspects transactions itself.
type EnrichmentSummary struct {
	Matched   int
	Total     int
	Unmatched []string // distinct product names without a catalog match
}

// Build assembles report Data from engine results and the enrichment
// summary. Derived presentation values (average order value, date range,
// enrichment rate) are computed here from engine output only.
func Build(runID string, currency string, recordCount int, results Results, enrichment EnrichmentSummary) Data {
	data := Data{
		RunID:         runID,
		GeneratedAt:   time.Now(),
		Currency:      currency,
		RecordCount:   recordCount,
		TotalRevenue:  results.TotalRevenue,
		Regions:       results.Regions,
		TopProducts:   results.TopProducts,
		TopCustomers:  results.Customers,
		Daily:         results.Daily,
		Peak:          results.Peak,
		HasPeak:       results.HasPeak,
		LowPerformers: results.LowPerformers,
	}

	if len(data.TopCustomers) > topCustomerCount {
		data.TopCustomers = data.TopCustomers[:topCustomerCount]
	}

	if recordCount > 0 {
		data.AvgOrderValue = results.TotalRevenue.Div(decimal.NewFromInt(int64(recordCount))).Round(2)
	} else {
		data.AvgOrderValue = decimal.Zero
	}

	// Daily is chronological, so the range is first to last.
	if len(results.Daily) > 0 {
		data.DateRange = fmt.Sprintf("%s to %s", results.Daily[0].Date, results.Daily[len(results.Daily)-1].Date)
	} else {
		data.DateRange = "N/A"
	}

	data.EnrichedCount = enrichment.Matched
	data.EnrichedTotal = enrichment.Total
	data.UnmatchedProducts = append([]string(nil), enrichment.Unmatched...)
	sort.Strings(data.UnmatchedProducts)

	return data
}

// Render writes the fixed-layout text report.
func Render(w io.Writer, data Data) error {
	var b strings.Builder
	rule := strings.Repeat("=", 44)
	line := strings.Repeat("-", 44)

	b.WriteString(rule + "\n")
	b.WriteString("       SALES ANALYTICS REPORT\n")
	fmt.Fprintf(&b, "     Generated: %s\n", data.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "     Run ID: %s\n", data.RunID)
	fmt.Fprintf(&b, "     Records Processed: %d\n", data.RecordCount)
	b.WriteString(rule + "\n\n")

	b.WriteString("OVERALL SUMMARY\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Total Revenue:        %s%s\n", data.Currency, money(data.TotalRevenue, 2))
	fmt.Fprintf(&b, "Total Transactions:   %d\n", data.RecordCount)
	fmt.Fprintf(&b, "Average Order Value:  %s%s\n", data.Currency, money(data.AvgOrderValue, 2))
	fmt.Fprintf(&b, "Date Range:           %s\n\n", data.DateRange)

	b.WriteString("REGION-WISE PERFORMANCE\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "%-10s%-15s%-12s%s\n", "Region", "Sales", "% Total", "Txn")
	for _, r := range data.Regions {
		fmt.Fprintf(&b, "%-10s%s%13s%10s%%%6d\n",
			r.Region, data.Currency, money(r.TotalSales, 0), r.Percentage.StringFixed(2), r.TransactionCount)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "TOP %d PRODUCTS\n", len(data.TopProducts))
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "%-5s%-20s%-8s%s\n", "Rank", "Product", "Qty", "Revenue")
	for i, p := range data.TopProducts {
		fmt.Fprintf(&b, "%-5d%-20s%-8d%s%s\n",
			i+1, p.Name, p.TotalQuantity, data.Currency, money(p.TotalRevenue, 0))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "TOP %d CUSTOMERS\n", len(data.TopCustomers))
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "%-5s%-15s%-15s%s\n", "Rank", "Customer", "Spent", "Orders")
	for i, c := range data.TopCustomers {
		fmt.Fprintf(&b, "%-5d%-15s%s%13s%8d\n",
			i+1, c.CustomerID, data.Currency, money(c.TotalSpent, 0), c.PurchaseCount)
	}
	b.WriteString("\n")

	b.WriteString("DAILY SALES TREND\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "%-12s%-15s%-6s%s\n", "Date", "Revenue", "Txn", "Customers")
	for _, d := range data.Daily {
		fmt.Fprintf(&b, "%-12s%s%13s%6d%10d\n",
			d.Date, data.Currency, money(d.Revenue, 0), d.TransactionCount, d.UniqueCustomers)
	}
	b.WriteString("\n")

	b.WriteString("PRODUCT PERFORMANCE ANALYSIS\n")
	b.WriteString(line + "\n")
	if data.HasPeak {
		fmt.Fprintf(&b, "Best Selling Day: %s (%s%s)\n", data.Peak.Date, data.Currency, money(data.Peak.Revenue, 0))
	} else {
		b.WriteString("Best Selling Day: N/A\n")
	}
	b.WriteString("Low Performing Products:\n")
	for _, p := range data.LowPerformers {
		fmt.Fprintf(&b, "  - %s (Qty: %d, Revenue: %s%s)\n", p.Name, p.TotalQuantity, data.Currency, money(p.TotalRevenue, 0))
	}
	b.WriteString("\n")

	b.WriteString("API ENRICHMENT SUMMARY\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Total Enriched Records: %d/%d\n", data.EnrichedCount, data.EnrichedTotal)
	fmt.Fprintf(&b, "Success Rate: %s%%\n", enrichmentRate(data.EnrichedCount, data.EnrichedTotal))
	b.WriteString("Unmatched Products:\n")
	for _, name := range data.UnmatchedProducts {
		fmt.Fprintf(&b, "  - %s\n", name)
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("Render: %w", err)
	}
	return nil
}

func enrichmentRate(count, total int) string {
	if total == 0 {
		return decimal.Zero.StringFixed(2)
	}
	return decimal.NewFromInt(int64(count)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		StringFixed(2)
}

// money formats a decimal with thousands separators and the given number
// of fraction digits.
func money(d decimal.Decimal, places int) string {
	s := d.StringFixed(int32(places))

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ",") + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
