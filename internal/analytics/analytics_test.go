package analytics

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/sales-analytics/internal/models"
)

func txn(date, productID, name string, qty int, price, customer, region string) models.Transaction {
	return models.Transaction{
		TransactionID: "T1",
		Date:          date,
		ProductID:     productID,
		ProductName:   name,
		Quantity:      qty,
		UnitPrice:     decimal.RequireFromString(price),
		CustomerID:    customer,
		Region:        region,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTotalRevenue(t *testing.T) {
	tests := []struct {
		name string
		txns []models.Transaction
		want string
	}{
		{
			name: "empty collection",
			txns: nil,
			want: "0",
		},
		{
			name: "single transaction",
			txns: []models.Transaction{txn("2024-01-01", "P1", "Widget", 5, "10.0", "C1", "North")},
			want: "50",
		},
		{
			name: "sums across transactions",
			txns: []models.Transaction{
				txn("2024-01-01", "P1", "Widget", 5, "10.0", "C1", "North"),
				txn("2024-01-02", "P2", "Gadget", 2, "7.25", "C2", "South"),
			},
			want: "64.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalRevenue(tt.txns)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("TotalRevenue() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRegionWiseSales(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-01-01", "P1", "A", 1, "30", "C1", "South"),
		txn("2024-01-01", "P2", "B", 1, "60", "C2", "North"),
		txn("2024-01-02", "P3", "C", 1, "10", "C3", "East"),
	}

	got := RegionWiseSales(txns)

	if len(got) != 3 {
		t.Fatalf("got %d regions, want 3", len(got))
	}
	wantOrder := []string{"North", "South", "East"}
	for i, region := range wantOrder {
		if got[i].Region != region {
			t.Errorf("got[%d].Region = %s, want %s (descending by total sales)", i, got[i].Region, region)
		}
	}
	if !got[0].Percentage.Equal(dec("60")) || !got[1].Percentage.Equal(dec("30")) || !got[2].Percentage.Equal(dec("10")) {
		t.Errorf("percentages = %s/%s/%s, want 60/30/10", got[0].Percentage, got[1].Percentage, got[2].Percentage)
	}
	if got[0].TransactionCount != 1 {
		t.Errorf("TransactionCount = %d, want 1", got[0].TransactionCount)
	}
}

func TestRegionWiseSales_PercentagesSumToHundred(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-01-01", "P1", "A", 3, "9.99", "C1", "North"),
		txn("2024-01-01", "P2", "B", 7, "1.37", "C2", "South"),
		txn("2024-01-02", "P3", "C", 2, "45.5", "C3", "East"),
		txn("2024-01-03", "P4", "D", 1, "0.01", "C4", "West"),
	}

	sum := decimal.Zero
	for _, stat := range RegionWiseSales(txns) {
		sum = sum.Add(stat.Percentage)
	}

	diff := sum.Sub(dec("100")).Abs()
	if diff.GreaterThan(dec("0.05")) {
		t.Errorf("percentages sum to %s, want ~100", sum)
	}
}

func TestRegionWiseSales_TiesKeepEncounterOrder(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-01-01", "P1", "A", 1, "50", "C1", "West"),
		txn("2024-01-01", "P2", "B", 1, "50", "C2", "East"),
	}

	got := RegionWiseSales(txns)

	if got[0].Region != "West" || got[1].Region != "East" {
		t.Errorf("tied regions reordered: %s, %s", got[0].Region, got[1].Region)
	}
}

func TestRegionWiseSales_Empty(t *testing.T) {
	if got := RegionWiseSales(nil); len(got) != 0 {
		t.Errorf("RegionWiseSales(nil) = %+v, want empty", got)
	}
}

func TestTopSellingProducts(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-01-01", "P1", "Widget", 3, "10", "C1", "North"),
		txn("2024-01-01", "P2", "Gadget", 8, "5", "C2", "North"),
		txn("2024-01-02", "P1", "Widget", 4, "10", "C3", "South"),
		txn("2024-01-02", "P3", "Gizmo", 2, "99.999", "C4", "South"),
	}

	got := TopSellingProducts(txns, 2)

	if len(got) != 2 {
		t.Fatalf("got %d products, want 2", len(got))
	}
	if got[0].Name != "Gadget" || got[0].TotalQuantity != 8 {
		t.Errorf("got[0] = %+v, want Gadget with quantity 8", got[0])
	}
	if got[1].Name != "Widget" || got[1].TotalQuantity != 7 {
		t.Errorf("got[1] = %+v, want Widget with quantity 7", got[1])
	}
	if !got[1].TotalRevenue.Equal(dec("70")) {
		t.Errorf("Widget revenue = %s, want 70", got[1].TotalRevenue)
	}
}

func TestTopSellingProducts_NLargerThanDistinct(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-01-01", "P1", "Widget", 3, "10", "C1", "North"),
		txn("2024-01-01", "P2", "Gadget", 8, "5", "C2", "North"),
	}

	got := TopSellingProducts(txns, 10)

	if len(got) != 2 {
		t.Errorf("got %d products, want all 2 distinct products", len(got))
	}
}

func TestTopSellingProducts_RevenueRounded(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-01-01", "P3", "Gizmo", 2, "99.999", "C4", "South"),
	}

	got := TopSellingProducts(txns, 5)

	if !got[0].TotalRevenue.Equal(dec("200.00")) {
		t.Errorf("revenue = %s, want 200.00 (rounded to 2 decimals)", got[0].TotalRevenue)
	}
}

func TestCustomerAnalysis(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-01-01", "P1", "Widget", 1, "10", "C1", "North"),
		txn("2024-01-02", "P2", "Gadget", 1, "30", "C2", "North"),
		txn("2024-01-03", "P3", "Gizmo", 1, "25", "C1", "South"),
		txn("2024-01-04", "P1", "Widget", 2, "10", "C1", "South"),
	}

	got := CustomerAnalysis(txns)

	if len(got) != 2 {
		t.Fatalf("got %d customers, want 2", len(got))
	}
	// C1 spent 55, C2 spent 30: descending by total spent.
	if got[0].CustomerID != "C1" || got[1].CustomerID != "C2" {
		t.Errorf("order = %s, %s, want C1, C2", got[0].CustomerID, got[1].CustomerID)
	}
	if !got[0].TotalSpent.Equal(dec("55")) {
		t.Errorf("C1 TotalSpent = %s, want 55", got[0].TotalSpent)
	}
	if got[0].PurchaseCount != 3 {
		t.Errorf("C1 PurchaseCount = %d, want 3", got[0].PurchaseCount)
	}
	if !got[0].AvgOrderValue.Equal(dec("18.33")) {
		t.Errorf("C1 AvgOrderValue = %s, want 18.33 (55/3 rounded)", got[0].AvgOrderValue)
	}
	wantProducts := []string{"Gizmo", "Widget"}
	if !reflect.DeepEqual(got[0].ProductsBought, wantProducts) {
		t.Errorf("C1 ProductsBought = %v, want %v (deduplicated, sorted)", got[0].ProductsBought, wantProducts)
	}
}

func TestDailySalesTrend(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-01-02", "P1", "Widget", 3, "10", "C1", "North"),
		txn("2024-01-01", "P2", "Gadget", 1, "5", "C2", "North"),
		txn("2024-01-02", "P3", "Gizmo", 7, "10", "C2", "South"),
	}

	got := DailySalesTrend(txns)

	if len(got) != 2 {
		t.Fatalf("got %d days, want 2", len(got))
	}
	if got[0].Date != "2024-01-01" || got[1].Date != "2024-01-02" {
		t.Errorf("dates = %s, %s, want chronological order", got[0].Date, got[1].Date)
	}
	day := got[1]
	if !day.Revenue.Equal(dec("100")) {
		t.Errorf("revenue = %s, want 100", day.Revenue)
	}
	if day.TransactionCount != 2 {
		t.Errorf("TransactionCount = %d, want 2", day.TransactionCount)
	}
	if day.UniqueCustomers != 2 {
		t.Errorf("UniqueCustomers = %d, want 2", day.UniqueCustomers)
	}
}

func TestDailySalesTrend_SameCustomerCountedOnce(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-01-01", "P1", "Widget", 1, "10", "C1", "North"),
		txn("2024-01-01", "P2", "Gadget", 1, "10", "C1", "North"),
	}

	got := DailySalesTrend(txns)

	if got[0].UniqueCustomers != 1 {
		t.Errorf("UniqueCustomers = %d, want 1", got[0].UniqueCustomers)
	}
}

func TestFindPeakSalesDay(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-01-01", "P1", "Widget", 1, "40", "C1", "North"),
		txn("2024-01-02", "P2", "Gadget", 1, "30", "C1", "North"),
		txn("2024-01-02", "P3", "Gizmo", 1, "70", "C2", "South"),
	}

	peak, ok := FindPeakSalesDay(txns)

	if !ok {
		t.Fatal("FindPeakSalesDay() reported no data")
	}
	if peak.Date != "2024-01-02" {
		t.Errorf("Date = %s, want 2024-01-02", peak.Date)
	}
	if !peak.Revenue.Equal(dec("100")) {
		t.Errorf("Revenue = %s, want 100", peak.Revenue)
	}
	if peak.TransactionCount != 2 {
		t.Errorf("TransactionCount = %d, want 2", peak.TransactionCount)
	}
}

func TestFindPeakSalesDay_TieBreaksToEarlierDate(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-01-05", "P1", "Widget", 1, "50", "C1", "North"),
		txn("2024-01-02", "P2", "Gadget", 1, "50", "C2", "North"),
	}

	peak, ok := FindPeakSalesDay(txns)

	if !ok {
		t.Fatal("FindPeakSalesDay() reported no data")
	}
	if peak.Date != "2024-01-02" {
		t.Errorf("Date = %s, want earlier date 2024-01-02 on tied revenue", peak.Date)
	}
}

func TestFindPeakSalesDay_Empty(t *testing.T) {
	peak, ok := FindPeakSalesDay(nil)

	if ok {
		t.Error("FindPeakSalesDay(nil) reported data")
	}
	if peak.Date != "" || !peak.Revenue.Equal(decimal.Zero) || peak.TransactionCount != 0 {
		t.Errorf("peak = %+v, want zero sentinel", peak)
	}
}

func TestLowPerformingProducts(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-01-01", "P1", "Widget", 12, "10", "C1", "North"),
		txn("2024-01-01", "P2", "Gadget", 3, "5", "C2", "North"),
		txn("2024-01-02", "P3", "Gizmo", 9, "2", "C3", "South"),
	}

	got := LowPerformingProducts(txns, 10)

	if len(got) != 2 {
		t.Fatalf("got %d products, want 2", len(got))
	}
	if got[0].Name != "Gadget" || got[1].Name != "Gizmo" {
		t.Errorf("order = %s, %s, want ascending by quantity", got[0].Name, got[1].Name)
	}
}

// A product at or above the threshold never appears in the low performers,
// so the top and low lists partition consistently.
func TestTopAndLowPartitionConsistently(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-01-01", "P1", "Widget", 12, "10", "C1", "North"),
		txn("2024-01-01", "P2", "Gadget", 10, "5", "C2", "North"),
		txn("2024-01-02", "P3", "Gizmo", 9, "2", "C3", "South"),
	}
	const threshold = 10

	low := LowPerformingProducts(txns, threshold)

	for _, p := range low {
		if p.TotalQuantity >= threshold {
			t.Errorf("product %s with quantity %d >= threshold appears in low performers", p.Name, p.TotalQuantity)
		}
	}
	if len(low) != 1 || low[0].Name != "Gizmo" {
		t.Errorf("low performers = %+v, want only Gizmo", low)
	}
}

// Aggregations hold no hidden state: the same input yields the same
// output on every call.
func TestAggregationsAreIdempotent(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-01-02", "P1", "Widget", 3, "10", "C1", "North"),
		txn("2024-01-01", "P2", "Gadget", 1, "5", "C2", "South"),
		txn("2024-01-02", "P3", "Gizmo", 7, "10", "C2", "North"),
	}

	if !TotalRevenue(txns).Equal(TotalRevenue(txns)) {
		t.Error("TotalRevenue not idempotent")
	}
	if !reflect.DeepEqual(RegionWiseSales(txns), RegionWiseSales(txns)) {
		t.Error("RegionWiseSales not idempotent")
	}
	if !reflect.DeepEqual(TopSellingProducts(txns, 2), TopSellingProducts(txns, 2)) {
		t.Error("TopSellingProducts not idempotent")
	}
	if !reflect.DeepEqual(CustomerAnalysis(txns), CustomerAnalysis(txns)) {
		t.Error("CustomerAnalysis not idempotent")
	}
	if !reflect.DeepEqual(DailySalesTrend(txns), DailySalesTrend(txns)) {
		t.Error("DailySalesTrend not idempotent")
	}
	if !reflect.DeepEqual(LowPerformingProducts(txns, 10), LowPerformingProducts(txns, 10)) {
		t.Error("LowPerformingProducts not idempotent")
	}
}
