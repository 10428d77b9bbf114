package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX exports the report data to a workbook with one sheet per
// section. Values come straight from the already-computed report Data,
// mirroring the text report.
func WriteXLSX(path string, data Data) error {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	// The default sheet is renamed so the workbook opens on the summary.
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("WriteXLSX: %w", err)
	}

	summaryRows := [][]interface{}{
		{"Run ID", data.RunID},
		{"Generated", data.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Records Processed", data.RecordCount},
		{"Total Revenue", data.TotalRevenue.InexactFloat64()},
		{"Average Order Value", data.AvgOrderValue.InexactFloat64()},
		{"Date Range", data.DateRange},
		{"Enriched Records", fmt.Sprintf("%d/%d", data.EnrichedCount, data.EnrichedTotal)},
	}
	if err := writeRows(f, summarySheet, summaryRows); err != nil {
		return err
	}

	regionRows := [][]interface{}{{"Region", "Total Sales", "% of Total", "Transactions"}}
	for _, r := range data.Regions {
		regionRows = append(regionRows, []interface{}{
			r.Region, r.TotalSales.InexactFloat64(), r.Percentage.InexactFloat64(), r.TransactionCount,
		})
	}
	if err := addSheet(f, "Regions", regionRows); err != nil {
		return err
	}

	productRows := [][]interface{}{{"Rank", "Product", "Quantity", "Revenue"}}
	for i, p := range data.TopProducts {
		productRows = append(productRows, []interface{}{
			i + 1, p.Name, p.TotalQuantity, p.TotalRevenue.InexactFloat64(),
		})
	}
	for _, p := range data.LowPerformers {
		productRows = append(productRows, []interface{}{
			"low", p.Name, p.TotalQuantity, p.TotalRevenue.InexactFloat64(),
		})
	}
	if err := addSheet(f, "Products", productRows); err != nil {
		return err
	}

	customerRows := [][]interface{}{{"Rank", "Customer", "Total Spent", "Orders", "Avg Order"}}
	for i, c := range data.TopCustomers {
		customerRows = append(customerRows, []interface{}{
			i + 1, c.CustomerID, c.TotalSpent.InexactFloat64(), c.PurchaseCount, c.AvgOrderValue.InexactFloat64(),
		})
	}
	if err := addSheet(f, "Customers", customerRows); err != nil {
		return err
	}

	dailyRows := [][]interface{}{{"Date", "Revenue", "Transactions", "Unique Customers"}}
	for _, d := range data.Daily {
		dailyRows = append(dailyRows, []interface{}{
			d.Date, d.Revenue.InexactFloat64(), d.TransactionCount, d.UniqueCustomers,
		})
	}
	if err := addSheet(f, "Daily Trend", dailyRows); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("WriteXLSX: save %s: %w", path, err)
	}
	return nil
}

func addSheet(f *excelize.File, name string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("WriteXLSX: sheet %s: %w", name, err)
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("WriteXLSX: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("WriteXLSX: sheet %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
