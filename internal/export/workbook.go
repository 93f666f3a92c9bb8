// Package export writes the current dashboard view as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/models"
)

const (
	SummarySheet = "Summary"
	OrdersSheet  = "Orders"
)

var orderHeader = []any{
	"Region", "State", "City", "Category", "Sub-Category",
	"Product Name", "Segment", "Sales", "Profit", "Sales Forecast",
}

// Workbook writes a two-sheet workbook: Summary carries the KPIs, the
// segment breakdowns, the active filters and native charts over them;
// Orders lists the filtered rows.
func Workbook(w io.Writer, dash models.Dashboard, orders []models.Order) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSummary(f, dash); err != nil {
		return err
	}

	if _, err := f.NewSheet(OrdersSheet); err != nil {
		return fmt.Errorf("create orders sheet: %w", err)
	}
	if err := writeOrders(f, orders); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, dash models.Dashboard) error {
	m := dash.Summary.Metrics
	rows := [][]any{
		{"Metric", "Value"},
		{"Total Sales", m.TotalSales},
		{"Profit", m.ProfitEarned},
		{"Sales Forecast", m.SalesForecast},
		{"Sales Delta", m.SalesDelta},
		{"Rows", dash.Summary.RowCount},
	}
	for i, row := range rows {
		if err := setRow(f, SummarySheet, 1, i+1, row); err != nil {
			return err
		}
	}

	if err := writeSegments(f, 4, "Profit", dash.Summary.SegmentProfit); err != nil {
		return err
	}
	if err := writeSegments(f, 7, "Sales", dash.Summary.SegmentSales); err != nil {
		return err
	}

	filterRow := len(rows) + 2
	if err := setRow(f, SummarySheet, 1, filterRow, []any{"Filter", "Selected"}); err != nil {
		return err
	}
	for i, field := range models.Fields {
		selected := "All"
		if values := dash.Selection.Get(field); len(values) > 0 {
			selected = strings.Join(values, ", ")
		}
		if err := setRow(f, SummarySheet, 1, filterRow+i+1, []any{field.Label(), selected}); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", 26); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 40); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	return addCharts(f, dash.Summary)
}

// writeSegments lays a breakdown out as a two-column table starting at row 1
// of the given column.
func writeSegments(f *excelize.File, col int, valueName string, totals []models.SegmentTotal) error {
	if err := setRow(f, SummarySheet, col, 1, []any{"Segment", valueName}); err != nil {
		return err
	}
	for i, t := range totals {
		if err := setRow(f, SummarySheet, col, i+2, []any{t.Segment, t.Value}); err != nil {
			return err
		}
	}
	return nil
}

func addCharts(f *excelize.File, s models.Summary) error {
	bar := &excelize.Chart{
		Type: excelize.Bar,
		Series: []excelize.ChartSeries{{
			Name:       SummarySheet + "!$B$1",
			Categories: SummarySheet + "!$A$2:$A$4",
			Values:     SummarySheet + "!$B$2:$B$4",
		}},
		Title:     []excelize.RichTextRun{{Text: charts.BarTitle}},
		Legend:    excelize.ChartLegend{Position: "none"},
		PlotArea:  excelize.ChartPlotArea{ShowVal: true},
		Dimension: excelize.ChartDimension{Width: 480, Height: 290},
	}
	if err := f.AddChart(SummarySheet, "K2", bar); err != nil {
		return fmt.Errorf("add bar chart: %w", err)
	}

	donuts := []struct {
		cell   string
		title  string
		label  string
		col    string
		totals []models.SegmentTotal
	}{
		{"K18", charts.ProfitDonutTitle, "D", "E", s.SegmentProfit},
		{"K34", charts.SalesDonutTitle, "G", "H", s.SegmentSales},
	}
	for _, d := range donuts {
		if len(d.totals) == 0 {
			continue
		}
		last := len(d.totals) + 1
		chart := &excelize.Chart{
			Type:     excelize.Doughnut,
			HoleSize: 50,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("%s!$%s$1", SummarySheet, d.col),
				Categories: fmt.Sprintf("%s!$%s$2:$%s$%d", SummarySheet, d.label, d.label, last),
				Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", SummarySheet, d.col, d.col, last),
			}},
			Title:     []excelize.RichTextRun{{Text: d.title}},
			Legend:    excelize.ChartLegend{Position: "right"},
			PlotArea:  excelize.ChartPlotArea{ShowVal: true},
			Dimension: excelize.ChartDimension{Width: 480, Height: 290},
		}
		if err := f.AddChart(SummarySheet, d.cell, chart); err != nil {
			return fmt.Errorf("add %s chart: %w", d.title, err)
		}
	}
	return nil
}

func writeOrders(f *excelize.File, orders []models.Order) error {
	sw, err := f.NewStreamWriter(OrdersSheet)
	if err != nil {
		return fmt.Errorf("open orders stream: %w", err)
	}

	if err := sw.SetRow("A1", orderHeader); err != nil {
		return fmt.Errorf("write orders header: %w", err)
	}
	for i, o := range orders {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			o.Region, o.State, o.City, o.Category, o.SubCategory,
			o.ProductName, o.Segment, o.Sales, o.Profit, o.SalesForecast,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write order row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush orders: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, col, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}
