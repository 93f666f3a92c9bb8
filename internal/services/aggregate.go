package services

import (
	"math"
	"slices"
	"strings"

	"sales-dashboard/internal/models"
)

// Summarize computes every KPI and breakdown for a filtered table.
func Summarize(orders []models.Order) models.Summary {
	return models.Summary{
		Metrics:       Totals(orders),
		SegmentProfit: SegmentBreakdown(orders, profitOf),
		SegmentSales:  SegmentBreakdown(orders, salesOf),
		RowCount:      len(orders),
	}
}

// Totals sums Sales, Profit and Sales Forecast and truncates each toward zero.
func Totals(orders []models.Order) models.Metrics {
	var sales, profit, forecast float64
	for _, o := range orders {
		sales += o.Sales
		profit += o.Profit
		forecast += o.SalesForecast
	}

	m := models.Metrics{
		TotalSales:    truncate(sales),
		ProfitEarned:  truncate(profit),
		SalesForecast: truncate(forecast),
	}
	m.SalesDelta = m.TotalSales - m.SalesForecast
	return m
}

// SegmentBreakdown sums value per segment and orders the result by sum,
// largest first. Equal sums keep ascending segment order.
func SegmentBreakdown(orders []models.Order, value func(models.Order) float64) []models.SegmentTotal {
	sums := make(map[string]float64)
	for _, o := range orders {
		sums[o.Segment] += value(o)
	}

	result := make([]models.SegmentTotal, 0, len(sums))
	for segment, total := range sums {
		result = append(result, models.SegmentTotal{Segment: segment, Value: total})
	}

	slices.SortFunc(result, func(a, b models.SegmentTotal) int {
		return strings.Compare(a.Segment, b.Segment)
	})
	slices.SortStableFunc(result, func(a, b models.SegmentTotal) int {
		if a.Value > b.Value {
			return -1
		}
		if a.Value < b.Value {
			return 1
		}
		return 0
	})
	return result
}

func profitOf(o models.Order) float64 { return o.Profit }

func salesOf(o models.Order) float64 { return o.Sales }

func truncate(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return int64(math.Trunc(v))
}
