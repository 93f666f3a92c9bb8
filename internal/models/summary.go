package models

// Metrics are the KPI tile values, truncated toward zero.
type Metrics struct {
	TotalSales    int64 `json:"total_sales"`
	ProfitEarned  int64 `json:"profit_earned"`
	SalesForecast int64 `json:"sales_forecast"`
	SalesDelta    int64 `json:"sales_delta"`
}

type SegmentTotal struct {
	Segment string  `json:"segment"`
	Value   float64 `json:"value"`
}

// Summary is everything one render pass needs.
type Summary struct {
	Metrics       Metrics        `json:"metrics"`
	SegmentProfit []SegmentTotal `json:"sales_segment_profit"`
	SegmentSales  []SegmentTotal `json:"sales_segment_sales"`
	RowCount      int            `json:"row_count"`
}

// Dashboard bundles the resolved filter state with its summary.
type Dashboard struct {
	Selection Selection `json:"selection"`
	Options   Options   `json:"options"`
	Summary   Summary   `json:"summary"`
}
