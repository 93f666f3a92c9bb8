// Package dataset loads the order table and the sidebar image and keeps them
// for the lifetime of the process.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"sales-dashboard/internal/models"
)

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing required column")

// ErrNotFinite marks amount cells spelling NaN or an infinity.
var ErrNotFinite = errors.New("amount is not a finite number")

// ParseError reports a cell that could not be converted.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %q: cannot parse %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Table is an immutable, fully parsed order table.
type Table struct {
	Path     string
	LoadedAt time.Time
	orders   []models.Order
}

func NewTable(path string, orders []models.Order) *Table {
	return &Table{
		Path:     path,
		LoadedAt: time.Now(),
		orders:   orders,
	}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.orders)
}

// Orders exposes the rows. Callers must treat the slice as read-only.
func (t *Table) Orders() []models.Order {
	if t == nil {
		return nil
	}
	return t.orders
}

// column keys after normalizeHeader
const (
	colRegion        = "region"
	colState         = "state"
	colCity          = "city"
	colCategory      = "category"
	colSubCategory   = "subcategory"
	colProductName   = "productname"
	colSegment       = "segment"
	colSales         = "sales"
	colProfit        = "profit"
	colSalesForecast = "salesforecast"
)

var requiredColumns = []struct {
	key  string
	name string
}{
	{colRegion, "Region"},
	{colState, "State"},
	{colCity, "City"},
	{colCategory, "Category"},
	{colSubCategory, "SubCategory"},
	{colProductName, "ProductName"},
	{colSegment, "Segment"},
	{colSales, "Sales"},
	{colProfit, "Profit"},
	{colSalesForecast, "Sales Forecast"},
}

// columnIndex maps a normalized header to its position in a row.
type columnIndex map[string]int

func indexColumns(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := idx[c.key]; !ok {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

func (c columnIndex) cell(record []string, key string) string {
	i := c[key]
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (c columnIndex) amount(record []string, key, name string, line int) (float64, error) {
	raw := c.cell(record, key)
	v, err := parseAmount(raw)
	if err != nil {
		return 0, &ParseError{Line: line, Column: name, Value: raw, Err: err}
	}
	return v, nil
}

func (c columnIndex) order(record []string, line int) (models.Order, error) {
	sales, err := c.amount(record, colSales, "Sales", line)
	if err != nil {
		return models.Order{}, err
	}
	profit, err := c.amount(record, colProfit, "Profit", line)
	if err != nil {
		return models.Order{}, err
	}
	forecast, err := c.amount(record, colSalesForecast, "Sales Forecast", line)
	if err != nil {
		return models.Order{}, err
	}

	return models.Order{
		Region:        c.cell(record, colRegion),
		State:         c.cell(record, colState),
		City:          c.cell(record, colCity),
		Category:      c.cell(record, colCategory),
		SubCategory:   c.cell(record, colSubCategory),
		ProductName:   c.cell(record, colProductName),
		Segment:       c.cell(record, colSegment),
		Sales:         sales,
		Profit:        profit,
		SalesForecast: forecast,
	}, nil
}

// normalizeHeader folds "Sales Forecast", "sales_forecast" and
// "Sub-Category" style headers onto one key.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		switch r {
		case ' ', '_', '-', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// parseAmount accepts "1234.5", "$1,234.50" and "-$12". NaN and infinities
// are rejected so one bad cell cannot poison every sum.
func parseAmount(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotFinite
	}
	if neg {
		v = -v
	}
	return v, nil
}
