// Package templates holds the dashboard components. Each fragment carries
// the element id that server-sent patches target. Markup lives in the .templ
// files; run `templ generate` after editing them.
package templates

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/a-h/templ"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/format"
	"sales-dashboard/internal/models"
)

const Title = "Sales Dashboard"

type Option struct {
	Value    string
	Selected bool
}

type Filter struct {
	Field   models.Field
	Label   string
	Signal  string
	Options []Option
}

type KPIs struct {
	Forecast   string
	Sales      string
	Delta      string
	DeltaClass string
	Profit     string
	Rows       string
}

type Charts struct {
	Bar           string
	Profit        string
	Sales         string
	BarTitle      string
	ProfitTitle   string
	ProfitCaption string
	SalesTitle    string
	SalesCaption  string
	Width         int
	Height        int
}

type Page struct {
	Title    string
	Signals  string
	HasImage bool
	Filters  []Filter
	KPIs     KPIs
	Charts   Charts
}

// NewFilters lists every multi-select with its offered values, marking the
// ones that are selected.
func NewFilters(d models.Dashboard) []Filter {
	filters := make([]Filter, 0, len(models.Fields))
	for _, f := range models.Fields {
		selected := make(map[string]struct{})
		for _, v := range d.Selection.Get(f) {
			selected[v] = struct{}{}
		}

		offered := d.Options.Get(f)
		opts := make([]Option, len(offered))
		for i, v := range offered {
			_, ok := selected[v]
			opts[i] = Option{Value: v, Selected: ok}
		}

		filters = append(filters, Filter{
			Field:   f,
			Label:   f.Label(),
			Signal:  f.Signal(),
			Options: opts,
		})
	}
	return filters
}

func NewKPIs(s models.Summary) KPIs {
	k := KPIs{
		Forecast: format.Currency(s.Metrics.SalesForecast),
		Sales:    format.Currency(s.Metrics.TotalSales),
		Delta:    format.Delta(s.Metrics.SalesDelta),
		Profit:   format.Currency(s.Metrics.ProfitEarned),
		Rows:     format.Number(s.RowCount),
	}
	switch {
	case s.Metrics.SalesDelta > 0:
		k.DeltaClass = "up"
	case s.Metrics.SalesDelta < 0:
		k.DeltaClass = "down"
	}
	return k
}

// NewCharts points the chart images at the SVG endpoints. query is the
// encoded selection, without a leading "?".
func NewCharts(query string, width, height int) Charts {
	suffix := ""
	if query != "" {
		suffix = "?" + query
	}
	return Charts{
		Bar:           "/charts/bar.svg" + suffix,
		Profit:        "/charts/segment-profit.svg" + suffix,
		Sales:         "/charts/segment-sales.svg" + suffix,
		BarTitle:      charts.BarTitle,
		ProfitTitle:   charts.ProfitDonutTitle,
		ProfitCaption: charts.ProfitDonutCaption,
		SalesTitle:    charts.SalesDonutTitle,
		SalesCaption:  charts.SalesDonutCaption,
		Width:         width,
		Height:        height,
	}
}

func NewPage(d models.Dashboard, c Charts, hasImage bool) (Page, error) {
	signals, err := json.Marshal(d.Selection.Signals())
	if err != nil {
		return Page{}, fmt.Errorf("encode signals: %w", err)
	}
	return Page{
		Title:    Title,
		Signals:  string(signals),
		HasImage: hasImage,
		Filters:  NewFilters(d),
		KPIs:     NewKPIs(d.Summary),
		Charts:   c,
	}, nil
}

// String renders a component to a string.
func String(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
