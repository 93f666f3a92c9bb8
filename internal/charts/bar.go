package charts

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"sales-dashboard/internal/models"
)

var (
	barFill    = color.NRGBA{R: 246, G: 78, B: 139, A: 153}
	barOutline = color.NRGBA{R: 246, G: 78, B: 139, A: 255}
)

// Bar draws the three KPI values as horizontal bars.
func (r *Renderer) Bar(m models.Metrics) ([]byte, error) {
	p := plot.New()
	p.Title.Text = BarTitle
	p.X.Label.Text = "USD"
	p.X.Min = 0

	values := plotter.Values{
		float64(m.TotalSales),
		float64(m.ProfitEarned),
		float64(m.SalesForecast),
	}

	bars, err := plotter.NewBarChart(values, vg.Points(float64(r.height)/6))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.Horizontal = true
	bars.Color = barFill
	bars.LineStyle.Color = barOutline
	bars.LineStyle.Width = vg.Points(3)

	p.Add(bars)
	p.NominalY("Total Sales", "Profit", "Sales Forecast")

	wt, err := p.WriterTo(vg.Points(float64(r.width)), vg.Points(float64(r.height)), "svg")
	if err != nil {
		return nil, fmt.Errorf("bar chart writer: %w", err)
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}
