// Package charts renders the dashboard figures as SVG documents.
package charts

import (
	"fmt"
	"html"

	"sales-dashboard/internal/config"
)

const (
	BarTitle           = "Profit and Sales Distribution"
	ProfitDonutTitle   = "Profit By Customer Segmentation"
	ProfitDonutCaption = "Profit Segmentation"
	SalesDonutTitle    = "Sales By Customer Segmentation"
	SalesDonutCaption  = "Sales Segmentation"
)

// Renderer draws charts at a fixed size.
type Renderer struct {
	width  int
	height int
}

func NewRenderer(cfg config.ChartConfig) *Renderer {
	return &Renderer{width: cfg.Width, height: cfg.Height}
}

func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// placeholder is drawn instead of a chart that has nothing to show.
func (r *Renderer) placeholder(title string) []byte {
	return []byte(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<text x="%d" y="28" text-anchor="middle" font-family="sans-serif" font-size="16">%s</text>`+
		`<text x="%d" y="%d" text-anchor="middle" font-family="sans-serif" font-size="13" fill="#888">No data</text>`+
		`</svg>`,
		r.width, r.height, r.width, r.height,
		r.width/2, html.EscapeString(title),
		r.width/2, r.height/2))
}
