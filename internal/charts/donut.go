package charts

import (
	"bytes"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"sales-dashboard/internal/format"
	"sales-dashboard/internal/models"
)

var slicePalette = []drawing.Color{
	drawing.ColorFromHex("636efa"),
	drawing.ColorFromHex("ef553b"),
	drawing.ColorFromHex("00cc96"),
	drawing.ColorFromHex("ab63fa"),
	drawing.ColorFromHex("ffa15a"),
	drawing.ColorFromHex("19d3f3"),
}

// Donut draws one slice per segment, labelled with the segment and its
// currency value. Segments whose total is not positive have no area and are
// left out; when nothing is left a placeholder is drawn.
func (r *Renderer) Donut(title string, totals []models.SegmentTotal) ([]byte, error) {
	values := make([]chart.Value, 0, len(totals))
	for _, t := range totals {
		if t.Value <= 0 {
			continue
		}
		c := slicePalette[len(values)%len(slicePalette)]
		values = append(values, chart.Value{
			Label: SliceLabel(t),
			Value: t.Value,
			Style: chart.Style{
				FillColor:   c,
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
			},
		})
	}

	if len(values) == 0 {
		return r.placeholder(title), nil
	}

	donut := chart.DonutChart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
		Values: values,
	}

	var buf bytes.Buffer
	if err := donut.Render(chart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render donut %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

// SliceLabel is the text shown on a donut slice.
func SliceLabel(t models.SegmentTotal) string {
	return t.Segment + " " + format.Money(t.Value)
}
