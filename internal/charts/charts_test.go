package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/models"
)

func testRenderer() *Renderer {
	return NewRenderer(config.ChartConfig{Width: 640, Height: 400})
}

func TestBar(t *testing.T) {
	svg, err := testRenderer().Bar(models.Metrics{TotalSales: 150, ProfitEarned: 15, SalesForecast: 135})
	require.NoError(t, err)

	out := string(svg)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, BarTitle)
	assert.Contains(t, out, "Sales Forecast")
}

func TestBar_Zero(t *testing.T) {
	svg, err := testRenderer().Bar(models.Metrics{})
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}

func TestDonut(t *testing.T) {
	svg, err := testRenderer().Donut(ProfitDonutTitle, []models.SegmentTotal{
		{Segment: "Consumer", Value: 15},
		{Segment: "Corporate", Value: 5},
	})
	require.NoError(t, err)

	out := string(svg)
	assert.Contains(t, out, "<svg")
	assert.NotContains(t, out, "No data")
}

func TestDonut_EmptyAndNonPositive(t *testing.T) {
	tests := map[string][]models.SegmentTotal{
		"empty":        nil,
		"non-positive": {{Segment: "Consumer", Value: -10}, {Segment: "Corporate", Value: 0}},
	}

	for name, totals := range tests {
		t.Run(name, func(t *testing.T) {
			svg, err := testRenderer().Donut(SalesDonutTitle, totals)
			require.NoError(t, err)
			assert.Contains(t, string(svg), "No data")
			assert.Contains(t, string(svg), SalesDonutTitle)
		})
	}
}

func TestSliceLabel(t *testing.T) {
	assert.Equal(t, "Consumer $1,234.50", SliceLabel(models.SegmentTotal{Segment: "Consumer", Value: 1234.5}))
}
