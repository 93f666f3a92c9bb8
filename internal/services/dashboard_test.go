package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
)

const header = "Region,State,City,Category,SubCategory,ProductName,Segment,Sales,Profit,Sales Forecast\n"

func writeCSV(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(header+rows), 0o644))
	return path
}

func TestNewDashboard(t *testing.T) {
	d := NewDashboard(nil, nil)
	require.NotNil(t, d)
	assert.NotNil(t, d.logger)
	assert.Zero(t, d.current().Len())
}

func TestDashboard_Build(t *testing.T) {
	d := NewDashboard(nil, nil)
	d.SetData(scenarioOrders())

	got := d.Build(context.Background(), models.Selection{Region: []string{"South"}})

	assert.Equal(t, []string{"South"}, got.Selection.Region)
	assert.Equal(t, []string{"South", "West"}, got.Options.Region)
	assert.Equal(t, int64(150), got.Summary.Metrics.TotalSales)
	assert.Equal(t, []models.SegmentTotal{{Segment: "Consumer", Value: 15}}, got.Summary.SegmentProfit)
	assert.Equal(t, []models.SegmentTotal{{Segment: "Consumer", Value: 150}}, got.Summary.SegmentSales)
}

func TestDashboard_BuildOnEmptyData(t *testing.T) {
	d := NewDashboard(nil, nil)
	got := d.Build(context.Background(), models.Selection{})

	assert.Equal(t, models.Metrics{}, got.Summary.Metrics)
	assert.Empty(t, got.Summary.SegmentSales)
	assert.Empty(t, got.Options.Region)
}

func TestDashboard_LoadAndReload(t *testing.T) {
	path := writeCSV(t, "South,Texas,Dallas,Furniture,Chairs,Chair,Consumer,100,10,90\n")
	store := dataset.NewStore(320, nil)
	d := NewDashboard(store, nil)

	require.NoError(t, d.Load(context.Background(), path))
	assert.Equal(t, 1, d.current().Len())

	require.NoError(t, os.WriteFile(path, []byte(header+
		"South,Texas,Dallas,Furniture,Chairs,Chair,Consumer,100,10,90\n"+
		"West,Oregon,Portland,Technology,Phones,Phone,Corporate,200,20,180\n"), 0o644))

	require.NoError(t, d.Reload(context.Background()))
	assert.Equal(t, 2, d.current().Len())
	assert.Equal(t, int64(1), d.Stats()["reloads"])
}

func TestDashboard_ReloadFailureKeepsTable(t *testing.T) {
	path := writeCSV(t, "South,Texas,Dallas,Furniture,Chairs,Chair,Consumer,100,10,90\n")
	d := NewDashboard(dataset.NewStore(320, nil), nil)
	require.NoError(t, d.Load(context.Background(), path))

	require.NoError(t, os.WriteFile(path, []byte("Region\nSouth\n"), 0o644))

	err := d.Reload(context.Background())
	assert.ErrorIs(t, err, dataset.ErrMissingColumn)
	assert.Equal(t, 1, d.current().Len())
}

func TestDashboard_ReloadWithoutPath(t *testing.T) {
	d := NewDashboard(dataset.NewStore(320, nil), nil)
	assert.Error(t, d.Reload(context.Background()))
}

func TestDashboard_LoadMissingFile(t *testing.T) {
	d := NewDashboard(dataset.NewStore(320, nil), nil)
	err := d.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDashboard_BuildRows(t *testing.T) {
	d := NewDashboard(nil, nil)
	d.SetData(testOrders())

	dash, orders := d.BuildRows(context.Background(), models.Selection{Region: []string{"West"}, State: []string{"Texas"}})
	assert.Len(t, orders, 2)
	assert.Nil(t, dash.Selection.State)
	assert.Equal(t, len(orders), dash.Summary.RowCount)
}

func TestDashboard_BuildRowsMatchesSummaryDuringSwap(t *testing.T) {
	small := testOrders()[:1]
	large := testOrders()

	d := NewDashboard(nil, nil)
	d.SetData(large)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			if i%2 == 0 {
				d.SetData(small)
			} else {
				d.SetData(large)
			}
		}
	}()

	for range 200 {
		dash, orders := d.BuildRows(context.Background(), models.Selection{})
		require.Equal(t, dash.Summary.RowCount, len(orders))
		require.Equal(t, Totals(orders), dash.Summary.Metrics)
	}
	close(done)
	wg.Wait()
}

func TestDashboard_Stats(t *testing.T) {
	d := NewDashboard(nil, nil)
	d.SetData(testOrders())
	d.Build(context.Background(), models.Selection{})

	stats := d.Stats()
	assert.Equal(t, 6, stats["record_count"])
	assert.Equal(t, 4, stats["regions"])
	assert.Equal(t, 3, stats["categories"])
	assert.Equal(t, int64(1), stats["renders"])
}

func TestDashboard_ConcurrentAccess(t *testing.T) {
	d := NewDashboard(nil, nil)
	d.SetData(testOrders())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.Build(context.Background(), models.Selection{Category: []string{"Furniture"}})
			_ = d.Options(models.Selection{})
			_ = d.Stats()
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.SetData(scenarioOrders())
	}()
	wg.Wait()
}

func BenchmarkDashboard_Build(b *testing.B) {
	orders := make([]models.Order, 0, 10000)
	for i := 0; i < 10000; i++ {
		o := testOrders()[i%6]
		o.Sales = float64(i)
		orders = append(orders, o)
	}
	d := NewDashboard(nil, nil)
	d.SetData(orders)
	sel := models.Selection{Region: []string{"South", "West"}, Category: []string{"Furniture"}}

	b.ResetTimer()
	for b.Loop() {
		_ = d.Build(context.Background(), sel)
	}
}
