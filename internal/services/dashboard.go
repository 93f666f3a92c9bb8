package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

// Dashboard runs the resolve → filter → aggregate pipeline against the
// currently loaded order table.
type Dashboard struct {
	mu      sync.RWMutex
	table   *dataset.Table
	store   *dataset.Store
	path    string
	reloads atomic.Int64
	renders atomic.Int64
	logger  *slog.Logger
}

func NewDashboard(store *dataset.Store, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		table:  dataset.NewTable("", nil),
		store:  store,
		logger: logger,
	}
}

// SetData replaces the table with in-memory rows.
func (d *Dashboard) SetData(orders []models.Order) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.table = dataset.NewTable("", orders)
}

// Load pulls the table for path through the store.
func (d *Dashboard) Load(ctx context.Context, path string) error {
	if d.store == nil {
		return fmt.Errorf("no dataset store configured")
	}

	table, err := d.store.Table(ctx, path)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}

	d.mu.Lock()
	d.table = table
	d.path = path
	d.mu.Unlock()
	return nil
}

// Reload drops the memoized table and reads the file again. On failure the
// previous table stays in place.
func (d *Dashboard) Reload(ctx context.Context) error {
	d.mu.RLock()
	path := d.path
	d.mu.RUnlock()

	if path == "" {
		return fmt.Errorf("no dataset path to reload")
	}

	d.store.Invalidate(path)
	if err := d.Load(ctx, path); err != nil {
		return err
	}
	d.reloads.Add(1)

	d.logger.Info("order table reloaded", "path", path, "rows", d.current().Len())
	return nil
}

func (d *Dashboard) current() *dataset.Table {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.table
}

// Build runs one full render pass for a selection.
func (d *Dashboard) Build(ctx context.Context, sel models.Selection) models.Dashboard {
	dash, _ := d.BuildRows(ctx, sel)
	return dash
}

// BuildRows is Build that also returns the rows the summary was computed
// from. Both come from the same table, even if a reload lands mid-call.
func (d *Dashboard) BuildRows(ctx context.Context, sel models.Selection) (models.Dashboard, []models.Order) {
	d.renders.Add(1)
	orders := d.current().Orders()

	_, span := observability.StartSpan(ctx, "dashboard.resolve")
	res := Resolve(orders, sel)
	span.SetTag("rows_in", strconv.Itoa(len(orders)))
	span.SetTag("rows_out", strconv.Itoa(len(res.Orders)))
	span.End(d.logger)

	_, span = observability.StartSpan(ctx, "dashboard.aggregate")
	summary := Summarize(res.Orders)
	span.End(d.logger)

	return models.Dashboard{
		Selection: res.Selection,
		Options:   res.Options,
		Summary:   summary,
	}, res.Orders
}

// Options resolves only the option lists for a selection.
func (d *Dashboard) Options(sel models.Selection) models.Options {
	return Resolve(d.current().Orders(), sel).Options
}

// Stats reports what is loaded, for monitoring.
func (d *Dashboard) Stats() map[string]any {
	table := d.current()
	orders := table.Orders()

	return map[string]any{
		"record_count": table.Len(),
		"source":       table.Path,
		"loaded_at":    table.LoadedAt.Format(time.RFC3339),
		"regions":      len(Distinct(orders, models.FieldRegion)),
		"states":       len(Distinct(orders, models.FieldState)),
		"cities":       len(Distinct(orders, models.FieldCity)),
		"categories":   len(Distinct(orders, models.FieldCategory)),
		"products":     len(Distinct(orders, models.FieldProductName)),
		"reloads":      d.reloads.Load(),
		"renders":      d.renders.Load(),
	}
}
