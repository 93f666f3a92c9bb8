package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

type ChartHandlers struct {
	dashboard     *services.Dashboard
	renderer      *charts.Renderer
	renderTimeout time.Duration
	logger        *slog.Logger
}

func NewChartHandlers(dashboard *services.Dashboard, renderer *charts.Renderer, renderTimeout time.Duration, logger *slog.Logger) *ChartHandlers {
	return &ChartHandlers{
		dashboard:     dashboard,
		renderer:      renderer,
		renderTimeout: renderTimeout,
		logger:        logger,
	}
}

func (h *ChartHandlers) HandleBar(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(s models.Summary) ([]byte, error) {
		return h.renderer.Bar(s.Metrics)
	})
}

func (h *ChartHandlers) HandleSegmentProfit(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(s models.Summary) ([]byte, error) {
		return h.renderer.Donut(charts.ProfitDonutTitle, s.SegmentProfit)
	})
}

func (h *ChartHandlers) HandleSegmentSales(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(s models.Summary) ([]byte, error) {
		return h.renderer.Donut(charts.SalesDonutTitle, s.SegmentSales)
	})
}

func (h *ChartHandlers) serve(w http.ResponseWriter, r *http.Request, draw func(models.Summary) ([]byte, error)) {
	sel, err := ParseSelection(r)
	if err != nil {
		writeError(w, r, h.logger, invalidSelection(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.renderTimeout)
	defer cancel()

	dash := h.dashboard.Build(ctx, sel)
	svg, err := draw(dash.Summary)
	if err != nil {
		writeError(w, r, h.logger, errors.RenderWrap(err, "Failed to render chart"))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", noCache)
	w.Write(svg)
}
