package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

type PageHandlers struct {
	dashboard     *services.Dashboard
	chartWidth    int
	chartHeight   int
	hasImage      bool
	renderTimeout time.Duration
	logger        *slog.Logger
}

func NewPageHandlers(dashboard *services.Dashboard, chartWidth, chartHeight int, hasImage bool, renderTimeout time.Duration, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		dashboard:     dashboard,
		chartWidth:    chartWidth,
		chartHeight:   chartHeight,
		hasImage:      hasImage,
		renderTimeout: renderTimeout,
		logger:        logger,
	}
}

// HandleDashboard renders the full page. Query parameters pre-seed the
// selection.
func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r)
	if err != nil {
		writeError(w, r, h.logger, invalidSelection(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.renderTimeout)
	defer cancel()

	dash := h.dashboard.Build(ctx, sel)
	charts := templates.NewCharts(EncodeSelection(dash.Selection), h.chartWidth, h.chartHeight)

	page, err := templates.NewPage(dash, charts, h.hasImage)
	if err != nil {
		writeError(w, r, h.logger, errors.RenderWrap(err, "Failed to render dashboard"))
		return
	}

	var buf bytes.Buffer
	if err := templates.Dashboard(page).Render(ctx, &buf); err != nil {
		writeError(w, r, h.logger, errors.RenderWrap(err, "Failed to render dashboard"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", noCache)
	w.Write(buf.Bytes())
}
