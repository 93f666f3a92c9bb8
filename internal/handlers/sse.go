package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

// SSEHandlers serve the datastar actions fired by the sidebar. Every
// response patches the #filters, #kpis and #charts fragments and then
// re-syncs the selection signals with the normalized selection.
type SSEHandlers struct {
	dashboard     *services.Dashboard
	chartWidth    int
	chartHeight   int
	renderTimeout time.Duration
	logger        *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, chartWidth, chartHeight int, renderTimeout time.Duration, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard:     dashboard,
		chartWidth:    chartWidth,
		chartHeight:   chartHeight,
		renderTimeout: renderTimeout,
		logger:        logger,
	}
}

func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r)
	if err != nil {
		writeError(w, r, h.logger, invalidSelection(err))
		return
	}

	h.patch(w, r, sel)
}

// HandleReset clears every multi-select.
func (h *SSEHandlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.patch(w, r, models.Selection{})
}

func (h *SSEHandlers) patch(w http.ResponseWriter, r *http.Request, sel models.Selection) {
	ctx, cancel := context.WithTimeout(r.Context(), h.renderTimeout)
	defer cancel()

	logger := observability.LoggerFrom(r.Context(), h.logger)

	dash := h.dashboard.Build(ctx, sel)
	if !sameSelection(sel, dash.Selection) {
		logger.Debug("dropped stale selections", "requested", sel, "kept", dash.Selection)
	}

	fragments, err := h.renderFragments(ctx, dash)
	if err != nil {
		writeError(w, r, h.logger, errors.RenderWrap(err, "Failed to render dashboard"))
		return
	}

	signals, err := json.Marshal(dash.Selection.Signals())
	if err != nil {
		writeError(w, r, h.logger, errors.InternalWrap(err, "Failed to encode signals"))
		return
	}

	sse := datastar.NewSSE(w, r)
	for _, fragment := range fragments {
		if err := sse.PatchElements(fragment); err != nil {
			logger.Warn("patch elements", "error", err)
			return
		}
	}
	if err := sse.PatchSignals(signals); err != nil {
		logger.Warn("patch signals", "error", err)
	}
}

func (h *SSEHandlers) renderFragments(ctx context.Context, dash models.Dashboard) ([]string, error) {
	components := []templ.Component{
		templates.FilterPanel(templates.NewFilters(dash)),
		templates.KPIPanel(templates.NewKPIs(dash.Summary)),
		templates.ChartPanel(templates.NewCharts(EncodeSelection(dash.Selection), h.chartWidth, h.chartHeight)),
	}

	fragments := make([]string, 0, len(components))
	for i, c := range components {
		html, err := templates.String(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("render fragment %d: %w", i, err)
		}
		fragments = append(fragments, html)
	}
	return fragments, nil
}
