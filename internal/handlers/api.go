package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/services"
)

const noCache = "no-cache"

type APIHandlers struct {
	dashboard     *services.Dashboard
	reloadTimeout time.Duration
	logger        *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, reloadTimeout time.Duration, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard:     dashboard,
		reloadTimeout: reloadTimeout,
		logger:        logger,
	}
}

// HandleDashboard returns options, normalized selection and summary.
func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r)
	if err != nil {
		writeError(w, r, h.logger, invalidSelection(err))
		return
	}

	data := h.dashboard.Build(r.Context(), sel)

	errors.WriteSuccessWithHeaders(w, h.logger, data, map[string]string{
		"Cache-Control": noCache,
	})
}

func (h *APIHandlers) HandleOptions(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r)
	if err != nil {
		writeError(w, r, h.logger, invalidSelection(err))
		return
	}

	errors.WriteSuccessWithHeaders(w, h.logger, h.dashboard.Options(sel), map[string]string{
		"Cache-Control": noCache,
	})
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
		"records":   h.dashboard.Stats()["record_count"],
	}

	errors.WriteSuccess(w, h.logger, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.logger, h.dashboard.Stats())
}

// HandleReload re-reads the order file. A failed reload leaves the
// previous table serving.
func (h *APIHandlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.reloadTimeout)
	defer cancel()

	if err := h.dashboard.Reload(ctx); err != nil {
		writeError(w, r, h.logger, errors.ServiceUnavailableWrap(err, "Reload failed, previous data kept").WithDetails(err.Error()))
		return
	}

	errors.WriteSuccess(w, h.logger, h.dashboard.Stats())
}
