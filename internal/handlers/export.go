package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewExportHandlers(dashboard *services.Dashboard, logger *slog.Logger) *ExportHandlers {
	return &ExportHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

// HandleWorkbook downloads the current view as an XLSX workbook.
func (h *ExportHandlers) HandleWorkbook(w http.ResponseWriter, r *http.Request) {
	sel, err := ParseSelection(r)
	if err != nil {
		writeError(w, r, h.logger, invalidSelection(err))
		return
	}

	dash, orders := h.dashboard.BuildRows(r.Context(), sel)

	var buf bytes.Buffer
	if err := export.Workbook(&buf, dash, orders); err != nil {
		writeError(w, r, h.logger, errors.RenderWrap(err, "Failed to build workbook"))
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="sales-dashboard.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}
