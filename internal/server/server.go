package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/services"
)

type Server struct {
	dashboard      *services.Dashboard
	mux            *http.ServeMux
	logger         *slog.Logger
	apiHandlers    *handlers.APIHandlers
	sseHandlers    *handlers.SSEHandlers
	chartHandlers  *handlers.ChartHandlers
	exportHandlers *handlers.ExportHandlers
	assetHandlers  *handlers.AssetHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(dashboard *services.Dashboard, store *dataset.Store, cfg *config.Config, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	renderer := charts.NewRenderer(cfg.Charts)

	s := &Server{
		dashboard:      dashboard,
		mux:            http.NewServeMux(),
		logger:         logger,
		apiHandlers:    handlers.NewAPIHandlers(dashboard, cfg.Data.LoadTimeout, logger),
		sseHandlers:    handlers.NewSSEHandlers(dashboard, cfg.Charts.Width, cfg.Charts.Height, cfg.Server.RenderTimeout, logger),
		chartHandlers:  handlers.NewChartHandlers(dashboard, renderer, cfg.Server.RenderTimeout, logger),
		exportHandlers: handlers.NewExportHandlers(dashboard, logger),
		assetHandlers:  handlers.NewAssetHandlers(store, cfg.Data.ImageFile, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /static/sidebar.png", s.assetHandlers.HandleSidebarImage)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)
	s.mux.HandleFunc("POST /admin/reload", s.apiHandlers.HandleReload)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/dashboard", s.apiHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /api/options", s.apiHandlers.HandleOptions)

	// Chart images and downloads
	s.mux.HandleFunc("GET /charts/bar.svg", s.chartHandlers.HandleBar)
	s.mux.HandleFunc("GET /charts/segment-profit.svg", s.chartHandlers.HandleSegmentProfit)
	s.mux.HandleFunc("GET /charts/segment-sales.svg", s.chartHandlers.HandleSegmentSales)
	s.mux.HandleFunc("GET /export/dashboard.xlsx", s.exportHandlers.HandleWorkbook)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /sse/reset", s.sseHandlers.HandleReset)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
