package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
)

const version = "1.0.0"

// loadData reads the order table and the sidebar image concurrently. Either
// failing aborts startup.
func loadData(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dataset.Store, *services.Dashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Data.LoadTimeout)
	defer cancel()

	store := dataset.NewStore(cfg.Data.SidebarImageWidth, logger)
	store.SetLoadTimeout(cfg.Data.LoadTimeout)
	dashboard := services.NewDashboard(store, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dashboard.Load(gctx, cfg.Data.CSVFile)
	})
	g.Go(func() error {
		if _, err := store.Image(gctx, cfg.Data.ImageFile); err != nil {
			return fmt.Errorf("load sidebar image: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return store, dashboard, nil
}

func newHandler(cfg *config.Config, logger *slog.Logger, store *dataset.Store, dashboard *services.Dashboard) http.Handler {
	pages := handlers.NewPageHandlers(dashboard, cfg.Charts.Width, cfg.Charts.Height, true, cfg.Server.RenderTimeout, logger)
	templateHandlers := &server.TemplateHandlers{
		Dashboard: pages.HandleDashboard,
	}

	srv := server.NewServer(dashboard, store, cfg, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return middlewareChain(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", version,
		"addr", cfg.Address(),
		"csv_file", cfg.Data.CSVFile,
		"image_file", cfg.Data.ImageFile,
	)

	start := time.Now()
	store, dashboard, err := loadData(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to load dashboard data", "error", err)
		os.Exit(1)
	}
	logger.Info("dashboard data loaded",
		"records", dashboard.Stats()["record_count"],
		"duration", time.Since(start),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, logger, store, dashboard),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		stats := dashboard.Stats()
		logger.Info("shutting down dashboard service",
			"renders", stats["renders"],
			"reloads", stats["reloads"],
		)
		return nil
	})

	if err := gracefulServer.ListenAndServe(context.Background()); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
