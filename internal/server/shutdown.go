package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"sales-dashboard/internal/config"
)

const hookTimeout = 10 * time.Second

// GracefulServer wraps an http.Server with signal handling and hooks that
// run once in-flight requests have drained.
type GracefulServer struct {
	server *http.Server
	logger *slog.Logger
	config *config.Config

	mu    sync.Mutex
	hooks []func(ctx context.Context) error
}

func NewGracefulServer(server *http.Server, logger *slog.Logger, config *config.Config) *GracefulServer {
	return &GracefulServer{
		server: server,
		logger: logger,
		config: config,
	}
}

func (gs *GracefulServer) RegisterShutdownHook(fn func(ctx context.Context) error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.hooks = append(gs.hooks, fn)
}

// ListenAndServe serves until the listener fails, ctx is cancelled, or the
// process receives SIGINT or SIGTERM. The latter two trigger a graceful
// shutdown bounded by the configured shutdown timeout.
func (gs *GracefulServer) ListenAndServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		gs.logger.Info("starting server",
			"addr", gs.server.Addr,
			"read_timeout", gs.config.Server.ReadTimeout,
			"write_timeout", gs.config.Server.WriteTimeout,
		)
		serveErr <- gs.server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		gs.logger.Info("shutdown signal received", "cause", context.Cause(ctx))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), gs.config.Server.ShutdownTimeout)
		defer cancel()
		return gs.shutdown(shutdownCtx)
	}
}

// shutdown drains the HTTP server first, so hooks see the final counters,
// then runs every hook concurrently. All failures are joined.
func (gs *GracefulServer) shutdown(ctx context.Context) error {
	gs.logger.Info("starting graceful shutdown", "timeout", gs.config.Server.ShutdownTimeout)

	var errs []error
	if err := gs.server.Shutdown(ctx); err != nil {
		gs.logger.Error("HTTP server shutdown failed", "error", err)
		errs = append(errs, fmt.Errorf("HTTP server shutdown failed: %w", err))
	}

	gs.mu.Lock()
	hooks := append([]func(ctx context.Context) error(nil), gs.hooks...)
	gs.mu.Unlock()

	var (
		wg      sync.WaitGroup
		errsMu  sync.Mutex
		hookErr = func(err error) {
			errsMu.Lock()
			errs = append(errs, err)
			errsMu.Unlock()
		}
	)
	for i, hook := range hooks {
		wg.Add(1)
		go func() {
			defer wg.Done()

			hookCtx, cancel := context.WithTimeout(ctx, hookTimeout)
			defer cancel()

			gs.logger.Debug("executing shutdown hook", "hook_index", i)
			if err := hook(hookCtx); err != nil {
				gs.logger.Error("shutdown hook failed", "hook_index", i, "error", err)
				hookErr(fmt.Errorf("shutdown hook %d failed: %w", i, err))
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		gs.logger.Warn("shutdown timeout exceeded, forcing exit")
		return ctx.Err()
	}

	gs.logger.Info("graceful shutdown completed")
	return errors.Join(errs...)
}
