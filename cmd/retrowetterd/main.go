// Command retrowetterd runs the ingestion core as a service: it warms the
// station catalog, keeps the memoized per-station series caches, and exposes
// health, readiness, and metrics endpoints for operators. The dashboard
// layer consumes the provider API in-process.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/wichmann/retrowetter/internal/adapter/dwd"
	httpadapter "github.com/wichmann/retrowetter/internal/adapter/http"
	"github.com/wichmann/retrowetter/internal/adapter/stations"
	"github.com/wichmann/retrowetter/internal/config"
	"github.com/wichmann/retrowetter/internal/observability"
	"github.com/wichmann/retrowetter/internal/provider"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	catalog := stations.NewCatalog(cfg.StationsFile, logger)
	client := dwd.NewClient(cfg.DailyBaseURL, cfg.MonthlyBaseURL, cfg.FetchTimeout, metrics, logger)

	p := provider.New(catalog, client, client, logger, metrics, provider.Options{
		CacheTTL:     cfg.CacheTTL,
		FetchMonthly: cfg.FetchMonthly,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the catalog so readiness flips as soon as the table is loaded.
	go func() {
		if _, err := p.ListStations(ctx); err != nil {
			logger.Error("station catalog load failed", "error", err)
		}
	}()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
