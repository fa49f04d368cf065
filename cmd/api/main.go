package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/leozw/domain-intel/internal/api"
	"github.com/leozw/domain-intel/internal/api/handlers"
	"github.com/leozw/domain-intel/internal/checker"
	"github.com/leozw/domain-intel/internal/config"
	"github.com/leozw/domain-intel/internal/core"
	"github.com/leozw/domain-intel/internal/logging"
	"github.com/leozw/domain-intel/internal/metrics"
	"github.com/leozw/domain-intel/internal/storage/memory"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Setup logger
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	metricsCollector := metrics.NewCollector(cfg.Metrics, nil, logger)

	pipeline, err := checker.NewPipeline(cfg, logger, metricsCollector)
	if err != nil {
		logger.Fatal("Failed to build analysis pipeline", zap.Error(err))
	}
	defer pipeline.Close()

	cache := memory.New[*core.DomainAnalysis](memory.Options{
		TTL:         cfg.Cache.TTL,
		CheckPeriod: cfg.Cache.CheckPeriod,
		MaxKeys:     cfg.Cache.MaxKeys,
	})
	defer cache.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go cache.StartSweeper(ctx)
	go metricsCollector.StartRemoteWrite(ctx)

	handler := handlers.NewHandler(pipeline.Analyzer, cache, cfg.Bulk, metricsCollector, logger)
	server := api.NewServer(cfg, handler, metricsCollector, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.Router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("API server started",
		zap.String("port", cfg.Server.Port),
		zap.Strings("whois_strategies", cfg.Whois.StrategyOrder),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
