// Command worker consumes queued retraining runs and executes the offline
// training pipeline.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	fsstore "github.com/fairyhunter13/resume-ranker/internal/adapter/modelstore/fs"
	"github.com/fairyhunter13/resume-ranker/internal/adapter/observability"
	"github.com/fairyhunter13/resume-ranker/internal/adapter/queue/redpanda"
	"github.com/fairyhunter13/resume-ranker/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/resume-ranker/internal/config"
	"github.com/fairyhunter13/resume-ranker/internal/retrain"
	"github.com/fairyhunter13/resume-ranker/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Expose retraining metrics on a dedicated endpoint so Prometheus can
	// scrape the worker process separately from the HTTP server.
	observability.InitMetrics()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":9090", mux); err != nil {
			slog.Error("worker metrics server error", slog.Any("error", err))
		}
	}()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	slog.Info("starting worker", slog.String("env", cfg.AppEnv))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		slog.Error("db migrate failed", slog.Any("error", err))
		os.Exit(1)
	}

	appRepo := postgres.NewApplicationRepo(pool)
	runRepo := postgres.NewRetrainRunRepo(pool)

	pipeline := retrain.New(appRepo, fsstore.New(cfg.ModelDir), retrain.Config{
		MinLabeled:      cfg.RetrainMinLabeled,
		HoldoutFraction: cfg.RetrainHoldout,
		Folds:           cfg.RetrainCVFolds,
	})
	executor := usecase.NewRetrainExecutor(runRepo, pipeline)

	consumer, err := redpanda.NewConsumer(cfg.KafkaBrokers, "resume-ranker-workers", executor)
	if err != nil {
		slog.Error("redpanda consumer init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer consumer.Close()

	slog.Info("worker started, waiting for retraining runs")
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("consumer stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("worker stopped")
}
