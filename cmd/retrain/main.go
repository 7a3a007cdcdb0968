// Command retrain runs one offline retraining pass and exits. It records the
// run in retrain_runs like queue-triggered runs so operators can audit it the
// same way.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	fsstore "github.com/fairyhunter13/resume-ranker/internal/adapter/modelstore/fs"
	"github.com/fairyhunter13/resume-ranker/internal/adapter/observability"
	"github.com/fairyhunter13/resume-ranker/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/resume-ranker/internal/config"
	"github.com/fairyhunter13/resume-ranker/internal/domain"
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
	observability.InitMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
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

	runID, err := runRepo.Create(ctx, domain.RetrainRun{
		Status:      domain.RetrainQueued,
		TriggeredBy: "cli",
	})
	if err != nil {
		slog.Error("could not record retrain run", slog.Any("error", err))
		os.Exit(1)
	}

	payload := domain.RetrainTaskPayload{RunID: runID, TriggeredBy: "cli"}
	if err := executor.HandleRetrain(ctx, payload); err != nil {
		slog.Error("retraining failed", slog.String("run_id", runID), slog.Any("error", err))
		os.Exit(1)
	}

	run, err := runRepo.Get(ctx, runID)
	if err != nil {
		slog.Error("could not load retrain run", slog.String("run_id", runID), slog.Any("error", err))
		os.Exit(1)
	}
	switch run.Status {
	case domain.RetrainCompleted:
		slog.Info("retraining completed",
			slog.String("run_id", runID),
			slog.String("artifact_path", run.ArtifactPath),
			slog.Float64("holdout_auc", run.HoldoutAUC))
	case domain.RetrainSkipped:
		slog.Info("retraining skipped",
			slog.String("run_id", runID),
			slog.String("reason", run.Reason))
	default:
		slog.Error("retraining did not finish cleanly",
			slog.String("run_id", runID),
			slog.String("status", string(run.Status)),
			slog.String("reason", run.Reason))
		os.Exit(1)
	}
}
