package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fairyhunter13/resume-ranker/internal/adapter/observability"
	"github.com/fairyhunter13/resume-ranker/internal/domain"
	"github.com/fairyhunter13/resume-ranker/internal/retrain"
)

// RetrainService queues retraining runs and reports their status.
type RetrainService struct {
	Runs  domain.RetrainRunRepository
	Queue domain.Queue
}

// NewRetrainService constructs a RetrainService with its dependencies.
func NewRetrainService(runs domain.RetrainRunRepository, q domain.Queue) RetrainService {
	return RetrainService{Runs: runs, Queue: q}
}

// Trigger records a queued run and enqueues it. A failed enqueue marks the
// run failed immediately so it never shows as stuck in queued.
func (s RetrainService) Trigger(ctx domain.Context, triggeredBy string) (string, error) {
	runID, err := s.Runs.Create(ctx, domain.RetrainRun{
		Status:      domain.RetrainQueued,
		TriggeredBy: triggeredBy,
	})
	if err != nil {
		return "", err
	}
	payload := domain.RetrainTaskPayload{RunID: runID, TriggeredBy: triggeredBy}
	if _, err := s.Queue.EnqueueRetrain(ctx, payload); err != nil {
		failed := domain.RetrainRun{ID: runID, Status: domain.RetrainFailed, Reason: "enqueue failed"}
		if uerr := s.Runs.Update(ctx, failed); uerr != nil {
			slog.Error("could not mark retrain run failed",
				slog.String("run_id", runID), slog.Any("error", uerr))
		}
		return "", err
	}
	return runID, nil
}

// Status loads one retraining run.
func (s RetrainService) Status(ctx domain.Context, runID string) (domain.RetrainRun, error) {
	return s.Runs.Get(ctx, runID)
}

// RetrainExecutor executes queued runs in the worker. It implements the
// queue consumer's Handler.
type RetrainExecutor struct {
	Runs     domain.RetrainRunRepository
	Pipeline *retrain.Pipeline
}

// NewRetrainExecutor constructs a RetrainExecutor.
func NewRetrainExecutor(runs domain.RetrainRunRepository, p *retrain.Pipeline) *RetrainExecutor {
	return &RetrainExecutor{Runs: runs, Pipeline: p}
}

// HandleRetrain drives one run through running and into a terminal status.
func (e *RetrainExecutor) HandleRetrain(ctx context.Context, payload domain.RetrainTaskPayload) error {
	run, err := e.Runs.Get(ctx, payload.RunID)
	if err != nil {
		return fmt.Errorf("op=retrain.handle: %w", err)
	}
	run.Status = domain.RetrainRunning
	if err := e.Runs.Update(ctx, run); err != nil {
		return fmt.Errorf("op=retrain.handle: %w", err)
	}

	start := time.Now()
	outcome, err := e.Pipeline.Run(ctx)
	observability.RetrainDuration.Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		run.Status = domain.RetrainFailed
		run.Reason = err.Error()
	case outcome.Skipped:
		run.Status = domain.RetrainSkipped
		run.Reason = outcome.Reason
	default:
		run.Status = domain.RetrainCompleted
		run.ArtifactPath = outcome.ArtifactPath
		run.HoldoutAUC = outcome.HoldoutAUC
		observability.RetrainHoldoutAUC.Set(outcome.HoldoutAUC)
	}
	observability.RetrainRunsTotal.WithLabelValues(string(run.Status)).Inc()

	if uerr := e.Runs.Update(ctx, run); uerr != nil {
		return fmt.Errorf("op=retrain.handle: %w", uerr)
	}
	slog.Info("retrain run finished",
		slog.String("run_id", run.ID),
		slog.String("status", string(run.Status)),
		slog.String("artifact", run.ArtifactPath),
		slog.Float64("holdout_auc", run.HoldoutAUC))
	return err
}
