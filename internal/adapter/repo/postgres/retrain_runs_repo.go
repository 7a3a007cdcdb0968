package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

// RetrainRunRepo tracks offline retraining runs.
type RetrainRunRepo struct{ Pool PgxPool }

// NewRetrainRunRepo constructs a RetrainRunRepo with the given pool.
func NewRetrainRunRepo(p PgxPool) *RetrainRunRepo { return &RetrainRunRepo{Pool: p} }

// Create inserts a new run. Run ids are ULIDs so they sort by creation time.
func (r *RetrainRunRepo) Create(ctx domain.Context, run domain.RetrainRun) (string, error) {
	tracer := otel.Tracer("repo.retrain_runs")
	ctx, span := tracer.Start(ctx, "retrain_runs.Create")
	defer span.End()
	id := run.ID
	if id == "" {
		id = ulid.Make().String()
	}
	status := run.Status
	if status == "" {
		status = domain.RetrainQueued
	}
	now := time.Now().UTC()
	q := `INSERT INTO retrain_runs (id, status, reason, artifact_path, holdout_auc, triggered_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err := r.Pool.Exec(ctx, q, id, status, run.Reason, run.ArtifactPath, run.HoldoutAUC, run.TriggeredBy, now, now)
	if err != nil {
		return "", fmt.Errorf("op=retrain_run.create: %w", err)
	}
	return id, nil
}

// Get loads a run by id.
func (r *RetrainRunRepo) Get(ctx domain.Context, id string) (domain.RetrainRun, error) {
	tracer := otel.Tracer("repo.retrain_runs")
	ctx, span := tracer.Start(ctx, "retrain_runs.Get")
	defer span.End()
	q := `SELECT id, status, reason, artifact_path, holdout_auc, triggered_by, created_at, updated_at
		FROM retrain_runs WHERE id=$1`
	var run domain.RetrainRun
	err := r.Pool.QueryRow(ctx, q, id).Scan(&run.ID, &run.Status, &run.Reason, &run.ArtifactPath,
		&run.HoldoutAUC, &run.TriggeredBy, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RetrainRun{}, fmt.Errorf("op=retrain_run.get: %w", domain.ErrNotFound)
		}
		return domain.RetrainRun{}, fmt.Errorf("op=retrain_run.get: %w", err)
	}
	return run, nil
}

// Update overwrites the run's mutable fields.
func (r *RetrainRunRepo) Update(ctx domain.Context, run domain.RetrainRun) error {
	tracer := otel.Tracer("repo.retrain_runs")
	ctx, span := tracer.Start(ctx, "retrain_runs.Update")
	defer span.End()
	q := `UPDATE retrain_runs SET status=$2, reason=$3, artifact_path=$4, holdout_auc=$5, updated_at=$6 WHERE id=$1`
	tag, err := r.Pool.Exec(ctx, q, run.ID, run.Status, run.Reason, run.ArtifactPath, run.HoldoutAUC, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=retrain_run.update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=retrain_run.update: %w", domain.ErrNotFound)
	}
	return nil
}
