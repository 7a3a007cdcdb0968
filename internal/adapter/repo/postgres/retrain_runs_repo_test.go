package postgres_test

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-ranker/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

func TestRetrainRunRepo_Create(t *testing.T) {
	t.Parallel()
	mock := newMockPool(t)
	repo := postgres.NewRetrainRunRepo(mock)

	mock.ExpectExec("INSERT INTO retrain_runs").
		WithArgs(pgxmock.AnyArg(), domain.RetrainQueued, "", "", float64(0), "recruiter-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := repo.Create(context.Background(), domain.RetrainRun{TriggeredBy: "recruiter-1"})
	require.NoError(t, err)
	assert.Len(t, id, 26) // ULID
}

func TestRetrainRunRepo_GetAndUpdate(t *testing.T) {
	t.Parallel()
	mock := newMockPool(t)
	repo := postgres.NewRetrainRunRepo(mock)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM retrain_runs WHERE id").
		WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "status", "reason", "artifact_path", "holdout_auc", "triggered_by", "created_at", "updated_at"}).
			AddRow("run-1", domain.RetrainRunning, "", "", float64(0), "recruiter-1", now, now))

	run, err := repo.Get(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RetrainRunning, run.Status)

	run.Status = domain.RetrainCompleted
	run.ArtifactPath = "instance/ml_models/ranking_model_20260901_120000_auc_0.93.json"
	run.HoldoutAUC = 0.93
	mock.ExpectExec("UPDATE retrain_runs SET").
		WithArgs("run-1", domain.RetrainCompleted, "", run.ArtifactPath, 0.93, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), run))
}

func TestRetrainRunRepo_Get_NotFound(t *testing.T) {
	t.Parallel()
	mock := newMockPool(t)
	repo := postgres.NewRetrainRunRepo(mock)

	mock.ExpectQuery("SELECT (.+) FROM retrain_runs WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id", "status", "reason", "artifact_path", "holdout_auc", "triggered_by", "created_at", "updated_at"}))

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
