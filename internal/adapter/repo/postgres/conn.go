// Package postgres provides PostgreSQL database adapters.
//
// It implements the repository ports for jobs, resumes, applications and
// retraining runs. Feature vectors and sectionized documents are stored as
// JSONB so recruiter decisions can later be joined back to the exact inputs
// that were scored.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool is a minimal subset of pgxpool used by the repos for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// NewPool creates a pgx connection pool from the provided DSN and returns it.
// The pool is configured with sane defaults for this application.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 10
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.ConnConfig.Tracer = otelpgx.NewTracer(otelpgx.WithTrimSQLInSpanName())
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// Migrate applies the schema idempotently. Statements run one at a time so a
// partial failure reports the offending DDL.
func Migrate(ctx context.Context, pool PgxPool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			processed_description TEXT NOT NULL DEFAULT '',
			sections JSONB NOT NULL DEFAULT '{}',
			uploader_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_uploader ON jobs (uploader_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS resumes (
			id UUID PRIMARY KEY,
			candidate_id TEXT,
			original_filename TEXT NOT NULL,
			extracted_text TEXT NOT NULL,
			sections JSONB NOT NULL DEFAULT '{}',
			extracted_name TEXT NOT NULL DEFAULT '',
			extracted_email TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_resumes_candidate ON resumes (candidate_id) WHERE candidate_id IS NOT NULL AND candidate_id <> ''`,
		`CREATE TABLE IF NOT EXISTS applications (
			id UUID PRIMARY KEY,
			job_id UUID NOT NULL REFERENCES jobs (id),
			candidate_id TEXT NOT NULL,
			resume_id UUID NOT NULL REFERENCES resumes (id),
			feature_scores JSONB,
			final_score DOUBLE PRECISION,
			status TEXT NOT NULL DEFAULT 'Submitted',
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (job_id, candidate_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_job_score ON applications (job_id, final_score DESC NULLS LAST)`,
		`CREATE TABLE IF NOT EXISTS retrain_runs (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			artifact_path TEXT NOT NULL DEFAULT '',
			holdout_auc DOUBLE PRECISION NOT NULL DEFAULT 0,
			triggered_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("op=postgres.migrate: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
