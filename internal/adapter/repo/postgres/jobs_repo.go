package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

// JobRepo persists and loads job postings using a minimal pgx pool.
type JobRepo struct{ Pool PgxPool }

// NewJobRepo constructs a JobRepo with the given pool.
func NewJobRepo(p PgxPool) *JobRepo { return &JobRepo{Pool: p} }

// Create inserts a new job and returns its id (generates one if empty).
func (r *JobRepo) Create(ctx domain.Context, j domain.Job) (string, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.Create")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.sql.table", "jobs"),
	)
	id := j.ID
	if id == "" {
		id = uuid.New().String()
	}
	sections, err := json.Marshal(j.Sections)
	if err != nil {
		return "", fmt.Errorf("op=job.create: %w", err)
	}
	q := `INSERT INTO jobs (id, title, description, processed_description, sections, uploader_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err = r.Pool.Exec(ctx, q, id, j.Title, j.Description, j.ProcessedDescription, sections, j.UploaderID, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("op=job.create: %w", err)
	}
	return id, nil
}

// Get loads a job by id.
func (r *JobRepo) Get(ctx domain.Context, id string) (domain.Job, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.Get")
	defer span.End()
	q := `SELECT id, title, description, processed_description, sections, uploader_id, created_at FROM jobs WHERE id=$1`
	j, err := scanJob(r.Pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Job{}, fmt.Errorf("op=job.get: %w", domain.ErrNotFound)
		}
		return domain.Job{}, fmt.Errorf("op=job.get: %w", err)
	}
	return j, nil
}

// ListByUploader returns the uploader's jobs, newest first.
func (r *JobRepo) ListByUploader(ctx domain.Context, uploaderID string) ([]domain.Job, error) {
	tracer := otel.Tracer("repo.jobs")
	ctx, span := tracer.Start(ctx, "jobs.ListByUploader")
	defer span.End()
	q := `SELECT id, title, description, processed_description, sections, uploader_id, created_at
		FROM jobs WHERE uploader_id=$1 ORDER BY created_at DESC`
	rows, err := r.Pool.Query(ctx, q, uploaderID)
	if err != nil {
		return nil, fmt.Errorf("op=job.list_by_uploader: %w", err)
	}
	defer rows.Close()
	var out []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("op=job.list_by_uploader: %w", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=job.list_by_uploader: %w", err)
	}
	return out, nil
}

func scanJob(row pgx.Row) (domain.Job, error) {
	var j domain.Job
	var sections []byte
	if err := row.Scan(&j.ID, &j.Title, &j.Description, &j.ProcessedDescription, &sections, &j.UploaderID, &j.CreatedAt); err != nil {
		return domain.Job{}, err
	}
	if len(sections) > 0 {
		if err := json.Unmarshal(sections, &j.Sections); err != nil {
			return domain.Job{}, err
		}
	}
	return j, nil
}
