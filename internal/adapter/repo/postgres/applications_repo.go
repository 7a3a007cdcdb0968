package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

// ApplicationRepo persists applications and their frozen feature vectors.
type ApplicationRepo struct{ Pool PgxPool }

// NewApplicationRepo constructs an ApplicationRepo with the given pool.
func NewApplicationRepo(p PgxPool) *ApplicationRepo { return &ApplicationRepo{Pool: p} }

// Create persists the application, its feature vector and final score in a
// single write. A duplicate (job, candidate) pair maps to ErrConflict.
func (r *ApplicationRepo) Create(ctx domain.Context, a domain.Application) (string, error) {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.Create")
	defer span.End()
	id := a.ID
	if id == "" {
		id = uuid.New().String()
	}
	features, err := json.Marshal(a.FeatureScores)
	if err != nil {
		return "", fmt.Errorf("op=application.create: %w", err)
	}
	status := a.Status
	if status == "" {
		status = domain.StatusSubmitted
	}
	q := `INSERT INTO applications (id, job_id, candidate_id, resume_id, feature_scores, final_score, status, applied_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	_, err = r.Pool.Exec(ctx, q, id, a.JobID, a.CandidateID, a.ResumeID, features, a.FinalScore, status, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("op=application.create: %w: candidate already applied", domain.ErrConflict)
		}
		return "", fmt.Errorf("op=application.create: %w", err)
	}
	return id, nil
}

// Get loads an application by id.
func (r *ApplicationRepo) Get(ctx domain.Context, id string) (domain.Application, error) {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.Get")
	defer span.End()
	q := `SELECT id, job_id, candidate_id, resume_id, feature_scores, COALESCE(final_score,0), status, applied_at
		FROM applications WHERE id=$1`
	a, err := scanApplication(r.Pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Application{}, fmt.Errorf("op=application.get: %w", domain.ErrNotFound)
		}
		return domain.Application{}, fmt.Errorf("op=application.get: %w", err)
	}
	return a, nil
}

// ListByJob returns the job's applications ranked by final score descending,
// unscored rows last, ties broken by application time.
func (r *ApplicationRepo) ListByJob(ctx domain.Context, jobID string) ([]domain.Application, error) {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.ListByJob")
	defer span.End()
	q := `SELECT id, job_id, candidate_id, resume_id, feature_scores, COALESCE(final_score,0), status, applied_at
		FROM applications WHERE job_id=$1 ORDER BY final_score DESC NULLS LAST, applied_at ASC`
	rows, err := r.Pool.Query(ctx, q, jobID)
	if err != nil {
		return nil, fmt.Errorf("op=application.list_by_job: %w", err)
	}
	defer rows.Close()
	out, err := collectApplications(rows)
	if err != nil {
		return nil, fmt.Errorf("op=application.list_by_job: %w", err)
	}
	return out, nil
}

// ExistsForJobAndCandidate reports whether the candidate already applied.
func (r *ApplicationRepo) ExistsForJobAndCandidate(ctx domain.Context, jobID, candidateID string) (bool, error) {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.Exists")
	defer span.End()
	q := `SELECT EXISTS (SELECT 1 FROM applications WHERE job_id=$1 AND candidate_id=$2)`
	var exists bool
	if err := r.Pool.QueryRow(ctx, q, jobID, candidateID).Scan(&exists); err != nil {
		return false, fmt.Errorf("op=application.exists: %w", err)
	}
	return exists, nil
}

// UpdateStatus sets the recruiter decision on an application.
func (r *ApplicationRepo) UpdateStatus(ctx domain.Context, id string, status domain.ApplicationStatus) error {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.UpdateStatus")
	defer span.End()
	q := `UPDATE applications SET status=$2 WHERE id=$1`
	tag, err := r.Pool.Exec(ctx, q, id, status)
	if err != nil {
		return fmt.Errorf("op=application.update_status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("op=application.update_status: %w", domain.ErrNotFound)
	}
	return nil
}

// ListLabeled returns decided applications with stored feature vectors,
// the supervision examples for retraining.
func (r *ApplicationRepo) ListLabeled(ctx domain.Context) ([]domain.Application, error) {
	tracer := otel.Tracer("repo.applications")
	ctx, span := tracer.Start(ctx, "applications.ListLabeled")
	defer span.End()
	q := `SELECT id, job_id, candidate_id, resume_id, feature_scores, COALESCE(final_score,0), status, applied_at
		FROM applications WHERE status IN ($1,$2) AND feature_scores IS NOT NULL ORDER BY applied_at ASC`
	rows, err := r.Pool.Query(ctx, q, domain.StatusAccepted, domain.StatusDeclined)
	if err != nil {
		return nil, fmt.Errorf("op=application.list_labeled: %w", err)
	}
	defer rows.Close()
	out, err := collectApplications(rows)
	if err != nil {
		return nil, fmt.Errorf("op=application.list_labeled: %w", err)
	}
	return out, nil
}

func collectApplications(rows pgx.Rows) ([]domain.Application, error) {
	var out []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanApplication(row pgx.Row) (domain.Application, error) {
	var a domain.Application
	var features []byte
	if err := row.Scan(&a.ID, &a.JobID, &a.CandidateID, &a.ResumeID, &features, &a.FinalScore, &a.Status, &a.AppliedAt); err != nil {
		return domain.Application{}, err
	}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &a.FeatureScores); err != nil {
			return domain.Application{}, err
		}
	}
	return a, nil
}
