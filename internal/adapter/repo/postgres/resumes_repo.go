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

// ResumeRepo persists and loads resumes using a minimal pgx pool.
type ResumeRepo struct{ Pool PgxPool }

// NewResumeRepo constructs a ResumeRepo with the given pool.
func NewResumeRepo(p PgxPool) *ResumeRepo { return &ResumeRepo{Pool: p} }

// UpsertForCandidate replaces the candidate's resume if one exists. The
// replaced row keeps its id so existing applications still reference it;
// only the document content changes.
func (r *ResumeRepo) UpsertForCandidate(ctx domain.Context, res domain.Resume) (string, error) {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.UpsertForCandidate")
	defer span.End()
	if res.CandidateID == "" {
		return "", fmt.Errorf("op=resume.upsert: %w: candidate id required", domain.ErrInvalidArgument)
	}
	id := res.ID
	if id == "" {
		id = uuid.New().String()
	}
	sections, err := json.Marshal(res.Sections)
	if err != nil {
		return "", fmt.Errorf("op=resume.upsert: %w", err)
	}
	q := `INSERT INTO resumes (id, candidate_id, original_filename, extracted_text, sections, extracted_name, extracted_email, source, uploaded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (candidate_id) WHERE candidate_id IS NOT NULL AND candidate_id <> ''
		DO UPDATE SET original_filename=EXCLUDED.original_filename,
			extracted_text=EXCLUDED.extracted_text,
			sections=EXCLUDED.sections,
			extracted_name=EXCLUDED.extracted_name,
			extracted_email=EXCLUDED.extracted_email,
			uploaded_at=EXCLUDED.uploaded_at
		RETURNING id`
	var got string
	if err := r.Pool.QueryRow(ctx, q, id, res.CandidateID, res.OriginalFilename, res.ExtractedText, sections,
		res.ExtractedName, res.ExtractedEmail, domain.SourceApplication, time.Now().UTC()).Scan(&got); err != nil {
		return "", fmt.Errorf("op=resume.upsert: %w", err)
	}
	return got, nil
}

// Create inserts a talent-pool resume with no candidate binding.
func (r *ResumeRepo) Create(ctx domain.Context, res domain.Resume) (string, error) {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.Create")
	defer span.End()
	id := res.ID
	if id == "" {
		id = uuid.New().String()
	}
	sections, err := json.Marshal(res.Sections)
	if err != nil {
		return "", fmt.Errorf("op=resume.create: %w", err)
	}
	source := res.Source
	if source == "" {
		source = domain.SourceTalentPool
	}
	q := `INSERT INTO resumes (id, candidate_id, original_filename, extracted_text, sections, extracted_name, extracted_email, source, uploaded_at)
		VALUES ($1,NULL,$2,$3,$4,$5,$6,$7,$8)`
	_, err = r.Pool.Exec(ctx, q, id, res.OriginalFilename, res.ExtractedText, sections,
		res.ExtractedName, res.ExtractedEmail, source, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("op=resume.create: %w", err)
	}
	return id, nil
}

// Get loads a resume by id.
func (r *ResumeRepo) Get(ctx domain.Context, id string) (domain.Resume, error) {
	tracer := otel.Tracer("repo.resumes")
	ctx, span := tracer.Start(ctx, "resumes.Get")
	defer span.End()
	q := `SELECT id, COALESCE(candidate_id,''), original_filename, extracted_text, sections, extracted_name, extracted_email, source, uploaded_at
		FROM resumes WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var res domain.Resume
	var sections []byte
	if err := row.Scan(&res.ID, &res.CandidateID, &res.OriginalFilename, &res.ExtractedText, &sections,
		&res.ExtractedName, &res.ExtractedEmail, &res.Source, &res.UploadedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Resume{}, fmt.Errorf("op=resume.get: %w", domain.ErrNotFound)
		}
		return domain.Resume{}, fmt.Errorf("op=resume.get: %w", err)
	}
	if len(sections) > 0 {
		if err := json.Unmarshal(sections, &res.Sections); err != nil {
			return domain.Resume{}, fmt.Errorf("op=resume.get: %w", err)
		}
	}
	return res, nil
}
