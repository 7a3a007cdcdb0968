package usecase

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fairyhunter13/resume-ranker/internal/adapter/observability"
	"github.com/fairyhunter13/resume-ranker/internal/domain"
	"github.com/fairyhunter13/resume-ranker/internal/nlp"
	"github.com/fairyhunter13/resume-ranker/internal/scoring"
	"github.com/fairyhunter13/resume-ranker/internal/similarity"
)

// ApplyService runs the synchronous application pipeline: extract, process,
// featurize and score, then persist the application with its frozen inputs.
type ApplyService struct {
	Jobs       domain.JobRepository
	Resumes    domain.ResumeRepository
	Apps       domain.ApplicationRepository
	Extractor  domain.TextExtractor
	Processor  *nlp.Processor
	Similarity *similarity.Engine
	Scorer     *scoring.Engine
}

// NewApplyService constructs an ApplyService with its dependencies.
func NewApplyService(
	jobs domain.JobRepository,
	resumes domain.ResumeRepository,
	apps domain.ApplicationRepository,
	extractor domain.TextExtractor,
	processor *nlp.Processor,
	sim *similarity.Engine,
	scorer *scoring.Engine,
) ApplyService {
	return ApplyService{
		Jobs: jobs, Resumes: resumes, Apps: apps,
		Extractor: extractor, Processor: processor,
		Similarity: sim, Scorer: scorer,
	}
}

// Apply processes a candidate's resume upload against a job and returns the
// created application. A second application to the same job is ErrConflict;
// an unreadable or empty document is ErrInvalidArgument, not a fault.
func (s ApplyService) Apply(ctx domain.Context, jobID, candidateID, fileName, filePath string) (domain.Application, error) {
	if jobID == "" || candidateID == "" {
		return domain.Application{}, fmt.Errorf("%w: job and candidate ids required", domain.ErrInvalidArgument)
	}
	job, err := s.Jobs.Get(ctx, jobID)
	if err != nil {
		return domain.Application{}, err
	}
	exists, err := s.Apps.ExistsForJobAndCandidate(ctx, jobID, candidateID)
	if err != nil {
		return domain.Application{}, err
	}
	if exists {
		return domain.Application{}, fmt.Errorf("%w: candidate already applied to this job", domain.ErrConflict)
	}

	text, err := s.Extractor.ExtractPath(ctx, fileName, filePath)
	if err != nil {
		return domain.Application{}, fmt.Errorf("%w: could not read resume: %v", domain.ErrInvalidArgument, err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.Application{}, fmt.Errorf("%w: resume has no extractable text", domain.ErrInvalidArgument)
	}

	resume := domain.Resume{
		CandidateID:      candidateID,
		OriginalFilename: fileName,
		ExtractedText:    text,
		Sections:         s.Processor.Process(text),
		ExtractedName:    nlp.ExtractName(text),
		ExtractedEmail:   nlp.ExtractEmail(text),
		Source:           domain.SourceApplication,
		UploadedAt:       time.Now().UTC(),
	}
	resumeID, err := s.Resumes.UpsertForCandidate(ctx, resume)
	if err != nil {
		return domain.Application{}, err
	}
	resume.ID = resumeID

	features := s.Similarity.GenerateFeatureVector(ctx, job, resume)
	score := s.Scorer.Predict(ctx, features)

	app := domain.Application{
		JobID:         jobID,
		CandidateID:   candidateID,
		ResumeID:      resumeID,
		FeatureScores: features,
		FinalScore:    score,
		Status:        domain.StatusSubmitted,
		AppliedAt:     time.Now().UTC(),
	}
	appID, err := s.Apps.Create(ctx, app)
	if err != nil {
		return domain.Application{}, err
	}
	app.ID = appID

	mode := "heuristic"
	if s.Scorer.ModelLoaded(ctx) {
		mode = "model"
	}
	observability.ApplicationsScoredTotal.WithLabelValues(mode).Inc()
	observability.FinalScoreHistogram.Observe(score)
	slog.Info("application scored",
		slog.String("job_id", jobID),
		slog.String("application_id", appID),
		slog.Float64("final_score", score))
	return app, nil
}

// GetApplication loads one application.
func (s ApplyService) GetApplication(ctx domain.Context, id string) (domain.Application, error) {
	return s.Apps.Get(ctx, id)
}

// UpdateStatus records a recruiter decision. Decisions later feed retraining
// as labels, so only known statuses are accepted.
func (s ApplyService) UpdateStatus(ctx domain.Context, id string, status domain.ApplicationStatus) error {
	if !domain.ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidArgument, status)
	}
	return s.Apps.UpdateStatus(ctx, id, status)
}

// BulkFile is one upload in a talent-pool batch.
type BulkFile struct {
	FileName string
	Path     string
}

// BulkResult reports the per-file outcome of a talent-pool upload.
type BulkResult struct {
	FileName string `json:"file_name"`
	ResumeID string `json:"resume_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BulkUploadTalentPool ingests recruiter-uploaded resumes with no candidate
// binding. Files fail independently; one bad document never aborts the batch.
func (s ApplyService) BulkUploadTalentPool(ctx domain.Context, files []BulkFile) []BulkResult {
	results := make([]BulkResult, 0, len(files))
	for _, f := range files {
		res := BulkResult{FileName: f.FileName}
		text, err := s.Extractor.ExtractPath(ctx, f.FileName, f.Path)
		if err != nil || strings.TrimSpace(text) == "" {
			if err == nil {
				err = fmt.Errorf("no extractable text")
			}
			res.Error = err.Error()
			slog.Warn("talent pool file skipped",
				slog.String("file", f.FileName),
				slog.Any("error", err))
			results = append(results, res)
			continue
		}
		id, err := s.Resumes.Create(ctx, domain.Resume{
			OriginalFilename: f.FileName,
			ExtractedText:    text,
			Sections:         s.Processor.Process(text),
			ExtractedName:    nlp.ExtractName(text),
			ExtractedEmail:   nlp.ExtractEmail(text),
			Source:           domain.SourceTalentPool,
			UploadedAt:       time.Now().UTC(),
		})
		if err != nil {
			res.Error = err.Error()
		} else {
			res.ResumeID = id
		}
		results = append(results, res)
	}
	return results
}
