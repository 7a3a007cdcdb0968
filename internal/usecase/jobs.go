// Package usecase contains application business logic services.
package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
	"github.com/fairyhunter13/resume-ranker/internal/nlp"
)

// JobService handles job postings and ranked candidate listings.
type JobService struct {
	Jobs      domain.JobRepository
	Apps      domain.ApplicationRepository
	Processor *nlp.Processor
}

// NewJobService constructs a JobService with its dependencies.
func NewJobService(j domain.JobRepository, a domain.ApplicationRepository, p *nlp.Processor) JobService {
	return JobService{Jobs: j, Apps: a, Processor: p}
}

// Post validates and stores a job posting. The description is sectionized at
// creation time so applications reuse the processed form.
func (s JobService) Post(ctx domain.Context, title, description, uploaderID string) (string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" || description == "" {
		return "", fmt.Errorf("%w: title and description required", domain.ErrInvalidArgument)
	}
	if uploaderID == "" {
		return "", fmt.Errorf("%w: uploader id required", domain.ErrInvalidArgument)
	}
	j := domain.Job{
		Title:                title,
		Description:          description,
		ProcessedDescription: nlp.PreprocessText(description),
		Sections:             s.Processor.Process(description),
		UploaderID:           uploaderID,
		CreatedAt:            time.Now().UTC(),
	}
	return s.Jobs.Create(ctx, j)
}

// Get loads one job.
func (s JobService) Get(ctx domain.Context, id string) (domain.Job, error) {
	return s.Jobs.Get(ctx, id)
}

// ListByUploader returns the recruiter's jobs, newest first.
func (s JobService) ListByUploader(ctx domain.Context, uploaderID string) ([]domain.Job, error) {
	return s.Jobs.ListByUploader(ctx, uploaderID)
}

// Rank returns the job's applications ordered by final score descending.
// The ordering comes from storage so paging stays consistent.
func (s JobService) Rank(ctx domain.Context, jobID string) ([]domain.Application, error) {
	if _, err := s.Jobs.Get(ctx, jobID); err != nil {
		return nil, err
	}
	return s.Apps.ListByJob(ctx, jobID)
}
