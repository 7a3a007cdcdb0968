package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
	"github.com/fairyhunter13/resume-ranker/internal/domain/mocks"
	"github.com/fairyhunter13/resume-ranker/internal/nlp"
	"github.com/fairyhunter13/resume-ranker/internal/usecase"
)

func TestJobService_Post(t *testing.T) {
	t.Parallel()
	jobs := &mocks.MockJobRepository{}
	apps := &mocks.MockApplicationRepository{}

	jobs.On("Create", mock.Anything, mock.MatchedBy(func(j domain.Job) bool {
		return j.Title == "Backend Engineer" &&
			j.ProcessedDescription != "" &&
			j.Sections.RawSections != nil
	})).Return("job-1", nil)

	svc := usecase.NewJobService(jobs, apps, nlp.NewProcessor())
	id, err := svc.Post(context.Background(), "Backend Engineer",
		"Responsibilities\nBuild and operate Go services\nSkills\ngo, postgresql", "recruiter-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", id)
	jobs.AssertExpectations(t)
}

func TestJobService_Post_Validation(t *testing.T) {
	t.Parallel()
	svc := usecase.NewJobService(&mocks.MockJobRepository{}, &mocks.MockApplicationRepository{}, nlp.NewProcessor())

	_, err := svc.Post(context.Background(), "  ", "desc", "u")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = svc.Post(context.Background(), "t", "", "u")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = svc.Post(context.Background(), "t", "desc", "")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestJobService_Rank(t *testing.T) {
	t.Parallel()
	jobs := &mocks.MockJobRepository{}
	apps := &mocks.MockApplicationRepository{}

	jobs.On("Get", mock.Anything, "job-1").Return(domain.Job{ID: "job-1"}, nil)
	apps.On("ListByJob", mock.Anything, "job-1").Return([]domain.Application{
		{ID: "app-1", FinalScore: 0.91},
		{ID: "app-2", FinalScore: 0.42},
	}, nil)

	svc := usecase.NewJobService(jobs, apps, nlp.NewProcessor())
	ranked, err := svc.Rank(context.Background(), "job-1")
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "app-1", ranked[0].ID)
}

func TestJobService_Rank_UnknownJob(t *testing.T) {
	t.Parallel()
	jobs := &mocks.MockJobRepository{}
	jobs.On("Get", mock.Anything, "missing").Return(domain.Job{}, domain.ErrNotFound)

	svc := usecase.NewJobService(jobs, &mocks.MockApplicationRepository{}, nlp.NewProcessor())
	_, err := svc.Rank(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
