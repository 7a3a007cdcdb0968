// Package mocks provides testify mocks for the domain ports.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

// MockJobRepository mocks domain.JobRepository.
type MockJobRepository struct{ mock.Mock }

func (m *MockJobRepository) Create(ctx domain.Context, j domain.Job) (string, error) {
	args := m.Called(ctx, j)
	return args.String(0), args.Error(1)
}

func (m *MockJobRepository) Get(ctx domain.Context, id string) (domain.Job, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Job), args.Error(1)
}

func (m *MockJobRepository) ListByUploader(ctx domain.Context, uploaderID string) ([]domain.Job, error) {
	args := m.Called(ctx, uploaderID)
	if v := args.Get(0); v != nil {
		return v.([]domain.Job), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockResumeRepository mocks domain.ResumeRepository.
type MockResumeRepository struct{ mock.Mock }

func (m *MockResumeRepository) UpsertForCandidate(ctx domain.Context, r domain.Resume) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}

func (m *MockResumeRepository) Create(ctx domain.Context, r domain.Resume) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}

func (m *MockResumeRepository) Get(ctx domain.Context, id string) (domain.Resume, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Resume), args.Error(1)
}

// MockApplicationRepository mocks domain.ApplicationRepository.
type MockApplicationRepository struct{ mock.Mock }

func (m *MockApplicationRepository) Create(ctx domain.Context, a domain.Application) (string, error) {
	args := m.Called(ctx, a)
	return args.String(0), args.Error(1)
}

func (m *MockApplicationRepository) Get(ctx domain.Context, id string) (domain.Application, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Application), args.Error(1)
}

func (m *MockApplicationRepository) ListByJob(ctx domain.Context, jobID string) ([]domain.Application, error) {
	args := m.Called(ctx, jobID)
	if v := args.Get(0); v != nil {
		return v.([]domain.Application), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockApplicationRepository) ExistsForJobAndCandidate(ctx domain.Context, jobID, candidateID string) (bool, error) {
	args := m.Called(ctx, jobID, candidateID)
	return args.Bool(0), args.Error(1)
}

func (m *MockApplicationRepository) UpdateStatus(ctx domain.Context, id string, status domain.ApplicationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockApplicationRepository) ListLabeled(ctx domain.Context) ([]domain.Application, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]domain.Application), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockRetrainRunRepository mocks domain.RetrainRunRepository.
type MockRetrainRunRepository struct{ mock.Mock }

func (m *MockRetrainRunRepository) Create(ctx domain.Context, r domain.RetrainRun) (string, error) {
	args := m.Called(ctx, r)
	return args.String(0), args.Error(1)
}

func (m *MockRetrainRunRepository) Get(ctx domain.Context, id string) (domain.RetrainRun, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.RetrainRun), args.Error(1)
}

func (m *MockRetrainRunRepository) Update(ctx domain.Context, r domain.RetrainRun) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// MockQueue mocks domain.Queue.
type MockQueue struct{ mock.Mock }

func (m *MockQueue) EnqueueRetrain(ctx domain.Context, payload domain.RetrainTaskPayload) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

// MockTextExtractor mocks domain.TextExtractor.
type MockTextExtractor struct{ mock.Mock }

func (m *MockTextExtractor) ExtractPath(ctx domain.Context, fileName, path string) (string, error) {
	args := m.Called(ctx, fileName, path)
	return args.String(0), args.Error(1)
}

// MockEmbedder mocks domain.Embedder.
type MockEmbedder struct{ mock.Mock }

func (m *MockEmbedder) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if v := args.Get(0); v != nil {
		return v.([][]float32), args.Error(1)
	}
	return nil, args.Error(1)
}
