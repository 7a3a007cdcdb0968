// Package domain holds the core entities, ports, and error taxonomy of the
// resume ranking platform. It has no dependencies on adapters; adapters and
// usecases depend on it.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnreadable      = errors.New("unreadable document")
	ErrSchemaMismatch  = errors.New("feature schema mismatch")
	ErrNotEnoughData   = errors.New("not enough labeled data")
	ErrInternal        = errors.New("internal error")
)

// Section labels produced by the document sectionizer.
type Section string

const (
	SectionHeader           Section = "HEADER"
	SectionSummary          Section = "SUMMARY"
	SectionExperience       Section = "EXPERIENCE"
	SectionSkills           Section = "SKILLS"
	SectionEducation        Section = "EDUCATION"
	SectionResponsibilities Section = "RESPONSIBILITIES"
	SectionOther            Section = "OTHER"
)

// EducationLevel is the highest education tier detected in a document.
type EducationLevel string

const (
	EducationDoctorate EducationLevel = "Doctorate"
	EducationMasters   EducationLevel = "Master's Degree"
	EducationBachelors EducationLevel = "Bachelor's Degree"
	EducationAssociate EducationLevel = "Associate Degree"
	EducationNotFound  EducationLevel = "Not Found"
)

// ReadabilityLevel buckets a Flesch reading-ease score.
type ReadabilityLevel string

const (
	ReadabilityVeryEasy      ReadabilityLevel = "Very Easy"
	ReadabilityEasy          ReadabilityLevel = "Easy"
	ReadabilityStandard      ReadabilityLevel = "Standard"
	ReadabilityDifficult     ReadabilityLevel = "Difficult"
	ReadabilityVeryDifficult ReadabilityLevel = "Very Difficult"
	ReadabilityNotAvailable  ReadabilityLevel = "N/A"
)

// DocumentRecord is the structured output of processing one document version.
// It is recomputed whenever the underlying text changes and is never mutated
// in place.
type DocumentRecord struct {
	RawSections         map[Section]string `json:"raw_sections"`
	Skills              []string           `json:"skills"`
	ExperienceYears     int                `json:"experience_years"`
	EducationLevel      EducationLevel     `json:"education_level"`
	ReadabilityScore    float64            `json:"readability_score"`
	ReadabilityLevel    ReadabilityLevel   `json:"readability_level"`
	AccomplishmentScore int                `json:"accomplishment_score"`
}

// SectionText returns the text of a section, empty if absent.
func (r DocumentRecord) SectionText(s Section) string {
	if r.RawSections == nil {
		return ""
	}
	return r.RawSections[s]
}

// Job is a posting created by a recruiter. Immutable after creation.
type Job struct {
	ID                   string
	Title                string
	Description          string
	ProcessedDescription string
	Sections             DocumentRecord
	UploaderID           string
	CreatedAt            time.Time
}

// ResumeSource distinguishes candidate-submitted resumes from recruiter
// bulk uploads into a talent pool.
type ResumeSource string

const (
	SourceApplication ResumeSource = "application"
	SourceTalentPool  ResumeSource = "talent_pool"
)

// Resume is an uploaded document with its extracted and processed form.
// A candidate has at most one resume; reapplying replaces it. Talent-pool
// resumes have an empty CandidateID.
type Resume struct {
	ID               string
	CandidateID      string
	OriginalFilename string
	ExtractedText    string
	Sections         DocumentRecord
	ExtractedName    string
	ExtractedEmail   string
	Source           ResumeSource
	UploadedAt       time.Time
}

// FeatureVector maps feature names to numeric signals for one (job, resume)
// pair. It is computed once at application time and stored immutably so that
// recruiter decisions can later be joined back to the exact inputs that were
// scored.
type FeatureVector map[string]float64

// Canonical feature keys. The scoring heuristic and the trained model both
// consume these names; retraining tolerates extra keys via schema union.
const (
	FeatureOverallSimilarity    = "overall_similarity"
	FeatureExperienceSimilarity = "experience_similarity"
	FeatureSkillsSimilarity     = "skills_similarity"
	FeatureAccomplishmentScore  = "accomplishment_score"
	FeatureReadabilityScore     = "readability_score"
)

// ApplicationStatus is mutated by recruiters and doubles as the supervision
// label for retraining.
type ApplicationStatus string

const (
	StatusSubmitted ApplicationStatus = "Submitted"
	StatusInReview  ApplicationStatus = "In Review"
	StatusAccepted  ApplicationStatus = "Accepted"
	StatusDeclined  ApplicationStatus = "Declined"
)

// ValidStatus reports whether s is a known application status.
func ValidStatus(s ApplicationStatus) bool {
	switch s {
	case StatusSubmitted, StatusInReview, StatusAccepted, StatusDeclined:
		return true
	}
	return false
}

// Application links (job, candidate, resume) and carries the frozen feature
// vector plus the final score computed at creation time.
type Application struct {
	ID            string
	JobID         string
	CandidateID   string
	ResumeID      string
	FeatureScores FeatureVector
	FinalScore    float64
	Status        ApplicationStatus
	AppliedAt     time.Time
}

// Label returns the supervision label for a decided application:
// 1 for Accepted, 0 for Declined. ok is false for undecided statuses.
func (a Application) Label() (label int, ok bool) {
	switch a.Status {
	case StatusAccepted:
		return 1, true
	case StatusDeclined:
		return 0, true
	}
	return 0, false
}

// RetrainStatus tracks the lifecycle of an offline retraining run.
type RetrainStatus string

const (
	RetrainQueued    RetrainStatus = "queued"
	RetrainRunning   RetrainStatus = "running"
	RetrainCompleted RetrainStatus = "completed"
	RetrainSkipped   RetrainStatus = "skipped"
	RetrainFailed    RetrainStatus = "failed"
)

// RetrainRun is one observable retraining execution, created when the run is
// triggered and updated by the worker as it progresses.
type RetrainRun struct {
	ID           string
	Status       RetrainStatus
	Reason       string
	ArtifactPath string
	HoldoutAUC   float64
	TriggeredBy  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RetrainTaskPayload is the queue message for a retraining run.
type RetrainTaskPayload struct {
	RunID       string `json:"run_id"`
	TriggeredBy string `json:"triggered_by"`
}

// Repositories (ports)

type JobRepository interface {
	Create(ctx Context, j Job) (string, error)
	Get(ctx Context, id string) (Job, error)
	ListByUploader(ctx Context, uploaderID string) ([]Job, error)
}

type ResumeRepository interface {
	// UpsertForCandidate replaces the candidate's existing resume, if any,
	// and returns the resume id.
	UpsertForCandidate(ctx Context, r Resume) (string, error)
	// Create inserts a resume with no candidate (talent pool).
	Create(ctx Context, r Resume) (string, error)
	Get(ctx Context, id string) (Resume, error)
}

type ApplicationRepository interface {
	// Create persists the application together with its feature vector and
	// final score in a single write.
	Create(ctx Context, a Application) (string, error)
	Get(ctx Context, id string) (Application, error)
	// ListByJob returns applications ordered by final score descending,
	// unscored last.
	ListByJob(ctx Context, jobID string) ([]Application, error)
	ExistsForJobAndCandidate(ctx Context, jobID, candidateID string) (bool, error)
	UpdateStatus(ctx Context, id string, status ApplicationStatus) error
	// ListLabeled returns decided applications (Accepted/Declined) that have
	// a stored feature vector. These are the retraining examples.
	ListLabeled(ctx Context) ([]Application, error)
}

type RetrainRunRepository interface {
	Create(ctx Context, r RetrainRun) (string, error)
	Get(ctx Context, id string) (RetrainRun, error)
	Update(ctx Context, r RetrainRun) error
}

// Queue (port)

type Queue interface {
	EnqueueRetrain(ctx Context, payload RetrainTaskPayload) (string, error)
}

// Embedder (port) embeds texts into fixed-dimension vectors. Implementations
// call an external embedding service; caches may wrap them.
type Embedder interface {
	Embed(ctx Context, texts []string) ([][]float32, error)
}

// TextExtractor (port) extracts plain text from an uploaded file. An empty
// result signals an unreadable document, surfaced as a user-facing validation
// failure rather than a fault.
type TextExtractor interface {
	ExtractPath(ctx Context, fileName, path string) (string, error)
}

// ModelStore (port) is the model artifact registry: a directory-like store of
// named, timestamped blobs. Local filesystem today; the interface keeps the
// door open for object storage.
type ModelStore interface {
	// List returns artifact paths matching a glob pattern.
	List(ctx Context, pattern string) ([]string, error)
	// Newest returns the path with the most recent creation time.
	Newest(ctx Context, paths []string) (string, error)
	Load(ctx Context, path string) ([]byte, error)
	// Save writes blob atomically under name and returns the final path.
	// Partially written artifacts must never be visible.
	Save(ctx Context, name string, blob []byte) (string, error)
}

// Context is an alias so domain signatures stay decoupled from stdlib naming;
// adapters and usecases pass context.Context through.
type Context = context.Context
