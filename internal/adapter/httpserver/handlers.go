package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/resume-ranker/internal/config"
	"github.com/fairyhunter13/resume-ranker/internal/domain"
	"github.com/fairyhunter13/resume-ranker/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Jobs       usecase.JobService
	Apply      usecase.ApplyService
	Retrain    usecase.RetrainService
	DBCheck    func(ctx context.Context) error
	RedisCheck func(ctx context.Context) error
	TikaCheck  func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, jobs usecase.JobService, apply usecase.ApplyService, retrain usecase.RetrainService,
	dbCheck, redisCheck, tikaCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Jobs: jobs, Apply: apply, Retrain: retrain,
		DBCheck: dbCheck, RedisCheck: redisCheck, TikaCheck: tikaCheck}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// allowedExt enforces an allowlist for uploads: .txt, .pdf, .docx
func allowedExt(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".txt") || strings.HasSuffix(n, ".pdf") || strings.HasSuffix(n, ".docx")
}

func allowedMIME(m, filename string) bool {
	m = strings.ToLower(m)
	if strings.HasSuffix(strings.ToLower(filename), ".txt") && strings.HasPrefix(m, "text/") {
		return true
	}
	if strings.HasPrefix(m, "text/plain") {
		return true
	}
	return m == "application/pdf" ||
		m == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" ||
		m == "application/zip" // docx containers sometimes sniff as bare zip
}

// stageUpload validates one multipart file and writes it to the upload dir.
// The caller removes the staged file after extraction.
func (s *Server) stageUpload(fh *multipart.FileHeader) (string, error) {
	if !allowedExt(fh.Filename) {
		return "", fmt.Errorf("%w: unsupported file type %s", domain.ErrInvalidArgument, filepath.Ext(fh.Filename))
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	defer func() { _ = f.Close() }()

	if err := os.MkdirAll(s.Cfg.UploadDir, 0o750); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(s.Cfg.UploadDir, "resume-*"+strings.ToLower(filepath.Ext(fh.Filename)))
	if err != nil {
		return "", err
	}
	defer func() { _ = tmp.Close() }()

	// Sniff actual content while copying; extension alone is not trusted.
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	if !allowedMIME(mt.String(), fh.Filename) {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: content type %s not allowed", domain.ErrInvalidArgument, mt.String())
	}
	if _, err := f.Seek(0, 0); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if _, err := tmp.ReadFrom(f); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

type postJobRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	UploaderID  string `json:"uploader_id" validate:"required,max=100"`
}

// PostJobHandler creates a job posting.
func (s *Server) PostJobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req postJobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json body", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		id, err := s.Jobs.Post(r.Context(), req.Title, req.Description, req.UploaderID)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	}
}

// GetJobHandler returns one job posting.
func (s *Server) GetJobHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		j, err := s.Jobs.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, jobResponse(j))
	}
}

// ListJobsHandler returns the uploader's jobs.
func (s *Server) ListJobsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uploaderID := r.URL.Query().Get("uploader_id")
		if uploaderID == "" {
			writeError(w, r, fmt.Errorf("%w: uploader_id query parameter required", domain.ErrInvalidArgument), nil)
			return
		}
		jobs, err := s.Jobs.ListByUploader(r.Context(), uploaderID)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		out := make([]map[string]any, 0, len(jobs))
		for _, j := range jobs {
			out = append(out, jobResponse(j))
		}
		writeJSON(w, http.StatusOK, map[string]any{"jobs": out})
	}
}

func jobResponse(j domain.Job) map[string]any {
	return map[string]any{
		"id":          j.ID,
		"title":       j.Title,
		"description": j.Description,
		"uploader_id": j.UploaderID,
		"created_at":  j.CreatedAt,
	}
}

// ApplyHandler accepts a multipart resume upload for a job.
func (s *Server) ApplyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "too large") {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope{Error: apiError{
					Code: "PAYLOAD_TOO_LARGE", Message: "upload exceeds size limit"}})
				return
			}
			writeError(w, r, fmt.Errorf("%w: expected multipart form", domain.ErrInvalidArgument), nil)
			return
		}
		candidateID := r.FormValue("candidate_id")
		if candidateID == "" {
			writeError(w, r, fmt.Errorf("%w: candidate_id required", domain.ErrInvalidArgument), nil)
			return
		}
		_, fh, err := r.FormFile("resume")
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: resume file required", domain.ErrInvalidArgument), nil)
			return
		}
		path, err := s.stageUpload(fh)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		defer func() { _ = os.Remove(path) }()

		app, err := s.Apply.Apply(r.Context(), chi.URLParam(r, "id"), candidateID, fh.Filename, path)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusCreated, applicationResponse(app))
	}
}

func applicationResponse(a domain.Application) map[string]any {
	return map[string]any{
		"id":             a.ID,
		"job_id":         a.JobID,
		"candidate_id":   a.CandidateID,
		"resume_id":      a.ResumeID,
		"feature_scores": a.FeatureScores,
		"final_score":    a.FinalScore,
		"status":         a.Status,
		"applied_at":     a.AppliedAt,
	}
}

// RankHandler returns the job's applications ranked by final score.
func (s *Server) RankHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apps, err := s.Jobs.Rank(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		out := make([]map[string]any, 0, len(apps))
		for _, a := range apps {
			out = append(out, applicationResponse(a))
		}
		writeJSON(w, http.StatusOK, map[string]any{"applications": out})
	}
}

// GetApplicationHandler returns one application.
func (s *Server) GetApplicationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := s.Apply.GetApplication(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, applicationResponse(a))
	}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatusHandler records a recruiter decision on an application.
func (s *Server) UpdateStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json body", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		if err := s.Apply.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.ApplicationStatus(req.Status)); err != nil {
			writeError(w, r, err, nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// TalentPoolHandler ingests a batch of resumes with no candidate binding.
func (s *Server) TalentPoolHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		// Batches may carry several files; the per-request cap scales with that.
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes*10)
		if err := r.ParseMultipartForm(maxBytes * 10); err != nil {
			writeError(w, r, fmt.Errorf("%w: expected multipart form", domain.ErrInvalidArgument), nil)
			return
		}
		if r.MultipartForm == nil || len(r.MultipartForm.File["resumes"]) == 0 {
			writeError(w, r, fmt.Errorf("%w: at least one file under field 'resumes' required", domain.ErrInvalidArgument), nil)
			return
		}

		files := make([]usecase.BulkFile, 0, len(r.MultipartForm.File["resumes"]))
		staged := make([]string, 0, len(files))
		results := make([]usecase.BulkResult, 0)
		for _, fh := range r.MultipartForm.File["resumes"] {
			path, err := s.stageUpload(fh)
			if err != nil {
				results = append(results, usecase.BulkResult{FileName: fh.Filename, Error: err.Error()})
				continue
			}
			staged = append(staged, path)
			files = append(files, usecase.BulkFile{FileName: fh.Filename, Path: path})
		}
		defer func() {
			for _, p := range staged {
				_ = os.Remove(p)
			}
		}()

		results = append(results, s.Apply.BulkUploadTalentPool(r.Context(), files)...)
		writeJSON(w, http.StatusOK, map[string]any{"results": results})
	}
}

type retrainRequest struct {
	TriggeredBy string `json:"triggered_by" validate:"required,max=100"`
}

// TriggerRetrainHandler queues an offline retraining run.
func (s *Server) TriggerRetrainHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req retrainRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json body", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		runID, err := s.Retrain.Trigger(r.Context(), req.TriggeredBy)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"run_id": runID, "status": string(domain.RetrainQueued)})
	}
}

// RetrainStatusHandler reports one retraining run.
func (s *Server) RetrainStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := s.Retrain.Status(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		resp := map[string]any{
			"run_id":     run.ID,
			"status":     run.Status,
			"created_at": run.CreatedAt,
			"updated_at": run.UpdatedAt,
		}
		if run.Reason != "" {
			resp["reason"] = run.Reason
		}
		if run.Status == domain.RetrainCompleted {
			resp["artifact_path"] = run.ArtifactPath
			resp["holdout_auc"] = run.HoldoutAUC
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ReadyzHandler reports dependency health.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name string `json:"name"`
		OK   bool   `json:"ok"`
		Err  string `json:"error,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		checks := []struct {
			name string
			fn   func(context.Context) error
		}{
			{"db", s.DBCheck},
			{"redis", s.RedisCheck},
			{"tika", s.TikaCheck},
		}
		out := make([]check, 0, len(checks))
		allOK := true
		for _, c := range checks {
			if c.fn == nil {
				continue
			}
			err := c.fn(r.Context())
			cr := check{Name: c.name, OK: err == nil}
			if err != nil {
				cr.Err = err.Error()
				allOK = false
			}
			out = append(out, cr)
		}
		status := http.StatusOK
		if !allOK {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]any{"checks": out})
	}
}
