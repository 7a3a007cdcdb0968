// Package similarity computes semantic similarity between job and resume
// texts via an embedding port, and assembles the per-pair feature vector
// consumed by scoring.
package similarity

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

// Engine embeds section texts and computes pairwise cosine similarity. The
// embedder is injected once at construction; wrap it with a cache to keep
// request latency down.
type Engine struct {
	embedder domain.Embedder
}

// New constructs an Engine over the given embedder.
func New(e domain.Embedder) *Engine {
	return &Engine{embedder: e}
}

// Similarity returns the cosine similarity of two texts in [0,1], rounded to
// four decimals. Either text empty yields 0.0 by definition, not an error.
func (e *Engine) Similarity(ctx domain.Context, a, b string) (float64, error) {
	if a == "" || b == "" {
		return 0.0, nil
	}
	vecs, err := e.embedder.Embed(ctx, []string{a, b})
	if err != nil {
		return 0, fmt.Errorf("op=similarity.embed: %w", err)
	}
	if len(vecs) != 2 {
		return 0, fmt.Errorf("op=similarity.embed: %w: got %d vectors", domain.ErrInternal, len(vecs))
	}
	sim := cosine(vecs[0], vecs[1])
	if sim < 0 {
		sim = 0
	}
	return math.Round(sim*10000) / 10000, nil
}

// GenerateFeatureVector builds the feature vector for a (job, resume) pair:
// three semantic similarities plus the resume's accomplishment and
// readability signals copied through. An embedding failure degrades the
// affected similarity to 0.0 and is logged; application submission must not
// fail on it.
func (e *Engine) GenerateFeatureVector(ctx domain.Context, job domain.Job, resume domain.Resume) domain.FeatureVector {
	jobExperience := job.Sections.SectionText(domain.SectionResponsibilities)
	if jobExperience == "" {
		jobExperience = job.Sections.SectionText(domain.SectionExperience)
	}

	return domain.FeatureVector{
		domain.FeatureOverallSimilarity:    e.similarityOrZero(ctx, "overall", job.Description, resume.ExtractedText),
		domain.FeatureExperienceSimilarity: e.similarityOrZero(ctx, "experience", jobExperience, resume.Sections.SectionText(domain.SectionExperience)),
		domain.FeatureSkillsSimilarity:     e.similarityOrZero(ctx, "skills", job.Sections.SectionText(domain.SectionSkills), resume.Sections.SectionText(domain.SectionSkills)),
		domain.FeatureAccomplishmentScore:  float64(resume.Sections.AccomplishmentScore),
		domain.FeatureReadabilityScore:     resume.Sections.ReadabilityScore,
	}
}

func (e *Engine) similarityOrZero(ctx domain.Context, pair, a, b string) float64 {
	sim, err := e.Similarity(ctx, a, b)
	if err != nil {
		slog.Warn("similarity degraded to zero", slog.String("pair", pair), slog.Any("error", err))
		return 0.0
	}
	return sim
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
