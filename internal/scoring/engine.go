// Package scoring produces the final match score for a feature vector,
// either through the most recently trained ranking model or, when none is
// available or usable, a fixed-weight heuristic.
package scoring

import (
	"log/slog"
	"math"
	"sync"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
	"github.com/fairyhunter13/resume-ranker/internal/ml"
)

// ArtifactPattern matches persisted ranking model artifacts in the store.
const ArtifactPattern = "ranking_model_*.json"

// Heuristic weights. The accomplishment divisor is a tunable bootstrap-era
// constant, not a validated invariant; revisit once enough labeled outcomes
// exist to measure it.
const (
	weightOverall        = 0.4
	weightExperience     = 0.3
	weightSkills         = 0.2
	weightAccomplishment = 0.1
	accomplishmentScale  = 10.0
)

// Engine scores feature vectors. The trained model artifact is discovered
// lazily on the first Predict call and cached for the process lifetime:
// workers never hot-swap models mid-flight, so different workers may briefly
// serve different versions after a retrain. That is accepted.
type Engine struct {
	store domain.ModelStore

	loadOnce sync.Once
	pipeline *ml.Pipeline // nil after loadOnce when no usable model exists
}

// NewEngine constructs an Engine over the given model store.
func NewEngine(store domain.ModelStore) *Engine {
	return &Engine{store: store}
}

// Predict returns the final match score in [0,1], rounded to four decimals.
// With a loaded model it is the model's probability of the positive class;
// otherwise, or on feature-schema drift, the heuristic. It never fails the
// request.
func (e *Engine) Predict(ctx domain.Context, features domain.FeatureVector) float64 {
	e.loadOnce.Do(func() { e.loadLatest(ctx) })

	if e.pipeline != nil {
		score, err := e.pipeline.PredictProba(features)
		if err == nil {
			return score
		}
		slog.Warn("model prediction failed, falling back to heuristic", slog.Any("error", err))
	}
	return Heuristic(features)
}

// ModelLoaded reports whether a trained model is active. It forces the lazy
// lookup if it has not happened yet.
func (e *Engine) ModelLoaded(ctx domain.Context) bool {
	e.loadOnce.Do(func() { e.loadLatest(ctx) })
	return e.pipeline != nil
}

// loadLatest performs the one-time discovery of the newest model artifact.
// Every failure path leaves the engine in heuristic mode; the lookup is
// never retried within the process.
func (e *Engine) loadLatest(ctx domain.Context) {
	paths, err := e.store.List(ctx, ArtifactPattern)
	if err != nil {
		slog.Warn("model store unavailable, using heuristic scoring", slog.Any("error", err))
		return
	}
	if len(paths) == 0 {
		slog.Info("no trained ranking model found, using heuristic scoring")
		return
	}
	newest, err := e.store.Newest(ctx, paths)
	if err != nil {
		slog.Warn("could not resolve newest model artifact", slog.Any("error", err))
		return
	}
	blob, err := e.store.Load(ctx, newest)
	if err != nil {
		slog.Error("could not load model artifact", slog.String("path", newest), slog.Any("error", err))
		return
	}
	pipeline, err := ml.UnmarshalPipeline(blob)
	if err != nil {
		slog.Error("model artifact corrupt, using heuristic scoring", slog.String("path", newest), slog.Any("error", err))
		return
	}
	e.pipeline = pipeline
	slog.Info("loaded trained ranking model",
		slog.String("path", newest),
		slog.Float64("holdout_auc", pipeline.HoldoutAUC),
		slog.Int("features", len(pipeline.FeatureNames)))
}

// Heuristic is the bootstrap scoring formula: a weighted sum of the three
// similarity features plus the accomplishment score scaled down by
// accomplishmentScale, clamped to [0,1] and rounded to four decimals.
// It is monotonic in each input.
func Heuristic(features domain.FeatureVector) float64 {
	score := features[domain.FeatureOverallSimilarity]*weightOverall +
		features[domain.FeatureExperienceSimilarity]*weightExperience +
		features[domain.FeatureSkillsSimilarity]*weightSkills +
		(features[domain.FeatureAccomplishmentScore]/accomplishmentScale)*weightAccomplishment

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return math.Round(score*10000) / 10000
}
