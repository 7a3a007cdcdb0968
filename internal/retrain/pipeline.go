// Package retrain implements the offline retraining pipeline: it turns
// accumulated recruiter decisions into a refreshed ranking model artifact.
// It runs out-of-band (worker or CLI), never in the request path.
package retrain

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
	"github.com/fairyhunter13/resume-ranker/internal/ml"
)

// Config tunes the pipeline. Zero values are replaced by defaults.
type Config struct {
	// MinLabeled is the minimum number of decided applications required
	// before training is attempted.
	MinLabeled int
	// HoldoutFraction of examples withheld from training for the final
	// unbiased evaluation.
	HoldoutFraction float64
	// Folds for cross-validated grid search on the training split.
	Folds int
	// Seed makes splits and shuffles reproducible.
	Seed int64
}

func (c Config) withDefaults() Config {
	if c.MinLabeled <= 0 {
		c.MinLabeled = 10
	}
	if c.HoldoutFraction <= 0 || c.HoldoutFraction >= 1 {
		c.HoldoutFraction = 0.2
	}
	if c.Folds <= 0 {
		c.Folds = 3
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	return c
}

// Outcome reports what a run did. Skipped outcomes are expected and
// non-fatal: they mean there was nothing useful to train on.
type Outcome struct {
	Skipped      bool
	Reason       string
	ArtifactPath string
	HoldoutAUC   float64
	TrainSize    int
	HoldoutSize  int
	Params       ml.GBTParams
}

// Pipeline gathers labeled outcomes, trains and tunes a classifier, and
// persists a versioned artifact to the model store.
type Pipeline struct {
	apps  domain.ApplicationRepository
	store domain.ModelStore
	cfg   Config
	now   func() time.Time
}

// New constructs a Pipeline.
func New(apps domain.ApplicationRepository, store domain.ModelStore, cfg Config) *Pipeline {
	return &Pipeline{apps: apps, store: store, cfg: cfg.withDefaults(), now: time.Now}
}

// Run executes one retraining pass. Data insufficiency returns a Skipped
// outcome with a reason, not an error; errors are reserved for broken
// infrastructure (repository or store failures).
func (p *Pipeline) Run(ctx domain.Context) (Outcome, error) {
	labeled, err := p.apps.ListLabeled(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("op=retrain.fetch_labeled: %w", err)
	}

	if len(labeled) < p.cfg.MinLabeled {
		reason := fmt.Sprintf("not enough labeled data: found %d, need at least %d", len(labeled), p.cfg.MinLabeled)
		slog.Info("retraining skipped", slog.String("reason", reason))
		return Outcome{Skipped: true, Reason: reason}, nil
	}

	vectors := make([]domain.FeatureVector, 0, len(labeled))
	labels := make([]int, 0, len(labeled))
	for _, app := range labeled {
		label, ok := app.Label()
		if !ok || len(app.FeatureScores) == 0 {
			continue
		}
		vectors = append(vectors, app.FeatureScores)
		labels = append(labels, label)
	}
	if len(vectors) < p.cfg.MinLabeled {
		reason := fmt.Sprintf("not enough usable examples after filtering: %d", len(vectors))
		slog.Info("retraining skipped", slog.String("reason", reason))
		return Outcome{Skipped: true, Reason: reason}, nil
	}

	frame := ml.BuildFrame(vectors)
	trainIdx, testIdx := ml.TrainTestSplit(labels, p.cfg.HoldoutFraction, p.cfg.Seed)
	slog.Info("retraining data split",
		slog.Int("train", len(trainIdx)),
		slog.Int("holdout", len(testIdx)),
		slog.Int("features", len(frame.Columns)))

	trainFrame := frame.Select(trainIdx)
	trainLabels := selectInts(labels, trainIdx)

	pipeline, search := ml.GridSearchCV(trainFrame, trainLabels, ml.DefaultParamGrid(), p.cfg.Folds, p.cfg.Seed)

	holdoutFrame := frame.Select(testIdx)
	holdoutLabels := selectInts(labels, testIdx)
	holdoutAUC := ml.ROCAUC(holdoutLabels, pipeline.PredictProbaRows(holdoutFrame.Rows))
	pipeline.HoldoutAUC = holdoutAUC

	blob, err := pipeline.Marshal()
	if err != nil {
		return Outcome{}, err
	}

	name := fmt.Sprintf("ranking_model_%s_auc_%.2f.json", p.now().UTC().Format("20060102_150405"), holdoutAUC)
	path, err := p.store.Save(ctx, name, blob)
	if err != nil {
		return Outcome{}, fmt.Errorf("op=retrain.persist: %w", err)
	}

	slog.Info("retraining complete",
		slog.String("artifact", path),
		slog.Float64("holdout_auc", holdoutAUC),
		slog.Float64("cv_auc", search.CVAUC))

	return Outcome{
		ArtifactPath: path,
		HoldoutAUC:   holdoutAUC,
		TrainSize:    len(trainIdx),
		HoldoutSize:  len(testIdx),
		Params:       search.Best,
	}, nil
}

func selectInts(v []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = v[j]
	}
	return out
}
