package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

// Pipeline couples the fitted scaler and classifier with the exact feature
// schema they were trained on. It is the unit of persistence: one serialized
// Pipeline is one model artifact.
type Pipeline struct {
	FeatureNames []string        `json:"feature_names"`
	Scaler       *StandardScaler `json:"scaler"`
	Model        *GBTClassifier  `json:"model"`
	TrainedAt    time.Time       `json:"trained_at"`
	HoldoutAUC   float64         `json:"holdout_auc"`
}

// FitPipeline standardizes the numeric columns of the frame and trains a
// classifier on the result.
func FitPipeline(f Frame, y []int, params GBTParams) *Pipeline {
	scaler := FitScaler(f, NumericColumns(f.Columns))
	scaled := scaler.Transform(f)
	return &Pipeline{
		FeatureNames: f.Columns,
		Scaler:       scaler,
		Model:        FitGBT(scaled.Rows, y, params),
		TrainedAt:    time.Now().UTC(),
	}
}

// PredictProba scores a feature vector, assembling the row in the trained
// column order. A vector missing any trained feature fails with
// domain.ErrSchemaMismatch so callers can fall back to the heuristic.
func (p *Pipeline) PredictProba(features domain.FeatureVector) (float64, error) {
	frame := Frame{Columns: p.FeatureNames}
	row, err := frame.Row(features)
	if err != nil {
		return 0, err
	}
	prob := p.Model.PredictProba(p.Scaler.TransformRow(row))
	return math.Round(prob*10000) / 10000, nil
}

// PredictProbaRows scores pre-built rows already in trained column order.
func (p *Pipeline) PredictProbaRows(rows [][]float64) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = p.Model.PredictProba(p.Scaler.TransformRow(row))
	}
	return out
}

// Marshal serializes the pipeline for the model store.
func (p *Pipeline) Marshal() ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("op=pipeline.marshal: %w", err)
	}
	return b, nil
}

// UnmarshalPipeline restores a pipeline from a stored artifact.
func UnmarshalPipeline(b []byte) (*Pipeline, error) {
	var p Pipeline
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("op=pipeline.unmarshal: %w", err)
	}
	if len(p.FeatureNames) == 0 || p.Model == nil || p.Scaler == nil {
		return nil, fmt.Errorf("op=pipeline.unmarshal: %w: incomplete artifact", domain.ErrInvalidArgument)
	}
	return &p, nil
}
