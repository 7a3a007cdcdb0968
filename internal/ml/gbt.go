package ml

import (
	"math"
)

// GBTParams are the tunable hyperparameters of the boosted classifier.
type GBTParams struct {
	Trees        int     `json:"trees"`
	MaxDepth     int     `json:"max_depth"`
	LearningRate float64 `json:"learning_rate"`
}

// GBTClassifier is a gradient-boosted binary classifier trained on logistic
// loss. Prediction is fully deterministic: a fixed base score plus the sum of
// learned tree outputs, squashed through the logistic function.
type GBTClassifier struct {
	Params    GBTParams   `json:"params"`
	BaseScore float64     `json:"base_score"`
	Stages    []*TreeNode `json:"stages"`
}

// FitGBT trains a classifier on the rows and 0/1 labels.
func FitGBT(rows [][]float64, y []int, params GBTParams) *GBTClassifier {
	n := len(rows)
	model := &GBTClassifier{Params: params}

	// Base score: log-odds of the positive class, clamped away from the
	// degenerate single-class extremes.
	pos := 0
	for _, label := range y {
		pos += label
	}
	prior := (float64(pos) + 0.5) / (float64(n) + 1.0)
	model.BaseScore = math.Log(prior / (1 - prior))

	margins := make([]float64, n)
	for i := range margins {
		margins[i] = model.BaseScore
	}

	residuals := make([]float64, n)
	hessians := make([]float64, n)
	for t := 0; t < params.Trees; t++ {
		for i := 0; i < n; i++ {
			p := sigmoid(margins[i])
			residuals[i] = float64(y[i]) - p
			hessians[i] = p * (1 - p)
		}
		tree := fitTree(rows, residuals, hessians, params.MaxDepth)
		model.Stages = append(model.Stages, tree)
		for i := 0; i < n; i++ {
			margins[i] += params.LearningRate * tree.Predict(rows[i])
		}
	}
	return model
}

// PredictProba returns the probability of the positive class for one row.
func (m *GBTClassifier) PredictProba(row []float64) float64 {
	margin := m.BaseScore
	for _, tree := range m.Stages {
		margin += m.Params.LearningRate * tree.Predict(row)
	}
	return sigmoid(margin)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
