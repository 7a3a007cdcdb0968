package ml

import "log/slog"

// ParamGrid is the hyperparameter search space for grid search.
type ParamGrid struct {
	Trees         []int
	MaxDepths     []int
	LearningRates []float64
}

// DefaultParamGrid mirrors the tuning grid the ranking model has always been
// trained with: a small space that keeps offline runs cheap.
func DefaultParamGrid() ParamGrid {
	return ParamGrid{
		Trees:         []int{50, 100},
		MaxDepths:     []int{3, 5},
		LearningRates: []float64{0.05, 0.1},
	}
}

// GridSearchResult reports the winning configuration of a search.
type GridSearchResult struct {
	Best   GBTParams
	CVAUC  float64
	Folds  int
	Tested int
}

// GridSearchCV evaluates every parameter combination with k-fold
// cross-validated ROC-AUC over the training frame only, then refits the best
// configuration on the full training data. The returned pipeline has not
// seen any holdout rows.
func GridSearchCV(f Frame, y []int, grid ParamGrid, folds int, seed int64) (*Pipeline, GridSearchResult) {
	kf := KFold(y, folds, seed)

	result := GridSearchResult{CVAUC: -1, Folds: len(kf)}
	for _, trees := range grid.Trees {
		for _, depth := range grid.MaxDepths {
			for _, rate := range grid.LearningRates {
				params := GBTParams{Trees: trees, MaxDepth: depth, LearningRate: rate}
				auc := crossValAUC(f, y, params, kf)
				result.Tested++
				if auc > result.CVAUC {
					result.CVAUC = auc
					result.Best = params
				}
			}
		}
	}

	slog.Info("grid search finished",
		slog.Int("combinations", result.Tested),
		slog.Int("folds", result.Folds),
		slog.Float64("cv_auc", result.CVAUC),
		slog.Int("trees", result.Best.Trees),
		slog.Int("max_depth", result.Best.MaxDepth),
		slog.Float64("learning_rate", result.Best.LearningRate))

	return FitPipeline(f, y, result.Best), result
}

func crossValAUC(f Frame, y []int, params GBTParams, folds [][2][]int) float64 {
	total := 0.0
	n := 0
	for _, fold := range folds {
		trainIdx, validIdx := fold[0], fold[1]
		if len(trainIdx) == 0 || len(validIdx) == 0 {
			continue
		}
		p := FitPipeline(f.Select(trainIdx), selectLabels(y, trainIdx), params)
		scores := p.PredictProbaRows(f.Select(validIdx).Rows)
		total += ROCAUC(selectLabels(y, validIdx), scores)
		n++
	}
	if n == 0 {
		return 0.5
	}
	return total / float64(n)
}
