package ml_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
	"github.com/fairyhunter13/resume-ranker/internal/ml"
)

func TestBuildFrame_UnionSchemaSorted(t *testing.T) {
	t.Parallel()
	vectors := []domain.FeatureVector{
		{"overall_similarity": 0.5, "skills_similarity": 0.2},
		{"overall_similarity": 0.7, "readability_score": 60},
	}
	f := ml.BuildFrame(vectors)
	assert.Equal(t, []string{"overall_similarity", "readability_score", "skills_similarity"}, f.Columns)
	require.Len(t, f.Rows, 2)
	// Missing keys contribute zero.
	assert.Equal(t, []float64{0.5, 0, 0.2}, f.Rows[0])
	assert.Equal(t, []float64{0.7, 60, 0}, f.Rows[1])
}

func TestFrameRow_SchemaMismatch(t *testing.T) {
	t.Parallel()
	f := ml.Frame{Columns: []string{"overall_similarity", "skills_similarity"}}
	_, err := f.Row(domain.FeatureVector{"overall_similarity": 0.4})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestNumericColumns(t *testing.T) {
	t.Parallel()
	flags := ml.NumericColumns([]string{
		"overall_similarity", "accomplishment_score", "readability_score", "education_rank",
	})
	assert.Equal(t, []bool{true, true, true, false}, flags)
}

func TestStandardScaler(t *testing.T) {
	t.Parallel()
	f := ml.Frame{
		Columns: []string{"a", "b"},
		Rows:    [][]float64{{1, 10}, {3, 20}},
	}
	s := ml.FitScaler(f, []bool{true, false})
	out := s.Transform(f)
	assert.InDelta(t, -1, out.Rows[0][0], 1e-9)
	assert.InDelta(t, 1, out.Rows[1][0], 1e-9)
	// Passthrough column untouched.
	assert.Equal(t, 10.0, out.Rows[0][1])
	assert.Equal(t, 20.0, out.Rows[1][1])
}

func TestROCAUC(t *testing.T) {
	t.Parallel()
	// Perfect ranking.
	assert.InDelta(t, 1.0, ml.ROCAUC([]int{0, 0, 1, 1}, []float64{0.1, 0.2, 0.8, 0.9}), 1e-9)
	// Inverted ranking.
	assert.InDelta(t, 0.0, ml.ROCAUC([]int{0, 0, 1, 1}, []float64{0.9, 0.8, 0.2, 0.1}), 1e-9)
	// All scores tied: no information.
	assert.InDelta(t, 0.5, ml.ROCAUC([]int{0, 1, 0, 1}, []float64{0.5, 0.5, 0.5, 0.5}), 1e-9)
	// Single class: conventional 0.5.
	assert.InDelta(t, 0.5, ml.ROCAUC([]int{1, 1}, []float64{0.2, 0.9}), 1e-9)
}

func TestTrainTestSplit_Stratified(t *testing.T) {
	t.Parallel()
	y := make([]int, 100)
	for i := 20; i < 100; i++ {
		y[i] = 1
	}
	train, test := ml.TrainTestSplit(y, 0.2, 42)
	assert.Len(t, test, 20)
	assert.Len(t, train, 80)

	testPos := 0
	for _, i := range test {
		testPos += y[i]
	}
	// 80% positives overall; the stratified test side keeps the ratio.
	assert.Equal(t, 16, testPos)
}

func TestTrainTestSplit_SingleClassFallsBack(t *testing.T) {
	t.Parallel()
	y := []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	train, test := ml.TrainTestSplit(y, 0.2, 1)
	assert.Len(t, test, 2)
	assert.Len(t, train, 8)
}

func TestTrainTestSplit_Deterministic(t *testing.T) {
	t.Parallel()
	y := []int{0, 1, 0, 1, 0, 1, 0, 1, 0, 1}
	train1, test1 := ml.TrainTestSplit(y, 0.2, 7)
	train2, test2 := ml.TrainTestSplit(y, 0.2, 7)
	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)
}

func TestKFold_CoversAllIndicesOnce(t *testing.T) {
	t.Parallel()
	y := []int{0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 0, 1}
	folds := ml.KFold(y, 3, 42)
	require.Len(t, folds, 3)
	seen := map[int]int{}
	for _, fold := range folds {
		for _, i := range fold[1] {
			seen[i]++
		}
	}
	assert.Len(t, seen, len(y))
	for i, count := range seen {
		assert.Equal(t, 1, count, "index %d", i)
	}
}

// syntheticData builds a linearly separable-ish binary problem.
func syntheticData(n int, seed int64) (ml.Frame, []int) {
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	y := make([]int, n)
	for i := 0; i < n; i++ {
		label := i % 2
		base := 0.2
		if label == 1 {
			base = 0.7
		}
		rows[i] = []float64{
			base + rng.Float64()*0.2,
			base + rng.Float64()*0.3,
			rng.Float64(), // noise feature
		}
		y[i] = label
	}
	return ml.Frame{Columns: []string{"overall_similarity", "skills_similarity", "noise"}, Rows: rows}, y
}

func TestFitGBT_LearnsSeparableData(t *testing.T) {
	t.Parallel()
	f, y := syntheticData(120, 3)
	p := ml.FitPipeline(f, y, ml.GBTParams{Trees: 30, MaxDepth: 3, LearningRate: 0.1})
	scores := p.PredictProbaRows(f.Rows)
	assert.Greater(t, ml.ROCAUC(y, scores), 0.95)
}

func TestPipeline_PredictDeterministic(t *testing.T) {
	t.Parallel()
	f, y := syntheticData(60, 9)
	p := ml.FitPipeline(f, y, ml.GBTParams{Trees: 10, MaxDepth: 3, LearningRate: 0.1})
	v := domain.FeatureVector{"overall_similarity": 0.6, "skills_similarity": 0.5, "noise": 0.1}
	a, err := p.PredictProba(v)
	require.NoError(t, err)
	b, err := p.PredictProba(v)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, a, 0.0)
	assert.LessOrEqual(t, a, 1.0)
}

func TestPipeline_MarshalRoundTrip(t *testing.T) {
	t.Parallel()
	f, y := syntheticData(60, 11)
	p := ml.FitPipeline(f, y, ml.GBTParams{Trees: 5, MaxDepth: 2, LearningRate: 0.1})

	blob, err := p.Marshal()
	require.NoError(t, err)
	restored, err := ml.UnmarshalPipeline(blob)
	require.NoError(t, err)

	v := domain.FeatureVector{"overall_similarity": 0.4, "skills_similarity": 0.3, "noise": 0.9}
	want, err := p.PredictProba(v)
	require.NoError(t, err)
	got, err := restored.PredictProba(v)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestUnmarshalPipeline_Corrupt(t *testing.T) {
	t.Parallel()
	_, err := ml.UnmarshalPipeline([]byte("not json"))
	assert.Error(t, err)
	_, err = ml.UnmarshalPipeline([]byte("{}"))
	assert.Error(t, err)
}

func TestGridSearchCV_PicksAConfiguration(t *testing.T) {
	t.Parallel()
	f, y := syntheticData(80, 21)
	p, res := ml.GridSearchCV(f, y, ml.ParamGrid{
		Trees:         []int{10, 20},
		MaxDepths:     []int{2, 3},
		LearningRates: []float64{0.1},
	}, 3, 42)
	require.NotNil(t, p)
	assert.Equal(t, 4, res.Tested)
	assert.Greater(t, res.CVAUC, 0.5)
	assert.Contains(t, []int{10, 20}, res.Best.Trees)
}
