package scoring_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
	"github.com/fairyhunter13/resume-ranker/internal/ml"
	"github.com/fairyhunter13/resume-ranker/internal/scoring"
)

// memStore is an in-memory ModelStore fake that counts lookups.
type memStore struct {
	blobs     map[string][]byte
	order     []string
	listCalls int
	listErr   error
}

func (s *memStore) List(_ domain.Context, _ string) ([]string, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]string(nil), s.order...), nil
}

func (s *memStore) Newest(_ domain.Context, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", domain.ErrNotFound
	}
	return paths[len(paths)-1], nil
}

func (s *memStore) Load(_ domain.Context, path string) ([]byte, error) {
	b, ok := s.blobs[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (s *memStore) Save(_ domain.Context, name string, blob []byte) (string, error) {
	if s.blobs == nil {
		s.blobs = map[string][]byte{}
	}
	s.blobs[name] = blob
	s.order = append(s.order, name)
	return name, nil
}

func trainedPipeline(t *testing.T) *ml.Pipeline {
	t.Helper()
	vectors := make([]domain.FeatureVector, 0, 40)
	labels := make([]int, 0, 40)
	for i := 0; i < 40; i++ {
		sim := 0.2
		label := 0
		if i%2 == 0 {
			sim = 0.8
			label = 1
		}
		vectors = append(vectors, domain.FeatureVector{
			domain.FeatureOverallSimilarity:    sim,
			domain.FeatureExperienceSimilarity: sim,
			domain.FeatureSkillsSimilarity:     sim,
			domain.FeatureAccomplishmentScore:  float64(i % 10),
			domain.FeatureReadabilityScore:     50,
		})
		labels = append(labels, label)
	}
	f := ml.BuildFrame(vectors)
	return ml.FitPipeline(f, labels, ml.GBTParams{Trees: 10, MaxDepth: 3, LearningRate: 0.1})
}

func fullVector(sim float64) domain.FeatureVector {
	return domain.FeatureVector{
		domain.FeatureOverallSimilarity:    sim,
		domain.FeatureExperienceSimilarity: sim,
		domain.FeatureSkillsSimilarity:     sim,
		domain.FeatureAccomplishmentScore:  5,
		domain.FeatureReadabilityScore:     50,
	}
}

func TestPredict_EmptyStoreMatchesHeuristicExactly(t *testing.T) {
	t.Parallel()
	e := scoring.NewEngine(&memStore{})
	fv := domain.FeatureVector{
		domain.FeatureOverallSimilarity:    0.5,
		domain.FeatureExperienceSimilarity: 0.4,
		domain.FeatureSkillsSimilarity:     0.3,
		domain.FeatureAccomplishmentScore:  6,
	}
	got := e.Predict(context.Background(), fv)
	// 0.5*0.4 + 0.4*0.3 + 0.3*0.2 + (6/10)*0.1 = 0.44
	assert.Equal(t, 0.44, got)
	assert.Equal(t, scoring.Heuristic(fv), got)
	assert.False(t, e.ModelLoaded(context.Background()))
}

func TestPredict_LookupHappensOnce(t *testing.T) {
	t.Parallel()
	store := &memStore{listErr: errors.New("store down")}
	e := scoring.NewEngine(store)
	_ = e.Predict(context.Background(), fullVector(0.5))
	_ = e.Predict(context.Background(), fullVector(0.6))
	_ = e.Predict(context.Background(), fullVector(0.7))
	assert.Equal(t, 1, store.listCalls)
}

func TestPredict_UsesTrainedModel(t *testing.T) {
	t.Parallel()
	p := trainedPipeline(t)
	blob, err := p.Marshal()
	require.NoError(t, err)

	store := &memStore{}
	_, err = store.Save(context.Background(), "ranking_model_20240101_000000_auc_0.90.json", blob)
	require.NoError(t, err)

	e := scoring.NewEngine(store)
	require.True(t, e.ModelLoaded(context.Background()))

	high := e.Predict(context.Background(), fullVector(0.8))
	low := e.Predict(context.Background(), fullVector(0.2))
	assert.Greater(t, high, low)

	want, err := p.PredictProba(fullVector(0.8))
	require.NoError(t, err)
	assert.Equal(t, want, high)
}

func TestPredict_SchemaDriftFallsBackToHeuristic(t *testing.T) {
	t.Parallel()
	p := trainedPipeline(t)
	blob, err := p.Marshal()
	require.NoError(t, err)
	store := &memStore{}
	_, err = store.Save(context.Background(), "ranking_model_x.json", blob)
	require.NoError(t, err)

	e := scoring.NewEngine(store)
	drifted := domain.FeatureVector{domain.FeatureOverallSimilarity: 0.9}
	got := e.Predict(context.Background(), drifted)
	assert.Equal(t, scoring.Heuristic(drifted), got)
}

func TestPredict_CorruptArtifactFallsBackToHeuristic(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	_, err := store.Save(context.Background(), "ranking_model_bad.json", []byte("garbage"))
	require.NoError(t, err)

	e := scoring.NewEngine(store)
	fv := fullVector(0.5)
	assert.Equal(t, scoring.Heuristic(fv), e.Predict(context.Background(), fv))
	assert.False(t, e.ModelLoaded(context.Background()))
}

func TestHeuristic_MonotonicAndClamped(t *testing.T) {
	t.Parallel()
	base := fullVector(0.5)
	baseScore := scoring.Heuristic(base)

	raised := fullVector(0.5)
	raised[domain.FeatureOverallSimilarity] = 0.9
	assert.GreaterOrEqual(t, scoring.Heuristic(raised), baseScore)

	maxed := domain.FeatureVector{
		domain.FeatureOverallSimilarity:    1,
		domain.FeatureExperienceSimilarity: 1,
		domain.FeatureSkillsSimilarity:     1,
		domain.FeatureAccomplishmentScore:  48,
	}
	assert.Equal(t, 1.0, scoring.Heuristic(maxed))

	assert.Equal(t, 0.0, scoring.Heuristic(domain.FeatureVector{}))
}
