package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	EmbedRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embed_requests_total",
			Help: "Total number of embedding provider requests",
		},
		[]string{"provider", "outcome"},
	)
	EmbedRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embed_request_duration_seconds",
			Help:    "Embedding request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"provider"},
	)
	EmbedCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embed_cache_total",
			Help: "Embedding cache lookups by result",
		},
		[]string{"result"},
	)

	ExtractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "text_extractions_total",
			Help: "Total text extractions by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	ApplicationsScoredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applications_scored_total",
			Help: "Applications scored, by scoring mode (model or heuristic)",
		},
		[]string{"mode"},
	)
	FinalScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "application_final_score",
			Help:    "Distribution of final match scores [0,1]",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	RetrainRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retrain_runs_total",
			Help: "Retraining runs by outcome",
		},
		[]string{"outcome"},
	)
	RetrainDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "retrain_duration_seconds",
			Help:    "Wall time of retraining runs",
			Buckets: []float64{1, 5, 15, 60, 300, 900},
		},
	)
	RetrainHoldoutAUC = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "retrain_holdout_auc",
			Help: "Holdout ROC-AUC of the most recent completed retraining run",
		},
	)

	JobsEnqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobs_enqueued_total",
			Help: "Total number of queue tasks enqueued",
		},
		[]string{"type"},
	)
)

var registerOnce sync.Once

// InitMetrics registers all collectors with the default registry. Safe to
// call from every binary; registration happens once per process.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			EmbedRequestsTotal,
			EmbedRequestDuration,
			EmbedCacheHits,
			ExtractionsTotal,
			ApplicationsScoredTotal,
			FinalScoreHistogram,
			RetrainRunsTotal,
			RetrainDuration,
			RetrainHoldoutAUC,
			JobsEnqueuedTotal,
		)
	})
}
