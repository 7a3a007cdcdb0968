// Command server starts the resume ranking HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/resume-ranker/internal/adapter/embed/openai"
	"github.com/fairyhunter13/resume-ranker/internal/adapter/embed/rediscache"
	httpserver "github.com/fairyhunter13/resume-ranker/internal/adapter/httpserver"
	fsstore "github.com/fairyhunter13/resume-ranker/internal/adapter/modelstore/fs"
	"github.com/fairyhunter13/resume-ranker/internal/adapter/observability"
	"github.com/fairyhunter13/resume-ranker/internal/adapter/queue/redpanda"
	"github.com/fairyhunter13/resume-ranker/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/resume-ranker/internal/adapter/textextractor"
	localext "github.com/fairyhunter13/resume-ranker/internal/adapter/textextractor/local"
	tikaext "github.com/fairyhunter13/resume-ranker/internal/adapter/textextractor/tika"
	"github.com/fairyhunter13/resume-ranker/internal/app"
	"github.com/fairyhunter13/resume-ranker/internal/config"
	"github.com/fairyhunter13/resume-ranker/internal/domain"
	"github.com/fairyhunter13/resume-ranker/internal/nlp"
	"github.com/fairyhunter13/resume-ranker/internal/scoring"
	"github.com/fairyhunter13/resume-ranker/internal/similarity"
	"github.com/fairyhunter13/resume-ranker/internal/usecase"
)

// redisAdapter narrows *redis.Client to the readiness check interface.
type redisAdapter struct{ *redis.Client }

func (r redisAdapter) Ping(ctx context.Context) app.RedisPingResult { return r.Client.Ping(ctx) }

func buildProcessor(cfg config.Config) *nlp.Processor {
	if cfg.SkillsVocabPath == "" {
		return nlp.NewProcessor()
	}
	return nlp.NewProcessor(nlp.WithSkillMatcher(nlp.NewSkillMatcherFromFile(cfg.SkillsVocabPath)))
}

func buildExtractor(cfg config.Config) domain.TextExtractor {
	var tika domain.TextExtractor
	if cfg.TikaURL != "" {
		tika = tikaext.New(cfg.TikaURL)
	}
	return textextractor.NewDispatcher(localext.New(), tika)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so /metrics exposes
	// HTTP, embedding and retraining instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Infra: DB pool plus idempotent schema migration.
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		slog.Error("db migrate failed", slog.Any("error", err))
		os.Exit(1)
	}

	// Repositories
	jobRepo := postgres.NewJobRepo(pool)
	resumeRepo := postgres.NewResumeRepo(pool)
	appRepo := postgres.NewApplicationRepo(pool)
	runRepo := postgres.NewRetrainRunRepo(pool)

	// Queue client (Redpanda producer)
	producer, err := redpanda.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		slog.Error("redpanda producer connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			slog.Error("failed to close queue client", slog.Any("error", err))
		}
	}()

	// Embedder with optional Redis cache in front of it.
	var embedder domain.Embedder = openai.New(cfg)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		embedder = rediscache.New(embedder, rdb, cfg.EmbeddingsModel, cfg.EmbedCacheTTL)
		slog.Info("embedding cache enabled", slog.String("redis_addr", cfg.RedisAddr))
	}

	processor := buildProcessor(cfg)
	extractor := buildExtractor(cfg)
	store := fsstore.New(cfg.ModelDir)

	// Usecases
	jobSvc := usecase.NewJobService(jobRepo, appRepo, processor)
	applySvc := usecase.NewApplyService(jobRepo, resumeRepo, appRepo, extractor, processor,
		similarity.New(embedder), scoring.NewEngine(store))
	retrainSvc := usecase.NewRetrainService(runRepo, producer)

	// Readiness checks
	var redisForChecks app.RedisClient
	if rdb != nil {
		redisForChecks = redisAdapter{rdb}
	}
	dbCheck, redisCheck, tikaCheck := app.BuildReadinessChecks(cfg, pool, redisForChecks)

	// HTTP server
	srv := httpserver.NewServer(cfg, jobSvc, applySvc, retrainSvc, dbCheck, redisCheck, tikaCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
