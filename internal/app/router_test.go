package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "github.com/fairyhunter13/resume-ranker/internal/adapter/httpserver"
	"github.com/fairyhunter13/resume-ranker/internal/app"
	"github.com/fairyhunter13/resume-ranker/internal/config"
	"github.com/fairyhunter13/resume-ranker/internal/usecase"
)

func TestParseOrigins(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: []string{"*"}},
		{name: "wildcard", in: "*", want: []string{"*"}},
		{name: "single", in: "https://app.example.com", want: []string{"https://app.example.com"}},
		{name: "multiple with spaces", in: " https://a.com , https://b.com ",
			want: []string{"https://a.com", "https://b.com"}},
		{name: "only commas", in: ",,,", want: []string{"*"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, app.ParseOrigins(tc.in))
		})
	}
}

func TestBuildRouter_HealthAndMetrics(t *testing.T) {
	t.Parallel()
	srv := httpserver.NewServer(config.Config{}, usecase.JobService{}, usecase.ApplyService{},
		usecase.RetrainService{}, nil, nil, nil)
	h := app.BuildRouter(config.Config{RateLimitPerMin: 60}, srv)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no-such-route", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubPingResult struct{ err error }

func (r stubPingResult) Err() error { return r.err }

type stubRedis struct{ err error }

func (s stubRedis) Ping(context.Context) app.RedisPingResult { return stubPingResult{err: s.err} }

func TestBuildReadinessChecks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("db required", func(t *testing.T) {
		t.Parallel()
		db, _, _ := app.BuildReadinessChecks(config.Config{}, nil, nil)
		require.Error(t, db(ctx))

		db, _, _ = app.BuildReadinessChecks(config.Config{}, stubPinger{}, nil)
		require.NoError(t, db(ctx))

		db, _, _ = app.BuildReadinessChecks(config.Config{}, stubPinger{err: errors.New("down")}, nil)
		require.Error(t, db(ctx))
	})

	t.Run("redis optional when unconfigured", func(t *testing.T) {
		t.Parallel()
		_, redis, _ := app.BuildReadinessChecks(config.Config{}, stubPinger{}, nil)
		require.NoError(t, redis(ctx))

		cfg := config.Config{RedisAddr: "localhost:6379"}
		_, redis, _ = app.BuildReadinessChecks(cfg, stubPinger{}, stubRedis{})
		require.NoError(t, redis(ctx))

		_, redis, _ = app.BuildReadinessChecks(cfg, stubPinger{}, stubRedis{err: errors.New("down")})
		require.Error(t, redis(ctx))
	})

	t.Run("tika checked only when configured", func(t *testing.T) {
		t.Parallel()
		_, _, tika := app.BuildReadinessChecks(config.Config{}, stubPinger{}, nil)
		require.NoError(t, tika(ctx))

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/version", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()
		_, _, tika = app.BuildReadinessChecks(config.Config{TikaURL: ts.URL}, stubPinger{}, nil)
		require.NoError(t, tika(ctx))
	})
}
