// Package openai implements domain.Embedder against an OpenAI-compatible
// embeddings endpoint.
package openai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fairyhunter13/resume-ranker/internal/adapter/observability"
	"github.com/fairyhunter13/resume-ranker/internal/config"
	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

// Client calls POST {base}/embeddings with retry semantics: 429 and 5xx are
// retried with exponential backoff, other 4xx are permanent failures.
type Client struct {
	cfg config.Config
	hc  *http.Client
}

// New constructs a Client with a timeout suited to embedding latency.
// Outbound calls are traced so embedding latency shows up in request spans.
func New(cfg config.Config) *Client {
	transport := otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "embeddings " + r.URL.Host
		}))
	return &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: 30 * time.Second, Transport: transport},
	}
}

// Embed returns one vector per input text, in input order.
func (c *Client) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if c.cfg.OpenAIAPIKey == "" || c.cfg.EmbeddingsModel == "" {
		slog.Error("embeddings provider not configured",
			slog.Bool("has_api_key", c.cfg.OpenAIAPIKey != ""),
			slog.String("model", c.cfg.EmbeddingsModel))
		return nil, fmt.Errorf("%w: OPENAI_API_KEY or EMBEDDINGS_MODEL missing", domain.ErrInvalidArgument)
	}

	body, _ := json.Marshal(map[string]any{
		"model": c.cfg.EmbeddingsModel,
		"input": texts,
	})
	var out struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}

	op := func() error {
		start := time.Now()
		// Recreate the request each attempt to avoid reusing consumed bodies.
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenAIBaseURL+"/embeddings", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIAPIKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.hc.Do(req)
		observability.EmbedRequestDuration.WithLabelValues("openai").Observe(time.Since(start).Seconds())
		if err != nil {
			observability.EmbedRequestsTotal.WithLabelValues("openai", "transport_error").Inc()
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			observability.EmbedRequestsTotal.WithLabelValues("openai", "rate_limited").Inc()
			slog.Warn("embeddings provider rate limited", slog.Int("status", resp.StatusCode))
			return fmt.Errorf("rate limited: 429")
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			observability.EmbedRequestsTotal.WithLabelValues("openai", "client_error").Inc()
			slog.Warn("embeddings provider 4xx",
				slog.Int("status", resp.StatusCode),
				slog.String("body", readSnippet(resp.Body, 512)))
			return backoff.Permanent(fmt.Errorf("embed status %d", resp.StatusCode))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			observability.EmbedRequestsTotal.WithLabelValues("openai", "server_error").Inc()
			slog.Error("embeddings provider non-2xx",
				slog.Int("status", resp.StatusCode),
				slog.String("body", readSnippet(resp.Body, 512)))
			return fmt.Errorf("embed status %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			observability.EmbedRequestsTotal.WithLabelValues("openai", "decode_error").Inc()
			return backoff.Permanent(err)
		}
		observability.EmbedRequestsTotal.WithLabelValues("openai", "ok").Inc()
		return nil
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.cfg.AIBackoffInitialInterval
	expo.MaxInterval = c.cfg.AIBackoffMaxInterval
	expo.Multiplier = c.cfg.AIBackoffMultiplier
	expo.MaxElapsedTime = c.cfg.AIBackoffMaxElapsedTime

	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		return nil, fmt.Errorf("op=embed.openai: %w", err)
	}
	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("op=embed.openai: %w: got %d vectors for %d texts", domain.ErrInternal, len(out.Data), len(texts))
	}

	vecs := make([][]float32, len(out.Data))
	for i, d := range out.Data {
		vecs[i] = d.Embedding
	}
	return vecs, nil
}

func readSnippet(r io.Reader, n int64) string {
	b, _ := io.ReadAll(io.LimitReader(r, n))
	return string(b)
}
