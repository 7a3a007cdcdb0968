// Package rediscache wraps a domain.Embedder with a Redis-backed vector cache
// so repeated texts (job descriptions, talent-pool resumes) skip the provider.
package rediscache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/resume-ranker/internal/adapter/observability"
	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

type cachedEmbedder struct {
	base  domain.Embedder
	rdb   *redis.Client
	model string
	ttl   time.Duration
}

// New wraps base with a Redis cache. If rdb is nil, base is returned
// unmodified. Cache failures are non-fatal; lookups fall through to base.
func New(base domain.Embedder, rdb *redis.Client, model string, ttl time.Duration) domain.Embedder {
	if rdb == nil || base == nil {
		return base
	}
	return &cachedEmbedder{base: base, rdb: rdb, model: model, ttl: ttl}
}

func (c *cachedEmbedder) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = c.keyFor(t)
	}

	res := make([][]float32, len(texts))
	missIdx := make([]int, 0)
	missTexts := make([]string, 0)

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		slog.Warn("embed cache lookup failed", slog.Any("error", err))
		vals = make([]any, len(keys))
	}
	for i, v := range vals {
		s, ok := v.(string)
		if ok {
			var vec []float32
			if err := json.Unmarshal([]byte(s), &vec); err == nil && len(vec) > 0 {
				observability.EmbedCacheHits.WithLabelValues("hit").Inc()
				res[i] = vec
				continue
			}
		}
		observability.EmbedCacheHits.WithLabelValues("miss").Inc()
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, texts[i])
	}

	if len(missIdx) > 0 {
		vecs, err := c.base.Embed(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		pipe := c.rdb.Pipeline()
		for j, idx := range missIdx {
			res[idx] = vecs[j]
			if b, err := json.Marshal(vecs[j]); err == nil {
				pipe.Set(ctx, keys[idx], b, c.ttl)
			}
		}
		if _, err := pipe.Exec(ctx); err != nil {
			slog.Warn("embed cache store failed", slog.Any("error", err))
		}
	}
	return res, nil
}

func (c *cachedEmbedder) keyFor(text string) string {
	h := sha256.Sum256([]byte(c.model + "|" + strings.TrimSpace(text)))
	return "embed:" + hex.EncodeToString(h[:])
}
