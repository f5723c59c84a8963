// Package cache provides a Redis-backed embedding cache. Embeddings are the
// only thing cached: they are deterministic per text, so caching never
// changes scoring outcomes, only collaborator call volume.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/ats-screener/internal/domain"
)

const keyPrefix = "emb:"

// EmbedCache wraps a domain.Embedder and caches vectors by text hash.
// Cache failures are absorbed: a broken Redis degrades to pass-through.
type EmbedCache struct {
	base domain.Embedder
	rdb  *redis.Client
	ttl  time.Duration
}

// NewEmbedCache wraps base with a Redis cache. If rdb is nil the base
// embedder is returned unwrapped.
func NewEmbedCache(base domain.Embedder, rdb *redis.Client, ttl time.Duration) domain.Embedder {
	if rdb == nil || base == nil {
		return base
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &EmbedCache{base: base, rdb: rdb, ttl: ttl}
}

// Embed returns cached vectors where present and fetches only the misses
// from the base embedder, preserving input order.
func (c *EmbedCache) Embed(ctx domain.Context, texts []string) ([][]float64, error) {
	res := make([][]float64, len(texts))
	missIdx := make([]int, 0)
	missTexts := make([]string, 0)
	for i, t := range texts {
		if vec, ok := c.get(ctx, t); ok {
			res[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	if len(missIdx) == 0 {
		return res, nil
	}
	vecs, err := c.base.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	for j, idx := range missIdx {
		res[idx] = vecs[j]
		c.put(ctx, missTexts[j], vecs[j])
	}
	return res, nil
}

func (c *EmbedCache) get(ctx domain.Context, text string) ([]float64, bool) {
	b, err := c.rdb.Get(ctx, keyFor(text)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("embed cache get failed", slog.Any("error", err))
		}
		return nil, false
	}
	var vec []float64
	if err := json.Unmarshal(b, &vec); err != nil {
		return nil, false
	}
	return vec, true
}

func (c *EmbedCache) put(ctx domain.Context, text string, vec []float64) {
	b, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, keyFor(text), b, c.ttl).Err(); err != nil {
		slog.Debug("embed cache put failed", slog.Any("error", err))
	}
}

func keyFor(text string) string {
	h := sha256.Sum256([]byte(text))
	return keyPrefix + hex.EncodeToString(h[:])
}
