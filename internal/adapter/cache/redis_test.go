package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ats-screener/internal/adapter/cache"
	"github.com/fairyhunter13/ats-screener/internal/domain"
)

type countingEmbedder struct{ calls int }

func (e *countingEmbedder) Embed(_ domain.Context, texts []string) ([][]float64, error) {
	e.calls++
	out := make([][]float64, len(texts))
	for i, t := range texts {
		out[i] = []float64{float64(len(t)), 1.0}
	}
	return out, nil
}

func setup(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestEmbedCache_HitSkipsBase(t *testing.T) {
	t.Parallel()
	_, rdb := setup(t)
	base := &countingEmbedder{}
	c := cache.NewEmbedCache(base, rdb, time.Hour)

	first, err := c.Embed(context.Background(), []string{"go", "python"})
	require.NoError(t, err)
	require.Equal(t, 1, base.calls)

	second, err := c.Embed(context.Background(), []string{"go", "python"})
	require.NoError(t, err)
	assert.Equal(t, 1, base.calls, "all hits, base must not be called again")
	assert.Equal(t, first, second)
}

func TestEmbedCache_PartialMissPreservesOrder(t *testing.T) {
	t.Parallel()
	_, rdb := setup(t)
	base := &countingEmbedder{}
	c := cache.NewEmbedCache(base, rdb, time.Hour)

	_, err := c.Embed(context.Background(), []string{"cached"})
	require.NoError(t, err)

	vecs, err := c.Embed(context.Background(), []string{"new-one", "cached", "new-two"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, []float64{7, 1}, vecs[0])
	assert.Equal(t, []float64{6, 1}, vecs[1])
	assert.Equal(t, []float64{7, 1}, vecs[2])
	assert.Equal(t, 2, base.calls)
}

func TestEmbedCache_ExpiryRefetches(t *testing.T) {
	t.Parallel()
	mr, rdb := setup(t)
	base := &countingEmbedder{}
	c := cache.NewEmbedCache(base, rdb, time.Minute)

	_, err := c.Embed(context.Background(), []string{"x"})
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, err = c.Embed(context.Background(), []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, 2, base.calls)
}

func TestNewEmbedCache_NilClientPassesThrough(t *testing.T) {
	t.Parallel()
	base := &countingEmbedder{}
	c := cache.NewEmbedCache(base, nil, time.Hour)
	assert.Equal(t, domain.Embedder(base), c)
}
