package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "p_slug_bogota", []byte(`{"id":1}`), 0))

	data, err := c.Get(ctx, "p_slug_bogota")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(data))
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_Miss(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	_, err := c.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", []byte("x"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCache_CopiesValues(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", value, 0))
	value[0] = 'z'

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, _ := c.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestNoop_AlwaysMisses(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestJSONHelpers(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	ctx := context.Background()

	type payload struct {
		ID   int64  `json:"id"`
		Slug string `json:"slug"`
	}

	require.NoError(t, SetJSON(ctx, c, "k", payload{ID: 7, Slug: "armenia"}, 0))

	var got payload
	require.NoError(t, GetJSON(ctx, c, "k", &got))
	assert.Equal(t, payload{ID: 7, Slug: "armenia"}, got)

	assert.ErrorIs(t, GetJSON(ctx, c, "missing", &got), ErrMiss)

	require.NoError(t, c.Set(ctx, "corrupt", []byte("{not json"), 0))
	err := GetJSON(ctx, c, "corrupt", &got)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestInstrumented_CountsResults(t *testing.T) {
	ctx := context.Background()
	mem := NewInstrumented(NewMemoryCache(time.Minute, time.Minute), "test-memory")

	hits := testutil.ToFloat64(cacheRequestsTotal.WithLabelValues("test-memory", "hit"))
	misses := testutil.ToFloat64(cacheRequestsTotal.WithLabelValues("test-memory", "miss"))

	_, _ = mem.Get(ctx, "k")
	require.NoError(t, mem.Set(ctx, "k", []byte("v"), 0))
	_, _ = mem.Get(ctx, "k")

	assert.Equal(t, hits+1, testutil.ToFloat64(cacheRequestsTotal.WithLabelValues("test-memory", "hit")))
	assert.Equal(t, misses+1, testutil.ToFloat64(cacheRequestsTotal.WithLabelValues("test-memory", "miss")))
	assert.NoError(t, mem.Ping(ctx))

	broken := NewInstrumented(failingCache{}, "test-broken")
	_, err := broken.Get(ctx, "k")
	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(cacheRequestsTotal.WithLabelValues("test-broken", "error")))
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "redis.internal", Port: 6380}
	assert.Equal(t, "redis.internal:6380", cfg.Addr())
}

func TestRedisCache_KeyPrefix(t *testing.T) {
	r := NewRedisCacheWithClient(nil, "catalog:", time.Hour)
	assert.Equal(t, "catalog:p_slug_bogota", r.key("p_slug_bogota"))
}
