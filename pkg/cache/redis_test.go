package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T, defaultTTL time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCacheWithClient(client, "catalog:", defaultTTL), mr
}

func hostPort(t *testing.T, mr *miniredis.Miniredis) (string, int) {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return mr.Host(), port
}

func TestRedisCache_GetMiss(t *testing.T) {
	c, _ := setupTestRedis(t, time.Hour)

	_, err := c.Get(context.Background(), "products:slug=ghost")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisCache_SetGet(t *testing.T) {
	c, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "products:slug=bogota", []byte(`[{"id":501}]`), 10*time.Minute))

	got, err := c.Get(ctx, "products:slug=bogota")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":501}]`), got)

	stored, err := mr.Get("catalog:products:slug=bogota")
	require.NoError(t, err, "key is stored under the prefix")
	assert.Equal(t, `[{"id":501}]`, stored)
	assert.Equal(t, 10*time.Minute, mr.TTL("catalog:products:slug=bogota"))
}

func TestRedisCache_DefaultTTL(t *testing.T) {
	c, mr := setupTestRedis(t, time.Hour)

	require.NoError(t, c.Set(context.Background(), "reviews", []byte("[]"), 0))
	assert.Equal(t, time.Hour, mr.TTL("catalog:reviews"))
}

func TestRedisCache_Expiry(t *testing.T) {
	c, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "look", []byte(`{"id":12}`), time.Minute))
	mr.FastForward(59 * time.Second)
	_, err := c.Get(ctx, "look")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	_, err = c.Get(ctx, "look")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisCache_ServerDown(t *testing.T) {
	c, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()

	assert.NoError(t, c.Ping(ctx))
	mr.Close()

	_, err := c.Get(ctx, "products:slug=bogota")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
	assert.Error(t, c.Set(ctx, "products:slug=bogota", []byte("[]"), time.Minute))
	assert.Error(t, c.Ping(ctx))
}

func TestNewRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := hostPort(t, mr)

	c, err := NewRedisCache(context.Background(), RedisConfig{Host: host, Port: port, KeyPrefix: "catalog:"}, time.Hour)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 0))
	assert.True(t, mr.Exists("catalog:k"))
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := hostPort(t, mr)
	mr.Close()

	_, err := NewRedisCache(context.Background(), RedisConfig{Host: host, Port: port}, time.Hour)
	assert.Error(t, err)
}
