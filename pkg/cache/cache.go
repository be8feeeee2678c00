package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is a byte-oriented key/value store with per-entry expiry. Backends
// never invalidate explicitly; entries simply age out.
type Cache interface {
	// Get returns the stored value or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl. A ttl <= 0 uses the backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Pinger is implemented by backends that can report their own health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Noop is a Cache that stores nothing. Every Get is a miss.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }

// GetJSON reads key and decodes it into dst. It returns ErrMiss untouched so
// callers can tell a miss from a corrupt entry.
func GetJSON(ctx context.Context, c Cache, key string, dst any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode cached %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s for cache: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}
