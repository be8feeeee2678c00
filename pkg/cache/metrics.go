package cache

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_cache_requests_total",
		Help: "Cache lookups by backend and result (hit, miss, error)",
	},
	[]string{"backend", "result"},
)

// Instrumented records hit/miss/error counts for the wrapped cache.
type Instrumented struct {
	next    Cache
	backend string
}

// NewInstrumented wraps c, labelling its metrics with backend.
func NewInstrumented(c Cache, backend string) *Instrumented {
	return &Instrumented{next: c, backend: backend}
}

func (i *Instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := i.next.Get(ctx, key)
	switch {
	case err == nil:
		cacheRequestsTotal.WithLabelValues(i.backend, "hit").Inc()
	case errors.Is(err, ErrMiss):
		cacheRequestsTotal.WithLabelValues(i.backend, "miss").Inc()
	default:
		cacheRequestsTotal.WithLabelValues(i.backend, "error").Inc()
	}
	return data, err
}

func (i *Instrumented) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return i.next.Set(ctx, key, value, ttl)
}

// Ping delegates to the wrapped backend when it supports health checks.
func (i *Instrumented) Ping(ctx context.Context) error {
	if p, ok := i.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
