package woocommerce

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Requests sent to the commerce platform by operation and status",
		},
		[]string{"operation", "status"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Latency of requests sent to the commerce platform",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 15},
		},
		[]string{"operation"},
	)
)

// observe records one upstream call. Calls that never produced a status
// are counted as "error".
func observe(operation string, status int, err error, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	} else if err == nil {
		label = "ok"
	}
	upstreamRequestsTotal.WithLabelValues(operation, label).Inc()
	upstreamRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}
