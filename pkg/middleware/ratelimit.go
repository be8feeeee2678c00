package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/Germanldb/winston-onepage-headless/pkg/httputil"
)

// visitorStore keeps one token bucket per client IP. Idle buckets expire
// after ttl through go-cache's janitor.
type visitorStore struct {
	visitors *cache.Cache
	rps      float64
	burst    int
}

func newVisitorStore(rps float64, burst int, ttl time.Duration) *visitorStore {
	return &visitorStore{
		visitors: cache.New(ttl, ttl),
		rps:      rps,
		burst:    burst,
	}
}

// limiter returns the bucket for ip, creating it on first sight. Each hit
// refreshes the expiry.
func (s *visitorStore) limiter(ip string) *rate.Limiter {
	if v, ok := s.visitors.Get(ip); ok {
		l := v.(*rate.Limiter)
		s.visitors.SetDefault(ip, l)
		return l
	}
	l := rate.NewLimiter(rate.Limit(s.rps), s.burst)
	if err := s.visitors.Add(ip, l, cache.DefaultExpiration); err != nil {
		// Another request created it first.
		if v, ok := s.visitors.Get(ip); ok {
			return v.(*rate.Limiter)
		}
	}
	return l
}

func (s *visitorStore) len() int {
	return s.visitors.ItemCount()
}

// RateLimit enforces a per-IP token bucket and answers 429 when it is empty.
// A non-positive rps disables limiting.
func RateLimit(rps float64, burst int, logger *slog.Logger) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	store := newVisitorStore(rps, burst, 3*time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !store.limiter(ip).Allow() {
				logger.WarnContext(r.Context(), "rate limit exceeded",
					slog.String("ip", ip),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", "1")
				httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.Response{
					Error: &httputil.ErrorResponse{Code: "RATE_LIMITED", Message: "too many requests"},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(strings.TrimSpace(xri)); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
