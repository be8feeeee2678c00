package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Germanldb/winston-onepage-headless/pkg/health"
	"github.com/Germanldb/winston-onepage-headless/pkg/middleware"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/service"
)

// RouterConfig carries the settings the router needs from the service config.
type RouterConfig struct {
	ServiceName    string
	PageSize       int
	RequestTimeout time.Duration
	CORS           middleware.CORSConfig

	// RateLimitRPS of zero disables the per-IP limiter.
	RateLimitRPS   float64
	RateLimitBurst int

	MetricsAllowedCIDRs []string
	PprofAllowedCIDRs   []string
}

// NewRouter creates a chi router with all catalog routes registered.
func NewRouter(
	cfg RouterConfig,
	catalogService *service.CatalogService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.IPAllowlist(cfg.MetricsAllowedCIDRs, logger))
		r.Handle("/metrics", promhttp.Handler())
	})
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	productHandler := NewProductHandler(catalogService, cfg.PageSize, logger)
	contentHandler := NewContentHandler(catalogService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitRPS > 0 {
			r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
		}
		if cfg.RequestTimeout > 0 {
			r.Use(chimw.Timeout(cfg.RequestTimeout))
		}
		r.Use(chimw.Compress(5))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(middleware.CatalogCacheControl))

			r.Get("/products", productHandler.ListProducts)
			r.Get("/products/{slug}", productHandler.GetProduct)
			r.Get("/products/{slug}/images", productHandler.GetImages)
			r.Get("/products/{slug}/availability", productHandler.GetAvailability)
			r.Get("/reviews", contentHandler.ListReviews)
		})

		// The look changes weekly without a purge hook, so it is never cached.
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl("no-store"))

			r.Get("/look-of-the-week", contentHandler.GetLook)
			r.Get("/cache/warm", contentHandler.WarmCache)
			r.Post("/cache/warm", contentHandler.WarmCache)
		})
	})

	return r
}
