package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Germanldb/winston-onepage-headless/pkg/cache"
	"github.com/Germanldb/winston-onepage-headless/pkg/health"
	"github.com/Germanldb/winston-onepage-headless/pkg/httpclient"
	"github.com/Germanldb/winston-onepage-headless/pkg/middleware"
	"github.com/Germanldb/winston-onepage-headless/pkg/tracing"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/catalog"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/config"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
	handler "github.com/Germanldb/winston-onepage-headless/services/catalog/internal/handler/http"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/service"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/woocommerce"
)

const (
	serviceName    = "catalog"
	serviceVersion = "0.1.0"
)

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	catalog        *service.CatalogService
	closeCache     func() error
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		Insecure:       cfg.OTELInsecure,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Response cache.
	responseCache, closeCache, err := newCache(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// HTTP client with circuit breaker for the commerce platform.
	baseClient := httpclient.New(httpclient.Config{
		Timeout:           cfg.UpstreamTimeout,
		MaxRetries:        0,
		RetryWaitMin:      500 * time.Millisecond,
		RetryWaitMax:      5 * time.Second,
		MaxConnsPerHost:   cfg.UpstreamMaxConcurrency * 4,
		RequestsPerSecond: cfg.UpstreamRPS,
		Burst:             cfg.UpstreamBurst,
	})

	cbCfg := httpclient.CircuitBreakerConfig{
		Name:         "woocommerce",
		MaxRequests:  cfg.CBMaxRequests,
		Interval:     cfg.CBInterval,
		Timeout:      cfg.CBTimeout,
		FailureRatio: cfg.CBFailureRatio,
		MinRequests:  cfg.CBMinRequests,
	}
	cbClient := httpclient.NewCircuitBreakerClient(baseClient, cbCfg, logger)
	logger.Info("circuit breaker initialized",
		slog.String("name", cbCfg.Name),
		slog.Uint64("max_requests", uint64(cbCfg.MaxRequests)),
		slog.Duration("timeout", cbCfg.Timeout),
		slog.Uint64("min_requests", uint64(cbCfg.MinRequests)),
	)

	currency := domain.Currency{
		Code:      cfg.CurrencyCode,
		Symbol:    cfg.CurrencySymbol,
		Prefix:    cfg.CurrencyPrefix,
		Suffix:    cfg.CurrencySuffix,
		MinorUnit: cfg.CurrencyMinorUnit,
	}

	woo, err := woocommerce.New(woocommerce.Config{
		BaseURL:              cfg.WooBaseURL,
		StoreAPIPath:         cfg.WooStoreAPIPath,
		AdminAPIPath:         cfg.WooAdminAPIPath,
		WPAPIPath:            cfg.WPAPIPath,
		ConsumerKey:          cfg.WooConsumerKey,
		ConsumerSecret:       cfg.WooConsumerSecret,
		CacheTTL:             cfg.CacheTTL,
		SlowRequestThreshold: cfg.UpstreamSlowThreshold,
		TaxRate:              cfg.TaxRate,
		Currency:             currency,
	}, cbClient, responseCache, logger)
	if err != nil {
		_ = closeCache()
		return nil, fmt.Errorf("create woocommerce client: %w", err)
	}
	logger.Info("woocommerce client initialized",
		slog.String("base_url", cfg.WooBaseURL),
		slog.Bool("admin_api", woo.HasCredentials()),
	)

	// Build the dependency graph.
	normalizer := catalog.NewNormalizer(catalog.NormalizerConfig{
		PlaceholderURL:  cfg.PlaceholderImageURL,
		WebP:            cfg.WebPRewrite,
		HotThreshold:    cfg.HotDiscountPercent,
		DefaultCurrency: currency,
	}, logger)

	catalogService := service.NewCatalogService(woo, normalizer, service.Config{
		CategoryID:        cfg.CategoryID,
		PageSize:          cfg.PageSize,
		MaxConcurrency:    cfg.UpstreamMaxConcurrency,
		PickPolicy:        cfg.PickPolicy(),
		Filter:            cfg.Filter(),
		ReviewsSampleSize: cfg.ReviewsSampleSize,
		WarmProductCount:  cfg.WarmProductCount,
	}, logger)

	// Health checks. The catalog degrades to uncached reads without the
	// cache and keeps serving cached pages while the store breaker is open,
	// so neither gates readiness.
	healthHandler := health.NewHandler()
	if p, ok := responseCache.(cache.Pinger); ok {
		healthHandler.RegisterOptional("cache", p.Ping)
	}
	healthHandler.RegisterOptional("woocommerce", cbClient.Check)

	// HTTP router.
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.MaxAge = cfg.CORSMaxAge

	router := handler.NewRouter(handler.RouterConfig{
		ServiceName:         serviceName,
		PageSize:            cfg.PageSize,
		RequestTimeout:      cfg.HTTPRequestTimeout,
		CORS:                corsCfg,
		RateLimitRPS:        cfg.RateLimitRPS,
		RateLimitBurst:      cfg.RateLimitBurst,
		MetricsAllowedCIDRs: cfg.MetricsAllowedCIDRs,
		PprofAllowedCIDRs:   cfg.PprofAllowedCIDRs,
	}, catalogService, healthHandler, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.HTTPRequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		catalog:        catalogService,
		closeCache:     closeCache,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// newCache builds the configured response cache, instrumented with hit and
// miss counters. The returned func releases its connections.
func newCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.Cache, func() error, error) {
	noClose := func() error { return nil }

	switch cfg.CacheBackend {
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Host:      cfg.RedisHost,
			Port:      cfg.RedisPort,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		}, cfg.CacheTTL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("host", cfg.RedisHost),
			slog.Int("port", cfg.RedisPort),
		)
		return cache.NewInstrumented(rc, config.CacheRedis), rc.Close, nil

	case config.CacheNone:
		logger.Info("response cache disabled")
		return cache.Noop{}, noClose, nil

	default:
		logger.Info("using in-memory response cache", slog.Duration("ttl", cfg.CacheTTL))
		mc := cache.NewMemoryCache(cfg.CacheTTL, 2*cfg.CacheTTL)
		return cache.NewInstrumented(mc, config.CacheMemory), noClose, nil
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if a.cfg.WarmInterval > 0 {
		go a.warmLoop(ctx, a.cfg.WarmInterval)
	}

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// warmLoop refreshes the response cache every interval until ctx ends.
func (a *App) warmLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.logger.Info("cache warm-up scheduled", slog.Duration("interval", interval))
	for {
		if _, err := a.catalog.WarmCache(ctx); err != nil && ctx.Err() == nil {
			a.logger.Warn("cache warm-up failed", slog.String("error", err.Error()))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Response cache connections
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.closeCache(); err != nil {
		a.logger.Error("cache close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
