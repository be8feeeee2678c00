package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	pkgconfig "github.com/Germanldb/winston-onepage-headless/pkg/config"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/catalog"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config holds all configuration for the catalog service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort           int           `env:"CATALOG_HTTP_PORT" envDefault:"8010"`
	HTTPRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`

	// WooCommerce
	WooBaseURL        string `env:"WOO_BASE_URL" envDefault:"https://winstonandharrystore.com"`
	WooStoreAPIPath   string `env:"WOO_STORE_API_PATH" envDefault:"/wp-json/wc/store/v1"`
	WooAdminAPIPath   string `env:"WOO_ADMIN_API_PATH" envDefault:"/wp-json/wc/v3"`
	WPAPIPath         string `env:"WP_API_PATH" envDefault:"/wp-json/wp/v2"`
	WooConsumerKey    string `env:"WOO_CONSUMER_KEY"`
	WooConsumerSecret string `env:"WOO_CONSUMER_SECRET"`

	// Outbound HTTP
	UpstreamTimeout        time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
	UpstreamRPS            float64       `env:"UPSTREAM_RPS" envDefault:"20"`
	UpstreamBurst          int           `env:"UPSTREAM_BURST" envDefault:"40"`
	UpstreamMaxConcurrency int           `env:"UPSTREAM_MAX_CONCURRENCY" envDefault:"8"`
	UpstreamSlowThreshold  time.Duration `env:"UPSTREAM_SLOW_THRESHOLD" envDefault:"2s"`

	// Circuit breaker
	CBMaxRequests  uint32        `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     time.Duration `env:"CB_INTERVAL" envDefault:"60s"`
	CBTimeout      time.Duration `env:"CB_TIMEOUT" envDefault:"30s"`
	CBFailureRatio float64       `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32        `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// Response cache
	CacheBackend string        `env:"CACHE_BACKEND" envDefault:"memory"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"1h"`

	// Redis
	RedisHost      string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort      int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"catalog:"`

	// Catalog
	CategoryID            int64    `env:"CATALOG_CATEGORY_ID" envDefault:"63"`
	PageSize              int      `env:"CATALOG_PAGE_SIZE" envDefault:"24"`
	FilterStrategy        string   `env:"FILTER_STRATEGY" envDefault:"category_id"`
	FilterIncludeKeywords []string `env:"FILTER_INCLUDE_KEYWORDS" envSeparator:","`
	FilterExcludeKeywords []string `env:"FILTER_EXCLUDE_KEYWORDS" envSeparator:","`
	SlugPickPolicy        string   `env:"SLUG_PICK_POLICY" envDefault:"first_with_attributes"`
	PlaceholderImageURL   string   `env:"PLACEHOLDER_IMAGE_URL" envDefault:"https://via.placeholder.com/300x400?text=Zapato"`
	WebPRewrite           bool     `env:"WEBP_REWRITE" envDefault:"false"`
	HotDiscountPercent    int      `env:"HOT_DISCOUNT_PERCENT" envDefault:"40"`
	TaxRate               float64  `env:"TAX_RATE" envDefault:"0.19"`
	ReviewsSampleSize     int      `env:"REVIEWS_SAMPLE_SIZE" envDefault:"10"`

	// Currency used for admin API prices, which carry no currency metadata.
	CurrencyCode      string `env:"CURRENCY_CODE" envDefault:"COP"`
	CurrencySymbol    string `env:"CURRENCY_SYMBOL" envDefault:"$"`
	CurrencyPrefix    string `env:"CURRENCY_PREFIX" envDefault:"$"`
	CurrencySuffix    string `env:"CURRENCY_SUFFIX"`
	CurrencyMinorUnit int    `env:"CURRENCY_MINOR_UNIT" envDefault:"0"`

	// Cache warm-up. A zero interval disables the background ticker.
	WarmInterval     time.Duration `env:"WARM_INTERVAL" envDefault:"0s"`
	WarmProductCount int           `env:"WARM_PRODUCT_COUNT" envDefault:"24"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	CORSMaxAge         int      `env:"CORS_MAX_AGE" envDefault:"600"`

	// Inbound per-IP rate limit. A zero RPS disables it.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELInsecure   bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof and metrics endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs   []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`
	MetricsAllowedCIDRs []string `env:"METRICS_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	return load(nil)
}

// LoadFromMap reads configuration from environ instead of the process
// environment.
func LoadFromMap(environ map[string]string) (*Config, error) {
	if environ == nil {
		environ = map[string]string{}
	}
	return load(environ)
}

func load(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadWithEnvironment(cfg, environ); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	return cfg, nil
}

// Validate checks the parsed configuration.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	u, err := url.Parse(c.WooBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("WOO_BASE_URL must be an absolute URL, got %q", c.WooBaseURL)
	}
	if (c.WooConsumerKey == "") != (c.WooConsumerSecret == "") {
		return fmt.Errorf("WOO_CONSUMER_KEY and WOO_CONSUMER_SECRET must be set together")
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	if c.UpstreamMaxConcurrency < 1 {
		return fmt.Errorf("UPSTREAM_MAX_CONCURRENCY must be at least 1, got %d", c.UpstreamMaxConcurrency)
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1.0 {
		return fmt.Errorf("CB_FAILURE_RATIO must be in (0, 1], got %f", c.CBFailureRatio)
	}
	switch c.CacheBackend {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of memory, redis, none; got %q", c.CacheBackend)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("CATALOG_PAGE_SIZE must be between 1 and 100, got %d", c.PageSize)
	}
	if _, err := catalog.ParseFilterStrategy(c.FilterStrategy); err != nil {
		return fmt.Errorf("FILTER_STRATEGY: %w", err)
	}
	if _, err := catalog.ParsePickPolicy(c.SlugPickPolicy); err != nil {
		return fmt.Errorf("SLUG_PICK_POLICY: %w", err)
	}
	if c.TaxRate < 0 {
		return fmt.Errorf("TAX_RATE must not be negative, got %f", c.TaxRate)
	}
	if c.CurrencyMinorUnit < 0 || c.CurrencyMinorUnit > 4 {
		return fmt.Errorf("CURRENCY_MINOR_UNIT must be between 0 and 4, got %d", c.CurrencyMinorUnit)
	}
	if c.WarmInterval < 0 {
		return fmt.Errorf("WARM_INTERVAL must not be negative, got %s", c.WarmInterval)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// Filter returns the listing filter.
func (c *Config) Filter() catalog.Filter {
	strategy, _ := catalog.ParseFilterStrategy(c.FilterStrategy)
	return catalog.Filter{
		Strategy:   strategy,
		CategoryID: c.CategoryID,
		Include:    trimAll(c.FilterIncludeKeywords),
		Exclude:    trimAll(c.FilterExcludeKeywords),
	}
}

// PickPolicy returns the slug de-duplication policy.
func (c *Config) PickPolicy() catalog.PickPolicy {
	p, _ := catalog.ParsePickPolicy(c.SlugPickPolicy)
	return p
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
