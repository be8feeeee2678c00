package woocommerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Germanldb/winston-onepage-headless/pkg/cache"
	apperrors "github.com/Germanldb/winston-onepage-headless/pkg/errors"
	"github.com/Germanldb/winston-onepage-headless/pkg/httpclient"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

const (
	serviceName = "woocommerce"

	DefaultStoreAPIPath = "/wp-json/wc/store/v1"
	DefaultAdminAPIPath = "/wp-json/wc/v3"
	DefaultWPAPIPath    = "/wp-json/wp/v2"

	// maxResponseBody bounds a single catalog payload.
	maxResponseBody = 16 << 20

	// userAgent identifies this client; the store's WAF throttles requests
	// without one.
	userAgent = "winston-catalog/1.0"
)

// ErrNoCredentials is returned by operations that need the admin API when
// no consumer key/secret is configured.
var ErrNoCredentials = errors.New("woocommerce admin credentials not configured")

// HTTPDoer executes requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy it.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Config holds the upstream endpoints and credentials.
type Config struct {
	BaseURL      string
	StoreAPIPath string
	AdminAPIPath string
	WPAPIPath    string

	// ConsumerKey and ConsumerSecret enable the admin API. They are sent
	// as query parameters and never become part of a cache key.
	ConsumerKey    string
	ConsumerSecret string

	CacheTTL             time.Duration
	SlowRequestThreshold time.Duration

	// TaxRate is added to admin API prices of taxable products, which the
	// admin API reports tax-exclusive.
	TaxRate float64

	// Currency describes admin API prices, which carry no currency metadata.
	Currency domain.Currency
}

// Client reads catalog data from a WooCommerce store. Every read goes
// through the response cache first.
type Client struct {
	doer   HTTPDoer
	cache  cache.Cache
	cfg    Config
	mapper mapper
	logger *slog.Logger
}

// New creates a Client. A nil cache disables caching.
func New(cfg Config, doer HTTPDoer, c cache.Cache, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("woocommerce base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse woocommerce base URL: %w", err)
	}
	if doer == nil {
		return nil, fmt.Errorf("woocommerce HTTP client is required")
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.StoreAPIPath == "" {
		cfg.StoreAPIPath = DefaultStoreAPIPath
	}
	if cfg.AdminAPIPath == "" {
		cfg.AdminAPIPath = DefaultAdminAPIPath
	}
	if cfg.WPAPIPath == "" {
		cfg.WPAPIPath = DefaultWPAPIPath
	}
	if c == nil {
		c = cache.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		doer:   doer,
		cache:  c,
		cfg:    cfg,
		mapper: mapper{taxRate: cfg.TaxRate, currency: cfg.Currency},
		logger: logger,
	}, nil
}

// HasCredentials reports whether the admin API can be used.
func (c *Client) HasCredentials() bool {
	return c.cfg.ConsumerKey != "" && c.cfg.ConsumerSecret != ""
}

type api int

const (
	storeAPI api = iota
	adminAPI
	wpAPI
)

// request describes one cacheable GET.
type request struct {
	operation string
	api       api
	path      string
	params    url.Values
}

// cacheKey is the operation plus every parameter. url.Values.Encode sorts
// keys, so equal requests share a key regardless of construction order.
func (r request) cacheKey() string {
	key := r.operation + ":" + r.path
	if len(r.params) > 0 {
		key += "?" + r.params.Encode()
	}
	return key
}

func (c *Client) endpoint(r request, withAuth bool) string {
	var base string
	switch r.api {
	case adminAPI:
		base = c.cfg.AdminAPIPath
	case wpAPI:
		base = c.cfg.WPAPIPath
	default:
		base = c.cfg.StoreAPIPath
	}

	params := url.Values{}
	for k, v := range r.params {
		params[k] = v
	}
	if withAuth && r.api == adminAPI {
		params.Set("consumer_key", c.cfg.ConsumerKey)
		params.Set("consumer_secret", c.cfg.ConsumerSecret)
	}

	u := c.cfg.BaseURL + base + r.path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// getJSON serves r from the cache or fetches it and caches the raw body.
func (c *Client) getJSON(ctx context.Context, r request, dst any) error {
	key := r.cacheKey()

	err := cache.GetJSON(ctx, c.cache, key, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		c.logger.WarnContext(ctx, "cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	body, err := c.fetch(ctx, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode %s response: %w", r.operation, err)
	}

	if err := c.cache.Set(ctx, key, body, c.cfg.CacheTTL); err != nil {
		c.logger.WarnContext(ctx, "cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, r request) (body []byte, err error) {
	status := 0
	ctx, end := c.traceRequest(ctx, r.operation, c.endpoint(r, false))
	defer func() { end(status, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(r, true), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", r.operation, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		var upErr *apperrors.UpstreamError
		if errors.As(err, &upErr) {
			status = upErr.StatusCode
		}
		return nil, httpclient.ClassifyError(serviceName, err)
	}
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, httpclient.ClassifyError(serviceName, fmt.Errorf("read %s response: %w", r.operation, err))
	}
	return body, nil
}

// notFoundAs turns an upstream 404 into a NotFound error for resource.
func notFoundAs(err error, resource, key string) error {
	var upErr *apperrors.UpstreamError
	if errors.As(err, &upErr) && upErr.StatusCode == http.StatusNotFound {
		return apperrors.NotFound(resource, key)
	}
	return err
}
