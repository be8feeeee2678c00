package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/Germanldb/winston-onepage-headless/pkg/errors"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/catalog"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/woocommerce"
)

// Upstream is the commerce platform as the catalog service sees it.
// *woocommerce.Client satisfies it.
type Upstream interface {
	FetchProductsBySlug(ctx context.Context, slug string) ([]domain.RawProduct, error)
	FetchProductsByCategory(ctx context.Context, categoryID int64, page, perPage int) ([]domain.RawProduct, error)
	FetchProductByID(ctx context.Context, id int64) (*domain.RawProduct, error)
	FetchVariations(ctx context.Context, productID int64) ([]domain.Variation, error)
	FetchVariationImages(ctx context.Context, variationID int64) ([]domain.Image, error)
	FetchLatestLook(ctx context.Context) (*domain.RawLook, error)
	FetchReviews(ctx context.Context, perPage int) ([]domain.Review, error)
}

// Config tunes the catalog service.
type Config struct {
	// CategoryID is the storefront category listed when a request names
	// none.
	CategoryID int64
	PageSize   int

	// MaxConcurrency bounds the parallel upstream calls one operation may
	// issue.
	MaxConcurrency int

	PickPolicy        catalog.PickPolicy
	Filter            catalog.Filter
	ReviewsSampleSize int
	WarmProductCount  int
}

const (
	defaultPageSize       = 24
	defaultMaxConcurrency = 8
	defaultReviewsSample  = 10
)

// CatalogService fetches catalog data from the platform and hands out
// normalized products.
type CatalogService struct {
	upstream   Upstream
	normalizer *catalog.Normalizer
	cfg        Config
	logger     *slog.Logger
	shuffle    func([]domain.Review)
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(upstream Upstream, normalizer *catalog.Normalizer, cfg Config, logger *slog.Logger) *CatalogService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = defaultMaxConcurrency
	}
	if cfg.ReviewsSampleSize <= 0 {
		cfg.ReviewsSampleSize = defaultReviewsSample
	}
	if cfg.WarmProductCount <= 0 {
		cfg.WarmProductCount = cfg.PageSize
	}
	if cfg.PickPolicy == "" {
		cfg.PickPolicy = catalog.PickFirstWithAttributes
	}
	return &CatalogService{
		upstream:   upstream,
		normalizer: normalizer,
		cfg:        cfg,
		logger:     logger,
		shuffle:    shuffleReviews,
	}
}

// GetProduct returns the product published under slug. When the platform
// returns several records for the slug, the configured pick policy
// chooses one.
func (s *CatalogService) GetProduct(ctx context.Context, slug string) (*domain.NormalizedProduct, error) {
	records, err := s.upstream.FetchProductsBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get product %q: %w", slug, err)
	}

	raw, ok := catalog.PickBySlug(records, s.cfg.PickPolicy)
	if !ok {
		return nil, apperrors.NotFound("product", slug)
	}
	if len(records) > 1 {
		s.logger.InfoContext(ctx, "duplicate product records for slug",
			slog.String("slug", slug),
			slog.Int("records", len(records)),
			slog.Int64("picked_id", raw.ID),
		)
	}
	return s.load(ctx, raw)
}

// GetProductByID returns a product by its platform ID.
func (s *CatalogService) GetProductByID(ctx context.Context, id int64) (*domain.NormalizedProduct, error) {
	raw, err := s.upstream.FetchProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return s.load(ctx, raw)
}

// ListResult is one page of a product listing.
type ListResult struct {
	Products []*domain.NormalizedProduct
	Page     int
	PerPage  int
	// FullPage is set when the platform filled the page, so another page
	// may follow.
	FullPage bool
}

// ListProducts returns one page of a category, deduplicated and filtered.
// A zero categoryID or perPage uses the configured defaults.
func (s *CatalogService) ListProducts(ctx context.Context, categoryID int64, page, perPage int) (*ListResult, error) {
	if categoryID == 0 {
		categoryID = s.cfg.CategoryID
	}
	if perPage <= 0 {
		perPage = s.cfg.PageSize
	}
	if page < 1 {
		page = 1
	}

	raws, err := s.upstream.FetchProductsByCategory(ctx, categoryID, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("list products in category %d: %w", categoryID, err)
	}

	filter := s.cfg.Filter
	filter.CategoryID = categoryID
	kept := filter.Apply(catalog.Dedupe(raws))

	return &ListResult{
		Products: s.normalizer.NormalizeAll(ctx, kept),
		Page:     page,
		PerPage:  perPage,
		FullPage: len(raws) >= perPage,
	}, nil
}

// SelectColor returns the gallery of a product for color. The result may
// hold provisional images.
func (s *CatalogService) SelectColor(ctx context.Context, slug, color string) ([]domain.Image, error) {
	p, err := s.GetProduct(ctx, slug)
	if err != nil {
		return nil, err
	}
	return p.SelectColor(color), nil
}

// Availability lists the sizes of a product that can be bought in color.
type Availability struct {
	Color string        `json:"color"`
	Sizes []domain.Term `json:"sizes"`
}

// AvailableSizes returns the sizes available for color.
func (s *CatalogService) AvailableSizes(ctx context.Context, slug, color string) (*Availability, error) {
	p, err := s.GetProduct(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &Availability{
		Color: p.TermSlug(domain.AttributeColor, color),
		Sizes: p.AvailableSizes(color),
	}, nil
}

// load completes a raw record with its variations and per-color imagery
// and normalizes it.
func (s *CatalogService) load(ctx context.Context, raw *domain.RawProduct) (*domain.NormalizedProduct, error) {
	variations, err := s.variations(ctx, raw)
	if err != nil {
		return nil, err
	}

	refs := variations
	if refs == nil {
		refs = domain.VariationsFromRefs(raw.Variations)
	}
	images := s.variationImages(ctx, raw, refs)

	return s.normalizer.Normalize(ctx, raw, variations, images), nil
}

// variations fetches full variation records. A nil result means the
// summaries embedded in the record should be used instead; that is the
// case without admin credentials and when the fetch fails.
func (s *CatalogService) variations(ctx context.Context, raw *domain.RawProduct) ([]domain.Variation, error) {
	if !raw.IsVariable() {
		return nil, nil
	}

	variations, err := s.upstream.FetchVariations(ctx, raw.ID)
	switch {
	case err == nil:
		return variations, nil
	case errors.Is(err, woocommerce.ErrNoCredentials):
		return nil, nil
	case errors.Is(err, context.Canceled):
		return nil, err
	}

	s.logger.WarnContext(ctx, "variation fetch failed, using embedded summaries",
		slog.Int64("product_id", raw.ID),
		slog.String("error", err.Error()),
	)
	return nil, nil
}

// variationImages collects per-color imagery: first from the variations'
// own images, then by fetching one variation record per color still
// missing. Lookups run concurrently; a failed lookup leaves its color to
// the image fallbacks.
func (s *CatalogService) variationImages(ctx context.Context, raw *domain.RawProduct, variations []domain.Variation) map[string][]domain.Image {
	images := catalog.ColorImages(raw, variations)
	lookups := catalog.MissingColorLookups(raw, variations, images)
	if len(lookups) == 0 {
		return images
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.cfg.MaxConcurrency)

	for color, variationID := range lookups {
		g.Go(func() error {
			imgs, err := s.upstream.FetchVariationImages(ctx, variationID)
			if err != nil {
				s.logger.DebugContext(ctx, "variation image lookup failed",
					slog.Int64("product_id", raw.ID),
					slog.Int64("variation_id", variationID),
					slog.String("color", color),
					slog.String("error", err.Error()),
				)
				return nil
			}
			if len(imgs) == 0 {
				return nil
			}
			mu.Lock()
			images[color] = imgs
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return images
}
