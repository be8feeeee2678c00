package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/catalog"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

// reviewsFetchSize is how many recent reviews are sampled from.
const reviewsFetchSize = 100

// LookOfTheWeek returns the latest editorial look with its featured
// products. Products that fail to load are left out.
func (s *CatalogService) LookOfTheWeek(ctx context.Context) (*domain.Look, error) {
	raw, err := s.upstream.FetchLatestLook(ctx)
	if err != nil {
		return nil, fmt.Errorf("get look of the week: %w", err)
	}

	look := &domain.Look{
		ID:          raw.ID,
		Title:       firstNonEmpty(raw.CustomFields.Title, raw.Title.Rendered),
		Description: firstNonEmpty(raw.CustomFields.Description, raw.Content.Rendered),
		Image:       catalog.RewriteWebP(firstNonEmpty(raw.CustomFields.Image, raw.FeaturedImage())),
	}

	ids := lookProductIDs(raw.CustomFields)
	products := make([]*domain.NormalizedProduct, len(ids))

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			p, err := s.GetProductByID(ctx, id)
			if err != nil {
				s.logger.WarnContext(ctx, "look product skipped",
					slog.Int64("look_id", raw.ID),
					slog.Int64("product_id", id),
					slog.String("error", err.Error()),
				)
				return nil
			}
			optimizeImages(p)
			products[i] = p
			return nil
		})
	}
	_ = g.Wait()

	look.Products = make([]*domain.NormalizedProduct, 0, len(products))
	for _, p := range products {
		if p != nil {
			look.Products = append(look.Products, p)
		}
	}
	return look, nil
}

// lookProductIDs parses the product references of a look, skipping blank
// and malformed entries.
func lookProductIDs(f domain.LookCustomFields) []int64 {
	var ids []int64
	for _, raw := range []string{f.Product1, f.Product2} {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// optimizeImages points every upload of p at its WebP rendition.
func optimizeImages(p *domain.NormalizedProduct) {
	catalog.RewriteImages(p.Images)
	if p.HoverImage != nil {
		p.HoverImage.Src = catalog.RewriteWebP(p.HoverImage.Src)
	}
	for _, imgs := range p.ColorImages {
		catalog.RewriteImages(imgs)
	}
}

// Reviews returns a random sample of recent reviews, each linked to its
// product slug.
func (s *CatalogService) Reviews(ctx context.Context) ([]domain.Review, error) {
	fetched, err := s.upstream.FetchReviews(ctx, reviewsFetchSize)
	if err != nil {
		return nil, fmt.Errorf("get reviews: %w", err)
	}

	reviews := dedupeReviews(fetched)
	s.shuffle(reviews)
	if len(reviews) > s.cfg.ReviewsSampleSize {
		reviews = reviews[:s.cfg.ReviewsSampleSize]
	}

	s.enrichReviews(ctx, reviews)
	return reviews, nil
}

// dedupeReviews keeps the first review of every ID.
func dedupeReviews(reviews []domain.Review) []domain.Review {
	seen := make(map[int64]struct{}, len(reviews))
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// enrichReviews fills in missing product slugs and rewrites product images
// to WebP. Each product is looked up once; failures leave the slug empty.
func (s *CatalogService) enrichReviews(ctx context.Context, reviews []domain.Review) {
	var ids []int64
	seen := make(map[int64]struct{})
	for _, r := range reviews {
		if r.ProductSlug != "" || r.ProductID <= 0 {
			continue
		}
		if _, ok := seen[r.ProductID]; !ok {
			seen[r.ProductID] = struct{}{}
			ids = append(ids, r.ProductID)
		}
	}

	slugs := make(map[int64]string, len(ids))
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.cfg.MaxConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			p, err := s.upstream.FetchProductByID(ctx, id)
			if err != nil {
				s.logger.DebugContext(ctx, "review product lookup failed",
					slog.Int64("product_id", id),
					slog.String("error", err.Error()),
				)
				return nil
			}
			mu.Lock()
			slugs[id] = p.Slug
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for i := range reviews {
		if reviews[i].ProductSlug == "" {
			reviews[i].ProductSlug = slugs[reviews[i].ProductID]
		}
		if img := reviews[i].ProductImage; img != nil {
			img.Src = catalog.RewriteWebP(img.Src)
		}
	}
}

func shuffleReviews(reviews []domain.Review) {
	rand.Shuffle(len(reviews), func(i, j int) {
		reviews[i], reviews[j] = reviews[j], reviews[i]
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
