package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

// WarmCache preloads the upstream response cache: the default listing and
// the detail of each of the newest products. Individual failures are
// counted, not returned.
func (s *CatalogService) WarmCache(ctx context.Context) (*domain.WarmReport, error) {
	started := time.Now()

	raws, err := s.upstream.FetchProductsByCategory(ctx, s.cfg.CategoryID, 1, s.cfg.WarmProductCount)
	if err != nil {
		return nil, fmt.Errorf("warm cache: list products: %w", err)
	}

	var warmed, failed atomic.Int64
	record := func(err error) {
		if err != nil {
			failed.Add(1)
			return
		}
		warmed.Add(1)
	}

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrency)

	g.Go(func() error {
		_, err := s.ListProducts(ctx, s.cfg.CategoryID, 1, s.cfg.PageSize)
		record(err)
		return nil
	})

	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		if raw.Slug == "" {
			continue
		}
		if _, ok := seen[raw.Slug]; ok {
			continue
		}
		seen[raw.Slug] = struct{}{}

		slug := raw.Slug
		g.Go(func() error {
			_, err := s.GetProduct(ctx, slug)
			if err != nil {
				s.logger.WarnContext(ctx, "warm product failed",
					slog.String("slug", slug),
					slog.String("error", err.Error()),
				)
			}
			record(err)
			return nil
		})
	}
	_ = g.Wait()

	report := &domain.WarmReport{
		Products:  len(raws),
		Warmed:    int(warmed.Load()),
		Failed:    int(failed.Load()),
		StartedAt: started.UTC(),
		Duration:  time.Since(started),
	}

	s.logger.InfoContext(ctx, "cache warmed",
		slog.Int("products", report.Products),
		slog.Int("warmed", report.Warmed),
		slog.Int("failed", report.Failed),
		slog.Duration("duration", report.Duration),
	)
	return report, nil
}
