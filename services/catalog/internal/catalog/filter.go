package catalog

import (
	"fmt"
	"strings"

	"github.com/Germanldb/winston-onepage-headless/pkg/slug"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

// Dedupe drops every record whose ID was already seen, keeping first-seen
// order.
func Dedupe(products []domain.RawProduct) []domain.RawProduct {
	seen := make(map[int64]struct{}, len(products))
	out := make([]domain.RawProduct, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// FilterStrategy selects how listings are narrowed to the storefront's
// category.
type FilterStrategy string

const (
	// FilterByCategoryID trusts the category the platform assigned.
	FilterByCategoryID FilterStrategy = "category_id"
	// FilterByKeywords matches product and category names against keyword
	// lists, for catalogs whose taxonomy cannot be trusted.
	FilterByKeywords FilterStrategy = "keywords"
)

// ParseFilterStrategy validates a configured strategy name.
func ParseFilterStrategy(s string) (FilterStrategy, error) {
	switch FilterStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case FilterByCategoryID, "":
		return FilterByCategoryID, nil
	case FilterByKeywords:
		return FilterByKeywords, nil
	}
	return "", fmt.Errorf("unknown filter strategy %q", s)
}

// Filter narrows a listing to the storefront's products.
type Filter struct {
	Strategy   FilterStrategy
	CategoryID int64
	Include    []string
	Exclude    []string
}

// Apply returns the products Keep accepts, in order.
func (f Filter) Apply(products []domain.RawProduct) []domain.RawProduct {
	out := make([]domain.RawProduct, 0, len(products))
	for i := range products {
		if f.Keep(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}

// Keep reports whether p belongs in the listing.
func (f Filter) Keep(p *domain.RawProduct) bool {
	if f.Strategy == FilterByKeywords {
		return f.keepByKeywords(p)
	}
	if f.CategoryID == 0 || len(p.Categories) == 0 {
		return true
	}
	for _, c := range p.Categories {
		if c.ID == f.CategoryID {
			return true
		}
	}
	return false
}

// keepByKeywords keeps p when its name or a category matches an include
// keyword and nothing matches an exclude keyword. An empty include list
// accepts everything not excluded.
func (f Filter) keepByKeywords(p *domain.RawProduct) bool {
	haystack := []string{slug.Normalize(p.Name)}
	for _, c := range p.Categories {
		haystack = append(haystack, slug.Normalize(c.Name), slug.Normalize(c.Slug))
	}

	if matchesAnyKeyword(haystack, f.Exclude) {
		return false
	}
	if len(normalizedKeywords(f.Include)) == 0 {
		return true
	}
	return matchesAnyKeyword(haystack, f.Include)
}

func matchesAnyKeyword(haystack, keywords []string) bool {
	for _, k := range normalizedKeywords(keywords) {
		for _, h := range haystack {
			if h != "" && strings.Contains(h, k) {
				return true
			}
		}
	}
	return false
}

func normalizedKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if n := slug.Normalize(k); n != "" {
			out = append(out, n)
		}
	}
	return out
}
