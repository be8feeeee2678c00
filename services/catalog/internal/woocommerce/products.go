package woocommerce

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/Germanldb/winston-onepage-headless/pkg/errors"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

// maxVariationsPerPage is the largest page the platform serves.
const maxVariationsPerPage = 100

// FetchProductsBySlug returns every record published under slug. The
// platform may return several; choosing one is up to the caller. An empty
// result is a NotFound error.
func (c *Client) FetchProductsBySlug(ctx context.Context, slug string) ([]domain.RawProduct, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperrors.InvalidInput("slug is required")
	}

	products, err := c.listProducts(ctx, "products_by_slug", url.Values{"slug": {slug}})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, apperrors.NotFound("product", slug)
	}
	return products, nil
}

// FetchProductsByCategory returns one page of a category, newest first. A
// zero categoryID lists the whole catalog.
func (c *Client) FetchProductsByCategory(ctx context.Context, categoryID int64, page, perPage int) ([]domain.RawProduct, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
		"orderby":  {"date"},
		"order":    {"desc"},
	}
	if categoryID > 0 {
		params.Set("category", strconv.FormatInt(categoryID, 10))
	}
	return c.listProducts(ctx, "products_by_category", params)
}

// FetchProductByID returns a single product or variation record.
func (c *Client) FetchProductByID(ctx context.Context, id int64) (*domain.RawProduct, error) {
	key := strconv.FormatInt(id, 10)
	if id <= 0 {
		return nil, apperrors.InvalidInput("product id must be positive")
	}

	r := request{operation: "product_by_id", path: "/products/" + key}
	if c.HasCredentials() {
		r.api = adminAPI
		var p v3Product
		if err := c.getJSON(ctx, r, &p); err != nil {
			return nil, notFoundAs(err, "product", key)
		}
		mapped := c.mapper.product(p)
		return &mapped, nil
	}

	r.api = storeAPI
	var p domain.RawProduct
	if err := c.getJSON(ctx, r, &p); err != nil {
		return nil, notFoundAs(err, "product", key)
	}
	return &p, nil
}

// FetchVariations returns the full variation records of a product, with
// prices and stock. It needs the admin API and returns ErrNoCredentials
// without it.
func (c *Client) FetchVariations(ctx context.Context, productID int64) ([]domain.Variation, error) {
	if !c.HasCredentials() {
		return nil, ErrNoCredentials
	}
	key := strconv.FormatInt(productID, 10)

	var raw []v3Variation
	err := c.getJSON(ctx, request{
		operation: "variations",
		api:       adminAPI,
		path:      "/products/" + key + "/variations",
		params:    url.Values{"per_page": {strconv.Itoa(maxVariationsPerPage)}},
	}, &raw)
	if err != nil {
		return nil, notFoundAs(err, "product", key)
	}

	out := make([]domain.Variation, 0, len(raw))
	for _, v := range raw {
		out = append(out, c.mapper.variation(v))
	}
	return out, nil
}

// FetchVariationImages returns the images of one variation record.
func (c *Client) FetchVariationImages(ctx context.Context, variationID int64) ([]domain.Image, error) {
	p, err := c.FetchProductByID(ctx, variationID)
	if err != nil {
		return nil, err
	}
	return p.Images, nil
}

func (c *Client) listProducts(ctx context.Context, operation string, params url.Values) ([]domain.RawProduct, error) {
	r := request{operation: operation, path: "/products", params: params}

	if c.HasCredentials() {
		r.api = adminAPI
		var raw []v3Product
		if err := c.getJSON(ctx, r, &raw); err != nil {
			return nil, err
		}
		out := make([]domain.RawProduct, 0, len(raw))
		for _, p := range raw {
			out = append(out, c.mapper.product(p))
		}
		return out, nil
	}

	r.api = storeAPI
	var out []domain.RawProduct
	if err := c.getJSON(ctx, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}
