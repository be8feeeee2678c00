package woocommerce

import (
	"context"
	"net/url"
	"strconv"

	apperrors "github.com/Germanldb/winston-onepage-headless/pkg/errors"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/domain"
)

// FetchLatestLook returns the most recent "look of the week" post with its
// featured media embedded.
func (c *Client) FetchLatestLook(ctx context.Context) (*domain.RawLook, error) {
	var looks []domain.RawLook
	err := c.getJSON(ctx, request{
		operation: "look_of_the_week",
		api:       wpAPI,
		path:      "/look-semana",
		params:    url.Values{"per_page": {"1"}, "_embed": {""}},
	}, &looks)
	if err != nil {
		return nil, notFoundAs(err, "look", "latest")
	}
	if len(looks) == 0 {
		return nil, apperrors.NotFound("look", "latest")
	}
	return &looks[0], nil
}

// FetchReviews returns the most recent product reviews. The admin API is
// used when credentials are configured.
func (c *Client) FetchReviews(ctx context.Context, perPage int) ([]domain.Review, error) {
	if perPage <= 0 || perPage > maxVariationsPerPage {
		perPage = maxVariationsPerPage
	}
	r := request{
		operation: "reviews",
		api:       storeAPI,
		path:      "/products/reviews",
		params:    url.Values{"per_page": {strconv.Itoa(perPage)}},
	}
	if c.HasCredentials() {
		r.api = adminAPI
	}

	var reviews []domain.Review
	if err := c.getJSON(ctx, r, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
