package pagination

import (
	"fmt"
	"net/http"
	"strconv"

	apperrors "github.com/Germanldb/winston-onepage-headless/pkg/errors"
)

// MaxPerPage is the largest page WooCommerce will serve in one request.
const MaxPerPage = 100

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page    int `json:"page" validate:"gte=1"`
	PerPage int `json:"per_page" validate:"gte=1,lte=100"`
}

// DefaultParams returns page 1 with the given page size, clamped to MaxPerPage.
func DefaultParams(perPage int) Params {
	if perPage <= 0 {
		perPage = 24
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Params{Page: 1, PerPage: perPage}
}

// FromRequest reads page and per_page from the query string. Absent values
// take the defaults; malformed or out-of-range values are rejected.
func FromRequest(r *http.Request, defaultPerPage int) (Params, error) {
	p := DefaultParams(defaultPerPage)
	q := r.URL.Query()

	if raw := q.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return p, apperrors.InvalidInput(fmt.Sprintf("page must be a positive integer, got %q", raw))
		}
		p.Page = v
	}

	if raw := q.Get("per_page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > MaxPerPage {
			return p, apperrors.InvalidInput(fmt.Sprintf("per_page must be between 1 and %d, got %q", MaxPerPage, raw))
		}
		p.PerPage = v
	}

	return p, nil
}

// Batches returns the pages needed to cover total items at perPage each.
// Every page keeps the same size so offsets stay aligned upstream; the
// caller trims the surplus from the last page.
func Batches(total, perPage int) []Params {
	if total <= 0 {
		return nil
	}
	if perPage <= 0 || perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	pages := (total + perPage - 1) / perPage
	out := make([]Params, 0, pages)
	for page := 1; page <= pages; page++ {
		out = append(out, Params{Page: page, PerPage: perPage})
	}
	return out
}
