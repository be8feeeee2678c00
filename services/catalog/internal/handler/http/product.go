package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/Germanldb/winston-onepage-headless/pkg/errors"
	"github.com/Germanldb/winston-onepage-headless/pkg/httputil"
	"github.com/Germanldb/winston-onepage-headless/pkg/pagination"
	"github.com/Germanldb/winston-onepage-headless/pkg/validator"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/service"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service  *service.CatalogService
	pageSize int
	logger   *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.CatalogService, pageSize int, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  svc,
		pageSize: pageSize,
		logger:   logger,
	}
}

// --- Request DTOs ---

type listProductsQuery struct {
	CategoryID int64 `validate:"gte=0"`
	Page       int   `validate:"gte=1"`
	PerPage    int   `validate:"gte=1,lte=100"`
}

type productQuery struct {
	Slug  string `validate:"required,slug,max=200"`
	Color string `validate:"omitempty,max=100"`
}

func parseProductQuery(r *http.Request) (productQuery, error) {
	q := productQuery{
		Slug:  chi.URLParam(r, "slug"),
		Color: r.URL.Query().Get("color"),
	}
	return q, validator.Validate(q)
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.FromRequest(r, h.pageSize)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	q := listProductsQuery{Page: params.Page, PerPage: params.PerPage}
	if v := r.URL.Query().Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput("category_id must be a valid integer"), h.logger)
			return
		}
		q.CategoryID = id
	}
	if err := validator.Validate(q); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.ListProducts(r.Context(), q.CategoryID, q.Page, q.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK,
		httputil.NewPaginatedResponse(result.Products, result.Page, result.PerPage, result.FullPage))
}

// GetProduct handles GET /api/v1/products/{slug}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	q, err := parseProductQuery(r)
	if err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.GetProduct(r.Context(), q.Slug)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// GetImages handles GET /api/v1/products/{slug}/images?color=
func (h *ProductHandler) GetImages(w http.ResponseWriter, r *http.Request) {
	q, err := parseProductQuery(r)
	if err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	images, err := h.service.SelectColor(r.Context(), q.Slug, q.Color)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: images})
}

// GetAvailability handles GET /api/v1/products/{slug}/availability?color=
func (h *ProductHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	q, err := parseProductQuery(r)
	if err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	availability, err := h.service.AvailableSizes(r.Context(), q.Slug, q.Color)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: availability})
}
