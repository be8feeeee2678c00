package http

import (
	"log/slog"
	"net/http"

	"github.com/Germanldb/winston-onepage-headless/pkg/httputil"
	"github.com/Germanldb/winston-onepage-headless/services/catalog/internal/service"
)

// ContentHandler serves the editorial look, reviews and cache warm-up.
type ContentHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewContentHandler creates a new content HTTP handler.
func NewContentHandler(svc *service.CatalogService, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{service: svc, logger: logger}
}

// GetLook handles GET /api/v1/look-of-the-week
func (h *ContentHandler) GetLook(w http.ResponseWriter, r *http.Request) {
	look, err := h.service.LookOfTheWeek(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: look})
}

// ListReviews handles GET /api/v1/reviews
func (h *ContentHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.service.Reviews(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// WarmCache handles GET and POST /api/v1/cache/warm
func (h *ContentHandler) WarmCache(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.WarmCache(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: report})
}
