package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/Germanldb/winston-onepage-headless/pkg/errors"
	"github.com/Germanldb/winston-onepage-headless/pkg/logger"
	"github.com/Germanldb/winston-onepage-headless/pkg/validator"
)

// DefaultRetryAfter is the Retry-After value, in seconds, sent with 503 responses.
const DefaultRetryAfter = 30

// Response is the standard JSON response envelope.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse represents an error in the standard response format.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err onto the error envelope. Upstream and internal
// failures are logged with the request-scoped logger; their details never
// reach the client. 503 responses carry Retry-After and are never cached.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context(), fallback)
	requestID := logger.CorrelationIDFromContext(r.Context())

	status := apperrors.HTTPStatus(err)
	code, message := errorCode(err, status)

	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.Int("status", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	if status >= http.StatusBadRequest {
		w.Header().Set("Cache-Control", "no-store")
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", strconv.Itoa(DefaultRetryAfter))
	}

	WriteJSON(w, status, Response{
		Error: &ErrorResponse{Code: code, Message: message, RequestID: requestID},
	})
}

func errorCode(err error, status int) (string, string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Code, appErr.Message
	}
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND", "resource not found"
	case http.StatusBadRequest:
		return "INVALID_INPUT", err.Error()
	case http.StatusBadGateway:
		return "UPSTREAM_ERROR", "the product catalog returned an unexpected response"
	case http.StatusServiceUnavailable:
		return "UPSTREAM_UNAVAILABLE", "the product catalog is temporarily unavailable"
	default:
		return "INTERNAL_ERROR", "an internal error occurred"
	}
}

// PaginatedResponse is a generic paginated list response envelope.
type PaginatedResponse[T any] struct {
	Data     []T      `json:"data"`
	Page     int      `json:"page"`
	PerPage  int      `json:"per_page"`
	Count    int      `json:"count"`
	HasNext  bool     `json:"has_next"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewPaginatedResponse builds a page envelope. The upstream does not report
// totals, so HasNext is true whenever the page came back full.
func NewPaginatedResponse[T any](data []T, page, perPage int, fullPage bool) PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}
	return PaginatedResponse[T]{
		Data:    data,
		Page:    page,
		PerPage: perPage,
		Count:   len(data),
		HasNext: fullPage,
	}
}

// WriteValidationError writes a standardized validation error response.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Error: &ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, Response{
		Error: &ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}
