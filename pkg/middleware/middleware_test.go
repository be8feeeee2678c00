package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Germanldb/winston-onepage-headless/pkg/logger"
)

func TestRequestLogging_GeneratesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("catalog", "info", &buf)

	var seen string
	handler := RequestLogging(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.CorrelationIDFromContext(r.Context())
		logger.FromContext(r.Context(), nil).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=2", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(CorrelationIDHeader))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var inner, access map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &inner))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &access))
	assert.Equal(t, seen, inner["correlation_id"])
	assert.Equal(t, "http request", access["msg"])
	assert.Equal(t, float64(http.StatusTeapot), access["status"])
	assert.Equal(t, "page=2", access["query"])
}

func TestRequestLogging_KeepsInboundCorrelationID(t *testing.T) {
	handler := RequestLogging(logger.Discard())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(CorrelationIDHeader))
}

func TestRecovery(t *testing.T) {
	handler := Recovery(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestRecovery_UsesScopedLoggerAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogging(logger.NewWithWriter("catalog", "info", &buf))(
		Recovery(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("nil variation")
		})),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/zapato-bogota", nil)
	req.Header.Set(CorrelationIDHeader, "corr-9")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body struct {
		Error struct {
			Code      string `json:"code"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.Equal(t, "corr-9", body.Error.RequestID)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var panicLine map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &panicLine))
	assert.Equal(t, "panic recovered", panicLine["msg"])
	assert.Equal(t, "corr-9", panicLine["correlation_id"])
	assert.Equal(t, false, panicLine["response_started"])
}

func TestRecovery_AfterResponseStarted(t *testing.T) {
	var buf bytes.Buffer
	handler := Recovery(logger.NewWithWriter("catalog", "info", &buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":[`))
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"data":[`, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Cache-Control"))
	assert.Contains(t, buf.String(), `"response_started":true`)
}

func TestRecovery_AbortHandlerRepanics(t *testing.T) {
	handler := Recovery(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestCacheControl(t *testing.T) {
	tests := []struct {
		name   string
		method string
		status int
		preset string
		want   string
	}{
		{"SuccessfulGet", http.MethodGet, http.StatusOK, "", CatalogCacheControl},
		{"NotFound", http.MethodGet, http.StatusNotFound, "", "no-store"},
		{"Unavailable", http.MethodGet, http.StatusServiceUnavailable, "", "no-store"},
		{"HandlerChoiceKept", http.MethodGet, http.StatusOK, "no-cache", "no-cache"},
		{"PostUntouched", http.MethodPost, http.StatusOK, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CacheControl(CatalogCacheControl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.preset != "" {
					w.Header().Set("Cache-Control", tt.preset)
				}
				w.WriteHeader(tt.status)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, "/", nil))
			assert.Equal(t, tt.want, rec.Header().Get("Cache-Control"))
		})
	}
}

func TestCacheControl_ImplicitWrite(t *testing.T) {
	handler := CacheControl(CatalogCacheControl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, CatalogCacheControl, rec.Header().Get("Cache-Control"))
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(1, 2, logger.Discard())(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.9:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1", rec.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.10:5555"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "other clients keep their own bucket")
}

func TestRateLimit_DisabledWhenZero(t *testing.T) {
	handler := RateLimit(0, 0, logger.Discard())(okHandler())
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestVisitorStore_ReusesLimiter(t *testing.T) {
	s := newVisitorStore(5, 5, time.Minute)
	a := s.limiter("1.1.1.1")
	b := s.limiter("1.1.1.1")
	s.limiter("2.2.2.2")

	assert.Same(t, a, b)
	assert.Equal(t, 2, s.len())
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", clientIP(req))

	req.Header.Set("X-Forwarded-For", " 203.0.113.5 , 10.0.0.1")
	assert.Equal(t, "203.0.113.5", clientIP(req))
}
