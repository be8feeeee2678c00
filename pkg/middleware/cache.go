package middleware

import (
	"net/http"
)

// CatalogCacheControl lets shared caches keep catalog reads for a day and
// serve them stale for a week while revalidating.
const CatalogCacheControl = "public, s-maxage=86400, stale-while-revalidate=604800"

// CacheControl sets the given Cache-Control directive on successful GET and
// HEAD responses. Error responses get no-store unless the handler already
// chose a directive.
func CacheControl(directive string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(&cacheControlWriter{ResponseWriter: w, directive: directive}, r)
		})
	}
}

type cacheControlWriter struct {
	http.ResponseWriter
	directive string
	decided   bool
}

func (w *cacheControlWriter) decide(status int) {
	if w.decided {
		return
	}
	w.decided = true
	h := w.Header()
	if h.Get("Cache-Control") != "" {
		return
	}
	if status < http.StatusBadRequest {
		h.Set("Cache-Control", w.directive)
	} else {
		h.Set("Cache-Control", "no-store")
	}
}

func (w *cacheControlWriter) WriteHeader(code int) {
	w.decide(code)
	w.ResponseWriter.WriteHeader(code)
}

func (w *cacheControlWriter) Write(b []byte) (int, error) {
	w.decide(http.StatusOK)
	return w.ResponseWriter.Write(b)
}

func (w *cacheControlWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
