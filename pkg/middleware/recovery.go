package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	apperrors "github.com/Germanldb/winston-onepage-headless/pkg/errors"
	"github.com/Germanldb/winston-onepage-headless/pkg/httputil"
	"github.com/Germanldb/winston-onepage-headless/pkg/logger"
)

// Recovery turns a handler panic into the INTERNAL_ERROR envelope so a bad
// upstream payload cannot take the storefront API down. The panic is logged
// with the request-scoped logger. When the handler had already started the
// response, only the log line is written.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				logger.FromContext(r.Context(), l).ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", v),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Bool("response_started", rec.wroteHeader),
				)
				if rec.wroteHeader {
					return
				}

				appErr := apperrors.Internal(fmt.Errorf("panic: %v", v))
				w.Header().Set("Cache-Control", "no-store")
				httputil.WriteJSON(w, appErr.Status, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:      appErr.Code,
						Message:   appErr.Message,
						RequestID: logger.CorrelationIDFromContext(r.Context()),
					},
				})
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
