package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Germanldb/winston-onepage-headless/pkg/logger"
)

const attrCorrelationID = attribute.Key("catalog.correlation_id")

// Tracing opens a server span for each catalog request and joins any inbound
// W3C trace context. Mounted inside RequestLogging, it tags the span with the
// correlation ID and re-scopes the request logger with trace_id and span_id,
// so handler and upstream logs can be matched to the trace.
func Tracing(serviceName string) func(http.Handler) http.Handler {
	tracer := otel.Tracer("github.com/Germanldb/winston-onepage-headless/services/" + serviceName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			propagator := otel.GetTextMapPropagator()
			parent := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			attrs := []attribute.KeyValue{
				semconv.HTTPMethod(r.Method),
				semconv.HTTPTarget(r.URL.RequestURI()),
				semconv.HTTPScheme(scheme(r)),
				semconv.UserAgentOriginal(r.UserAgent()),
			}
			if id := logger.CorrelationIDFromContext(r.Context()); id != "" {
				attrs = append(attrs, attrCorrelationID.String(id))
			}

			ctx, span := tracer.Start(parent, r.Method+" "+r.URL.Path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			ctx = withTraceLogger(ctx, span.SpanContext())
			propagator.Inject(ctx, propagation.HeaderCarrier(w.Header()))

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			finishSpan(span, r, rec.status)
		})
	}
}

// withTraceLogger stores a copy of the request logger carrying the span ids.
// Without a scoped logger in ctx there is nothing to enrich.
func withTraceLogger(ctx context.Context, sc trace.SpanContext) context.Context {
	l, ok := logger.Scoped(ctx)
	if !ok || !sc.IsValid() {
		return ctx
	}
	return logger.NewContext(ctx, l.With(
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	))
}

// finishSpan names the span after the matched chi route, so product slugs
// never end up in span names, and records the response status.
func finishSpan(span trace.Span, r *http.Request, status int) {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			span.SetName(r.Method + " " + pattern)
			span.SetAttributes(attribute.String("http.route", pattern))
		}
	}

	span.SetAttributes(semconv.HTTPStatusCode(status))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}

func scheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	return "http"
}
