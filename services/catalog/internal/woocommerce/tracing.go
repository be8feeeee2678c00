package woocommerce

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Germanldb/winston-onepage-headless/services/catalog/internal/woocommerce"

// traceRequest starts a client span for an upstream call. The returned
// function must be called when the call completes:
//
//	ctx, end := c.traceRequest(ctx, "products_by_slug", endpoint)
//	defer func() { end(status, err) }()
//
// Calls slower than the configured threshold are logged as warnings.
func (c *Client) traceRequest(ctx context.Context, operation, endpoint string) (context.Context, func(int, error)) {
	start := time.Now()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "woocommerce."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("upstream.system", "woocommerce"),
			attribute.String("upstream.operation", operation),
			attribute.String("http.url", endpoint),
		),
	)

	return ctx, func(status int, err error) {
		elapsed := time.Since(start)
		if status > 0 {
			span.SetAttributes(attribute.Int("http.status_code", status))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		observe(operation, status, err, elapsed)

		if c.cfg.SlowRequestThreshold > 0 && elapsed >= c.cfg.SlowRequestThreshold {
			attrs := []any{
				slog.String("operation", operation),
				slog.String("endpoint", endpoint),
				slog.Duration("duration", elapsed),
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
			}
			c.logger.WarnContext(ctx, "slow upstream request", attrs...)
		}
	}
}
