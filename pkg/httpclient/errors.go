package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/Germanldb/winston-onepage-headless/pkg/errors"
)

// maxErrorBody caps how much of an error response is kept for diagnostics.
const maxErrorBody = 512

// ParseResponseError reads the body of a non-2xx response and turns it into
// an *errors.UpstreamError. The body is consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		body = nil
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	return &apperrors.UpstreamError{
		Service:    serviceName,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

// ClassifyError maps a failure from Do into the catalog error taxonomy.
// Upstream status errors pass through. Caller cancellation passes through
// unchanged. Network failures, timeouts and an open breaker become
// Unavailable.
func ClassifyError(serviceName string, err error) error {
	if err == nil {
		return nil
	}
	var upErr *apperrors.UpstreamError
	if errors.As(err, &upErr) {
		return err
	}
	if isCallerCancellation(err) {
		return err
	}
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTooManyRequests) {
		return apperrors.Unavailable(serviceName, fmt.Errorf("circuit open: %w", err))
	}
	return apperrors.Unavailable(serviceName, err)
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}

func isCallerCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}
