package llm

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"resume-builder/internal/shared/telemetry"
)

// RetryDelay is the pause before the single retry of a transient failure.
var RetryDelay = 300 * time.Millisecond

type retrying struct {
	base Client
}

// WithRetry retries a failed completion once when the error looks transient.
func WithRetry(base Client) Client {
	if base == nil {
		return nil
	}
	return retrying{base: base}
}

func (r retrying) Complete(ctx context.Context, req Request) (string, error) {
	out, err := r.base.Complete(ctx, req)
	if err == nil || !ShouldRetry(err) {
		return out, err
	}

	telemetry.Warn("llm.retry", map[string]any{
		"operation": req.Operation,
		"attempt":   1,
		"error":     err,
	})
	select {
	case <-time.After(RetryDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return r.base.Complete(ctx, req)
}

// ShouldRetry reports whether err is a timeout, a 5xx or a dropped connection.
func ShouldRetry(err error) bool {
	if err == nil || errors.Is(err, ErrNotConfigured) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "server_error") {
		return true
	}
	if strings.Contains(msg, "timeout") {
		return true
	}
	for _, s := range []string{"connection reset", "connection refused", "connection closed", "broken pipe", "unexpected eof"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
