package httpclient

import (
	"context"
	"errors"
	"math"
	"net"
	nethttp "net/http"
	"time"
)

// isTransientStatus reports whether a status code should be retried:
// 429 or any 5xx. Any other non-2xx status fails immediately.
func isTransientStatus(code int) bool {
	return code == nethttp.StatusTooManyRequests || (code >= 500 && code < 600)
}

// isTimeoutErr reports whether a transport error was a timeout, either at
// the net layer or via context deadline expiry.
func isTimeoutErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// backoffDelay computes the sleep before retry n (1-based) as
// base × multiplier^n. Non-positive inputs fall back to the defaults.
func backoffDelay(base time.Duration, multiplier float64, retry int) time.Duration {
	if base <= 0 {
		base = DefaultBackoffBase
	}
	if multiplier <= 0 {
		multiplier = DefaultBackoffMultiplier
	}
	if retry < 1 {
		retry = 1
	}
	return time.Duration(float64(base) * math.Pow(multiplier, float64(retry)))
}

// sleepContext blocks for d or until the context is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
