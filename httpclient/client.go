package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/gaborage/go-bria/logger"
	gobriatrace "github.com/gaborage/go-bria/trace"
)

type client struct {
	httpClient *nethttp.Client
	logger     logger.Logger
	config     *Config
	limiter    waiter
	// sleep is a seam for tests; production clients use sleepContext.
	sleep func(ctx context.Context, d time.Duration) error
}

// waiter is satisfied by *rate.Limiter.
type waiter interface {
	Wait(ctx context.Context) error
}

var _ Client = (*client)(nil)

// Post executes the request with bounded retries. Each transient failure
// (transport error, timeout, 429, 5xx) is retried up to MaxRetries times
// with exponential backoff; 4xx responses other than 429 fail immediately
// with the status and body in the error.
func (c *client) Post(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, NewValidationError("request is nil", "")
	}
	if strings.TrimSpace(req.URL) == "" {
		return nil, NewValidationError("request URL is empty", "url")
	}

	maxRetries := c.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	requestID := gobriatrace.EnsureID(ctx)
	start := time.Now()

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, NewNetworkError("request context done", err)
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, NewNetworkError("rate limiter wait failed", err)
			}
		}

		resp, err := c.attempt(ctx, req, requestID, attempt)
		if err != nil {
			// Transport-level failure: transient by definition.
			lastErr = err
			if !IsErrorType(err, NetworkError) && !IsErrorType(err, TimeoutError) {
				return nil, err
			}
		} else {
			resp.Stats = Stats{ElapsedTime: time.Since(start), Attempts: attempt + 1}
			c.logResponse(resp, requestID, attempt)

			if IsSuccessStatus(resp.StatusCode) {
				return resp, nil
			}
			if !isTransientStatus(resp.StatusCode) {
				return nil, NewHTTPError("request failed", resp.StatusCode, resp.Body)
			}
			lastErr = NewHTTPError("transient server error", resp.StatusCode, resp.Body)
		}

		if attempt < maxRetries {
			wait := backoffDelay(c.config.BackoffBase, c.config.BackoffMultiplier, attempt+1)
			c.logRetry(requestID, attempt, wait, lastErr)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, NewNetworkError("retry wait aborted", err)
			}
		}
	}

	return nil, NewRetryExhaustedError(maxRetries+1, lastErr)
}

// PostJSON executes the request and decodes the response body as a JSON
// object. A body that cannot be parsed is a terminal decode error even on
// a 2xx status.
func (c *client) PostJSON(ctx context.Context, req *Request) (map[string]any, error) {
	resp, err := c.Post(ctx, req)
	if err != nil {
		return nil, err
	}

	var decoded map[string]any
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		return nil, NewDecodeError(
			fmt.Sprintf("response is not valid JSON (status %d)", resp.StatusCode), err)
	}
	return decoded, nil
}

// attempt performs a single POST with its own timeout context and returns
// the full response, or a typed transport error.
func (c *client) attempt(ctx context.Context, req *Request, requestID string, attempt int) (*Response, error) {
	timeout := c.config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := nethttp.NewRequestWithContext(attemptCtx, nethttp.MethodPost, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("invalid request: %v", err), "url")
	}

	for k, v := range c.config.DefaultHeaders {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if httpReq.Header.Get(HeaderXRequestID) == "" {
		httpReq.Header.Set(HeaderXRequestID, requestID)
	}

	for _, interceptor := range c.config.RequestInterceptors {
		if interceptor == nil {
			continue
		}
		if err := interceptor(attemptCtx, httpReq); err != nil {
			return nil, NewInterceptorError("request interceptor failed", err)
		}
	}

	c.logRequest(httpReq, req, requestID, attempt)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeoutErr(err) {
			return nil, NewTimeoutError(fmt.Sprintf("POST %s", req.URL), timeout)
		}
		return nil, NewNetworkError(fmt.Sprintf("POST %s", req.URL), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeoutErr(err) {
			return nil, NewTimeoutError(fmt.Sprintf("reading response from %s", req.URL), timeout)
		}
		return nil, NewNetworkError("reading response body", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Headers:    resp.Header,
	}, nil
}
