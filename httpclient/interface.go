// Package httpclient implements the shared call executor for the Bria
// API: JSON POST requests with a per-attempt timeout, transient/terminal
// error classification, exponential backoff, and structured attempt
// logging with credential masking.
package httpclient

import (
	"context"
	nethttp "net/http"
	"time"

	gobriatrace "github.com/gaborage/go-bria/trace"
)

const (
	// HeaderXRequestID is the standard header name for request correlation
	HeaderXRequestID = gobriatrace.HeaderXRequestID

	// DefaultTimeout bounds a single attempt
	DefaultTimeout = 15 * time.Second
	// DefaultMaxRetries is the number of retries after the initial attempt
	DefaultMaxRetries = 2
	// DefaultBackoffBase is the base sleep before the first retry
	DefaultBackoffBase = 1 * time.Second
	// DefaultBackoffMultiplier grows the sleep on each subsequent retry
	DefaultBackoffMultiplier = 1.5
	// DefaultMaxPayloadLogBytes caps logged body previews
	DefaultMaxPayloadLogBytes = 1024
)

// Client executes JSON POST requests against the API.
type Client interface {
	// Post performs the request and returns the raw response. Transient
	// failures (network errors, timeouts, 429, 5xx) are retried with
	// exponential backoff; 4xx responses other than 429 fail immediately.
	Post(ctx context.Context, req *Request) (*Response, error)
	// PostJSON performs the request and decodes the response body as a
	// JSON object. A body that is not valid JSON fails with a decode
	// error even on a 2xx status.
	PostJSON(ctx context.Context, req *Request) (map[string]any, error)
}

// Request represents an outbound API request.
type Request struct {
	URL     string
	Headers map[string]string
	Body    []byte
	// Credential is used only for masked logging; the transport
	// authentication rides in Headers.
	Credential string
}

// Response represents an API response with execution statistics.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
	Stats      Stats
}

// Stats contains request execution statistics.
type Stats struct {
	ElapsedTime time.Duration
	Attempts    int
}

// RequestInterceptor is called before each attempt is sent.
type RequestInterceptor func(ctx context.Context, req *nethttp.Request) error

// Config holds the executor configuration.
type Config struct {
	// Timeout bounds each individual attempt.
	Timeout time.Duration
	// MaxRetries is the number of retries after the initial attempt;
	// total attempts are MaxRetries+1. Negative values disable retries.
	MaxRetries int
	// BackoffBase and BackoffMultiplier compute the sleep before retry n
	// (1-based) as BackoffBase × BackoffMultiplier^n.
	BackoffBase       time.Duration
	BackoffMultiplier float64
	// RequestInterceptors run before every attempt.
	RequestInterceptors []RequestInterceptor
	// DefaultHeaders are applied to every request; per-request headers win.
	DefaultHeaders map[string]string
	// LogPayloads enables debug-level logging of headers and body payloads
	LogPayloads bool
	// MaxPayloadLogBytes caps the number of body bytes logged when LogPayloads is enabled
	MaxPayloadLogBytes int
}

// NewRequestIDInterceptor creates an interceptor that stamps the request
// correlation header from context, generating an ID when none is present.
func NewRequestIDInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *nethttp.Request) error {
		if req.Header.Get(HeaderXRequestID) == "" {
			req.Header.Set(HeaderXRequestID, gobriatrace.EnsureID(ctx))
		}
		return nil
	}
}
