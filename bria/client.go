// Package bria is a client for the Bria image-generation HTTP API.
// Each operation builds a JSON payload and delegates to a shared
// retrying executor, so transient failures, timeouts, and credential
// masking behave the same way across endpoints.
package bria

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/gaborage/go-bria/httpclient"
	"github.com/gaborage/go-bria/logger"
)

const (
	// DefaultBaseURL is the production Bria API engine.
	DefaultBaseURL = "https://engine.prod.bria-api.com"

	headerAccept        = "Accept"
	headerContentType   = "Content-Type"
	headerAPIToken      = "api_token"
	headerAuthorization = "Authorization"

	contentTypeJSON = "application/json"
)

var validate = validator.New()

// Client calls the Bria API. It is safe for concurrent use; each call is
// independent and retries sequentially within the call.
type Client struct {
	apiKey  string
	baseURL string
	exec    httpclient.Client
	log     logger.Logger
}

type clientOptions struct {
	baseURL           string
	log               logger.Logger
	timeout           time.Duration
	maxRetries        int
	backoffBase       time.Duration
	backoffMultiplier float64
	rateRPS           float64
	rateBurst         int
	payloadLogBytes   int
	logPayloads       bool
	exec              httpclient.Client
}

// Option configures a Client.
type Option func(*clientOptions)

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) { o.baseURL = baseURL }
}

// WithLogger sets the structured logger used by the executor.
func WithLogger(log logger.Logger) Option {
	return func(o *clientOptions) { o.log = log }
}

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) { o.timeout = timeout }
}

// WithRetryPolicy configures the retry ceiling and backoff parameters.
// maxRetries is the number of retries after the initial attempt.
func WithRetryPolicy(maxRetries int, backoffBase time.Duration, backoffMultiplier float64) Option {
	return func(o *clientOptions) {
		o.maxRetries = maxRetries
		o.backoffBase = backoffBase
		o.backoffMultiplier = backoffMultiplier
	}
}

// WithRateLimit bounds the outbound request rate across all calls made
// through this client.
func WithRateLimit(rps float64, burst int) Option {
	return func(o *clientOptions) {
		o.rateRPS = rps
		o.rateBurst = burst
	}
}

// WithPayloadLogging enables debug-level request/response payload logging
// capped at maxBytes per body.
func WithPayloadLogging(maxBytes int) Option {
	return func(o *clientOptions) {
		o.logPayloads = true
		o.payloadLogBytes = maxBytes
	}
}

// WithExecutor replaces the underlying call executor. Intended for tests
// and advanced transport customization.
func WithExecutor(exec httpclient.Client) Option {
	return func(o *clientOptions) { o.exec = exec }
}

// New creates a Client for the given API key. The key is required; all
// other settings default to the production endpoint with a 15s timeout
// and 2 retries.
func New(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, httpclient.NewValidationError("API key is missing", "api_key")
	}

	o := &clientOptions{
		baseURL:           DefaultBaseURL,
		timeout:           httpclient.DefaultTimeout,
		maxRetries:        httpclient.DefaultMaxRetries,
		backoffBase:       httpclient.DefaultBackoffBase,
		backoffMultiplier: httpclient.DefaultBackoffMultiplier,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.log == nil {
		o.log = logger.New("info", false)
	}

	exec := o.exec
	if exec == nil {
		builder := httpclient.NewBuilder(o.log).
			WithTimeout(o.timeout).
			WithRetry(o.maxRetries, o.backoffBase, o.backoffMultiplier).
			WithInterceptors(httpclient.NewRequestIDInterceptor())
		if o.rateRPS > 0 {
			builder = builder.WithRateLimit(o.rateRPS, o.rateBurst)
		}
		if o.logPayloads {
			builder = builder.WithPayloadLogging(o.payloadLogBytes)
		}
		exec = builder.Build()
	}

	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(o.baseURL, "/"),
		exec:    exec,
		log:     o.log,
	}, nil
}

// headers returns the authentication and content headers sent on every
// call: the provider-specific api_token header plus an Authorization
// bearer fallback carrying the same credential.
func (c *Client) headers() map[string]string {
	return map[string]string{
		headerAccept:        contentTypeJSON,
		headerContentType:   contentTypeJSON,
		headerAPIToken:      c.apiKey,
		headerAuthorization: "Bearer " + c.apiKey,
	}
}

// call marshals the payload and executes the POST through the shared
// executor, returning the decoded JSON response.
func (c *Client) call(ctx context.Context, path string, payload map[string]any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, httpclient.NewValidationError(fmt.Sprintf("payload not serializable: %v", err), "")
	}
	return c.exec.PostJSON(ctx, &httpclient.Request{
		URL:        c.baseURL + path,
		Headers:    c.headers(),
		Body:       body,
		Credential: c.apiKey,
	})
}

// validateRequest runs struct validation and converts the first failure
// into an input-validation error naming the offending field.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		msg := fmt.Sprintf("invalid value (failed %q)", fe.Tag())
		if fe.Tag() == "required" {
			msg = "required value is missing"
		}
		if strings.HasPrefix(fe.Tag(), "required_without") {
			msg = fmt.Sprintf("either %s or %s must be provided", fe.Field(), fe.Param())
		}
		return httpclient.NewValidationError(msg, fe.Field())
	}
	return httpclient.NewValidationError(err.Error(), "")
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// boolValue dereferences an optional flag, applying its default when unset.
func boolValue(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
