package httpclient

import (
	nethttp "net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/gaborage/go-bria/logger"
)

// Builder constructs executor clients with a fluent interface.
type Builder struct {
	logger    logger.Logger
	config    Config
	transport nethttp.RoundTripper
	limiter   waiter
}

// NewBuilder creates a Builder with default configuration: 15s attempt
// timeout, 2 retries, 1s backoff base with 1.5 multiplier.
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{
		logger: log,
		config: Config{
			Timeout:            DefaultTimeout,
			MaxRetries:         DefaultMaxRetries,
			BackoffBase:        DefaultBackoffBase,
			BackoffMultiplier:  DefaultBackoffMultiplier,
			MaxPayloadLogBytes: DefaultMaxPayloadLogBytes,
		},
	}
}

// WithTimeout sets the per-attempt timeout.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithRetry configures the retry policy. maxRetries is the number of
// retries after the initial attempt.
func (b *Builder) WithRetry(maxRetries int, backoffBase time.Duration, backoffMultiplier float64) *Builder {
	b.config.MaxRetries = maxRetries
	b.config.BackoffBase = backoffBase
	b.config.BackoffMultiplier = backoffMultiplier
	return b
}

// WithDefaultHeaders sets headers applied to every request.
func (b *Builder) WithDefaultHeaders(headers map[string]string) *Builder {
	b.config.DefaultHeaders = headers
	return b
}

// WithInterceptors appends request interceptors executed before each attempt.
func (b *Builder) WithInterceptors(interceptors ...RequestInterceptor) *Builder {
	b.config.RequestInterceptors = append(b.config.RequestInterceptors, interceptors...)
	return b
}

// WithRateLimit installs a client-wide rate limiter waited on before each
// attempt.
func (b *Builder) WithRateLimit(rps float64, burst int) *Builder {
	b.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return b
}

// WithPayloadLogging enables debug-level logging of request and response
// payloads, capped at maxBytes per body.
func (b *Builder) WithPayloadLogging(maxBytes int) *Builder {
	b.config.LogPayloads = true
	if maxBytes > 0 {
		b.config.MaxPayloadLogBytes = maxBytes
	}
	return b
}

// WithTransport overrides the underlying RoundTripper.
func (b *Builder) WithTransport(rt nethttp.RoundTripper) *Builder {
	b.transport = rt
	return b
}

// Build constructs the Client.
func (b *Builder) Build() Client {
	cfg := b.config
	hc := &nethttp.Client{}
	if b.transport != nil {
		hc.Transport = b.transport
	}
	return &client{
		httpClient: hc,
		logger:     b.logger,
		config:     &cfg,
		limiter:    b.limiter,
		sleep:      sleepContext,
	}
}
