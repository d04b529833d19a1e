package httpclient

import (
	nethttp "net/http"
	"time"

	"github.com/gaborage/go-bria/logger"
)

const (
	// noCredentialPlaceholder is logged when no usable credential is attached.
	noCredentialPlaceholder = "<no-key>"

	msgClientRequest  = "API client request"
	msgClientResponse = "API client response"
	msgClientRetry    = "API client retry"
)

// maskedCredential returns the loggable form of a credential: first and
// last four characters, or a placeholder when missing or too short.
func maskedCredential(credential string) string {
	if credential == "" {
		return noCredentialPlaceholder
	}
	return logger.ElideSecret(credential, noCredentialPlaceholder)
}

func (c *client) logRequest(httpReq *nethttp.Request, req *Request, requestID string, attempt int) {
	event := c.logger.Info().
		Str("direction", "outbound").
		Str("method", httpReq.Method).
		Str("url", httpReq.URL.String()).
		Str("request_id", requestID).
		Int("attempt", attempt).
		Str("api_key", maskedCredential(req.Credential))

	if count := len(httpReq.Header); count > 0 {
		event = event.Int("header_count", count)
	}
	if len(req.Body) > 0 {
		event = event.Int("body_size", len(req.Body))
	}
	event.Msg(msgClientRequest)

	if c.config.LogPayloads {
		preview, truncated := c.payloadPreview(req.Body)
		c.logger.Debug().
			Str("direction", "outbound").
			Str("method", httpReq.Method).
			Str("url", httpReq.URL.String()).
			Str("request_id", requestID).
			Interface("headers", redactHeaders(httpReq.Header)).
			Int("body_size", len(req.Body)).
			Str("body_truncated", boolString(truncated)).
			Bytes("body_preview", preview).
			Msg(msgClientRequest)
	}
}

func (c *client) logResponse(resp *Response, requestID string, attempt int) {
	event := c.logger.Info().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Int("attempt", attempt).
		Str("request_id", requestID)

	if len(resp.Body) > 0 {
		event = event.Int("body_size", len(resp.Body))
	}
	event.Msg(msgClientResponse)

	if c.config.LogPayloads {
		preview, truncated := c.payloadPreview(resp.Body)
		c.logger.Debug().
			Str("direction", "inbound").
			Int("status", resp.StatusCode).
			Str("request_id", requestID).
			Interface("headers", resp.Headers).
			Int("body_size", len(resp.Body)).
			Str("body_truncated", boolString(truncated)).
			Bytes("body_preview", preview).
			Msg(msgClientResponse)
	}
}

func (c *client) logRetry(requestID string, attempt int, wait time.Duration, cause error) {
	c.logger.Warn().
		Err(cause).
		Str("request_id", requestID).
		Int("attempt", attempt).
		Dur("wait", wait).
		Msg(msgClientRetry)
}

func (c *client) payloadPreview(body []byte) ([]byte, bool) {
	limit := c.config.MaxPayloadLogBytes
	if limit <= 0 {
		limit = DefaultMaxPayloadLogBytes
	}
	if len(body) > limit {
		return body[:limit], true
	}
	return body, false
}

var headerFilter = logger.NewSensitiveDataFilter(nil)

// redactHeaders copies headers with credential-bearing values elided.
func redactHeaders(h nethttp.Header) map[string]string {
	redacted := make(map[string]string, len(h))
	for k := range h {
		redacted[k] = headerFilter.FilterString(k, h.Get(k))
	}
	return redacted
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
