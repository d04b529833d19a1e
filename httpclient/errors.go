package httpclient

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType identifies the classification of a client error.
type ErrorType string

const (
	// NetworkError covers transport-level failures (connection refused,
	// DNS, resets). Retried.
	NetworkError ErrorType = "network"
	// TimeoutError covers attempts that exceeded their timeout. Retried.
	TimeoutError ErrorType = "timeout"
	// HTTPError covers non-2xx responses. 4xx other than 429 is terminal;
	// 429 and 5xx are retried and surface as the cause of retry exhaustion.
	HTTPError ErrorType = "http"
	// DecodeError covers response bodies that are not valid JSON. Terminal.
	DecodeError ErrorType = "decode"
	// ValidationError covers invalid caller input. Raised before any
	// network activity.
	ValidationError ErrorType = "validation"
	// InterceptorError covers failures raised by request interceptors.
	InterceptorError ErrorType = "interceptor"
	// RetryExhaustedError is raised when all attempts were consumed
	// without success.
	RetryExhaustedError ErrorType = "retry_exhausted"
)

// ClientError is the common interface for all errors produced by the
// executor and the payload builders.
type ClientError interface {
	error
	Type() ErrorType
}

type networkError struct {
	message string
	err     error
}

func (e *networkError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("network error: %s: %v", e.message, e.err)
	}
	return fmt.Sprintf("network error: %s", e.message)
}

func (e *networkError) Type() ErrorType { return NetworkError }
func (e *networkError) Unwrap() error   { return e.err }

// NewNetworkError creates a transport-level error, optionally wrapping a cause.
func NewNetworkError(message string, err error) ClientError {
	return &networkError{message: message, err: err}
}

type timeoutError struct {
	message string
	timeout time.Duration
	err     error
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("timeout error: %s (after %s)", e.message, e.timeout)
}

func (e *timeoutError) Type() ErrorType { return TimeoutError }
func (e *timeoutError) Unwrap() error   { return e.err }

// NewTimeoutError creates an error for an attempt that exceeded its timeout.
func NewTimeoutError(message string, timeout time.Duration) ClientError {
	return &timeoutError{message: message, timeout: timeout}
}

type httpError struct {
	message    string
	statusCode int
	body       []byte
}

func (e *httpError) Error() string {
	if len(e.body) > 0 {
		return fmt.Sprintf("HTTP error %d: %s: %s", e.statusCode, e.message, e.body)
	}
	return fmt.Sprintf("HTTP error %d: %s", e.statusCode, e.message)
}

func (e *httpError) Type() ErrorType { return HTTPError }
func (e *httpError) StatusCode() int { return e.statusCode }
func (e *httpError) Body() []byte    { return e.body }

// NewHTTPError creates an error for a non-2xx response carrying the
// status code and raw body text.
func NewHTTPError(message string, statusCode int, body []byte) ClientError {
	return &httpError{message: message, statusCode: statusCode, body: body}
}

type decodeError struct {
	message string
	err     error
}

func (e *decodeError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("decode error: %s: %v", e.message, e.err)
	}
	return fmt.Sprintf("decode error: %s", e.message)
}

func (e *decodeError) Type() ErrorType { return DecodeError }
func (e *decodeError) Unwrap() error   { return e.err }

// NewDecodeError creates an error for a response body that is not valid JSON.
func NewDecodeError(message string, err error) ClientError {
	return &decodeError{message: message, err: err}
}

type validationError struct {
	message string
	field   string
}

func (e *validationError) Error() string {
	if e.field != "" {
		return fmt.Sprintf("validation error on field %q: %s", e.field, e.message)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

func (e *validationError) Type() ErrorType { return ValidationError }
func (e *validationError) Field() string   { return e.field }

// NewValidationError creates an input-validation error, optionally naming
// the offending field.
func NewValidationError(message, field string) ClientError {
	return &validationError{message: message, field: field}
}

type interceptorError struct {
	message string
	err     error
}

func (e *interceptorError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("interceptor error: %s: %v", e.message, e.err)
	}
	return fmt.Sprintf("interceptor error: %s", e.message)
}

func (e *interceptorError) Type() ErrorType { return InterceptorError }
func (e *interceptorError) Unwrap() error   { return e.err }

// NewInterceptorError creates an error for a failed request interceptor.
func NewInterceptorError(message string, err error) ClientError {
	return &interceptorError{message: message, err: err}
}

type retryExhaustedError struct {
	attempts int
	err      error
}

func (e *retryExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.attempts, e.err)
}

func (e *retryExhaustedError) Type() ErrorType { return RetryExhaustedError }
func (e *retryExhaustedError) Attempts() int   { return e.attempts }
func (e *retryExhaustedError) Unwrap() error   { return e.err }

// NewRetryExhaustedError creates an error summarizing the last transient
// failure after all attempts were consumed.
func NewRetryExhaustedError(attempts int, err error) ClientError {
	return &retryExhaustedError{attempts: attempts, err: err}
}

// IsErrorType reports whether err is (or wraps) a ClientError of the
// given type.
func IsErrorType(err error, errorType ErrorType) bool {
	var ce ClientError
	if errors.As(err, &ce) {
		return ce.Type() == errorType
	}
	return false
}

// IsHTTPStatusError reports whether err is an HTTP error with the given
// status code.
func IsHTTPStatusError(err error, statusCode int) bool {
	var he *httpError
	if errors.As(err, &he) {
		return he.statusCode == statusCode
	}
	return false
}

// IsSuccessStatus reports whether a status code is in the 2xx range.
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
