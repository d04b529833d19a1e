package bria

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/go-bria/httpclient"
	"github.com/gaborage/go-bria/logger"
)

const testAPIKey = "abcd1234efgh"

type capturedCall struct {
	path    string
	headers http.Header
	payload map[string]any
}

// newCaptureServer records every request and replies with the given
// status and body.
func newCaptureServer(t *testing.T, status int, respBody string) (*httptest.Server, *[]capturedCall) {
	t.Helper()
	calls := &[]capturedCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		*calls = append(*calls, capturedCall{path: r.URL.Path, headers: r.Header.Clone(), payload: payload})
		w.WriteHeader(status)
		_, _ = w.Write([]byte(respBody))
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

// newTestClient points a client with fast retries and silent logging at
// the given server.
func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(testAPIKey,
		WithBaseURL(srv.URL),
		WithLogger(logger.New("disabled", false)),
		WithTimeout(2*time.Second),
		WithRetryPolicy(0, time.Millisecond, 1.0),
	)
	require.NoError(t, err)
	return c
}

func TestNewRequiresAPIKey(t *testing.T) {
	tests := []struct {
		name   string
		apiKey string
	}{
		{"empty key", ""},
		{"whitespace key", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.apiKey)
			assert.Nil(t, c)
			require.Error(t, err)
			assert.True(t, httpclient.IsErrorType(err, httpclient.ValidationError))
			assert.Contains(t, err.Error(), "API key is missing")
		})
	}
}

func TestNewDefaults(t *testing.T) {
	c, err := New(testAPIKey)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.NotNil(t, c.exec)
	assert.NotNil(t, c.log)
}

func TestNewTrimsCredentialWhitespace(t *testing.T) {
	srv, calls := newCaptureServer(t, http.StatusOK, `{}`)
	c, err := New("  "+testAPIKey+"\n",
		WithBaseURL(srv.URL),
		WithLogger(logger.New("disabled", false)),
		WithRetryPolicy(0, time.Millisecond, 1.0),
	)
	require.NoError(t, err)

	_, err = c.EraseForeground(context.Background(), EraseForegroundRequest{ImageURL: "https://example.com/in.png"})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	assert.Equal(t, testAPIKey, (*calls)[0].headers.Get("api_token"))
}

func TestAuthHeadersCarrySameCredential(t *testing.T) {
	srv, calls := newCaptureServer(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv)

	_, err := c.EraseForeground(context.Background(), EraseForegroundRequest{ImageURL: "https://example.com/in.png"})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	headers := (*calls)[0].headers
	assert.Equal(t, "application/json", headers.Get("Accept"))
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, testAPIKey, headers.Get("api_token"))
	assert.Equal(t, "Bearer "+testAPIKey, headers.Get("Authorization"))
	assert.NotEmpty(t, headers.Get("X-Request-ID"))
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	srv, calls := newCaptureServer(t, http.StatusOK, `{}`)
	c, err := New(testAPIKey,
		WithBaseURL(srv.URL+"/"),
		WithLogger(logger.New("disabled", false)),
		WithRetryPolicy(0, time.Millisecond, 1.0),
	)
	require.NoError(t, err)

	_, err = c.EraseForeground(context.Background(), EraseForegroundRequest{ImageURL: "https://example.com/in.png"})
	require.NoError(t, err)
	assert.Equal(t, "/v1/erase_foreground", (*calls)[0].path)
}

// TestValidationBlocksNetworkActivity covers the contract that every
// operation validates its inputs before any request leaves the client.
func TestValidationBlocksNetworkActivity(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	c := newTestClient(t, srv)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{
			"erase foreground without image source",
			func() error {
				_, err := c.EraseForeground(ctx, EraseForegroundRequest{})
				return err
			},
		},
		{
			"HD image without prompt",
			func() error {
				_, err := c.GenerateHDImage(ctx, GenerateHDImageRequest{})
				return err
			},
		},
		{
			"lifestyle shot without image",
			func() error {
				_, err := c.LifestyleShotByText(ctx, LifestyleShotRequest{SceneDescription: "on a beach"})
				return err
			},
		},
		{
			"lifestyle shot without scene description",
			func() error {
				_, err := c.LifestyleShotByText(ctx, LifestyleShotRequest{ImageData: []byte{0x1}})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, httpclient.IsErrorType(err, httpclient.ValidationError))
		})
	}

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "validation failures must not reach the network")
}

func TestCallReturnsDecodedJSON(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusOK, `{"result": {"images": ["https://cdn.example.com/1.png"]}}`)
	c := newTestClient(t, srv)

	decoded, err := c.EraseForeground(context.Background(), EraseForegroundRequest{ImageURL: "https://example.com/in.png"})
	require.NoError(t, err)

	result, ok := decoded["result"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, result, "images")
}

func TestCallSurfacesTerminalHTTPError(t *testing.T) {
	srv, calls := newCaptureServer(t, http.StatusUnauthorized, `{"error": "invalid api key"}`)
	c := newTestClient(t, srv)

	_, err := c.EraseForeground(context.Background(), EraseForegroundRequest{ImageURL: "https://example.com/in.png"})
	require.Error(t, err)
	assert.True(t, httpclient.IsHTTPStatusError(err, http.StatusUnauthorized))
	assert.Contains(t, err.Error(), "invalid api key")
	assert.Len(t, *calls, 1)
}

func TestClampHelpers(t *testing.T) {
	assert.Equal(t, 20, clampInt(5, 20, 50))
	assert.Equal(t, 50, clampInt(999, 20, 50))
	assert.Equal(t, 35, clampInt(35, 20, 50))
	assert.Equal(t, 1.0, clampFloat(0.2, 1.0, 10.0))
	assert.Equal(t, 10.0, clampFloat(42.0, 1.0, 10.0))
	assert.Equal(t, 7.5, clampFloat(7.5, 1.0, 10.0))
}
