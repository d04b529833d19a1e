package bria

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestGenerateHDImageDefaults(t *testing.T) {
	srv, calls := newCaptureServer(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv)

	_, err := c.GenerateHDImage(context.Background(), GenerateHDImageRequest{
		Prompt: "a red bicycle leaning on a wall",
	})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "/v1/text-to-image/hd/2.2", call.path)
	assert.Equal(t, "a red bicycle leaning on a wall", call.payload["prompt"])
	assert.Equal(t, float64(1), call.payload["num_results"])
	assert.Equal(t, true, call.payload["sync"])
	assert.Equal(t, "1:1", call.payload["aspect_ratio"])

	for _, absent := range []string{
		"seed", "negative_prompt", "steps_num", "text_guidance_scale",
		"medium", "prompt_enhancement", "enhance_image",
		"content_moderation", "ip_signal",
	} {
		assert.NotContains(t, call.payload, absent, "unset optional field %q must be omitted", absent)
	}
}

func TestGenerateHDImageModelVersionInPath(t *testing.T) {
	srv, calls := newCaptureServer(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv)

	_, err := c.GenerateHDImage(context.Background(), GenerateHDImageRequest{
		Prompt:       "a lighthouse at dusk",
		ModelVersion: "3.1",
	})
	require.NoError(t, err)
	assert.Equal(t, "/v1/text-to-image/hd/3.1", (*calls)[0].path)
}

func TestGenerateHDImageClamps(t *testing.T) {
	tests := []struct {
		name     string
		req      GenerateHDImageRequest
		field    string
		expected float64
	}{
		{
			name:     "steps below range clamped up",
			req:      GenerateHDImageRequest{Prompt: "p", StepsNum: intPtr(5)},
			field:    "steps_num",
			expected: 20,
		},
		{
			name:     "steps above range clamped down",
			req:      GenerateHDImageRequest{Prompt: "p", StepsNum: intPtr(999)},
			field:    "steps_num",
			expected: 50,
		},
		{
			name:     "steps inside range untouched",
			req:      GenerateHDImageRequest{Prompt: "p", StepsNum: intPtr(30)},
			field:    "steps_num",
			expected: 30,
		},
		{
			name:     "guidance below range clamped up",
			req:      GenerateHDImageRequest{Prompt: "p", TextGuidanceScale: floatPtr(0.2)},
			field:    "text_guidance_scale",
			expected: 1.0,
		},
		{
			name:     "guidance above range clamped down",
			req:      GenerateHDImageRequest{Prompt: "p", TextGuidanceScale: floatPtr(42)},
			field:    "text_guidance_scale",
			expected: 10.0,
		},
		{
			name:     "num_results above range clamped down",
			req:      GenerateHDImageRequest{Prompt: "p", NumResults: 9},
			field:    "num_results",
			expected: 4,
		},
		{
			name:     "num_results below range clamped up",
			req:      GenerateHDImageRequest{Prompt: "p", NumResults: -1},
			field:    "num_results",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := newCaptureServer(t, http.StatusOK, `{}`)
			c := newTestClient(t, srv)

			_, err := c.GenerateHDImage(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, (*calls)[0].payload[tt.field])
		})
	}
}

func TestGenerateHDImageOptionalFields(t *testing.T) {
	srv, calls := newCaptureServer(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv)

	_, err := c.GenerateHDImage(context.Background(), GenerateHDImageRequest{
		Prompt:            "an oak desk in morning light",
		NumResults:        2,
		AspectRatio:       "16:9",
		Sync:              boolPtr(false),
		Seed:              intPtr(1234),
		NegativePrompt:    "clutter",
		Medium:            "photography",
		PromptEnhancement: true,
		EnhanceImage:      true,
		ContentModeration: true,
		IPSignal:          true,
	})
	require.NoError(t, err)

	payload := (*calls)[0].payload
	assert.Equal(t, float64(2), payload["num_results"])
	assert.Equal(t, "16:9", payload["aspect_ratio"])
	assert.Equal(t, false, payload["sync"])
	assert.Equal(t, float64(1234), payload["seed"])
	assert.Equal(t, "clutter", payload["negative_prompt"])
	assert.Equal(t, "photography", payload["medium"])
	assert.Equal(t, true, payload["prompt_enhancement"])
	assert.Equal(t, true, payload["enhance_image"])
	assert.Equal(t, true, payload["content_moderation"])
	assert.Equal(t, true, payload["ip_signal"])
}
