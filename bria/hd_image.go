package bria

import (
	"context"
	"net/url"
)

const (
	hdImagePathPrefix = "/v1/text-to-image/hd/"

	// DefaultModelVersion is used when no model version is requested.
	DefaultModelVersion = "2.2"
	// DefaultAspectRatio is used when no aspect ratio is requested.
	DefaultAspectRatio = "1:1"

	minNumResults = 1
	maxNumResults = 4
	minSteps      = 20
	maxSteps      = 50
	minGuidance   = 1.0
	maxGuidance   = 10.0
)

// GenerateHDImageRequest generates HD images from a text prompt.
// Optional tunables outside their documented range are clamped, not
// rejected: NumResults to [1,4], StepsNum to [20,50], TextGuidanceScale
// to [1.0,10.0].
type GenerateHDImageRequest struct {
	// Prompt describes the image to generate. Required.
	Prompt string `validate:"required"`
	// ModelVersion selects the generation model (default "2.2").
	ModelVersion string
	// NumResults is the number of images to generate (default 1).
	NumResults int
	// AspectRatio of the generated images (default "1:1").
	AspectRatio string
	// Sync makes the call wait for results (default true).
	Sync *bool
	// Seed fixes the generation seed for reproducibility.
	Seed *int
	// NegativePrompt lists elements to avoid.
	NegativePrompt string
	// StepsNum is the number of diffusion steps.
	StepsNum *int
	// TextGuidanceScale controls prompt adherence.
	TextGuidanceScale *float64
	// Medium is the artistic medium ("photography", "art").
	Medium string

	PromptEnhancement bool
	EnhanceImage      bool
	ContentModeration bool
	IPSignal          bool
}

// GenerateHDImage calls the HD text-to-image endpoint and returns the
// decoded JSON response.
func (c *Client) GenerateHDImage(ctx context.Context, req GenerateHDImageRequest) (map[string]any, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	numResults := req.NumResults
	if numResults == 0 {
		numResults = minNumResults
	}
	payload := map[string]any{
		"prompt":      req.Prompt,
		"num_results": clampInt(numResults, minNumResults, maxNumResults),
		"sync":        boolValue(req.Sync, true),
	}

	if req.NegativePrompt != "" {
		payload["negative_prompt"] = req.NegativePrompt
	}
	aspectRatio := req.AspectRatio
	if aspectRatio == "" {
		aspectRatio = DefaultAspectRatio
	}
	payload["aspect_ratio"] = aspectRatio

	if req.Seed != nil {
		payload["seed"] = *req.Seed
	}
	if req.StepsNum != nil {
		payload["steps_num"] = clampInt(*req.StepsNum, minSteps, maxSteps)
	}
	if req.TextGuidanceScale != nil {
		payload["text_guidance_scale"] = clampFloat(*req.TextGuidanceScale, minGuidance, maxGuidance)
	}
	if req.Medium != "" {
		payload["medium"] = req.Medium
	}
	if req.PromptEnhancement {
		payload["prompt_enhancement"] = true
	}
	if req.EnhanceImage {
		payload["enhance_image"] = true
	}
	if req.ContentModeration {
		payload["content_moderation"] = true
	}
	if req.IPSignal {
		payload["ip_signal"] = true
	}

	modelVersion := req.ModelVersion
	if modelVersion == "" {
		modelVersion = DefaultModelVersion
	}

	return c.call(ctx, hdImagePathPrefix+url.PathEscape(modelVersion), payload)
}
