package bria

import (
	"context"
	"encoding/base64"
)

const lifestyleShotPath = "/v1/product/lifestyle_shot_by_text"

// Placement types accepted by the lifestyle-shot endpoint.
const (
	PlacementOriginal          = "original"
	PlacementAutomatic         = "automatic"
	PlacementManualPlacement   = "manual_placement"
	PlacementManualPadding     = "manual_padding"
	PlacementCustomCoordinates = "custom_coordinates"
)

// LifestyleShotRequest composes a product image into a generated scene
// described by text. Placement-dependent fields are only sent when the
// placement type calls for them.
type LifestyleShotRequest struct {
	// ImageData is the raw product image, sent base64-encoded. Required.
	ImageData []byte `validate:"required"`
	// SceneDescription is the text description of the target scene. Required.
	SceneDescription string `validate:"required"`
	// PlacementType controls product placement (default "original").
	PlacementType string `validate:"omitempty,oneof=original automatic manual_placement manual_padding custom_coordinates"`
	// NumResults is the number of shots to generate (default 4, clamped to [1,4]).
	NumResults int
	// Sync makes the call wait for results (default false).
	Sync bool
	// Fast trades quality for speed (default true).
	Fast *bool
	// OptimizeDescription lets the server rewrite the scene description
	// (default true).
	OptimizeDescription *bool
	// OriginalQuality preserves the input image resolution.
	OriginalQuality bool
	// ExcludeElements lists elements to keep out of the scene. Only sent
	// when fast mode is disabled.
	ExcludeElements string
	// ShotSize is the output [width, height]. Sent for automatic,
	// manual_placement, and custom_coordinates placements (default [1000,1000]).
	ShotSize []int `validate:"omitempty,len=2"`
	// ManualPlacementSelection anchors the product for manual_placement
	// (default ["upper_left"]).
	ManualPlacementSelection []string
	// PaddingValues is [left, right, top, bottom] for manual_padding
	// (default [0,0,0,0]).
	PaddingValues []int `validate:"omitempty,len=4"`
	// ForegroundImageSize and ForegroundImageLocation position the product
	// for custom_coordinates; sent only when supplied.
	ForegroundImageSize     []int `validate:"omitempty,len=2"`
	ForegroundImageLocation []int `validate:"omitempty,len=2"`
	// ForceRmbg forces background removal on the input image.
	ForceRmbg bool
	// ContentModeration enables server-side content moderation.
	ContentModeration bool
	// SKU tags the generated shots with a product SKU.
	SKU string
}

// LifestyleShotByText calls the lifestyle-shot endpoint and returns the
// decoded JSON response.
func (c *Client) LifestyleShotByText(ctx context.Context, req LifestyleShotRequest) (map[string]any, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	placement := req.PlacementType
	if placement == "" {
		placement = PlacementOriginal
	}
	numResults := req.NumResults
	if numResults == 0 {
		numResults = maxNumResults
	}
	fast := boolValue(req.Fast, true)

	payload := map[string]any{
		"file":                 base64.StdEncoding.EncodeToString(req.ImageData),
		"scene_description":    req.SceneDescription,
		"placement_type":       placement,
		"num_results":          clampInt(numResults, minNumResults, maxNumResults),
		"sync":                 req.Sync,
		"fast":                 fast,
		"optimize_description": boolValue(req.OptimizeDescription, true),
		"original_quality":     req.OriginalQuality,
		"force_rmbg":           req.ForceRmbg,
		"content_moderation":   req.ContentModeration,
	}

	if req.ExcludeElements != "" && !fast {
		payload["exclude_elements"] = req.ExcludeElements
	}

	switch placement {
	case PlacementAutomatic, PlacementManualPlacement, PlacementCustomCoordinates:
		payload["shot_size"] = defaultSlice(req.ShotSize, []int{1000, 1000})
	}

	switch placement {
	case PlacementManualPlacement:
		selection := req.ManualPlacementSelection
		if len(selection) == 0 {
			selection = []string{"upper_left"}
		}
		payload["manual_placement_selection"] = selection
	case PlacementManualPadding:
		payload["padding_values"] = defaultSlice(req.PaddingValues, []int{0, 0, 0, 0})
	case PlacementCustomCoordinates:
		if len(req.ForegroundImageSize) > 0 {
			payload["foreground_image_size"] = req.ForegroundImageSize
		}
		if len(req.ForegroundImageLocation) > 0 {
			payload["foreground_image_location"] = req.ForegroundImageLocation
		}
	}

	if req.SKU != "" {
		payload["sku"] = req.SKU
	}

	return c.call(ctx, lifestyleShotPath, payload)
}

// defaultSlice returns def when v is empty. def is freshly allocated by
// every caller so payloads never share backing arrays.
func defaultSlice(v, def []int) []int {
	if len(v) == 0 {
		return def
	}
	return v
}
