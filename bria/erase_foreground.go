package bria

import (
	"context"
	"encoding/base64"
)

const eraseForegroundPath = "/v1/erase_foreground"

// EraseForegroundRequest erases the foreground from an image and
// generates the background behind it. Exactly one image source is
// required: raw bytes (sent base64-encoded) or a public URL.
type EraseForegroundRequest struct {
	// ImageData is the raw image. Required unless ImageURL is set.
	ImageData []byte `validate:"required_without=ImageURL"`
	// ImageURL is a public image URL. Required unless ImageData is set.
	ImageURL string `validate:"required_without=ImageData,omitempty,url"`
	// ContentModeration enables server-side content moderation.
	ContentModeration bool
}

// EraseForeground calls the erase-foreground endpoint and returns the
// decoded JSON response.
func (c *Client) EraseForeground(ctx context.Context, req EraseForegroundRequest) (map[string]any, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"content_moderation": req.ContentModeration,
	}
	if req.ImageURL != "" {
		payload["image_url"] = req.ImageURL
	} else {
		payload["file"] = base64.StdEncoding.EncodeToString(req.ImageData)
	}

	return c.call(ctx, eraseForegroundPath, payload)
}
