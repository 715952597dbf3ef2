package gemini

import (
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/genai"
)

// GenerateImage issues one image synthesis call and returns the first inline
// image part re-encoded as a data URI. It returns "" (and no error) when the
// response carries no image part.
//
// Unlike GenerateText, failures propagate: an empty image cannot be faked
// with fallback copy, so the caller shows an explicit failure notice.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	resp, err := c.models.GenerateContent(ctx, ImageModel, genai.Text(prompt), nil)
	if err != nil {
		cerr := classify(err)
		c.logger.Error("image dispatch failed",
			"model", ImageModel,
			"error_type", string(cerr.Type),
			"error", err,
		)
		return "", cerr
	}

	if uri := firstInlineImage(resp); uri != "" {
		return uri, nil
	}
	c.logger.Warn("image dispatch returned no inline image", "model", ImageModel)
	return "", nil
}

func firstInlineImage(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		return fmt.Sprintf("data:%s;base64,%s",
			part.InlineData.MIMEType,
			base64.StdEncoding.EncodeToString(part.InlineData.Data),
		)
	}
	return ""
}
