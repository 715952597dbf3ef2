package gemini

import (
	"context"

	"google.golang.org/genai"
)

// User-facing fallback strings. Tool results are rendered directly to the
// user, so dispatch failures surface as safe Arabic copy, never as errors.
const (
	// FallbackEmpty is returned when the backend produced no text.
	FallbackEmpty = "عذراً، لم أتمكن من إنشاء المحتوى. حاول مرة أخرى."

	// FallbackError is returned when the call itself failed.
	FallbackError = "حدث خطأ أثناء الاتصال بالخدمة. يرجى التحقق من مفتاح API والمحاولة مرة أخرى."
)

// GenerateText issues one non-streaming completion for a tool prompt.
// Thinking is disabled for latency; tools want fast, single-shot output.
//
// The returned string is always displayable: backend failures and empty
// completions come back as the fixed fallback strings. The error is logged
// for diagnostics, not propagated, and there is no retry; resubmission is
// the user's call.
func (c *Client) GenerateText(ctx context.Context, prompt string, model string) string {
	if model == "" {
		model = c.textModel
	}

	resp, err := c.models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(int32(0)),
		},
	})
	if err != nil {
		cerr := classify(err)
		c.logger.Error("content dispatch failed",
			"model", model,
			"error_type", string(cerr.Type),
			"error", err,
		)
		return FallbackError
	}

	text := resp.Text()
	if text == "" {
		c.logger.Warn("content dispatch returned no text", "model", model)
		return FallbackEmpty
	}
	return text
}
