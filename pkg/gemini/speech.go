package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Converse sends one recorded utterance plus a persona instruction and
// returns the assistant's text reply. Used by the voice assistant fallback
// mode, which has no streaming session to lean on.
func (c *Client) Converse(ctx context.Context, audio []byte, mimeType, system string) (string, error) {
	if len(audio) == 0 {
		return "", &Error{Type: ErrInvalidRequest, Message: "empty audio payload"}
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{{
			InlineData: &genai.Blob{MIMEType: mimeType, Data: audio},
		}},
	}}
	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	resp, err := c.models.GenerateContent(ctx, c.textModel, contents, cfg)
	if err != nil {
		return "", classify(err)
	}
	text := resp.Text()
	if text == "" {
		return "", &Error{Type: ErrProvider, Message: "no text in voice reply"}
	}
	return text, nil
}

// Synthesize renders text as speech with the given prebuilt voice and
// returns raw PCM16 audio bytes at the model's output rate (24 kHz).
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	resp, err := c.models.GenerateContent(ctx, SpeechModel, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	})
	if err != nil {
		return nil, classify(err)
	}

	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, &Error{Type: ErrProvider, Message: fmt.Sprintf("no audio part in %s response", SpeechModel)}
}
