package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"
)

type fakeModels struct {
	lastModel  string
	lastConfig *genai.GenerateContentConfig
	resp       *genai.GenerateContentResponse
	err        error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.lastModel = model
	f.lastConfig = config
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: text}},
			},
		}},
	}
}

func imageResponse(mime string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: "model",
				Parts: []*genai.Part{
					{Text: "here is your image"},
					{InlineData: &genai.Blob{MIMEType: mime, Data: data}},
				},
			},
		}},
	}
}

func TestGenerateText_Success(t *testing.T) {
	fake := &fakeModels{resp: textResponse("**العناوين المقترحة:**\n1. X")}
	c := newClient(fake)

	got := c.GenerateText(context.Background(), "اكتب عناوين", "")
	if got != "**العناوين المقترحة:**\n1. X" {
		t.Fatalf("GenerateText=%q", got)
	}
	if fake.lastModel != DefaultTextModel {
		t.Fatalf("model=%q, want default %q", fake.lastModel, DefaultTextModel)
	}
	if fake.lastConfig == nil || fake.lastConfig.ThinkingConfig == nil ||
		fake.lastConfig.ThinkingConfig.ThinkingBudget == nil ||
		*fake.lastConfig.ThinkingConfig.ThinkingBudget != 0 {
		t.Fatalf("thinking budget must be pinned to 0 for tool latency")
	}
}

func TestGenerateText_ModelOverride(t *testing.T) {
	fake := &fakeModels{resp: textResponse("ok")}
	c := newClient(fake)

	c.GenerateText(context.Background(), "p", "gemini-3-pro-preview")
	if fake.lastModel != "gemini-3-pro-preview" {
		t.Fatalf("model=%q, want override", fake.lastModel)
	}
}

func TestGenerateText_ErrorFallsBack(t *testing.T) {
	fake := &fakeModels{err: errors.New("connection reset")}
	c := newClient(fake)

	if got := c.GenerateText(context.Background(), "p", ""); got != FallbackError {
		t.Fatalf("GenerateText=%q, want error fallback", got)
	}
}

func TestGenerateText_EmptyFallsBack(t *testing.T) {
	fake := &fakeModels{resp: textResponse("")}
	c := newClient(fake)

	if got := c.GenerateText(context.Background(), "p", ""); got != FallbackEmpty {
		t.Fatalf("GenerateText=%q, want empty fallback", got)
	}
}

func TestGenerateImage_DataURI(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	fake := &fakeModels{resp: imageResponse("image/png", payload)}
	c := newClient(fake)

	uri, err := c.GenerateImage(context.Background(), "رائد فضاء")
	if err != nil {
		t.Fatalf("GenerateImage error: %v", err)
	}
	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)
	if uri != want {
		t.Fatalf("uri=%q, want %q", uri, want)
	}
	if fake.lastModel != ImageModel {
		t.Fatalf("model=%q, want %q", fake.lastModel, ImageModel)
	}
}

func TestGenerateImage_NoImagePart(t *testing.T) {
	fake := &fakeModels{resp: textResponse("sorry, no image")}
	c := newClient(fake)

	uri, err := c.GenerateImage(context.Background(), "p")
	if err != nil {
		t.Fatalf("missing image part must not be an error, got %v", err)
	}
	if uri != "" {
		t.Fatalf("uri=%q, want empty", uri)
	}
}

func TestGenerateImage_ErrorPropagates(t *testing.T) {
	fake := &fakeModels{err: errors.New("boom")}
	c := newClient(fake)

	_, err := c.GenerateImage(context.Background(), "p")
	if err == nil {
		t.Fatalf("image dispatch errors must propagate")
	}
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("error should be classified, got %T", err)
	}
}

func TestClassify_APIError(t *testing.T) {
	err := classify(genai.APIError{Code: 429, Message: "slow down", Status: "RESOURCE_EXHAUSTED"})
	if err.Type != ErrRateLimit {
		t.Fatalf("type=%q, want rate limit", err.Type)
	}
	if !err.IsRetryable() {
		t.Fatalf("rate limit should be retryable")
	}
	if !strings.Contains(err.Error(), "slow down") {
		t.Fatalf("Error()=%q should carry the message", err.Error())
	}
}

func TestClassify_PlainError(t *testing.T) {
	err := classify(errors.New("dns failure"))
	if err.Type != ErrProvider {
		t.Fatalf("type=%q, want provider", err.Type)
	}
	if err.IsRetryable() {
		t.Fatalf("unclassified errors are not retryable")
	}
}

func TestSynthesize_ReturnsAudio(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	fake := &fakeModels{resp: imageResponse("audio/pcm;rate=24000", pcm)}
	c := newClient(fake)

	got, err := c.Synthesize(context.Background(), "مرحبا", "Zephyr")
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	if len(got) != len(pcm) {
		t.Fatalf("audio len=%d, want %d", len(got), len(pcm))
	}
	if fake.lastModel != SpeechModel {
		t.Fatalf("model=%q, want %q", fake.lastModel, SpeechModel)
	}
	if fake.lastConfig == nil || fake.lastConfig.SpeechConfig == nil {
		t.Fatalf("speech config missing")
	}
}

func TestConverse_EmptyAudioRejected(t *testing.T) {
	c := newClient(&fakeModels{})
	if _, err := c.Converse(context.Background(), nil, "audio/wav", "system"); err == nil {
		t.Fatalf("empty audio must be rejected before dispatch")
	}
}
