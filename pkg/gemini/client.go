// Package gemini implements the generative dispatchers used by the tool
// catalog and the voice assistant fallback.
//
// The client is constructed explicitly and passed where needed; nothing in
// this package keeps package-level state.
package gemini

import (
	"context"
	"log/slog"
	"net/http"

	"google.golang.org/genai"
)

const (
	// DefaultTextModel is the fast text model used by the tool catalog.
	DefaultTextModel = "gemini-3-flash-preview"

	// ImageModel is the image-capable model used by the image dispatcher.
	ImageModel = "gemini-2.5-flash-image"

	// SpeechModel is the text-to-speech model used by the assistant
	// fallback mode.
	SpeechModel = "gemini-2.5-flash-preview-tts"
)

// models is the slice of the GenAI SDK the dispatchers depend on.
// *genai.Models satisfies it; tests substitute a fake.
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client dispatches batch generative calls.
type Client struct {
	models models
	logger *slog.Logger

	textModel string
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTextModel overrides the default text model.
func WithTextModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.textModel = model
		}
	}
}

// Config carries the settings needed to reach the Gemini API.
type Config struct {
	APIKey string
	// HTTPClient overrides the SDK's default transport when non-nil.
	HTTPClient *http.Client
}

// NewClient creates a dispatcher client backed by the Gemini API.
func NewClient(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, err
	}
	return newClient(api.Models, opts...), nil
}

func newClient(m models, opts ...Option) *Client {
	c := &Client{
		models:    m,
		logger:    slog.Default(),
		textModel: DefaultTextModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
