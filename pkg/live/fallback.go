package live

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Speech is the non-streaming slice of the backend client used by the
// fallback assistant.
type Speech interface {
	Converse(ctx context.Context, audio []byte, mimeType, system string) (string, error)
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// FallbackAssistant is the listen-once, respond-once voice mode used when
// the streaming backend is unavailable. One whole utterance goes up as a
// WAV clip, one whole reply comes back as 24 kHz PCM16. No barge-in, no
// frame-level scheduling.
type FallbackAssistant struct {
	speech Speech
	logger *slog.Logger

	mu   sync.Mutex
	tone Tone
}

type FallbackOption func(*FallbackAssistant)

func WithFallbackLogger(logger *slog.Logger) FallbackOption {
	return func(a *FallbackAssistant) { a.logger = logger }
}

func NewFallbackAssistant(speech Speech, opts ...FallbackOption) *FallbackAssistant {
	a := &FallbackAssistant{
		speech: speech,
		logger: slog.Default(),
		tone:   DefaultTone,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetTone switches the reply voice. Takes effect on the next cycle; no
// session restart is needed here since every cycle is independent.
func (a *FallbackAssistant) SetTone(tone Tone) error {
	if !tone.Valid() {
		return errors.New("live: unknown tone")
	}
	a.mu.Lock()
	a.tone = tone
	a.mu.Unlock()
	return nil
}

func (a *FallbackAssistant) Tone() Tone {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tone
}

// Respond runs one listen-respond cycle: the captured utterance is
// transcribed and answered in one round trip, then the reply is rendered
// in the selected tone's voice. Returns the reply audio as PCM16 at the
// output rate alongside the reply text.
func (a *FallbackAssistant) Respond(ctx context.Context, utterance []float32) ([]byte, string, error) {
	if len(utterance) == 0 {
		return nil, "", errors.New("live: empty utterance")
	}

	wav := WrapWAV(Float32ToPCM16(utterance), InputSampleRate)
	text, err := a.speech.Converse(ctx, wav, "audio/wav", Persona)
	if err != nil {
		return nil, "", err
	}

	a.mu.Lock()
	voice := a.tone.Voice()
	a.mu.Unlock()

	audio, err := a.speech.Synthesize(ctx, text, voice)
	if err != nil {
		// The reply text is still usable on its own.
		a.logger.Warn("speech synthesis failed, returning text only", "error", err)
		return nil, text, nil
	}
	return audio, text, nil
}
