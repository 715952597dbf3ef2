package live

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Wire types for the bidirectional streaming endpoint. The first client
// frame is a setup message; after the server acknowledges with
// setupComplete, the client streams realtimeInput audio chunks and the
// server streams serverContent frames.

type setupMessage struct {
	Setup setupPayload `json:"setup"`
}

type setupPayload struct {
	Model             string           `json:"model"`
	GenerationConfig  generationConfig `json:"generationConfig"`
	SystemInstruction *contentPayload  `json:"systemInstruction,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type contentPayload struct {
	Role  string        `json:"role,omitempty"`
	Parts []partPayload `json:"parts,omitempty"`
}

type partPayload struct {
	Text       string         `json:"text,omitempty"`
	InlineData *inlinePayload `json:"inlineData,omitempty"`
}

type inlinePayload struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type realtimeInputMessage struct {
	RealtimeInput realtimeInput `json:"realtimeInput"`
}

type realtimeInput struct {
	MediaChunks []mediaChunk `json:"mediaChunks"`
}

type mediaChunk struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// serverMessage is the union of everything the server may send. Exactly
// one field is set per frame.
type serverMessage struct {
	SetupComplete *struct{}      `json:"setupComplete,omitempty"`
	ServerContent *serverContent `json:"serverContent,omitempty"`
}

type serverContent struct {
	ModelTurn    *contentPayload `json:"modelTurn,omitempty"`
	Interrupted  bool            `json:"interrupted,omitempty"`
	TurnComplete bool            `json:"turnComplete,omitempty"`
}

func newSetupMessage(model, voice, system string) setupMessage {
	msg := setupMessage{
		Setup: setupPayload{
			Model: model,
			GenerationConfig: generationConfig{
				ResponseModalities: []string{"AUDIO"},
				SpeechConfig: &speechConfig{
					VoiceConfig: voiceConfig{
						PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voice},
					},
				},
			},
		},
	}
	if system != "" {
		msg.Setup.SystemInstruction = &contentPayload{
			Parts: []partPayload{{Text: system}},
		}
	}
	return msg
}

func newAudioFrameMessage(pcm []byte) realtimeInputMessage {
	return realtimeInputMessage{
		RealtimeInput: realtimeInput{
			MediaChunks: []mediaChunk{{
				MIMEType: fmt.Sprintf("audio/pcm;rate=%d", InputSampleRate),
				Data:     base64.StdEncoding.EncodeToString(pcm),
			}},
		},
	}
}

func decodeServerMessage(data []byte) (serverMessage, error) {
	var msg serverMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return serverMessage{}, fmt.Errorf("decode server frame: %w", err)
	}
	return msg, nil
}

// audioChunks returns the decoded PCM payload of every inline audio part
// in the frame, in order. Parts with undecodable data are skipped.
func (m serverMessage) audioChunks() [][]byte {
	if m.ServerContent == nil || m.ServerContent.ModelTurn == nil {
		return nil
	}
	var chunks [][]byte
	for _, part := range m.ServerContent.ModelTurn.Parts {
		if part.InlineData == nil || part.InlineData.Data == "" {
			continue
		}
		if !strings.HasPrefix(part.InlineData.MIMEType, "audio/") {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil || len(raw) == 0 {
			continue
		}
		chunks = append(chunks, raw)
	}
	return chunks
}

func (m serverMessage) interrupted() bool {
	return m.ServerContent != nil && m.ServerContent.Interrupted
}

func (m serverMessage) turnComplete() bool {
	return m.ServerContent != nil && m.ServerContent.TurnComplete
}
