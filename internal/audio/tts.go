package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TTS synthesizes speech for a piece of text.
type TTS interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// ElevenLabsClient talks to the ElevenLabs REST API.
type ElevenLabsClient struct {
	APIKey  string
	VoiceID string
	ModelID string
	BaseURL string
	HTTP    *http.Client
}

const elevenLabsBase = "https://api.elevenlabs.io"

func NewElevenLabsClient(apiKey, voiceID, modelID string) *ElevenLabsClient {
	return &ElevenLabsClient{
		APIKey:  apiKey,
		VoiceID: voiceID,
		ModelID: modelID,
		BaseURL: elevenLabsBase,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{
		"text":          text,
		"model_id":      c.ModelID,
		"output_format": "mp3_44100_128",
	})
	if err != nil {
		return nil, fmt.Errorf("encode tts request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.BaseURL, c.VoiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build tts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts status %d: %s", resp.StatusCode, msg)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts response: %w", err)
	}
	return audio, nil
}
