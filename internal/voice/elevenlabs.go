package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/MuhammadMuneeeb/Recruitement/internal/audio"
	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
)

// ElevenLabs synthesizes speech over the HTTP streaming endpoint. The
// multilingual flash model covers Urdu, which makes it the primary voice
// for Urdu sessions.
type ElevenLabs struct {
	APIKey     string
	VoiceID    string
	HTTPClient *http.Client
	BaseURL    string
}

func NewElevenLabs(apiKey, voiceID string) *ElevenLabs {
	return &ElevenLabs{
		APIKey:     apiKey,
		VoiceID:    voiceID,
		HTTPClient: &http.Client{},
		BaseURL:    "https://api.elevenlabs.io",
	}
}

func (e *ElevenLabs) Name() string { return "elevenlabs" }

func (e *ElevenLabs) Supports(interview.Lang) bool { return true }

func (e *ElevenLabs) Synthesize(ctx context.Context, text string, lang interview.Lang) ([]byte, error) {
	if e.APIKey == "" || e.VoiceID == "" {
		return nil, fmt.Errorf("elevenlabs: api key or voice id missing")
	}
	if text == "" {
		return nil, nil
	}

	u, err := url.Parse(e.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: base url: %w", err)
	}
	u.Path = "/v1/text-to-speech/" + e.VoiceID + "/stream"
	q := u.Query()
	q.Set("model_id", "eleven_flash_v2_5")
	q.Set("output_format", "pcm_24000")
	q.Set("optimize_streaming_latency", "2")
	u.RawQuery = q.Encode()

	body := map[string]any{
		"model_id": "eleven_flash_v2_5",
		"text":     text,
		"voice_settings": map[string]any{
			"stability":         0.4,
			"similarity_boost":  0.7,
			"style":             0.0,
			"use_speaker_boost": true,
		},
	}
	buf, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", e.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := e.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("elevenlabs: status=%d body=%s", resp.StatusCode, string(b))
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: read stream: %w", err)
	}
	if len(pcm) == 0 {
		return nil, fmt.Errorf("elevenlabs: empty audio")
	}
	return audio.EncodeWAV(pcm, 24000), nil
}
