// Package apiclient is the agent's HTTP client for the interview server.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/MuhammadMuneeeb/Recruitement/internal/interview"
	"github.com/MuhammadMuneeeb/Recruitement/internal/speech"
	"github.com/MuhammadMuneeeb/Recruitement/internal/store"
	"github.com/MuhammadMuneeeb/Recruitement/internal/telemetry"
)

// Client drives one interview session against the server. It implements
// speech.TurnSource for the capture machine and telemetry.Sink for latency
// records.
type Client struct {
	BaseURL       string
	Token         string
	PreferredLang interview.Lang
	HTTPClient    *http.Client
}

func New(baseURL, token string, lang interview.Lang) *Client {
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		Token:         token,
		PreferredLang: lang,
		HTTPClient:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Start(ctx context.Context) (speech.Prompt, error) {
	body := map[string]any{
		"checks":        store.Checks{Camera: true, Microphone: true},
		"preferredLang": c.PreferredLang,
	}
	var out struct {
		Turns   []interview.Turn `json:"turns"`
		Resumed bool             `json:"resumed"`
	}
	if err := c.post(ctx, fmt.Sprintf("/api/interviews/%s/start", c.Token), body, &out); err != nil {
		return speech.Prompt{}, err
	}
	if len(out.Turns) == 0 {
		return speech.Prompt{}, fmt.Errorf("server returned no opening turns")
	}

	prompt := speech.Prompt{Lang: out.Turns[len(out.Turns)-1].Lang}
	if out.Resumed {
		// Only re-voice the last interviewer prompt, not the whole history.
		last := out.Turns[len(out.Turns)-1]
		prompt.Texts = []string{last.Text}
		prompt.Done = last.Done
		return prompt, nil
	}
	for _, t := range out.Turns {
		prompt.Texts = append(prompt.Texts, t.Text)
	}
	return prompt, nil
}

func (c *Client) Respond(ctx context.Context, answer string) (speech.Prompt, error) {
	body := map[string]any{
		"answer":        answer,
		"preferredLang": c.PreferredLang,
	}
	var out struct {
		Done bool           `json:"done"`
		Text string         `json:"text"`
		Lang interview.Lang `json:"lang"`
	}
	if err := c.post(ctx, fmt.Sprintf("/api/interviews/%s/respond", c.Token), body, &out); err != nil {
		return speech.Prompt{}, err
	}
	return speech.Prompt{Texts: []string{out.Text}, Lang: out.Lang, Done: out.Done}, nil
}

func (c *Client) Submit(ctx context.Context) error {
	return c.post(ctx, fmt.Sprintf("/api/interviews/%s/submit", c.Token), map[string]any{}, nil)
}

// RecordTurnLatency ships one measurement; failures only log, a lost
// latency record must never break the interview.
func (c *Client) RecordTurnLatency(rec telemetry.TurnLatency) {
	rec.Token = c.Token
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.post(ctx, "/api/telemetry/turn-latency", rec, nil); err != nil {
		log.Printf("[telemetry] ship failed: %v", err)
	}
}

// SynthesizeSpeech fetches a WAV clip for interviewer text from the
// server's TTS proxy.
func (c *Client) SynthesizeSpeech(ctx context.Context, text string, lang interview.Lang) ([]byte, error) {
	buf, err := json.Marshal(map[string]any{"text": text, "lang": lang})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/voice/tts", bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tts status=%d body=%s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("POST %s: status=%d body=%s", path, resp.StatusCode, string(b))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("POST %s: decode response: %w", path, err)
	}
	return nil
}
