// Package llm provides the language-model provider client used by the
// dialogue policy engine and the transcript scorer. Only JSON-mode chat is
// exposed; callers parse and validate the payload themselves.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GeminiClient calls the Gemini generateContent REST endpoint in JSON
// response mode.
type GeminiClient struct {
	HTTPClient  *http.Client
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
}

// NewGeminiClient constructs a client with sane defaults. An empty model
// falls back to a low-latency flash model.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiClient{
		HTTPClient:  &http.Client{Timeout: 15 * time.Second},
		BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
		APIKey:      apiKey,
		Model:       model,
		Temperature: 0.08,
	}
}

// Configured reports whether the client has enough configuration to be used.
func (c *GeminiClient) Configured() bool { return c != nil && c.APIKey != "" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64             `json:"temperature"`
	MaxOutputTokens  int                 `json:"maxOutputTokens"`
	ResponseMimeType string              `json:"responseMimeType"`
	ThinkingConfig   *geminiThinkingConf `json:"thinkingConfig,omitempty"`
}

type geminiThinkingConf struct {
	ThinkingBudget int `json:"thinkingBudget"`
}

type geminiRequest struct {
	SystemInstruction geminiContent          `json:"systemInstruction"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// ChatJSON runs one generateContent call and returns the raw JSON document
// the model produced.
func (c *GeminiClient) ChatJSON(ctx context.Context, system, user string, maxTokens int) ([]byte, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("gemini api key missing")
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.BaseURL, url.PathEscape(c.Model), url.QueryEscape(c.APIKey))

	reqBody, _ := json.Marshal(geminiRequest{
		SystemInstruction: geminiContent{Role: "system", Parts: []geminiPart{{Text: system}}},
		Contents:          []geminiContent{{Role: "user", Parts: []geminiPart{{Text: user}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      c.Temperature,
			MaxOutputTokens:  maxTokens,
			ResponseMimeType: "application/json",
			ThinkingConfig:   &geminiThinkingConf{ThinkingBudget: 0},
		},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini error: status=%d body=%s", resp.StatusCode, truncate(string(b), 240))
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, err
	}
	if len(gr.Candidates) == 0 {
		return nil, fmt.Errorf("gemini: empty candidates")
	}
	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return ExtractJSON(sb.String())
}

// ExtractJSON trims a model reply down to its JSON document. Models in JSON
// mode still occasionally wrap the payload in prose or fences, so when the
// raw text does not parse, the outermost brace span is retried.
func ExtractJSON(raw string) ([]byte, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, fmt.Errorf("no model content received")
	}
	if json.Valid([]byte(text)) {
		return []byte(text), nil
	}
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first >= 0 && last > first {
		sliced := text[first : last+1]
		if json.Valid([]byte(sliced)) {
			return []byte(sliced), nil
		}
	}
	return nil, fmt.Errorf("could not parse JSON from model response")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
