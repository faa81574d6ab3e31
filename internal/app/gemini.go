package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Turn is one entry of prior conversation history sent to the model.
type Turn struct {
	Role string // "user" or "model"
	Text string
}

// Completer is the single round-trip contract every model consumer uses:
// conversational replies, crisis classification, title summarization and
// helpline lookup all go through it.
type Completer interface {
	Complete(ctx context.Context, system string, history []Turn, message string) (string, error)
}

type GeminiClient struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	HTTP      *http.Client

	// probe overrides the reachability check in tests.
	probe func() bool
}

type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"system_instruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  geminiGenConfig  `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

func NewGeminiClient(apiKey, model, baseURL string, maxTokens int) *GeminiClient {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &GeminiClient{
		APIKey:    apiKey,
		Model:     model,
		BaseURL:   baseURL,
		MaxTokens: maxTokens,
		HTTP:      &http.Client{Timeout: 120 * time.Second},
	}
}

// Mock reports whether the client runs without a real backend. Used by the
// TUI so a keyless install still works end to end.
func (c *GeminiClient) Mock() bool {
	return c.APIKey == "mock" || strings.HasPrefix(c.BaseURL, "mock://")
}

func (c *GeminiClient) Complete(ctx context.Context, system string, history []Turn, message string) (string, error) {
	if c.Mock() {
		return c.mockComplete(message), nil
	}
	if c.APIKey == "" {
		return "", errors.New("api key is required")
	}

	contents := make([]geminiContent, 0, len(history)+1)
	for _, t := range history {
		contents = append(contents, geminiContent{Role: t.Role, Parts: []geminiPart{{Text: t.Text}}})
	}
	contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: message}}})

	reqBody := geminiRequest{
		Contents:         contents,
		GenerationConfig: geminiGenConfig{MaxOutputTokens: c.MaxTokens},
	}
	if strings.TrimSpace(system) != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(c.BaseURL, "/"), c.Model)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.HTTP.Do(request)
	if err != nil {
		return "", fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(bodyBytes, &parsed); err == nil {
		if parsed.Error != nil {
			return "", fmt.Errorf("api error: status %d, message: %s", parsed.Error.Code, parsed.Error.Message)
		}
		if len(parsed.Candidates) > 0 {
			var b strings.Builder
			for _, p := range parsed.Candidates[0].Content.Parts {
				b.WriteString(p.Text)
			}
			if b.Len() > 0 {
				return b.String(), nil
			}
		}
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("api error: status %d, response: %s", resp.StatusCode, string(bodyBytes))
	}
	return "", fmt.Errorf("invalid api response format: %s", string(bodyBytes))
}

// Online probes reachability of the API host with a short deadline. The
// model calls themselves keep the client's long timeout; this only answers
// "is there a network right now" for the advisory paths.
func (c *GeminiClient) Online() bool {
	if c.probe != nil {
		return c.probe()
	}
	if c.Mock() {
		return true
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.Scheme+"://"+u.Host, nil)
	if err != nil {
		return false
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// mockComplete keeps the companion usable (and demoable) without a key.
func (c *GeminiClient) mockComplete(message string) string {
	trimmed := strings.TrimSpace(message)
	if strings.HasPrefix(trimmed, "Classify the following text") {
		return "SAFE"
	}
	if strings.HasPrefix(trimmed, "Read the following chat") {
		return "A Gentle Check-In"
	}
	return "Thank you for sharing that with me. 💙|||What would feel most supportive right now?"
}
