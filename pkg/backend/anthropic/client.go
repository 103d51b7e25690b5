package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/your-org/promptpipe/pkg/backend"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-3-5-sonnet-latest"
	defaultMaxTokens = 512
	apiVersion       = "2023-06-01"
)

// Params fixes the sampling settings used for every call through one client.
type Params struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Client is an Anthropic Messages API backend with a single "generate" entry
// point.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	params     Params
}

func NewClient(apiKey string, httpClient *http.Client, baseURL string, params Params) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if params.Model == "" {
		params.Model = defaultModel
	}
	if params.MaxTokens <= 0 {
		params.MaxTokens = defaultMaxTokens
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		params:     params,
	}
}

func (c *Client) Name() string { return "anthropic" }

func (c *Client) Entry(name string) (backend.GenerateFunc, bool) {
	if name == "generate" {
		return c.generate, true
	}
	return nil, false
}

func (c *Client) generate(ctx context.Context, prompt string) (backend.Result, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return backend.Result{}, backend.ErrMissingAPIKey
	}
	if strings.TrimSpace(prompt) == "" {
		return backend.Result{}, backend.ErrEmptyPrompt
	}

	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": apiVersion,
	}
	payload := map[string]any{
		"model":       c.params.Model,
		"max_tokens":  c.params.MaxTokens,
		"temperature": c.params.Temperature,
		"messages": []map[string]any{{
			"role":    "user",
			"content": prompt,
		}},
	}
	body, err := backend.PostJSON(ctx, c.httpClient, c.baseURL+"/v1/messages", headers, payload)
	if err != nil {
		return backend.Result{}, err
	}

	var parsed struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return backend.Result{}, fmt.Errorf("parse response: %w", err)
	}

	text := ""
	for _, part := range parsed.Content {
		if part.Type == "text" || part.Text != "" {
			text += part.Text
		}
	}
	return backend.Result{Text: text, Raw: body}, nil
}
