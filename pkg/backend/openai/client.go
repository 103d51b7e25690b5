package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/your-org/promptpipe/pkg/backend"
)

const (
	defaultBaseURL   = "https://api.openai.com"
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 512
)

// Params fixes the sampling settings used for every call through one client.
type Params struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// Client is an OpenAI-style backend. It exposes two entry points: "complete"
// (Responses API) and "chat" (Chat Completions API).
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

func (c *Client) Name() string { return "openai" }

func (c *Client) Entry(name string) (backend.GenerateFunc, bool) {
	switch name {
	case "complete":
		return c.complete, true
	case "chat":
		return c.chat, true
	default:
		return nil, false
	}
}

func (c *Client) complete(ctx context.Context, prompt string) (backend.Result, error) {
	if err := c.check(prompt); err != nil {
		return backend.Result{}, err
	}

	payload := map[string]any{
		"model":             c.params.Model,
		"input":             prompt,
		"max_output_tokens": c.params.MaxTokens,
		"temperature":       c.params.Temperature,
	}
	body, err := backend.PostJSON(ctx, c.httpClient, c.baseURL+"/v1/responses", c.headers(), payload)
	if err != nil {
		return backend.Result{}, err
	}

	var parsed struct {
		Output []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
		OutputText string `json:"output_text"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return backend.Result{}, fmt.Errorf("parse response: %w", err)
	}

	text := strings.TrimSpace(parsed.OutputText)
	if text == "" {
		for _, o := range parsed.Output {
			for _, part := range o.Content {
				if part.Type == "output_text" || part.Text != "" {
					text += part.Text
				}
			}
		}
	}
	return backend.Result{Text: text, Raw: body}, nil
}

func (c *Client) chat(ctx context.Context, prompt string) (backend.Result, error) {
	if err := c.check(prompt); err != nil {
		return backend.Result{}, err
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
	body, err := backend.PostJSON(ctx, c.httpClient, c.baseURL+"/v1/chat/completions", c.headers(), payload)
	if err != nil {
		return backend.Result{}, err
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return backend.Result{}, fmt.Errorf("parse response: %w", err)
	}

	text := ""
	for _, ch := range parsed.Choices {
		text += ch.Message.Content
	}
	return backend.Result{Text: text, Raw: body}, nil
}

func (c *Client) check(prompt string) error {
	if strings.TrimSpace(c.apiKey) == "" {
		return backend.ErrMissingAPIKey
	}
	if strings.TrimSpace(prompt) == "" {
		return backend.ErrEmptyPrompt
	}
	return nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.apiKey}
}
