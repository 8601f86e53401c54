// Package openai talks to OpenAI-compatible chat-completions APIs
// (OpenAI itself, Groq and OpenRouter).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Client represents a chat-completions API client.
type Client struct {
	apiKey     string
	baseURL    string
	modelName  string
	flavor     string
	maxTokens  int
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds configuration for the client.
type Config struct {
	Flavor    string // "openai", "groq" or "openrouter"; picks default URL and model
	APIKey    string
	ModelName string
	BaseURL   string
	MaxTokens int // Default: 300
}

type flavorDefaults struct {
	baseURL string
	model   string
}

var defaults = map[string]flavorDefaults{
	"openai":     {baseURL: "https://api.openai.com/v1", model: "gpt-3.5-turbo"},
	"groq":       {baseURL: "https://api.groq.com/openai/v1", model: "llama-3.3-70b-versatile"},
	"openrouter": {baseURL: "https://openrouter.ai/api/v1", model: "meta-llama/llama-3.2-3b-instruct:free"},
}

// chatRequest represents the request structure for the chat-completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse represents the response structure from the chat-completions API.
type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewClient creates a new chat-completions client.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", cfg.Flavor)
	}

	if cfg.Flavor == "" {
		cfg.Flavor = "openai"
	}
	d, ok := defaults[cfg.Flavor]
	if !ok {
		return nil, fmt.Errorf("unknown chat-completions flavor %q", cfg.Flavor)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = d.baseURL
	}
	if cfg.ModelName == "" {
		cfg.ModelName = d.model
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 300
	}

	client := &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		modelName:  cfg.ModelName,
		flavor:     cfg.Flavor,
		maxTokens:  cfg.MaxTokens,
		httpClient: &http.Client{},
		logger:     logger,
	}

	logger.Info("Chat-completions client initialized",
		zap.String("flavor", cfg.Flavor),
		zap.String("model", cfg.ModelName))

	return client, nil
}

// Complete sends one chat-completions request. Timeouts come from ctx.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	jsonData, err := json.Marshal(chatRequest{
		Model:       c.modelName,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.flavor == "openrouter" {
		req.Header.Set("X-Title", "Zambian Farmer Chatbot")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s API request failed: %w", c.flavor, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Chat-completions API error",
			zap.String("flavor", c.flavor),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return "", fmt.Errorf("%s API returned status %d", c.flavor, resp.StatusCode)
	}

	var apiResp chatResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("%s API error: %s", c.flavor, apiResp.Error.Message)
	}

	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in %s response", c.flavor)
	}

	return apiResp.Choices[0].Message.Content, nil
}

// Close closes the client and releases resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// GetModelInfo returns information about the model being used.
func (c *Client) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"provider": c.flavor,
		"model":    c.modelName,
		"base_url": c.baseURL,
	}
}
