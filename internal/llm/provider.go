// Package llm is the gateway to generative text providers.
//
// Providers (Gemini, OpenAI-compatible APIs) only know how to complete a
// prompt. Client adds what every call needs on top: the system instruction
// for the requested language, a per-call timeout, optional rate limiting and
// a single GenerationError type for every failure. Calls are never retried.
package llm

import (
	"context"
	"time"
)

// ProviderType represents the type of LLM provider
type ProviderType string

const (
	ProviderGemini     ProviderType = "gemini"
	ProviderOpenAI     ProviderType = "openai"
	ProviderGroq       ProviderType = "groq"
	ProviderOpenRouter ProviderType = "openrouter"
)

// ProviderConfig holds configuration for the generative provider
type ProviderConfig struct {
	Type      ProviderType  `yaml:"provider"`
	APIKey    string        `yaml:"api_key"`
	ModelName string        `yaml:"model_name"`
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	MaxTokens int           `yaml:"max_tokens"`
	// Rate limiting, 0 disables it
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// Provider completes a single prompt under a system instruction
type Provider interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	Close() error
	GetModelInfo() map[string]interface{}
}
