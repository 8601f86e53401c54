package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 10 * time.Second

// ErrNotConfigured is returned by Unavailable for every call
var ErrNotConfigured = errors.New("generative provider not configured")

// GenerationError covers every provider failure: auth, quota, timeout,
// malformed or empty output. Callers treat them all the same.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generator produces text for a prompt in the requested language
type Generator interface {
	Generate(ctx context.Context, prompt, language string) (string, error)
	Close() error
	GetModelInfo() map[string]interface{}
}

// InstructionFunc builds the system instruction for a language
type InstructionFunc func(language string) string

// Client adapts a Provider into a Generator
type Client struct {
	provider     Provider
	limiter      *RateLimiter
	instructions InstructionFunc
	timeout      time.Duration
	name         string
	logger       *zap.Logger
}

// NewClient wraps provider. requestsPerMinute <= 0 disables rate limiting.
func NewClient(provider Provider, instructions InstructionFunc, timeout time.Duration, requestsPerMinute int, logger *zap.Logger) *Client {
	if timeout == 0 {
		timeout = defaultTimeout
	}

	name := "unknown"
	if p, ok := provider.GetModelInfo()["provider"].(string); ok {
		name = p
	}

	c := &Client{
		provider:     provider,
		instructions: instructions,
		timeout:      timeout,
		name:         name,
		logger:       logger,
	}
	if requestsPerMinute > 0 {
		c.limiter = NewRateLimiter(requestsPerMinute)
	}
	return c
}

// Generate makes one provider call bounded by the client timeout
func (c *Client) Generate(ctx context.Context, prompt, language string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &GenerationError{Provider: c.name, Err: fmt.Errorf("rate limit wait cancelled: %w", err)}
		}
	}

	system := ""
	if c.instructions != nil {
		system = c.instructions(language)
	}

	start := time.Now()
	text, err := c.provider.Complete(ctx, system, prompt)
	if err != nil {
		c.logger.Warn("Generation failed",
			zap.String("provider", c.name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", &GenerationError{Provider: c.name, Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &GenerationError{Provider: c.name, Err: errors.New("empty response")}
	}

	c.logger.Debug("Generation succeeded",
		zap.String("provider", c.name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(text)))

	return text, nil
}

// Close closes the underlying provider
func (c *Client) Close() error {
	return c.provider.Close()
}

// GetModelInfo returns provider information plus client settings
func (c *Client) GetModelInfo() map[string]interface{} {
	info := c.provider.GetModelInfo()
	info["timeout"] = c.timeout.String()
	info["rate_limited"] = c.limiter != nil
	return info
}

// Unavailable is the Generator used when no credential is configured
type Unavailable struct{}

// Generate always fails with ErrNotConfigured
func (Unavailable) Generate(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}

func (Unavailable) Close() error { return nil }

func (Unavailable) GetModelInfo() map[string]interface{} {
	return map[string]interface{}{
		"provider": "none",
		"model":    "rule-based",
	}
}
