package llm

import (
	"fmt"
	"strings"

	"farmer-chatbot/internal/gemini"
	"farmer-chatbot/internal/openai"

	"go.uber.org/zap"
)

// New builds the Generator for cfg. A blank API key is not an error: the
// service then runs with Unavailable and answers from its rule-based texts.
func New(cfg ProviderConfig, instructions InstructionFunc, logger *zap.Logger) (Generator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" || apiKey == "YOUR_API_KEY_HERE" {
		logger.Warn("No generative provider API key found, using rule-based responses")
		return Unavailable{}, nil
	}

	var (
		provider Provider
		err      error
	)

	switch cfg.Type {
	case ProviderGemini, "":
		provider, err = gemini.NewClient(gemini.Config{
			APIKey:    apiKey,
			ModelName: cfg.ModelName,
			MaxTokens: cfg.MaxTokens,
		}, logger)
	case ProviderOpenAI, ProviderGroq, ProviderOpenRouter:
		provider, err = openai.NewClient(openai.Config{
			Flavor:    string(cfg.Type),
			APIKey:    apiKey,
			ModelName: cfg.ModelName,
			BaseURL:   cfg.BaseURL,
			MaxTokens: cfg.MaxTokens,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", cfg.Type, err)
	}

	return NewClient(provider, instructions, cfg.Timeout, cfg.RequestsPerMinute, logger), nil
}
