package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"farmer-chatbot/internal/llm"

	"gopkg.in/yaml.v3"
)

const (
	defaultUserLookupURL    = "https://eobkhsunhiqtfkgkaovv.supabase.co/functions/v1/user-lookup"
	defaultMarketingDataURL = "https://eobkhsunhiqtfkgkaovv.supabase.co/functions/v1/marketing-data"
)

// Config holds application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	LLM llm.ProviderConfig `yaml:"llm"`

	Weather struct {
		APIKey  string        `yaml:"api_key"`
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"weather"`

	// Identity and farmer data service
	Supabase struct {
		JWTSecret        string        `yaml:"jwt_secret"`
		AnonKey          string        `yaml:"anon_key"`
		UserLookupURL    string        `yaml:"user_lookup_url"`
		MarketingDataURL string        `yaml:"marketing_data_url"`
		Timeout          time.Duration `yaml:"timeout"`
	} `yaml:"supabase"`

	Database struct {
		Path string `yaml:"path"` // SQLite path for the conversation log
	} `yaml:"database"`
}

// LoadConfig loads configuration from a YAML file. A missing file is not an
// error: defaults and environment variables are enough to run.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	switch {
	case err == nil:
		defer file.Close()
		decoder := yaml.NewDecoder(file)
		if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	// Expand environment variables in secrets and URLs
	config.LLM.APIKey = os.ExpandEnv(config.LLM.APIKey)
	config.Weather.APIKey = os.ExpandEnv(config.Weather.APIKey)
	config.Supabase.JWTSecret = os.ExpandEnv(config.Supabase.JWTSecret)
	config.Supabase.AnonKey = os.ExpandEnv(config.Supabase.AnonKey)
	config.Supabase.UserLookupURL = os.ExpandEnv(config.Supabase.UserLookupURL)
	config.Supabase.MarketingDataURL = os.ExpandEnv(config.Supabase.MarketingDataURL)

	config.applyEnvOverrides()
	config.setDefaults()

	return config, nil
}

func (c *Config) setDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8000"
	}

	if c.LLM.Type == "" {
		c.LLM.Type = llm.ProviderGemini
	}
	if c.LLM.Type == llm.ProviderGemini && c.LLM.ModelName == "" {
		c.LLM.ModelName = "gemini-2.0-flash-exp"
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 10 * time.Second
	}

	if c.Weather.Timeout == 0 {
		c.Weather.Timeout = 8 * time.Second
	}

	if c.Supabase.UserLookupURL == "" {
		c.Supabase.UserLookupURL = defaultUserLookupURL
	}
	if c.Supabase.MarketingDataURL == "" {
		c.Supabase.MarketingDataURL = defaultMarketingDataURL
	}
	if c.Supabase.Timeout == 0 {
		c.Supabase.Timeout = 10 * time.Second
	}

	if c.Database.Path == "" {
		c.Database.Path = "./data/conversations.db"
	}
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}

	fileProvider := c.LLM.Type
	if fileProvider == "" {
		fileProvider = llm.ProviderGemini
	}

	// Provider keys, lowest priority first
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Type = llm.ProviderOpenRouter
	}
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Type = llm.ProviderGroq
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Type = llm.ProviderOpenAI
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Type = llm.ProviderGemini
	}

	// Explicit selection wins over the provider-specific keys
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Type = llm.ProviderType(provider)
	}
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}

	// Model and base URL from the file belong to the file's provider
	if c.LLM.Type != "" && c.LLM.Type != fileProvider {
		c.LLM.ModelName = ""
		c.LLM.BaseURL = ""
	}

	if key := os.Getenv("WEATHER_API_KEY"); key != "" {
		c.Weather.APIKey = key
	}

	if secret := os.Getenv("SUPABASE_JWT_SECRET"); secret != "" {
		c.Supabase.JWTSecret = secret
	}
	if key := os.Getenv("SUPABASE_ANON_KEY"); key != "" {
		c.Supabase.AnonKey = key
	}
	if url := os.Getenv("SUPABASE_USER_LOOKUP_URL"); url != "" {
		c.Supabase.UserLookupURL = url
	}
	if url := os.Getenv("SUPABASE_MARKETING_DATA_URL"); url != "" {
		c.Supabase.MarketingDataURL = url
	}

	if path := os.Getenv("DATABASE_PATH"); path != "" {
		c.Database.Path = path
	}
}
