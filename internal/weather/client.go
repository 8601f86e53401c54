package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"farmer-chatbot/internal/models"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "http://api.weatherapi.com/v1"
	defaultTimeout = 8 * time.Second
)

// Config for the weather client
type Config struct {
	APIKey  string
	BaseURL string        // Default: WeatherAPI.com v1
	Timeout time.Duration // Default: 8s
}

// Client fetches current conditions from WeatherAPI.com
type Client struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// currentResponse is the subset of /current.json we read
type currentResponse struct {
	Location *struct {
		Name string `json:"name"`
	} `json:"location"`
	Current *struct {
		TempC     float64 `json:"temp_c"`
		Humidity  float64 `json:"humidity"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

// NewClient creates a weather client. A blank API key is allowed; every
// Fetch then fails with ErrNotConfigured.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.APIKey == "" {
		logger.Warn("Weather API key not configured, live weather disabled")
	} else {
		logger.Info("Weather client initialized",
			zap.String("base_url", cfg.BaseURL),
			zap.Duration("timeout", cfg.Timeout))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Configured reports whether a provider credential is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Fetch returns the current weather for location. It makes exactly one
// request bounded by the client timeout.
func (c *Client) Fetch(ctx context.Context, location string) (*models.WeatherSnapshot, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", location)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/current.json?"+q.Encode(), nil)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Weather API request failed", zap.String("location", location), zap.Error(err))
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Weather API returned error status",
			zap.String("location", location),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, &ProviderError{Location: location, StatusCode: resp.StatusCode}
	}

	var data currentResponse
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Warn("Failed to parse weather response", zap.Error(err), zap.String("body", string(body)))
		return nil, &ProviderError{Location: location, StatusCode: resp.StatusCode, Err: err}
	}
	if data.Current == nil {
		return nil, &ProviderError{Location: location, StatusCode: resp.StatusCode, Err: errors.New("response has no current conditions")}
	}

	city := location
	if data.Location != nil && data.Location.Name != "" {
		city = data.Location.Name
	}

	snapshot := &models.WeatherSnapshot{
		Location:    city,
		Temperature: formatTemperature(data.Current.TempC) + "°C",
		Condition:   data.Current.Condition.Text,
		Humidity:    strconv.FormatFloat(data.Current.Humidity, 'f', -1, 64) + "%",
		Forecast:    data.Current.Condition.Text,
	}

	c.logger.Debug("Weather fetched",
		zap.String("location", snapshot.Location),
		zap.String("condition", snapshot.Condition))

	return snapshot, nil
}

// formatTemperature always keeps one decimal for whole degrees ("24.0")
func formatTemperature(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
