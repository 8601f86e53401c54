// Package lookup is the client for the farmer data service: the user-lookup
// function (profile with farms, fields and crops) and the marketing-data
// function (flat farm summary).
package lookup

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

	"farmer-chatbot/internal/models"

	"go.uber.org/zap"
)

// ErrNotFound is returned when no farmer matches the query
var ErrNotFound = errors.New("farmer not found")

const defaultTimeout = 10 * time.Second

// Config for the lookup client
type Config struct {
	UserLookupURL    string
	MarketingDataURL string
	AnonKey          string
	Timeout          time.Duration // Default: 10s
}

// Client calls the data service edge functions
type Client struct {
	userLookupURL    string
	marketingDataURL string
	anonKey          string
	httpClient       *http.Client
	logger           *zap.Logger
}

// userLookupResponse is the payload of the user-lookup function
type userLookupResponse struct {
	Success bool            `json:"success"`
	Data    *userLookupData `json:"data"`
}

type userLookupData struct {
	FullName      string `json:"full_name"`
	Location      string `json:"location"`
	FarmerProfile *struct {
		Location string `json:"location"`
	} `json:"farmer_profile"`
	Farms []models.Farm `json:"farms"`
}

// NewClient creates a lookup client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	logger.Info("Lookup client initialized",
		zap.String("user_lookup_url", cfg.UserLookupURL),
		zap.Bool("anon_key_set", cfg.AnonKey != ""))

	return &Client{
		userLookupURL:    cfg.UserLookupURL,
		marketingDataURL: cfg.MarketingDataURL,
		anonKey:          cfg.AnonKey,
		httpClient:       &http.Client{Timeout: cfg.Timeout},
		logger:           logger,
	}
}

// FindFarmer resolves a farmer profile by email and/or phone
func (c *Client) FindFarmer(ctx context.Context, email, phone string) (*models.FarmerProfile, error) {
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return nil, ErrNotFound
	}
	if c.userLookupURL == "" {
		return nil, fmt.Errorf("user lookup URL not configured")
	}

	q := url.Values{}
	if email != "" {
		q.Set("email", email)
	}
	if phone != "" {
		q.Set("phone", phone)
	}
	q.Set("include", "basic,farms,crops")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userLookupURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status != http.StatusOK {
		c.logger.Warn("User lookup failed", zap.Int("status", status), zap.String("body", string(body)))
		return nil, fmt.Errorf("user lookup returned status %d", status)
	}

	var payload userLookupResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse user lookup response: %w", err)
	}
	if payload.Data == nil {
		return nil, ErrNotFound
	}

	return payload.Data.profile(), nil
}

func (d *userLookupData) profile() *models.FarmerProfile {
	location := d.Location
	if d.FarmerProfile != nil && d.FarmerProfile.Location != "" {
		location = d.FarmerProfile.Location
	}
	return &models.FarmerProfile{
		FullName: d.FullName,
		Location: location,
		Farms:    d.Farms,
	}
}

// FarmSummary fetches the flat marketing-data record for an email
func (c *Client) FarmSummary(ctx context.Context, email string) (*models.FarmSummary, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrNotFound
	}
	if c.marketingDataURL == "" {
		return nil, fmt.Errorf("marketing data URL not configured")
	}

	payload, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.marketingDataURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if status != http.StatusOK {
		c.logger.Warn("Marketing data lookup failed", zap.Int("status", status), zap.String("body", string(body)))
		return nil, fmt.Errorf("marketing data returned status %d", status)
	}

	var summary models.FarmSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse marketing data response: %w", err)
	}
	return &summary, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.anonKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Data service request failed", zap.String("url", req.URL.Path), zap.Error(err))
		return nil, 0, fmt.Errorf("data service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}
