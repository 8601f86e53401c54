package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-3.5-turbo", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "be helpful", req.Messages[0].Content)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "When do I plant maize?", req.Messages[1].Content)
		assert.Equal(t, 300, req.MaxTokens)

		w.Write([]byte(`{"id":"1","choices":[{"message":{"role":"assistant","content":"In November."}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{Flavor: "openai", APIKey: "key", BaseURL: srv.URL + "/"}, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	text, err := c.Complete(context.Background(), "be helpful", "When do I plant maize?")
	require.NoError(t, err)
	assert.Equal(t, "In November.", text)
}

func TestComplete_NoSystem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{Flavor: "groq", APIKey: "key", BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)

	text, err := c.Complete(context.Background(), "", "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":{"message":"bad key"}}`},
		{name: "quota", status: http.StatusTooManyRequests, body: `{}`},
		{name: "api error body", status: http.StatusOK, body: `{"error":{"message":"overloaded"}}`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`},
		{name: "malformed", status: http.StatusOK, body: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := NewClient(Config{Flavor: "openrouter", APIKey: "key", BaseURL: srv.URL}, zap.NewNop())
			require.NoError(t, err)

			_, err = c.Complete(context.Background(), "sys", "prompt")
			assert.Error(t, err)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Config{Flavor: "groq", APIKey: "key"}, zap.NewNop())
	require.NoError(t, err)

	info := c.GetModelInfo()
	assert.Equal(t, "groq", info["provider"])
	assert.Equal(t, "llama-3.3-70b-versatile", info["model"])
	assert.Equal(t, "https://api.groq.com/openai/v1", info["base_url"])

	_, err = NewClient(Config{Flavor: "openai"}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewClient(Config{Flavor: "mystery", APIKey: "key"}, zap.NewNop())
	assert.Error(t, err)
}
