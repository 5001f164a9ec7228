package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func fakeServer(t *testing.T, content string, got *chatRequest, auth *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if auth != nil {
			*auth = r.Header.Get("Authorization")
		}
		if got != nil {
			_ = json.NewDecoder(r.Body).Decode(got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 0,
			"model":   DefaultModel,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCompleter_Complete(t *testing.T) {
	var req chatRequest
	var auth string
	srv := fakeServer(t, " 1000001\n", &req, &auth)

	c := NewCompleter(func() string { return "sk-test" }, WithBaseURL(srv.URL+"/v1"), WithModel("gpt-test"), WithRateLimit(100))
	out, err := c.Complete(context.Background(), "住所: 東京都千代田区", 20)
	require.NoError(t, err)

	assert.Equal(t, "1000001", out)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "gpt-test", req.Model)
	assert.Equal(t, 20, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "住所: 東京都千代田区", req.Messages[1].Content)
}

func TestCompleter_KeyReadPerCall(t *testing.T) {
	srv := fakeServer(t, "1000001", nil, nil)
	key := ""
	c := NewCompleter(func() string { return key }, WithBaseURL(srv.URL+"/v1"))

	_, err := c.Complete(context.Background(), "x", 20)
	assert.ErrorIs(t, err, ErrNoAPIKey)

	key = "sk-late"
	out, err := c.Complete(context.Background(), "x", 20)
	require.NoError(t, err)
	assert.Equal(t, "1000001", out)
}

func TestCompleter_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	c := NewCompleter(func() string { return "sk-test" }, WithBaseURL(srv.URL+"/v1"))
	_, err := c.Complete(context.Background(), "x", 20)
	assert.Error(t, err)
}

func TestNewCompleter_Defaults(t *testing.T) {
	c := NewCompleter(nil, WithModel(" "), WithRateLimit(0))
	assert.Equal(t, DefaultModel, c.model)
	assert.Nil(t, c.limiter)

	_, err := c.Complete(context.Background(), "x", 20)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
