package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *AnthropicClient {
	return NewAnthropicClient("test-key", 0,
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)
}

func TestAnthropicClient_Complete(t *testing.T) {
	var received map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/messages")
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"id":   "msg_test_001",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": "Dear Sir or Madam, "},
				{"type": "text", "text": "my boiler is broken."},
			},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "end_turn",
			"usage": map[string]any{
				"input_tokens":  10,
				"output_tokens": 5,
			},
		})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	text, err := client.Complete(context.Background(), CompletionRequest{
		Model:     "claude-haiku-4-5-20251001",
		MaxTokens: 256,
		System:    "Tidy the complaint.",
		Prompt:    "boiler broke!!!",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dear Sir or Madam, my boiler is broken.", text)

	assert.Equal(t, "claude-haiku-4-5-20251001", received["model"])
	assert.EqualValues(t, 256, received["max_tokens"])
	system, ok := received["system"].([]any)
	require.True(t, ok, "system prompt should be sent as blocks")
	require.Len(t, system, 1)
	assert.Equal(t, "Tidy the complaint.", system[0].(map[string]any)["text"])
}

func TestAnthropicClient_Complete_Error(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"type": "error",
			"error": map[string]any{
				"type":    "invalid_request_error",
				"message": "max_tokens too large",
			},
		})
	}))
	defer ts.Close()

	client := newTestClient(ts.URL)
	_, err := client.Complete(context.Background(), CompletionRequest{
		Model:     "claude-haiku-4-5-20251001",
		MaxTokens: 1,
		Prompt:    "hello",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic: create message")
}
