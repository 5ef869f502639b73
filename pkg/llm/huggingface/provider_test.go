package huggingface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-briefbuilder-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSendsOpenAIPayload(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer hf_secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Speed Matters"}}]}`))
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("hf_secret", srv.URL, "mistral")
	out, err := p.Generate(context.Background(), "name the insight", llm.WithJSONOutput(), llm.WithModel("qwen"))
	require.NoError(t, err)
	assert.Equal(t, "Speed Matters", out)

	assert.Equal(t, "qwen", got.Model)
	assert.Equal(t, 2048, got.MaxTokens)
	assert.Equal(t, 0.7, got.Temperature)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "name the insight", got.Messages[0].Content)
}

func TestChatOmitsAuthorizationWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	out, err := NewHuggingFaceProvider("", srv.URL, "mistral").Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestChatErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"non 200", http.StatusTooManyRequests, `rate limited`, "status 429"},
		{"error object", http.StatusOK, `{"error":{"message":"model is loading"}}`, "model is loading"},
		{"no choices", http.StatusOK, `{"choices":[]}`, "empty choices"},
		{"malformed body", http.StatusOK, `<html>`, "failed to decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHuggingFaceProvider("hf_secret", srv.URL, "mistral").Generate(context.Background(), "hi")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDefaultBaseURL(t *testing.T) {
	p := NewHuggingFaceProvider("hf_secret", "", "mistral")
	assert.Equal(t, "https://router.huggingface.co/v1", p.baseURL)
}
