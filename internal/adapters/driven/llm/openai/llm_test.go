package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewLLMService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)
	return svc
}

func TestGenerate(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "hello", req.Messages[0].Content)
		assert.False(t, req.Stream)
		assert.Equal(t, 64, req.MaxTokens)

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "hi there"}},
			},
		})
	})

	text, err := svc.Generate(context.Background(), "hello", driven.GenerateOptions{MaxTokens: 64})
	require.NoError(t, err)
	assert.Equal(t, "hi there", text)
}

func TestGenerate_APIError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limit exceeded"},
		})
	})

	_, err := svc.Generate(context.Background(), "hello", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestGenerateStream(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		for _, token := range []string{"Doc", "ument", " QA"} {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", token)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var tokens []string
	full, err := svc.GenerateStream(context.Background(), "hello", driven.GenerateOptions{}, func(token string) {
		tokens = append(tokens, token)
	})
	require.NoError(t, err)
	assert.Equal(t, "Document QA", full)
	assert.Equal(t, []string{"Doc", "ument", " QA"}, tokens)
}

func TestGenerateStream_NilCallback(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	full, err := svc.GenerateStream(context.Background(), "hello", driven.GenerateOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", full)
}

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.Error(t, err)
}
