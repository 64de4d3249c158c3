package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aiground/linkdigest/internal/config"
)

func newTestClient(serverURL string) *Client {
	return NewClient(&config.Config{
		OllamaURL:      serverURL,
		OllamaModel:    "gpt-oss:120b-cloud",
		TranslateModel: "translategemma:4b",
	}, zap.NewNop().Sugar())
}

func TestSummarizeSendsChatRequest(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Nil(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Role: "assistant", Content: "요약 결과"}})
	}))
	defer server.Close()

	reply, err := newTestClient(server.URL).Summarize(context.Background(), "본문", "llama3:8b")
	require.Nil(t, err)
	assert.Equal(t, "요약 결과", reply)

	assert.Equal(t, "llama3:8b", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Contains(t, got.Messages[1].Content, "본문")
}

func TestSummarizeFallsBackToDefaultModel(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Nil(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Content: "ok reply"}})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Summarize(context.Background(), "text", "")
	require.Nil(t, err)
	assert.Equal(t, "gpt-oss:120b-cloud", got.Model)
}

func TestTranslateUsesTranslateModel(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Nil(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse{Message: chatMessage{Content: "쿠버네티스"}})
	}))
	defer server.Close()

	reply, err := newTestClient(server.URL).TranslateToKorean(context.Background(), "Kubernetes")
	require.Nil(t, err)
	assert.Equal(t, "쿠버네티스", reply)
	assert.Equal(t, "translategemma:4b", got.Model)
}

func TestChatErrors(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Chat(context.Background(), "m", "s", "u")
		assert.NotNil(t, err)
	})

	t.Run("empty reply", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(chatResponse{})
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Chat(context.Background(), "m", "s", "u")
		assert.NotNil(t, err)
	})
}
