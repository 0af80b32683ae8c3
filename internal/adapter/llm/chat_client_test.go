package llm_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noon-assistant/internal/adapter/llm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChatClient_Generate(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [
				{"message": {"content": "  intent: shopping\nsearch_steps:\n- q: \"sugar\"  "}, "finish_reason": "stop"}
			]
		}`))
	}))
	defer server.Close()

	client := llm.NewChatClient(server.URL, "gpt-5-mini", "sk-test", 5*time.Second, discardLogger())

	resp, err := client.Generate(context.Background(), "plan this", 1024)

	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-5-mini", gotBody["model"])
	assert.Equal(t, float64(1024), gotBody["max_tokens"])

	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	message := messages[0].(map[string]any)
	assert.Equal(t, "user", message["role"])
	assert.Equal(t, "plan this", message["content"])

	assert.True(t, resp.Done)
	assert.Equal(t, "intent: shopping\nsearch_steps:\n- q: \"sugar\"", resp.Text)
}

func TestChatClient_Generate_NoAuthHeaderWithoutKey(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "ok"}, "finish_reason": "stop"}]}`))
	}))
	defer server.Close()

	client := llm.NewChatClient(server.URL, "local-model", "", 5*time.Second, discardLogger())

	_, err := client.Generate(context.Background(), "hi", 0)

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestChatClient_Generate_TruncatedReplyIsNotDone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "partial"}, "finish_reason": "length"}]}`))
	}))
	defer server.Close()

	client := llm.NewChatClient(server.URL, "m", "", 5*time.Second, discardLogger())

	resp, err := client.Generate(context.Background(), "hi", 1)

	require.NoError(t, err)
	assert.False(t, resp.Done)
}

func TestChatClient_Generate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		errPart string
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "rate limited", http.StatusTooManyRequests)
			},
			errPart: "returned 429",
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"choices": []}`))
			},
			errPart: "no choices",
		},
		{
			name: "invalid json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			errPart: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := llm.NewChatClient(server.URL, "m", "", 5*time.Second, discardLogger())

			resp, err := client.Generate(context.Background(), "hi", 16)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
			assert.Nil(t, resp)
		})
	}
}

func TestChatClient_Version(t *testing.T) {
	client := llm.NewChatClient("http://localhost", "gpt-5-nano", "", time.Second, discardLogger())

	assert.Equal(t, "gpt-5-nano", client.Version())
}
