package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"noon-assistant/internal/domain"
)

const generationTemperature = 0.2

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// ChatClient sends prompts to an OpenAI-compatible chat completions endpoint
// and returns the assistant message.
type ChatClient struct {
	BaseURL string
	Model   string
	apiKey  string
	Client  *http.Client
	logger  *slog.Logger
}

// NewChatClient constructs a client for the given endpoint and model. If
// client is nil a default http.Client with the given timeout is created.
func NewChatClient(baseURL, model, apiKey string, timeout time.Duration, logger *slog.Logger, client ...*http.Client) *ChatClient {
	var c *http.Client
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	} else {
		c = &http.Client{Timeout: timeout}
	}
	return &ChatClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		apiKey:  apiKey,
		Client:  c,
		logger:  logger,
	}
}

// Generate sends the prompt as a single user message and returns the reply.
func (g *ChatClient) Generate(ctx context.Context, prompt string, maxTokens int) (*domain.LLMResponse, error) {
	reqBody := chatRequest{
		Model:       g.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: generationTemperature,
	}
	if maxTokens > 0 {
		reqBody.MaxTokens = &maxTokens
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/chat/completions", g.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	startTime := time.Now()
	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call chat endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("chat endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("chat endpoint returned no choices")
	}

	choice := chatResp.Choices[0]
	g.logger.Debug("generation_completed",
		slog.String("model", g.Model),
		slog.String("finish_reason", choice.FinishReason),
		slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()))

	return &domain.LLMResponse{
		Text: strings.TrimSpace(choice.Message.Content),
		Done: choice.FinishReason == "" || choice.FinishReason == "stop",
	}, nil
}

// Version returns the wrapped model name.
func (g *ChatClient) Version() string {
	return g.Model
}

var _ domain.LLMClient = (*ChatClient)(nil)
