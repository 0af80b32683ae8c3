package domain

import "context"

// LLMResponse is a completed generation from the language model.
type LLMResponse struct {
	Text string
	Done bool
}

// LLMClient defines the interface for text generation. The pipeline uses two
// instances: one for planning and one for relevance judging, typically bound
// to different models.
type LLMClient interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (*LLMResponse, error)
	Version() string
}
