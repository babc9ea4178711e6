package core

import "context"

// ChatRequest mirrors the OpenAI-compatible completion payload.
type ChatRequest struct {
	Model            string        `json:"model"`
	Messages         []ChatMessage `json:"messages"`
	Temperature      float64       `json:"temperature"`
	MaxTokens        int           `json:"max_tokens"`
	PresencePenalty  float64       `json:"presence_penalty"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
}

type ChatResult struct {
	Content string
	Usage   Usage
}

type AIProvider interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResult, error)
}

// ChatOptions are per-call overrides for the router's defaults.
// A zero field means "use the router default".
type ChatOptions struct {
	Temperature      float64
	MaxTokens        int
	PresencePenalty  float64
	FrequencyPenalty float64
}

type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}
