package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sandevgo/aimee/internal/core"
)

type OpenAICompatible struct {
	baseProvider
	authHeader   string
	authPrefix   string
	extraHeaders map[string]string
}

type OpenAICompatibleConfig struct {
	BaseURL      string
	APIKey       string
	AuthHeader   string // e.g., "Authorization"
	AuthPrefix   string // e.g., "Bearer "
	ExtraHeaders map[string]string
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	return &OpenAICompatible{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.APIKey),
		authHeader:   cfg.AuthHeader,
		authPrefix:   cfg.AuthPrefix,
		extraHeaders: cfg.ExtraHeaders,
	}
}

func (o *OpenAICompatible) Chat(ctx context.Context, req core.ChatRequest) (core.ChatResult, error) {
	headers := make(map[string]string)
	if o.authHeader != "" && o.apiKey != "" {
		headers[o.authHeader] = o.authPrefix + o.apiKey
	}
	for k, v := range o.extraHeaders {
		headers[k] = v
	}

	resp, err := o.doRequest(ctx, http.MethodPost, "/v1/chat/completions", req, headers)
	if err != nil {
		return core.ChatResult{}, err
	}
	defer resp.Body.Close()

	return parseChatResponse(resp)
}

func parseChatResponse(resp *http.Response) (core.ChatResult, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.ChatResult{}, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return core.ChatResult{}, &StatusError{Code: resp.StatusCode, Body: string(data)}
	}

	var result struct {
		Choices []struct {
			Message core.ChatMessage `json:"message"`
		} `json:"choices"`
		Usage core.Usage `json:"usage"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return core.ChatResult{}, fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return core.ChatResult{}, fmt.Errorf("empty choices: %s", string(data))
	}

	return core.ChatResult{
		Content: strings.TrimSpace(result.Choices[0].Message.Content),
		Usage:   result.Usage,
	}, nil
}
