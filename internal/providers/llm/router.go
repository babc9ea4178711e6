package llm

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/aimee/internal/config"
	"github.com/sandevgo/aimee/internal/core"
	"github.com/sandevgo/aimee/pkg/log"
)

const (
	defaultTemperature      = 0.8
	defaultMaxTokens        = 300
	defaultPresencePenalty  = 0.6
	defaultFrequencyPenalty = 0.3

	// Hard cap on a single SMS reply.
	maxReplyLength = 1500
)

// fallbackReplies are the last-resort canned replies. A raw provider
// error must never reach the SMS channel.
var fallbackReplies = []string{
	"Hey! I'm having a little tech hiccup. Give me a sec and text me again? \U0001F49B",
	"Oops! My brain had a moment there. Try texting me again in a bit! \U0001F60A",
	"Sorry! I'm being a bit slow right now. Text me again and I'll be right with you! \U0001F917",
}

// Router selects between the cost-optimized and quality-optimized
// completion backends based on the operating mode, and owns the
// truncation/fallback policy for every generated reply.
type Router struct {
	mu   sync.RWMutex
	mode core.Mode

	cost    core.AIProvider
	quality core.AIProvider

	costModel    string
	qualityModel string

	// pick chooses a canned fallback; injectable for tests.
	pick func(n int) int

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

type Status struct {
	Mode    core.Mode `json:"mode"`
	Model   string    `json:"model"`
	Backend string    `json:"backend"`
}

func NewRouter(ctx context.Context, cfg *config.AIConfig) *Router {
	mode := cfg.ParsedMode(ctx)
	r := &Router{
		mode:         mode,
		cost:         NewDeepseek(cfg.DeepseekAPIKey),
		quality:      NewOpenAI(cfg.OpenAIAPIKey),
		costModel:    cfg.CostModel,
		qualityModel: cfg.QualityModel,
		pick:         rand.Intn,
	}

	log.FromCtx(ctx).Info().
		Str("mode", string(mode)).
		Str("model", r.model(mode)).
		Msg("aimee ai initialized")

	return r
}

func (r *Router) backend(mode core.Mode) core.AIProvider {
	if mode == core.ModeProduction {
		return r.quality
	}
	return r.cost
}

func (r *Router) model(mode core.Mode) string {
	if mode == core.ModeProduction {
		return r.qualityModel
	}
	return r.costModel
}

// Generate produces a reply and never fails: on provider errors it
// degrades to a canned fallback string.
func (r *Router) Generate(ctx context.Context, messages []core.ChatMessage, opts core.ChatOptions) string {
	reply, err := r.GenerateStrict(ctx, messages, opts)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("generation failed, sending fallback reply")
		return r.fallbackReply()
	}
	return reply
}

// GenerateStrict produces a reply or reports why it could not. Used
// where the caller wants to skip sending instead of degrading.
func (r *Router) GenerateStrict(ctx context.Context, messages []core.ChatMessage, opts core.ChatOptions) (string, error) {
	logger := log.FromCtx(ctx)

	mode := r.Mode()
	model := r.model(mode)
	req := r.buildRequest(model, messages, opts)

	logger.Debug().Str("model", model).Str("mode", string(mode)).Msg("generating response")

	result, err := r.backend(mode).Chat(ctx, req)
	if err == nil {
		r.logUsage(ctx, model, result.Usage, messages)
		return truncateReply(result.Content), nil
	}

	// Rate-limited on the quality backend: retry once on the cost one
	// before giving up.
	if mode == core.ModeProduction && IsRateLimited(err) {
		logger.Warn().Err(err).Msg("rate limited on primary backend, retrying on cost backend")

		req.Model = r.costModel
		result, fallbackErr := r.cost.Chat(ctx, req)
		if fallbackErr != nil {
			return "", fmt.Errorf("both backends failed: %w (after %s)", fallbackErr, err)
		}
		r.logUsage(ctx, r.costModel, result.Usage, messages)
		return truncateReply(result.Content), nil
	}

	return "", fmt.Errorf("generate with %s: %w", model, err)
}

func (r *Router) buildRequest(model string, messages []core.ChatMessage, opts core.ChatOptions) core.ChatRequest {
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.PresencePenalty == 0 {
		opts.PresencePenalty = defaultPresencePenalty
	}
	if opts.FrequencyPenalty == 0 {
		opts.FrequencyPenalty = defaultFrequencyPenalty
	}

	return core.ChatRequest{
		Model:            model,
		Messages:         messages,
		Temperature:      opts.Temperature,
		MaxTokens:        opts.MaxTokens,
		PresencePenalty:  opts.PresencePenalty,
		FrequencyPenalty: opts.FrequencyPenalty,
	}
}

func truncateReply(reply string) string {
	runes := []rune(reply)
	if len(runes) <= maxReplyLength {
		return reply
	}
	return string(runes[:maxReplyLength]) + "..."
}

func (r *Router) fallbackReply() string {
	return fallbackReplies[r.pick(len(fallbackReplies))]
}

// logUsage records token counts and an estimated cost per call. When a
// backend omits usage, prompt tokens are estimated with tiktoken.
func (r *Router) logUsage(ctx context.Context, model string, usage core.Usage, messages []core.ChatMessage) {
	estimated := false
	if usage.TotalTokens == 0 {
		usage.PromptTokens = r.estimateTokens(messages)
		usage.TotalTokens = usage.PromptTokens
		estimated = true
	}

	var cost float64
	switch model {
	case "gpt-4":
		cost = (float64(usage.PromptTokens)*0.03 + float64(usage.CompletionTokens)*0.06) / 1000
	case "deepseek-chat":
		cost = float64(usage.TotalTokens) * 0.0014 / 1000
	}

	log.FromCtx(ctx).Info().
		Str("model", model).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Bool("estimated", estimated).
		Float64("cost_usd", cost).
		Msg("completion usage")
}

func (r *Router) estimateTokens(messages []core.ChatMessage) int {
	r.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return
		}
		r.enc = enc
	})
	if r.enc == nil {
		return 0
	}

	total := 0
	for _, m := range messages {
		total += len(r.enc.Encode(m.Content, nil, nil))
	}
	return total
}

func (r *Router) Mode() core.Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// SwitchMode changes the operating mode process-wide. Operator action,
// not part of the message hot path.
func (r *Router) SwitchMode(mode core.Mode) error {
	if _, err := core.ParseMode(string(mode)); err != nil {
		return err
	}
	r.mu.Lock()
	r.mode = mode
	r.mu.Unlock()
	return nil
}

func (r *Router) Status() Status {
	mode := r.Mode()
	backend := "deepseek"
	if mode == core.ModeProduction {
		backend = "openai"
	}
	return Status{Mode: mode, Model: r.model(mode), Backend: backend}
}
