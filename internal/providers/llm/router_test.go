package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/sandevgo/aimee/internal/core"
)

type stubProvider struct {
	reply string
	err   error
	calls int
	last  core.ChatRequest
}

func (s *stubProvider) Chat(ctx context.Context, req core.ChatRequest) (core.ChatResult, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return core.ChatResult{}, s.err
	}
	return core.ChatResult{Content: s.reply, Usage: core.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}}, nil
}

func newTestRouter(mode core.Mode, cost, quality core.AIProvider) *Router {
	return &Router{
		mode:         mode,
		cost:         cost,
		quality:      quality,
		costModel:    "deepseek-chat",
		qualityModel: "gpt-4",
		pick:         func(n int) int { return 0 },
	}
}

func TestGenerate_ModeSelectsBackend(t *testing.T) {
	tests := []struct {
		name      string
		mode      core.Mode
		wantModel string
	}{
		{"testing uses cost backend", core.ModeTesting, "deepseek-chat"},
		{"production uses quality backend", core.ModeProduction, "gpt-4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost := &stubProvider{reply: "hey!"}
			quality := &stubProvider{reply: "hey!"}
			r := newTestRouter(tt.mode, cost, quality)

			got := r.Generate(context.Background(), []core.ChatMessage{{Role: core.RoleUser, Content: "hi"}}, core.ChatOptions{})
			if got != "hey!" {
				t.Fatalf("unexpected reply: %q", got)
			}

			selected := cost
			other := quality
			if tt.mode == core.ModeProduction {
				selected, other = quality, cost
			}
			if selected.calls != 1 || other.calls != 0 {
				t.Errorf("wrong backend called: cost=%d quality=%d", cost.calls, quality.calls)
			}
			if selected.last.Model != tt.wantModel {
				t.Errorf("expected model %s, got %s", tt.wantModel, selected.last.Model)
			}
		})
	}
}

func TestGenerate_DefaultOptions(t *testing.T) {
	cost := &stubProvider{reply: "ok"}
	r := newTestRouter(core.ModeTesting, cost, &stubProvider{})

	r.Generate(context.Background(), nil, core.ChatOptions{})

	req := cost.last
	if req.Temperature != 0.8 || req.MaxTokens != 300 || req.PresencePenalty != 0.6 || req.FrequencyPenalty != 0.3 {
		t.Errorf("default options not applied: %+v", req)
	}
}

func TestGenerate_OptionOverrides(t *testing.T) {
	cost := &stubProvider{reply: "ok"}
	r := newTestRouter(core.ModeTesting, cost, &stubProvider{})

	r.Generate(context.Background(), nil, core.ChatOptions{Temperature: 0.3, MaxTokens: 500})

	req := cost.last
	if req.Temperature != 0.3 || req.MaxTokens != 500 {
		t.Errorf("overrides not applied: %+v", req)
	}
	// Unset fields still take router defaults
	if req.PresencePenalty != 0.6 || req.FrequencyPenalty != 0.3 {
		t.Errorf("defaults not kept for unset fields: %+v", req)
	}
}

func TestGenerate_Truncation(t *testing.T) {
	long := strings.Repeat("a", 2000)
	cost := &stubProvider{reply: long}
	r := newTestRouter(core.ModeTesting, cost, &stubProvider{})

	got := r.Generate(context.Background(), nil, core.ChatOptions{})

	if len(got) > maxReplyLength+3 {
		t.Errorf("reply too long: %d chars", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated reply must end with ellipsis")
	}
}

func TestGenerate_RateLimitFallsBackToCostBackend(t *testing.T) {
	cost := &stubProvider{reply: "fallback reply"}
	quality := &stubProvider{err: &StatusError{Code: http.StatusTooManyRequests, Body: "slow down"}}
	r := newTestRouter(core.ModeProduction, cost, quality)

	got := r.Generate(context.Background(), nil, core.ChatOptions{})

	if got != "fallback reply" {
		t.Fatalf("expected cost backend reply, got %q", got)
	}
	if quality.calls != 1 || cost.calls != 1 {
		t.Errorf("expected one call each: cost=%d quality=%d", cost.calls, quality.calls)
	}
	if cost.last.Model != "deepseek-chat" {
		t.Errorf("fallback call must use cost model, got %s", cost.last.Model)
	}
}

func TestGenerate_NonRateLimitErrorSkipsRetry(t *testing.T) {
	cost := &stubProvider{reply: "should not be used"}
	quality := &stubProvider{err: errors.New("boom")}
	r := newTestRouter(core.ModeProduction, cost, quality)

	got := r.Generate(context.Background(), nil, core.ChatOptions{})

	if cost.calls != 0 {
		t.Error("cost backend must not be called for non-rate-limit errors")
	}
	assertFallbackReply(t, got)
}

func TestGenerate_BothBackendsFail(t *testing.T) {
	cost := &stubProvider{err: errors.New("down")}
	quality := &stubProvider{err: &StatusError{Code: http.StatusTooManyRequests, Body: "limited"}}
	r := newTestRouter(core.ModeProduction, cost, quality)

	got := r.Generate(context.Background(), nil, core.ChatOptions{})
	assertFallbackReply(t, got)
}

func assertFallbackReply(t *testing.T, got string) {
	t.Helper()
	if got == "" {
		t.Fatal("reply must never be empty")
	}
	for _, f := range fallbackReplies {
		if got == f {
			return
		}
	}
	t.Errorf("reply %q is not a canned fallback", got)
}

func TestGenerateStrict_ReturnsError(t *testing.T) {
	cost := &stubProvider{err: errors.New("down")}
	r := newTestRouter(core.ModeTesting, cost, &stubProvider{})

	_, err := r.GenerateStrict(context.Background(), nil, core.ChatOptions{})
	if err == nil {
		t.Fatal("expected error from strict generation")
	}
}

func TestSwitchMode(t *testing.T) {
	r := newTestRouter(core.ModeTesting, &stubProvider{}, &stubProvider{})

	if err := r.SwitchMode(core.ModeProduction); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Mode() != core.ModeProduction {
		t.Error("mode not switched")
	}

	if err := r.SwitchMode(core.Mode("chaos")); err == nil {
		t.Error("expected error for invalid mode")
	}
	if r.Mode() != core.ModeProduction {
		t.Error("invalid switch must not change the mode")
	}
}

func TestStatus(t *testing.T) {
	r := newTestRouter(core.ModeTesting, &stubProvider{}, &stubProvider{})

	st := r.Status()
	if st.Mode != core.ModeTesting || st.Model != "deepseek-chat" || st.Backend != "deepseek" {
		t.Errorf("unexpected status: %+v", st)
	}
}

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"status 429", &StatusError{Code: 429}, true},
		{"status 500", &StatusError{Code: 500}, false},
		{"message match", errors.New("openai: rate limit reached"), true},
		{"other", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimited(tt.err); got != tt.want {
				t.Errorf("IsRateLimited(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
