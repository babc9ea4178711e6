package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandevgo/aimee/internal/core"
	"github.com/sandevgo/aimee/internal/service/prompt"
	"github.com/sandevgo/aimee/pkg/log"
)

const (
	extractionTemperature = 0.3
	extractionMaxTokens   = 500

	// Facts below this importance are not worth remembering.
	minImportance = 3
)

// generator is the slice of the completion router the extractor needs.
type generator interface {
	GenerateStrict(ctx context.Context, messages []core.ChatMessage, opts core.ChatOptions) (string, error)
}

// Extractor turns a single inbound message into memory facts and
// merges them into the store. Every failure is non-fatal: extraction
// degrades to "nothing learned", never to a failed reply.
type Extractor struct {
	memories core.MemoryRepository
	ai       generator
}

func NewExtractor(memories core.MemoryRepository, ai generator) *Extractor {
	return &Extractor{
		memories: memories,
		ai:       ai,
	}
}

// Remember extracts facts from an inbound message body and upserts the
// ones worth keeping.
func (e *Extractor) Remember(ctx context.Context, phone, body string) {
	logger := log.FromCtx(ctx)

	drafts := e.ExtractFacts(ctx, body)
	for _, d := range drafts {
		if d.Content == "" || !core.ValidCategory(d.Category) || d.Importance < minImportance {
			continue
		}

		fact := core.MemoryFact{
			UserPhone:  phone,
			Content:    d.Content,
			Category:   d.Category,
			Importance: clampImportance(d.Importance),
		}
		if err := e.memories.UpsertMemoryFact(ctx, fact); err != nil {
			logger.Error().Err(err).Str("category", d.Category).Msg("failed to save memory")
			continue
		}
		logger.Info().Str("category", d.Category).Int("importance", fact.Importance).Msg("memory extracted")
	}
}

// FactDraft is one entry of the model's extraction output.
type FactDraft struct {
	Content    string `json:"content"`
	Category   string `json:"category"`
	Importance int    `json:"importance"`
}

// ExtractFacts asks the completion backend to mine the message for
// durable facts. Returns an empty slice on any failure.
func (e *Extractor) ExtractFacts(ctx context.Context, body string) []FactDraft {
	logger := log.FromCtx(ctx)

	resp, err := e.ai.GenerateStrict(ctx, []core.ChatMessage{
		{Role: core.RoleSystem, Content: prompt.Extraction()},
		{Role: core.RoleUser, Content: body},
	}, core.ChatOptions{
		Temperature: extractionTemperature,
		MaxTokens:   extractionMaxTokens,
	})
	if err != nil {
		logger.Error().Err(err).Msg("memory extraction call failed")
		return nil
	}

	drafts, err := parseExtractionResponse(resp)
	if err != nil {
		logger.Warn().Err(err).Str("response", resp).Msg("could not parse memory extraction JSON")
		return nil
	}
	return drafts
}

func parseExtractionResponse(content string) ([]FactDraft, error) {
	jsonStr := extractJSONArray(content)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var drafts []FactDraft
	if err := json.Unmarshal([]byte(jsonStr), &drafts); err != nil {
		return nil, fmt.Errorf("unmarshal facts: %w", err)
	}
	return drafts, nil
}

func extractJSONArray(content string) string {
	start := strings.Index(content, "[")
	if start == -1 {
		return ""
	}

	end := strings.LastIndex(content[start:], "]")
	if end == -1 {
		return ""
	}

	return content[start : start+end+1]
}

func clampImportance(v int) int {
	if v > 5 {
		return 5
	}
	if v < 1 {
		return 1
	}
	return v
}
