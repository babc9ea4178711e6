package handler

import (
	"context"
	"fmt"

	"github.com/sandevgo/aimee/internal/core"
	"github.com/sandevgo/aimee/internal/service/prompt"
	"github.com/sandevgo/aimee/pkg/log"
)

// replyGenerator is the slice of the completion router the handler
// needs: Generate always yields text, degrading internally.
type replyGenerator interface {
	Generate(ctx context.Context, messages []core.ChatMessage, opts core.ChatOptions) string
}

type extractor interface {
	Remember(ctx context.Context, phone, body string)
}

// historyLimit is how many recent exchanges are replayed as chat turns
// so the model can reference the ongoing conversation.
const historyLimit = 10

type Config struct {
	Messages  core.MessageRepository
	Memories  core.MemoryRepository
	Usage     core.UsageRepository
	Extractor extractor
	AI        replyGenerator

	// Memory facts loaded per reply
	ContextSize int
	// Monthly free-tier quota, used only for the upgrade reply text
	FreeTierLimit int
	SignupURL     string
}

// Handler orchestrates one inbound SMS: quota, persistence, memory,
// generation. Every step after a quota rejection is best-effort; the
// caller always gets a reply.
type Handler struct {
	messages  core.MessageRepository
	memories  core.MemoryRepository
	usage     core.UsageRepository
	extractor extractor
	ai        replyGenerator

	contextSize int
	upgradeMsg  string
}

func New(cfg Config) *Handler {
	contextSize := cfg.ContextSize
	if contextSize <= 0 {
		contextSize = 20
	}
	return &Handler{
		messages:    cfg.Messages,
		memories:    cfg.Memories,
		usage:       cfg.Usage,
		extractor:   cfg.Extractor,
		ai:          cfg.AI,
		contextSize: contextSize,
		upgradeMsg: fmt.Sprintf(
			"Hey! You've reached your %d free messages this month \U0001F49B I'd love to keep chatting! Upgrade to Basic ($14.99/month) for unlimited conversations at %s?plan=basic",
			cfg.FreeTierLimit, cfg.SignupURL,
		),
	}
}

// HandleInbound processes one inbound message and returns the reply
// text. An empty return means the message was a webhook replay and no
// reply should be sent.
func (h *Handler) HandleInbound(ctx context.Context, phone, body, providerID string) string {
	logger := log.FromCtx(ctx)
	logger.Info().Str("from", phone).Int("len", len(body)).Msg("incoming sms")

	// Webhook retries redeliver the same MessageSid; don't process the
	// same message twice. Check failures allow the message through.
	if providerID != "" {
		seen, err := h.messages.SeenProviderID(ctx, providerID)
		if err != nil {
			logger.Warn().Err(err).Msg("idempotency check failed, processing anyway")
		} else if seen {
			logger.Info().Str("provider_id", providerID).Msg("duplicate inbound message, skipping")
			return ""
		}
	}

	// Quota check fails open: an unreachable quota service must not
	// block users.
	allowed, err := h.usage.CheckAndIncrementUsage(ctx, phone)
	if err != nil {
		logger.Error().Err(err).Msg("quota check failed, allowing message")
		allowed = true
	}

	inbound := core.Message{
		UserPhone:  phone,
		Direction:  core.DirectionInbound,
		Body:       body,
		ProviderID: providerID,
	}

	if !allowed {
		// Still persist the inbound message for audit, then stop:
		// no completion call for over-quota users.
		if err := h.messages.AddMessage(ctx, inbound); err != nil {
			logger.Error().Err(err).Msg("failed to save inbound message")
		}
		logger.Info().Str("from", phone).Msg("monthly quota exceeded")
		return h.upgradeMsg
	}

	// Load history before persisting the inbound message so the current
	// message is not doubled as a history turn.
	history, err := h.messages.GetRecentMessages(ctx, phone, historyLimit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load conversation history")
		history = nil
	}

	if err := h.messages.AddMessage(ctx, inbound); err != nil {
		logger.Error().Err(err).Msg("failed to save inbound message")
	}

	facts, err := h.memories.GetMemoryContext(ctx, phone, h.contextSize)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load memory context")
		facts = nil
	}

	// Extraction and reply generation are independent provider calls;
	// either may fail without affecting the other.
	h.extractor.Remember(ctx, phone, body)

	chat := make([]core.ChatMessage, 0, len(history)+2)
	chat = append(chat, core.ChatMessage{Role: core.RoleSystem, Content: prompt.Persona(facts)})
	for _, m := range history {
		role := core.RoleUser
		if m.Direction == core.DirectionOutbound {
			role = core.RoleAssistant
		}
		chat = append(chat, core.ChatMessage{Role: role, Content: m.Body})
	}
	chat = append(chat, core.ChatMessage{Role: core.RoleUser, Content: body})

	reply := h.ai.Generate(ctx, chat, core.ChatOptions{})

	if err := h.messages.AddMessage(ctx, core.Message{
		UserPhone: phone,
		Direction: core.DirectionOutbound,
		Body:      reply,
	}); err != nil {
		logger.Error().Err(err).Msg("failed to save outbound message")
	}

	logger.Info().Str("to", phone).Int("len", len(reply)).Msg("reply generated")
	return reply
}
