package scheduler

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/sandevgo/aimee/internal/core"
	"github.com/sandevgo/aimee/internal/service/prompt"
	"github.com/sandevgo/aimee/pkg/log"
)

// SweepKind is a calendar trigger for a proactive pass over all users.
type SweepKind string

const (
	SweepMorning SweepKind = "morning"
	SweepEvening SweepKind = "evening"
	SweepDates   SweepKind = "dates"
)

const (
	// Send probabilities keep proactive messages to a few per week.
	morningChance = 0.4
	eveningChance = 0.3

	proactiveMaxTokens = 200

	// Pause between users so outbound sends stay under rate limits.
	defaultUserDelay = time.Second
)

type generator interface {
	GenerateStrict(ctx context.Context, messages []core.ChatMessage, opts core.ChatOptions) (string, error)
}

// Scheduler generates time-triggered outbound messages. Per-user
// failures are isolated so one bad number never aborts a sweep.
type Scheduler struct {
	messages core.MessageRepository
	memories core.MemoryRepository
	ai       generator
	sender   core.SMSSender

	// prob gates sends; injectable so tests can pin both branches.
	prob      func() float64
	now       func() time.Time
	userDelay time.Duration
}

func New(messages core.MessageRepository, memories core.MemoryRepository, ai generator, sender core.SMSSender) *Scheduler {
	return &Scheduler{
		messages:  messages,
		memories:  memories,
		ai:        ai,
		sender:    sender,
		prob:      rand.Float64,
		now:       time.Now,
		userDelay: defaultUserDelay,
	}
}

// Sweep runs one proactive pass of the given kind over all known users.
func (s *Scheduler) Sweep(ctx context.Context, kind SweepKind) {
	logger := log.FromCtx(ctx)

	users, err := s.messages.AllUserPhones(ctx)
	if err != nil {
		logger.Error().Err(err).Str("kind", string(kind)).Msg("sweep aborted: could not list users")
		return
	}
	logger.Info().Str("kind", string(kind)).Int("users", len(users)).Msg("running proactive sweep")

	for i, phone := range users {
		s.processUser(ctx, phone, kind)

		if i < len(users)-1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.userDelay):
			}
		}
	}
}

func (s *Scheduler) processUser(ctx context.Context, phone string, kind SweepKind) {
	logger := log.FromCtx(ctx)

	facts, err := s.memories.GetMemoryContext(ctx, phone, 20)
	if err != nil {
		logger.Error().Err(err).Str("phone", phone).Msg("failed to load memory context")
		facts = nil
	}

	switch kind {
	case SweepMorning:
		if s.prob() > morningChance {
			return
		}
		s.generateAndSend(ctx, phone, facts, prompt.KindMorning)
	case SweepEvening:
		if s.prob() > eveningChance {
			return
		}
		s.generateAndSend(ctx, phone, facts, prompt.KindEvening)
	case SweepDates:
		s.checkSpecialDates(ctx, phone, facts)
	default:
		logger.Warn().Str("kind", string(kind)).Msg("unknown sweep kind")
	}
}

func (s *Scheduler) checkSpecialDates(ctx context.Context, phone string, facts []core.MemoryFact) {
	logger := log.FromCtx(ctx)

	dates, err := s.memories.GetSpecialDates(ctx, phone)
	if err != nil {
		logger.Error().Err(err).Str("phone", phone).Msg("failed to load special dates")
		return
	}

	today := s.now()
	for _, d := range dates {
		if !matchesMonthDay(d.Content, today) {
			continue
		}

		kind := prompt.KindSpecialDate
		if strings.Contains(strings.ToLower(d.Content), "birthday") {
			kind = prompt.KindBirthday
		}
		logger.Info().Str("phone", phone).Str("date", d.Content).Msg("special date matched")
		s.generateAndSend(ctx, phone, facts, kind)
	}
}

func (s *Scheduler) generateAndSend(ctx context.Context, phone string, facts []core.MemoryFact, kind prompt.Kind) {
	logger := log.FromCtx(ctx)

	text, err := s.ai.GenerateStrict(ctx, []core.ChatMessage{
		{Role: core.RoleSystem, Content: prompt.Proactive(facts, kind)},
	}, core.ChatOptions{MaxTokens: proactiveMaxTokens})
	if err != nil {
		logger.Error().Err(err).Str("phone", phone).Str("kind", string(kind)).Msg("proactive generation failed, skipping send")
		return
	}

	if err := s.sender.Send(ctx, phone, text); err != nil {
		logger.Error().Err(err).Str("phone", phone).Msg("proactive send failed")
		return
	}

	if err := s.messages.AddMessage(ctx, core.Message{
		UserPhone: phone,
		Direction: core.DirectionOutbound,
		Body:      text,
	}); err != nil {
		logger.Error().Err(err).Msg("failed to save proactive message")
	}

	logger.Info().Str("phone", phone).Str("kind", string(kind)).Msg("proactive message sent")
}
