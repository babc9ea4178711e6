package core

import (
	"fmt"
	"time"
)

const (
	AimeeName    = "Aimee"
	AimeeVersion = "0.1.0"
	UserAgent    = "Aimee-SMS/0.1"
)

// Message directions.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// Chat completion roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Memory fact categories.
const (
	CategoryPersonal     = "personal"
	CategoryPreference   = "preference"
	CategoryDate         = "date"
	CategoryCurrentTopic = "current_topic"
	CategoryEmotion      = "emotion"
	CategoryGoal         = "goal"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryPersonal, CategoryPreference, CategoryDate,
		CategoryCurrentTopic, CategoryEmotion, CategoryGoal:
		return true
	}
	return false
}

// Message is a single SMS exchange leg. Immutable once written.
type Message struct {
	ID         int64     `json:"id"`
	UserPhone  string    `json:"user_phone"`
	Direction  string    `json:"direction"`
	Body       string    `json:"body"`
	ProviderID string    `json:"provider_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// MemoryFact is a durable, categorized belief about a user extracted
// from conversation. Importance runs 1-5 and never decreases on merge.
type MemoryFact struct {
	ID         int64     `json:"id"`
	UserPhone  string    `json:"user_phone"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	Importance int       `json:"importance"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Mode selects the completion backend: testing runs the cost-optimized
// client, production the quality-optimized one.
type Mode string

const (
	ModeTesting    Mode = "testing"
	ModeProduction Mode = "production"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTesting, ModeProduction:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode: %q", s)
	}
}
