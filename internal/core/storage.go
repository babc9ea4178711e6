package core

import "context"

type MessageRepository interface {
	AddMessage(ctx context.Context, msg Message) error
	SeenProviderID(ctx context.Context, providerID string) (bool, error)
	GetRecentMessages(ctx context.Context, phone string, limit int) ([]Message, error)
	AllUserPhones(ctx context.Context) ([]string, error)
}

type MemoryRepository interface {
	GetMemoryContext(ctx context.Context, phone string, limit int) ([]MemoryFact, error)
	UpsertMemoryFact(ctx context.Context, fact MemoryFact) error
	GetSpecialDates(ctx context.Context, phone string) ([]MemoryFact, error)
}

// MemoryDeduper decides whether a new fact duplicates a stored one.
// The default implementation matches on a content prefix per
// user+category; a nil result means no duplicate.
type MemoryDeduper interface {
	FindDuplicate(ctx context.Context, fact MemoryFact) (*MemoryFact, error)
}

type UsageRepository interface {
	// CheckAndIncrementUsage atomically checks the monthly quota and,
	// when allowed, counts the message. Paid plans are always allowed.
	CheckAndIncrementUsage(ctx context.Context, phone string) (bool, error)
}
