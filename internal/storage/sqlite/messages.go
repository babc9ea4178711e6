package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/aimee/internal/core"
	"github.com/sandevgo/aimee/pkg/log"
)

type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

func (r *MessagesRepo) AddMessage(ctx context.Context, msg core.Message) error {
	query := `INSERT INTO messages (user_phone, direction, body, provider_id) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, msg.UserPhone, msg.Direction, msg.Body, msg.ProviderID); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (r *MessagesRepo) SeenProviderID(ctx context.Context, providerID string) (bool, error) {
	var exists int
	query := `SELECT EXISTS (SELECT 1 FROM messages WHERE provider_id = ?)`
	if err := r.db.QueryRowContext(ctx, query, providerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check provider id: %w", err)
	}
	return exists == 1, nil
}

func (r *MessagesRepo) GetRecentMessages(ctx context.Context, phone string, limit int) ([]core.Message, error) {
	// Fetch the LAST 'limit' messages by ordering DESC
	query := `SELECT id, user_phone, direction, body, provider_id, created_at
		FROM messages WHERE user_phone = ? ORDER BY id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, phone, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []core.Message
	for rows.Next() {
		var msg core.Message
		if err := rows.Scan(&msg.ID, &msg.UserPhone, &msg.Direction, &msg.Body, &msg.ProviderID, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse back to chronological order (oldest -> newest).
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	log.FromCtx(ctx).Debug().Int("count", len(messages)).Msg("loaded history messages")
	return messages, nil
}

func (r *MessagesRepo) AllUserPhones(ctx context.Context) ([]string, error) {
	query := `SELECT user_phone FROM messages GROUP BY user_phone ORDER BY MAX(created_at) DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var phones []string
	for rows.Next() {
		var phone string
		if err := rows.Scan(&phone); err != nil {
			return nil, fmt.Errorf("failed to scan user phone: %w", err)
		}
		phones = append(phones, phone)
	}
	return phones, rows.Err()
}
