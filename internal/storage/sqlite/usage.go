package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const PlanFree = "free"

type UsageRepo struct {
	db    *sql.DB
	limit int
	now   func() time.Time
}

func NewUsageRepo(db *sql.DB, monthlyLimit int) *UsageRepo {
	return &UsageRepo{
		db:    db,
		limit: monthlyLimit,
		now:   time.Now,
	}
}

// CheckAndIncrementUsage enforces the free-tier monthly quota with a
// single guarded increment so two near-simultaneous messages cannot
// both pass the boundary check. Paid plans are unlimited.
func (r *UsageRepo) CheckAndIncrementUsage(ctx context.Context, phone string) (bool, error) {
	var plan string
	err := r.db.QueryRowContext(ctx, `SELECT plan FROM plans WHERE user_phone = ?`, phone).Scan(&plan)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to look up plan: %w", err)
	}
	if plan != "" && plan != PlanFree {
		return true, nil
	}

	period := r.now().UTC().Format("2006-01")
	query := `
		INSERT INTO message_usage (user_phone, period, count) VALUES (?, ?, 1)
		ON CONFLICT (user_phone, period) DO UPDATE SET count = count + 1 WHERE count < ?`

	res, err := r.db.ExecContext(ctx, query, phone, period, r.limit)
	if err != nil {
		return false, fmt.Errorf("failed to increment usage: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetPlan records a user's subscription plan. Called by the payment
// webhook consumer, not by the message hot path.
func (r *UsageRepo) SetPlan(ctx context.Context, phone, plan string) error {
	query := `
		INSERT INTO plans (user_phone, plan) VALUES (?, ?)
		ON CONFLICT (user_phone) DO UPDATE SET plan = excluded.plan`
	if _, err := r.db.ExecContext(ctx, query, phone, plan); err != nil {
		return fmt.Errorf("failed to set plan: %w", err)
	}
	return nil
}
