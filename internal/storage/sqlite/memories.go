package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/aimee/internal/core"
	"github.com/sandevgo/aimee/pkg/log"
)

// dedupPrefixLen is how much of a new fact's content is used for the
// fuzzy duplicate lookup.
const dedupPrefixLen = 20

type MemoriesRepo struct {
	db      *sql.DB
	deduper core.MemoryDeduper
}

func NewMemoriesRepo(db *sql.DB) *MemoriesRepo {
	return &MemoriesRepo{
		db:      db,
		deduper: &prefixDeduper{db: db},
	}
}

// WithDeduper swaps the duplicate-matching strategy.
func (r *MemoriesRepo) WithDeduper(d core.MemoryDeduper) *MemoriesRepo {
	r.deduper = d
	return r
}

func (r *MemoriesRepo) GetMemoryContext(ctx context.Context, phone string, limit int) ([]core.MemoryFact, error) {
	query := `SELECT id, user_phone, content, category, importance, created_at, updated_at
		FROM memories WHERE user_phone = ?
		ORDER BY importance DESC, updated_at DESC LIMIT ?`

	return r.queryFacts(ctx, query, phone, limit)
}

func (r *MemoriesRepo) GetSpecialDates(ctx context.Context, phone string) ([]core.MemoryFact, error) {
	query := `SELECT id, user_phone, content, category, importance, created_at, updated_at
		FROM memories WHERE user_phone = ? AND category = ?
		ORDER BY importance DESC`

	return r.queryFacts(ctx, query, phone, core.CategoryDate)
}

// UpsertMemoryFact merges a new fact with a fuzzy-matched existing one
// or inserts it. A merge keeps the max importance and replaces the
// content. The match-then-write sequence has a narrow race window under
// concurrency; an occasional duplicate fact is an accepted tradeoff.
func (r *MemoriesRepo) UpsertMemoryFact(ctx context.Context, fact core.MemoryFact) error {
	existing, err := r.deduper.FindDuplicate(ctx, fact)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("memory dedup lookup failed, inserting as new")
		existing = nil
	}

	if existing != nil {
		importance := fact.Importance
		if existing.Importance > importance {
			importance = existing.Importance
		}
		query := `UPDATE memories SET content = ?, importance = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
		if _, err := r.db.ExecContext(ctx, query, fact.Content, importance, existing.ID); err != nil {
			return fmt.Errorf("failed to update memory: %w", err)
		}
		return nil
	}

	query := `INSERT INTO memories (user_phone, content, category, importance) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, fact.UserPhone, fact.Content, fact.Category, fact.Importance); err != nil {
		return fmt.Errorf("failed to insert memory: %w", err)
	}
	return nil
}

func (r *MemoriesRepo) queryFacts(ctx context.Context, query string, args ...any) ([]core.MemoryFact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	defer rows.Close()

	var facts []core.MemoryFact
	for rows.Next() {
		var f core.MemoryFact
		if err := rows.Scan(&f.ID, &f.UserPhone, &f.Content, &f.Category, &f.Importance, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		facts = append(facts, f)
	}
	return facts, rows.Err()
}

// prefixDeduper matches an existing fact whose content contains the
// first dedupPrefixLen characters of the new content, scoped to the
// same user and category.
type prefixDeduper struct {
	db *sql.DB
}

func (d *prefixDeduper) FindDuplicate(ctx context.Context, fact core.MemoryFact) (*core.MemoryFact, error) {
	prefix := []rune(fact.Content)
	if len(prefix) > dedupPrefixLen {
		prefix = prefix[:dedupPrefixLen]
	}
	pattern := "%" + escapeLike(string(prefix)) + "%"

	query := `SELECT id, user_phone, content, category, importance, created_at, updated_at
		FROM memories
		WHERE user_phone = ? AND category = ? AND content LIKE ? ESCAPE '\'
		ORDER BY id LIMIT 1`

	var f core.MemoryFact
	err := d.db.QueryRowContext(ctx, query, fact.UserPhone, fact.Category, pattern).
		Scan(&f.ID, &f.UserPhone, &f.Content, &f.Category, &f.Importance, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search memories: %w", err)
	}
	return &f, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
