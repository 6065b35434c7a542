package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/agentdesk/internal/domain"
)

var promptColumns = []string{"id", "title", "content", "category", "tags", "created_at"}

// PromptRepository handles database operations for the prompt library.
type PromptRepository struct {
	pool *pgxpool.Pool
}

// NewPromptRepository creates a new PromptRepository.
func NewPromptRepository(pool *pgxpool.Pool) *PromptRepository {
	return &PromptRepository{pool: pool}
}

func scanPrompt(row pgx.Row) (*domain.Prompt, error) {
	var p domain.Prompt
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Category, &p.Tags, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPromptNotFound
		}
		return nil, fmt.Errorf("scan prompt: %w", err)
	}
	return &p, nil
}

// GetByID retrieves a prompt by ID.
func (r *PromptRepository) GetByID(ctx context.Context, promptID string) (*domain.Prompt, error) {
	query, args, err := psql.Select(promptColumns...).From("prompts").Where(sq.Eq{"id": promptID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for prompt: %w", err)
	}
	return scanPrompt(r.pool.QueryRow(ctx, query, args...))
}

// List retrieves prompts, optionally filtered by category, newest first.
func (r *PromptRepository) List(ctx context.Context, category string, page Page) ([]*domain.Prompt, int, error) {
	qb := psql.Select(promptColumns...).From("prompts")
	countQb := psql.Select("COUNT(*)").From("prompts")
	if category != "" {
		qb = qb.Where(sq.Eq{"category": category})
		countQb = countQb.Where(sq.Eq{"category": category})
	}

	total, err := count(ctx, r.pool, countQb)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := page.apply(qb.OrderBy("created_at DESC")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query for prompts: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query prompts: %w", err)
	}
	defer rows.Close()

	prompts := []*domain.Prompt{}
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, 0, err
		}
		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate rows: %w", err)
	}
	return prompts, total, nil
}

// Create inserts a new prompt.
func (r *PromptRepository) Create(ctx context.Context, p *domain.Prompt) (*domain.Prompt, error) {
	query, args, err := psql.
		Insert("prompts").
		Columns("title", "content", "category", "tags").
		Values(p.Title, p.Content, p.Category, p.Tags).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for prompt: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("create prompt: %w", err)
	}
	return p, nil
}

// Update overwrites the mutable fields of an existing prompt.
func (r *PromptRepository) Update(ctx context.Context, p *domain.Prompt) error {
	query, args, err := psql.
		Update("prompts").
		Set("title", p.Title).
		Set("content", p.Content).
		Set("category", p.Category).
		Set("tags", p.Tags).
		Where(sq.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for prompt %s: %w", p.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update prompt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPromptNotFound
	}
	return nil
}

// Delete removes a prompt by ID.
func (r *PromptRepository) Delete(ctx context.Context, promptID string) error {
	return deleteByID(ctx, r.pool, "prompts", promptID, domain.ErrPromptNotFound)
}
