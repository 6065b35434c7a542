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

var guardrailColumns = []string{"id", "name", "type", "description", "logic", "enabled", "created_at"}

// GuardrailRepository handles database operations for guardrails.
type GuardrailRepository struct {
	pool *pgxpool.Pool
}

// NewGuardrailRepository creates a new GuardrailRepository.
func NewGuardrailRepository(pool *pgxpool.Pool) *GuardrailRepository {
	return &GuardrailRepository{pool: pool}
}

func scanGuardrail(row pgx.Row) (*domain.Guardrail, error) {
	var g domain.Guardrail
	err := row.Scan(&g.ID, &g.Name, &g.Type, &g.Description, &g.Logic, &g.Enabled, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGuardrailNotFound
		}
		return nil, fmt.Errorf("scan guardrail: %w", err)
	}
	return &g, nil
}

func (r *GuardrailRepository) query(ctx context.Context, qb sq.SelectBuilder) ([]*domain.Guardrail, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build guardrail query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query guardrails: %w", err)
	}
	defer rows.Close()

	guardrails := []*domain.Guardrail{}
	for rows.Next() {
		g, err := scanGuardrail(rows)
		if err != nil {
			return nil, err
		}
		guardrails = append(guardrails, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return guardrails, nil
}

// GetByID retrieves a guardrail by ID.
func (r *GuardrailRepository) GetByID(ctx context.Context, guardrailID string) (*domain.Guardrail, error) {
	query, args, err := psql.
		Select(guardrailColumns...).
		From("guardrails").
		Where(sq.Eq{"id": guardrailID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for guardrail: %w", err)
	}

	return scanGuardrail(r.pool.QueryRow(ctx, query, args...))
}

// List retrieves guardrails ordered by name.
func (r *GuardrailRepository) List(ctx context.Context, page Page) ([]*domain.Guardrail, int, error) {
	total, err := count(ctx, r.pool, psql.Select("COUNT(*)").From("guardrails"))
	if err != nil {
		return nil, 0, err
	}

	guardrails, err := r.query(ctx, page.apply(psql.Select(guardrailColumns...).From("guardrails").OrderBy("name")))
	if err != nil {
		return nil, 0, err
	}
	return guardrails, total, nil
}

// GetEnabledByIDs retrieves the enabled guardrails among ids of the given type.
func (r *GuardrailRepository) GetEnabledByIDs(ctx context.Context, ids []string, guardrailType domain.GuardrailType) ([]*domain.Guardrail, error) {
	if len(ids) == 0 {
		return []*domain.Guardrail{}, nil
	}

	return r.query(ctx, psql.
		Select(guardrailColumns...).
		From("guardrails").
		Where(sq.Eq{"id::text": ids, "enabled": true, "type": guardrailType}).
		OrderBy("name"))
}

// CountExisting returns how many of the given ids exist as guardrails.
func (r *GuardrailRepository) CountExisting(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return count(ctx, r.pool, psql.Select("COUNT(*)").From("guardrails").Where(sq.Eq{"id::text": ids}))
}

// Create inserts a new guardrail.
func (r *GuardrailRepository) Create(ctx context.Context, g *domain.Guardrail) (*domain.Guardrail, error) {
	query, args, err := psql.
		Insert("guardrails").
		Columns("name", "type", "description", "logic", "enabled").
		Values(g.Name, g.Type, g.Description, g.Logic, g.Enabled).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for guardrail: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&g.ID, &g.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("guardrail %q: %w", g.Name, domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create guardrail: %w", err)
	}
	return g, nil
}

// Update overwrites the mutable fields of an existing guardrail.
func (r *GuardrailRepository) Update(ctx context.Context, g *domain.Guardrail) error {
	query, args, err := psql.
		Update("guardrails").
		Set("name", g.Name).
		Set("type", g.Type).
		Set("description", g.Description).
		Set("logic", g.Logic).
		Set("enabled", g.Enabled).
		Where(sq.Eq{"id": g.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for guardrail %s: %w", g.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("guardrail %q: %w", g.Name, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("update guardrail: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGuardrailNotFound
	}
	return nil
}

// Delete removes a guardrail by ID.
func (r *GuardrailRepository) Delete(ctx context.Context, guardrailID string) error {
	return deleteByID(ctx, r.pool, "guardrails", guardrailID, domain.ErrGuardrailNotFound)
}
