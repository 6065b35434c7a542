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

var planColumns = []string{
	"id", "name", "description", "price::float8", "rate_limit", "daily_limit",
	"features", "is_popular", "cta", "created_at",
}

// PlanRepository handles database operations for pricing plans.
type PlanRepository struct {
	db DBTX
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{db: pool}
}

// WithTx returns a copy of the repository that runs its queries in tx.
func (r *PlanRepository) WithTx(tx pgx.Tx) *PlanRepository {
	return &PlanRepository{db: tx}
}

func scanPlan(row pgx.Row) (*domain.Plan, error) {
	var p domain.Plan
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.RateLimit,
		&p.DailyLimit,
		&p.Features,
		&p.IsPopular,
		&p.CTA,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("scan plan: %w", err)
	}
	return &p, nil
}

// GetByID retrieves a plan by ID.
func (r *PlanRepository) GetByID(ctx context.Context, planID string) (*domain.Plan, error) {
	return r.getByID(ctx, r.db, planID, "")
}

// GetByIDForUpdate retrieves a plan by ID with FOR UPDATE lock (within transaction).
func (r *PlanRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, planID string) (*domain.Plan, error) {
	return r.getByID(ctx, tx, planID, "FOR UPDATE")
}

func (r *PlanRepository) getByID(ctx context.Context, db DBTX, planID, suffix string) (*domain.Plan, error) {
	qb := psql.Select(planColumns...).From("plans").Where(sq.Eq{"id": planID})
	if suffix != "" {
		qb = qb.Suffix(suffix)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for plan %s: %w", planID, err)
	}

	return scanPlan(db.QueryRow(ctx, query, args...))
}

// GetByName retrieves a plan by its unique name.
func (r *PlanRepository) GetByName(ctx context.Context, name string) (*domain.Plan, error) {
	query, args, err := psql.Select(planColumns...).From("plans").Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByName query for plan: %w", err)
	}
	return scanPlan(r.db.QueryRow(ctx, query, args...))
}

// List retrieves all plans ordered by price.
func (r *PlanRepository) List(ctx context.Context) ([]*domain.Plan, error) {
	query, args, err := psql.Select(planColumns...).From("plans").OrderBy("price", "name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query for plans: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	plans := []*domain.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return plans, nil
}

// Create inserts a new plan.
func (r *PlanRepository) Create(ctx context.Context, p *domain.Plan) (*domain.Plan, error) {
	if p.Features == nil {
		p.Features = []string{}
	}

	query, args, err := psql.
		Insert("plans").
		Columns("name", "description", "price", "rate_limit", "daily_limit", "features", "is_popular", "cta").
		Values(p.Name, p.Description, p.Price, p.RateLimit, p.DailyLimit, p.Features, p.IsPopular, p.CTA).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for plan: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("plan %q: %w", p.Name, domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create plan: %w", err)
	}
	return p, nil
}

// Update overwrites the mutable fields of an existing plan.
func (r *PlanRepository) Update(ctx context.Context, p *domain.Plan) error {
	if p.Features == nil {
		p.Features = []string{}
	}

	query, args, err := psql.
		Update("plans").
		Set("name", p.Name).
		Set("description", p.Description).
		Set("price", p.Price).
		Set("rate_limit", p.RateLimit).
		Set("daily_limit", p.DailyLimit).
		Set("features", p.Features).
		Set("is_popular", p.IsPopular).
		Set("cta", p.CTA).
		Where(sq.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for plan %s: %w", p.ID, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("plan %q: %w", p.Name, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("update plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}

// Delete removes a plan by ID.
func (r *PlanRepository) Delete(ctx context.Context, planID string) error {
	return deleteByID(ctx, r.db, "plans", planID, domain.ErrPlanNotFound)
}
