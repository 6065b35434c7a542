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

var flowColumns = []string{"id", "name", "description", "json_data", "created_at"}

// FlowRepository handles database operations for flows.
type FlowRepository struct {
	pool *pgxpool.Pool
}

// NewFlowRepository creates a new FlowRepository.
func NewFlowRepository(pool *pgxpool.Pool) *FlowRepository {
	return &FlowRepository{pool: pool}
}

func scanFlow(row pgx.Row) (*domain.Flow, error) {
	var f domain.Flow
	var data []byte
	if err := row.Scan(&f.ID, &f.Name, &f.Description, &data, &f.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlowNotFound
		}
		return nil, fmt.Errorf("scan flow: %w", err)
	}
	f.Data = data
	return &f, nil
}

// GetByID retrieves a flow by ID.
func (r *FlowRepository) GetByID(ctx context.Context, flowID string) (*domain.Flow, error) {
	query, args, err := psql.Select(flowColumns...).From("flows").Where(sq.Eq{"id": flowID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for flow: %w", err)
	}
	return scanFlow(r.pool.QueryRow(ctx, query, args...))
}

// List retrieves flows, newest first.
func (r *FlowRepository) List(ctx context.Context, page Page) ([]*domain.Flow, int, error) {
	total, err := count(ctx, r.pool, psql.Select("COUNT(*)").From("flows"))
	if err != nil {
		return nil, 0, err
	}

	query, args, err := page.apply(psql.Select(flowColumns...).From("flows").OrderBy("created_at DESC")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query for flows: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query flows: %w", err)
	}
	defer rows.Close()

	flows := []*domain.Flow{}
	for rows.Next() {
		f, err := scanFlow(rows)
		if err != nil {
			return nil, 0, err
		}
		flows = append(flows, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate rows: %w", err)
	}
	return flows, total, nil
}

// Create inserts a new flow.
func (r *FlowRepository) Create(ctx context.Context, f *domain.Flow) (*domain.Flow, error) {
	query, args, err := psql.
		Insert("flows").
		Columns("name", "description", "json_data").
		Values(f.Name, f.Description, []byte(f.Data)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for flow: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&f.ID, &f.CreatedAt); err != nil {
		return nil, fmt.Errorf("create flow: %w", err)
	}
	return f, nil
}

// Update overwrites the mutable fields of an existing flow.
func (r *FlowRepository) Update(ctx context.Context, f *domain.Flow) error {
	query, args, err := psql.
		Update("flows").
		Set("name", f.Name).
		Set("description", f.Description).
		Set("json_data", []byte(f.Data)).
		Where(sq.Eq{"id": f.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for flow %s: %w", f.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update flow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFlowNotFound
	}
	return nil
}

// Delete removes a flow by ID.
func (r *FlowRepository) Delete(ctx context.Context, flowID string) error {
	return deleteByID(ctx, r.pool, "flows", flowID, domain.ErrFlowNotFound)
}
