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

var runLogColumns = []string{"id", "agent_id", "user_id", "input_text", "output_text", "status", "created_at"}

// RunLogRepository handles database operations for agent run logs.
type RunLogRepository struct {
	pool *pgxpool.Pool
}

// NewRunLogRepository creates a new RunLogRepository.
func NewRunLogRepository(pool *pgxpool.Pool) *RunLogRepository {
	return &RunLogRepository{pool: pool}
}

func scanRunLog(row pgx.Row) (*domain.RunLog, error) {
	var l domain.RunLog
	if err := row.Scan(&l.ID, &l.AgentID, &l.UserID, &l.InputText, &l.OutputText, &l.Status, &l.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunLogNotFound
		}
		return nil, fmt.Errorf("scan run log: %w", err)
	}
	return &l, nil
}

// GetByID retrieves a run log by ID.
func (r *RunLogRepository) GetByID(ctx context.Context, logID string) (*domain.RunLog, error) {
	query, args, err := psql.Select(runLogColumns...).From("run_logs").Where(sq.Eq{"id": logID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for run log: %w", err)
	}
	return scanRunLog(r.pool.QueryRow(ctx, query, args...))
}

// List retrieves run logs, newest first, optionally for a single agent.
func (r *RunLogRepository) List(ctx context.Context, agentID *string, page Page) ([]*domain.RunLog, int, error) {
	qb := psql.Select(runLogColumns...).From("run_logs")
	countQb := psql.Select("COUNT(*)").From("run_logs")
	if agentID != nil {
		qb = qb.Where(sq.Eq{"agent_id": *agentID})
		countQb = countQb.Where(sq.Eq{"agent_id": *agentID})
	}

	total, err := count(ctx, r.pool, countQb)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := page.apply(qb.OrderBy("created_at DESC")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query for run logs: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query run logs: %w", err)
	}
	defer rows.Close()

	logs := []*domain.RunLog{}
	for rows.Next() {
		l, err := scanRunLog(rows)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate rows: %w", err)
	}
	return logs, total, nil
}

// Create inserts a new run log.
func (r *RunLogRepository) Create(ctx context.Context, l *domain.RunLog) error {
	query, args, err := psql.
		Insert("run_logs").
		Columns("agent_id", "user_id", "input_text", "output_text", "status").
		Values(l.AgentID, l.UserID, l.InputText, l.OutputText, l.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for run log: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&l.ID, &l.CreatedAt); err != nil {
		return fmt.Errorf("create run log: %w", err)
	}
	return nil
}

// Delete removes a run log by ID.
func (r *RunLogRepository) Delete(ctx context.Context, logID string) error {
	return deleteByID(ctx, r.pool, "run_logs", logID, domain.ErrRunLogNotFound)
}
