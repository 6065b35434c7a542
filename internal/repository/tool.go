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

var toolColumns = []string{"id", "name", "description", "type", "config", "created_at", "updated_at"}

// ToolRepository handles database operations for tools.
type ToolRepository struct {
	db DBTX
}

// NewToolRepository creates a new ToolRepository.
func NewToolRepository(pool *pgxpool.Pool) *ToolRepository {
	return &ToolRepository{db: pool}
}

// WithTx returns a copy of the repository that runs its queries in tx.
func (r *ToolRepository) WithTx(tx pgx.Tx) *ToolRepository {
	return &ToolRepository{db: tx}
}

func scanTool(row pgx.Row) (*domain.Tool, error) {
	var tool domain.Tool
	err := row.Scan(
		&tool.ID,
		&tool.Name,
		&tool.Description,
		&tool.Type,
		&tool.Config,
		&tool.CreatedAt,
		&tool.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrToolNotFound
		}
		return nil, fmt.Errorf("scan tool: %w", err)
	}
	return &tool, nil
}

// GetByID retrieves a tool by ID.
func (r *ToolRepository) GetByID(ctx context.Context, toolID string) (*domain.Tool, error) {
	query, args, err := psql.
		Select(toolColumns...).
		From("tools").
		Where(sq.Eq{"id": toolID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for tool: %w", err)
	}

	return scanTool(r.db.QueryRow(ctx, query, args...))
}

// List retrieves tools ordered by name, optionally filtered by type.
func (r *ToolRepository) List(ctx context.Context, toolType *domain.ToolType, page Page) ([]*domain.Tool, int, error) {
	qb := psql.Select(toolColumns...).From("tools")
	countQb := psql.Select("COUNT(*)").From("tools")
	if toolType != nil {
		qb = qb.Where(sq.Eq{"type": *toolType})
		countQb = countQb.Where(sq.Eq{"type": *toolType})
	}

	total, err := count(ctx, r.db, countQb)
	if err != nil {
		return nil, 0, err
	}

	query, args, err := page.apply(qb.OrderBy("name")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query for tools: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query tools: %w", err)
	}
	defer rows.Close()

	tools := []*domain.Tool{}
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, 0, err
		}
		tools = append(tools, tool)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate rows: %w", err)
	}
	return tools, total, nil
}

// CountExisting returns how many of the given ids exist as tools.
func (r *ToolRepository) CountExisting(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return count(ctx, r.db, psql.Select("COUNT(*)").From("tools").Where(sq.Eq{"id::text": ids}))
}

// Create inserts a new tool.
func (r *ToolRepository) Create(ctx context.Context, tool *domain.Tool) (*domain.Tool, error) {
	query, args, err := psql.
		Insert("tools").
		Columns("name", "description", "type", "config").
		Values(tool.Name, tool.Description, tool.Type, tool.Config).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for tool: %w", err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&tool.ID, &tool.CreatedAt, &tool.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("tool %q: %w", tool.Name, domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create tool: %w", err)
	}
	return tool, nil
}

// Update overwrites the mutable fields of an existing tool.
func (r *ToolRepository) Update(ctx context.Context, tool *domain.Tool) error {
	query, args, err := psql.
		Update("tools").
		Set("name", tool.Name).
		Set("description", tool.Description).
		Set("type", tool.Type).
		Set("config", tool.Config).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": tool.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for tool %s: %w", tool.ID, err)
	}

	err = r.db.QueryRow(ctx, query, args...).Scan(&tool.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrToolNotFound
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("tool %q: %w", tool.Name, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("update tool: %w", err)
	}
	return nil
}

// Delete removes a tool by ID.
func (r *ToolRepository) Delete(ctx context.Context, toolID string) error {
	return deleteByID(ctx, r.db, "tools", toolID, domain.ErrToolNotFound)
}
