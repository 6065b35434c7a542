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

// SettingsRepository stores one JSON document per settings section.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get returns the raw document for a section, or nil when it was never saved.
func (r *SettingsRepository) Get(ctx context.Context, section domain.SettingsSection) ([]byte, error) {
	query, args, err := psql.Select("data").From("settings").Where(sq.Eq{"section": section}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Get query for settings %s: %w", section, err)
	}

	var data []byte
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query settings %s: %w", section, err)
	}
	return data, nil
}

// Upsert stores the document for a section, replacing any previous version.
func (r *SettingsRepository) Upsert(ctx context.Context, section domain.SettingsSection, data []byte) error {
	query, args, err := psql.
		Insert("settings").
		Columns("section", "data").
		Values(section, data).
		Suffix("ON CONFLICT (section) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Upsert query for settings %s: %w", section, err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert settings %s: %w", section, err)
	}
	return nil
}
