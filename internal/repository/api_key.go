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

var apiKeyColumns = []string{"id", "name", "key", "type", "model", "is_active", "last_used", "created_at"}

// APIKeyRepository handles database operations for stored vendor keys.
type APIKeyRepository struct {
	db DBTX
}

// NewAPIKeyRepository creates a new APIKeyRepository.
func NewAPIKeyRepository(pool *pgxpool.Pool) *APIKeyRepository {
	return &APIKeyRepository{db: pool}
}

// WithTx returns a copy of the repository that runs its queries in tx.
func (r *APIKeyRepository) WithTx(tx pgx.Tx) *APIKeyRepository {
	return &APIKeyRepository{db: tx}
}

func scanAPIKey(row pgx.Row) (*domain.APIKey, error) {
	var k domain.APIKey
	err := row.Scan(&k.ID, &k.Name, &k.Key, &k.Type, &k.Model, &k.IsActive, &k.LastUsed, &k.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAPIKeyNotFound
		}
		return nil, fmt.Errorf("scan api key: %w", err)
	}
	return &k, nil
}

// GetByID retrieves an API key by ID.
func (r *APIKeyRepository) GetByID(ctx context.Context, keyID string) (*domain.APIKey, error) {
	query, args, err := psql.
		Select(apiKeyColumns...).
		From("api_keys").
		Where(sq.Eq{"id": keyID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for api key: %w", err)
	}

	return scanAPIKey(r.db.QueryRow(ctx, query, args...))
}

// GetByName retrieves an API key by its unique name.
func (r *APIKeyRepository) GetByName(ctx context.Context, name string) (*domain.APIKey, error) {
	query, args, err := psql.Select(apiKeyColumns...).From("api_keys").Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByName query for api key: %w", err)
	}
	return scanAPIKey(r.db.QueryRow(ctx, query, args...))
}

// List retrieves API keys, newest first.
func (r *APIKeyRepository) List(ctx context.Context, page Page) ([]*domain.APIKey, int, error) {
	total, err := count(ctx, r.db, psql.Select("COUNT(*)").From("api_keys"))
	if err != nil {
		return nil, 0, err
	}

	query, args, err := page.apply(psql.Select(apiKeyColumns...).From("api_keys").OrderBy("created_at DESC")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query for api keys: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query api keys: %w", err)
	}
	defer rows.Close()

	keys := []*domain.APIKey{}
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, 0, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate rows: %w", err)
	}
	return keys, total, nil
}

// Create inserts a new API key.
func (r *APIKeyRepository) Create(ctx context.Context, k *domain.APIKey) (*domain.APIKey, error) {
	query, args, err := psql.
		Insert("api_keys").
		Columns("name", "key", "type", "model", "is_active").
		Values(k.Name, k.Key, k.Type, k.Model, k.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for api key: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&k.ID, &k.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("api key %q: %w", k.Name, domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("create api key: %w", err)
	}
	return k, nil
}

// Update overwrites the mutable fields of an existing API key.
func (r *APIKeyRepository) Update(ctx context.Context, k *domain.APIKey) error {
	query, args, err := psql.
		Update("api_keys").
		Set("name", k.Name).
		Set("key", k.Key).
		Set("type", k.Type).
		Set("model", k.Model).
		Set("is_active", k.IsActive).
		Where(sq.Eq{"id": k.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for api key %s: %w", k.ID, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("api key %q: %w", k.Name, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("update api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAPIKeyNotFound
	}
	return nil
}

// TouchLastUsed records that the key was just used for a model call.
func (r *APIKeyRepository) TouchLastUsed(ctx context.Context, keyID string) error {
	query, args, err := psql.
		Update("api_keys").
		Set("last_used", sq.Expr("NOW()")).
		Where(sq.Eq{"id": keyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build TouchLastUsed query for api key %s: %w", keyID, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("touch api key: %w", err)
	}
	return nil
}

// Delete removes an API key by ID.
func (r *APIKeyRepository) Delete(ctx context.Context, keyID string) error {
	return deleteByID(ctx, r.db, "api_keys", keyID, domain.ErrAPIKeyNotFound)
}
