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

var userColumns = []string{"id", "email", "password_hash", "is_admin", "is_active", "created_at"}

// UserRepository handles database operations for users.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.IsActive, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) getOne(ctx context.Context, where sq.Eq) (*domain.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}
	return scanUser(r.pool.QueryRow(ctx, query, args...))
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.getOne(ctx, sq.Eq{"id": userID})
}

// GetByEmail retrieves a user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, sq.Eq{"email": email})
}

// List retrieves users, newest first.
func (r *UserRepository) List(ctx context.Context, page Page) ([]*domain.User, int, error) {
	total, err := count(ctx, r.pool, psql.Select("COUNT(*)").From("users"))
	if err != nil {
		return nil, 0, err
	}

	query, args, err := page.apply(psql.Select(userColumns...).From("users").OrderBy("created_at DESC")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query for users: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate rows: %w", err)
	}
	return users, total, nil
}

// Create inserts a new user. The password must already be hashed.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	query, args, err := psql.
		Insert("users").
		Columns("email", "password_hash", "is_admin", "is_active").
		Values(u.Email, u.PasswordHash, u.IsAdmin, u.IsActive).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for user: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailRegistered
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Update overwrites the mutable fields of an existing user.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	query, args, err := psql.
		Update("users").
		Set("email", u.Email).
		Set("password_hash", u.PasswordHash).
		Set("is_admin", u.IsAdmin).
		Set("is_active", u.IsActive).
		Where(sq.Eq{"id": u.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for user %s: %w", u.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailRegistered
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes a user by ID.
func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	return deleteByID(ctx, r.pool, "users", userID, domain.ErrUserNotFound)
}
