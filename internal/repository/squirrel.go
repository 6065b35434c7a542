package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// psql is the shared Squirrel statement builder configured for PostgreSQL dollar placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	// DefaultLimit is the page size used when a list request does not set one.
	DefaultLimit = 50
	// MaxLimit caps the page size of every list query.
	MaxLimit = 500

	uniqueViolation = "23505"
)

// Page holds pagination parameters for list queries.
type Page struct {
	Limit  int
	Offset int
}

// normalize clamps the page to sane bounds.
func (p Page) normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// apply adds LIMIT and OFFSET to a select query.
func (p Page) apply(qb sq.SelectBuilder) sq.SelectBuilder {
	p = p.normalize()
	return qb.Limit(uint64(p.Limit)).Offset(uint64(p.Offset))
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx so repository methods
// can run inside or outside a transaction.
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// count runs a COUNT(*) query built from qb.
func count(ctx context.Context, db DBTX, qb sq.SelectBuilder) (int, error) {
	query, args, err := qb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return total, nil
}

// deleteByID removes one row and returns notFound when nothing matched.
func deleteByID(ctx context.Context, db DBTX, table, id string, notFound error) error {
	query, args, err := psql.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for %s: %w", table, err)
	}

	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}
