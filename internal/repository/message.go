package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/agentdesk/internal/domain"
)

var messageColumns = []string{"id", "email", "session_id", "plan", "text", "is_user", "created_at"}

// MessageRepository handles database operations for chat messages.
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// senderFilter matches messages from the sender identified by email or sessionID.
func senderFilter(email, sessionID *string) sq.Eq {
	if email != nil && *email != "" {
		return sq.Eq{"email": *email}
	}
	return sq.Eq{"session_id": *sessionID}
}

// Create inserts a new message.
func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	query, args, err := psql.
		Insert("messages").
		Columns("email", "session_id", "plan", "text", "is_user").
		Values(m.Email, m.SessionID, m.Plan, m.Text, m.IsUser).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for message: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// ListBySender retrieves a sender's messages in chronological order.
func (r *MessageRepository) ListBySender(ctx context.Context, email, sessionID *string) ([]*domain.Message, error) {
	query, args, err := psql.
		Select(messageColumns...).
		From("messages").
		Where(senderFilter(email, sessionID)).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListBySender query for messages: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}

	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Message, error) {
		var m domain.Message
		err := row.Scan(&m.ID, &m.Email, &m.SessionID, &m.Plan, &m.Text, &m.IsUser, &m.CreatedAt)
		return &m, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect messages: %w", err)
	}
	return messages, nil
}

// CountUserMessagesSince counts messages the sender wrote since the given time.
func (r *MessageRepository) CountUserMessagesSince(ctx context.Context, email, sessionID *string, since time.Time) (int, error) {
	return count(ctx, r.pool, psql.
		Select("COUNT(*)").
		From("messages").
		Where(senderFilter(email, sessionID)).
		Where(sq.Eq{"is_user": true}).
		Where(sq.GtOrEq{"created_at": since}))
}
