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

var feedbackColumns = []string{"id", "user_id", "message", "rating", "created_at"}

// FeedbackRepository handles database operations for user feedback.
type FeedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository creates a new FeedbackRepository.
func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

func scanFeedback(row pgx.Row) (*domain.Feedback, error) {
	var f domain.Feedback
	if err := row.Scan(&f.ID, &f.UserID, &f.Message, &f.Rating, &f.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("scan feedback: %w", err)
	}
	return &f, nil
}

// GetByID retrieves a feedback entry by ID.
func (r *FeedbackRepository) GetByID(ctx context.Context, feedbackID string) (*domain.Feedback, error) {
	query, args, err := psql.Select(feedbackColumns...).From("feedback").Where(sq.Eq{"id": feedbackID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for feedback: %w", err)
	}
	return scanFeedback(r.pool.QueryRow(ctx, query, args...))
}

// List retrieves feedback, newest first.
func (r *FeedbackRepository) List(ctx context.Context, page Page) ([]*domain.Feedback, int, error) {
	total, err := count(ctx, r.pool, psql.Select("COUNT(*)").From("feedback"))
	if err != nil {
		return nil, 0, err
	}

	query, args, err := page.apply(psql.Select(feedbackColumns...).From("feedback").OrderBy("created_at DESC")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query for feedback: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query feedback: %w", err)
	}
	defer rows.Close()

	items := []*domain.Feedback{}
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate rows: %w", err)
	}
	return items, total, nil
}

// Create inserts a new feedback entry.
func (r *FeedbackRepository) Create(ctx context.Context, f *domain.Feedback) (*domain.Feedback, error) {
	query, args, err := psql.
		Insert("feedback").
		Columns("user_id", "message", "rating").
		Values(f.UserID, f.Message, f.Rating).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for feedback: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&f.ID, &f.CreatedAt); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return f, nil
}

// Delete removes a feedback entry by ID.
func (r *FeedbackRepository) Delete(ctx context.Context, feedbackID string) error {
	return deleteByID(ctx, r.pool, "feedback", feedbackID, domain.ErrFeedbackNotFound)
}
