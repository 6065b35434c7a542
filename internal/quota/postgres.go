package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// MessageCounter counts stored user messages for a sender.
type MessageCounter interface {
	CountUserMessagesSince(ctx context.Context, email, sessionID *string, since time.Time) (int, error)
}

// StoreLimiter derives the monthly count from stored messages. It is used
// when no Redis is configured. The check and the insert are not atomic.
type StoreLimiter struct {
	counter MessageCounter
	limit   int
}

// NewStoreLimiter creates a StoreLimiter allowing limit messages per month.
func NewStoreLimiter(counter MessageCounter, limit int) *StoreLimiter {
	return &StoreLimiter{counter: counter, limit: limit}
}

// Reserve fails when the sender already has limit messages this month.
func (l *StoreLimiter) Reserve(ctx context.Context, m *domain.Message, now time.Time) error {
	n, err := l.counter.CountUserMessagesSince(ctx, m.Email, m.SessionID, domain.MonthStart(now))
	if err != nil {
		return fmt.Errorf("count monthly messages: %w", err)
	}
	if n >= l.limit {
		return domain.ErrMonthlyLimitReached
	}
	return nil
}

// Release is a no-op: the stored message itself is the counter.
func (l *StoreLimiter) Release(context.Context, *domain.Message, time.Time) {}
