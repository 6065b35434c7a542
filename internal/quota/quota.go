// Package quota enforces the free-tier monthly message cap. Counters are kept
// per sender per calendar month (UTC).
package quota

import (
	"context"
	"time"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// Limiter reserves one message slot for a sender in the current month.
type Limiter interface {
	// Reserve claims a slot or returns domain.ErrMonthlyLimitReached.
	Reserve(ctx context.Context, m *domain.Message, now time.Time) error
	// Release gives back a slot claimed by Reserve when the message could not be stored.
	Release(ctx context.Context, m *domain.Message, now time.Time)
}

// periodKey identifies the calendar month that now falls into.
func periodKey(now time.Time) string {
	return domain.MonthStart(now).Format("2006-01")
}

// periodEnd returns the first instant of the month after now.
func periodEnd(now time.Time) time.Time {
	return domain.MonthStart(now).AddDate(0, 1, 0)
}
