package quota

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtlprog/agentdesk/internal/domain"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "quota"

// RedisLimiter keeps monthly counters in Redis under
// "{prefix}:{sender}:{YYYY-MM}". Keys expire one day after the month ends.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
}

// NewRedisLimiter creates a RedisLimiter allowing limit messages per month.
func NewRedisLimiter(client *redis.Client, limit int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: defaultKeyPrefix,
		limit:  int64(limit),
	}
}

func (l *RedisLimiter) key(m *domain.Message, now time.Time) string {
	return fmt.Sprintf("%s:%s:%s", l.prefix, m.SenderKey(), periodKey(now))
}

// Reserve atomically increments the sender's counter and rolls it back when
// the cap is exceeded.
func (l *RedisLimiter) Reserve(ctx context.Context, m *domain.Message, now time.Time) error {
	key := l.key(m, now)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireAt(ctx, key, periodEnd(now).Add(24*time.Hour))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("increment quota counter: %w", err)
	}

	if incr.Val() > l.limit {
		if err := l.client.Decr(ctx, key).Err(); err != nil {
			slog.Error("failed to roll back quota counter", "key", key, "error", err)
		}
		return domain.ErrMonthlyLimitReached
	}
	return nil
}

// Release decrements the sender's counter.
func (l *RedisLimiter) Release(ctx context.Context, m *domain.Message, now time.Time) {
	key := l.key(m, now)
	if err := l.client.Decr(ctx, key).Err(); err != nil {
		slog.Error("failed to release quota slot", "key", key, "error", err)
	}
}
