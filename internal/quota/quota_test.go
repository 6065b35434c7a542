package quota

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/agentdesk/internal/domain"
)

func newRedisLimiter(t *testing.T, limit int, now time.Time) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	mr.SetTime(now)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLimiter(client, limit), mr
}

func sessionMessage(id string) *domain.Message {
	return &domain.Message{SessionID: &id, Text: "hello", IsUser: true}
}

func TestRedisLimiter_SixthMessageRejected(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	l, mr := newRedisLimiter(t, domain.FreeMonthlyMessageCap, now)
	ctx := context.Background()
	m := sessionMessage("s-1")

	for i := 0; i < domain.FreeMonthlyMessageCap; i++ {
		require.NoError(t, l.Reserve(ctx, m, now), "message %d", i+1)
	}

	err := l.Reserve(ctx, m, now)
	assert.ErrorIs(t, err, domain.ErrMonthlyLimitReached)

	used, err := mr.Get(l.key(m, now))
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(domain.FreeMonthlyMessageCap), used, "rejected reservation must not consume a slot")
}

func TestRedisLimiter_NewMonthResets(t *testing.T) {
	march := time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC)
	april := time.Date(2026, 4, 1, 0, 0, 1, 0, time.UTC)
	l, _ := newRedisLimiter(t, 1, march)
	ctx := context.Background()
	m := sessionMessage("s-2")

	require.NoError(t, l.Reserve(ctx, m, march))
	assert.ErrorIs(t, l.Reserve(ctx, m, march), domain.ErrMonthlyLimitReached)
	assert.NoError(t, l.Reserve(ctx, m, april))
}

func TestRedisLimiter_SendersAreIndependent(t *testing.T) {
	now := time.Now()
	l, _ := newRedisLimiter(t, 1, now)
	ctx := context.Background()

	email := "a@example.com"
	require.NoError(t, l.Reserve(ctx, &domain.Message{Email: &email}, now))
	assert.NoError(t, l.Reserve(ctx, sessionMessage("s-3"), now))
}

func TestRedisLimiter_ReleaseReturnsSlot(t *testing.T) {
	now := time.Now()
	l, _ := newRedisLimiter(t, 1, now)
	ctx := context.Background()
	m := sessionMessage("s-4")

	require.NoError(t, l.Reserve(ctx, m, now))
	l.Release(ctx, m, now)
	assert.NoError(t, l.Reserve(ctx, m, now))
}

func TestRedisLimiter_KeyExpiresAfterMonth(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	l, mr := newRedisLimiter(t, 5, now)
	ctx := context.Background()
	m := sessionMessage("s-5")

	require.NoError(t, l.Reserve(ctx, m, now))
	assert.True(t, mr.Exists("quota:session:s-5:2026-02"))
	assert.Greater(t, mr.TTL("quota:session:s-5:2026-02"), time.Duration(0))
}

type fakeCounter struct {
	n     int
	since time.Time
}

func (f *fakeCounter) CountUserMessagesSince(_ context.Context, _, _ *string, since time.Time) (int, error) {
	f.since = since
	return f.n, nil
}

func TestStoreLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 20, 8, 30, 0, 0, time.UTC)

	counter := &fakeCounter{n: 4}
	l := NewStoreLimiter(counter, domain.FreeMonthlyMessageCap)
	require.NoError(t, l.Reserve(ctx, sessionMessage("s"), now))
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), counter.since)

	counter.n = 5
	assert.ErrorIs(t, l.Reserve(ctx, sessionMessage("s"), now), domain.ErrMonthlyLimitReached)
}
