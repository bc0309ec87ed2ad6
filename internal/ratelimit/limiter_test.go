package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestLimiter(t *testing.T, cooldown, window time.Duration, max int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLimiter(client, cooldown, window, max, zaptest.NewLogger(t)), mr
}

func TestLimiter_Cooldown(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLimiter(t, 45*time.Second, 10*time.Minute, 5)

	require.NoError(t, l.Allow(ctx, "+251900000000"))

	err := l.Allow(ctx, "+251900000000")
	var limitErr *LimitError
	require.True(t, errors.As(err, &limitErr))
	assert.ErrorIs(t, err, ErrLimited)
	assert.Greater(t, limitErr.RetryAfter, time.Duration(0))

	// other destinations are unaffected
	require.NoError(t, l.Allow(ctx, "a@b.com"))

	mr.FastForward(46 * time.Second)
	assert.NoError(t, l.Allow(ctx, "+251900000000"))
}

func TestLimiter_BlocksAfterWindowCap(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLimiter(t, 0, time.Minute, 2)

	require.NoError(t, l.Allow(ctx, "a@b.com"))
	require.NoError(t, l.Allow(ctx, "a@b.com"))

	err := l.Allow(ctx, "a@b.com")
	require.ErrorIs(t, err, ErrLimited)
	assert.True(t, mr.Exists("otp:block:a@b.com"))

	// still blocked after the counting window passes
	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, l.Allow(ctx, "a@b.com"), ErrLimited)

	mr.FastForward(2 * time.Minute)
	assert.NoError(t, l.Allow(ctx, "a@b.com"))
}

func TestLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(t, time.Minute, time.Minute, 5)

	require.NoError(t, l.Allow(ctx, "a@b.com"))
	require.ErrorIs(t, l.Allow(ctx, "a@b.com"), ErrLimited)

	require.NoError(t, l.Reset(ctx, "a@b.com"))
	assert.NoError(t, l.Allow(ctx, "a@b.com"))
}

func TestLimiter_RedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, time.Minute, time.Minute, 5)
	mr.Close()

	err := l.Allow(context.Background(), "a@b.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLimited)
}
