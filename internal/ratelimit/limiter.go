package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrLimited = errors.New("otp send rate limited")

// LimitError carries how long the caller has to wait.
type LimitError struct {
	RetryAfter time.Duration
	Reason     string
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s; try again in %d seconds", e.Reason, int(e.RetryAfter.Seconds()))
}

func (e *LimitError) Unwrap() error { return ErrLimited }

// Limiter throttles code issuance per destination: a short cooldown between
// consecutive sends and a cap per window. Exceeding the cap blocks the
// destination for three windows.
type Limiter struct {
	client      redis.UniversalClient
	cooldown    time.Duration
	window      time.Duration
	maxInWindow int
	log         *zap.Logger
}

func NewLimiter(client redis.UniversalClient, cooldown, window time.Duration, maxInWindow int, log *zap.Logger) *Limiter {
	return &Limiter{
		client:      client,
		cooldown:    cooldown,
		window:      window,
		maxInWindow: maxInWindow,
		log:         log.With(zap.String("component", "otp_limiter")),
	}
}

func key(kind, destination string) string {
	return fmt.Sprintf("otp:%s:%s", kind, destination)
}

// Allow records a send attempt for destination or returns a *LimitError.
func (l *Limiter) Allow(ctx context.Context, destination string) error {
	blockKey := key("block", destination)
	lastKey := key("last", destination)
	countKey := key("count", destination)

	ttl, err := l.client.TTL(ctx, blockKey).Result()
	if err != nil {
		return fmt.Errorf("read block ttl: %w", err)
	}
	if ttl > 0 {
		return &LimitError{RetryAfter: ttl, Reason: "too many OTP requests"}
	}

	ttl, err = l.client.TTL(ctx, lastKey).Result()
	if err != nil {
		return fmt.Errorf("read cooldown ttl: %w", err)
	}
	if ttl > 0 {
		return &LimitError{RetryAfter: ttl, Reason: "please wait before requesting another OTP"}
	}

	count, err := l.client.Incr(ctx, countKey).Result()
	if err != nil {
		return fmt.Errorf("increment send count: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, countKey, l.window).Err(); err != nil {
			l.log.Warn("Failed to set window expiry", zap.Error(err))
		}
	}

	if l.maxInWindow > 0 && int(count) > l.maxInWindow {
		block := l.window * 3
		if err := l.client.Set(ctx, blockKey, "1", block).Err(); err != nil {
			l.log.Warn("Failed to set block key", zap.Error(err))
		}
		l.log.Warn("OTP destination blocked", zap.Int64("count", count), zap.Duration("block", block))
		return &LimitError{RetryAfter: block, Reason: "too many OTP requests"}
	}

	if l.cooldown > 0 {
		if err := l.client.Set(ctx, lastKey, "1", l.cooldown).Err(); err != nil {
			l.log.Warn("Failed to set cooldown key", zap.Error(err))
		}
	}

	return nil
}

// Reset clears every key held for destination.
func (l *Limiter) Reset(ctx context.Context, destination string) error {
	return l.client.Del(ctx, key("block", destination), key("last", destination), key("count", destination)).Err()
}
