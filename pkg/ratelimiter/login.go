package ratelimiter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient parses a redis:// URL and pings the server.
// It returns nil, nil when url is empty so callers can run without Redis.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// LoginThrottle counts failed logins per username in Redis and locks the
// username out once the limit is reached. A nil client disables throttling.
type LoginThrottle struct {
	rdb         *redis.Client
	maxAttempts int64
	lockout     time.Duration
}

func NewLoginThrottle(rdb *redis.Client, maxAttempts int, lockout time.Duration) *LoginThrottle {
	return &LoginThrottle{rdb: rdb, maxAttempts: int64(maxAttempts), lockout: lockout}
}

func key(username string) string {
	return fmt.Sprintf("rate_limit:login:%s", strings.ToLower(username))
}

// Allow reports whether another attempt is permitted and, if not, how long the lockout lasts.
func (l *LoginThrottle) Allow(ctx context.Context, username string) (bool, time.Duration, error) {
	if l == nil || l.rdb == nil {
		return true, 0, nil
	}

	count, err := l.rdb.Get(ctx, key(username)).Int64()
	if err == redis.Nil {
		return true, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to check login attempts in redis: %w", err)
	}
	if count < l.maxAttempts {
		return true, 0, nil
	}

	ttl, err := l.rdb.TTL(ctx, key(username)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to read lockout ttl: %w", err)
	}
	return false, ttl, nil
}

// RecordFailure increments the failure counter; the window starts at the first failure.
func (l *LoginThrottle) RecordFailure(ctx context.Context, username string) error {
	if l == nil || l.rdb == nil {
		return nil
	}

	k := key(username)
	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, k, l.lockout).Err(); err != nil {
			return fmt.Errorf("failed to set lockout window: %w", err)
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginThrottle) Reset(ctx context.Context, username string) error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, key(username)).Err()
}
