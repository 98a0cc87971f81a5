package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	loginAttemptWindow = 15 * time.Minute
	loginMaxAttempts   = 10
	loginLockDuration  = time.Hour
)

// LoginLimiter tracks failed login attempts per client IP + identifier in
// Redis and locks the pair out after repeated failures. A nil limiter is
// valid and disables throttling. Redis outages fail open so cache issues
// never block legitimate users.
type LoginLimiter struct {
	client *redis.Client
}

func NewLoginLimiter(redisURL string) (*LoginLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &LoginLimiter{client: client}, nil
}

func lockKey(ip, identifier string) string {
	return fmt.Sprintf("login:lock:%s:%s", ip, identifier)
}

func attemptKey(ip, identifier string) string {
	return fmt.Sprintf("login:attempts:%s:%s", ip, identifier)
}

// Blocked reports whether the IP/identifier pair is currently locked out
// and, if so, for how many more seconds.
func (l *LoginLimiter) Blocked(ctx context.Context, ip, identifier string) (bool, int) {
	if l == nil {
		return false, 0
	}

	n, err := l.client.Exists(ctx, lockKey(ip, identifier)).Result()
	if err != nil || n == 0 {
		return false, 0
	}

	ttl, err := l.client.TTL(ctx, lockKey(ip, identifier)).Result()
	retryAfter := int(ttl.Seconds())
	if err != nil || retryAfter < 0 {
		retryAfter = 60
	}
	return true, retryAfter
}

// RecordFailure counts a failed attempt and installs the lock once the
// threshold is crossed.
func (l *LoginLimiter) RecordFailure(ctx context.Context, ip, identifier string) {
	if l == nil {
		return
	}

	key := attemptKey(ip, identifier)
	attempts, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return
	}
	if attempts == 1 {
		l.client.Expire(ctx, key, loginAttemptWindow)
	}
	if attempts >= loginMaxAttempts {
		l.client.Set(ctx, lockKey(ip, identifier), "1", loginLockDuration)
	}
}

// Reset clears the attempt counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, ip, identifier string) {
	if l == nil {
		return
	}
	l.client.Del(ctx, attemptKey(ip, identifier), lockKey(ip, identifier))
}
