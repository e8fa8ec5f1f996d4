// Package ratelimit implements a fixed-window request counter stored in Redis.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-notes-keeper/internal/config"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "notes:ratelimit:"

var ErrCounterFailed = errors.New("rate limit counter failed")

// incrWindow increments the counter and starts its window on the first hit.
// Returns {count, remaining window in ms}.
var incrWindow = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {count, redis.call("PTTL", KEYS[1])}
`)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed bool
	// Count is the number of hits in the current window, this one included.
	Count int64
	Limit int
	// RetryAfter is the time left until the window resets.
	RetryAfter time.Duration
}

// Limiter allows up to limit hits per key in each window.
type Limiter struct {
	client redis.Scripter
	limit  int
	window time.Duration
}

func NewLimiter(client redis.Scripter, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: limit, window: window}
}

// NewRedisClient builds the client described by cfg. It does not connect.
func NewRedisClient(cfg config.RateLimit) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// Allow counts a hit for key. On error the returned decision allows the
// request; callers decide whether to honour it.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := incrWindow.Run(ctx, l.client, []string{keyPrefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{Allowed: true, Limit: l.limit}, fmt.Errorf("%w: %w", ErrCounterFailed, err)
	}
	if len(res) != 2 {
		return Decision{Allowed: true, Limit: l.limit}, fmt.Errorf("%w: unexpected reply %v", ErrCounterFailed, res)
	}

	return l.decide(res[0], time.Duration(res[1])*time.Millisecond), nil
}

func (l *Limiter) decide(count int64, ttl time.Duration) Decision {
	if ttl < 0 {
		ttl = l.window
	}

	return Decision{
		Allowed:    count <= int64(l.limit),
		Count:      count,
		Limit:      l.limit,
		RetryAfter: ttl,
	}
}
