package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

const keyPrefix = "ratelimit:"

// RedisLimiter shares counters between instances through Redis. Redis
// failures let the request through.
type RedisLimiter struct {
	client *redis.Client
	script *redis.Script
}

// NewRedisLimiter returns nil when client is nil.
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	if client == nil {
		return nil
	}
	return &RedisLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	if l == nil || l.client == nil {
		return true
	}
	if key == "" || limit <= 0 || window <= 0 {
		return true
	}
	ttl := window.Milliseconds()
	if ttl <= 0 {
		ttl = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	allowed, err := l.script.Run(ctx, l.client, []string{keyPrefix + key}, ttl, limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}

// New picks the Redis limiter when a client is available and the in-memory
// limiter otherwise.
func New(client *redis.Client) Limiter {
	if rl := NewRedisLimiter(client); rl != nil {
		return rl
	}
	return NewMemoryLimiter()
}
