package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"parking-reservation/internal/handler/httperr"
	"parking-reservation/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var errRateLimited = errors.New("rate limit exceeded")

type RateDecision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
}

var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

if interval_ms > 0 and refill_tokens > 0 then
	local elapsed = math.max(0, now_ms - last_refill)
	local intervals = math.floor(elapsed / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + (intervals * refill_tokens))
		last_refill = last_refill + (intervals * interval_ms)
	end
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

// RedisTokenBucket keeps one bucket per key in a Redis hash, updated atomically by a Lua script.
type RedisTokenBucket struct {
	client redis.Scripter
	cfg    config.RateLimitConfig
}

func NewRedisTokenBucket(client redis.Scripter, cfg config.RateLimitConfig) *RedisTokenBucket {
	return &RedisTokenBucket{client: client, cfg: cfg}
}

func (b *RedisTokenBucket) Allow(ctx context.Context, key string) (RateDecision, error) {
	args := []any{
		time.Now().UnixMilli(),
		b.cfg.Capacity,
		b.cfg.RefillTokens,
		b.cfg.RefillInterval.Milliseconds(),
		int64(b.cfg.TTL / time.Second),
	}

	vals, err := tokenBucketScript.Run(ctx, b.client, []string{key}, args...).Int64Slice()
	if err != nil {
		return RateDecision{}, err
	}
	if len(vals) != 3 {
		return RateDecision{}, fmt.Errorf("unexpected rate limit script result: %v", vals)
	}

	return RateDecision{
		Allowed:    vals[0] == 1,
		Remaining:  vals[1],
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// RateLimit fails open: a limiter error lets the request through.
func RateLimit(limiter RateLimiter, cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := rateKey(cfg.Prefix, c)

		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			slog.Warn("rate limiter unavailable", "key", key, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(decision.Remaining, 10))

		if !decision.Allowed {
			secs := int(math.Ceil(decision.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(secs))
			httperr.AbortWithError(c, http.StatusTooManyRequests, errRateLimited, "Too many requests, retry later", gin.H{"retryAfter": secs})
			return
		}

		c.Next()
	}
}

func rateKey(prefix string, c *gin.Context) string {
	subject := "ip:" + c.ClientIP()
	if userID, ok := GetUserID(c); ok {
		subject = "user:" + userID.String()
	}
	route := c.Request.Method + " " + c.FullPath()
	return strings.Join([]string{prefix, subject, route}, ":")
}
