package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperrors "github.com/lk2023060901/workspace-backend/internal/pkg/errors"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"github.com/lk2023060901/workspace-backend/internal/pkg/response"
	"github.com/lk2023060901/workspace-backend/internal/pkg/validator"
	"go.uber.org/zap"
)

// ScriptRunner runs a lua script. *redis.Client implements it.
type ScriptRunner interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) (interface{}, error)
}

// RateLimiterConfig bounds requests per key within a sliding window.
type RateLimiterConfig struct {
	MaxRequests   int
	WindowSeconds int
	Strategy      string // ip (default), session, endpoint
}

// slidingWindowScript keeps one sorted-set member per request scored by its
// unix time and trims members older than the window.
const slidingWindowScript = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local current = redis.call('ZCARD', key)

if current < limit then
	redis.call('ZADD', key, now, ARGV[4])
	redis.call('EXPIRE', key, window)
	return {1, limit - current - 1, now + window}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')[2]
return {0, 0, tonumber(oldest) + window}
`

// RateLimiter is a redis-backed sliding window limiter. Limiter failures let
// the request through.
func RateLimiter(runner ScriptRunner, cfg RateLimiterConfig, log *logger.Logger) gin.HandlerFunc {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 100
	}
	if cfg.WindowSeconds <= 0 {
		cfg.WindowSeconds = 60
	}

	return func(c *gin.Context) {
		key := buildRateLimitKey(c, cfg.Strategy)

		allowed, remaining, resetAt, err := checkRateLimit(c.Request.Context(), runner, key, cfg)
		if err != nil {
			log.Error("rate limiter error", zap.Error(err), zap.String("key", key))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))

		if !allowed {
			retry := resetAt - time.Now().Unix()
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retry, 10))
			response.ErrorWithCode(c, apperrors.ErrTooManyRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}

// LoginRateLimiter limits login attempts per client IP.
func LoginRateLimiter(runner ScriptRunner, perMinute int, log *logger.Logger) gin.HandlerFunc {
	return RateLimiter(runner, RateLimiterConfig{
		MaxRequests:   perMinute,
		WindowSeconds: 60,
		Strategy:      "ip",
	}, log)
}

func buildRateLimitKey(c *gin.Context, strategy string) string {
	const prefix = "rate_limit"

	switch strategy {
	case "session":
		if sid, ok := GetSessionID(c); ok {
			return fmt.Sprintf("%s:session:%s", prefix, sid)
		}
	case "endpoint":
		return fmt.Sprintf("%s:endpoint:%s:%s", prefix, c.FullPath(), validator.ClientIP(c.ClientIP()))
	}
	return fmt.Sprintf("%s:ip:%s", prefix, validator.ClientIP(c.ClientIP()))
}

func checkRateLimit(ctx context.Context, runner ScriptRunner, key string, cfg RateLimiterConfig) (allowed bool, remaining int, resetAt int64, err error) {
	now := time.Now().Unix()

	result, err := runner.Eval(ctx, slidingWindowScript, []string{key}, now, cfg.WindowSeconds, cfg.MaxRequests, uuid.NewString())
	if err != nil {
		return false, 0, 0, err
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 3 {
		return false, 0, 0, fmt.Errorf("invalid rate limit result: %v", result)
	}

	allowedInt, _ := values[0].(int64)
	remainingInt, _ := values[1].(int64)
	resetAt, _ = values[2].(int64)

	return allowedInt == 1, int(remainingInt), resetAt, nil
}
