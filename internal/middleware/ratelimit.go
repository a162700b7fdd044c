package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/timesheet-reporting/internal/config"
)

// tokenBucket takes one token from the bucket at KEYS[1] after adding
// ARGV[3] tokens per whole ARGV[4] ms elapsed, capped at ARGV[2].  It
// replies {remaining, wait_ms}; wait_ms is 0 when the request is allowed.
var tokenBucket = redis.NewScript(`
local now, cap = tonumber(ARGV[1]), tonumber(ARGV[2])
local refill, every = tonumber(ARGV[3]), tonumber(ARGV[4])
local b = redis.call('HMGET', KEYS[1], 't', 'ts')
local t, ts = tonumber(b[1]) or cap, tonumber(b[2]) or now
local n = math.floor((now - ts) / every)
if n > 0 then
  t = math.min(cap, t + n * refill)
  ts = ts + n * every
end
local wait = 0
if t > 0 then t = t - 1 else wait = every - (now - ts) end
redis.call('HSET', KEYS[1], 't', t, 'ts', ts)
redis.call('EXPIRE', KEYS[1], ARGV[5])
return {t, wait}
`)

type bucketResult struct {
	remaining int64
	wait      time.Duration
}

func (r bucketResult) allowed() bool { return r.wait <= 0 }

// NewTokenBucket limits requests with a Redis-backed token bucket.  Redis
// failures fail open: the request is served and the error is logged when
// Debug is set.  It is a no-op when disabled or without a client.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg, c)
			args := []interface{}{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}
			vals, err := tokenBucket.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
			if err != nil {
				if cfg.Debug {
					c.Logger().Warnf("[ratelimit] redis error for key=%s: %v", key, err)
				}
				return next(c)
			}
			res, ok := parseBucketResult(vals)
			if !ok {
				if cfg.Debug {
					c.Logger().Warnf("[ratelimit] unexpected script result for key=%s: %#v", key, vals)
				}
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.remaining, 10))
			if !res.allowed() {
				secs := int(math.Ceil(res.wait.Seconds()))
				h.Set("Retry-After", strconv.Itoa(secs))
				if cfg.Debug {
					c.Logger().Infof("[ratelimit] block key=%s retry=%s", key, res.wait)
				}
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "Too many requests."})
			}
			return next(c)
		}
	}
}

func parseBucketResult(v interface{}) (bucketResult, bool) {
	arr, ok := v.([]interface{})
	if !ok || len(arr) != 2 {
		return bucketResult{}, false
	}
	remaining, ok1 := arr[0].(int64)
	wait, ok2 := arr[1].(int64)
	if !ok1 || !ok2 {
		return bucketResult{}, false
	}
	return bucketResult{remaining: remaining, wait: time.Duration(wait) * time.Millisecond}, true
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// rateKey builds the bucket key.  Buckets sit in front of authentication,
// so only client address and route are available.
func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.Request().Method + " " + c.Path()

	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		return fmt.Sprintf("%s:ip:%s", cfg.Prefix, ip)
	case "route":
		return fmt.Sprintf("%s:route:%s", cfg.Prefix, route)
	default: // ip_route
		return fmt.Sprintf("%s:ip:%s:route:%s", cfg.Prefix, ip, route)
	}
}
