package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/mathanim/api/pkg/response"
)

type RateLimiter struct {
	redis redis.Cmdable
}

func NewRateLimiter(redisClient redis.Cmdable) *RateLimiter {
	return &RateLimiter{redis: redisClient}
}

// Limit creates a rate limiting middleware keyed by authenticated client, or
// by remote IP when authentication is off
func (rl *RateLimiter) Limit(keyPrefix string, maxRequests int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if maxRequests <= 0 {
			return c.Next()
		}

		subject := GetClientID(c)
		if subject == "" {
			subject = "ip:" + c.IP()
		}

		key := fmt.Sprintf("ratelimit:%s:%s", keyPrefix, subject)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		// Increment counter
		count, err := rl.redis.Incr(ctx, key).Result()
		if err != nil {
			// If Redis fails, allow the request but log the error
			log.Warnf("RateLimit: redis unavailable, allowing request: %v", err)
			return c.Next()
		}

		// Set expiration on first request. A counter without one would never reset.
		if count == 1 {
			if err := rl.redis.Expire(ctx, key, window).Err(); err != nil {
				log.Warnf("RateLimit: failed to set expiry on %s, resetting counter: %v", key, err)
				rl.redis.Del(ctx, key)
				return c.Next()
			}
		}

		if count > int64(maxRequests) {
			// Get TTL for retry-after header
			ttl, err := rl.redis.TTL(ctx, key).Result()
			if err == nil && ttl < 0 {
				// counter lost its expiry; re-arm it
				if err := rl.redis.Expire(ctx, key, window).Err(); err != nil {
					log.Warnf("RateLimit: failed to re-arm expiry on %s: %v", key, err)
				}
				ttl = window
			}
			c.Set("Retry-After", fmt.Sprintf("%d", int(ttl.Seconds())))
			return response.RateLimited(c)
		}

		// Add rate limit headers
		c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequests))
		c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", maxRequests-int(count)))

		return c.Next()
	}
}

// GenerateLimit returns a rate limiter for the generation endpoints
func (rl *RateLimiter) GenerateLimit(maxPerHour int) fiber.Handler {
	return rl.Limit("generate", maxPerHour, time.Hour)
}
