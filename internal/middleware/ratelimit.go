package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimit caps requests per client IP per minute using a redis counter.
// Redis failures let traffic through rather than blocking the API.
func RateLimit(rdb *redis.Client, perMinute int, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if perMinute <= 0 {
			return c.Next()
		}

		key := fmt.Sprintf("ratelimit:%s:%s", c.IP(), time.Now().Format("2006-01-02T15:04"))
		count, err := rdb.Incr(c.Context(), key).Result()
		if err != nil {
			log.Warn("rate limit check failed", zap.Error(err))
			return c.Next()
		}
		if count == 1 {
			rdb.Expire(c.Context(), key, time.Minute)
		}

		if count > int64(perMinute) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error": fiber.Map{
					"code":    "RATE_LIMITED",
					"message": "too many requests",
				},
			})
		}

		return c.Next()
	}
}
