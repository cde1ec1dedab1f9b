package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/influmatch/backend/internal/apperr"
)

// RequireCronSecret guards the scheduled-job endpoints. Callers present the
// shared secret in the x-cron-secret header.
func RequireCronSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return apperr.Unauthorized("cron endpoint disabled")
		}
		got := c.Get("x-cron-secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			return apperr.Unauthorized("invalid cron secret")
		}
		return c.Next()
	}
}
