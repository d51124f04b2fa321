package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AdminMiddleware gates the publishing and settings endpoints behind a shared
// admin password sent as a bearer token. The comparison is constant-time.
func AdminMiddleware(adminPassword string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if adminPassword == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Admin access is not configured",
			})
		}

		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Authorization header is required",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(adminPassword)) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid admin credentials",
			})
		}

		return c.Next()
	}
}

// CronMiddleware authorizes the scheduler trigger with a shared secret, for
// external cron services that can only send a header.
func CronMiddleware(cronSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cronSecret == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Cron access is not configured",
			})
		}

		secret := c.Get("X-Cron-Secret")
		if subtle.ConstantTimeCompare([]byte(secret), []byte(cronSecret)) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid cron secret",
			})
		}

		return c.Next()
	}
}
