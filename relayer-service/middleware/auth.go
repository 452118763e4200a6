package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// KeyRequired gates requests behind the shared key the backend is
// configured with. An empty key disables the gate.
func KeyRequired(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key == "" {
			return c.Next()
		}

		header := c.Get("Authorization")
		presented := strings.TrimPrefix(header, "Bearer ")
		if presented == header || subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
			return c.Status(401).JSON(fiber.Map{"error": "invalid relayer key"})
		}

		return c.Next()
	}
}
