package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/xxcode2/shadowpay-sub000/backend-service/auth"
)

// AuthRequired parses the bearer token and exposes the caller's wallet and
// role via Locals("wallet") / Locals("role").
func AuthRequired(issuer *auth.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(401).JSON(fiber.Map{"error": "missing auth"})
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		if tokenStr == header || tokenStr == "" {
			return c.Status(401).JSON(fiber.Map{"error": "invalid auth header"})
		}

		identity, err := issuer.Verify(tokenStr)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "invalid token"})
		}

		c.Locals("wallet", identity.Wallet)
		c.Locals("role", identity.Role)
		return c.Next()
	}
}

func RoleRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole := c.Locals("role")
		if userRole == nil {
			return c.Status(403).JSON(fiber.Map{"error": "no role"})
		}

		role := userRole.(string)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
	}
}
