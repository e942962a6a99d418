package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dealerdesk/crm-backend/internal/auth"
)

const (
	LocalsClaims = "claims"
	LocalsUserID = "user_id"
)

// JWTAuth guards the consultant API. Claims land in c.Locals for handlers.
func JWTAuth(m *auth.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := auth.ParseBearerToken(c.Get("Authorization"))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing or invalid authorization"})
		}
		claims, err := m.Parse(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}
		c.Locals(LocalsClaims, claims)
		c.Locals(LocalsUserID, claims.UserID)
		return c.Next()
	}
}

// UserID returns the authenticated user's id, or 0 outside JWTAuth.
func UserID(c *fiber.Ctx) int64 {
	if v, ok := c.Locals(LocalsUserID).(int64); ok {
		return v
	}
	return 0
}
