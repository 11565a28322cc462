package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TokenParserInterface validates an access token and returns the user
// id it carries.
type TokenParserInterface interface {
	ParseToken(token string) (int64, error)
}

// AuthRequired returns a middleware that rejects requests without a
// valid bearer token and stores the caller's id in Locals for the
// route handler.
func AuthRequired(parser TokenParserInterface) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing or malformed token"})
		}
		userID, err := parser.ParseToken(strings.TrimSpace(header[len(prefix):]))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		c.Locals(userIDKey, userID)
		return c.Next()
	}
}
