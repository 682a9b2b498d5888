package auth

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// OptionalAuth identifies the user when a valid token is present and lets
// anonymous requests through otherwise. Public pages use it to show
// author-only actions.
func OptionalAuth(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_ = authenticate(db, c)
		return c.Next()
	}
}
