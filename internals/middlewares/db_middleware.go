package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const LocDB = "db"

// DBMiddleware puts the connection into Locals for handlers that are not
// built around a controller (health checks).
func DBMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocDB, db)
		return c.Next()
	}
}
