package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	LocUserID   = "user_id"
	LocUserName = "user_name"
	LocRawToken = "raw_token"
)

// GetUserIDFromToken reads the user id the auth middleware stored in Locals.
// 401 when nobody is logged in.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	switch t := c.Locals(LocUserID).(type) {
	case uuid.UUID:
		if t != uuid.Nil {
			return t, nil
		}
	case string:
		if id, err := uuid.Parse(strings.TrimSpace(t)); err == nil && id != uuid.Nil {
			return id, nil
		}
	}
	return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Not logged in")
}

// CurrentUserID is GetUserIDFromToken for optional-auth routes.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := GetUserIDFromToken(c)
	return id, err == nil
}
