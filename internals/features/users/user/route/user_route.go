package route

import (
	"classifieds_backend/internals/features/users/user/controller"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// 🌐 Public profile statistics
func UserPublicRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := controller.NewUserProfileController(db)

	users := router.Group("/users")
	users.Get("/:id/profile", ctrl.GetPublicProfile)
}
