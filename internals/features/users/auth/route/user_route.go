package route

import (
	controller "classifieds_backend/internals/features/users/auth/controller"
	rateLimiter "classifieds_backend/internals/middlewares"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthRoutes mounts signup/login/logout at the site root, like the
// framework auth URLs they replace.
func AuthRoutes(router fiber.Router, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	router.Get("/signup", authController.SignupForm)
	router.Post("/signup", rateLimiter.RegisterRateLimiter(), authController.Signup)

	router.Get("/login", authController.LoginForm)
	router.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)

	router.Post("/logout", authController.Logout)
}
