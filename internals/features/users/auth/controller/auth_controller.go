package controller

import (
	"classifieds_backend/internals/features/users/auth/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

func (ac *AuthController) SignupForm(c *fiber.Ctx) error {
	return service.SignupForm(c)
}

func (ac *AuthController) Signup(c *fiber.Ctx) error {
	return service.Signup(ac.DB, c)
}

func (ac *AuthController) LoginForm(c *fiber.Ctx) error {
	return service.LoginForm(c)
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	return service.Login(ac.DB, c)
}

func (ac *AuthController) Logout(c *fiber.Ctx) error {
	return service.Logout(ac.DB, c)
}
