package route

import (
	"classifieds_backend/internals/features/users/account/controller"
	helper "classifieds_backend/internals/helpers"
	authMiddleware "classifieds_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func AccountRoutes(router fiber.Router, db *gorm.DB, media *helper.MediaStore) {
	ctrl := controller.NewAccountController(db, media)

	account := router.Group("/account", authMiddleware.AuthMiddleware(db))
	account.Get("/", ctrl.Me)
	account.Post("/delete", ctrl.Delete)
}
