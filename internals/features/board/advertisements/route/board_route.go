package route

import (
	"classifieds_backend/internals/features/board/advertisements/controller"
	helper "classifieds_backend/internals/helpers"
	authMiddleware "classifieds_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BoardRoutes mounts /board. Static segments (/add) go before /:id.
func BoardRoutes(router fiber.Router, db *gorm.DB, media *helper.MediaStore) {
	ctrl := controller.NewAdvertisementController(db, media)
	requireLogin := authMiddleware.AuthMiddleware(db)
	maybeLogin := authMiddleware.OptionalAuth(db)

	board := router.Group("/board")

	board.Get("/", ctrl.List)

	board.Get("/add", requireLogin, ctrl.AddForm)
	board.Post("/add", requireLogin, ctrl.Create)

	board.Get("/:id", maybeLogin, ctrl.Detail)

	board.Get("/:id/edit", requireLogin, ctrl.EditForm)
	board.Post("/:id/edit", requireLogin, ctrl.Update)

	board.Get("/:id/delete", requireLogin, ctrl.DeleteConfirm)
	board.Post("/:id/delete", requireLogin, ctrl.Delete)

	board.Post("/:id/like", requireLogin, ctrl.Like)
	board.Post("/:id/dislike", requireLogin, ctrl.Dislike)
}
