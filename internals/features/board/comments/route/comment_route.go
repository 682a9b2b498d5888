package route

import (
	"classifieds_backend/internals/features/board/comments/controller"
	authMiddleware "classifieds_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func CommentRoutes(router fiber.Router, db *gorm.DB) {
	ctrl := controller.NewCommentController(db)
	requireLogin := authMiddleware.AuthMiddleware(db)

	board := router.Group("/board")
	board.Post("/comments/:comment_id/delete", requireLogin, ctrl.Delete)
	board.Post("/:id/comments", requireLogin, ctrl.Create)
}
