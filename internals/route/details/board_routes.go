package details

import (
	adRoute "classifieds_backend/internals/features/board/advertisements/route"
	commentRoute "classifieds_backend/internals/features/board/comments/route"
	helper "classifieds_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func BoardRoutes(app fiber.Router, db *gorm.DB, media *helper.MediaStore) {
	commentRoute.CommentRoutes(app, db)
	adRoute.BoardRoutes(app, db, media)
}
