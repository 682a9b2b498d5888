package details

import (
	accountRoute "classifieds_backend/internals/features/users/account/route"
	userRoute "classifieds_backend/internals/features/users/user/route"
	helper "classifieds_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func UserRoutes(app fiber.Router, db *gorm.DB, media *helper.MediaStore) {
	userRoute.UserPublicRoutes(app, db)
	accountRoute.AccountRoutes(app, db, media)
}
