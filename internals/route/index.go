package routes

import (
	"time"

	"classifieds_backend/internals/configs"
	helper "classifieds_backend/internals/helpers"
	routeDetails "classifieds_backend/internals/route/details"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime = time.Now()

func SetupRoutes(app *fiber.App, db *gorm.DB, media *helper.MediaStore) {
	startTime = time.Now()

	configs.Log.Debug("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, db)

	configs.Log.Debug("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db)

	configs.Log.Debug("[INFO] Setting up BoardRoutes...")
	routeDetails.BoardRoutes(app, db, media)

	configs.Log.Debug("[INFO] Setting up UserRoutes...")
	routeDetails.UserRoutes(app, db, media)
}
