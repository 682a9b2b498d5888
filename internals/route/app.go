package routes

import (
	"classifieds_backend/internals/configs"
	helper "classifieds_backend/internals/helpers"
	"classifieds_backend/internals/middlewares"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// NewApp builds the fully wired fiber app. main and the HTTP tests share it.
func NewApp(db *gorm.DB, media *helper.MediaStore) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          helper.ErrorHandler,
		BodyLimit:             (configs.MaxUploadMB + 1) * 1024 * 1024,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	middlewares.SetupMiddlewares(app)

	app.Static(media.URLPrefix, media.Root, fiber.Static{
		Compress: true,
		MaxAge:   86400,
	})

	SetupRoutes(app, db, media)
	return app
}
