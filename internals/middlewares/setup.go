package middlewares

import (
	"context"
	"time"

	"classifieds_backend/internals/configs"
	"classifieds_backend/internals/middlewares/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"
	"github.com/sirupsen/logrus"
)

const requestTimeout = 5 * time.Second

// RequestID tags each request with X-Request-ID (kept from the client when
// present), bounds it with a timeout and logs its outcome.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)

		start := time.Now()
		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()
		c.SetUserContext(ctx)

		err := c.Next()
		configs.Log.WithFields(logrus.Fields{
			"reqid":  id,
			"method": c.Method(),
			"url":    c.OriginalURL(),
			"status": c.Response().StatusCode(),
			"dur":    time.Since(start).String(),
		}).Debug("[REQ]")
		return err
	}
}

// SetupMiddlewares installs the app-wide chain. Order: recover first so it
// sees panics from everything after it.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestID())
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(GlobalRateLimiter())
}
