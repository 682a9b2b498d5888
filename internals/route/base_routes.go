package routes

import (
	"context"
	"time"

	database "classifieds_backend/internals/databases"
	helper "classifieds_backend/internals/helpers"
	"classifieds_backend/internals/middlewares"
	authMiddleware "classifieds_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func BaseRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/", authMiddleware.OptionalAuth(db), Home)
	app.Get("/health", middlewares.DBMiddleware(db), Health)
}

// Home is the landing document with the site's entry points.
func Home(c *fiber.Ctx) error {
	data := fiber.Map{
		"links": fiber.Map{
			"board":  "/board/",
			"add":    "/board/add",
			"signup": "/signup",
			"login":  "/login",
			"logout": "/logout",
		},
		"authenticated": false,
	}
	if userID, ok := helper.CurrentUserID(c); ok {
		data["authenticated"] = true
		data["user_id"] = userID
		data["user_name"], _ = c.Locals(helper.LocUserName).(string)
	}
	return helper.JsonOK(c, "Classifieds board", data)
}

func Health(c *fiber.Ctx) error {
	dbStatus := "Connected"
	serverStatus := "OK"
	httpStatus := fiber.StatusOK

	db, _ := c.Locals(middlewares.LocDB).(*gorm.DB)
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if db == nil || database.Ping(ctx, db) != nil {
		dbStatus = "Database connection error"
		serverStatus = "DOWN"
		httpStatus = fiber.StatusServiceUnavailable
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":         serverStatus,
		"database":       dbStatus,
		"server_time":    time.Now().Format(time.RFC3339),
		"uptime_seconds": int64(time.Since(startTime).Seconds()),
	})
}
