package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"lingoboard_backend/internals/middlewares/logger"
)

// SetupMiddlewares installs the app-wide chain. Auth and role checks are mounted per route group.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
