package routes

import (
	"github.com/gofiber/fiber/v2"

	"staff-directory/interfaces/api/handlers"
	"staff-directory/interfaces/api/middleware"
	"staff-directory/pkg/config"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, cfg *config.Config) {
	// Setup health and root routes
	SetupHealthRoutes(app, h.Health, cfg.App.Name)

	// API version group
	api := app.Group("/api/v1", middleware.RateLimiter(&cfg.RateLimit))

	SetupDirectoryRoutes(api, h, cfg.Admin.Token)
	SetupLogRoutes(api, h, cfg.Admin.Token)

	// Setup WebSocket routes (needs app, not api group)
	SetupWebSocketRoutes(app, h)
}
