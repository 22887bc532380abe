package routes

import (
	"github.com/gofiber/fiber/v2"

	"staff-directory/interfaces/api/handlers"
)

func SetupHealthRoutes(app *fiber.App, healthHandler *handlers.HealthHandler, serviceName string) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Server is running",
			"service": serviceName,
		})
	})

	// Detailed health check (checks all components)
	if healthHandler != nil {
		app.Get("/health/detailed", healthHandler.DetailedHealth)
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message":   "Welcome to " + serviceName,
			"version":   "1.0.0",
			"api":       "/api/v1/directory",
			"health":    "/health",
			"websocket": "/ws",
		})
	})
}
