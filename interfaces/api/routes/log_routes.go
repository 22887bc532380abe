package routes

import (
	"github.com/gofiber/fiber/v2"

	"staff-directory/interfaces/api/handlers"
	"staff-directory/interfaces/api/middleware"
)

// SetupLogRoutes sets up log-related routes
func SetupLogRoutes(router fiber.Router, h *handlers.Handlers, adminToken string) {
	// Admin token in the X-Admin-Token header or the token query param
	admin := router.Group("/admin", middleware.AdminOnly(adminToken))

	admin.Get("/logs", h.Log.GetLogs)
	admin.Get("/logs/files", h.Log.GetLogFiles)
	admin.Get("/logs/stats", h.Log.GetLogStats)
}
