package routes

import (
	"github.com/gofiber/fiber/v2"

	"staff-directory/interfaces/api/handlers"
	"staff-directory/interfaces/api/middleware"
)

func SetupDirectoryRoutes(router fiber.Router, h *handlers.Handlers, adminToken string) {
	directory := router.Group("/directory")

	directory.Get("/people", h.Directory.SearchPeople)
	directory.Get("/people/:id", h.Directory.GetPerson)
	directory.Get("/people/:id/location", h.Directory.GetLocation)
	directory.Get("/people/:id/seat-map", h.Directory.GetSeatMap)
	directory.Get("/floors", h.Directory.ListFloors)
	directory.Get("/roster", h.Directory.GetRosterStatus)
	directory.Post("/roster/refresh", middleware.AdminOnly(adminToken), h.Directory.RefreshRoster)
}
