package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"staff-directory/interfaces/api/handlers"
)

func SetupWebSocketRoutes(app *fiber.App, h *handlers.Handlers) {
	app.Use("/ws", h.WebSocket.WebSocketUpgrade)
	app.Get("/ws", websocket.New(h.WebSocket.HandleWebSocket))
}
