package handlers

import (
	"gorm.io/gorm"

	"staff-directory/domain/services"
	"staff-directory/infrastructure/floormap"
	"staff-directory/infrastructure/redis"
	websocketHandler "staff-directory/interfaces/api/websocket"
	"staff-directory/pkg/config"
)

// Services contains all the services needed for handlers
type Services struct {
	DirectoryService services.DirectoryService
	RosterService    services.RosterService
}

// Infrastructure contains the clients the health checks probe
type Infrastructure struct {
	DB             *gorm.DB
	RedisClient    *redis.RedisClient
	FloorMapClient *floormap.FloorMapClient
}

// Handlers contains all HTTP handlers
type Handlers struct {
	DirectoryHandler *DirectoryHandler
	HealthHandler    *HealthHandler
	LogHandler       *LogHandler
	WebSocketHandler *websocketHandler.WebSocketHandler

	// Short accessors for routes
	Directory *DirectoryHandler
	Health    *HealthHandler
	Log       *LogHandler
	WebSocket *websocketHandler.WebSocketHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(services *Services, infra *Infrastructure, cfg *config.Config) *Handlers {
	directoryHandler := NewDirectoryHandler(services.DirectoryService, services.RosterService)
	logHandler := NewLogHandler()
	wsHandler := websocketHandler.NewWebSocketHandler(services.DirectoryService)

	var healthHandler *HealthHandler
	if infra != nil {
		healthHandler = NewHealthHandler(infra.DB, infra.RedisClient, infra.FloorMapClient, services.DirectoryService, services.RosterService)
	}

	return &Handlers{
		DirectoryHandler: directoryHandler,
		HealthHandler:    healthHandler,
		LogHandler:       logHandler,
		WebSocketHandler: wsHandler,

		// Short accessors
		Directory: directoryHandler,
		Health:    healthHandler,
		Log:       logHandler,
		WebSocket: wsHandler,
	}
}
