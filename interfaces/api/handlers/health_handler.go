package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"staff-directory/domain/services"
	"staff-directory/infrastructure/floormap"
	"staff-directory/infrastructure/redis"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db               *gorm.DB
	redisClient      *redis.RedisClient
	floorMapClient   *floormap.FloorMapClient
	directoryService services.DirectoryService
	rosterService    services.RosterService
}

// NewHealthHandler creates a new health handler. redisClient may be nil.
func NewHealthHandler(
	db *gorm.DB,
	redisClient *redis.RedisClient,
	floorMapClient *floormap.FloorMapClient,
	directoryService services.DirectoryService,
	rosterService services.RosterService,
) *HealthHandler {
	return &HealthHandler{
		db:               db,
		redisClient:      redisClient,
		floorMapClient:   floorMapClient,
		directoryService: directoryService,
		rosterService:    rosterService,
	}
}

// ComponentHealth represents health status of a component
type ComponentHealth struct {
	Status  string `json:"status"` // "ok", "error", "unavailable"
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// DetailedHealthResponse represents detailed health check response
type DetailedHealthResponse struct {
	Status     string                     `json:"status"` // "healthy", "degraded", "unhealthy"
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
	Metrics    *HealthMetrics             `json:"metrics,omitempty"`
}

// HealthMetrics describes the directory's in-memory state
type HealthMetrics struct {
	RosterSize      int    `json:"roster_size"`
	RosterSource    string `json:"roster_source"`
	RosterTruncated bool   `json:"roster_truncated"`
	OpenSessions    int    `json:"open_sessions"`
	CachedFloorMaps int    `json:"cached_floor_maps"`
}

// DetailedHealth godoc
// @Summary Get detailed system health
// @Description Returns detailed health status of all system components
// @Tags Health
// @Produce json
// @Success 200 {object} DetailedHealthResponse
// @Router /health/detailed [get]
func (h *HealthHandler) DetailedHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	response := DetailedHealthResponse{
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth),
	}

	allHealthy := true
	hasCriticalFailure := false

	dbHealth := h.checkDatabase(ctx)
	response.Components["database"] = dbHealth
	if dbHealth.Status != "ok" {
		hasCriticalFailure = true
	}

	redisHealth := h.checkRedis(ctx)
	response.Components["redis"] = redisHealth
	if redisHealth.Status == "error" {
		allHealthy = false
	}

	for id, floorHealth := range h.checkFloorMaps(ctx) {
		response.Components["floor_map_"+id] = floorHealth
		if floorHealth.Status == "error" {
			allHealthy = false
		}
	}

	response.Metrics = h.getMetrics()
	if response.Metrics != nil && response.Metrics.RosterTruncated {
		allHealthy = false
	}

	if hasCriticalFailure {
		response.Status = "unhealthy"
	} else if !allHealthy {
		response.Status = "degraded"
	} else {
		response.Status = "healthy"
	}

	statusCode := fiber.StatusOK
	if response.Status == "unhealthy" {
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) ComponentHealth {
	start := time.Now()

	if h.db == nil {
		return ComponentHealth{
			Status:  "error",
			Message: "Database not configured",
		}
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		return ComponentHealth{
			Status:  "error",
			Message: "Failed to get database connection: " + err.Error(),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return ComponentHealth{
			Status:  "error",
			Message: "Database ping failed: " + err.Error(),
		}
	}

	return ComponentHealth{
		Status:  "ok",
		Message: "Connected",
		Latency: time.Since(start).String(),
	}
}

func (h *HealthHandler) checkRedis(ctx context.Context) ComponentHealth {
	start := time.Now()

	if h.redisClient == nil {
		return ComponentHealth{
			Status:  "unavailable",
			Message: "Redis not configured",
		}
	}

	if err := h.redisClient.Ping(ctx); err != nil {
		return ComponentHealth{
			Status:  "error",
			Message: "Redis ping failed: " + err.Error(),
		}
	}

	return ComponentHealth{
		Status:  "ok",
		Message: "Connected",
		Latency: time.Since(start).String(),
	}
}

func (h *HealthHandler) checkFloorMaps(ctx context.Context) map[string]ComponentHealth {
	results := make(map[string]ComponentHealth)
	if h.directoryService == nil {
		return results
	}

	floors := h.directoryService.Floors()
	if len(floors) == 0 || h.floorMapClient == nil {
		results["none"] = ComponentHealth{
			Status:  "unavailable",
			Message: "No floor maps configured",
		}
		return results
	}

	for _, floor := range floors {
		start := time.Now()
		if err := h.floorMapClient.Probe(ctx, floor.AssetURL); err != nil {
			results[floor.ID] = ComponentHealth{
				Status:  "error",
				Message: "Floor map probe failed: " + err.Error(),
			}
			continue
		}
		results[floor.ID] = ComponentHealth{
			Status:  "ok",
			Message: floor.Label,
			Latency: time.Since(start).String(),
		}
	}
	return results
}

func (h *HealthHandler) getMetrics() *HealthMetrics {
	if h.directoryService == nil || h.rosterService == nil {
		return nil
	}

	status := h.rosterService.Status()
	return &HealthMetrics{
		RosterSize:      status.Size,
		RosterSource:    status.Source,
		RosterTruncated: status.Truncated,
		OpenSessions:    h.directoryService.SessionCount(),
		CachedFloorMaps: h.directoryService.CachedFloors(),
	}
}
