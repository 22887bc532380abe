package handlers

import (
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"

	"staff-directory/pkg/logger"
)

// LogHandler handles log-related API requests. Routes are guarded by the
// admin token middleware.
type LogHandler struct{}

func NewLogHandler() *LogHandler {
	return &LogHandler{}
}

// GetLogs returns log entries
// @Summary Get application logs
// @Tags Admin
// @Security AdminToken
// @Param lines query int false "Number of lines" default(100)
// @Param level query string false "Filter by level (DEBUG, INFO, WARN, ERROR)"
// @Param category query string false "Filter by category (startup, api, db, roster, floormap, overlay, websocket, scheduler)"
// @Param search query string false "Search in message/action"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/logs [get]
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	// Parse options
	opts := logger.ReadLogsOptions{
		Lines:    c.QueryInt("lines", 100),
		Level:    logger.Level(c.Query("level")),
		Category: logger.Category(c.Query("category")),
		Search:   c.Query("search"),
	}

	// Read logs
	entries, err := logger.ReadLogs(opts)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"entries": entries,
			"count":   len(entries),
			"filters": fiber.Map{
				"lines":    opts.Lines,
				"level":    opts.Level,
				"category": opts.Category,
				"search":   opts.Search,
			},
		},
	})
}

// GetLogFiles returns list of log files
// @Summary List log files
// @Tags Admin
// @Security AdminToken
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/logs/files [get]
func (h *LogHandler) GetLogFiles(c *fiber.Ctx) error {
	files, err := logger.ListLogFiles()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"files":  files,
			"logDir": logger.GetLogDir(),
		},
	})
}

// GetLogStats returns log statistics
// @Summary Get log statistics
// @Tags Admin
// @Security AdminToken
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/logs/stats [get]
func (h *LogHandler) GetLogStats(c *fiber.Ctx) error {
	// Get all logs for today
	allLogs, _ := logger.ReadLogs(logger.ReadLogsOptions{Lines: 1000})

	// Count by level
	levelCounts := map[string]int{
		"DEBUG": 0,
		"INFO":  0,
		"WARN":  0,
		"ERROR": 0,
	}

	// Count by category
	categoryCounts := map[string]int{}

	for _, entry := range allLogs {
		levelCounts[string(entry.Level)]++
		categoryCounts[string(entry.Category)]++
	}

	// Get log directory size
	var totalSize int64
	files, _ := logger.ListLogFiles()
	logDir := logger.GetLogDir()
	for _, f := range files {
		if info, err := os.Stat(filepath.Join(logDir, f)); err == nil {
			totalSize += info.Size()
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_entries":    len(allLogs),
			"by_level":         levelCounts,
			"by_category":      categoryCounts,
			"total_files":      len(files),
			"total_size_bytes": totalSize,
		},
	})
}
