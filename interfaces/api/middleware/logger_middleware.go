package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"

	"staff-directory/pkg/logger"
)

// LoggerMiddleware writes one api log entry per request.
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// The upgrade request stays open for the whole session.
		if strings.HasPrefix(c.Path(), "/ws") {
			return err
		}

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		data := map[string]interface{}{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.IP(),
		}
		if status >= fiber.StatusInternalServerError {
			logger.Warn(logger.CategoryAPI, "request", "Request failed", data)
		} else {
			logger.API("request", "Request handled", data)
		}
		return err
	}
}

// CorsMiddleware allows the configured origins to call the API.
func CorsMiddleware(allowOrigins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Admin-Token",
		AllowMethods: "GET, POST, OPTIONS",
	})
}

func RecoverMiddleware() fiber.Handler {
	return fiberrecover.New()
}

// CompressMiddleware compresses responses; floor maps are large text documents.
func CompressMiddleware() fiber.Handler {
	return compress.New(compress.Config{Level: compress.LevelBestSpeed})
}
