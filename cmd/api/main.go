package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"staff-directory/interfaces/api/handlers"
	"staff-directory/interfaces/api/middleware"
	"staff-directory/interfaces/api/routes"
	"staff-directory/pkg/config"
	"staff-directory/pkg/di"
	"staff-directory/pkg/logger"
)

func main() {
	// Initialize logger before anything else can log
	logCfg := config.LoadLogConfig()
	if err := logger.Init(logCfg.Dir, logCfg.Console); err != nil {
		fmt.Printf("Warning: Failed to initialize logger: %v\n", err)
	}
	logger.Startup("logger_init", "Logger initialized", map[string]interface{}{"dir": logCfg.Dir})

	// Initialize DI container
	container := di.NewContainer()

	// Initialize all dependencies
	if err := container.Initialize(); err != nil {
		logger.StartupError("container_init_failed", "Failed to initialize container", err, nil)
		os.Exit(1)
	}

	cfg := container.GetConfig()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
		AppName:      cfg.App.Name,
	})

	// Setup graceful shutdown
	setupGracefulShutdown(app, container)

	// Setup middleware
	app.Use(middleware.RecoverMiddleware())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CorsMiddleware(cfg.App.CorsOrigins))
	app.Use(middleware.CompressMiddleware())

	// Create handlers from services
	h := handlers.NewHandlers(container.GetHandlerServices(), container.GetHandlerInfrastructure(), cfg)

	// Setup routes
	routes.SetupRoutes(app, h, cfg)

	// Start server
	port := cfg.App.Port
	logger.Startup("server_starting", "Server starting", map[string]interface{}{
		"port":        port,
		"environment": cfg.App.Env,
		"health":      fmt.Sprintf("http://localhost:%s/health", port),
		"api":         fmt.Sprintf("http://localhost:%s/api/v1/directory/people", port),
		"websocket":   fmt.Sprintf("ws://localhost:%s/ws", port),
		"logs_api":    fmt.Sprintf("http://localhost:%s/api/v1/admin/logs", port),
	})

	if err := app.Listen(":" + port); err != nil {
		logger.StartupError("server_failed", "Server failed to start", err, nil)
		os.Exit(1)
	}
}

func setupGracefulShutdown(app *fiber.App, container *di.Container) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Startup("shutdown_started", "Gracefully shutting down", nil)

		if err := app.Shutdown(); err != nil {
			logger.StartupError("server_shutdown_failed", "Error shutting down server", err, nil)
		}

		if err := container.Cleanup(); err != nil {
			logger.StartupError("cleanup_failed", "Error during cleanup", err, nil)
		}

		logger.Startup("shutdown_complete", "Shutdown complete", nil)
		os.Exit(0)
	}()
}
