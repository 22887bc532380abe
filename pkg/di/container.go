package di

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"staff-directory/application/overlay"
	"staff-directory/application/serviceimpl"
	"staff-directory/domain/directory"
	"staff-directory/domain/models"
	"staff-directory/domain/repositories"
	"staff-directory/domain/services"
	"staff-directory/infrastructure/floormap"
	"staff-directory/infrastructure/postgres"
	"staff-directory/infrastructure/redis"
	"staff-directory/infrastructure/websocket"
	"staff-directory/infrastructure/worker"
	"staff-directory/interfaces/api/handlers"
	"staff-directory/pkg/config"
	"staff-directory/pkg/logger"
	"staff-directory/pkg/scheduler"
)

const (
	rosterRefreshJobID   = "roster-refresh"
	rosterRefreshTimeout = time.Minute
	dbRetryInterval      = time.Second
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redis.RedisClient
	EventScheduler scheduler.EventScheduler
	FloorMapClient *floormap.FloorMapClient
	FloorMapWarmer *worker.FloorMapWarmer

	// Directory core
	LocationResolver *directory.LocationResolver
	DocumentCache    *overlay.DocumentCache

	// Repositories
	PersonRepository repositories.PersonRepository

	// Services
	RosterService    services.RosterService
	DirectoryService services.DirectoryService

	// Migrations wait until the database is reachable
	migrateMu sync.Mutex
	migrated  bool
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	c.initWorkers()
	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg

	logger.Default().SetLevel(logger.Level(cfg.Log.Level))
	logger.Startup("config_loaded", "Configuration loaded", map[string]interface{}{
		"env":            cfg.App.Env,
		"roster_row_cap": cfg.Directory.RosterRowCap,
		"redis_enabled":  cfg.Redis.Enabled,
	})
	return nil
}

func (c *Container) initInfrastructure() error {
	// Initialize Database
	dbConfig := postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
		Debug:    c.Config.App.Env == "development",
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db

	// An unreachable database degrades the roster to empty instead of failing startup
	if err := postgres.WaitForDatabase(context.Background(), db, dbRetryInterval, c.Config.Database.ConnectTimeout); err != nil {
		logger.StartupWarn("db_unavailable", "Database unreachable, starting with an empty roster", map[string]interface{}{"error": err.Error()})
	} else {
		logger.Startup("db_connected", "Database connected", nil)
		if err := c.ensureMigrated(); err != nil {
			return err
		}
	}

	// Initialize Redis; the roster falls back to the database without it
	if c.Config.Redis.Enabled {
		redisConfig := redis.RedisConfig{
			Host:     c.Config.Redis.Host,
			Port:     c.Config.Redis.Port,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		}
		c.RedisClient = redis.NewRedisClient(redisConfig)

		if err := c.RedisClient.Ping(context.Background()); err != nil {
			logger.StartupWarn("redis_connection_failed", "Redis connection failed", map[string]interface{}{"error": err.Error()})
		} else {
			logger.Startup("redis_connected", "Redis connected", nil)
		}
	} else {
		logger.StartupWarn("redis_disabled", "Redis disabled, roster cache off", nil)
	}

	c.FloorMapClient = floormap.NewFloorMapClient(c.Config.FloorMaps.FetchTimeout)

	c.LocationResolver = directory.NewLocationResolver(map[models.LocationClass]string{
		models.LocationFloor3: c.Config.FloorMaps.Floor3URL,
		models.LocationFloor4: c.Config.FloorMaps.Floor4URL,
	})
	floors := c.LocationResolver.Floors()
	if len(floors) == 0 {
		logger.StartupWarn("floor_maps_missing", "No floor map URLs configured, locate actions are disabled", nil)
	} else {
		ids := make([]string, 0, len(floors))
		for _, floor := range floors {
			ids = append(ids, floor.ID)
		}
		logger.Startup("floor_maps_configured", "Floor maps configured", map[string]interface{}{"floors": ids})
	}

	c.DocumentCache = overlay.NewDocumentCache(c.FloorMapClient)
	return nil
}

// ensureMigrated runs the migrations once the database has answered.
func (c *Container) ensureMigrated() error {
	c.migrateMu.Lock()
	defer c.migrateMu.Unlock()

	if c.migrated {
		return nil
	}
	if err := postgres.Migrate(c.DB); err != nil {
		return err
	}
	c.migrated = true
	logger.Startup("db_migrated", "Database migrated", nil)
	return nil
}

func (c *Container) initRepositories() error {
	c.PersonRepository = postgres.NewPersonRepository(c.DB)
	logger.Startup("repositories_initialized", "Repositories initialized", nil)
	return nil
}

func (c *Container) initServices() error {
	var rosterCache serviceimpl.RosterCache
	if c.RedisClient != nil {
		rosterCache = c.RedisClient
	}

	c.RosterService = serviceimpl.NewRosterService(
		c.PersonRepository,
		rosterCache,
		c.Config.Directory.RosterRowCap,
		c.Config.Directory.RosterCacheTTL,
	)

	c.DirectoryService = serviceimpl.NewDirectoryService(
		c.RosterService,
		c.LocationResolver,
		c.DocumentCache,
		overlay.HighlightOptions{
			SeatElement:    c.Config.Directory.SeatElement,
			HighlightClass: c.Config.Directory.HighlightClass,
		},
	)

	// Warm the roster so the first session does not wait on the store
	roster := c.RosterService.Roster(context.Background())
	logger.Startup("services_initialized", "Services initialized", map[string]interface{}{"roster_size": len(roster)})
	return nil
}

func (c *Container) initScheduler() error {
	cronExpr := c.Config.Directory.RosterRefreshCron
	if err := scheduler.ValidateCronExpression(cronExpr); err != nil {
		return err
	}

	c.EventScheduler = scheduler.NewEventScheduler()

	err := c.EventScheduler.AddJob(rosterRefreshJobID, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), rosterRefreshTimeout)
		defer cancel()

		if err := c.ensureMigrated(); err != nil {
			logger.SchedulerError("migration_failed", "Database still unavailable", err, nil)
			return
		}

		roster, err := c.RosterService.Refresh(ctx)
		if err != nil {
			logger.SchedulerError("roster_refresh_failed", "Scheduled roster refresh failed", err, nil)
			return
		}
		logger.Scheduler("roster_refresh_done", "Scheduled roster refresh completed", map[string]interface{}{"size": len(roster)})
	})
	if err != nil {
		return err
	}

	c.EventScheduler.Start()
	logger.Startup("scheduler_started", "Roster refresh scheduled", map[string]interface{}{"cron": cronExpr})
	return nil
}

func (c *Container) initWorkers() {
	floors := c.LocationResolver.Floors()
	if !c.Config.FloorMaps.Prefetch || len(floors) == 0 {
		logger.Startup("floor_map_prefetch_skipped", "Floor map prefetch disabled", nil)
		return
	}

	c.FloorMapWarmer = worker.NewFloorMapWarmer(c.DocumentCache, floors, c.Config.FloorMaps.WarmInterval)
	c.FloorMapWarmer.Start()
}

func (c *Container) Cleanup() error {
	logger.Startup("cleanup_started", "Starting cleanup...", nil)

	// Stop floor map warmer
	if c.FloorMapWarmer != nil && c.FloorMapWarmer.IsRunning() {
		c.FloorMapWarmer.Stop()
		logger.Startup("floor_map_warmer_stopped", "Floor map warmer stopped", nil)
	}

	// Stop scheduler
	if c.EventScheduler != nil {
		if c.EventScheduler.IsRunning() {
			c.EventScheduler.Stop()
			logger.Startup("scheduler_stopped", "Event scheduler stopped", nil)
		} else {
			logger.Startup("scheduler_already_stopped", "Event scheduler was already stopped", nil)
		}
	}

	// Dispose sessions, then drop their connections
	if c.DirectoryService != nil {
		c.DirectoryService.Shutdown()
	}
	websocket.Manager.CloseAll()

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.StartupWarn("redis_close_failed", "Failed to close Redis connection", map[string]interface{}{"error": err.Error()})
		} else {
			logger.Startup("redis_closed", "Redis connection closed", nil)
		}
	}

	// Close database connection
	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.StartupWarn("db_close_failed", "Failed to close database connection", map[string]interface{}{"error": err.Error()})
			} else {
				logger.Startup("db_closed", "Database connection closed", nil)
			}
		}
	}

	logger.Startup("cleanup_completed", "Cleanup completed", nil)
	logger.Default().Close()
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		DirectoryService: c.DirectoryService,
		RosterService:    c.RosterService,
	}
}

func (c *Container) GetHandlerInfrastructure() *handlers.Infrastructure {
	return &handlers.Infrastructure{
		DB:             c.DB,
		RedisClient:    c.RedisClient,
		FloorMapClient: c.FloorMapClient,
	}
}
