package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Admin     AdminConfig
	RateLimit RateLimitConfig
	Directory DirectoryConfig
	FloorMaps FloorMapConfig
}

type AppConfig struct {
	Name string `validate:"required"`
	Port string `validate:"required,numeric"`
	Env  string `validate:"oneof=development staging production test"`

	CorsOrigins string `validate:"required"`
}

type LogConfig struct {
	Dir     string
	Level   string `validate:"oneof=DEBUG INFO WARN ERROR"`
	Console bool
}

type DatabaseConfig struct {
	Host     string `validate:"required"`
	Port     string `validate:"required"`
	User     string
	Password string
	DBName   string `validate:"required"`
	SSLMode  string

	// How long startup retries the first connection before running degraded
	ConnectTimeout time.Duration `validate:"min=1s"`
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

type AdminConfig struct {
	Token string // Admin token for logs and roster refresh; empty disables those endpoints
}

type RateLimitConfig struct {
	Enabled       bool
	MaxRequests   int `validate:"min=1"`
	WindowSeconds int `validate:"min=1"`
}

type DirectoryConfig struct {
	// The store pages at 100 rows by default; the cap must cover the whole roster.
	RosterRowCap      int           `validate:"min=1"`
	RosterCacheTTL    time.Duration `validate:"min=0s"`
	RosterRefreshCron string        `validate:"required"`
	SeatElement       string        `validate:"required"` // Tag name of seat nodes in the floor maps
	HighlightClass    string        `validate:"required"`
}

type FloorMapConfig struct {
	Floor3URL    string        `validate:"omitempty,url"`
	Floor4URL    string        `validate:"omitempty,url"`
	FetchTimeout time.Duration `validate:"min=1ms"`
	Prefetch     bool
	WarmInterval time.Duration `validate:"min=1s"`
}

// LoadLogConfig reads only the logging settings, so the logger can start
// before the rest of the configuration is validated.
func LoadLogConfig() LogConfig {
	_ = godotenv.Load()
	return loadLogConfig()
}

func loadLogConfig() LogConfig {
	return LogConfig{
		Dir:     getEnv("LOG_DIR", "logs"),
		Level:   getEnv("LOG_LEVEL", "DEBUG"),
		Console: getEnvBool("LOG_CONSOLE", true),
	}
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists (optional for production)
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	config := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "Staff Directory"),
			Port: getEnv("APP_PORT", "3000"),
			Env:  getEnv("APP_ENV", "development"),

			CorsOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		},
		Log: loadLogConfig(),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "staff_directory"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),

			ConnectTimeout: getEnvDuration("DB_CONNECT_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			Enabled:  getEnvBool("REDIS_ENABLED", true),
		},
		Admin: AdminConfig{
			Token: getEnv("ADMIN_TOKEN", ""),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvBool("RATE_LIMIT_ENABLED", true),
			MaxRequests:   getEnvInt("RATE_LIMIT_MAX", 120),
			WindowSeconds: getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		},
		Directory: DirectoryConfig{
			RosterRowCap:      getEnvInt("ROSTER_ROW_CAP", 250),
			RosterCacheTTL:    getEnvDuration("ROSTER_CACHE_TTL", 30*time.Minute),
			RosterRefreshCron: getEnv("ROSTER_REFRESH_CRON", "*/15 * * * *"),
			SeatElement:       getEnv("SEAT_ELEMENT", "rect"),
			HighlightClass:    getEnv("SEAT_HIGHLIGHT_CLASS", "located-seat"),
		},
		FloorMaps: FloorMapConfig{
			Floor3URL:    getEnv("FLOOR3_MAP_URL", ""),
			Floor4URL:    getEnv("FLOOR4_MAP_URL", ""),
			FetchTimeout: getEnvDuration("FLOOR_MAP_FETCH_TIMEOUT", 15*time.Second),
			Prefetch:     getEnvBool("FLOOR_MAP_PREFETCH", true),
			WarmInterval: getEnvDuration("FLOOR_MAP_WARM_INTERVAL", 5*time.Minute),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the struct tags of the whole configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
