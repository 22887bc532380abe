package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"staff-directory/domain/models"
	applogger "staff-directory/pkg/logger"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Debug    bool
}

// NewDatabase opens the connection pool without contacting the server; use
// WaitForDatabase to find out whether it is reachable.
func NewDatabase(config DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		config.Host, config.User, config.Password, config.DBName, config.Port, config.SSLMode)

	logLevel := logger.Warn
	if config.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:               logger.Default.LogMode(logLevel),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return db, nil
}

// WaitForDatabase pings the server with exponential backoff until it answers,
// maxElapsed passes or ctx is done.
func WaitForDatabase(ctx context.Context, db *gorm.DB, initialInterval, maxElapsed time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	// Configure exponential backoff
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = initialInterval
	bo.MaxElapsedTime = maxElapsed

	err = backoff.RetryNotify(func() error {
		return sqlDB.PingContext(ctx)
	}, backoff.WithContext(bo, ctx), func(err error, wait time.Duration) {
		applogger.Warn(applogger.CategoryDB, "connect_retry", "Database not reachable, retrying", map[string]interface{}{
			"error": err.Error(),
			"wait":  wait.String(),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	return nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.DirectoryUser{},
		&models.EmployeeEntry{},
	); err != nil {
		return fmt.Errorf("failed to run auto migrations: %w", err)
	}

	// Ordering the roster by the linked display name
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_employee_list_employee_id ON employee_list(employee_id)`).Error; err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}
