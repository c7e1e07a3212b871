package database

import (
	"context"
	"fmt"
	"time"

	coreport "github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/domain/port/core"
	"github.com/donkey-king-kong/CTGHackathon-25-Team11-sub001/internal/infrastructure/adapter/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connection holds the ledger database handle and its configuration
type Connection struct {
	db     *gorm.DB
	config *Config
	logger coreport.Logger
}

// NewConnection establishes a database connection with retries, configures
// the pool and verifies it with a ping
func NewConnection(config *Config, appLogger coreport.Logger, timeProvider coreport.TimeProvider) (*Connection, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database configuration: %w", err)
	}

	appLogger.Info("Connecting to database", map[string]any{
		"host": config.Host,
		"port": config.Port,
		"name": config.Database,
	})

	var db *gorm.DB
	var err error
	for attempt := 0; attempt <= config.RetryAttempts; attempt++ {
		if attempt > 0 {
			appLogger.Warn("Retrying database connection", map[string]any{
				"attempt": attempt + 1,
				"of":      config.RetryAttempts + 1,
			})
			time.Sleep(config.RetryDelay)
		}

		db, err = gorm.Open(postgres.Open(config.DSN()), &gorm.Config{
			Logger: NewDatabaseLogger(appLogger, config.LogLevel),
			NowFunc: func() time.Time {
				return timeProvider.Now()
			},
		})
		if err == nil {
			break
		}

		appLogger.Error("Failed to connect to database", map[string]any{
			"error":   err.Error(),
			"attempt": attempt + 1,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", config.RetryAttempts+1, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	appLogger.Info("Successfully connected to database", map[string]any{
		"host":           config.Host,
		"name":           config.Database,
		"max_open_conns": config.MaxOpenConns,
		"max_idle_conns": config.MaxIdleConns,
	})

	return &Connection{
		db:     db,
		config: config,
		logger: appLogger,
	}, nil
}

// Migrate creates or updates the donations table
func (c *Connection) Migrate() error {
	c.logger.Info("Running ledger migrations", nil)
	if err := c.db.AutoMigrate(&model.Donation{}); err != nil {
		return fmt.Errorf("failed to migrate donations table: %w", err)
	}
	return nil
}

// DB returns the GORM database instance
func (c *Connection) DB() *gorm.DB {
	return c.db
}

// Close closes the database connection
func (c *Connection) Close() error {
	c.logger.Info("Closing database connection", nil)
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}
