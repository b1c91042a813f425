package database

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/gema-grades/internal/config"
	"github.com/noah-isme/gema-grades/internal/models"
)

// Open connects to the store selected by cfg.DatabaseDriver.
func Open(cfg config.Config, log zerolog.Logger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{Logger: gormLogger(log)}
	pool := PoolOptions{
		MaxOpen:     cfg.PoolSize,
		MaxIdle:     cfg.MaxIdleConns,
		MaxLifetime: cfg.ConnMaxLifetime,
	}

	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		return ConnectSQLite(cfg.SQLitePath, pool, gormConfig)
	case config.DriverPostgres:
		return ConnectPostgres(cfg.PostgresDSN(), pool, gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

// Migrate creates or updates the grades schema, foreign keys included.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close releases every pooled connection held by db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormLogger(log zerolog.Logger) logger.Interface {
	if log.GetLevel() <= zerolog.DebugLevel {
		return logger.Default.LogMode(logger.Info)
	}
	return logger.Default.LogMode(logger.Silent)
}
