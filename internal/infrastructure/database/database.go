package database

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/domain/platform/entities"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the configured database and brings its schema up to date
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(parseGormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	switch cfg.Driver {
	case DriverSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.Path), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		// one connection keeps ":memory:" databases shared and writes serialized
		sqlDB.SetMaxOpenConns(1)

		if err := db.AutoMigrate(entities.All()...); err != nil {
			return nil, fmt.Errorf("failed to auto migrate: %w", err)
		}
		return db, nil

	case DriverPostgres, "":
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
		)
		db, err := gorm.Open(postgres.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := RunMigrations(db, cfg); err != nil {
			return nil, err
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Checker reports database reachability for health checks
type Checker struct {
	db *gorm.DB
}

// NewChecker creates a database health checker
func NewChecker(db *gorm.DB) *Checker {
	return &Checker{db: db}
}

// Name returns the component name used in health reports
func (c *Checker) Name() string {
	return "database"
}

// Check pings the underlying connection pool
func (c *Checker) Check(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func parseGormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
