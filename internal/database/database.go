// Package database opens the gorm connection for the configured driver and
// migrates the schema.
package database

import (
	"fmt"

	"boleteria/common"
	"boleteria/config"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{&common.User{}, &common.Event{}, &common.Ticket{}}
}

// Open connects to MySQL or SQLite depending on cfg.DBDriver, configures the
// pool and runs AutoMigrate.
func Open(cfg *config.Config, z *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		if cfg.DBUser == "" || cfg.DBName == "" {
			return nil, fmt.Errorf("missing required mysql environment variables")
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on&_busy_timeout=5000")
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(z, cfg),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.DBDriver == "sqlite" {
		// one writer keeps sqlite from returning SQLITE_BUSY under load
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.DBConnLifetime)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	z.Info("database connected", zap.String("driver", cfg.DBDriver))
	return db, nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// NewGormLogger routes gorm's SQL log through zap.
func NewGormLogger(z *zap.Logger, cfg *config.Config) logger.Interface {
	level := logger.Warn
	if !cfg.IsProduction() {
		level = logger.Info
	}
	return logger.New(zap.NewStdLog(z.Named("gorm")), logger.Config{
		SlowThreshold:             cfg.DBSlowThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
