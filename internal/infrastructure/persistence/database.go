package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/bizdesk/erp/internal/infrastructure/config"
	"github.com/bizdesk/erp/internal/infrastructure/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Database holds the gorm connection
type Database struct {
	DB *gorm.DB
}

// Options tune how the connection is opened
type Options struct {
	Logger   *zap.Logger
	LogLevel string
	Tracing  bool
}

// NewDatabase opens a PostgreSQL connection, configures the pool and verifies
// it with a ping
func NewDatabase(cfg *config.DatabaseConfig, opts Options) (*Database, error) {
	l := opts.Logger
	if l == nil {
		l = zap.NewNop()
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 logger.NewGormLogger(l, logger.GormLevel(opts.LogLevel), cfg.SlowThreshold),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.Tracing {
		if err := db.Use(otelgorm.NewPlugin(otelgorm.WithDBName(cfg.DBName))); err != nil {
			return nil, fmt.Errorf("failed to register tracing plugin: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

// Close closes the underlying pool
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks that the database answers
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// isPostgres reports whether db talks to PostgreSQL
func isPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
