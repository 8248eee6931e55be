package db

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"lovemirror-backend/internal/config"
	"lovemirror-backend/internal/model"
	"lovemirror-backend/utilities"
)

// Open connects to postgres with the pool settings from cfg and routes gorm
// logging through log.
func Open(cfg *config.APIConfig, log *zap.Logger) (*gorm.DB, error) {
	gormLogger := utilities.NewGormZapLogger(log, cfg.Logging.SQLLevel)

	conn, err := gorm.Open(postgres.Open(cfg.DB.DSN(cfg.Context.TimeZone)), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to access connection pool")
	}
	pool := cfg.DB.Pool
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.Lifetime())
	}

	log.Info("database connection established",
		zap.String("host", cfg.DB.Host),
		zap.String("database", cfg.DB.Names.LoveMirror),
	)
	return conn, nil
}

// Migrate creates or updates every table and the indexes gorm does not
// derive from struct tags.
func Migrate(ctx context.Context, conn *gorm.DB, log *zap.Logger) error {
	tx := conn.WithContext(ctx)
	if err := tx.AutoMigrate(model.All()...); err != nil {
		return errors.Wrap(err, "failed to run database migrations")
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_history_user_type_completed ON assessment_histories (user_id, assessment_type, completed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_compat_relationship_date ON compatibility_scores (relationship_id, analysis_date DESC)`,
	}
	for _, stmt := range indexes {
		if err := tx.Exec(stmt).Error; err != nil {
			return errors.Wrap(err, "failed to create index")
		}
	}

	log.Info("database migrations completed")
	return nil
}

// Ping checks the connection, for health probes.
func Ping(ctx context.Context, conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return errors.Wrap(err, "failed to access connection pool")
	}
	return errors.Wrap(sqlDB.PingContext(ctx), "database ping failed")
}
