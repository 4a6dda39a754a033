package database

import (
	"fmt"
	"time"

	"catalog-service/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the Postgres connection, configures pooling, and runs
// AutoMigrate for the given models. It retries because the database may
// still be starting when the service boots.
func Connect(cfg config.PostgresConfig, logger *zap.Logger, autoMigrateModels ...interface{}) (*gorm.DB, error) {
	dsn := cfg.DSN()

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			configurePool(db, logger)

			if len(autoMigrateModels) > 0 {
				if err := db.AutoMigrate(autoMigrateModels...); err != nil {
					return nil, fmt.Errorf("AutoMigrate failed: %w", err)
				}
			}

			logger.Info("Connected to Postgres",
				zap.String("host", cfg.Host),
				zap.String("db", cfg.DBName),
			)
			return db, nil
		}

		logger.Warn("Postgres not ready, retrying",
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
		time.Sleep(2 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to Postgres after retries: %w", err)
}

// configurePool applies the connection pool limits. When the underlying
// sql.DB is not reachable the limits are skipped with a warning; the
// connection itself still works.
func configurePool(db *gorm.DB, logger *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("Connection pool configuration skipped", zap.Error(err))
		return
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
}

// Close closes the underlying sql.DB.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
