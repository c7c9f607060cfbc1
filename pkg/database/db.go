package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	DB      *gorm.DB
	once    sync.Once
	connErr error
)

// Connect opens the hosted project's Postgres database once per process.
// The DSN is the pooled connection string of the hosted backend.
func Connect(dsn string, debug bool) (*gorm.DB, error) {
	once.Do(func() {
		if dsn == "" {
			connErr = fmt.Errorf("database: DATABASE_URL is not set")
			return
		}

		cfg := &gorm.Config{}
		if !debug {
			cfg.Logger = logger.Default.LogMode(logger.Warn)
		}

		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN: dsn,
			// transaction poolers in front of hosted Postgres reject prepared statements
			PreferSimpleProtocol: true,
		}), cfg)
		if err != nil {
			connErr = fmt.Errorf("database: failed to connect: %w", err)
			return
		}

		sqlDB, sqlErr := db.DB()
		if sqlErr != nil {
			connErr = fmt.Errorf("database: %w", sqlErr)
			return
		}
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)

		log.Println("Connected to Postgres")
		DB = db
	})

	return DB, connErr
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// CountByStatus groups the rows of model by their status column.
func CountByStatus(ctx context.Context, db *gorm.DB, model any) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := db.WithContext(ctx).Model(model).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// IsNotFound reports gorm's missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
