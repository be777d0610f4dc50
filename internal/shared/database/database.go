package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps both GORM and the underlying sql.DB
type DB struct {
	*sql.DB
	GORM *gorm.DB
}

// zerologWriter routes gorm's logger through zerolog
type zerologWriter struct {
	logger zerolog.Logger
}

func (w zerologWriter) Printf(format string, args ...interface{}) {
	w.logger.Debug().Msgf(format, args...)
}

// NewGormLogger builds a gorm logger that writes through zerolog
func NewGormLogger(level logger.LogLevel) logger.Interface {
	return logger.New(zerologWriter{logger: log.With().Str("component", "gorm").Logger()}, logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// NewDB opens the Postgres connection and verifies it with a ping
func NewDB(connStr string, debug bool) (*DB, error) {
	if connStr == "" {
		return nil, errors.New("DATABASE_URL is empty")
	}

	level := logger.Warn
	if debug {
		level = logger.Info
	}

	gormDB, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: NewGormLogger(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return Wrap(gormDB)
}

// Wrap configures the pool of an existing gorm handle and pings it
func Wrap(gormDB *gorm.DB) (*DB, error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().Msg("Database connected (GORM)")
	return &DB{
		DB:   sqlDB,
		GORM: gormDB,
	}, nil
}

func (db *DB) Close() error {
	log.Info().Msg("Closing database connection")
	return db.DB.Close()
}
