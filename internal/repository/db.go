package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"codebot/internal/model"
)

const defaultDSN = "codebot.db"

// Database owns the gorm handle. It is built once at startup and shared by
// all repositories. While no connection is held every caller gets
// ErrStorageUnavailable instead of a nil handle.
type Database struct {
	dsn    string
	logger *zap.Logger

	mu sync.RWMutex
	db *gorm.DB
}

// NewDatabase prepares a Database for dsn without connecting.
func NewDatabase(dsn string, log *zap.Logger) *Database {
	if dsn == "" {
		dsn = defaultDSN
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Database{dsn: dsn, logger: log}
}

// Connect opens the SQLite database and runs migrations. A previously held
// connection is replaced and closed.
func (d *Database) Connect(ctx context.Context) error {
	db, err := open(ctx, d.dsn, d.logger)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	d.mu.Lock()
	prev := d.db
	d.db = db
	d.mu.Unlock()

	if prev != nil {
		closeGorm(prev)
	}
	d.logger.Info("database connected", zap.String("dsn", d.dsn))
	return nil
}

// Connected reports whether a handle is currently held.
func (d *Database) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db != nil
}

// Ping checks the held connection.
func (d *Database) Ping(ctx context.Context) error {
	db, err := d.session(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return wrap("ping", err)
	}
	return wrap("ping", sqlDB.PingContext(ctx))
}

// Close drops the connection. Subsequent calls fail with ErrStorageUnavailable
// until Connect succeeds again.
func (d *Database) Close() error {
	d.mu.Lock()
	db := d.db
	d.db = nil
	d.mu.Unlock()

	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) session(ctx context.Context) (*gorm.DB, error) {
	d.mu.RLock()
	db := d.db
	d.mu.RUnlock()
	if db == nil {
		return nil, ErrStorageUnavailable
	}
	return db.WithContext(ctx), nil
}

func open(ctx context.Context, dsn string, log *zap.Logger) (*gorm.DB, error) {
	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&model.Code{}, &model.User{}); err != nil {
		closeGorm(db)
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return db, nil
}

func closeGorm(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
