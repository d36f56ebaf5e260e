package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	maxRetries  = 5
	initialWait = 100 * time.Millisecond
	busyTimeout = 5000 // milliseconds
)

var ErrorSessionClosed = errors.New("session already closed")

type Options struct {
	URL    string
	Debug  bool
	Logger *zap.Logger
}

// DB владеет пулом соединений и выдаёт сессии на каждую единицу работы
type DB struct {
	gorm   *gorm.DB
	driver string
	logger *zap.Logger
	active atomic.Int64
}

// Open connects to the store named by opts.URL and verifies connectivity.
//
// Supported URLs:
//
//	postgres://... , postgresql://...   PostgreSQL (pgx)
//	sqlite:///relative.db               SQLite file relative to the working dir
//	sqlite:////abs/path.db              SQLite file with an absolute path
//	sqlite://                           in-memory SQLite
//	/path/to/file.db, :memory:          bare SQLite paths
func Open(ctx context.Context, opts Options) (*DB, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	dialector, driver, err := dialectorFor(opts.URL)
	if err != nil {
		return nil, err
	}

	logLevel := gormlogger.Silent
	if opts.Debug {
		logLevel = gormlogger.Info
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if driver == DriverSQLite {
		// SQLite допускает одного писателя, а :memory: живёт в рамках одного соединения
		sqlDB.SetMaxOpenConns(1)
	}

	db := &DB{gorm: gdb, driver: driver, logger: logger}

	if err := db.pingWithRetry(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Debug("database opened", zap.String("driver", driver))
	return db, nil
}

// AutoMigrate creates or extends the tables backing models.
func (db *DB) AutoMigrate(ctx context.Context, models ...any) error {
	if err := db.gorm.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func (db *DB) Driver() string {
	return db.driver
}

// ActiveSessions reports sessions that have been opened but not yet released.
func (db *DB) ActiveSessions() int64 {
	return db.active.Load()
}

func (db *DB) Close() error {
	sqlDB, err := db.gorm.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// Session begins a unit of work pinned to one pooled connection. Callers must
// release it with Close, which rolls back anything not committed.
func (db *DB) Session(ctx context.Context) (*Session, error) {
	tx := db.gorm.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin session: %w", tx.Error)
	}
	db.active.Add(1)
	return &Session{tx: tx, release: func() { db.active.Add(-1) }}, nil
}

func (db *DB) pingWithRetry(ctx context.Context) error {
	sqlDB, err := db.gorm.DB()
	if err != nil {
		return err
	}

	wait := initialWait
	for i := 0; i < maxRetries; i++ {
		if err = sqlDB.PingContext(ctx); err == nil {
			return nil
		}

		if i < maxRetries-1 {
			db.logger.Warn("database ping failed, retrying",
				zap.Int("attempt", i+1),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
			wait *= 2
		}
	}

	return fmt.Errorf("failed to ping database after %d retries: %w", maxRetries, err)
}

func dialectorFor(url string) (gorm.Dialector, string, error) {
	switch {
	case url == "":
		return nil, "", errors.New("database url is empty")
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), DriverPostgres, nil
	}

	path, err := sqlitePath(url)
	if err != nil {
		return nil, "", err
	}
	if err := ensureDir(path); err != nil {
		return nil, "", err
	}
	return sqlite.Open(sqliteDSN(path)), DriverSQLite, nil
}

// sqlitePath переводит sqlite:///path (три слэша: относительный путь, четыре: абсолютный) в путь к файлу
func sqlitePath(url string) (string, error) {
	if !strings.Contains(url, "://") {
		return url, nil
	}
	if !strings.HasPrefix(url, "sqlite://") {
		return "", fmt.Errorf("unsupported database url scheme: %q", url)
	}

	path := strings.TrimPrefix(url, "sqlite://")
	if path == "" {
		return ":memory:", nil
	}
	if !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("malformed sqlite url %q: expected sqlite:///<path>", url)
	}
	return strings.TrimPrefix(path, "/"), nil
}

func sqliteDSN(path string) string {
	if isMemory(path) {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d", path, sep, busyTimeout)
}

func ensureDir(path string) error {
	if isMemory(path) || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database dir: %w", err)
	}
	return nil
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
