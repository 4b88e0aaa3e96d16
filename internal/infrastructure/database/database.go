// Package database opens the gorm connection pool and owns the schema.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// Config describes the pool. DSN is a PostgreSQL URL or keyword string, or
// an SQLite location prefixed with "sqlite://" or "file:".
type Config struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        gormlogger.LogLevel
}

// GormConfig is used for every dialect so that table names, timestamps and
// error translation agree between PostgreSQL and SQLite.
func GormConfig(level gormlogger.LogLevel) *gorm.Config {
	if level == 0 {
		level = gormlogger.Warn
	}
	return &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         gormlogger.Default.LogMode(level),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}

// Connect opens the pool described by cfg. A missing PostgreSQL database is
// created first.
func Connect(ctx context.Context, cfg Config) (*gorm.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is empty")
	}
	if path, ok := sqliteDSN(dsn); ok {
		return ConnectSQLite(path, cfg.LogLevel)
	}

	if err := ensureDatabaseExists(ctx, dsn); err != nil {
		return nil, fmt.Errorf("ensure database: %w", err)
	}
	db, err := gorm.Open(postgres.Open(dsn), GormConfig(cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("retrieve sql db: %w", err)
	}
	tunePool(sqlDB, cfg)
	return db, nil
}

func tunePool(sqlDB *sql.DB, cfg Config) {
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}

// ConnectSQLite opens path with foreign keys on and a single connection,
// which keeps in-memory databases shared across a test.
func ConnectSQLite(path string, level gormlogger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(withForeignKeys(path)), GormConfig(level))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("retrieve sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func withForeignKeys(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=1"
	}
	return path + "?_foreign_keys=1"
}

func sqliteDSN(dsn string) (string, bool) {
	if path, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
		return path, true
	}
	if strings.HasPrefix(dsn, "file:") {
		return dsn, true
	}
	return "", false
}

// Ping reports whether the pool can reach the database.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ensureDatabaseExists connects to the maintenance database of a URL DSN
// and creates the target database when absent. Keyword DSNs are skipped.
func ensureDatabaseExists(ctx context.Context, dsn string) error {
	target, err := url.Parse(dsn)
	if err != nil || target.Scheme == "" {
		return nil
	}
	name := strings.TrimPrefix(target.Path, "/")
	if name == "" || name == "postgres" {
		return nil
	}

	admin := *target
	admin.Path = "/postgres"
	conn, err := sql.Open("postgres", admin.String())
	if err != nil {
		return err
	}
	defer conn.Close()

	var exists bool
	if err := conn.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", name).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = conn.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name))
	return err
}
