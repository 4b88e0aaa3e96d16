package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	iofs "github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/janhq/qa-api/internal/infrastructure/database/entities"
	"github.com/janhq/qa-api/migrations"
)

const migrationsTable = "schema_migrations"

// ErrDirtySchema is returned when a previous migration stopped half way.
// The schema has to be repaired by hand before the service can start.
var ErrDirtySchema = errors.New("database schema is dirty")

// AutoMigrate brings the schema up to date. PostgreSQL runs the embedded SQL
// migrations; other dialects (SQLite in tests) sync from the entities.
func AutoMigrate(ctx context.Context, gormDB *gorm.DB, log zerolog.Logger) error {
	dialect := gormDB.Dialector.Name()
	if dialect != "postgres" {
		log.Debug().Str("dialect", dialect).Msg("syncing schema from entities")
		return gormDB.WithContext(ctx).AutoMigrate(&entities.Conversation{}, &entities.ChatHistory{})
	}

	migrator, closeMigrator, err := newMigrator(ctx, gormDB)
	if err != nil {
		return err
	}
	defer closeMigrator()
	return applyMigrations(migrator, log)
}

// newMigrator pins one pooled connection for the lifetime of the migrator.
func newMigrator(ctx context.Context, gormDB *gorm.DB) (*migrate.Migrate, func(), error) {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve sql db: %w", err)
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire migration connection: %w", err)
	}
	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{MigrationsTable: migrationsTable})
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("init postgres migration driver: %w", err)
	}
	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		_ = driver.Close()
		return nil, nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()
		return nil, nil, fmt.Errorf("create migrator: %w", err)
	}
	return migrator, func() { _, _ = migrator.Close() }, nil
}

func applyMigrations(migrator *migrate.Migrate, log zerolog.Logger) error {
	before, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Info().Msg("empty schema, applying all migrations")
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case dirty:
		return fmt.Errorf("%w at version %d", ErrDirtySchema, before)
	}

	err = migrator.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Uint("version", before).Msg("schema up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	after, _, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	log.Info().Uint("from", before).Uint("to", after).Msg("schema migrated")
	return nil
}
