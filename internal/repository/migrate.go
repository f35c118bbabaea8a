package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies all pending schema migrations on a dedicated connection,
// which is closed before returning.
func Migrate(ctx context.Context, driver, dsn string) (err error) {
	db, err := Open(ctx, driver, dsn)
	if err != nil {
		return err
	}

	var target database.Driver
	switch driver {
	case DriverPostgres:
		target, err = postgres.WithInstance(db, &postgres.Config{})
	case DriverSQLite:
		target, err = sqlite.WithInstance(db, &sqlite.Config{})
	}
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to prepare migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		_ = target.Close()
		return fmt.Errorf("failed to load migrations for %s: %w", driver, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, target)
	if err != nil {
		_ = source.Close()
		_ = target.Close()
		return fmt.Errorf("failed to initialize migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err == nil {
			err = errors.Join(srcErr, dbErr)
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
