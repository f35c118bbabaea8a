package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	// ErrNotFound is returned when no row matches the query
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint
	ErrDuplicate = errors.New("duplicate record")
)

// Repository provides database operations
type Repository struct {
	db     *sql.DB
	driver string
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB, driver string) *Repository {
	return &Repository{db: db, driver: driver}
}

// Open connects to the database and checks that it is reachable
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Ping reports whether the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// rebind turns $n placeholders into ?n for sqlite
func (r *Repository) rebind(query string) string {
	if r.driver == DriverSQLite {
		return strings.ReplaceAll(query, "$", "?")
	}
	return query
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
