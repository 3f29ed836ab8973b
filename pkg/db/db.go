package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite3"
	DriverDuckDB   = "duckdb"
	DriverPostgres = "pgx"
)

// Drivers lists the accepted driver names.
var Drivers = []string{DriverSQLite, DriverDuckDB, DriverPostgres}

// DSN builds the connection string for path. Read-only DSNs refuse writes at
// the driver level where the driver supports it.
func DSN(driver, path string, readOnly bool) (string, error) {
	switch driver {
	case DriverSQLite:
		if path == ":memory:" {
			return path, nil
		}
		if !readOnly {
			return path, nil
		}
		return "file:" + path + "?mode=ro", nil
	case DriverDuckDB:
		if !readOnly || path == "" {
			return path, nil
		}
		return path + "?access_mode=read_only", nil
	case DriverPostgres:
		if !readOnly {
			return path, nil
		}
		if strings.Contains(path, "://") {
			sep := "?"
			if strings.Contains(path, "?") {
				sep = "&"
			}
			return path + sep + "default_transaction_read_only=on", nil
		}
		return strings.TrimSpace(path + " default_transaction_read_only=on"), nil
	default:
		return "", fmt.Errorf("unsupported driver %q", driver)
	}
}

// Open opens the lexicon store read-only and checks that it is reachable.
func Open(ctx context.Context, driver, path string) (*sql.DB, error) {
	return open(ctx, driver, path, true)
}

// OpenWritable opens the lexicon store for schema changes and fixtures.
func OpenWritable(ctx context.Context, driver, path string) (*sql.DB, error) {
	return open(ctx, driver, path, false)
}

func open(ctx context.Context, driver, path string, readOnly bool) (*sql.DB, error) {
	dsn, err := DSN(driver, path, readOnly)
	if err != nil {
		return nil, err
	}
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s store %s: %w", driver, path, err)
	}
	return conn, nil
}

// gooseDialect maps a driver name onto the goose dialect.
func gooseDialect(driver string) (string, error) {
	switch driver {
	case DriverSQLite:
		return "sqlite3", nil
	case DriverPostgres:
		return "postgres", nil
	default:
		return "", fmt.Errorf("migrations are not supported for driver %q", driver)
	}
}

// Migrate creates the frequency, pronunciation and features relations using
// the embedded migrations.
func Migrate(conn *sql.DB, driver string) error {
	dialect, err := gooseDialect(driver)
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.Up(conn, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// MigrationVersion returns the applied schema version.
func MigrationVersion(conn *sql.DB, driver string) (int64, error) {
	dialect, err := gooseDialect(driver)
	if err != nil {
		return 0, err
	}
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return 0, fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.GetDBVersion(conn)
}
