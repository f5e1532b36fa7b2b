package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing/fstest"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var migrationFiles embed.FS

// prefixToken is replaced with the environment's table prefix when the
// embedded migration files are rendered.
const prefixToken = "{{prefix}}"

// MigrateUp runs all pending migrations to bring the database to the latest
// version. Table names in the embedded SQL are rendered with the given
// prefix, so each environment (dev_, test_, prod_) migrates its own tables
// and keeps its own schema version table.
func MigrateUp(db *sql.DB, tablePrefix string) error {
	m, err := newMigrate(db, tablePrefix)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	// Note: m is not closed here because that would close the db connection.
	// The caller owns the db.

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// newMigrate creates a migrate instance over the rendered migration files.
func newMigrate(db *sql.DB, tablePrefix string) (*migrate.Migrate, error) {
	rendered, err := renderFiles(tablePrefix)
	if err != nil {
		return nil, err
	}

	sourceDriver, err := iofs.New(rendered, ".")
	if err != nil {
		return nil, fmt.Errorf("create source driver: %w", err)
	}

	dbDriver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{
		MigrationsTable: tablePrefix + "schema_migrations",
	})
	if err != nil {
		sourceDriver.Close()
		return nil, fmt.Errorf("create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "pgx5", dbDriver)
	if err != nil {
		sourceDriver.Close()
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	return m, nil
}

// renderFiles substitutes the table prefix into every embedded migration and
// returns them as an in-memory filesystem for the iofs source driver.
func renderFiles(tablePrefix string) (fs.FS, error) {
	entries, err := fs.ReadDir(migrationFiles, "files")
	if err != nil {
		return nil, fmt.Errorf("read migration files: %w", err)
	}

	rendered := fstest.MapFS{}
	for _, entry := range entries {
		data, err := fs.ReadFile(migrationFiles, "files/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		rendered[entry.Name()] = &fstest.MapFile{
			Data: []byte(strings.ReplaceAll(string(data), prefixToken, tablePrefix)),
		}
	}

	return rendered, nil
}
