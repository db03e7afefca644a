package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// MigrationsFS should be set by the migrations package to embed migration
// files, so they travel inside the binary:
//
//	//go:embed *.sql
//	var migrationsFS embed.FS
//
//	func init() {
//	    database.MigrationsFS = migrationsFS
//	}
var MigrationsFS embed.FS

// MigrationsDir is the directory within MigrationsFS containing migration
// files; "." when the files sit at the root of the embedded filesystem.
var MigrationsDir = "."

// Migration is one schema migration, parsed from a filename of the form
// YYYYMMDD_HHMMSS_description.up.sql.
type Migration struct {
	Version string // YYYYMMDD_HHMMSS
	Name    string // description
	UpSQL   string
}

// Migrate applies all pending migrations in version order, each in its own
// transaction. A failing migration is rolled back and stops the run; earlier
// migrations stay committed, and re-running Migrate continues from the
// failure.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
	); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return fmt.Errorf("getting applied migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := db.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("applying migration %s (%s): %w", m.Version, m.Name, err)
		}
	}
	return nil
}

// appliedVersions returns the set of versions recorded in schema_migrations.
func (db *DB) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// applyMigration runs one migration and records it, atomically.
func (db *DB) applyMigration(ctx context.Context, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is a no-op after commit

	if _, err := tx.ExecContext(ctx, m.UpSQL); err != nil {
		return fmt.Errorf("executing up SQL: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version) VALUES (?)", m.Version,
	); err != nil {
		return fmt.Errorf("recording migration: %w", err)
	}
	return tx.Commit()
}

// loadMigrations reads every *.up.sql file from the embedded filesystem and
// returns them sorted by version.
func loadMigrations() ([]Migration, error) {
	entries, err := fs.ReadDir(MigrationsFS, MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".up.sql") {
			continue
		}

		version, desc, err := parseMigrationName(name)
		if err != nil {
			return nil, err
		}

		data, err := fs.ReadFile(MigrationsFS, path.Join(MigrationsDir, name))
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", name, err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    desc,
			UpSQL:   string(data),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// parseMigrationName splits YYYYMMDD_HHMMSS_description.up.sql into its
// version and description.
func parseMigrationName(name string) (version, desc string, err error) {
	base := strings.TrimSuffix(name, ".up.sql")
	parts := strings.SplitN(base, "_", 3)
	if len(parts) < 3 {
		return "", "", fmt.Errorf("malformed migration filename %q", name)
	}
	return parts[0] + "_" + parts[1], parts[2], nil
}
