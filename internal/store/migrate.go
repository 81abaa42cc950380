package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/pressly/goose/v3"
)

// Schema migrations ship inside the binary, one directory per dialect.
//
//go:embed migrations/mysql/*.sql migrations/postgres/*.sql
var migrations embed.FS

// MigrationRecord describes one known migration and its applied state.
type MigrationRecord struct {
	Version   int64
	Name      string
	Source    string
	Applied   bool
	AppliedAt time.Time
}

// Migrator runs versioned schema migrations against a database.
type Migrator struct {
	db      *sql.DB
	dialect string
	dir     string
}

// NewMigrator configures goose for the given dialect over the embedded
// migration files.
func NewMigrator(db *sql.DB, dialect string) (*Migrator, error) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return &Migrator{
		db:      db,
		dialect: dialect,
		dir:     path.Join("migrations", dialect),
	}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up() error {
	if err := goose.Up(m.db, m.dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Down rolls back exactly one migration.
func (m *Migrator) Down() error {
	if err := goose.Down(m.db, m.dir); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Reset rolls back every migration, then reapplies all of them.
func (m *Migrator) Reset() error {
	if err := goose.Reset(m.db, m.dir); err != nil {
		return fmt.Errorf("failed to roll back to base: %w", err)
	}
	return m.Up()
}

// Version returns the current schema version, 0 when no migration has
// been applied.
func (m *Migrator) Version() (int64, error) {
	v, err := goose.GetDBVersion(m.db)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// History returns every known migration with its applied state, ordered
// by version.
func (m *Migrator) History(ctx context.Context) ([]MigrationRecord, error) {
	known, err := goose.CollectMigrations(m.dir, 0, goose.MaxVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to collect migrations: %w", err)
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]MigrationRecord, 0, len(known))
	for _, mig := range known {
		rec := MigrationRecord{
			Version: mig.Version,
			Name:    path.Base(mig.Source),
			Source:  mig.Source,
		}
		if at, ok := applied[mig.Version]; ok {
			rec.Applied = true
			rec.AppliedAt = at
		}
		records = append(records, rec)
	}
	return records, nil
}

// appliedVersions reads the goose version table. Rolled-back versions have
// no row, so presence means applied.
func (m *Migrator) appliedVersions(ctx context.Context) (map[int64]time.Time, error) {
	q := fmt.Sprintf(`SELECT version_id, tstamp FROM %s WHERE version_id > 0 AND is_applied = TRUE`, goose.TableName())
	rows, err := m.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration history: %w", err)
	}
	defer rows.Close()

	applied := make(map[int64]time.Time)
	for rows.Next() {
		var version int64
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("failed to scan migration history: %w", err)
		}
		applied[version] = at
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read migration history: %w", err)
	}
	return applied, nil
}

// Stamp records a migration version as applied without running it.
// The version must name a known migration and must not already be applied.
func (m *Migrator) Stamp(ctx context.Context, version int64) error {
	known, err := goose.CollectMigrations(m.dir, 0, goose.MaxVersion)
	if err != nil {
		return fmt.Errorf("failed to collect migrations: %w", err)
	}
	found := false
	for _, mig := range known {
		if mig.Version == version {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown migration version %d", version)
	}

	var count int
	q := rebind(m.dialect, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE version_id = ?`, goose.TableName()))
	if err := m.db.QueryRowContext(ctx, q, version).Scan(&count); err != nil {
		return fmt.Errorf("failed to check migration state: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("version %d is already applied", version)
	}

	q = rebind(m.dialect, fmt.Sprintf(`INSERT INTO %s (version_id, is_applied) VALUES (?, TRUE)`, goose.TableName()))
	if _, err := m.db.ExecContext(ctx, q, version); err != nil {
		return fmt.Errorf("failed to stamp version %d: %w", version, err)
	}
	return nil
}

// CreateMigration scaffolds a new timestamped SQL migration file in dir.
// The message becomes part of the file name.
func CreateMigration(dir, message string) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create migrations directory: %w", err)
	}
	if err := goose.Create(nil, dir, message, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}
	return nil
}
