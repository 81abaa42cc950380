package store

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockMigrator(t *testing.T, dialect string) (*Migrator, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := NewMigrator(db, dialect)
	require.NoError(t, err)
	return m, mock
}

func TestNewMigratorUnknownDialect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewMigrator(db, "oracle")
	assert.Error(t, err)
}

func TestMigratorHistory(t *testing.T) {
	m, mock := newMockMigrator(t, "mysql")

	appliedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT version_id, tstamp FROM goose_db_version`).
		WillReturnRows(sqlmock.NewRows([]string{"version_id", "tstamp"}).
			AddRow(int64(1), appliedAt).
			AddRow(int64(2), appliedAt))

	records, err := m.History(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, int64(1), records[0].Version)
	assert.Equal(t, "00001_create_users_table.sql", records[0].Name)
	assert.True(t, records[0].Applied)
	assert.Equal(t, appliedAt, records[0].AppliedAt)

	assert.True(t, records[1].Applied)
	assert.False(t, records[2].Applied)
	assert.False(t, records[4].Applied)
	assert.Equal(t, int64(5), records[4].Version)
}

func TestMigratorStamp(t *testing.T) {
	m, mock := newMockMigrator(t, "mysql")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM goose_db_version WHERE version_id = ?`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO goose_db_version (version_id, is_applied) VALUES (?, TRUE)`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, m.Stamp(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigratorStampUnknownVersion(t *testing.T) {
	m, _ := newMockMigrator(t, "mysql")

	err := m.Stamp(context.Background(), 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration version")
}

func TestMigratorStampAlreadyApplied(t *testing.T) {
	m, mock := newMockMigrator(t, "mysql")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM goose_db_version WHERE version_id = ?`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := m.Stamp(context.Background(), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already applied")
}

func TestCreateMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "mysql")

	require.NoError(t, CreateMigration(dir, "add_notes_table"))

	matches, err := filepath.Glob(filepath.Join(dir, "*_add_notes_table.sql"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
