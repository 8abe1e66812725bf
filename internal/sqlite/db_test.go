package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", "activity_log").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count, "activity_log not found")
}

// TestMigrationsAreRepeatable verifies a journal file can be reopened
func TestMigrationsAreRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	for i := 0; i < 2; i++ {
		db, err := New(path)
		require.NoError(t, err)
		require.NoError(t, db.RunMigrations())
		require.NoError(t, db.Close())
	}
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestActivityLogTable verifies the activity_log defaults
func TestActivityLogTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO activity_log (session_id, activity_type, summary) VALUES (?, ?, ?)`,
		"s1", "dataset_loaded", "loaded")
	require.NoError(t, err)

	var createdAt string
	var path, details *string
	err = db.QueryRowContext(ctx,
		`SELECT created_at, path, details FROM activity_log WHERE session_id = ?`, "s1").
		Scan(&createdAt, &path, &details)
	require.NoError(t, err)
	require.NotEmpty(t, createdAt)
	require.Nil(t, path)
	require.Nil(t, details)

	_, err = db.ExecContext(ctx,
		`INSERT INTO activity_log (activity_type, summary) VALUES (?, ?)`, "prediction", "x")
	require.Error(t, err, "session_id is required")
}
