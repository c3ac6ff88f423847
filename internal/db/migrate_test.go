package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_FreshDatabase(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	for _, table := range []string{
		"consultants", "projects", "sprints", "phases",
		"phase_sprints", "phase_allocations", "weekly_allocations",
		"hour_change_requests",
	} {
		var name string
		err := database.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		assert.NoError(t, err, "table %s missing", table)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	assert.NoError(t, Migrate(database))
	assert.NoError(t, Migrate(database))
}

func TestMigrate_StatusCheckConstraint(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`INSERT INTO consultants (id, name, created_at) VALUES ('c1', 'Ada', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO projects (id, name, budgeted_hours, start_date, created_at, updated_at)
		VALUES ('p1', 'Alpha', 100, '2026-01-05', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO phases (id, project_id, name, start_date, end_date, created_at, updated_at)
		VALUES ('ph1', 'p1', 'Build', '2026-01-05', '2026-02-01', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = database.Exec(`INSERT INTO phase_allocations (id, phase_id, consultant_id, total_hours, status, created_at, updated_at)
		VALUES ('a1', 'ph1', 'c1', 10, 'SOMETHING_ELSE', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "unknown status must be rejected by CHECK constraint")
}
