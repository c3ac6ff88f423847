package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS consultants (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		budgeted_hours REAL NOT NULL DEFAULT 0,
		start_date     TEXT NOT NULL,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS sprints (
		id         TEXT PRIMARY KEY,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		number     INTEGER NOT NULL CHECK(number >= 0),
		start_date TEXT NOT NULL,
		end_date   TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(project_id, number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sprints_project ON sprints(project_id)`,

	`CREATE TABLE IF NOT EXISTS phases (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_kickoff  INTEGER NOT NULL DEFAULT 0,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_phases_project ON phases(project_id)`,

	`CREATE TABLE IF NOT EXISTS phase_sprints (
		phase_id  TEXT NOT NULL REFERENCES phases(id) ON DELETE CASCADE,
		sprint_id TEXT NOT NULL REFERENCES sprints(id) ON DELETE CASCADE,
		PRIMARY KEY (phase_id, sprint_id)
	)`,

	`CREATE TABLE IF NOT EXISTS phase_allocations (
		id            TEXT PRIMARY KEY,
		phase_id      TEXT NOT NULL REFERENCES phases(id) ON DELETE CASCADE,
		consultant_id TEXT NOT NULL REFERENCES consultants(id) ON DELETE CASCADE,
		total_hours   REAL NOT NULL DEFAULT 0 CHECK(total_hours >= 0),
		status        TEXT NOT NULL DEFAULT 'PENDING'
		              CHECK(status IN ('PENDING','APPROVED','REJECTED','EXPIRED','FORFEITED','DELETION_PENDING')),
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		UNIQUE(phase_id, consultant_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_allocations_phase ON phase_allocations(phase_id)`,
	`CREATE INDEX IF NOT EXISTS idx_allocations_consultant ON phase_allocations(consultant_id)`,

	`CREATE TABLE IF NOT EXISTS weekly_allocations (
		id             TEXT PRIMARY KEY,
		allocation_id  TEXT NOT NULL REFERENCES phase_allocations(id) ON DELETE CASCADE,
		week_start     TEXT NOT NULL,
		proposed_hours REAL NOT NULL DEFAULT 0 CHECK(proposed_hours >= 0),
		approved_hours REAL,
		status         TEXT NOT NULL DEFAULT 'PENDING'
		               CHECK(status IN ('PENDING','APPROVED','REJECTED','MODIFIED')),
		rationale      TEXT NOT NULL DEFAULT '',
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL,
		UNIQUE(allocation_id, week_start)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_weekly_allocation ON weekly_allocations(allocation_id)`,
	`CREATE INDEX IF NOT EXISTS idx_weekly_week ON weekly_allocations(week_start)`,

	`CREATE TABLE IF NOT EXISTS hour_change_requests (
		id                 TEXT PRIMARY KEY,
		allocation_id      TEXT NOT NULL REFERENCES phase_allocations(id) ON DELETE CASCADE,
		change_type        TEXT NOT NULL CHECK(change_type IN ('ADJUSTMENT','SHIFT')),
		status             TEXT NOT NULL DEFAULT 'PENDING'
		                   CHECK(status IN ('PENDING','APPROVED','REJECTED')),
		original_hours     REAL NOT NULL DEFAULT 0,
		requested_hours    REAL NOT NULL DEFAULT 0,
		shift_hours        REAL NOT NULL DEFAULT 0,
		from_consultant_id TEXT NOT NULL DEFAULT '',
		to_consultant_id   TEXT NOT NULL DEFAULT '',
		reason             TEXT NOT NULL,
		requested_by       TEXT NOT NULL DEFAULT '',
		resolved_by        TEXT NOT NULL DEFAULT '',
		resolved_at        TEXT,
		resolution_note    TEXT NOT NULL DEFAULT '',
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_change_requests_allocation ON hour_change_requests(allocation_id)`,
	`CREATE INDEX IF NOT EXISTS idx_change_requests_status ON hour_change_requests(status)`,
}
