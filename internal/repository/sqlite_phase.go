package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ahenriksen/staffplan/internal/db"
	"github.com/ahenriksen/staffplan/internal/domain"
)

// SQLitePhaseRepo implements PhaseRepo using a SQLite database.
type SQLitePhaseRepo struct {
	db db.DBTX
}

// NewSQLitePhaseRepo creates a new SQLitePhaseRepo.
func NewSQLitePhaseRepo(db db.DBTX) *SQLitePhaseRepo {
	return &SQLitePhaseRepo{db: db}
}

const phaseColumns = `id, project_id, name, description, is_kickoff, start_date, end_date, created_at, updated_at`

func (r *SQLitePhaseRepo) Create(ctx context.Context, ph *domain.Phase) error {
	query := `INSERT INTO phases (id, project_id, name, description, is_kickoff, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		ph.ID,
		ph.ProjectID,
		ph.Name,
		ph.Description,
		boolToInt(ph.IsKickoff),
		ph.StartDate.Format(dateLayout),
		ph.EndDate.Format(dateLayout),
		ph.CreatedAt.Format(time.RFC3339),
		ph.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting phase: %w", err)
	}
	return nil
}

func (r *SQLitePhaseRepo) GetByID(ctx context.Context, id string) (*domain.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	ph, err := scanPhase(row.Scan)
	if err != nil {
		return nil, err
	}
	return ph, nil
}

func (r *SQLitePhaseRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases WHERE project_id = ? ORDER BY start_date, name`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing phases: %w", err)
	}
	defer rows.Close()

	var phases []*domain.Phase
	for rows.Next() {
		ph, err := scanPhase(rows.Scan)
		if err != nil {
			return nil, err
		}
		phases = append(phases, ph)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating phases: %w", err)
	}
	return phases, nil
}

func (r *SQLitePhaseRepo) Update(ctx context.Context, ph *domain.Phase) error {
	query := `UPDATE phases SET name = ?, description = ?, is_kickoff = ?, start_date = ?, end_date = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		ph.Name,
		ph.Description,
		boolToInt(ph.IsKickoff),
		ph.StartDate.Format(dateLayout),
		ph.EndDate.Format(dateLayout),
		ph.UpdatedAt.Format(time.RFC3339),
		ph.ID,
	)
	if err != nil {
		return fmt.Errorf("updating phase: %w", err)
	}
	return nil
}

func (r *SQLitePhaseRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM phases WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting phase: %w", err)
	}
	return nil
}

func (r *SQLitePhaseRepo) GetKickoff(ctx context.Context, projectID string) (*domain.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases WHERE project_id = ? AND is_kickoff = 1`
	row := r.db.QueryRowContext(ctx, query, projectID)
	ph, err := scanPhase(row.Scan)
	if err != nil {
		if err == errPhaseNotFound {
			return nil, nil
		}
		return nil, err
	}
	return ph, nil
}

func (r *SQLitePhaseRepo) SetSprints(ctx context.Context, phaseID string, sprintIDs []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM phase_sprints WHERE phase_id = ?`, phaseID); err != nil {
		return fmt.Errorf("clearing phase sprints: %w", err)
	}
	for _, sid := range sprintIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO phase_sprints (phase_id, sprint_id) VALUES (?, ?)`, phaseID, sid); err != nil {
			return fmt.Errorf("assigning sprint %s: %w", sid, err)
		}
	}
	return nil
}

func (r *SQLitePhaseRepo) ListSprints(ctx context.Context, phaseID string) ([]*domain.Sprint, error) {
	query := `SELECT s.id, s.project_id, s.number, s.start_date, s.end_date, s.created_at
		FROM sprints s
		JOIN phase_sprints ps ON ps.sprint_id = s.id
		WHERE ps.phase_id = ?
		ORDER BY s.number`
	rows, err := r.db.QueryContext(ctx, query, phaseID)
	if err != nil {
		return nil, fmt.Errorf("listing phase sprints: %w", err)
	}
	defer rows.Close()
	return collectSprints(rows)
}

var errPhaseNotFound = fmt.Errorf("phase not found")

func scanPhase(scan func(dest ...any) error) (*domain.Phase, error) {
	var ph domain.Phase
	var isKickoff int
	var startStr, endStr, createdAtStr, updatedAtStr string

	err := scan(&ph.ID, &ph.ProjectID, &ph.Name, &ph.Description, &isKickoff,
		&startStr, &endStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errPhaseNotFound
		}
		return nil, fmt.Errorf("scanning phase: %w", err)
	}

	ph.IsKickoff = intToBool(isKickoff)

	var parseErr error
	ph.StartDate, parseErr = time.Parse(dateLayout, startStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_date: %w", parseErr)
	}
	ph.EndDate, parseErr = time.Parse(dateLayout, endStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing end_date: %w", parseErr)
	}
	ph.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	ph.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &ph, nil
}
