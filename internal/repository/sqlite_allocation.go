package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ahenriksen/staffplan/internal/calweek"
	"github.com/ahenriksen/staffplan/internal/capacity"
	"github.com/ahenriksen/staffplan/internal/db"
	"github.com/ahenriksen/staffplan/internal/domain"
)

// SQLiteAllocationRepo implements AllocationRepo using a SQLite database.
type SQLiteAllocationRepo struct {
	db db.DBTX
}

// NewSQLiteAllocationRepo creates a new SQLiteAllocationRepo.
func NewSQLiteAllocationRepo(db db.DBTX) *SQLiteAllocationRepo {
	return &SQLiteAllocationRepo{db: db}
}

const allocationColumns = `id, phase_id, consultant_id, total_hours, status, created_at, updated_at`

func (r *SQLiteAllocationRepo) Create(ctx context.Context, a *domain.PhaseAllocation) error {
	query := `INSERT INTO phase_allocations (id, phase_id, consultant_id, total_hours, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.PhaseID,
		a.ConsultantID,
		a.TotalHours,
		string(a.Status),
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting allocation: %w", err)
	}
	return nil
}

func (r *SQLiteAllocationRepo) GetByID(ctx context.Context, id string) (*domain.PhaseAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM phase_allocations WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanAllocation(row.Scan)
}

func (r *SQLiteAllocationRepo) GetByPhaseAndConsultant(ctx context.Context, phaseID, consultantID string) (*domain.PhaseAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM phase_allocations WHERE phase_id = ? AND consultant_id = ?`
	row := r.db.QueryRowContext(ctx, query, phaseID, consultantID)
	return scanAllocation(row.Scan)
}

func (r *SQLiteAllocationRepo) ListByPhase(ctx context.Context, phaseID string) ([]*domain.PhaseAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM phase_allocations WHERE phase_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, phaseID)
	if err != nil {
		return nil, fmt.Errorf("listing allocations: %w", err)
	}
	defer rows.Close()

	var allocations []*domain.PhaseAllocation
	for rows.Next() {
		a, err := scanAllocation(rows.Scan)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating allocations: %w", err)
	}
	return allocations, nil
}

func (r *SQLiteAllocationRepo) Update(ctx context.Context, a *domain.PhaseAllocation) error {
	query := `UPDATE phase_allocations SET total_hours = ?, status = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		a.TotalHours,
		string(a.Status),
		a.UpdatedAt.Format(time.RFC3339),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating allocation: %w", err)
	}
	return nil
}

func (r *SQLiteAllocationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM phase_allocations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting allocation: %w", err)
	}
	return nil
}

func (r *SQLiteAllocationRepo) SumProjectAllocations(ctx context.Context, consultantID, projectID, excludePhaseID string) (float64, error) {
	query := `SELECT COALESCE(SUM(a.total_hours), 0)
		FROM phase_allocations a
		JOIN phases ph ON ph.id = a.phase_id
		WHERE a.consultant_id = ?
		  AND ph.project_id = ?
		  AND a.status NOT IN ('EXPIRED', 'FORFEITED')
		  AND (? = '' OR a.phase_id != ?)`
	var total float64
	err := r.db.QueryRowContext(ctx, query, consultantID, projectID, excludePhaseID, excludePhaseID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing project allocations: %w", err)
	}
	return total, nil
}

func (r *SQLiteAllocationRepo) SumApprovedByProject(ctx context.Context, projectID string) (float64, error) {
	query := `SELECT COALESCE(SUM(a.total_hours), 0)
		FROM phase_allocations a
		JOIN phases ph ON ph.id = a.phase_id
		WHERE ph.project_id = ? AND a.status = 'APPROVED'`
	var total float64
	if err := r.db.QueryRowContext(ctx, query, projectID).Scan(&total); err != nil {
		return 0, fmt.Errorf("summing approved allocations: %w", err)
	}
	return total, nil
}

func (r *SQLiteAllocationRepo) ListOverlapping(ctx context.Context, consultantIDs []string, start, end time.Time) ([]capacity.AllocationLoad, error) {
	if len(consultantIDs) == 0 {
		return nil, nil
	}

	query := `SELECT a.id, a.consultant_id, a.status, p.id, p.name
		FROM phase_allocations a
		JOIN phases ph ON ph.id = a.phase_id
		JOIN projects p ON p.id = ph.project_id
		WHERE a.consultant_id IN (` + placeholders(len(consultantIDs)) + `)
		  AND a.status NOT IN ('EXPIRED', 'FORFEITED')
		ORDER BY a.created_at`
	args := make([]any, len(consultantIDs))
	for i, id := range consultantIDs {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing overlapping allocations: %w", err)
	}
	defer rows.Close()

	var loads []capacity.AllocationLoad
	var allocIDs []string
	byAllocID := make(map[string]int)
	for rows.Next() {
		var allocID, statusStr string
		var load capacity.AllocationLoad
		if err := rows.Scan(&allocID, &load.ConsultantID, &statusStr, &load.ProjectID, &load.ProjectName); err != nil {
			return nil, fmt.Errorf("scanning allocation load: %w", err)
		}
		load.Status = domain.AllocationStatus(statusStr)
		byAllocID[allocID] = len(loads)
		loads = append(loads, load)
		allocIDs = append(allocIDs, allocID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating allocation loads: %w", err)
	}
	if len(loads) == 0 {
		return nil, nil
	}

	// Attach the weekly allocations that fall inside the queried range.
	// Week boundaries are normalized to ISO Mondays before comparing.
	firstWeek := calweek.FromDate(start).Start.Format(dateLayout)
	lastWeek := calweek.FromDate(end).Start.Format(dateLayout)

	weeklyQuery := `SELECT ` + weeklyColumnsAliased + `
		FROM weekly_allocations w
		WHERE w.allocation_id IN (` + placeholders(len(allocIDs)) + `)
		  AND w.week_start >= ? AND w.week_start <= ?
		ORDER BY w.week_start`
	weeklyArgs := make([]any, 0, len(allocIDs)+2)
	for _, id := range allocIDs {
		weeklyArgs = append(weeklyArgs, id)
	}
	weeklyArgs = append(weeklyArgs, firstWeek, lastWeek)

	weeklyRows, err := r.db.QueryContext(ctx, weeklyQuery, weeklyArgs...)
	if err != nil {
		return nil, fmt.Errorf("listing overlapping weeklies: %w", err)
	}
	defer weeklyRows.Close()

	for weeklyRows.Next() {
		w, err := scanWeekly(weeklyRows.Scan)
		if err != nil {
			return nil, err
		}
		idx, ok := byAllocID[w.AllocationID]
		if !ok {
			continue
		}
		loads[idx].Weeklies = append(loads[idx].Weeklies, *w)
	}
	if err := weeklyRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating overlapping weeklies: %w", err)
	}

	return loads, nil
}

func scanAllocation(scan func(dest ...any) error) (*domain.PhaseAllocation, error) {
	var a domain.PhaseAllocation
	var statusStr, createdAtStr, updatedAtStr string

	err := scan(&a.ID, &a.PhaseID, &a.ConsultantID, &a.TotalHours, &statusStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("allocation not found")
		}
		return nil, fmt.Errorf("scanning allocation: %w", err)
	}

	a.Status = domain.AllocationStatus(statusStr)

	var parseErr error
	a.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	a.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &a, nil
}
