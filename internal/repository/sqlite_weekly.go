package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ahenriksen/staffplan/internal/db"
	"github.com/ahenriksen/staffplan/internal/domain"
)

// SQLiteWeeklyRepo implements WeeklyRepo using a SQLite database.
type SQLiteWeeklyRepo struct {
	db db.DBTX
}

// NewSQLiteWeeklyRepo creates a new SQLiteWeeklyRepo.
func NewSQLiteWeeklyRepo(db db.DBTX) *SQLiteWeeklyRepo {
	return &SQLiteWeeklyRepo{db: db}
}

// weeklyColumns is the canonical SELECT column list for weekly_allocations.
const weeklyColumns = `id, allocation_id, week_start, proposed_hours, approved_hours, status, rationale, created_at, updated_at`

// weeklyColumnsAliased is the same column list prefixed with "w." for join queries.
const weeklyColumnsAliased = `w.id, w.allocation_id, w.week_start, w.proposed_hours, w.approved_hours, w.status, w.rationale, w.created_at, w.updated_at`

func (r *SQLiteWeeklyRepo) Create(ctx context.Context, w *domain.WeeklyAllocation) error {
	query := `INSERT INTO weekly_allocations (id, allocation_id, week_start, proposed_hours, approved_hours, status, rationale, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.AllocationID,
		w.WeekStart.Format(dateLayout),
		w.ProposedHours,
		nullableFloatToValue(w.ApprovedHours),
		string(w.Status),
		w.Rationale,
		w.CreatedAt.Format(time.RFC3339),
		w.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting weekly allocation: %w", err)
	}
	return nil
}

func (r *SQLiteWeeklyRepo) GetByID(ctx context.Context, id string) (*domain.WeeklyAllocation, error) {
	query := `SELECT ` + weeklyColumns + ` FROM weekly_allocations WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return scanWeekly(row.Scan)
}

func (r *SQLiteWeeklyRepo) ListByAllocation(ctx context.Context, allocationID string) ([]*domain.WeeklyAllocation, error) {
	query := `SELECT ` + weeklyColumns + ` FROM weekly_allocations WHERE allocation_id = ? ORDER BY week_start`
	rows, err := r.db.QueryContext(ctx, query, allocationID)
	if err != nil {
		return nil, fmt.Errorf("listing weekly allocations: %w", err)
	}
	defer rows.Close()

	var weeklies []*domain.WeeklyAllocation
	for rows.Next() {
		w, err := scanWeekly(rows.Scan)
		if err != nil {
			return nil, err
		}
		weeklies = append(weeklies, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weekly allocations: %w", err)
	}
	return weeklies, nil
}

func (r *SQLiteWeeklyRepo) Update(ctx context.Context, w *domain.WeeklyAllocation) error {
	query := `UPDATE weekly_allocations SET proposed_hours = ?, approved_hours = ?, status = ?, rationale = ?, updated_at = ?
		WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		w.ProposedHours,
		nullableFloatToValue(w.ApprovedHours),
		string(w.Status),
		w.Rationale,
		w.UpdatedAt.Format(time.RFC3339),
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating weekly allocation: %w", err)
	}
	return nil
}

func (r *SQLiteWeeklyRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM weekly_allocations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting weekly allocation: %w", err)
	}
	return nil
}

func (r *SQLiteWeeklyRepo) SumPlannedHours(ctx context.Context, allocationID string) (float64, error) {
	query := `SELECT COALESCE(SUM(CASE WHEN approved_hours IS NOT NULL THEN approved_hours ELSE proposed_hours END), 0)
		FROM weekly_allocations
		WHERE allocation_id = ? AND status != 'REJECTED'`
	var total float64
	if err := r.db.QueryRowContext(ctx, query, allocationID).Scan(&total); err != nil {
		return 0, fmt.Errorf("summing planned hours: %w", err)
	}
	return total, nil
}

func scanWeekly(scan func(dest ...any) error) (*domain.WeeklyAllocation, error) {
	var w domain.WeeklyAllocation
	var weekStartStr, statusStr, createdAtStr, updatedAtStr string
	var approved sql.NullFloat64

	err := scan(&w.ID, &w.AllocationID, &weekStartStr, &w.ProposedHours, &approved,
		&statusStr, &w.Rationale, &createdAtStr, &updatedAtStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("weekly allocation not found")
		}
		return nil, fmt.Errorf("scanning weekly allocation: %w", err)
	}

	w.Status = domain.WeeklyStatus(statusStr)
	if approved.Valid {
		v := approved.Float64
		w.ApprovedHours = &v
	}

	var parseErr error
	w.WeekStart, parseErr = time.Parse(dateLayout, weekStartStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing week_start: %w", parseErr)
	}
	w.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	w.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &w, nil
}
